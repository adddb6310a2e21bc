package nvm

import "fmt"

// Op records a single call made on a FakeMemory.
type Op struct {
	Kind string // "read", "write" or "erase"
	Addr uint16
	Byte byte // written byte (write only)
}

func (o Op) String() string {
	if o.Kind == "write" {
		return fmt.Sprintf("write(0x%04X, %d)", o.Addr, o.Byte)
	}
	return fmt.Sprintf("%s(0x%04X)", o.Kind, o.Addr)
}

// FakeMemory is a test double backed by a Flash that records every call.
type FakeMemory struct {
	*Flash

	// Ops contains every call in order, including failed ones.
	Ops []Op

	// ReadError, if set, will be returned by Read.
	ReadError error

	// WriteError, if set, will be returned by Write.
	WriteError error

	// EraseError, if set, will be returned by Erase.
	EraseError error

	// FailWrites makes the next FailWrites calls to Write fail before any
	// byte is programmed.
	FailWrites int
}

// NewFakeMemory creates an erased fake device with the default geometry.
func NewFakeMemory() *FakeMemory {
	return &FakeMemory{Flash: NewFlash(DefaultBase, DefaultSize)}
}

// Read records and performs a read.
func (f *FakeMemory) Read(addr uint16) (byte, error) {
	f.Ops = append(f.Ops, Op{Kind: "read", Addr: addr})
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	return f.Flash.Read(addr)
}

// Write records and performs a write.
func (f *FakeMemory) Write(addr uint16, b byte) error {
	f.Ops = append(f.Ops, Op{Kind: "write", Addr: addr, Byte: b})
	if f.FailWrites > 0 {
		f.FailWrites--
		return fmt.Errorf("simulated write failure at 0x%04X", addr)
	}
	if f.WriteError != nil {
		return f.WriteError
	}
	return f.Flash.Write(addr, b)
}

// Erase records and performs a sector erase.
func (f *FakeMemory) Erase(addr uint16) error {
	f.Ops = append(f.Ops, Op{Kind: "erase", Addr: addr})
	if f.EraseError != nil {
		return f.EraseError
	}
	return f.Flash.Erase(addr)
}

// Poke sets a byte directly, bypassing erase semantics and the op log.
func (f *FakeMemory) Poke(addr uint16, b byte) {
	off, err := f.Flash.offset(addr)
	if err != nil {
		panic(err)
	}
	f.Flash.data[off] = b
}

// Reset clears recorded calls and injected errors.
func (f *FakeMemory) Reset() {
	f.Ops = nil
	f.ReadError = nil
	f.WriteError = nil
	f.EraseError = nil
	f.FailWrites = 0
}
