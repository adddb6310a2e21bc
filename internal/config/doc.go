// Package config defines the station settings and loads them from YAML.
//
// Every field is optional. A missing file or an omitted field falls back to
// the defaults of a stock station: BCM pins 17/27/22/23 for the inputs,
// 24/25 for the buzzer and lamp, the firmware delays, and the threshold
// stored at 0x2000 in a flash image next to the binary.
package config
