package memory

import "fmt"

type Memory int64

const (
	Byte     Memory = 1
	Kilobyte        = 1024 * Byte
	Megabyte        = 1024 * Kilobyte
	Gigabyte        = 1024 * Megabyte
)

func (d Memory) Bytes() int64 { return int64(d) }

func (d Memory) Kilobytes() int64 { return int64(d) / int64(Kilobyte) }

func (d Memory) Megabytes() int64 { return int64(d) / int64(Megabyte) }

func (d Memory) Gigabytes() int64 { return int64(d) / int64(Gigabyte) }

// String renders the size in the largest whole unit, e.g. 10MB or 512B.
func (d Memory) String() string {
	switch {
	case d >= Gigabyte && d%Gigabyte == 0:
		return fmt.Sprintf("%dGB", d.Gigabytes())
	case d >= Megabyte && d%Megabyte == 0:
		return fmt.Sprintf("%dMB", d.Megabytes())
	case d >= Kilobyte && d%Kilobyte == 0:
		return fmt.Sprintf("%dKB", d.Kilobytes())
	default:
		return fmt.Sprintf("%dB", d.Bytes())
	}
}
