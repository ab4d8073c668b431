// File: pool/sizeclass.go
// Author: momentics <momentics@gmail.com>
//
// Fixed size-class table for the byte-buffer pool.

package pool

// SizeClassConfig holds the byte size and capacity cap of one size class.
type SizeClassConfig struct {
	Size     int
	Capacity int
}

// MemoryPoolConfig configures all five size classes.
type MemoryPoolConfig struct {
	ExtraSmall SizeClassConfig
	Small      SizeClassConfig
	Medium     SizeClassConfig
	Large      SizeClassConfig
	ExtraLarge SizeClassConfig
}

// DefaultMemoryPoolConfig returns the recommended defaults from the
// configuration table: 16/64/256/1024/4096 bytes, 2 per class.
func DefaultMemoryPoolConfig() MemoryPoolConfig {
	return MemoryPoolConfig{
		ExtraSmall: SizeClassConfig{Size: 16, Capacity: 2},
		Small:      SizeClassConfig{Size: 64, Capacity: 2},
		Medium:     SizeClassConfig{Size: 256, Capacity: 2},
		Large:      SizeClassConfig{Size: 1024, Capacity: 2},
		ExtraLarge: SizeClassConfig{Size: 4096, Capacity: 2},
	}
}

func (c MemoryPoolConfig) classes() [5]SizeClassConfig {
	return [5]SizeClassConfig{c.ExtraSmall, c.Small, c.Medium, c.Large, c.ExtraLarge}
}
