// Package rainforest implements the RainForest 256-bit proof-of-work hash.
//
// RainForest makes the dominant cost of hashing a low-latency, data-dependent
// walk through a 16 KiB mutable scratch table (the "rambox") sized to fit a
// CPU L1 data cache, instead of raw arithmetic throughput. Each 32-bit unit
// of input is folded into a running CRC32C checksum, then driven through four
// serially dependent read-modify-write passes over the rambox, each pass
// diffused through one AES encryption round. The index of every pass depends
// on the accumulator state produced by the previous one, so the walk cannot
// be batched, vectorized or pipelined; hardware without a cheap 16 KiB
// low-latency random-access memory pays a disproportionate penalty. This
// keeps commodity CPUs, low-power ARM cores and GPUs within a fair
// performance band and removes most of the ASIC/FPGA advantage.
//
// This is not a general-purpose cryptographic hash: no collision-resistance
// claim is made beyond the avalanche behavior needed for mining fairness.
package rainforest

const (
	// RamBoxSize 2048 64-bit entries, 16 KiB. The size is load-bearing for
	// the L1 cache residency property and must never change within a hash
	// family.
	RamBoxSize = 2048

	ramBoxMask = RamBoxSize - 1

	// RamBoxLoops Serially dependent rambox passes per hashed 32-bit unit.
	RamBoxLoops = 4
)

const golden = 0x9E3779B97F4A7C15
