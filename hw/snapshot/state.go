// Package snapshot defines the serializable machine state. A snapshot is a
// plain copy of everything the machine needs to resume: it backs save
// states, run-ahead and the remote stop report.
package snapshot

// Version tags the snapshot layout. Bump it on any struct change.
const Version = 1

// GB is the root of a machine snapshot.
type GB struct {
	Version int
	CPU     *CPU
	Mem     *Mem
	Video   *Video
}

// CPU is the execution engine state: the register file, the clock, the
// state machine and the interrupt enable flag.
type CPU struct {
	A, B, C, D, E uint8
	F             uint8
	H, L          uint8
	SP, PC        uint16

	Cycles int64
	State  uint8
	IME    bool
}

// Mem is the address space state. One image is enough: main and backup are
// identical between instructions.
type Mem struct {
	Image       [0x10000]uint8
	BootEnabled bool
}

// Video is the renderer-visible state: the dirty flags accumulated since
// the last frame.
type Video struct {
	Dirty [4]bool
}
