package hw

//go:generate go tool stringer -type=CPUState -output=cpustate_string.go
//go:generate go tool stringer -type=IntSignal -trimprefix=Int -output=intsignal_string.go

// CPUState is the execution engine state machine. The CPU powers up Running.
// HALT moves it to Halted, STOP to Stopped, and only an external interrupt
// signal brings it back to Running.
type CPUState uint8

const (
	Running CPUState = iota
	Halted
	Stopped
)

// IntSignal enumerates the interrupt sources a collaborator may deliver to
// the CPU. Only delivery is modeled: a signal wakes a halted or stopped CPU,
// there is no vector dispatch.
type IntSignal uint8

const (
	IntVBlank IntSignal = iota
	IntLCDStat
	IntTimer
	IntSerial
	IntJoypad
)
