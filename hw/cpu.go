package hw

import (
	"io"

	"gbor/emu/log"
	"gbor/hw/snapshot"
)

// Clock rate and frame timing.
const (
	GBFrequency = 4194304 // cycles per second

	CyclesPerLine  = 456
	LinesPerFrame  = 154
	CyclesPerFrame = CyclesPerLine * LinesPerFrame
	VBlankLine     = 144
)

// CPU interprets decoded instructions against the register file and the
// address space. Stepping is synchronous and single threaded: one call, one
// instruction, no suspension points.
type CPU struct {
	Regs Regs
	Mem  *AddrSpace

	Cycles int64
	State  CPUState
	Freq   int64

	// interrupt master enable, toggled by DI/EI.
	ime bool

	// Non-nil when execution tracing is enabled.
	tracer *tracer
}

// NewCPU creates a CPU at power-up state, attached to mem.
func NewCPU(mem *AddrSpace) *CPU {
	cpu := &CPU{
		Mem:  mem,
		Freq: GBFrequency,
	}
	cpu.Reset()
	return cpu
}

// Reset restores power-up state: registers cleared, SP at the top of
// internal RAM, PC at the entry point (0x0000 when a boot overlay is
// mapped, 0x0100 otherwise).
func (c *CPU) Reset() {
	c.Regs.Reset(c.Mem.BootEnabled())
	c.Cycles = 0
	c.State = Running
	c.ime = true
}

// Step executes one instruction and returns its cycle cost. While Halted or
// Stopped nothing executes and the cost is zero; if interrupts are disabled
// at that point the machine can never resume, which is reported.
func (c *CPU) Step() uint32 {
	if c.State != Running {
		if !c.ime {
			log.ModCPU.WarnZ("suspended with interrupts disabled, machine is stuck").
				Stringer("state", c.State).
				End()
		}
		return 0
	}

	c.traceOp()

	pc := c.Regs.PC
	in := Decode(&c.Regs, c.Mem)
	op := ops[in.Opcode]
	if op == nil {
		log.ModCPU.PanicZ("no behavior for opcode").
			Hex8("opcode", in.Opcode).
			Hex16("pc", pc).
			End()
	}
	op(c, in)

	c.Cycles += int64(in.Cycles)
	return uint32(in.Cycles)
}

// Run steps the CPU for at most ncycles cycles. It returns early when the
// machine leaves the Running state.
func (c *CPU) Run(ncycles int64) {
	until := c.Cycles + ncycles
	for c.Cycles < until {
		if c.Step() == 0 {
			break
		}
	}
}

// Interrupt delivers an external interrupt signal. Vector dispatch is not
// modeled: delivery forces the state machine back to Running, which is what
// wakes a halted or stopped CPU.
func (c *CPU) Interrupt(sig IntSignal) {
	log.ModCPU.DebugZ("interrupt").Stringer("signal", sig).End()
	c.State = Running
}

// InterruptsEnabled reports the interrupt enable flag; the surrounding
// machine uses it as its delivery policy.
func (c *CPU) InterruptsEnabled() bool {
	return c.ime
}

/* stack operations */

func (c *CPU) push16(v uint16) {
	c.Regs.SP -= 2
	c.Mem.Write16(c.Regs.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.Mem.Read16(c.Regs.SP)
	c.Regs.SP += 2
	return v
}

/* snapshots */

func (c *CPU) SaveState() *snapshot.CPU {
	return &snapshot.CPU{
		A:      c.Regs.A,
		B:      c.Regs.B,
		C:      c.Regs.C,
		D:      c.Regs.D,
		E:      c.Regs.E,
		F:      uint8(c.Regs.F),
		H:      c.Regs.H,
		L:      c.Regs.L,
		SP:     c.Regs.SP,
		PC:     c.Regs.PC,
		Cycles: c.Cycles,
		State:  uint8(c.State),
		IME:    c.ime,
	}
}

func (c *CPU) LoadState(state *snapshot.CPU) {
	c.Regs.A = state.A
	c.Regs.B = state.B
	c.Regs.C = state.C
	c.Regs.D = state.D
	c.Regs.E = state.E
	c.Regs.F = Flags(state.F) & flagMask
	c.Regs.H = state.H
	c.Regs.L = state.L
	c.Regs.SP = state.SP
	c.Regs.PC = state.PC
	c.Cycles = state.Cycles
	c.State = CPUState(state.State)
	c.ime = state.IME
}

/* tracing */

// SetTraceOutput enables execution tracing: one line per instruction
// written to w.
func (c *CPU) SetTraceOutput(w io.Writer) {
	c.tracer = &tracer{w: w, d: c}
}

// Disasm decodes the instruction at pc without executing it.
func (c *CPU) Disasm(pc uint16) DisasmOp {
	opcode := c.Mem.Read(pc)
	return disasmOps[opcode](c, pc)
}

func (c *CPU) traceOp() {
	if c.tracer != nil {
		c.tracer.write(cpuState{
			Regs:  c.Regs,
			Clock: c.Cycles,
		})
	}
}

// AddLogContext implements log.Contexter so every log line carries the
// execution position.
func (c *CPU) AddLogContext(e *log.EntryZ) {
	e.Hex16("pc", c.Regs.PC).Int64("clock", c.Cycles)
}
