package hw

import "gbor/emu/log"

// Opcode behaviors. Instruction semantics live in small named functions and
// factories; the dispatch table at the bottom maps the opcode space onto
// them. Holes in the instruction set are nil entries: decoding one is
// survivable, dispatching one is not, and the caller treats nil as fatal.

// source fetches the right-hand operand of an accumulator operation.
type source func(*CPU, Instr) uint8

func fromReg(r Reg) source { return func(c *CPU, _ Instr) uint8 { return c.Regs.Read(r) } }

func fromInd(c *CPU, _ Instr) uint8 { return c.Mem.Read(c.Regs.Read16(RegHL)) }

func fromImm(_ *CPU, in Instr) uint8 { return in.Param(0) }

/* loads */

func ld(dst, src Reg) func(*CPU, Instr) {
	return func(c *CPU, _ Instr) { c.Regs.Copy(dst, src) }
}

func ldImm(dst Reg) func(*CPU, Instr) {
	return func(c *CPU, in Instr) { c.Regs.Write(dst, in.Param(0)) }
}

func ldImm16(dst Reg) func(*CPU, Instr) {
	return func(c *CPU, in Instr) { c.Regs.Write16(dst, in.Param16()) }
}

func ldMem(dst, ptr Reg) func(*CPU, Instr) {
	return func(c *CPU, _ Instr) { c.Regs.Write(dst, c.Mem.Read(c.Regs.Read16(ptr))) }
}

func stMem(ptr, src Reg) func(*CPU, Instr) {
	return func(c *CPU, _ Instr) { c.Mem.Write(c.Regs.Read16(ptr), c.Regs.Read(src)) }
}

// stImm writes the immediate operand to (HL).
func stImm(c *CPU, in Instr) {
	c.Mem.Write(c.Regs.Read16(RegHL), in.Param(0))
}

// Post-increment and post-decrement (HL) forms.

func ldInc(c *CPU, _ Instr) {
	addr := c.Regs.Read16(RegHL)
	c.Regs.A = c.Mem.Read(addr)
	c.Regs.Write16(RegHL, addr+1)
}

func stInc(c *CPU, _ Instr) {
	addr := c.Regs.Read16(RegHL)
	c.Mem.Write(addr, c.Regs.A)
	c.Regs.Write16(RegHL, addr+1)
}

func ldDec(c *CPU, _ Instr) {
	addr := c.Regs.Read16(RegHL)
	c.Regs.A = c.Mem.Read(addr)
	c.Regs.Write16(RegHL, addr-1)
}

func stDec(c *CPU, _ Instr) {
	addr := c.Regs.Read16(RegHL)
	c.Mem.Write(addr, c.Regs.A)
	c.Regs.Write16(RegHL, addr-1)
}

// High page forms, addressing 0xFF00+offset.

func ldhImmA(c *CPU, in Instr) { c.Mem.Write(0xFF00+uint16(in.Param(0)), c.Regs.A) }
func ldhAImm(c *CPU, in Instr) { c.Regs.A = c.Mem.Read(0xFF00 + uint16(in.Param(0))) }
func ldhCA(c *CPU, _ Instr)    { c.Mem.Write(0xFF00+uint16(c.Regs.C), c.Regs.A) }
func ldhAC(c *CPU, _ Instr)    { c.Regs.A = c.Mem.Read(0xFF00 + uint16(c.Regs.C)) }

// Absolute address forms.

func ldAbsA(c *CPU, in Instr) { c.Mem.Write(in.Param16(), c.Regs.A) }
func ldAAbs(c *CPU, in Instr) { c.Regs.A = c.Mem.Read(in.Param16()) }
func ldMemSP(c *CPU, in Instr) {
	c.Mem.Write16(in.Param16(), c.Regs.SP)
}

func ldSPHL(c *CPU, _ Instr) { c.Regs.Copy16(RegSP, RegHL) }

// ldHLSPImm computes the effective address SP+e8 into HL.
func ldHLSPImm(c *CPU, in Instr) {
	c.Regs.Write16(RegHL, c.addSPSigned(int8(in.Param(0))))
}

/* stack */

func push(src Reg) func(*CPU, Instr) {
	return func(c *CPU, _ Instr) { c.push16(c.Regs.Read16(src)) }
}

func pop(dst Reg) func(*CPU, Instr) {
	return func(c *CPU, _ Instr) { c.Regs.Write16(dst, c.pop16()) }
}

/* 8-bit arithmetic */

func add(src source, withCarry bool) func(*CPU, Instr) {
	return func(c *CPU, in Instr) {
		carry := withCarry && c.Regs.Flag(FlagC)
		c.Regs.A = c.add8(c.Regs.A, src(c, in), carry)
	}
}

func sub(src source, withCarry bool) func(*CPU, Instr) {
	return func(c *CPU, in Instr) {
		carry := withCarry && c.Regs.Flag(FlagC)
		c.Regs.A = c.sub8(c.Regs.A, src(c, in), carry)
	}
}

// cp is sub without writeback.
func cp(src source) func(*CPU, Instr) {
	return func(c *CPU, in Instr) { c.sub8(c.Regs.A, src(c, in), false) }
}

func and(src source) func(*CPU, Instr) {
	return func(c *CPU, in Instr) { c.and8(src(c, in)) }
}

func or(src source) func(*CPU, Instr) {
	return func(c *CPU, in Instr) { c.or8(src(c, in)) }
}

func xor(src source) func(*CPU, Instr) {
	return func(c *CPU, in Instr) { c.xor8(src(c, in)) }
}

func incReg(r Reg) func(*CPU, Instr) {
	return func(c *CPU, _ Instr) { c.Regs.Write(r, c.add8(c.Regs.Read(r), 1, false)) }
}

func decReg(r Reg) func(*CPU, Instr) {
	return func(c *CPU, _ Instr) { c.Regs.Write(r, c.sub8(c.Regs.Read(r), 1, false)) }
}

func incInd(c *CPU, _ Instr) {
	addr := c.Regs.Read16(RegHL)
	c.Mem.Write(addr, c.add8(c.Mem.Read(addr), 1, false))
}

func decInd(c *CPU, _ Instr) {
	addr := c.Regs.Read16(RegHL)
	c.Mem.Write(addr, c.sub8(c.Mem.Read(addr), 1, false))
}

/* 16-bit arithmetic */

func addHLReg(src Reg) func(*CPU, Instr) {
	return func(c *CPU, _ Instr) { c.addHL(c.Regs.Read16(src)) }
}

func addSPImm(c *CPU, in Instr) {
	c.Regs.SP = c.addSPSigned(int8(in.Param(0)))
}

// The 16-bit increment and decrement forms touch no flags and wrap.

func incReg16(r Reg) func(*CPU, Instr) {
	return func(c *CPU, _ Instr) { c.Regs.Write16(r, c.Regs.Read16(r)+1) }
}

func decReg16(r Reg) func(*CPU, Instr) {
	return func(c *CPU, _ Instr) { c.Regs.Write16(r, c.Regs.Read16(r)-1) }
}

/* accumulator rotates */

// The accumulator forms share the extended-space flag law: Z tracks the
// result instead of being forced clear.

func rlca(c *CPU, _ Instr) { c.Regs.A = c.rlc(c.Regs.A) }
func rla(c *CPU, _ Instr)  { c.Regs.A = c.rl(c.Regs.A) }
func rrca(c *CPU, _ Instr) { c.Regs.A = c.rrc(c.Regs.A) }
func rra(c *CPU, _ Instr)  { c.Regs.A = c.rr(c.Regs.A) }

/* flag and control */

func daa(c *CPU, _ Instr) { c.daa() }

func cpl(c *CPU, _ Instr) {
	c.Regs.A ^= 0xFF
	c.Regs.SetFlag(FlagN, true)
	c.Regs.SetFlag(FlagH, true)
}

func ccf(c *CPU, _ Instr) {
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagH, false)
	c.Regs.SetFlag(FlagC, !c.Regs.Flag(FlagC))
}

func scf(c *CPU, _ Instr) {
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagH, false)
	c.Regs.SetFlag(FlagC, true)
}

func nop(*CPU, Instr) {}

func halt(c *CPU, _ Instr) {
	c.State = Halted
}

// stop suspends the machine until an external signal. The operand byte is
// part of the encoding and must be zero; anything else is an instruction
// form with no defined behavior.
func stop(c *CPU, in Instr) {
	if v := in.Param(0); v != 0 {
		log.ModCPU.PanicZ("no behavior for stop form").
			Hex8("operand", v).
			Hex16("pc", c.Regs.PC).
			End()
	}
	c.State = Stopped
}

func di(c *CPU, _ Instr) { c.ime = false }
func ei(c *CPU, _ Instr) { c.ime = true }

/* jumps */

// Condition selectors for the conditional rows.
const (
	condNZ = iota
	condZ
	condNC
	condC
)

func (c *CPU) cond(sel int) bool {
	switch sel {
	case condNZ:
		return !c.Regs.Flag(FlagZ)
	case condZ:
		return c.Regs.Flag(FlagZ)
	case condNC:
		return !c.Regs.Flag(FlagC)
	default:
		return c.Regs.Flag(FlagC)
	}
}

func jp(c *CPU, in Instr) { c.Regs.SetPC(in.Param16()) }

func jpIf(sel int) func(*CPU, Instr) {
	return func(c *CPU, in Instr) {
		if c.cond(sel) {
			c.Regs.SetPC(in.Param16())
		}
	}
}

func jpHL(c *CPU, _ Instr) { c.Regs.SetPC(c.Regs.Read16(RegHL)) }

func jr(c *CPU, in Instr) { c.Regs.AddPC(int8(in.Param(0))) }

func jrIf(sel int) func(*CPU, Instr) {
	return func(c *CPU, in Instr) {
		if c.cond(sel) {
			c.Regs.AddPC(int8(in.Param(0)))
		}
	}
}

func call(c *CPU, in Instr) {
	c.push16(c.Regs.PC)
	c.Regs.SetPC(in.Param16())
}

func callIf(sel int) func(*CPU, Instr) {
	return func(c *CPU, in Instr) {
		if c.cond(sel) {
			c.push16(c.Regs.PC)
			c.Regs.SetPC(in.Param16())
		}
	}
}

func ret(c *CPU, _ Instr) { c.Regs.SetPC(c.pop16()) }

func retIf(sel int) func(*CPU, Instr) {
	return func(c *CPU, _ Instr) {
		if c.cond(sel) {
			c.Regs.SetPC(c.pop16())
		}
	}
}

func reti(c *CPU, _ Instr) {
	c.Regs.SetPC(c.pop16())
	c.ime = true
}

func rst(vec uint16) func(*CPU, Instr) {
	return func(c *CPU, _ Instr) {
		c.push16(c.Regs.PC)
		c.Regs.SetPC(vec)
	}
}

/* extended opcode space */

// cbTargets is the register column order of the extended space; index 6
// targets (HL) through memory instead.
var cbTargets = [8]Reg{RegB, RegC, RegD, RegE, RegH, RegL, RegA, RegA}

// cbShifts holds the rotate/shift/swap rows of the extended space.
var cbShifts = [8]func(*CPU, uint8) uint8{
	(*CPU).rlc, (*CPU).rrc, (*CPU).rl, (*CPU).rr,
	(*CPU).sla, (*CPU).sra, (*CPU).swap, (*CPU).srl,
}

// extended dispatches the whole two-byte opcode space from its layout:
// sub>>3 selects the operation row, sub&7 the target column in hardware
// order B, C, D, E, H, L, (HL), A.
func extended(c *CPU, in Instr) {
	sub := in.Param(0)
	tgt := sub & 7
	op := sub >> 3

	get := func() uint8 {
		if tgt == 6 {
			return c.Mem.Read(c.Regs.Read16(RegHL))
		}
		return c.Regs.Read(cbTargets[tgt])
	}
	set := func(v uint8) {
		if tgt == 6 {
			c.Mem.Write(c.Regs.Read16(RegHL), v)
			return
		}
		c.Regs.Write(cbTargets[tgt], v)
	}

	switch {
	case op < 8:
		set(cbShifts[op](c, get()))
	case op < 16: // bit
		c.bitTest(get(), op&7)
	case op < 24: // res
		set(get() &^ (1 << (op & 7)))
	default: // set
		set(get() | 1<<(op&7))
	}
}

// Opcode dispatch table.
var ops = [256]func(*CPU, Instr){
	0x00: nop,
	0x01: ldImm16(RegBC),
	0x02: stMem(RegBC, RegA),
	0x03: incReg16(RegBC),
	0x04: incReg(RegB),
	0x05: decReg(RegB),
	0x06: ldImm(RegB),
	0x07: rlca,
	0x08: ldMemSP,
	0x09: addHLReg(RegBC),
	0x0A: ldMem(RegA, RegBC),
	0x0B: decReg16(RegBC),
	0x0C: incReg(RegC),
	0x0D: decReg(RegC),
	0x0E: ldImm(RegC),
	0x0F: rrca,

	0x10: stop,
	0x11: ldImm16(RegDE),
	0x12: stMem(RegDE, RegA),
	0x13: incReg16(RegDE),
	0x14: incReg(RegD),
	0x15: decReg(RegD),
	0x16: ldImm(RegD),
	0x17: rla,
	0x18: jr,
	0x19: addHLReg(RegDE),
	0x1A: ldMem(RegA, RegDE),
	0x1B: decReg16(RegDE),
	0x1C: incReg(RegE),
	0x1D: decReg(RegE),
	0x1E: ldImm(RegE),
	0x1F: rra,

	0x20: jrIf(condNZ),
	0x21: ldImm16(RegHL),
	0x22: stInc,
	0x23: incReg16(RegHL),
	0x24: incReg(RegH),
	0x25: decReg(RegH),
	0x26: ldImm(RegH),
	0x27: daa,
	0x28: jrIf(condZ),
	0x29: addHLReg(RegHL),
	0x2A: ldInc,
	0x2B: decReg16(RegHL),
	0x2C: incReg(RegL),
	0x2D: decReg(RegL),
	0x2E: ldImm(RegL),
	0x2F: cpl,

	0x30: jrIf(condNC),
	0x31: ldImm16(RegSP),
	0x32: stDec,
	0x33: incReg16(RegSP),
	0x34: incInd,
	0x35: decInd,
	0x36: stImm,
	0x37: scf,
	0x38: jrIf(condC),
	0x39: addHLReg(RegSP),
	0x3A: ldDec,
	0x3B: decReg16(RegSP),
	0x3C: incReg(RegA),
	0x3D: decReg(RegA),
	0x3E: ldImm(RegA),
	0x3F: ccf,

	0x40: ld(RegB, RegB),
	0x41: ld(RegB, RegC),
	0x42: ld(RegB, RegD),
	0x43: ld(RegB, RegE),
	0x44: ld(RegB, RegH),
	0x45: ld(RegB, RegL),
	0x46: ldMem(RegB, RegHL),
	0x47: ld(RegB, RegA),
	0x48: ld(RegC, RegB),
	0x49: ld(RegC, RegC),
	0x4A: ld(RegC, RegD),
	0x4B: ld(RegC, RegE),
	0x4C: ld(RegC, RegH),
	0x4D: ld(RegC, RegL),
	0x4E: ldMem(RegC, RegHL),
	0x4F: ld(RegC, RegA),

	0x50: ld(RegD, RegB),
	0x51: ld(RegD, RegC),
	0x52: ld(RegD, RegD),
	0x53: ld(RegD, RegE),
	0x54: ld(RegD, RegH),
	0x55: ld(RegD, RegL),
	0x56: ldMem(RegD, RegHL),
	0x57: ld(RegD, RegA),
	0x58: ld(RegE, RegB),
	0x59: ld(RegE, RegC),
	0x5A: ld(RegE, RegD),
	0x5B: ld(RegE, RegE),
	0x5C: ld(RegE, RegH),
	0x5D: ld(RegE, RegL),
	0x5E: ldMem(RegE, RegHL),
	0x5F: ld(RegE, RegA),

	0x60: ld(RegH, RegB),
	0x61: ld(RegH, RegC),
	0x62: ld(RegH, RegD),
	0x63: ld(RegH, RegE),
	0x64: ld(RegH, RegH),
	0x65: ld(RegH, RegL),
	0x66: ldMem(RegH, RegHL),
	0x67: ld(RegH, RegA),
	0x68: ld(RegL, RegB),
	0x69: ld(RegL, RegC),
	0x6A: ld(RegL, RegD),
	0x6B: ld(RegL, RegE),
	0x6C: ld(RegL, RegH),
	0x6D: ld(RegL, RegL),
	0x6E: ldMem(RegL, RegHL),
	0x6F: ld(RegL, RegA),

	0x70: stMem(RegHL, RegB),
	0x71: stMem(RegHL, RegC),
	0x72: stMem(RegHL, RegD),
	0x73: stMem(RegHL, RegE),
	0x74: stMem(RegHL, RegH),
	0x75: stMem(RegHL, RegL),
	0x76: halt,
	0x77: stMem(RegHL, RegA),
	0x78: ld(RegA, RegB),
	0x79: ld(RegA, RegC),
	0x7A: ld(RegA, RegD),
	0x7B: ld(RegA, RegE),
	0x7C: ld(RegA, RegH),
	0x7D: ld(RegA, RegL),
	0x7E: ldMem(RegA, RegHL),
	0x7F: ld(RegA, RegA),

	0x80: add(fromReg(RegB), false),
	0x81: add(fromReg(RegC), false),
	0x82: add(fromReg(RegD), false),
	0x83: add(fromReg(RegE), false),
	0x84: add(fromReg(RegH), false),
	0x85: add(fromReg(RegL), false),
	0x86: add(fromInd, false),
	0x87: add(fromReg(RegA), false),
	0x88: add(fromReg(RegB), true),
	0x89: add(fromReg(RegC), true),
	0x8A: add(fromReg(RegD), true),
	0x8B: add(fromReg(RegE), true),
	0x8C: add(fromReg(RegH), true),
	0x8D: add(fromReg(RegL), true),
	0x8E: add(fromInd, true),
	0x8F: add(fromReg(RegA), true),

	0x90: sub(fromReg(RegB), false),
	0x91: sub(fromReg(RegC), false),
	0x92: sub(fromReg(RegD), false),
	0x93: sub(fromReg(RegE), false),
	0x94: sub(fromReg(RegH), false),
	0x95: sub(fromReg(RegL), false),
	0x96: sub(fromInd, false),
	0x97: sub(fromReg(RegA), false),
	0x98: sub(fromReg(RegB), true),
	0x99: sub(fromReg(RegC), true),
	0x9A: sub(fromReg(RegD), true),
	0x9B: sub(fromReg(RegE), true),
	0x9C: sub(fromReg(RegH), true),
	0x9D: sub(fromReg(RegL), true),
	0x9E: sub(fromInd, true),
	0x9F: sub(fromReg(RegA), true),

	0xA0: and(fromReg(RegB)),
	0xA1: and(fromReg(RegC)),
	0xA2: and(fromReg(RegD)),
	0xA3: and(fromReg(RegE)),
	0xA4: and(fromReg(RegH)),
	0xA5: and(fromReg(RegL)),
	0xA6: and(fromInd),
	0xA7: and(fromReg(RegA)),
	0xA8: xor(fromReg(RegB)),
	0xA9: xor(fromReg(RegC)),
	0xAA: xor(fromReg(RegD)),
	0xAB: xor(fromReg(RegE)),
	0xAC: xor(fromReg(RegH)),
	0xAD: xor(fromReg(RegL)),
	0xAE: xor(fromInd),
	0xAF: xor(fromReg(RegA)),

	0xB0: or(fromReg(RegB)),
	0xB1: or(fromReg(RegC)),
	0xB2: or(fromReg(RegD)),
	0xB3: or(fromReg(RegE)),
	0xB4: or(fromReg(RegH)),
	0xB5: or(fromReg(RegL)),
	0xB6: or(fromInd),
	0xB7: or(fromReg(RegA)),
	0xB8: cp(fromReg(RegB)),
	0xB9: cp(fromReg(RegC)),
	0xBA: cp(fromReg(RegD)),
	0xBB: cp(fromReg(RegE)),
	0xBC: cp(fromReg(RegH)),
	0xBD: cp(fromReg(RegL)),
	0xBE: cp(fromInd),
	0xBF: cp(fromReg(RegA)),

	0xC0: retIf(condNZ),
	0xC1: pop(RegBC),
	0xC2: jpIf(condNZ),
	0xC3: jp,
	0xC4: callIf(condNZ),
	0xC5: push(RegBC),
	0xC6: add(fromImm, false),
	0xC7: rst(0x00),
	0xC8: retIf(condZ),
	0xC9: ret,
	0xCA: jpIf(condZ),
	0xCB: extended,
	0xCC: callIf(condZ),
	0xCD: call,
	0xCE: add(fromImm, true),
	0xCF: rst(0x08),

	0xD0: retIf(condNC),
	0xD1: pop(RegDE),
	0xD2: jpIf(condNC),
	0xD4: callIf(condNC),
	0xD5: push(RegDE),
	0xD6: sub(fromImm, false),
	0xD7: rst(0x10),
	0xD8: retIf(condC),
	0xD9: reti,
	0xDA: jpIf(condC),
	0xDC: callIf(condC),
	0xDE: sub(fromImm, true),
	0xDF: rst(0x18),

	0xE0: ldhImmA,
	0xE1: pop(RegHL),
	0xE2: ldhCA,
	0xE5: push(RegHL),
	0xE6: and(fromImm),
	0xE7: rst(0x20),
	0xE8: addSPImm,
	0xE9: jpHL,
	0xEA: ldAbsA,
	0xEE: xor(fromImm),
	0xEF: rst(0x28),

	0xF0: ldhAImm,
	0xF1: pop(RegAF),
	0xF2: ldhAC,
	0xF3: di,
	0xF5: push(RegAF),
	0xF6: or(fromImm),
	0xF7: rst(0x30),
	0xF8: ldHLSPImm,
	0xF9: ldSPHL,
	0xFA: ldAAbs,
	0xFB: ei,
	0xFE: cp(fromImm),
	0xFF: rst(0x38),
}
