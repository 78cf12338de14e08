package hw

//go:generate go tool stringer -type=Reg -trimprefix=Reg -output=regs_string.go

// Reg identifies a CPU register, either one of the 8-bit registers or a
// 16-bit pair/word register. Most accessors are width-checked: using a pair
// where an 8-bit register is expected is a bug in the emulator, not a
// property of the emulated program, so it panics.
type Reg uint8

const (
	RegA Reg = iota
	RegB
	RegC
	RegD
	RegE
	RegF
	RegH
	RegL
	RegAF
	RegBC
	RegDE
	RegHL
	RegSP
	RegPC
)

// Flags is the value of the F register. Only the top nibble holds state, the
// low nibble always reads zero.
type Flags uint8

const (
	FlagZ Flags = 0x80 // zero
	FlagN Flags = 0x40 // subtract
	FlagH Flags = 0x20 // half-carry
	FlagC Flags = 0x10 // carry

	flagMask Flags = 0xF0
)

// String formats the flag set as "znhc", uppercase for set bits.
func (f Flags) String() string {
	buf := []byte{'z', 'n', 'h', 'c'}
	if f&FlagZ != 0 {
		buf[0] = 'Z'
	}
	if f&FlagN != 0 {
		buf[1] = 'N'
	}
	if f&FlagH != 0 {
		buf[2] = 'H'
	}
	if f&FlagC != 0 {
		buf[3] = 'C'
	}
	return string(buf)
}

// Regs is the register file: eight 8-bit registers addressable singly or as
// 16-bit pairs (most-significant register holds the high byte), plus the
// stack pointer and program counter.
type Regs struct {
	A, B, C, D, E uint8
	F             Flags
	H, L          uint8
	SP, PC        uint16
}

// Reset puts the register file in its power-up state. The program counter
// starts at the boot overlay entry when one is mapped, at the cartridge
// entry point otherwise.
func (r *Regs) Reset(hasBoot bool) {
	*r = Regs{SP: 0xFFFE}
	if !hasBoot {
		r.PC = 0x0100
	}
}

// Read returns the value of an 8-bit register.
func (r *Regs) Read(reg Reg) uint8 {
	switch reg {
	case RegA:
		return r.A
	case RegB:
		return r.B
	case RegC:
		return r.C
	case RegD:
		return r.D
	case RegE:
		return r.E
	case RegF:
		return uint8(r.F)
	case RegH:
		return r.H
	case RegL:
		return r.L
	}
	panic("regs: " + reg.String() + " not addressable as 8-bit")
}

// Write sets the value of an 8-bit register. The low nibble of F is
// discarded.
func (r *Regs) Write(reg Reg, v uint8) {
	switch reg {
	case RegA:
		r.A = v
	case RegB:
		r.B = v
	case RegC:
		r.C = v
	case RegD:
		r.D = v
	case RegE:
		r.E = v
	case RegF:
		r.F = Flags(v) & flagMask
	case RegH:
		r.H = v
	case RegL:
		r.L = v
	default:
		panic("regs: " + reg.String() + " not addressable as 8-bit")
	}
}

// Read16 returns the value of a pair or word register, pairs composing as
// high:low.
func (r *Regs) Read16(reg Reg) uint16 {
	switch reg {
	case RegAF:
		return uint16(r.A)<<8 | uint16(r.F)
	case RegBC:
		return uint16(r.B)<<8 | uint16(r.C)
	case RegDE:
		return uint16(r.D)<<8 | uint16(r.E)
	case RegHL:
		return uint16(r.H)<<8 | uint16(r.L)
	case RegSP:
		return r.SP
	case RegPC:
		return r.PC
	}
	panic("regs: " + reg.String() + " not addressable as 16-bit")
}

// Write16 sets the value of a pair or word register.
func (r *Regs) Write16(reg Reg, v uint16) {
	hi, lo := uint8(v>>8), uint8(v)
	switch reg {
	case RegAF:
		r.A, r.F = hi, Flags(lo)&flagMask
	case RegBC:
		r.B, r.C = hi, lo
	case RegDE:
		r.D, r.E = hi, lo
	case RegHL:
		r.H, r.L = hi, lo
	case RegSP:
		r.SP = v
	case RegPC:
		r.PC = v
	default:
		panic("regs: " + reg.String() + " not addressable as 16-bit")
	}
}

func (r *Regs) Flag(f Flags) bool { return r.F&f != 0 }

func (r *Regs) SetFlag(f Flags, on bool) {
	if on {
		r.F |= f
	} else {
		r.F &^= f
	}
}

// setZNHC replaces the whole flag nibble at once.
func (r *Regs) setZNHC(z, n, h, c bool) {
	r.F = Flags(b2u8(z))<<7 | Flags(b2u8(n))<<6 | Flags(b2u8(h))<<5 | Flags(b2u8(c))<<4
}

// AdvancePC returns the current program counter then increments it. One call
// per fetched byte.
func (r *Regs) AdvancePC() uint16 {
	pc := r.PC
	r.PC++
	return pc
}

// SetPC jumps to addr and returns the previous program counter.
func (r *Regs) SetPC(addr uint16) uint16 {
	pc := r.PC
	r.PC = addr
	return pc
}

// AddPC displaces the program counter by a signed offset.
func (r *Regs) AddPC(delta int8) {
	r.PC += uint16(int16(delta))
}

// Copy copies src into dst, both 8-bit. Safe when dst == src.
func (r *Regs) Copy(dst, src Reg) {
	r.Write(dst, r.Read(src))
}

// Copy16 copies src into dst, both 16-bit. Safe when dst == src.
func (r *Regs) Copy16(dst, src Reg) {
	r.Write16(dst, r.Read16(src))
}
