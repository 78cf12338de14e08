package hw

import (
	"fmt"

	"gbor/emu/log"
)

// Instr is one decoded instruction: the opcode byte, its operand bytes and
// its cycle cost. Decoded fresh for every step and discarded after dispatch.
type Instr struct {
	Opcode uint8
	Cycles uint8
	nops   uint8
	ops    [2]uint8
}

// opdef is the decode shape of one opcode: operand byte count and cycle
// cost. A zero cycle cost marks a hole in the instruction set.
type opdef struct {
	nops   uint8
	cycles uint8
}

// Decode shape table, indexed by opcode. 0xCB is the extended opcode prefix:
// its single operand is the sub-opcode and its real cost comes from
// cbCycles.
var opdefs = [256]opdef{
	{0, 4}, {2, 12}, {0, 8}, {0, 8}, {0, 4}, {0, 4}, {1, 8}, {0, 4}, // 0x00
	{2, 20}, {0, 8}, {0, 8}, {0, 8}, {0, 4}, {0, 4}, {1, 8}, {0, 4}, // 0x08
	{1, 4}, {2, 12}, {0, 8}, {0, 8}, {0, 4}, {0, 4}, {1, 8}, {0, 4}, // 0x10
	{1, 8}, {0, 8}, {0, 8}, {0, 8}, {0, 4}, {0, 4}, {1, 8}, {0, 4}, // 0x18
	{1, 8}, {2, 12}, {0, 8}, {0, 8}, {0, 4}, {0, 4}, {1, 8}, {0, 4}, // 0x20
	{1, 8}, {0, 8}, {0, 8}, {0, 8}, {0, 4}, {0, 4}, {1, 8}, {0, 4}, // 0x28
	{1, 8}, {2, 12}, {0, 8}, {0, 8}, {0, 12}, {0, 12}, {1, 12}, {0, 4}, // 0x30
	{1, 8}, {0, 8}, {0, 8}, {0, 8}, {0, 4}, {0, 4}, {1, 8}, {0, 4}, // 0x38
	{0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 8}, {0, 4}, // 0x40
	{0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 8}, {0, 4}, // 0x48
	{0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 8}, {0, 4}, // 0x50
	{0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 8}, {0, 4}, // 0x58
	{0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 8}, {0, 4}, // 0x60
	{0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 8}, {0, 4}, // 0x68
	{0, 8}, {0, 8}, {0, 8}, {0, 8}, {0, 8}, {0, 8}, {0, 4}, {0, 8}, // 0x70
	{0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 8}, {0, 4}, // 0x78
	{0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 8}, {0, 4}, // 0x80
	{0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 8}, {0, 4}, // 0x88
	{0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 8}, {0, 4}, // 0x90
	{0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 8}, {0, 4}, // 0x98
	{0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 8}, {0, 4}, // 0xA0
	{0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 8}, {0, 4}, // 0xA8
	{0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 8}, {0, 4}, // 0xB0
	{0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 8}, {0, 4}, // 0xB8
	{0, 8}, {0, 12}, {2, 12}, {2, 12}, {2, 12}, {0, 16}, {1, 8}, {0, 32}, // 0xC0
	{0, 8}, {0, 8}, {2, 12}, {1, 4}, {2, 12}, {2, 12}, {1, 8}, {0, 32}, // 0xC8
	{0, 8}, {0, 12}, {2, 12}, {0, 0}, {2, 12}, {0, 16}, {1, 8}, {0, 32}, // 0xD0
	{0, 8}, {0, 8}, {2, 12}, {0, 0}, {2, 12}, {0, 0}, {1, 8}, {0, 32}, // 0xD8
	{1, 12}, {0, 12}, {0, 8}, {0, 0}, {0, 0}, {0, 16}, {1, 8}, {0, 32}, // 0xE0
	{1, 16}, {0, 4}, {2, 16}, {0, 0}, {0, 0}, {0, 0}, {1, 8}, {0, 32}, // 0xE8
	{1, 12}, {0, 12}, {0, 8}, {0, 4}, {0, 0}, {0, 16}, {1, 8}, {0, 32}, // 0xF0
	{1, 12}, {0, 8}, {2, 16}, {0, 4}, {0, 0}, {0, 0}, {1, 8}, {0, 32}, // 0xF8
}

// cbCycles prices an extended sub-opcode. Every row of the extended space
// addresses B, C, D, E, H, L, (HL), A in that order; only the (HL) column
// pays the memory round trip.
func cbCycles(sub uint8) uint8 {
	if sub&7 == 6 {
		return 16
	}
	return 8
}

// Decode fetches and decodes one instruction, advancing PC past the opcode
// and its operands. Opcodes without a decode entry still produce a usable
// Instr (no operands, minimum cost) so stepping can continue, but the
// condition is reported.
func Decode(regs *Regs, mem *AddrSpace) Instr {
	opcode := mem.Read(regs.AdvancePC())
	def := opdefs[opcode]
	if def.cycles == 0 {
		log.ModCPU.WarnZ("no decode entry for opcode").
			Hex8("opcode", opcode).
			Hex16("pc", regs.PC-1).
			End()
		def = opdef{nops: 0, cycles: 4}
	}

	in := Instr{Opcode: opcode, Cycles: def.cycles, nops: def.nops}
	for i := uint8(0); i < def.nops; i++ {
		in.ops[i] = mem.Read(regs.AdvancePC())
	}
	if opcode == 0xCB {
		in.Cycles = cbCycles(in.ops[0])
	}
	return in
}

// Param returns operand byte n.
func (i Instr) Param(n int) uint8 {
	if n >= int(i.nops) {
		panic(fmt.Sprintf("instr %02X: operand %d out of range", i.Opcode, n))
	}
	return i.ops[n]
}

// Param16 returns the little endian composition of the two operand bytes.
func (i Instr) Param16() uint16 {
	if i.nops != 2 {
		panic(fmt.Sprintf("instr %02X: no 16-bit operand", i.Opcode))
	}
	return uint16(i.ops[1])<<8 | uint16(i.ops[0])
}
