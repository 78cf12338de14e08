package hw

import (
	"bytes"
	"fmt"
	"io"
)

// disasm runs a CPU while printing each executed instruction, together with
// the register state it executes against.
type disasm struct {
	cpu *CPU
	bb  bytes.Buffer

	w io.Writer
}

func NewDisasm(cpu *CPU, w io.Writer) *disasm {
	return &disasm{
		cpu: cpu,
		w:   w,
	}
}

// Run steps the CPU for at most ncycles cycles, one line of output per
// instruction. Like CPU.Run, it returns early if the machine suspends.
func (d *disasm) Run(ncycles int64) {
	until := d.cpu.Cycles + ncycles
	for d.cpu.Cycles < until {
		d.op(d.cpu.Regs.PC)
		if d.cpu.Step() == 0 {
			break
		}
	}
}

func (d *disasm) op(pc uint16) {
	d.bb.Reset()

	dis := d.cpu.Disasm(pc)
	fmt.Fprintf(&d.bb, "%-34s A:%02X F:%s BC:%04X DE:%04X HL:%04X SP:%04X CYC:%d\n",
		dis, d.cpu.Regs.A, d.cpu.Regs.F,
		d.cpu.Regs.Read16(RegBC), d.cpu.Regs.Read16(RegDE), d.cpu.Regs.Read16(RegHL),
		d.cpu.Regs.SP, d.cpu.Cycles)
	d.w.Write(d.bb.Bytes())
}

// disassembly helpers
//
// A disasmFunc builds the disassembled form of the instruction at pc. It
// reads through the address space, which is side effect free, so
// disassembling never perturbs the machine.

type disasmFunc func(*CPU, uint16) DisasmOp

// dis_imp: nothing follows the mnemonic.
func dis_imp(op string) disasmFunc {
	return func(c *CPU, pc uint16) DisasmOp {
		return DisasmOp{Opcode: op, Buf: []byte{c.Mem.Read(pc)}, PC: pc}
	}
}

// dis_ops: operands are registers, spelled in the mnemonic itself.
func dis_ops(op, oper string) disasmFunc {
	return func(c *CPU, pc uint16) DisasmOp {
		return DisasmOp{Opcode: op, Oper: oper, Buf: []byte{c.Mem.Read(pc)}, PC: pc}
	}
}

// dis_d8: one immediate byte, oper contains its format verb.
func dis_d8(op, oper string) disasmFunc {
	return func(c *CPU, pc uint16) DisasmOp {
		v := c.Mem.Read(pc + 1)
		return DisasmOp{
			Opcode: op,
			Oper:   fmt.Sprintf(oper, v),
			Buf:    []byte{c.Mem.Read(pc), v},
			PC:     pc,
		}
	}
}

// dis_d16: a 16-bit immediate, low byte first.
func dis_d16(op, oper string) disasmFunc {
	return func(c *CPU, pc uint16) DisasmOp {
		lo, hi := c.Mem.Read(pc+1), c.Mem.Read(pc+2)
		return DisasmOp{
			Opcode: op,
			Oper:   fmt.Sprintf(oper, uint16(hi)<<8|uint16(lo)),
			Buf:    []byte{c.Mem.Read(pc), lo, hi},
			PC:     pc,
		}
	}
}

// dis_r8: a signed displacement, shown resolved to its absolute target.
func dis_r8(op, oper string) disasmFunc {
	return func(c *CPU, pc uint16) DisasmOp {
		v := c.Mem.Read(pc + 1)
		target := pc + 2 + uint16(int16(int8(v)))
		return DisasmOp{
			Opcode: op,
			Oper:   fmt.Sprintf(oper, target),
			Buf:    []byte{c.Mem.Read(pc), v},
			PC:     pc,
		}
	}
}

// dis_und: hole in the instruction set.
func dis_und() disasmFunc {
	return func(c *CPU, pc uint16) DisasmOp {
		return DisasmOp{Opcode: "*UND", Buf: []byte{c.Mem.Read(pc)}, PC: pc}
	}
}

var cbShiftNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}
var cbTargetNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// dis_cb: the extended space decodes from its layout, like execution does.
func dis_cb() disasmFunc {
	return func(c *CPU, pc uint16) DisasmOp {
		sub := c.Mem.Read(pc + 1)
		tgt := cbTargetNames[sub&7]

		var op, oper string
		switch row := sub >> 3; {
		case row < 8:
			op, oper = cbShiftNames[row], tgt
		case row < 16:
			op, oper = "BIT", fmt.Sprintf("%d,%s", row&7, tgt)
		case row < 24:
			op, oper = "RES", fmt.Sprintf("%d,%s", row&7, tgt)
		default:
			op, oper = "SET", fmt.Sprintf("%d,%s", row&7, tgt)
		}
		return DisasmOp{Opcode: op, Oper: oper, Buf: []byte{0xCB, sub}, PC: pc}
	}
}

var disasmOps = [256]disasmFunc{
	0x00: dis_imp("NOP"),
	0x01: dis_d16("LD", "BC,$%04X"),
	0x02: dis_ops("LD", "(BC),A"),
	0x03: dis_ops("INC", "BC"),
	0x04: dis_ops("INC", "B"),
	0x05: dis_ops("DEC", "B"),
	0x06: dis_d8("LD", "B,$%02X"),
	0x07: dis_imp("RLCA"),
	0x08: dis_d16("LD", "($%04X),SP"),
	0x09: dis_ops("ADD", "HL,BC"),
	0x0A: dis_ops("LD", "A,(BC)"),
	0x0B: dis_ops("DEC", "BC"),
	0x0C: dis_ops("INC", "C"),
	0x0D: dis_ops("DEC", "C"),
	0x0E: dis_d8("LD", "C,$%02X"),
	0x0F: dis_imp("RRCA"),

	0x10: dis_d8("STOP", "$%02X"),
	0x11: dis_d16("LD", "DE,$%04X"),
	0x12: dis_ops("LD", "(DE),A"),
	0x13: dis_ops("INC", "DE"),
	0x14: dis_ops("INC", "D"),
	0x15: dis_ops("DEC", "D"),
	0x16: dis_d8("LD", "D,$%02X"),
	0x17: dis_imp("RLA"),
	0x18: dis_r8("JR", "$%04X"),
	0x19: dis_ops("ADD", "HL,DE"),
	0x1A: dis_ops("LD", "A,(DE)"),
	0x1B: dis_ops("DEC", "DE"),
	0x1C: dis_ops("INC", "E"),
	0x1D: dis_ops("DEC", "E"),
	0x1E: dis_d8("LD", "E,$%02X"),
	0x1F: dis_imp("RRA"),

	0x20: dis_r8("JR", "NZ,$%04X"),
	0x21: dis_d16("LD", "HL,$%04X"),
	0x22: dis_ops("LD", "(HL+),A"),
	0x23: dis_ops("INC", "HL"),
	0x24: dis_ops("INC", "H"),
	0x25: dis_ops("DEC", "H"),
	0x26: dis_d8("LD", "H,$%02X"),
	0x27: dis_imp("DAA"),
	0x28: dis_r8("JR", "Z,$%04X"),
	0x29: dis_ops("ADD", "HL,HL"),
	0x2A: dis_ops("LD", "A,(HL+)"),
	0x2B: dis_ops("DEC", "HL"),
	0x2C: dis_ops("INC", "L"),
	0x2D: dis_ops("DEC", "L"),
	0x2E: dis_d8("LD", "L,$%02X"),
	0x2F: dis_imp("CPL"),

	0x30: dis_r8("JR", "NC,$%04X"),
	0x31: dis_d16("LD", "SP,$%04X"),
	0x32: dis_ops("LD", "(HL-),A"),
	0x33: dis_ops("INC", "SP"),
	0x34: dis_ops("INC", "(HL)"),
	0x35: dis_ops("DEC", "(HL)"),
	0x36: dis_d8("LD", "(HL),$%02X"),
	0x37: dis_imp("SCF"),
	0x38: dis_r8("JR", "C,$%04X"),
	0x39: dis_ops("ADD", "HL,SP"),
	0x3A: dis_ops("LD", "A,(HL-)"),
	0x3B: dis_ops("DEC", "SP"),
	0x3C: dis_ops("INC", "A"),
	0x3D: dis_ops("DEC", "A"),
	0x3E: dis_d8("LD", "A,$%02X"),
	0x3F: dis_imp("CCF"),

	0x40: dis_ops("LD", "B,B"),
	0x41: dis_ops("LD", "B,C"),
	0x42: dis_ops("LD", "B,D"),
	0x43: dis_ops("LD", "B,E"),
	0x44: dis_ops("LD", "B,H"),
	0x45: dis_ops("LD", "B,L"),
	0x46: dis_ops("LD", "B,(HL)"),
	0x47: dis_ops("LD", "B,A"),
	0x48: dis_ops("LD", "C,B"),
	0x49: dis_ops("LD", "C,C"),
	0x4A: dis_ops("LD", "C,D"),
	0x4B: dis_ops("LD", "C,E"),
	0x4C: dis_ops("LD", "C,H"),
	0x4D: dis_ops("LD", "C,L"),
	0x4E: dis_ops("LD", "C,(HL)"),
	0x4F: dis_ops("LD", "C,A"),

	0x50: dis_ops("LD", "D,B"),
	0x51: dis_ops("LD", "D,C"),
	0x52: dis_ops("LD", "D,D"),
	0x53: dis_ops("LD", "D,E"),
	0x54: dis_ops("LD", "D,H"),
	0x55: dis_ops("LD", "D,L"),
	0x56: dis_ops("LD", "D,(HL)"),
	0x57: dis_ops("LD", "D,A"),
	0x58: dis_ops("LD", "E,B"),
	0x59: dis_ops("LD", "E,C"),
	0x5A: dis_ops("LD", "E,D"),
	0x5B: dis_ops("LD", "E,E"),
	0x5C: dis_ops("LD", "E,H"),
	0x5D: dis_ops("LD", "E,L"),
	0x5E: dis_ops("LD", "E,(HL)"),
	0x5F: dis_ops("LD", "E,A"),

	0x60: dis_ops("LD", "H,B"),
	0x61: dis_ops("LD", "H,C"),
	0x62: dis_ops("LD", "H,D"),
	0x63: dis_ops("LD", "H,E"),
	0x64: dis_ops("LD", "H,H"),
	0x65: dis_ops("LD", "H,L"),
	0x66: dis_ops("LD", "H,(HL)"),
	0x67: dis_ops("LD", "H,A"),
	0x68: dis_ops("LD", "L,B"),
	0x69: dis_ops("LD", "L,C"),
	0x6A: dis_ops("LD", "L,D"),
	0x6B: dis_ops("LD", "L,E"),
	0x6C: dis_ops("LD", "L,H"),
	0x6D: dis_ops("LD", "L,L"),
	0x6E: dis_ops("LD", "L,(HL)"),
	0x6F: dis_ops("LD", "L,A"),

	0x70: dis_ops("LD", "(HL),B"),
	0x71: dis_ops("LD", "(HL),C"),
	0x72: dis_ops("LD", "(HL),D"),
	0x73: dis_ops("LD", "(HL),E"),
	0x74: dis_ops("LD", "(HL),H"),
	0x75: dis_ops("LD", "(HL),L"),
	0x76: dis_imp("HALT"),
	0x77: dis_ops("LD", "(HL),A"),
	0x78: dis_ops("LD", "A,B"),
	0x79: dis_ops("LD", "A,C"),
	0x7A: dis_ops("LD", "A,D"),
	0x7B: dis_ops("LD", "A,E"),
	0x7C: dis_ops("LD", "A,H"),
	0x7D: dis_ops("LD", "A,L"),
	0x7E: dis_ops("LD", "A,(HL)"),
	0x7F: dis_ops("LD", "A,A"),

	0x80: dis_ops("ADD", "A,B"),
	0x81: dis_ops("ADD", "A,C"),
	0x82: dis_ops("ADD", "A,D"),
	0x83: dis_ops("ADD", "A,E"),
	0x84: dis_ops("ADD", "A,H"),
	0x85: dis_ops("ADD", "A,L"),
	0x86: dis_ops("ADD", "A,(HL)"),
	0x87: dis_ops("ADD", "A,A"),
	0x88: dis_ops("ADC", "A,B"),
	0x89: dis_ops("ADC", "A,C"),
	0x8A: dis_ops("ADC", "A,D"),
	0x8B: dis_ops("ADC", "A,E"),
	0x8C: dis_ops("ADC", "A,H"),
	0x8D: dis_ops("ADC", "A,L"),
	0x8E: dis_ops("ADC", "A,(HL)"),
	0x8F: dis_ops("ADC", "A,A"),

	0x90: dis_ops("SUB", "B"),
	0x91: dis_ops("SUB", "C"),
	0x92: dis_ops("SUB", "D"),
	0x93: dis_ops("SUB", "E"),
	0x94: dis_ops("SUB", "H"),
	0x95: dis_ops("SUB", "L"),
	0x96: dis_ops("SUB", "(HL)"),
	0x97: dis_ops("SUB", "A"),
	0x98: dis_ops("SBC", "A,B"),
	0x99: dis_ops("SBC", "A,C"),
	0x9A: dis_ops("SBC", "A,D"),
	0x9B: dis_ops("SBC", "A,E"),
	0x9C: dis_ops("SBC", "A,H"),
	0x9D: dis_ops("SBC", "A,L"),
	0x9E: dis_ops("SBC", "A,(HL)"),
	0x9F: dis_ops("SBC", "A,A"),

	0xA0: dis_ops("AND", "B"),
	0xA1: dis_ops("AND", "C"),
	0xA2: dis_ops("AND", "D"),
	0xA3: dis_ops("AND", "E"),
	0xA4: dis_ops("AND", "H"),
	0xA5: dis_ops("AND", "L"),
	0xA6: dis_ops("AND", "(HL)"),
	0xA7: dis_ops("AND", "A"),
	0xA8: dis_ops("XOR", "B"),
	0xA9: dis_ops("XOR", "C"),
	0xAA: dis_ops("XOR", "D"),
	0xAB: dis_ops("XOR", "E"),
	0xAC: dis_ops("XOR", "H"),
	0xAD: dis_ops("XOR", "L"),
	0xAE: dis_ops("XOR", "(HL)"),
	0xAF: dis_ops("XOR", "A"),

	0xB0: dis_ops("OR", "B"),
	0xB1: dis_ops("OR", "C"),
	0xB2: dis_ops("OR", "D"),
	0xB3: dis_ops("OR", "E"),
	0xB4: dis_ops("OR", "H"),
	0xB5: dis_ops("OR", "L"),
	0xB6: dis_ops("OR", "(HL)"),
	0xB7: dis_ops("OR", "A"),
	0xB8: dis_ops("CP", "B"),
	0xB9: dis_ops("CP", "C"),
	0xBA: dis_ops("CP", "D"),
	0xBB: dis_ops("CP", "E"),
	0xBC: dis_ops("CP", "H"),
	0xBD: dis_ops("CP", "L"),
	0xBE: dis_ops("CP", "(HL)"),
	0xBF: dis_ops("CP", "A"),

	0xC0: dis_ops("RET", "NZ"),
	0xC1: dis_ops("POP", "BC"),
	0xC2: dis_d16("JP", "NZ,$%04X"),
	0xC3: dis_d16("JP", "$%04X"),
	0xC4: dis_d16("CALL", "NZ,$%04X"),
	0xC5: dis_ops("PUSH", "BC"),
	0xC6: dis_d8("ADD", "A,$%02X"),
	0xC7: dis_ops("RST", "$00"),
	0xC8: dis_ops("RET", "Z"),
	0xC9: dis_imp("RET"),
	0xCA: dis_d16("JP", "Z,$%04X"),
	0xCB: dis_cb(),
	0xCC: dis_d16("CALL", "Z,$%04X"),
	0xCD: dis_d16("CALL", "$%04X"),
	0xCE: dis_d8("ADC", "A,$%02X"),
	0xCF: dis_ops("RST", "$08"),

	0xD0: dis_ops("RET", "NC"),
	0xD1: dis_ops("POP", "DE"),
	0xD2: dis_d16("JP", "NC,$%04X"),
	0xD3: dis_und(),
	0xD4: dis_d16("CALL", "NC,$%04X"),
	0xD5: dis_ops("PUSH", "DE"),
	0xD6: dis_d8("SUB", "$%02X"),
	0xD7: dis_ops("RST", "$10"),
	0xD8: dis_ops("RET", "C"),
	0xD9: dis_imp("RETI"),
	0xDA: dis_d16("JP", "C,$%04X"),
	0xDB: dis_und(),
	0xDC: dis_d16("CALL", "C,$%04X"),
	0xDD: dis_und(),
	0xDE: dis_d8("SBC", "A,$%02X"),
	0xDF: dis_ops("RST", "$18"),

	0xE0: dis_d8("LD", "($FF00+$%02X),A"),
	0xE1: dis_ops("POP", "HL"),
	0xE2: dis_ops("LD", "($FF00+C),A"),
	0xE3: dis_und(),
	0xE4: dis_und(),
	0xE5: dis_ops("PUSH", "HL"),
	0xE6: dis_d8("AND", "$%02X"),
	0xE7: dis_ops("RST", "$20"),
	0xE8: dis_d8("ADD", "SP,$%02X"),
	0xE9: dis_ops("JP", "HL"),
	0xEA: dis_d16("LD", "($%04X),A"),
	0xEB: dis_und(),
	0xEC: dis_und(),
	0xED: dis_und(),
	0xEE: dis_d8("XOR", "$%02X"),
	0xEF: dis_ops("RST", "$28"),

	0xF0: dis_d8("LD", "A,($FF00+$%02X)"),
	0xF1: dis_ops("POP", "AF"),
	0xF2: dis_ops("LD", "A,($FF00+C)"),
	0xF3: dis_imp("DI"),
	0xF4: dis_und(),
	0xF5: dis_ops("PUSH", "AF"),
	0xF6: dis_d8("OR", "$%02X"),
	0xF7: dis_ops("RST", "$30"),
	0xF8: dis_d8("LD", "HL,SP+$%02X"),
	0xF9: dis_ops("LD", "SP,HL"),
	0xFA: dis_d16("LD", "A,($%04X)"),
	0xFB: dis_imp("EI"),
	0xFC: dis_und(),
	0xFD: dis_und(),
	0xFE: dis_d8("CP", "$%02X"),
	0xFF: dis_ops("RST", "$38"),
}
