package hw

import (
	"fmt"
	"testing"
)

func TestAllOpcodesAreImplemented(t *testing.T) {
	for opcode, op := range ops {
		decoded := opdefs[opcode].cycles != 0
		switch {
		case op == nil && decoded:
			t.Errorf("opcode %02x not implemented", opcode)
		case op != nil && !decoded:
			t.Errorf("opcode %02x implemented but not decodable", opcode)
		}
	}
}

func TestAddImmediate(t *testing.T) {
	t.Run("5 plus 3", func(t *testing.T) {
		// LD A,$05
		// ADD A,$03
		cpu := loadCPUWith(t, `0100: 3e 05 c6 03`)
		runAndCheckState(t, cpu, 16,
			"A", uint8(0x08),
			"F", uint8(0x00),
			"PC", uint16(0x0104),
		)
	})
	t.Run("overflow", func(t *testing.T) {
		// LD A,$FF
		// ADD A,$01
		cpu := loadCPUWith(t, `0100: 3e ff c6 01`)
		runAndCheckState(t, cpu, 16,
			"A", uint8(0x00),
			"Fzhc", uint8(1),
			"Fn", uint8(0),
		)
	})
	t.Run("carry chains", func(t *testing.T) {
		// LD A,$FF
		// ADD A,$01
		// ADC A,$00
		cpu := loadCPUWith(t, `0100: 3e ff c6 01 ce 00`)
		runAndCheckState(t, cpu, 24,
			"A", uint8(0x01),
			"F", uint8(0x00),
		)
	})
}

func TestSubCompare(t *testing.T) {
	t.Run("sub to zero", func(t *testing.T) {
		// LD A,$10
		// SUB $10
		cpu := loadCPUWith(t, `0100: 3e 10 d6 10`)
		runAndCheckState(t, cpu, 16,
			"A", uint8(0x00),
			"F", uint8(0xC0),
		)
	})
	t.Run("compare keeps accumulator", func(t *testing.T) {
		// LD A,$05
		// CP $10
		cpu := loadCPUWith(t, `0100: 3e 05 fe 10`)
		runAndCheckState(t, cpu, 16,
			"A", uint8(0x05),
			"F", uint8(0x50),
		)
	})
	t.Run("borrowed carry feeds sbc", func(t *testing.T) {
		// LD A,$00
		// SUB $01    ; wraps, sets carry
		// SBC A,$00  ; carry joins the minuend
		cpu := loadCPUWith(t, `0100: 3e 00 d6 01 de 00`)
		runAndCheckState(t, cpu, 24,
			"A", uint8(0x00),
			"F", uint8(0xD0),
		)
	})
}

func TestIncDec(t *testing.T) {
	t.Run("half carry", func(t *testing.T) {
		// LD A,$0F
		// INC A
		cpu := loadCPUWith(t, `0100: 3e 0f 3c`)
		runAndCheckState(t, cpu, 12,
			"A", uint8(0x10),
			"F", uint8(0x20),
		)
	})
	t.Run("dec to zero", func(t *testing.T) {
		// LD A,$01
		// DEC A
		cpu := loadCPUWith(t, `0100: 3e 01 3d`)
		runAndCheckState(t, cpu, 12,
			"A", uint8(0x00),
			"F", uint8(0xC0),
		)
	})
	t.Run("dec wraps", func(t *testing.T) {
		// LD A,$00
		// DEC A
		cpu := loadCPUWith(t, `0100: 3e 00 3d`)
		runAndCheckState(t, cpu, 12,
			"A", uint8(0xFF),
			"F", uint8(0x70),
		)
	})
	t.Run("pairs are flagless", func(t *testing.T) {
		// DEC BC
		// INC BC
		cpu := loadCPUWith(t, `0100: 0b 03`)
		cpu.Regs.F = flagMask
		runAndCheckState(t, cpu, 8,
			"BC", uint16(0xFFFF),
			"F", uint8(0xF0),
		)
		runAndCheckState(t, cpu, 8,
			"BC", uint16(0x0000),
			"F", uint8(0xF0),
		)
	})
	t.Run("memory cell", func(t *testing.T) {
		// INC (HL)
		cpu := loadCPUWith(t, `
0100: 34
c000: 0f`)
		cpu.Regs.Write16(RegHL, 0xC000)
		runAndCheckState(t, cpu, 12,
			"F", uint8(0x20),
		)
		wantMem8(t, cpu, 0xC000, 0x10)
	})
}

func TestAdd16(t *testing.T) {
	t.Run("carry out of bit 11", func(t *testing.T) {
		// ADD HL,BC
		cpu := loadCPUWith(t, `0100: 09`)
		cpu.Regs.Write16(RegHL, 0x0FFF)
		cpu.Regs.Write16(RegBC, 0x0001)
		cpu.Regs.F = FlagZ // untouched by 16-bit adds
		runAndCheckState(t, cpu, 8,
			"HL", uint16(0x1000),
			"F", uint8(0xA0),
		)
	})
	t.Run("wraps", func(t *testing.T) {
		cpu := loadCPUWith(t, `0100: 09`)
		cpu.Regs.Write16(RegHL, 0xFFFF)
		cpu.Regs.Write16(RegBC, 0x0001)
		runAndCheckState(t, cpu, 8,
			"HL", uint16(0x0000),
			"F", uint8(0x30),
		)
	})
	t.Run("sp displaced", func(t *testing.T) {
		// ADD SP,$08
		cpu := loadCPUWith(t, `0100: e8 08`)
		cpu.Regs.SP = 0xFFF8
		runAndCheckState(t, cpu, 16,
			"SP", uint16(0x0000),
			"F", uint8(0x30),
		)
	})
	t.Run("hl from sp plus offset", func(t *testing.T) {
		// LD HL,SP-$02
		cpu := loadCPUWith(t, `0100: f8 fe`)
		cpu.Regs.SP = 0x0005
		runAndCheckState(t, cpu, 12,
			"HL", uint16(0x0003),
			"SP", uint16(0x0005),
			"F", uint8(0x30),
		)
	})
}

func TestRotates(t *testing.T) {
	t.Run("rlca", func(t *testing.T) {
		cpu := loadCPUWith(t, `0100: 07`)
		cpu.Regs.A = 0x80
		runAndCheckState(t, cpu, 4,
			"A", uint8(0x01),
			"F", uint8(0x10),
		)
	})
	t.Run("rlca zero", func(t *testing.T) {
		cpu := loadCPUWith(t, `0100: 07`)
		cpu.Regs.A = 0x00
		runAndCheckState(t, cpu, 4,
			"A", uint8(0x00),
			"F", uint8(0x80),
		)
	})
	t.Run("rla through carry", func(t *testing.T) {
		cpu := loadCPUWith(t, `0100: 17`)
		cpu.Regs.A = 0x80
		cpu.Regs.F = FlagC
		runAndCheckState(t, cpu, 4,
			"A", uint8(0x01),
			"F", uint8(0x10),
		)
	})
	t.Run("rra to zero", func(t *testing.T) {
		cpu := loadCPUWith(t, `0100: 1f`)
		cpu.Regs.A = 0x01
		runAndCheckState(t, cpu, 4,
			"A", uint8(0x00),
			"F", uint8(0x90),
		)
	})
}

func TestExtendedSpace(t *testing.T) {
	t.Run("swap", func(t *testing.T) {
		// SWAP A
		cpu := loadCPUWith(t, `0100: cb 37`)
		cpu.Regs.A = 0xF0
		runAndCheckState(t, cpu, 8,
			"A", uint8(0x0F),
			"F", uint8(0x00),
		)
	})
	t.Run("swap zero", func(t *testing.T) {
		cpu := loadCPUWith(t, `0100: cb 37`)
		runAndCheckState(t, cpu, 8,
			"A", uint8(0x00),
			"F", uint8(0x80),
		)
	})
	t.Run("bit set", func(t *testing.T) {
		// BIT 7,H with carry preset: carry must survive
		cpu := loadCPUWith(t, `0100: cb 7c`)
		cpu.Regs.H = 0x80
		cpu.Regs.F = FlagC
		runAndCheckState(t, cpu, 8,
			"F", uint8(0x30),
		)
	})
	t.Run("bit clear", func(t *testing.T) {
		cpu := loadCPUWith(t, `0100: cb 7c`)
		runAndCheckState(t, cpu, 8,
			"F", uint8(0xA0),
		)
	})
	t.Run("res keeps flags", func(t *testing.T) {
		// RES 0,A
		cpu := loadCPUWith(t, `0100: cb 87`)
		cpu.Regs.A = 0xFF
		cpu.Regs.F = flagMask
		runAndCheckState(t, cpu, 8,
			"A", uint8(0xFE),
			"F", uint8(0xF0),
		)
	})
	t.Run("set through memory", func(t *testing.T) {
		// SET 3,(HL)
		cpu := loadCPUWith(t, `0100: cb de`)
		cpu.Regs.Write16(RegHL, 0xC000)
		runAndCheckState(t, cpu, 16,
			"F", uint8(0x00),
		)
		wantMem8(t, cpu, 0xC000, 0x08)
	})
	t.Run("srl", func(t *testing.T) {
		// SRL B
		cpu := loadCPUWith(t, `0100: cb 38`)
		cpu.Regs.B = 0x01
		runAndCheckState(t, cpu, 8,
			"B", uint8(0x00),
			"F", uint8(0x90),
		)
	})
	t.Run("sra keeps sign", func(t *testing.T) {
		// SRA A
		cpu := loadCPUWith(t, `0100: cb 2f`)
		cpu.Regs.A = 0x81
		runAndCheckState(t, cpu, 8,
			"A", uint8(0xC0),
			"F", uint8(0x10),
		)
	})
}

func TestBCDArithmetic(t *testing.T) {
	t.Run("after addition", func(t *testing.T) {
		// LD A,$15
		// ADD A,$27
		// DAA        ; 15 + 27 = 42 in BCD
		cpu := loadCPUWith(t, `0100: 3e 15 c6 27 27`)
		runAndCheckState(t, cpu, 20,
			"A", uint8(0x42),
			"F", uint8(0x00),
		)
	})
	t.Run("after subtraction", func(t *testing.T) {
		// LD A,$42
		// SUB $09
		// DAA        ; 42 - 09 = 33 in BCD
		cpu := loadCPUWith(t, `0100: 3e 42 d6 09 27`)
		runAndCheckState(t, cpu, 20,
			"A", uint8(0x33),
			"F", uint8(0x40),
		)
	})
	t.Run("wraps past 99", func(t *testing.T) {
		// LD A,$99
		// ADD A,$01
		// DAA        ; 99 + 01 = 100, keeps the hundred in carry
		cpu := loadCPUWith(t, `0100: 3e 99 c6 01 27`)
		runAndCheckState(t, cpu, 20,
			"A", uint8(0x00),
			"F", uint8(0x90),
		)
	})
}

func TestJumps(t *testing.T) {
	t.Run("jp", func(t *testing.T) {
		cpu := loadCPUWith(t, `0100: c3 00 02`)
		runAndCheckState(t, cpu, 12,
			"PC", uint16(0x0200),
		)
	})
	t.Run("jp hl", func(t *testing.T) {
		cpu := loadCPUWith(t, `0100: e9`)
		cpu.Regs.Write16(RegHL, 0x0200)
		runAndCheckState(t, cpu, 4,
			"PC", uint16(0x0200),
		)
	})
	t.Run("jr backward", func(t *testing.T) {
		// JR -2: a one-instruction loop
		cpu := loadCPUWith(t, `0100: 18 fe`)
		runAndCheckState(t, cpu, 8,
			"PC", uint16(0x0100),
		)
	})
	t.Run("jr not taken", func(t *testing.T) {
		// DEC A      ; 1 -> 0, sets Z
		// JR NZ,+2
		// INC A
		cpu := loadCPUWith(t, `0100: 3d 20 02 3c`)
		cpu.Regs.A = 1
		runAndCheckState(t, cpu, 16,
			"A", uint8(0x01),
			"PC", uint16(0x0104),
		)
	})
	t.Run("jr taken", func(t *testing.T) {
		// DEC A      ; 2 -> 1, Z clear
		// JR NZ,+2   ; skips two bytes
		// INC A
		cpu := loadCPUWith(t, `0100: 3d 20 02 00 00 3c`)
		cpu.Regs.A = 2
		runAndCheckState(t, cpu, 16,
			"A", uint8(0x02),
			"PC", uint16(0x0106),
		)
	})
	t.Run("jp conditional", func(t *testing.T) {
		cpu := loadCPUWith(t, `0100: d2 00 02`)
		runAndCheckState(t, cpu, 12,
			"PC", uint16(0x0200),
		)

		cpu = loadCPUWith(t, `0100: d2 00 02`)
		cpu.Regs.F = FlagC
		runAndCheckState(t, cpu, 12,
			"PC", uint16(0x0103),
		)
	})
}

func TestCallStack(t *testing.T) {
	t.Run("call and ret", func(t *testing.T) {
		// CALL $C100 / INC A / RET
		cpu := loadCPUWith(t, `
0100: cd 00 c1
c100: 3c c9`)
		runAndCheckState(t, cpu, 24,
			"A", uint8(0x01),
			"PC", uint16(0x0103),
			"SP", uint16(0xFFFE),
		)
		// the return address transited through the stack top
		wantMem8(t, cpu, 0xFFFC, 0x03)
		wantMem8(t, cpu, 0xFFFD, 0x01)
	})
	t.Run("call not taken", func(t *testing.T) {
		// CALL NZ,$C100 with Z set
		cpu := loadCPUWith(t, `0100: c4 00 c1`)
		cpu.Regs.F = FlagZ
		runAndCheckState(t, cpu, 12,
			"PC", uint16(0x0103),
			"SP", uint16(0xFFFE),
		)
	})
	t.Run("ret conditional", func(t *testing.T) {
		// CALL $C100 / RET Z (not taken) / RET
		cpu := loadCPUWith(t, `
0100: cd 00 c1
c100: c8 c9`)
		runAndCheckState(t, cpu, 28,
			"PC", uint16(0x0103),
			"SP", uint16(0xFFFE),
		)
	})
	t.Run("rst", func(t *testing.T) {
		// NOP / RST $08
		cpu := loadCPUWith(t, `0100: 00 cf`)
		runAndCheckState(t, cpu, 36,
			"PC", uint16(0x0008),
			"SP", uint16(0xFFFC),
		)
		wantMem8(t, cpu, 0xFFFC, 0x02)
		wantMem8(t, cpu, 0xFFFD, 0x01)
	})
	t.Run("reti enables interrupts", func(t *testing.T) {
		// DI / RETI with a return address preloaded on the stack
		cpu := loadCPUWith(t, `
0100: f3 d9
fffc: 34 12`)
		cpu.Regs.SP = 0xFFFC
		runAndCheckState(t, cpu, 12,
			"PC", uint16(0x1234),
			"SP", uint16(0xFFFE),
		)
		if !cpu.InterruptsEnabled() {
			t.Error("reti should enable interrupts")
		}
	})
}

func TestPushPop(t *testing.T) {
	t.Run("af masks the low nibble", func(t *testing.T) {
		// LD BC,$1234
		// PUSH BC
		// POP AF     ; F keeps only the flag nibble
		// PUSH AF
		// POP DE
		cpu := loadCPUWith(t, `0100: 01 34 12 c5 f1 f5 d1`)
		runAndCheckState(t, cpu, 68,
			"A", uint8(0x12),
			"F", uint8(0x30),
			"DE", uint16(0x1230),
			"SP", uint16(0xFFFE),
			"PC", uint16(0x0107),
		)
	})
	t.Run("high byte on top", func(t *testing.T) {
		// LD HL,$ABCD
		// PUSH HL
		cpu := loadCPUWith(t, `0100: 21 cd ab e5`)
		runAndCheckState(t, cpu, 28,
			"SP", uint16(0xFFFC),
		)
		wantMem8(t, cpu, 0xFFFC, 0xCD)
		wantMem8(t, cpu, 0xFFFD, 0xAB)
	})
}

func TestHighPage(t *testing.T) {
	t.Run("store and load", func(t *testing.T) {
		// LD A,$42 / LDH ($80),A / LD A,$00 / LDH A,($80)
		cpu := loadCPUWith(t, `0100: 3e 42 e0 80 3e 00 f0 80`)
		runAndCheckState(t, cpu, 40,
			"A", uint8(0x42),
		)
		wantMem8(t, cpu, 0xFF80, 0x42)
	})
	t.Run("store through c", func(t *testing.T) {
		cpu := loadCPUWith(t, `0100: e2`)
		cpu.Regs.A = 0x07
		cpu.Regs.C = 0x81
		runAndCheckState(t, cpu, 8)
		wantMem8(t, cpu, 0xFF81, 0x07)
	})
	t.Run("load through c", func(t *testing.T) {
		cpu := loadCPUWith(t, `
0100: f2
ff81: 07`)
		cpu.Regs.C = 0x81
		runAndCheckState(t, cpu, 8,
			"A", uint8(0x07),
		)
	})
	t.Run("timer resets on store", func(t *testing.T) {
		// LD A,$55 / LDH ($04),A: the divider register pins to zero
		cpu := loadCPUWith(t, `0100: 3e 55 e0 04`)
		runAndCheckState(t, cpu, 20)
		wantMem8(t, cpu, DIV, 0x00)
	})
}

func TestMoves(t *testing.T) {
	t.Run("post increment and decrement", func(t *testing.T) {
		// LD A,$11 / LD (HL+),A / LD (HL+),A
		// LD A,$22 / LD (HL-),A
		// LD A,(HL+)
		cpu := loadCPUWith(t, `0100: 3e 11 22 22 3e 22 32 2a`)
		cpu.Regs.Write16(RegHL, 0xC000)
		runAndCheckState(t, cpu, 48,
			"A", uint8(0x11),
			"HL", uint16(0xC002),
			"mem", `c000: 11 11 22`,
		)
	})
	t.Run("absolute", func(t *testing.T) {
		// LD A,$77 / LD ($C200),A / LD A,$00 / LD A,($C200)
		cpu := loadCPUWith(t, `0100: 3e 77 ea 00 c2 3e 00 fa 00 c2`)
		runAndCheckState(t, cpu, 48,
			"A", uint8(0x77),
		)
		wantMem8(t, cpu, 0xC200, 0x77)
	})
	t.Run("indirect through pairs", func(t *testing.T) {
		// LD A,$5A / LD (BC),A / LD A,(DE)
		cpu := loadCPUWith(t, `
0100: 3e 5a 02 1a
c301: 66`)
		cpu.Regs.Write16(RegBC, 0xC300)
		cpu.Regs.Write16(RegDE, 0xC301)
		runAndCheckState(t, cpu, 24,
			"A", uint8(0x66),
		)
		wantMem8(t, cpu, 0xC300, 0x5A)
	})
	t.Run("register to register", func(t *testing.T) {
		// LD B,C / LD D,B / LD H,D
		cpu := loadCPUWith(t, `0100: 41 50 62`)
		cpu.Regs.C = 0x99
		runAndCheckState(t, cpu, 12,
			"B", uint8(0x99),
			"D", uint8(0x99),
			"H", uint8(0x99),
		)
	})
	t.Run("immediate to memory", func(t *testing.T) {
		// LD (HL),$7B
		cpu := loadCPUWith(t, `0100: 36 7b`)
		cpu.Regs.Write16(RegHL, 0xC400)
		runAndCheckState(t, cpu, 12)
		wantMem8(t, cpu, 0xC400, 0x7B)
	})
}

func TestLoads16(t *testing.T) {
	t.Run("immediate pairs", func(t *testing.T) {
		cpu := loadCPUWith(t, `0100: 01 34 12 11 78 56 21 bc 9a 31 f0 ff`)
		runAndCheckState(t, cpu, 48,
			"BC", uint16(0x1234),
			"DE", uint16(0x5678),
			"HL", uint16(0x9ABC),
			"SP", uint16(0xFFF0),
		)
	})
	t.Run("store sp", func(t *testing.T) {
		// LD ($C500),SP
		cpu := loadCPUWith(t, `0100: 08 00 c5`)
		runAndCheckState(t, cpu, 20)
		wantMem8(t, cpu, 0xC500, 0xFE)
		wantMem8(t, cpu, 0xC501, 0xFF)
	})
	t.Run("sp from hl", func(t *testing.T) {
		cpu := loadCPUWith(t, `0100: f9`)
		cpu.Regs.Write16(RegHL, 0xD000)
		runAndCheckState(t, cpu, 8,
			"SP", uint16(0xD000),
		)
	})
}

func TestFlagOps(t *testing.T) {
	t.Run("cpl", func(t *testing.T) {
		cpu := loadCPUWith(t, `0100: 2f`)
		cpu.Regs.A = 0x35
		cpu.Regs.F = FlagZ | FlagC
		runAndCheckState(t, cpu, 4,
			"A", uint8(0xCA),
			"F", uint8(0xF0),
		)
	})
	t.Run("scf", func(t *testing.T) {
		cpu := loadCPUWith(t, `0100: 37`)
		cpu.Regs.F = FlagN | FlagH
		runAndCheckState(t, cpu, 4,
			"F", uint8(0x10),
		)
	})
	t.Run("ccf toggles", func(t *testing.T) {
		cpu := loadCPUWith(t, `0100: 3f`)
		cpu.Regs.F = FlagC
		runAndCheckState(t, cpu, 4,
			"F", uint8(0x00),
		)

		cpu = loadCPUWith(t, `0100: 3f`)
		cpu.Regs.F = FlagZ
		runAndCheckState(t, cpu, 4,
			"F", uint8(0x90),
		)
	})
}

func TestInvalidOpcodes(t *testing.T) {
	invalid := []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD}
	for _, opcode := range invalid {
		t.Run(fmt.Sprintf("%02x", opcode), func(t *testing.T) {
			mem := NewAddrSpace()
			mem.Poke(0x0100, opcode)
			cpu := NewCPU(mem)
			if yes, _ := hasPanicked(func() { cpu.Step() }); !yes {
				t.Fatal("executing a hole in the instruction set should abort")
			}
		})
	}
}

func TestMalformedStop(t *testing.T) {
	mem := NewAddrSpace()
	mem.Poke(0x0100, 0x10)
	mem.Poke(0x0101, 0x01)
	cpu := NewCPU(mem)
	if yes, _ := hasPanicked(func() { cpu.Step() }); !yes {
		t.Fatal("stop with a nonzero operand should abort")
	}
}
