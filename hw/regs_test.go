package hw

import "testing"

func TestRegsPairComposition(t *testing.T) {
	var r Regs

	r.Write16(RegBC, 0x1234)
	if r.B != 0x12 || r.C != 0x34 {
		t.Errorf("got B=%02X C=%02X, want 12 34", r.B, r.C)
	}
	if got := r.Read16(RegBC); got != 0x1234 {
		t.Errorf("got BC=%04X, want 1234", got)
	}

	r.D, r.E = 0xAB, 0xCD
	if got := r.Read16(RegDE); got != 0xABCD {
		t.Errorf("got DE=%04X, want ABCD", got)
	}

	r.Write16(RegHL, 0xFF00)
	if r.H != 0xFF || r.L != 0x00 {
		t.Errorf("got H=%02X L=%02X, want FF 00", r.H, r.L)
	}
}

func TestRegs8RoundTrip(t *testing.T) {
	var r Regs

	for i, reg := range []Reg{RegA, RegB, RegC, RegD, RegE, RegH, RegL} {
		v := uint8(0x11 * (i + 1))
		r.Write(reg, v)
		if got := r.Read(reg); got != v {
			t.Errorf("%s: got %02X, want %02X", reg, got, v)
		}
	}
}

func TestRegsFlagNibble(t *testing.T) {
	var r Regs

	// The low nibble of F always reads zero.
	r.Write(RegF, 0xFF)
	if got := r.Read(RegF); got != 0xF0 {
		t.Errorf("got F=%02X, want F0", got)
	}

	r.Write16(RegAF, 0xABCD)
	if r.A != 0xAB {
		t.Errorf("got A=%02X, want AB", r.A)
	}
	if r.F != 0xC0 {
		t.Errorf("got F=%02X, want C0", uint8(r.F))
	}
	if got := r.Read16(RegAF); got != 0xABC0 {
		t.Errorf("got AF=%04X, want ABC0", got)
	}
}

func TestRegsWidthPanics(t *testing.T) {
	var r Regs

	for _, f := range []func(){
		func() { r.Read(RegBC) },
		func() { r.Read(RegPC) },
		func() { r.Write(RegHL, 0) },
		func() { r.Read16(RegA) },
		func() { r.Write16(RegB, 0) },
	} {
		if yes, _ := hasPanicked(f); !yes {
			t.Error("mismatched register width should panic")
		}
	}
}

func TestFlagsString(t *testing.T) {
	tests := []struct {
		f    Flags
		want string
	}{
		{0x00, "znhc"},
		{0xF0, "ZNHC"},
		{FlagZ, "Znhc"},
		{FlagZ | FlagC, "ZnhC"},
		{FlagN | FlagH, "zNHc"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("%02X: got %q, want %q", uint8(tt.f), got, tt.want)
		}
	}
}

func TestSetZNHC(t *testing.T) {
	var r Regs

	r.F = flagMask
	r.setZNHC(true, false, true, false)
	if r.F != FlagZ|FlagH {
		t.Errorf("got F=%s, want ZnHc", r.F)
	}
	r.setZNHC(false, true, false, true)
	if r.F != FlagN|FlagC {
		t.Errorf("got F=%s, want zNhC", r.F)
	}
}

func TestProgramCounterOps(t *testing.T) {
	var r Regs
	r.PC = 0x0200

	if got := r.AdvancePC(); got != 0x0200 {
		t.Errorf("got %04X, want 0200", got)
	}
	if r.PC != 0x0201 {
		t.Errorf("got PC=%04X, want 0201", r.PC)
	}

	r.AddPC(-2)
	if r.PC != 0x01FF {
		t.Errorf("got PC=%04X, want 01FF", r.PC)
	}

	if prev := r.SetPC(0x1234); prev != 0x01FF {
		t.Errorf("got %04X, want 01FF", prev)
	}
	if r.PC != 0x1234 {
		t.Errorf("got PC=%04X, want 1234", r.PC)
	}
}

func TestRegsReset(t *testing.T) {
	r := Regs{A: 0xFF, F: 0xF0, PC: 0xDEAD, SP: 0xBEEF}

	r.Reset(false)
	if r.PC != 0x0100 || r.SP != 0xFFFE {
		t.Errorf("got PC=%04X SP=%04X, want 0100 FFFE", r.PC, r.SP)
	}
	if r.A != 0 || r.F != 0 {
		t.Errorf("got A=%02X F=%02X, want 00 00", r.A, uint8(r.F))
	}

	r.Reset(true)
	if r.PC != 0x0000 {
		t.Errorf("got PC=%04X, want 0000", r.PC)
	}
}
