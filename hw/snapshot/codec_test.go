package snapshot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundTrip(t *testing.T) {
	s := &GB{
		Version: Version,
		CPU: &CPU{
			A: 0x12, F: 0xB0, H: 0xC0, L: 0x40,
			SP: 0xFFFE, PC: 0x0150,
			Cycles: 70224, State: 1, IME: true,
		},
		Mem:   &Mem{BootEnabled: true},
		Video: &Video{Dirty: [4]bool{true, false, true, false}},
	}
	s.Mem.Image[0x8000] = 0x3C
	s.Mem.Image[0xFFFF] = 0x1F

	got, err := Decode(Encode(s))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("snapshot differs after round trip (-want +got):\n%s", diff)
	}
}

func TestDecodeVersionMismatch(t *testing.T) {
	s := &GB{
		Version: Version + 1,
		CPU:     &CPU{},
		Mem:     &Mem{},
		Video:   &Video{},
	}
	if _, err := Decode(Encode(s)); err == nil {
		t.Fatal("expected version mismatch error")
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode([]byte(`{"version`)); err == nil {
		t.Fatal("expected malformed input error")
	}
}
