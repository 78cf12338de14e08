package snapshot

import (
	"fmt"

	"github.com/go-faster/jx"
)

// Encode serializes a snapshot to JSON. The memory image rides as a base64
// string, everything else as plain fields.
func Encode(s *GB) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("version", func(e *jx.Encoder) { e.Int(s.Version) })
		e.Field("cpu", func(e *jx.Encoder) { encodeCPU(e, s.CPU) })
		e.Field("mem", func(e *jx.Encoder) { encodeMem(e, s.Mem) })
		e.Field("video", func(e *jx.Encoder) { encodeVideo(e, s.Video) })
	})
	return e.Bytes()
}

func encodeCPU(e *jx.Encoder, c *CPU) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("a", func(e *jx.Encoder) { e.UInt8(c.A) })
		e.Field("b", func(e *jx.Encoder) { e.UInt8(c.B) })
		e.Field("c", func(e *jx.Encoder) { e.UInt8(c.C) })
		e.Field("d", func(e *jx.Encoder) { e.UInt8(c.D) })
		e.Field("e", func(e *jx.Encoder) { e.UInt8(c.E) })
		e.Field("f", func(e *jx.Encoder) { e.UInt8(c.F) })
		e.Field("h", func(e *jx.Encoder) { e.UInt8(c.H) })
		e.Field("l", func(e *jx.Encoder) { e.UInt8(c.L) })
		e.Field("sp", func(e *jx.Encoder) { e.UInt16(c.SP) })
		e.Field("pc", func(e *jx.Encoder) { e.UInt16(c.PC) })
		e.Field("cycles", func(e *jx.Encoder) { e.Int64(c.Cycles) })
		e.Field("state", func(e *jx.Encoder) { e.UInt8(c.State) })
		e.Field("ime", func(e *jx.Encoder) { e.Bool(c.IME) })
	})
}

func encodeMem(e *jx.Encoder, m *Mem) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("image", func(e *jx.Encoder) { e.Base64(m.Image[:]) })
		e.Field("boot_enabled", func(e *jx.Encoder) { e.Bool(m.BootEnabled) })
	})
}

func encodeVideo(e *jx.Encoder, v *Video) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("dirty", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, d := range v.Dirty {
					e.Bool(d)
				}
			})
		})
	})
}

// Decode deserializes a snapshot produced by Encode. It checks the layout
// version but nothing else: a snapshot is trusted input.
func Decode(data []byte) (*GB, error) {
	s := &GB{
		CPU:   &CPU{},
		Mem:   &Mem{},
		Video: &Video{},
	}
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "version":
			v, err := d.Int()
			s.Version = v
			return err
		case "cpu":
			return decodeCPU(d, s.CPU)
		case "mem":
			return decodeMem(d, s.Mem)
		case "video":
			return decodeVideo(d, s.Video)
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("malformed snapshot: %w", err)
	}
	if s.Version != Version {
		return nil, fmt.Errorf("snapshot version is %d, want %d", s.Version, Version)
	}
	return s, nil
}

func decodeCPU(d *jx.Decoder, c *CPU) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "a":
			c.A, err = d.UInt8()
		case "b":
			c.B, err = d.UInt8()
		case "c":
			c.C, err = d.UInt8()
		case "d":
			c.D, err = d.UInt8()
		case "e":
			c.E, err = d.UInt8()
		case "f":
			c.F, err = d.UInt8()
		case "h":
			c.H, err = d.UInt8()
		case "l":
			c.L, err = d.UInt8()
		case "sp":
			c.SP, err = d.UInt16()
		case "pc":
			c.PC, err = d.UInt16()
		case "cycles":
			c.Cycles, err = d.Int64()
		case "state":
			c.State, err = d.UInt8()
		case "ime":
			c.IME, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
}

func decodeMem(d *jx.Decoder, m *Mem) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "image":
			buf, err := d.Base64()
			if err != nil {
				return err
			}
			if len(buf) != len(m.Image) {
				return fmt.Errorf("memory image is %d bytes, want %d", len(buf), len(m.Image))
			}
			copy(m.Image[:], buf)
			return nil
		case "boot_enabled":
			var err error
			m.BootEnabled, err = d.Bool()
			return err
		default:
			return d.Skip()
		}
	})
}

func decodeVideo(d *jx.Decoder, v *Video) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "dirty":
			i := 0
			return d.Arr(func(d *jx.Decoder) error {
				b, err := d.Bool()
				if err != nil {
					return err
				}
				if i < len(v.Dirty) {
					v.Dirty[i] = b
				}
				i++
				return nil
			})
		default:
			return d.Skip()
		}
	})
}
