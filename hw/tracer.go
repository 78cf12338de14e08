package hw

import (
	"bytes"
	"fmt"
	"io"
)

// cpuState stores the CPU state for the execution trace.
type cpuState struct {
	Regs  Regs
	Clock int64
}

type disasmer interface {
	Disasm(pc uint16) DisasmOp
}

type tracer struct {
	d disasmer
	w io.Writer
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

// write the execution trace for the current instruction.
func (t *tracer) write(state cpuState) {
	const totalLen = 96
	buf := make([]byte, totalLen)

	dis := t.d.Disasm(state.Regs.PC)
	buf = append(buf[:0], dis.Bytes()...)
	off := min(totalLen, len(buf))
	buf = buf[:max(totalLen, len(buf))]

	for off < 41 {
		buf[off] = ' '
		off++
	}

	reg16 := func(name string, v uint16) {
		off += copy(buf[off:], name)
		buf[off] = ':'
		off++
		hexEncode(buf[off:], byte(v>>8))
		hexEncode(buf[off+2:], byte(v))
		buf[off+4] = ' '
		off += 5
	}

	buf[off] = 'A'
	buf[off+1] = ':'
	hexEncode(buf[off+2:], state.Regs.A)
	buf[off+4] = ' '
	off += 5

	off += copy(buf[off:], "F:")
	off += copy(buf[off:], state.Regs.F.String())
	buf[off] = ' '
	off++

	reg16("BC", state.Regs.Read16(RegBC))
	reg16("DE", state.Regs.Read16(RegDE))
	reg16("HL", state.Regs.Read16(RegHL))
	reg16("SP", state.Regs.SP)

	buf = fmt.Appendf(buf[:off], "CYC:%d\n", state.Clock)
	t.w.Write(buf)
}

// DisasmOp is one decoded instruction, broken into the pieces the trace and
// debugger formats need.
type DisasmOp struct {
	Opcode string
	Oper   string
	Buf    []byte
	PC     uint16
}

// Bytes returns the string representation of a DisasmOp, this is the
// optimized version, suitable for the execution tracer.
func (d DisasmOp) Bytes() []byte {
	const totalLen = 40
	buf := make([]byte, totalLen)

	hexEncode(buf[0:], byte(d.PC>>8))
	hexEncode(buf[2:], byte(d.PC))
	buf[4] = ' '
	buf[5] = ' '

	off := 6
	for i := range d.Buf {
		hexEncode(buf[off:], d.Buf[i])
		buf[off+2] = ' '
		off += 3
	}

	for ; off < 16; off++ {
		buf[off] = ' '
	}

	off += copy(buf[off:], d.Opcode)
	buf[off] = ' '
	off++

	buf = append(buf[:off], d.Oper...)
	off += len(d.Oper)
	if len(buf) > totalLen {
		buf = append(buf, ' ')
	} else {
		buf = buf[:totalLen]
		for i := off; i < totalLen; i++ {
			buf[i] = ' '
		}
	}

	return buf
}

// String formats the op for display, with trailing padding trimmed.
func (d DisasmOp) String() string {
	return string(bytes.TrimRight(d.Bytes(), " "))
}
