package hw

// Arithmetic and bit operation helpers. Each computes one result and sets
// ZNHC per the operation's flag law; writeback is the caller's concern
// unless the operation can only ever target the accumulator.

// add8 returns x+n (+1 when carry is set).
func (c *CPU) add8(x, n uint8, carry bool) uint8 {
	cin := b2u8(carry)
	halfsum := (x & 0x0F) + (n & 0x0F) + cin
	sum := uint16(x) + uint16(n) + uint16(cin)
	res := uint8(sum)
	c.Regs.setZNHC(res == 0, false, halfsum > 0x0F, sum > 0xFF)
	return res
}

// sub8 returns x-n (-1 when carry is set). The intermediate runs in
// wrapping 16-bit space so a borrow still shows up as a value above 0xFF
// when the carry-in lifts x past the subtrahend.
func (c *CPU) sub8(x, n uint8, carry bool) uint8 {
	xw := uint16(x) + uint16(b2u8(carry))
	halfdiff := xw&0x0F - uint16(n)&0x0F
	diff := xw - uint16(n)
	res := uint8(diff)
	c.Regs.setZNHC(res == 0, true, halfdiff > 0x0F, diff > 0xFF)
	return res
}

// addHL adds n into HL. Z is left alone; the half carry boundary for the
// 16-bit add is bit 11.
func (c *CPU) addHL(n uint16) {
	x := c.Regs.Read16(RegHL)
	halfsum := uint32(x&0x0FFF) + uint32(n&0x0FFF)
	sum := uint32(x) + uint32(n)
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagH, halfsum > 0x0FFF)
	c.Regs.SetFlag(FlagC, sum > 0xFFFF)
	c.Regs.Write16(RegHL, uint16(sum))
}

// addSPSigned returns SP+e as the effective-address forms compute it: the
// operand is sign extended, Z and N are cleared, and H/C are the carries
// out of bits 3 and 7 of the low byte.
func (c *CPU) addSPSigned(e int8) uint16 {
	sp := c.Regs.SP
	res := sp + uint16(int16(e))
	tmp := sp ^ uint16(int16(e)) ^ res
	c.Regs.setZNHC(false, false, tmp&0x0010 != 0, tmp&0x0100 != 0)
	return res
}

func (c *CPU) and8(n uint8) {
	res := c.Regs.A & n
	c.Regs.setZNHC(res == 0, false, true, false)
	c.Regs.A = res
}

func (c *CPU) or8(n uint8) {
	res := c.Regs.A | n
	c.Regs.setZNHC(res == 0, false, false, false)
	c.Regs.A = res
}

func (c *CPU) xor8(n uint8) {
	res := c.Regs.A ^ n
	c.Regs.setZNHC(res == 0, false, false, false)
	c.Regs.A = res
}

// rlc rotates x left, bit 7 going to both bit 0 and carry.
func (c *CPU) rlc(x uint8) uint8 {
	msb := x >> 7
	rot := x<<1 | msb
	c.Regs.setZNHC(rot == 0, false, false, msb != 0)
	return rot
}

// rl rotates x left through carry: the incoming carry flag becomes bit 0
// and the ejected bit 7 the new carry.
func (c *CPU) rl(x uint8) uint8 {
	rot := x<<1 | b2u8(c.Regs.Flag(FlagC))
	c.Regs.setZNHC(rot == 0, false, false, x&0x80 != 0)
	return rot
}

// rrc rotates x right, bit 0 going to both bit 7 and carry.
func (c *CPU) rrc(x uint8) uint8 {
	lsb := x & 0x01
	rot := x>>1 | lsb<<7
	c.Regs.setZNHC(rot == 0, false, false, lsb != 0)
	return rot
}

// rr rotates x right through carry.
func (c *CPU) rr(x uint8) uint8 {
	rot := x>>1 | b2u8(c.Regs.Flag(FlagC))<<7
	c.Regs.setZNHC(rot == 0, false, false, x&0x01 != 0)
	return rot
}

// sla shifts x left, ejecting bit 7 into carry.
func (c *CPU) sla(x uint8) uint8 {
	res := x << 1
	c.Regs.setZNHC(res == 0, false, false, x&0x80 != 0)
	return res
}

// sra shifts x right keeping bit 7, ejecting bit 0 into carry.
func (c *CPU) sra(x uint8) uint8 {
	res := x>>1 | x&0x80
	c.Regs.setZNHC(res == 0, false, false, x&0x01 != 0)
	return res
}

// srl shifts x right clearing bit 7, ejecting bit 0 into carry.
func (c *CPU) srl(x uint8) uint8 {
	res := x >> 1
	c.Regs.setZNHC(res == 0, false, false, x&0x01 != 0)
	return res
}

// swap exchanges the nibbles of x.
func (c *CPU) swap(x uint8) uint8 {
	res := x<<4 | x>>4
	c.Regs.setZNHC(res == 0, false, false, false)
	return res
}

// bitTest sets Z from bit b of x. Carry is untouched.
func (c *CPU) bitTest(x, b uint8) {
	c.Regs.SetFlag(FlagZ, x&(1<<b) == 0)
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagH, true)
}

// daa adjusts A back to packed BCD after an addition or subtraction, driven
// by N, H and C. In addition mode the carry turns on when the high nibble
// needed correcting; in subtraction mode it is sticky.
func (c *CPU) daa() {
	a := c.Regs.A
	if !c.Regs.Flag(FlagN) {
		if c.Regs.Flag(FlagC) || a > 0x99 {
			a += 0x60
			c.Regs.SetFlag(FlagC, true)
		}
		if c.Regs.Flag(FlagH) || a&0x0F > 0x09 {
			a += 0x06
		}
	} else {
		if c.Regs.Flag(FlagC) {
			a -= 0x60
		}
		if c.Regs.Flag(FlagH) {
			a -= 0x06
		}
	}
	c.Regs.SetFlag(FlagZ, a == 0)
	c.Regs.SetFlag(FlagH, false)
	c.Regs.A = a
}
