package hw

import "unsafe"

func nthbit8(val uint8, n uint8) uint8 { return (val >> n) & 1 }

// Avoid branches. In the SSA compiler, this compiles to
// exactly what you would want it to.

func b2u8(x bool) uint8 { return *(*uint8)(unsafe.Pointer(&x)) }

func GetBit8(v uint8, n uint) bool {
	return GetBiti8(v, n) != 0
}

func GetBiti8(v uint8, n uint) uint8 {
	return v >> (n) & 0x01
}
