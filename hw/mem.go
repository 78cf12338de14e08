// Package hw emulates the handheld hardware: CPU, address space, and the
// video surface derived from it.
package hw

import (
	"fmt"

	"gbor/emu/log"
	"gbor/hw/snapshot"
)

// Image is one full 64 KiB view of the address space.
type Image [0x10000]byte

// AddrSpace is the flat memory bus. Every store goes through a write policy
// that implements the memory mapped behaviors (ROM protection, echo RAM,
// register side effects), then lands in two images kept in lockstep: the
// main image the CPU reads from, and a backup image that can be handed out
// as a consistent snapshot between instructions.
//
// While the boot latch is set, reads below 0x100 come from the boot overlay
// instead of the main image.
type AddrSpace struct {
	boot        [bootImageSize]byte
	bootEnabled bool

	main *Image
	back *Image
	obs  WriteObserver
}

func NewAddrSpace() *AddrSpace {
	return &AddrSpace{
		main: new(Image),
		back: new(Image),
		obs:  NewWriteObserver(),
	}
}

// LoadBoot installs a boot overlay and sets the boot latch. The image must
// be exactly 256 bytes.
func (a *AddrSpace) LoadBoot(data []byte) error {
	if len(data) != bootImageSize {
		return fmt.Errorf("boot image size is %d, must be %d", len(data), bootImageSize)
	}
	copy(a.boot[:], data)
	a.bootEnabled = true
	return nil
}

// LoadCart copies a cartridge image into the ROM area of both images. The
// image must be at least header sized; anything beyond the 32 KiB mapped
// area is ignored.
func (a *AddrSpace) LoadCart(data []byte) error {
	if len(data) < cartHeaderSize {
		return fmt.Errorf("cartridge image size is %d, must be at least %d", len(data), cartHeaderSize)
	}
	n := len(data)
	if n > cartMappedSize {
		n = cartMappedSize
	}
	copy(a.main[:n], data[:n])
	copy(a.back[:n], data[:n])
	return nil
}

// BootEnabled reports whether the boot latch is still set.
func (a *AddrSpace) BootEnabled() bool {
	return a.bootEnabled
}

// Observer returns the bus-owned write observer.
func (a *AddrSpace) Observer() *WriteObserver {
	return &a.obs
}

// Read returns the byte backing addr: the boot overlay while the latch is
// set, otherwise the main image, with echo RAM redirected to the range it
// aliases.
func (a *AddrSpace) Read(addr uint16) uint8 {
	if a.bootEnabled && addr < bootImageSize {
		return a.boot[addr]
	}
	if addr >= echoStart && addr <= echoEnd {
		addr -= echoOffset
	}
	return a.main[addr]
}

// Read16 reads a 16-bit value in little endian order.
func (a *AddrSpace) Read16(addr uint16) uint16 {
	lo := a.Read(addr)
	hi := a.Read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Write runs v through the write policy. Rules are checked in order and the
// first match wins:
//
//   - ROM area: the write is dropped.
//   - Echo RAM: the address is redirected 0x2000 down, then stored.
//   - DIV, LY: the value is forced to zero, then stored.
//   - DMA: triggers a 256 byte copy from v<<8 to the OAM area; the trigger
//     value itself is never stored.
//   - BOOT: writing 1 while the boot latch is set clears the latch; nothing
//     is ever stored.
//
// Anything else is a plain store.
func (a *AddrSpace) Write(addr uint16, v uint8) {
	switch {
	case addr <= romEnd:
		log.ModMem.DebugZ("write to rom ignored").Hex16("addr", addr).Hex8("val", v).End()
		return
	case addr >= echoStart && addr <= echoEnd:
		addr -= echoOffset
	case addr == DIV:
		v = 0
	case addr == LY:
		v = 0
	case addr == DMA:
		a.dmaTransfer(v)
		return
	case addr == BOOT:
		if a.bootEnabled && v == 1 {
			log.ModMem.InfoZ("boot overlay disabled").End()
			a.bootEnabled = false
		}
		return
	}
	a.sysWrite(addr, v)
}

// Write16 stores a 16-bit value in little endian order, each byte going
// through the write policy.
func (a *AddrSpace) Write16(addr uint16, v uint16) {
	a.Write(addr, uint8(v))
	a.Write(addr+1, uint8(v>>8))
}

// sysWrite commits a policy-approved store: the observer records the address
// and both images receive the value.
func (a *AddrSpace) sysWrite(addr uint16, v uint8) {
	a.obs.RecordWrite(addr)
	a.main[addr] = v
	a.back[addr] = v
}

// dmaTransfer copies 256 bytes from v<<8 into the OAM area. Each byte goes
// through sysWrite so the copy stays observable and lands in both images.
func (a *AddrSpace) dmaTransfer(v uint8) {
	src := uint16(v) << 8
	log.ModMem.DebugZ("dma transfer").Hex16("src", src).End()
	for i := uint16(0); i < 0x100; i++ {
		a.sysWrite(oamStart+i, a.Read(src+i))
	}
}

// Poke stores directly into both images, bypassing the write policy and the
// observer. This is the hardware-side path for registers the machine itself
// advances, and the test hook for arranging memory.
func (a *AddrSpace) Poke(addr uint16, v uint8) {
	a.main[addr] = v
	a.back[addr] = v
}

// SwapBackup exchanges the backup image with img and returns the old backup,
// a consistent snapshot of the address space as of the last write. The
// image passed in becomes the new backup and is resynced from the main
// image, so its previous contents are lost.
func (a *AddrSpace) SwapBackup(img *Image) *Image {
	snap := a.back
	a.back = img
	copy(a.back[:], a.main[:])
	return snap
}

/* snapshots */

// SaveState captures the address space content. The boot overlay bytes are
// not part of it: they come from the boot file, only the latch is recorded.
func (a *AddrSpace) SaveState() *snapshot.Mem {
	state := &snapshot.Mem{BootEnabled: a.bootEnabled}
	copy(state.Image[:], a.main[:])
	return state
}

func (a *AddrSpace) LoadState(state *snapshot.Mem) {
	copy(a.main[:], state.Image[:])
	copy(a.back[:], state.Image[:])
	a.bootEnabled = state.BootEnabled
}
