// Package gbrom implements a reader for Game Boy cartridge images and the
// metadata header they embed at 0x100.
package gbrom

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	headerStart = 0x100 // header location in the image
	headerSize  = 0x50
	minRomSize  = headerStart + headerSize
	bootSize    = 0x100
)

type Rom struct {
	header
	Data []byte // Data is the whole cartridge image, header included.
}

// ReadRom loads a rom from file.
func ReadRom(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, err
	}
	return rom, nil
}

// ReadBoot loads a boot image from file. The image must be exactly 256
// bytes, the size of the region it overlays.
func ReadBoot(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(buf) != bootSize {
		return nil, fmt.Errorf("boot image size is %d, must be %d", len(buf), bootSize)
	}
	return buf, nil
}

// ReadFrom implements the io.ReaderFrom interface.
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	if err := rom.decode(buf); err != nil {
		return 0, fmt.Errorf("failed to decode header: %w", err)
	}
	rom.Data = buf
	return int64(len(buf)), nil
}

// logo is the bitmap every licensed cartridge carries at 0x104. The boot
// program draws it and refuses to hand over control when it is corrupt.
var logo = [0x30]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B,
	0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC,
	0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

func (hdr *header) decode(p []byte) error {
	if len(p) < minRomSize {
		return fmt.Errorf("too small, needs at least %d bytes", minRomSize)
	}
	copy(hdr.raw[:], p[headerStart:headerStart+headerSize])

	// The sum the boot program computes over 0x134-0x14C must match the
	// byte at 0x14D.
	var sum uint8
	for _, b := range hdr.raw[0x34:0x4D] {
		sum = sum - b - 1
	}
	if sum != hdr.raw[0x4D] {
		return fmt.Errorf("header checksum is 0x%02X, computed 0x%02X", hdr.raw[0x4D], sum)
	}
	return nil
}

// header is the cartridge header, the 80 bytes from 0x100 to 0x14F.
type header struct {
	raw [headerSize]byte
}

// Title returns the game title, stripped of padding. Color-aware
// cartridges shorten the field by one byte to make room for their flag.
func (hdr *header) Title() string {
	t := hdr.raw[0x34:0x44]
	if hdr.raw[0x43]&0x80 != 0 {
		t = t[:len(t)-1]
	}
	return strings.TrimRight(string(t), "\x00")
}

// HasValidLogo reports whether the logo area holds the bitmap the boot
// program checks for.
func (hdr *header) HasValidLogo() bool {
	return bytes.Equal(hdr.raw[0x04:0x34], logo[:])
}

// CartType returns the cartridge hardware code (mapper, ram, battery).
func (hdr *header) CartType() uint8 {
	return hdr.raw[0x47]
}

// HasMapper indicates the presence of a memory bank controller, that is
// anything beyond the plain 32KiB ROM configurations.
func (hdr *header) HasMapper() bool {
	switch hdr.CartType() {
	case 0x00, 0x08, 0x09:
		return false
	}
	return true
}

// RomSize returns the cartridge ROM size in bytes.
func (hdr *header) RomSize() int {
	return (32 * 1024) << hdr.raw[0x48]
}

// RamSize returns the cartridge RAM size in bytes.
func (hdr *header) RamSize() int {
	switch hdr.raw[0x49] {
	case 0x02:
		return 8 * 1024
	case 0x03:
		return 32 * 1024
	case 0x04:
		return 128 * 1024
	case 0x05:
		return 64 * 1024
	}
	return 0
}

// Destination returns the market the cartridge was intended for.
func (hdr *header) Destination() string {
	if hdr.raw[0x4A] == 0 {
		return "Japan"
	}
	return "Overseas"
}

// Version returns the mask rom version number, usually 0.
func (hdr *header) Version() uint8 {
	return hdr.raw[0x4C]
}

// HeaderChecksum returns the stored header checksum (already verified
// during decoding).
func (hdr *header) HeaderChecksum() uint8 {
	return hdr.raw[0x4D]
}

// GlobalChecksum returns the big-endian checksum over the whole image.
// Nothing verifies it, not even the original hardware.
func (hdr *header) GlobalChecksum() uint16 {
	return uint16(hdr.raw[0x4E])<<8 | uint16(hdr.raw[0x4F])
}

var cartTypeNames = map[uint8]string{
	0x00: "ROM ONLY",
	0x01: "MBC1",
	0x02: "MBC1+RAM",
	0x03: "MBC1+RAM+BATTERY",
	0x05: "MBC2",
	0x06: "MBC2+BATTERY",
	0x08: "ROM+RAM",
	0x09: "ROM+RAM+BATTERY",
	0x0F: "MBC3+TIMER+BATTERY",
	0x10: "MBC3+TIMER+RAM+BATTERY",
	0x11: "MBC3",
	0x12: "MBC3+RAM",
	0x13: "MBC3+RAM+BATTERY",
	0x19: "MBC5",
	0x1A: "MBC5+RAM",
	0x1B: "MBC5+RAM+BATTERY",
}

// CartTypeString returns a human readable name for the cartridge
// hardware code.
func (hdr *header) CartTypeString() string {
	if name, ok := cartTypeNames[hdr.CartType()]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN (0x%02X)", hdr.CartType())
}

// PrintInfos writes a human readable description of the header to w.
func (rom *Rom) PrintInfos(w io.Writer) {
	logostr := "ok"
	if !rom.HasValidLogo() {
		logostr = "corrupt"
	}

	fmt.Fprintf(w, "title:           %s\n", rom.Title())
	fmt.Fprintf(w, "cartridge type:  %s\n", rom.CartTypeString())
	fmt.Fprintf(w, "rom size:        %d KiB\n", rom.RomSize()/1024)
	fmt.Fprintf(w, "ram size:        %d KiB\n", rom.RamSize()/1024)
	fmt.Fprintf(w, "destination:     %s\n", rom.Destination())
	fmt.Fprintf(w, "version:         %d\n", rom.Version())
	fmt.Fprintf(w, "logo:            %s\n", logostr)
	fmt.Fprintf(w, "header checksum: 0x%02X\n", rom.HeaderChecksum())
	fmt.Fprintf(w, "global checksum: 0x%04X\n", rom.GlobalChecksum())
}
