package hw

// I/O register addresses. All of them live in the 0xFF00-0xFF7F bank, except
// IE which sits alone at the very top of the address space.
const (
	P1   = 0xFF00 // joypad matrix select/state
	SB   = 0xFF01 // serial transfer data
	SC   = 0xFF02 // serial transfer control
	DIV  = 0xFF04 // divider, counts up at 16384Hz, any write resets it
	TIMA = 0xFF05 // timer counter
	TMA  = 0xFF06 // timer modulo
	TAC  = 0xFF07 // timer control
	IF   = 0xFF0F // interrupt request flags
	LCDC = 0xFF40 // LCD control
	STAT = 0xFF41 // LCD status
	SCY  = 0xFF42 // background scroll Y
	SCX  = 0xFF43 // background scroll X
	LY   = 0xFF44 // current scanline, any write resets it
	LYC  = 0xFF45 // scanline compare
	DMA  = 0xFF46 // OAM DMA trigger: writing p copies 256 bytes from p<<8 to OAM
	BGP  = 0xFF47 // background palette
	OBP0 = 0xFF48 // sprite palette 0
	OBP1 = 0xFF49 // sprite palette 1
	WY   = 0xFF4A // window Y position
	WX   = 0xFF4B // window X position
	BOOT = 0xFF50 // boot overlay disable latch
	IE   = 0xFFFF // interrupt enable mask
)

// Memory map boundaries.
const (
	romEnd     = 0x7FFF // cartridge ROM, writes are ignored
	echoStart  = 0xE000 // echo of work RAM at 0xC000
	echoEnd    = 0xFDFF
	echoOffset = 0x2000
	oamStart   = 0xFE00 // object attribute memory, DMA destination

	bootImageSize  = 0x100  // boot overlay, mapped over the ROM until disabled
	cartHeaderSize = 0x150  // cartridge header, including the entry point
	cartMappedSize = 0x8000 // bytes of cartridge visible with the fixed mapping
)
