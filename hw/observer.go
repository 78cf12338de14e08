package hw

//go:generate go tool stringer -type=Region -output=region_string.go

// Region identifies one of the video memory regions tracked by the write
// observer.
type Region uint8

const (
	TilesUnsigned Region = iota // 0x8000-0x8FFF, tiles with unsigned indexing
	TilesSigned                 // 0x8800-0x97FF, tiles with signed indexing
	TileMap0                    // 0x9800-0x9BFF
	TileMap1                    // 0x9C00-0x9FFF
)

const numRegions = 4

// WriteObserver is a dirty bitmap over the tracked video memory regions. The
// bus owns one and records every committed write into it; the renderer
// queries and cleans it to decide which textures need rebuilding. It starts
// with every region dirty so a first consumer rebuilds everything.
type WriteObserver struct {
	dirty [numRegions]bool
}

func NewWriteObserver() WriteObserver {
	var wo WriteObserver
	for i := range wo.dirty {
		wo.dirty[i] = true
	}
	return wo
}

// RecordWrite marks the region containing addr, if any. Regions are matched
// in declaration order and the first match wins: the 0x8800-0x8FFF overlap
// between the two tile regions marks TilesUnsigned only.
func (wo *WriteObserver) RecordWrite(addr uint16) {
	switch {
	case addr >= 0x8000 && addr <= 0x8FFF:
		wo.dirty[TilesUnsigned] = true
	case addr >= 0x8800 && addr <= 0x97FF:
		wo.dirty[TilesSigned] = true
	case addr >= 0x9800 && addr <= 0x9BFF:
		wo.dirty[TileMap0] = true
	case addr >= 0x9C00 && addr <= 0x9FFF:
		wo.dirty[TileMap1] = true
	}
}

// Dirty reports whether region was written to since it was last cleaned.
func (wo *WriteObserver) Dirty(region Region) bool {
	return wo.dirty[region]
}

// Clean marks region as consumed.
func (wo *WriteObserver) Clean(region Region) {
	wo.dirty[region] = false
}

// CleanAll marks every region as consumed.
func (wo *WriteObserver) CleanAll() {
	wo.dirty = [numRegions]bool{}
}

// Apply ORs the accumulated dirty flags into dst then cleans the receiver.
// This hands dirtiness over to a consumer-owned observer at the snapshot
// exchange point without the two sides ever sharing flags.
func (wo *WriteObserver) Apply(dst *WriteObserver) {
	for i, d := range wo.dirty {
		if d {
			dst.dirty[i] = true
		}
	}
	wo.CleanAll()
}
