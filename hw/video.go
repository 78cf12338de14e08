package hw

import (
	"image"
	"image/color"

	"gbor/emu/log"
	"gbor/hw/snapshot"
)

// Screen geometry.
const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// LCDC bits.
const (
	lcdcBGEnable     = 0 // background drawn at all
	lcdcOBJEnable    = 1
	lcdcOBJSize      = 2
	lcdcBGMap        = 3 // background map select (0: 0x9800, 1: 0x9C00)
	lcdcTileData     = 4 // tile addressing (0: signed around 0x9000, 1: unsigned from 0x8000)
	lcdcWindowEnable = 5
	lcdcWindowMap    = 6 // window map select (0: 0x9800, 1: 0x9C00)
	lcdcEnable       = 7 // LCD power
)

const (
	numTiles  = 384
	tileSize  = 8
	tileBytes = 16

	tileDataStart = 0x8000
	map0Start     = 0x9800
	map1Start     = 0x9C00

	mapTiles = 32  // background maps are 32x32 tiles
	bgSize   = 256 // composed background plane is 256x256 pixels
)

// tile is one decoded 8x8 tile, row-major 2-bit color indexes.
type tile [tileSize * tileSize]uint8

// Video composes the visible frame from a consistent snapshot of the address
// space, never from the live bus. Each frame the machine applies the bus
// observer into Obs and hands over the snapshot image; Video rebuilds only
// the layers whose backing regions are dirty.
type Video struct {
	Obs WriteObserver

	atlas  [numTiles]tile         // decoded tile pixels
	bg     [bgSize * bgSize]uint8 // composed background color indexes
	lcdc   uint8                  // control value the cached layers were built with
	screen image.RGBA
}

func NewVideo() *Video {
	return &Video{
		Obs:    NewWriteObserver(),
		screen: *image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
	}
}

// Output returns the frame composed by the last RenderFrame call.
func (v *Video) Output() *image.RGBA {
	return &v.screen
}

// RenderFrame composes the next frame from img. Layers whose regions are
// clean in Obs are reused from the previous frame; a control register change
// invalidates them the way a memory write does.
func (v *Video) RenderFrame(img *Image) {
	lcdc := img[LCDC]
	if !GetBit8(lcdc, lcdcEnable) || !GetBit8(lcdc, lcdcBGEnable) {
		v.blank()
		return
	}

	atlasDirty := v.Obs.Dirty(TilesUnsigned) || v.Obs.Dirty(TilesSigned)
	if atlasDirty {
		v.rebuildAtlas(img)
		v.Obs.Clean(TilesUnsigned)
		v.Obs.Clean(TilesSigned)
	}

	bgmap := TileMap0
	if GetBit8(lcdc, lcdcBGMap) {
		bgmap = TileMap1
	}
	if atlasDirty || v.Obs.Dirty(bgmap) || lcdc != v.lcdc {
		v.composeBG(img, bgmap, GetBit8(lcdc, lcdcTileData))
		v.Obs.Clean(bgmap)
	}
	v.lcdc = lcdc

	// Scroll the composed plane into the screen and apply the palette.
	pal := decodePalette(img[BGP])
	scy, scx := img[SCY], img[SCX]
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			ci := v.bg[int(uint8(y)+scy)*bgSize+int(uint8(x)+scx)]
			v.screen.SetRGBA(x, y, pal[ci])
		}
	}

	if GetBit8(lcdc, lcdcWindowEnable) {
		v.drawWindow(img, lcdc)
		winmap := TileMap0
		if GetBit8(lcdc, lcdcWindowMap) {
			winmap = TileMap1
		}
		v.Obs.Clean(winmap)
	}
}

// blank fills the frame with the unlit shade.
func (v *Video) blank() {
	for i := range v.screen.Pix {
		v.screen.Pix[i] = 0xFF
	}
}

// rebuildAtlas decodes the 384 tiles of video RAM. A tile row is two bytes,
// low bitplane first, most significant bit leftmost.
func (v *Video) rebuildAtlas(img *Image) {
	for t := 0; t < numTiles; t++ {
		addr := tileDataStart + t*tileBytes
		for y := 0; y < tileSize; y++ {
			lo := img[addr+2*y]
			hi := img[addr+2*y+1]
			for x := 0; x < tileSize; x++ {
				shift := uint8(7 - x)
				v.atlas[t][y*tileSize+x] = nthbit8(hi, shift)<<1 | nthbit8(lo, shift)
			}
		}
	}
	log.ModVideo.DebugZ("tile atlas rebuilt").End()
}

// composeBG lays the selected 32x32 map out as the full 256x256 color index
// plane.
func (v *Video) composeBG(img *Image, region Region, unsignedIdx bool) {
	base := uint16(map0Start)
	if region == TileMap1 {
		base = map1Start
	}
	for ty := 0; ty < mapTiles; ty++ {
		for tx := 0; tx < mapTiles; tx++ {
			t := &v.atlas[tileNum(img[base+uint16(ty*mapTiles+tx)], unsignedIdx)]
			for y := 0; y < tileSize; y++ {
				row := (ty*tileSize+y)*bgSize + tx*tileSize
				copy(v.bg[row:row+tileSize], t[y*tileSize:(y+1)*tileSize])
			}
		}
	}
}

// drawWindow lays the window layer over the frame. The window is an
// unscrolled map anchored at (WX-7, WY), covering everything below and right
// of its anchor.
func (v *Video) drawWindow(img *Image, lcdc uint8) {
	wy := int(img[WY])
	wx := int(img[WX]) - 7
	if wy >= ScreenHeight || wx >= ScreenWidth {
		return
	}

	base := uint16(map0Start)
	if GetBit8(lcdc, lcdcWindowMap) {
		base = map1Start
	}
	unsignedIdx := GetBit8(lcdc, lcdcTileData)
	pal := decodePalette(img[BGP])

	for y := max(wy, 0); y < ScreenHeight; y++ {
		for x := max(wx, 0); x < ScreenWidth; x++ {
			px, py := x-wx, y-wy
			t := &v.atlas[tileNum(img[base+uint16(py/tileSize*mapTiles+px/tileSize)], unsignedIdx)]
			v.screen.SetRGBA(x, y, pal[t[py%tileSize*tileSize+px%tileSize]])
		}
	}
}

// tileNum resolves a map byte to an atlas tile number. Unsigned indexing
// addresses tiles 0-255 from 0x8000; signed indexing addresses tiles 128-383,
// the map byte being a signed offset around tile 256 (0x9000).
func tileNum(idx uint8, unsignedIdx bool) int {
	if unsignedIdx {
		return int(idx)
	}
	return 256 + int(int8(idx))
}

/* snapshots */

// SaveState captures the dirty flags pending for the next frame. The layer
// caches are not state: pending flags are what rebuilds them.
func (v *Video) SaveState() *snapshot.Video {
	return &snapshot.Video{Dirty: v.Obs.dirty}
}

func (v *Video) LoadState(state *snapshot.Video) {
	v.Obs.dirty = state.Dirty
}

// palette is one palette register expanded to shades: entry i is the shade
// the two-bit field i selects. BGP, OBP0 and OBP1 all use this layout.
type palette [4]color.RGBA

var shades = [4]color.RGBA{
	{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	{R: 0xAA, G: 0xAA, B: 0xAA, A: 0xFF},
	{R: 0x55, G: 0x55, B: 0x55, A: 0xFF},
	{R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
}

func decodePalette(reg uint8) palette {
	var p palette
	for i := range p {
		p[i] = shades[reg>>(2*uint(i))&3]
	}
	return p
}
