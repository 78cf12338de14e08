package hw

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testLCDC = 1<<lcdcEnable | 1<<lcdcTileData | 1<<lcdcBGEnable

// fillTile sets every row of tile n to the same pair of bitplane bytes.
func fillTile(img *Image, n int, lo, hi uint8) {
	for y := 0; y < tileSize; y++ {
		img[tileDataStart+n*tileBytes+2*y] = lo
		img[tileDataStart+n*tileBytes+2*y+1] = hi
	}
}

// shadeIndex maps a rendered pixel back to its palette shade.
func shadeIndex(t *testing.T, c color.RGBA) int {
	t.Helper()
	for i, s := range shades {
		if c == s {
			return i
		}
	}
	t.Fatalf("pixel %v is not one of the four shades", c)
	return -1
}

func TestPaletteDecode(t *testing.T) {
	id := decodePalette(0xE4) // 11 10 01 00
	for i := range id {
		if id[i] != shades[i] {
			t.Errorf("identity palette entry %d: got %v, want %v", i, id[i], shades[i])
		}
	}

	rev := decodePalette(0x1B) // 00 01 10 11
	for i := range rev {
		if rev[i] != shades[3-i] {
			t.Errorf("reversed palette entry %d: got %v, want %v", i, rev[i], shades[3-i])
		}
	}
}

func TestTileDecode(t *testing.T) {
	img := new(Image)
	img[LCDC] = testLCDC
	img[BGP] = 0xE4

	// Classic bitplane pair: every row decodes to 0 2 3 3 3 3 2 0.
	fillTile(img, 0, 0x3C, 0x7E)

	v := NewVideo()
	v.RenderFrame(img)

	var row [tileSize]int
	for x := range row {
		row[x] = shadeIndex(t, v.Output().RGBAAt(x, 0))
	}
	want := [tileSize]int{0, 2, 3, 3, 3, 3, 2, 0}
	if diff := cmp.Diff(want, row); diff != "" {
		t.Errorf("decoded tile row differs (-want +got):\n%s", diff)
	}
}

func TestSignedTileAddressing(t *testing.T) {
	img := new(Image)
	img[LCDC] = 1<<lcdcEnable | 1<<lcdcBGEnable // tile data bit clear: signed
	img[BGP] = 0xE4

	// Map byte 0x00 must resolve to tile 256 (0x9000), not tile 0.
	fillTile(img, 256, 0xFF, 0xFF)
	v := NewVideo()
	v.RenderFrame(img)
	if got := shadeIndex(t, v.Output().RGBAAt(0, 0)); got != 3 {
		t.Errorf("map byte 00: got shade %d, want 3", got)
	}

	// Map byte 0xFF is a negative offset: tile 255.
	img[map0Start] = 0xFF
	fillTile(img, 256, 0, 0)
	fillTile(img, 255, 0xFF, 0)
	v.Obs.RecordWrite(0x9000)
	v.Obs.RecordWrite(map0Start)
	v.RenderFrame(img)
	if got := shadeIndex(t, v.Output().RGBAAt(0, 0)); got != 1 {
		t.Errorf("map byte FF: got shade %d, want 1", got)
	}
}

func TestScrollWraparound(t *testing.T) {
	img := new(Image)
	img[LCDC] = testLCDC
	img[BGP] = 0xE4

	// One black tile at the top-left corner of the 256x256 plane.
	fillTile(img, 1, 0xFF, 0xFF)
	img[map0Start] = 1

	img[SCX] = 0xF8
	img[SCY] = 0xF8

	v := NewVideo()
	v.RenderFrame(img)

	// The screen origin now shows the plane's bottom-right corner.
	if got := shadeIndex(t, v.Output().RGBAAt(0, 0)); got != 0 {
		t.Errorf("origin: got shade %d, want 0", got)
	}
	// Eight pixels in, the scroll wraps back around to the black tile.
	if got := shadeIndex(t, v.Output().RGBAAt(8, 8)); got != 3 {
		t.Errorf("wrapped: got shade %d, want 3", got)
	}
	if got := shadeIndex(t, v.Output().RGBAAt(16, 8)); got != 0 {
		t.Errorf("past the tile: got shade %d, want 0", got)
	}
}

func TestLCDOffBlanks(t *testing.T) {
	img := new(Image)
	img[BGP] = 0xE4
	fillTile(img, 0, 0xFF, 0xFF)

	v := NewVideo()
	v.RenderFrame(img)

	if got := v.Output().RGBAAt(80, 72); got != shades[0] {
		t.Errorf("got %v, want blank %v", got, shades[0])
	}
}

func TestDirtyDrivenRebuild(t *testing.T) {
	img := new(Image)
	img[LCDC] = testLCDC
	img[BGP] = 0xE4

	v := NewVideo()
	v.RenderFrame(img)
	if got := shadeIndex(t, v.Output().RGBAAt(0, 0)); got != 0 {
		t.Fatalf("initial frame: got shade %d, want 0", got)
	}

	// Mutating tile data behind the observer's back changes nothing: the
	// atlas regions are clean, so the cached atlas is reused.
	fillTile(img, 0, 0xFF, 0xFF)
	v.RenderFrame(img)
	if got := shadeIndex(t, v.Output().RGBAAt(0, 0)); got != 0 {
		t.Errorf("clean regions: got shade %d, want stale 0", got)
	}

	// An observed write invalidates the atlas and the next frame sees it.
	v.Obs.RecordWrite(0x8000)
	v.RenderFrame(img)
	if got := shadeIndex(t, v.Output().RGBAAt(0, 0)); got != 3 {
		t.Errorf("after dirty: got shade %d, want 3", got)
	}
}

func TestWindowOverlay(t *testing.T) {
	img := new(Image)
	img[LCDC] = testLCDC | 1<<lcdcWindowEnable | 1<<lcdcWindowMap
	img[BGP] = 0xE4

	// Background all white; window map (0x9C00) all black.
	fillTile(img, 1, 0xFF, 0xFF)
	for i := uint16(0); i < mapTiles*mapTiles; i++ {
		img[map1Start+i] = 1
	}
	img[WX] = 80 + 7
	img[WY] = 72

	v := NewVideo()
	v.RenderFrame(img)

	if got := shadeIndex(t, v.Output().RGBAAt(79, 71)); got != 0 {
		t.Errorf("outside window: got shade %d, want 0", got)
	}
	if got := shadeIndex(t, v.Output().RGBAAt(80, 72)); got != 3 {
		t.Errorf("window anchor: got shade %d, want 3", got)
	}
	if got := shadeIndex(t, v.Output().RGBAAt(159, 143)); got != 3 {
		t.Errorf("bottom right: got shade %d, want 3", got)
	}
}
