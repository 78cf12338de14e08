package emu

import (
	"image"

	"gbor/hw"
)

// TestingOutput is a headless Output: frames land in a plain image and
// Poll gives up after a fixed number of them, bounding test runtime.
type TestingOutput struct {
	frame *image.RGBA

	framecounter int
	maxFrames    int
}

func newTestingOutput(maxFrames int) *TestingOutput {
	return &TestingOutput{
		frame:     image.NewRGBA(image.Rect(0, 0, hw.ScreenWidth, hw.ScreenHeight)),
		maxFrames: maxFrames,
	}
}

func (to *TestingOutput) Close() {}

func (to *TestingOutput) BeginFrame() hw.Frame {
	return hw.Frame{Video: to.frame}
}

func (to *TestingOutput) EndFrame(hw.Frame) {
	to.framecounter++
}

func (to *TestingOutput) Poll() bool {
	return to.framecounter < to.maxFrames
}

func (to *TestingOutput) Screenshot() *image.RGBA {
	img := image.NewRGBA(to.frame.Rect)
	copy(img.Pix, to.frame.Pix)
	return img
}
