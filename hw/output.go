package hw

import (
	"image"
	"image/png"
	"os"

	"github.com/veandco/go-sdl2/sdl"

	"gbor/emu/log"
)

// Frame is one video frame handed out by the output for the machine to
// render into.
type Frame struct {
	Video *image.RGBA
}

type OutputConfig struct {
	Width          int
	Height         int
	NumBackBuffers int
	Title          string
	ScaleFactor    int
	DisableVSync   bool
	Monitor        int32
	Shader         string
}

// Output rotates the back buffers the machine renders into and presents
// finished frames to the window. Until EnableVideo is called it stays
// headless: frames are produced and dropped, which is how tests run it.
type Output struct {
	cfg OutputConfig
	win *window

	bufidx int
	bufs   []*image.RGBA
	last   *image.RGBA

	framecounter int

	// OnPause, when non-nil, runs on the pause key press.
	OnPause func()
}

func NewOutput(cfg OutputConfig) *Output {
	bufs := make([]*image.RGBA, cfg.NumBackBuffers)
	for i := range bufs {
		bufs[i] = image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	}
	return &Output{
		cfg:  cfg,
		bufs: bufs,
	}
}

// EnableVideo opens the window on the SDL thread.
func (o *Output) EnableVideo(enable bool) error {
	if !enable || o.win != nil {
		return nil
	}
	type result struct {
		w   *window
		err error
	}
	resc := make(chan result, 1)
	sdl.Do(func() {
		w, err := newWindow(o.cfg)
		resc <- result{w, err}
	})
	res := <-resc
	if res.err != nil {
		return res.err
	}
	o.win = res.w
	log.ModVideo.InfoZ("video output enabled").
		Int("width", o.cfg.Width).
		Int("height", o.cfg.Height).
		String("shader", o.cfg.Shader).
		End()
	return nil
}

// BeginFrame returns the next back buffer to render into.
func (o *Output) BeginFrame() Frame {
	o.bufidx++
	if o.bufidx == len(o.bufs) {
		o.bufidx = 0
	}
	return Frame{Video: o.bufs[o.bufidx]}
}

// EndFrame presents a finished frame.
func (o *Output) EndFrame(frame Frame) {
	o.framecounter++
	o.last = frame.Video
	if o.win != nil {
		sdl.Do(func() {
			o.win.present(frame.Video.Pix)
		})
	}
}

// Poll pumps the event queue. It returns false when the user asked to quit.
func (o *Output) Poll() bool {
	if o.win == nil {
		return true
	}
	quit := false
	sdl.Do(func() {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				quit = true
			case *sdl.KeyboardEvent:
				if e.Type != sdl.KEYDOWN {
					break
				}
				switch e.Keysym.Sym {
				case sdl.K_ESCAPE:
					quit = true
				case sdl.K_SPACE:
					if o.OnPause != nil {
						o.OnPause()
					}
				}
			case *sdl.WindowEvent:
				if e.Event == sdl.WINDOWEVENT_RESIZED {
					o.win.setViewport(e.Data1, e.Data2)
				}
			}
		}
	})
	return !quit
}

// FocusWindow raises the window above the others and gives it input focus.
func (o *Output) FocusWindow() {
	if o.win != nil {
		sdl.Do(func() {
			o.win.Raise()
		})
	}
}

func (o *Output) Close() {
	if o.win == nil {
		return
	}
	errc := make(chan error, 1)
	sdl.Do(func() {
		errc <- o.win.close()
	})
	if err := <-errc; err != nil {
		log.ModVideo.WarnZ("window close").Error("err", err).End()
	}
	o.win = nil
	log.ModVideo.InfoZ("video output closed").Int("frames", o.framecounter).End()
}

// Screenshot returns a copy of the last finished frame.
func (o *Output) Screenshot() *image.RGBA {
	if o.last == nil {
		return image.NewRGBA(image.Rect(0, 0, o.cfg.Width, o.cfg.Height))
	}
	dup := image.NewRGBA(o.last.Rect)
	copy(dup.Pix, o.last.Pix)
	return dup
}

// SaveAsPNG writes img to path.
func SaveAsPNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
