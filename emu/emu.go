package emu

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"gbor/emu/log"
	"gbor/gbrom"
	"gbor/hw"
	"gbor/hw/shaders"
)

type Output interface {
	BeginFrame() hw.Frame
	EndFrame(hw.Frame)
	Poll() bool
	Close()
	Screenshot() *image.RGBA
}

type Config struct {
	Video     VideoConfig     `toml:"video"`
	Emulation EmulationConfig `toml:"emulation"`

	TraceOut io.WriteCloser `toml:"-"`
}

type EmulationConfig struct {
	RunAheadFrames int    `toml:"run_ahead_frames"`
	BootRom        string `toml:"boot_rom"`
}

type VideoConfig struct {
	DisableVSync bool   `toml:"disable_vsync"`
	Monitor      int32  `toml:"monitor"`
	Shader       string `toml:"shader"`
}

func (vcfg *VideoConfig) Check() {
	// Ensure we have a valid shader.
	if vcfg.Shader == "" {
		vcfg.Shader = shaders.DefaultName
	}
	if !slices.Contains(shaders.Names(), vcfg.Shader) {
		log.ModEmu.Warnf("Invalid shader name %q, fallback to %q", vcfg.Shader, shaders.DefaultName)
		vcfg.Shader = shaders.DefaultName
	}
}

type Emulator struct {
	GB  *GB
	out Output
	cfg EmulationConfig

	// These are accessed concurrently by the emulator loop and the UI.
	quit    atomic.Bool
	paused  atomic.Bool
	reset   atomic.Bool
	restart atomic.Bool

	tmpdir string
}

// Launch starts the hardware subsystems: maps the boot and cartridge
// images, shows the window and sets up the video stream. It doesn't start
// the emulation loop, call Run() for that.
func Launch(rom *gbrom.Rom, cfg Config) (*Emulator, error) {
	var boot []byte
	if cfg.Emulation.BootRom != "" {
		var err error
		boot, err = gbrom.ReadBoot(cfg.Emulation.BootRom)
		if err != nil {
			return nil, fmt.Errorf("failed to load boot image: %w", err)
		}
	}

	gb, err := powerUp(rom, boot)
	if err != nil {
		return nil, fmt.Errorf("power up failed: %s", err)
	}

	// Output setup.
	out := hw.NewOutput(hw.OutputConfig{
		Width:          hw.ScreenWidth,
		Height:         hw.ScreenHeight,
		NumBackBuffers: 2,
		Title:          "gbor",
		ScaleFactor:    3,
		DisableVSync:   cfg.Video.DisableVSync,
		Monitor:        cfg.Video.Monitor,
		Shader:         cfg.Video.Shader,
	})
	if err := out.EnableVideo(true); err != nil {
		return nil, err
	}

	// CPU execution trace setup.
	if cfg.TraceOut != nil {
		gb.CPU.SetTraceOutput(cfg.TraceOut)
	}

	e := &Emulator{
		GB:  gb,
		out: out,
		cfg: cfg.Emulation,
	}
	out.OnPause = func() { e.SetPause(!e.isPaused()) }
	return e, nil
}

func (e *Emulator) RunOneFrame() {
	if e.cfg.RunAheadFrames > 0 {
		e.RunFrameWithRunAhead()
	} else {
		frame := e.out.BeginFrame()
		e.GB.RunOneFrame(frame)
		e.out.EndFrame(frame)
	}
}

// RunFrameWithRunAhead hides emulation latency by showing a frame from a
// few frames into the future: run ahead without rendering, render one
// frame there, then restore. The machine replays the skipped stretch on
// the next call.
func (e *Emulator) RunFrameWithRunAhead() {
	frames := e.cfg.RunAheadFrames

	// Run a single frame and snapshot it, without rendering.
	e.GB.runFrame()
	buf := e.GB.SaveSnapshot()

	for frames > 1 {
		e.GB.runFrame()
		frames--
	}

	// Run one frame normally.
	frame := e.out.BeginFrame()
	e.GB.RunOneFrame(frame)
	e.out.EndFrame(frame)

	if err := e.GB.LoadSnapshot(buf); err != nil {
		log.ModEmu.PanicZ("failed to load run-ahead snapshot").Error("err", err).End()
	}
}

func (e *Emulator) loop() {
	for e.out.Poll() {
		// Handle pause.
		if e.isPaused() {
			// Don't burn cpu while paused.
			time.Sleep(100 * time.Millisecond)
		} else {
			e.RunOneFrame()
		}
		if e.shouldStop() {
			break
		}
		e.handleReset()
	}

	e.out.Close()
}

// RaiseWindow raises the emulator window above others and sets the input focus.
func (e *Emulator) RaiseWindow() {
	if hwout, ok := e.out.(*hw.Output); ok {
		hwout.FocusWindow()
	}
}

func (e *Emulator) Run() {
	e.loop()
	log.ModEmu.InfoZ("Emulation loop exited").End()

	if e.tmpdir != "" {
		e.save()
	}
}

func (e *Emulator) save() {
	path := filepath.Join(e.tmpdir, "save.state")
	if err := os.WriteFile(path, e.GB.SaveSnapshot(), 0644); err != nil {
		log.ModEmu.WarnZ("Failed to save state").String("path", path).Error("err", err).End()
	}

	path = filepath.Join(e.tmpdir, "screenshot.png")
	if err := hw.SaveAsPNG(e.out.Screenshot(), path); err != nil {
		log.ModEmu.WarnZ("Failed to save screenshot").String("path", path).End()
	}
}

func (e *Emulator) SetTempDir(path string) { e.tmpdir = path }

// SetPause, Stop, Reset and Restart allows to control
// the emulator loop in a concurrent-safe way.

func (e *Emulator) SetPause(pause bool) { e.paused.CompareAndSwap(!pause, pause) }
func (e *Emulator) Reset()              { e.reset.Store(true) }
func (e *Emulator) Restart()            { e.restart.Store(true) }
func (e *Emulator) Stop() {
	e.quit.Store(true)
}

func (e *Emulator) isPaused() bool {
	return e.paused.Load()
}

func (e *Emulator) shouldStop() bool {
	return e.quit.Load() || e.GB.Stalled()
}

func (e *Emulator) handleReset() {
	if e.reset.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing soft reset").End()
		e.GB.Reset(true)
	} else if e.restart.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing hard reset").End()
		e.GB.Reset(false)
	}
}
