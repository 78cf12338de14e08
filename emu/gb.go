package emu

import (
	"gbor/emu/log"
	"gbor/gbrom"
	"gbor/hw"
	"gbor/hw/snapshot"
)

// GB bundles the emulated machine: processor, address space and the
// renderer consuming its snapshots.
type GB struct {
	CPU   *hw.CPU
	Mem   *hw.AddrSpace
	Video *hw.Video
	Rom   *gbrom.Rom

	// vimg is the image the renderer reads from. It trades places with
	// the bus backup image at every rendered frame.
	vimg *hw.Image
	boot []byte
}

func powerUp(rom *gbrom.Rom, boot []byte) (*GB, error) {
	mem := hw.NewAddrSpace()
	if boot != nil {
		if err := mem.LoadBoot(boot); err != nil {
			return nil, err
		}
	}
	if err := mem.LoadCart(rom.Data); err != nil {
		return nil, err
	}
	if rom.HasMapper() {
		log.ModRom.WarnZ("unsupported mapper, only the first 32KiB are mapped").
			String("type", rom.CartTypeString()).
			End()
	}

	cpu := hw.NewCPU(mem)
	log.AddContext(cpu)

	return &GB{
		CPU:   cpu,
		Mem:   mem,
		Video: hw.NewVideo(),
		Rom:   rom,
		vimg:  new(hw.Image),
		boot:  boot,
	}, nil
}

// Reset returns the machine to power-up state. A soft reset only touches
// the processor; a hard reset also rebuilds the address space from the
// loaded images, as a power cycle would.
func (gb *GB) Reset(soft bool) {
	if !soft {
		mem := hw.NewAddrSpace()
		if gb.boot != nil {
			mem.LoadBoot(gb.boot) // sizes were checked at power-up
		}
		mem.LoadCart(gb.Rom.Data)
		gb.Mem = mem
		gb.CPU.Mem = mem
	}
	gb.CPU.Reset()
}

// runFrame advances the machine by one frame worth of scanlines without
// touching the render pipeline. Per line it positions the line counter,
// runs the processor for the line budget and derives the divider from the
// clock; both go through the raw store path, a program write to them still
// resets them. The vertical blank signal is delivered at the top of line
// 144 when the processor accepts interrupts.
func (gb *GB) runFrame() {
	for line := range hw.LinesPerFrame {
		gb.Mem.Poke(hw.LY, uint8(line))
		if line == hw.VBlankLine && gb.CPU.InterruptsEnabled() && gb.CPU.State != hw.Stopped {
			gb.CPU.Interrupt(hw.IntVBlank)
		}
		gb.CPU.Run(hw.CyclesPerLine)
		gb.Mem.Poke(hw.DIV, uint8(gb.CPU.Cycles>>8))
		if gb.Stalled() {
			// Nothing can wake the machine, no point sweeping the
			// remaining lines.
			break
		}
	}
}

// RunOneFrame advances the machine by one video frame and renders it into
// frame: sweep the scanlines, hand the accumulated video dirtiness and a
// consistent image over to the renderer, then draw.
func (gb *GB) RunOneFrame(frame hw.Frame) {
	gb.runFrame()

	gb.Mem.Observer().Apply(&gb.Video.Obs)
	gb.vimg = gb.Mem.SwapBackup(gb.vimg)
	gb.Video.RenderFrame(gb.vimg)
	copy(frame.Video.Pix, gb.Video.Output().Pix)
}

// Stalled reports whether execution can no longer make progress: the
// processor executed STOP, or it is suspended with interrupts disabled.
func (gb *GB) Stalled() bool {
	return gb.CPU.State == hw.Stopped ||
		(gb.CPU.State != hw.Running && !gb.CPU.InterruptsEnabled())
}

// SaveSnapshot serializes the complete machine state.
func (gb *GB) SaveSnapshot() []byte {
	return snapshot.Encode(&snapshot.GB{
		Version: snapshot.Version,
		CPU:     gb.CPU.SaveState(),
		Mem:     gb.Mem.SaveState(),
		Video:   gb.Video.SaveState(),
	})
}

// LoadSnapshot restores the machine to a state produced by SaveSnapshot.
// The boot overlay bytes are not part of a snapshot: restoring one with
// the latch set expects the same boot image to be loaded.
func (gb *GB) LoadSnapshot(buf []byte) error {
	state, err := snapshot.Decode(buf)
	if err != nil {
		return err
	}
	gb.CPU.LoadState(state.CPU)
	gb.Mem.LoadState(state.Mem)
	gb.Video.LoadState(state.Video)
	return nil
}
