package main

import (
	"fmt"
	"os"

	"github.com/go-faster/jx"
	"golang.org/x/sync/errgroup"

	"gbor/gbrom"
)

// romInfosMain prints the header information of the given roms, as text or
// as a JSON array.
func romInfosMain(args RomInfos) {
	roms := make([]*gbrom.Rom, len(args.RomPaths))

	var g errgroup.Group
	for i, path := range args.RomPaths {
		g.Go(func() error {
			rom, err := gbrom.ReadRom(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			roms[i] = rom
			return nil
		})
	}
	checkf(g.Wait(), "failed to read rom")

	if args.JSON {
		os.Stdout.Write(jsonInfos(args.RomPaths, roms))
		fmt.Println()
		return
	}

	for i, rom := range roms {
		if i > 0 {
			fmt.Println()
		}
		if len(roms) > 1 {
			fmt.Printf("%s:\n", args.RomPaths[i])
		}
		rom.PrintInfos(os.Stdout)
	}
}

func jsonInfos(paths []string, roms []*gbrom.Rom) []byte {
	var e jx.Encoder
	e.SetIdent(2)
	e.Arr(func(e *jx.Encoder) {
		for i, rom := range roms {
			e.Obj(func(e *jx.Encoder) {
				e.Field("path", func(e *jx.Encoder) { e.Str(paths[i]) })
				e.Field("title", func(e *jx.Encoder) { e.Str(rom.Title()) })
				e.Field("type", func(e *jx.Encoder) { e.Str(rom.CartTypeString()) })
				e.Field("rom_size", func(e *jx.Encoder) { e.Int(rom.RomSize()) })
				e.Field("ram_size", func(e *jx.Encoder) { e.Int(rom.RamSize()) })
				e.Field("destination", func(e *jx.Encoder) { e.Str(rom.Destination()) })
				e.Field("version", func(e *jx.Encoder) { e.UInt8(rom.Version()) })
				e.Field("logo_valid", func(e *jx.Encoder) { e.Bool(rom.HasValidLogo()) })
				e.Field("header_checksum", func(e *jx.Encoder) { e.UInt8(rom.HeaderChecksum()) })
				e.Field("global_checksum", func(e *jx.Encoder) { e.UInt16(rom.GlobalChecksum()) })
			})
		}
	})
	return e.Bytes()
}
