package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"gbor/emu"
)

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case runMode:
		cfg := emu.LoadConfigOrDefault()
		emuMain(cli.Run, cfg)
	case romInfosMode:
		romInfosMain(cli.RomInfos)
	case versionMode:
		fmt.Println("gbor", version())
	}
}

func version() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "(devel)"
}
