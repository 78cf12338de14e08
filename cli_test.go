package main

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte{0}, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseArgsRunDefault(t *testing.T) {
	rom := touch(t, "game.gb")
	boot := touch(t, "boot.bin")

	cli := parseArgs([]string{rom, "--boot", boot, "--monitor", "1"})
	if cli.mode != runMode {
		t.Fatalf("mode = %d, want runMode", cli.mode)
	}
	if cli.Run.RomPath != rom {
		t.Errorf("rom path = %q, want %q", cli.Run.RomPath, rom)
	}
	if cli.Run.Boot != boot {
		t.Errorf("boot path = %q, want %q", cli.Run.Boot, boot)
	}
	if cli.Run.Monitor != 1 {
		t.Errorf("monitor = %d, want 1", cli.Run.Monitor)
	}
}

func TestParseArgsRomInfos(t *testing.T) {
	rom1 := touch(t, "a.gb")
	rom2 := touch(t, "b.gb")

	cli := parseArgs([]string{"rom-infos", "--json", rom1, rom2})
	if cli.mode != romInfosMode {
		t.Fatalf("mode = %d, want romInfosMode", cli.mode)
	}
	if !cli.RomInfos.JSON {
		t.Error("json flag not set")
	}
	if len(cli.RomInfos.RomPaths) != 2 {
		t.Fatalf("got %d rom paths, want 2", len(cli.RomInfos.RomPaths))
	}
}

func TestParseArgsVersion(t *testing.T) {
	cli := parseArgs([]string{"version"})
	if cli.mode != versionMode {
		t.Fatalf("mode = %d, want versionMode", cli.mode)
	}
}

func TestParseArgsTrace(t *testing.T) {
	rom := touch(t, "game.gb")

	cli := parseArgs([]string{rom, "--trace", "stdout"})
	if cli.Run.Trace == nil {
		t.Fatal("trace flag not decoded")
	}
	if cli.Run.Trace.w != os.Stdout {
		t.Error("trace writer should be stdout")
	}
	if err := cli.Run.Trace.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}
