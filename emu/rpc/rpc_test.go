package rpc

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeEmu struct {
	mu    sync.Mutex
	calls []string
	pause bool
	dir   string
}

func (f *fakeEmu) record(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
}

func (f *fakeEmu) Reset()   { f.record("reset") }
func (f *fakeEmu) Restart() { f.record("restart") }
func (f *fakeEmu) Stop()    { f.record("stop") }

func (f *fakeEmu) SetPause(pause bool) {
	f.record("setpause")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pause = pause
}

func (f *fakeEmu) SetTempDir(path string) {
	f.record("settempdir")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dir = path
}

// The rpc server registers into the net/rpc default server, which forbids
// registering twice, so a single test walks the whole surface.
func TestClientServerRoundTrip(t *testing.T) {
	emu := &fakeEmu{}
	port := UnusedPort()

	srv, err := NewServer(port, emu)
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	client, err := NewClient(port)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	if !client.IsReady() {
		t.Fatal("IsReady() = false, want true")
	}

	dir := t.TempDir()
	client.Reset()
	client.Restart()
	client.SetPause(true)
	client.SetTempDir(dir)
	client.Stop()

	emu.mu.Lock()
	defer emu.mu.Unlock()

	want := []string{"reset", "restart", "setpause", "settempdir", "stop"}
	if diff := cmp.Diff(want, emu.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if !emu.pause {
		t.Errorf("SetPause(true) did not reach the emulator")
	}
	if emu.dir != dir {
		t.Errorf("SetTempDir: got %q, want %q", emu.dir, dir)
	}
}
