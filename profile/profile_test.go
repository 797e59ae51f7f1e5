package profile

import (
	"slices"
	"testing"
)

func TestNew(t *testing.T) {
	p := New(WithMode("cpu"), WithPath("/tmp/x"), WithQuiet(true))

	if p.mode != "cpu" || p.path != "/tmp/x" || !p.quiet {
		t.Errorf("New() = %+v", p)
	}

	if p.Mode() != "cpu" {
		t.Errorf("Mode() = %q, want cpu", p.Mode())
	}
}

func TestStart_NoMode(t *testing.T) {
	s := New(WithPath(t.TempDir())).Start()
	if _, ok := s.(ignore); !ok {
		t.Errorf("Start() without mode = %T, want no-op", s)
	}

	s.Stop()
}

func TestStart_UnknownMode(t *testing.T) {
	s := New(WithMode("bogus"), WithPath(t.TempDir()), WithQuiet(true)).Start()
	if _, ok := s.(ignore); !ok {
		t.Errorf("Start() with unknown mode = %T, want no-op", s)
	}

	s.Stop()
}

func TestModes(t *testing.T) {
	modes := Modes()

	if !Enabled {
		if len(modes) != 0 {
			t.Errorf("Modes() = %q, want none without %s tag", modes, Tag)
		}

		return
	}

	if !slices.IsSorted(modes) || !slices.Contains(modes, "cpu") {
		t.Errorf("Modes() = %q", modes)
	}
}
