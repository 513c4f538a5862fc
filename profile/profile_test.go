package profile

import (
	"errors"
	"testing"
)

func TestMake(t *testing.T) {
	t.Parallel()

	p := Make(WithMode(" CPU "), WithDir("/tmp/prof"), nil, WithQuiet(true))

	want := Profiler{Mode: "cpu", Dir: "/tmp/prof", Quiet: true}
	if p != want {
		t.Errorf("Make() = %+v, want %+v", p, want)
	}
}

func TestStart_Disabled(t *testing.T) {
	t.Parallel()

	s, err := Profiler{}.Start()
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	s.Stop()
	s.Stop()
}

func TestStart_UnknownMode(t *testing.T) {
	t.Parallel()

	s, err := Make(WithMode("nonsense")).Start()
	if !errors.Is(err, ErrMode) {
		t.Errorf("Start() error = %v, want %v", err, ErrMode)
	}

	s.Stop()
}

func TestModes(t *testing.T) {
	t.Parallel()

	if Enabled() != (len(Modes()) > 0) {
		t.Error("Enabled() disagrees with Modes()")
	}
}
