package recorder

import (
	"errors"
	"testing"
	"time"

	"github.com/flightrec/flightrec/pkg/event"
)

func testCatalog(t *testing.T) *event.Catalog {
	t.Helper()
	cat := event.NewCatalog()
	if err := event.RegisterBuiltins(cat); err != nil {
		t.Fatal(err)
	}
	return cat
}

func TestRecorderIDs(t *testing.T) {
	rc := New(testCatalog(t))

	a := rc.NewRecording("a")
	b := rc.NewRecording("")

	if a.ID() != 1 || b.ID() != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", a.ID(), b.ID())
	}
	if b.Name() != "2" {
		t.Errorf("default name = %q, want %q", b.Name(), "2")
	}
}

func TestFindRecording(t *testing.T) {
	rc := New(testCatalog(t))
	first := rc.NewRecording("backend")
	second := rc.NewRecording("worker")

	t.Run("by name", func(t *testing.T) {
		r, err := rc.FindRecording("worker")
		if err != nil {
			t.Fatal(err)
		}
		if r != second {
			t.Error("resolved wrong recording")
		}
	})

	t.Run("by id", func(t *testing.T) {
		r, err := rc.FindRecording("1")
		if err != nil {
			t.Fatal(err)
		}
		if r != first {
			t.Error("resolved wrong recording")
		}
	})

	t.Run("name match wins over id match", func(t *testing.T) {
		named := rc.NewRecording("1")
		r, err := rc.FindRecording("1")
		if err != nil {
			t.Fatal(err)
		}
		if r != named {
			t.Error("expected the recording named 1, not the recording with id 1")
		}
		rc.Remove(named)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := rc.FindRecording("missing")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestRecordingLifecycle(t *testing.T) {
	rc := New(testCatalog(t))

	t.Run("new to running to stopped", func(t *testing.T) {
		r := rc.NewRecording("r")
		if r.State() != StateNew {
			t.Fatalf("state = %s, want NEW", r.State())
		}
		if err := r.Start(); err != nil {
			t.Fatal(err)
		}
		if r.State() != StateRunning {
			t.Fatalf("state = %s, want RUNNING", r.State())
		}
		if err := r.Stop(); err != nil {
			t.Fatal(err)
		}
		if r.State() != StateStopped {
			t.Fatalf("state = %s, want STOPPED", r.State())
		}
	})

	t.Run("double start rejected", func(t *testing.T) {
		r := rc.NewRecording("r")
		if err := r.Start(); err != nil {
			t.Fatal(err)
		}
		if err := r.Start(); !errors.Is(err, ErrAlreadyAlive) {
			t.Errorf("err = %v, want ErrAlreadyAlive", err)
		}
	})

	t.Run("stop before start rejected", func(t *testing.T) {
		r := rc.NewRecording("r")
		if err := r.Stop(); !errors.Is(err, ErrNotRunning) {
			t.Errorf("err = %v, want ErrNotRunning", err)
		}
	})

	t.Run("closed is terminal", func(t *testing.T) {
		r := rc.NewRecording("r")
		if err := r.Close(); err != nil {
			t.Fatal(err)
		}
		if r.State() != StateClosed {
			t.Fatalf("state = %s, want CLOSED", r.State())
		}
		if err := r.Start(); !errors.Is(err, ErrClosed) {
			t.Errorf("start after close: err = %v, want ErrClosed", err)
		}
		if err := r.SetMaxSize(1024); !errors.Is(err, ErrClosed) {
			t.Errorf("configure after close: err = %v, want ErrClosed", err)
		}
		// Closing again is a no-op.
		if err := r.Close(); err != nil {
			t.Errorf("second close: err = %v, want nil", err)
		}
	})

	t.Run("scheduled start lands in delayed", func(t *testing.T) {
		r := rc.NewRecording("r")
		if err := r.ScheduleStart(time.Hour); err != nil {
			t.Fatal(err)
		}
		if r.State() != StateDelayed {
			t.Fatalf("state = %s, want DELAYED", r.State())
		}
		// A delayed recording can be stopped before it ever runs.
		if err := r.Stop(); err != nil {
			t.Fatal(err)
		}
		if r.State() != StateStopped {
			t.Fatalf("state = %s, want STOPPED", r.State())
		}
	})

	t.Run("zero delay starts immediately", func(t *testing.T) {
		r := rc.NewRecording("r")
		if err := r.ScheduleStart(0); err != nil {
			t.Fatal(err)
		}
		if r.State() != StateRunning {
			t.Fatalf("state = %s, want RUNNING", r.State())
		}
	})
}

func TestEmitFanOut(t *testing.T) {
	rc := New(testCatalog(t))

	enabled := rc.NewRecording("enabled")
	if err := enabled.EnableEvent("runtime.GC"); err != nil {
		t.Fatal(err)
	}
	if err := enabled.Start(); err != nil {
		t.Fatal(err)
	}

	disabled := rc.NewRecording("disabled")
	if err := disabled.Start(); err != nil {
		t.Fatal(err)
	}

	stopped := rc.NewRecording("stopped")
	if err := stopped.EnableEvent("runtime.GC"); err != nil {
		t.Fatal(err)
	}

	rc.Emit(event.New("runtime.GC", map[string]any{"pauseMillis": 12}))

	if n := len(enabled.Events()); n != 1 {
		t.Errorf("enabled recording captured %d events, want 1", n)
	}
	if n := len(disabled.Events()); n != 0 {
		t.Errorf("recording without the type enabled captured %d events, want 0", n)
	}
	if n := len(stopped.Events()); n != 0 {
		t.Errorf("non-running recording captured %d events, want 0", n)
	}
}

// Exercises Emit racing against recording churn; run with -race. Emit must
// iterate its own snapshot, not the live slice Remove compacts in place.
func TestEmitConcurrentWithChurn(t *testing.T) {
	rc := New(testCatalog(t))

	stable := rc.NewRecording("stable")
	if err := stable.EnableEvent("runtime.GC"); err != nil {
		t.Fatal(err)
	}
	if err := stable.Start(); err != nil {
		t.Fatal(err)
	}

	const emits = 200
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < emits; i++ {
			rc.Emit(event.New("runtime.GC", map[string]any{"cycle": i}))
		}
	}()

	for i := 0; i < 50; i++ {
		r := rc.NewRecording("churn")
		if err := r.Start(); err != nil {
			t.Fatal(err)
		}
		rc.Remove(r)
	}
	<-done

	if n := len(stable.Events()); n != emits {
		t.Errorf("stable recording captured %d events, want %d", n, emits)
	}
}

func TestMaxSizeEviction(t *testing.T) {
	rc := New(testCatalog(t))
	r := rc.NewRecording("r")
	if err := r.EnableEvent("app.Log"); err != nil {
		t.Fatal(err)
	}
	if err := r.SetMaxSize(600); err != nil {
		t.Fatal(err)
	}
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 50; i++ {
		rc.Emit(event.New("app.Log", map[string]any{"message": "xxxxxxxxxxxxxxxxxxxx"}))
	}

	if r.Size() > 600 {
		t.Errorf("buffer size = %d, want <= 600", r.Size())
	}
	if n := len(r.Events()); n == 0 || n >= 50 {
		t.Errorf("captured %d events, want some but fewer than emitted", n)
	}
}

func TestMaxAgePruning(t *testing.T) {
	rc := New(testCatalog(t))
	r := rc.NewRecording("r")
	if err := r.EnableEvent("app.Log"); err != nil {
		t.Fatal(err)
	}
	if err := r.SetMaxAge(time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}

	old := event.New("app.Log", nil)
	old.Time = time.Now().Add(-2 * time.Minute)
	rc.Emit(old)
	rc.Emit(event.New("app.Log", nil))

	events := r.Events()
	if len(events) != 1 {
		t.Fatalf("captured %d events after pruning, want 1", len(events))
	}
	if events[0].ID == old.ID {
		t.Error("stale event survived maxAge pruning")
	}
}

func TestSettingsSnapshotIsACopy(t *testing.T) {
	rc := New(testCatalog(t))
	r := rc.NewRecording("r")
	if err := r.SetSetting(SettingKey{EventType: "runtime.GC", Setting: "enabled"}, "true"); err != nil {
		t.Fatal(err)
	}

	snap := r.SettingsSnapshot()
	snap[SettingKey{EventType: "runtime.GC", Setting: "enabled"}] = "false"

	if !r.Enabled("runtime.GC") {
		t.Error("mutating a snapshot leaked into the recording")
	}
}

func TestDurationAutoStop(t *testing.T) {
	rc := New(testCatalog(t))
	r := rc.NewRecording("r")
	if err := r.SetDuration(10 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for r.State() != StateStopped {
		if time.Now().After(deadline) {
			t.Fatalf("recording did not auto-stop, state = %s", r.State())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
