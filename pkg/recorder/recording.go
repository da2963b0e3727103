// Package recorder provides bounded in-process event recordings.
//
// A Recorder owns a set of Recordings. Each recording is a bounded session
// that captures events emitted into the recorder while it is running, under
// configurable limits (target duration, maximum buffer size, maximum event
// age). Recordings are identified by a monotonically increasing integer id
// and an optional name.
package recorder

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/flightrec/flightrec/pkg/event"
)

// Lifecycle errors.
var (
	ErrNotFound     = errors.New("recording not found")
	ErrClosed       = errors.New("recording is closed")
	ErrNotRunning   = errors.New("recording is not running")
	ErrAlreadyAlive = errors.New("recording already started")
)

// State is the lifecycle state of a recording. CLOSED is terminal.
type State string

const (
	StateNew     State = "NEW"
	StateDelayed State = "DELAYED"
	StateRunning State = "RUNNING"
	StateStopped State = "STOPPED"
	StateClosed  State = "CLOSED"
)

// SettingKey identifies one effective setting of a recording: a setting name
// scoped to an event type. A value type is used instead of a concatenated
// "type#setting" string so that names containing the separator cannot alias.
type SettingKey struct {
	EventType string
	Setting   string
}

func (k SettingKey) String() string {
	return k.EventType + "#" + k.Setting
}

// Recording is a bounded event-capture session. All methods are safe for
// concurrent use; accessors return point-in-time snapshots.
type Recording struct {
	mu sync.RWMutex

	id    int64
	name  string
	state State

	duration *time.Duration // target duration; nil means unbounded
	maxSize  int64          // byte limit; 0 means unlimited
	maxAge   *time.Duration // event age limit; nil means unbounded

	settings map[SettingKey]string

	startTime time.Time
	stopTime  time.Time

	buf *buffer

	startTimer *time.Timer // DELAYED -> RUNNING
	stopTimer  *time.Timer // duration auto-stop
}

func newRecording(id int64, name string) *Recording {
	if name == "" {
		name = fmt.Sprintf("%d", id)
	}
	return &Recording{
		id:       id,
		name:     name,
		state:    StateNew,
		settings: make(map[SettingKey]string),
		buf:      newBuffer(),
	}
}

// ID returns the recording's unique identifier.
func (r *Recording) ID() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.id
}

// Name returns the recording's name. Names are not guaranteed unique.
func (r *Recording) Name() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.name
}

// State returns the recording's current lifecycle state.
func (r *Recording) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Duration returns the target duration, if one has been set.
func (r *Recording) Duration() (time.Duration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.duration == nil {
		return 0, false
	}
	return *r.duration, true
}

// SetDuration sets the target duration. A running recording stops
// automatically once the duration has elapsed from its start time.
func (r *Recording) SetDuration(d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateClosed {
		return ErrClosed
	}
	r.duration = &d
	if r.state == StateRunning {
		r.armStopTimerLocked()
	}
	return nil
}

// MaxSize returns the buffer byte limit. Zero means unlimited.
func (r *Recording) MaxSize() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.maxSize
}

// SetMaxSize sets the buffer byte limit. Zero disables the limit.
func (r *Recording) SetMaxSize(n int64) error {
	if n < 0 {
		return fmt.Errorf("maxsize must be non-negative, got %d", n)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateClosed {
		return ErrClosed
	}
	r.maxSize = n
	r.buf.trimToSize(n)
	return nil
}

// MaxAge returns the event age limit, if one has been set.
func (r *Recording) MaxAge() (time.Duration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.maxAge == nil {
		return 0, false
	}
	return *r.maxAge, true
}

// SetMaxAge sets the event age limit. Events older than the limit are
// discarded as new events arrive and when the buffer is read.
func (r *Recording) SetMaxAge(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("maxage must be non-negative, got %v", d)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateClosed {
		return ErrClosed
	}
	r.maxAge = &d
	return nil
}

// StartTime returns when the recording started, or the zero time if it has
// not started yet.
func (r *Recording) StartTime() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.startTime
}

// Start moves the recording to RUNNING.
func (r *Recording) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startLocked()
}

func (r *Recording) startLocked() error {
	switch r.state {
	case StateNew, StateDelayed:
	case StateClosed:
		return ErrClosed
	default:
		return fmt.Errorf("%w: cannot start a %s recording", ErrAlreadyAlive, r.state)
	}
	if r.startTimer != nil {
		r.startTimer.Stop()
		r.startTimer = nil
	}
	r.state = StateRunning
	r.startTime = time.Now()
	r.armStopTimerLocked()
	return nil
}

// armStopTimerLocked schedules the duration auto-stop. Caller holds r.mu.
func (r *Recording) armStopTimerLocked() {
	if r.stopTimer != nil {
		r.stopTimer.Stop()
		r.stopTimer = nil
	}
	if r.duration == nil {
		return
	}
	remaining := *r.duration - time.Since(r.startTime)
	if remaining < 0 {
		remaining = 0
	}
	r.stopTimer = time.AfterFunc(remaining, func() { _ = r.Stop() })
}

// ScheduleStart moves the recording to DELAYED and starts it after the given
// delay.
func (r *Recording) ScheduleStart(delay time.Duration) error {
	if delay <= 0 {
		return r.Start()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case StateNew:
	case StateClosed:
		return ErrClosed
	default:
		return fmt.Errorf("%w: cannot schedule a %s recording", ErrAlreadyAlive, r.state)
	}
	r.state = StateDelayed
	r.startTimer = time.AfterFunc(delay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.state == StateDelayed {
			_ = r.startLocked()
		}
	})
	return nil
}

// Stop moves a DELAYED or RUNNING recording to STOPPED. Captured events
// remain readable until the recording is closed.
func (r *Recording) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case StateDelayed, StateRunning:
	case StateClosed:
		return ErrClosed
	default:
		return fmt.Errorf("%w: recording is %s", ErrNotRunning, r.state)
	}
	if r.startTimer != nil {
		r.startTimer.Stop()
		r.startTimer = nil
	}
	if r.stopTimer != nil {
		r.stopTimer.Stop()
		r.stopTimer = nil
	}
	r.state = StateStopped
	r.stopTime = time.Now()
	return nil
}

// Close moves the recording to CLOSED and releases its buffer. CLOSED is
// terminal; a closed recording cannot be restarted.
func (r *Recording) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateClosed {
		return nil
	}
	if r.startTimer != nil {
		r.startTimer.Stop()
		r.startTimer = nil
	}
	if r.stopTimer != nil {
		r.stopTimer.Stop()
		r.stopTimer = nil
	}
	r.state = StateClosed
	r.buf = newBuffer()
	return nil
}

// SetSetting sets one effective setting.
func (r *Recording) SetSetting(key SettingKey, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateClosed {
		return ErrClosed
	}
	r.settings[key] = value
	return nil
}

// ApplySettings merges the given settings into the recording's effective
// settings, overwriting existing keys.
func (r *Recording) ApplySettings(settings map[SettingKey]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateClosed {
		return ErrClosed
	}
	for k, v := range settings {
		r.settings[k] = v
	}
	return nil
}

// EnableEvent enables capture of the given event type.
func (r *Recording) EnableEvent(typeName string) error {
	return r.SetSetting(SettingKey{EventType: typeName, Setting: "enabled"}, "true")
}

// Enabled reports whether the recording captures events of the given type.
func (r *Recording) Enabled(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings[SettingKey{EventType: typeName, Setting: "enabled"}] == "true"
}

// SettingsSnapshot returns a copy of the recording's effective settings.
func (r *Recording) SettingsSnapshot() map[SettingKey]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[SettingKey]string, len(r.settings))
	for k, v := range r.settings {
		out[k] = v
	}
	return out
}

// record appends an event, enforcing maxSize and maxAge limits.
func (r *Recording) record(e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRunning || !r.enabledLocked(e.Type) {
		return
	}
	r.buf.append(e)
	if r.maxAge != nil {
		r.buf.trimToAge(*r.maxAge)
	}
	if r.maxSize != 0 {
		r.buf.trimToSize(r.maxSize)
	}
}

func (r *Recording) enabledLocked(typeName string) bool {
	return r.settings[SettingKey{EventType: typeName, Setting: "enabled"}] == "true"
}

// Events returns a copy of the captured events, oldest first. Events past
// the maxAge limit are pruned before the copy is taken.
func (r *Recording) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.maxAge != nil {
		r.buf.trimToAge(*r.maxAge)
	}
	return r.buf.snapshot()
}

// Size returns the approximate byte size of the captured events.
func (r *Recording) Size() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.buf.bytes
}
