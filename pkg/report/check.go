// Package report renders human-readable status reports for recorder state.
//
// The check report describes each recording's identity, lifecycle state, and
// resource limits, and in verbose mode the per-event-type settings currently
// in effect. Report generation reads point-in-time snapshots and produces
// text; it never mutates recorder or catalog state, so concurrent check
// invocations are independent.
package report

import (
	"fmt"
	"strings"

	"github.com/flightrec/flightrec/pkg/event"
	"github.com/flightrec/flightrec/pkg/recorder"
	"github.com/flightrec/flightrec/pkg/util"
)

// StartHint is the second line of the empty-recorder message.
const StartHint = "Use 'flightrec start' to start a recording."

// Registry is the recording lookup surface the report consumes.
// *recorder.Recorder satisfies it.
type Registry interface {
	FindRecording(nameOrID string) (*recorder.Recording, error)
	Recordings() []*recorder.Recording
}

// Catalog is the event-type snapshot surface the report consumes.
// *event.Catalog satisfies it.
type Catalog interface {
	Types() []*event.Type
}

// Options selects what the check report covers.
type Options struct {
	// Recording names the recording to report on, by name or id. Empty
	// means all recordings.
	Recording string

	// Verbose includes each recording's settings block.
	Verbose bool
}

// Check renders the check report. It fails only when a recording named in
// opts does not exist; every other condition (no recordings, no configured
// settings, absent limits) renders silently as omission or the fixed empty
// message.
func Check(reg Registry, cat Catalog, opts Options) (string, error) {
	var out lines

	if opts.Recording != "" {
		r, err := reg.FindRecording(opts.Recording)
		if err != nil {
			return "", err
		}
		printRecording(&out, r, cat, opts.Verbose)
		return out.String(), nil
	}

	recordings := reg.Recordings()
	if !opts.Verbose && len(recordings) == 0 {
		out.add("No available recordings.")
		out.add("")
		out.add(StartHint)
		return out.String(), nil
	}

	first := true
	for _, r := range recordings {
		// One blank line between recordings, two in verbose mode. Never
		// before the first or after the last.
		if !first {
			out.add("")
			if opts.Verbose {
				out.add("")
			}
		}
		first = false
		printRecording(&out, r, cat, opts.Verbose)
	}
	return out.String(), nil
}

func printRecording(out *lines, r *recorder.Recording, cat Catalog, verbose bool) {
	out.add(generalLine(r))
	if verbose {
		out.add("")
		printSettings(out, Project(cat.Types(), r.SettingsSnapshot()))
	}
}

// generalLine renders the one-line summary:
//
//	Recording 1: name=backend duration=60s maxsize=250.0MB (running)
//
// The duration segment is omitted when no duration is set, maxsize when the
// limit is zero, and maxage when no age limit is set. Field order is fixed.
func generalLine(r *recorder.Recording) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Recording %d: name=%s", r.ID(), r.Name())

	if d, ok := r.Duration(); ok {
		sb.WriteString(" duration=")
		sb.WriteString(util.FormatTimespan(d, ""))
	}
	if maxSize := r.MaxSize(); maxSize != 0 {
		sb.WriteString(" maxsize=")
		sb.WriteString(util.FormatBytes(maxSize, ""))
	}
	if age, ok := r.MaxAge(); ok {
		sb.WriteString(" maxage=")
		sb.WriteString(util.FormatTimespan(age, ""))
	}

	fmt.Fprintf(&sb, " (%s)", strings.ToLower(string(r.State())))
	return sb.String()
}

// printSettings renders the verbose settings block. Types with no configured
// settings never reach this point; the projector drops them.
func printSettings(out *lines, projected []EventSettings) {
	for _, es := range projected {
		out.add(fmt.Sprintf(" %s (%s)", es.Type.Label, es.Type.Name))

		pairs := make([]string, len(es.Settings))
		for i, s := range es.Settings {
			pairs[i] = s.Name + "=" + s.Value
		}
		out.add("   " + strings.Join(pairs, ","))
	}
}

// lines accumulates report output as an ordered sequence of lines. The
// report stays a pure function over its inputs; callers get one string back.
type lines struct {
	entries []string
}

func (l *lines) add(line string) {
	l.entries = append(l.entries, line)
}

// String joins the accumulated lines, terminating the last one. Zero lines
// yield the empty string.
func (l *lines) String() string {
	if len(l.entries) == 0 {
		return ""
	}
	return strings.Join(l.entries, "\n") + "\n"
}
