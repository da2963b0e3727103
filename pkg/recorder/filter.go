package recorder

import (
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/flightrec/flightrec/pkg/event"
)

// Filter is a compiled boolean expression over captured events. Expressions
// see three variables: type (string), time (time.Time), and fields (map).
//
//	type == "runtime.GC" && fields.pauseMillis > 10
type Filter struct {
	src     string
	program *vm.Program
}

func filterEnv(e event.Event) map[string]any {
	fields := e.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	return map[string]any{
		"type":   e.Type,
		"time":   e.Time,
		"fields": fields,
	}
}

// CompileFilter compiles an event filter expression.
func CompileFilter(src string) (*Filter, error) {
	program, err := expr.Compile(src,
		expr.Env(filterEnv(event.Event{Time: time.Time{}})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", src, err)
	}
	return &Filter{src: src, program: program}, nil
}

// Match reports whether the event satisfies the filter. Evaluation errors
// (missing fields, type mismatches) count as no match.
func (f *Filter) Match(e event.Event) bool {
	out, err := expr.Run(f.program, filterEnv(e))
	if err != nil {
		return false
	}
	b, ok := out.(bool)
	return ok && b
}

// FilterEvents returns the events matching the filter, preserving order.
// A nil filter matches everything.
func FilterEvents(events []event.Event, f *Filter) []event.Event {
	if f == nil {
		return events
	}
	out := make([]event.Event, 0, len(events))
	for _, e := range events {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
