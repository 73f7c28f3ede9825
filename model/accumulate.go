package model

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/thinkact/core"
)

// blankLines is the delta some providers emit before any real content.
const blankLines = "\n\n"

// Accumulator folds streamed fragments into one message.
//
// Folding rules:
//   - role is taken from the first fragment that carries one
//   - content deltas concatenate; a nil delta is ignored and so is a "\n\n"
//     delta while no content has accumulated yet
//   - tool-call name and arguments concatenate, the first occurrence of each
//     initializing it; the tool-call id is taken once
//   - the result carries a tool call iff at least one tool-call delta arrived
//
// Kept content deltas are also written to the optional sink as they arrive.
// Sink errors are ignored.
type Accumulator struct {
	role    *core.Role
	content strings.Builder
	call    *core.ToolCall
	hasID   bool
	sink    io.Writer
}

// NewAccumulator creates an Accumulator forwarding content deltas to sink
// (which may be nil).
func NewAccumulator(sink io.Writer) *Accumulator {
	return &Accumulator{sink: sink}
}

// Add folds a single fragment.
func (a *Accumulator) Add(f Fragment) {
	if f.Role != nil && a.role == nil {
		r := *f.Role
		a.role = &r
	}

	if f.Content != nil {
		delta := *f.Content
		if !(a.content.Len() == 0 && delta == blankLines) {
			a.content.WriteString(delta)
			if a.sink != nil && delta != "" {
				_, _ = io.WriteString(a.sink, delta)
			}
		}
	}

	if d := f.ToolCall; d != nil {
		if a.call == nil {
			a.call = &core.ToolCall{}
		}
		if d.ID != nil && !a.hasID {
			a.call.ID = *d.ID
			a.hasID = true
		}
		if d.Name != nil {
			a.call.Name += *d.Name
		}
		if d.Arguments != nil {
			a.call.Arguments += *d.Arguments
		}
	}
}

// Message returns the accumulated message. The role is empty when no fragment
// carried one.
func (a *Accumulator) Message() core.Message {
	msg := core.Message{Content: a.content.String()}
	if a.role != nil {
		msg.Role = *a.role
	}
	if a.call != nil {
		tc := *a.call
		msg.ToolCall = &tc
	}
	return msg
}

// Accumulate drains a Generate result into a single message. Any error from
// the transport or the context fails the whole operation; no partial message
// is returned in that case.
func Accumulate(ctx context.Context, frags <-chan Fragment, errs <-chan error, sink io.Writer) (core.Message, error) {
	acc := NewAccumulator(sink)

	for frags != nil || errs != nil {
		select {
		case <-ctx.Done():
			return core.Message{}, fmt.Errorf("stream interrupted: %w", ctx.Err())
		case f, ok := <-frags:
			if !ok {
				frags = nil
				continue
			}
			acc.Add(f)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				return core.Message{}, err
			}
		}
	}

	return acc.Message(), nil
}

// AccumulateFragments folds an in-memory fragment sequence.
func AccumulateFragments(frags []Fragment, sink io.Writer) core.Message {
	acc := NewAccumulator(sink)
	for _, f := range frags {
		acc.Add(f)
	}
	return acc.Message()
}
