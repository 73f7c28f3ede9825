package model

import (
	"context"
	"fmt"
	"sync"
)

// Script is one canned completion: the fragments to stream and an optional
// error reported after them.
type Script struct {
	Fragments []Fragment
	Err       error
}

// ScriptedModel is a lightweight in-memory Model useful for tests & examples.
// Each Generate call consumes the next script; once the queue is exhausted the
// fallback script (if any) is replayed, otherwise an error is reported.
// Every request is recorded for later inspection.
type ScriptedModel struct {
	info     Info
	mu       sync.Mutex
	scripts  []Script
	fallback *Script
	requests []Request
}

// NewScriptedModel constructs a ScriptedModel with tool support enabled.
func NewScriptedModel(scripts ...Script) *ScriptedModel {
	return &ScriptedModel{
		info: Info{
			Name:          "scripted",
			Provider:      "scripted",
			SupportsTools: true,
		},
		scripts: scripts,
	}
}

// Enqueue appends scripts to the queue.
func (m *ScriptedModel) Enqueue(scripts ...Script) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts = append(m.scripts, scripts...)
	return m
}

// Reply enqueues a script streaming the given fragments.
func (m *ScriptedModel) Reply(frags ...Fragment) *ScriptedModel {
	return m.Enqueue(Script{Fragments: frags})
}

// Fail enqueues a script that reports err after streaming frags.
func (m *ScriptedModel) Fail(err error, frags ...Fragment) *ScriptedModel {
	return m.Enqueue(Script{Fragments: frags, Err: err})
}

// Repeat sets the script replayed once the queue is empty.
func (m *ScriptedModel) Repeat(s Script) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &s
	return m
}

// Requests returns a copy of every request received so far.
func (m *ScriptedModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Calls returns the number of Generate calls received so far.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *ScriptedModel) next(req Request) (Script, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req.Messages = append(req.Messages[:0:0], req.Messages...)
	m.requests = append(m.requests, req)

	if len(m.scripts) > 0 {
		s := m.scripts[0]
		m.scripts = m.scripts[1:]
		return s, true
	}
	if m.fallback != nil {
		return *m.fallback, true
	}
	return Script{}, false
}

// Generate implements Model.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (<-chan Fragment, <-chan error) {
	out := make(chan Fragment, 16)
	errCh := make(chan error, 1)

	script, ok := m.next(req)

	go func() {
		defer close(out)
		defer close(errCh)

		if !ok {
			errCh <- fmt.Errorf("scripted model: no script left for call %d", m.Calls())
			return
		}

		for _, f := range script.Fragments {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case out <- f:
			}
		}

		if script.Err != nil {
			errCh <- script.Err
		}
	}()

	return out, errCh
}

// Info implements Model interface.
func (m *ScriptedModel) Info() Info { return m.info }
