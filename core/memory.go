package core

import (
	"iter"
	"sync"
)

// Memory is an append-only message history with an optional parent.
//
// A root Memory owns its messages outright. A derived Memory (see Derive) owns
// only the messages appended to it and reads its parent's history on demand, so
// the effective view of a derived Memory is always the parent's current
// effective view followed by its own messages. Appending to a derived Memory
// never touches the parent.
//
// Memory is safe for concurrent use.
type Memory struct {
	parent   *Memory
	messages []Message
	mu       sync.RWMutex
}

// NewMemory creates a root Memory seeded with the given messages.
func NewMemory(initial ...Message) *Memory {
	m := &Memory{}
	m.Append(initial...)
	return m
}

// Derive creates a child Memory whose effective view starts with m's.
func (m *Memory) Derive() *Memory {
	return &Memory{parent: m}
}

// Parent returns the Memory m was derived from, or nil for a root.
func (m *Memory) Parent() *Memory { return m.parent }

// Depth returns the number of ancestors above m.
func (m *Memory) Depth() int {
	d := 0
	for p := m.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Append adds messages to m's own history.
func (m *Memory) Append(msgs ...Message) {
	if len(msgs) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, msg := range msgs {
		m.messages = append(m.messages, msg.Clone())
	}
}

// Own returns a copy of the messages appended directly to m.
func (m *Memory) Own() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return cloneMessages(m.messages)
}

// Effective returns a freshly allocated copy of the full history visible to m:
// the ancestors' messages in lineage order followed by m's own. Later appends
// to m or any ancestor never alter a slice already returned.
func (m *Memory) Effective() []Message {
	levels := m.snapshot()

	n := 0
	for _, lvl := range levels {
		n += len(lvl)
	}

	out := make([]Message, 0, n)
	for _, lvl := range levels {
		for _, msg := range lvl {
			out = append(out, msg.Clone())
		}
	}

	return out
}

// All iterates the effective history without building a combined slice.
// The set of messages is fixed when iteration starts.
func (m *Memory) All() iter.Seq[Message] {
	return func(yield func(Message) bool) {
		for _, lvl := range m.snapshot() {
			for _, msg := range lvl {
				if !yield(msg.Clone()) {
					return
				}
			}
		}
	}
}

// Len returns the length of the effective history.
func (m *Memory) Len() int {
	n := 0
	for cur := m; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		n += len(cur.messages)
		cur.mu.RUnlock()
	}
	return n
}

// Last returns the final message of the effective history.
func (m *Memory) Last() (Message, bool) {
	for cur := m; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		if k := len(cur.messages); k > 0 {
			msg := cur.messages[k-1].Clone()
			cur.mu.RUnlock()
			return msg, true
		}
		cur.mu.RUnlock()
	}
	return Message{}, false
}

// snapshot captures the slice header of every level, root first. Stored
// messages are never modified in place, so the captured headers stay valid
// after the locks are released.
func (m *Memory) snapshot() [][]Message {
	var levels [][]Message
	for cur := m; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		levels = append(levels, cur.messages[:len(cur.messages):len(cur.messages)])
		cur.mu.RUnlock()
	}

	for i, j := 0, len(levels)-1; i < j; i, j = i+1, j-1 {
		levels[i], levels[j] = levels[j], levels[i]
	}

	return levels
}

func cloneMessages(in []Message) []Message {
	out := make([]Message, len(in))
	for i, msg := range in {
		out[i] = msg.Clone()
	}
	return out
}
