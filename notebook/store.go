package notebook

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Note is one recorded piece of information.
type Note struct {
	ID         int      `json:"id"`
	Content    string   `json:"content"`
	Keywords   []string `json:"keywords"`
	Importance int      `json:"importance"`
}

// Store is a naive process-local note store. It offers:
//  1. Owner scoped append-only notes
//  2. Keyword lookup ranked by importance
//
// Concurrency: protected by RWMutex.
type Store struct {
	mu       sync.RWMutex
	notes    map[string][]Note           // owner -> notes (index == ID)
	keywords map[string]map[string][]int // owner -> keyword -> note IDs
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		notes:    make(map[string][]Note),
		keywords: make(map[string]map[string][]int),
	}
}

// ParseKeywords splits a comma separated keyword list, trimming and
// lower-casing each entry and dropping blanks and duplicates.
func ParseKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || slices.Contains(out, k) {
			continue
		}
		out = append(out, k)
	}
	return out
}

// Record appends a note for owner and indexes its keywords.
func (s *Store) Record(owner, content string, keywords []string, importance int) (Note, error) {
	if content == "" {
		return Note{}, fmt.Errorf("note content is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := Note{
		ID:         len(s.notes[owner]),
		Content:    content,
		Keywords:   slices.Clone(keywords),
		Importance: importance,
	}
	s.notes[owner] = append(s.notes[owner], n)

	idx, ok := s.keywords[owner]
	if !ok {
		idx = make(map[string][]int)
		s.keywords[owner] = idx
	}
	for _, k := range keywords {
		idx[k] = append(idx[k], n.ID)
	}

	return n, nil
}

// Search returns owner's notes matching any keyword, most important first
// (ties keep recording order), up to limit. A non-positive limit means no
// limit.
func (s *Store) Search(owner string, keywords []string, limit int) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.keywords[owner]
	seen := map[int]struct{}{}
	var hits []Note
	for _, k := range keywords {
		for _, id := range idx[k] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			hits = append(hits, s.notes[owner][id])
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Importance != hits[j].Importance {
			return hits[i].Importance > hits[j].Importance
		}
		return hits[i].ID < hits[j].ID
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	return hits
}

// Keywords returns owner's indexed keywords in sorted order.
func (s *Store) Keywords(owner string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.keywords[owner]))
	for k := range s.keywords[owner] {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

// Notes returns a copy of owner's notes in recording order.
func (s *Store) Notes(owner string) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.notes[owner])
}
