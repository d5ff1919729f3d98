package classification

import (
	"strings"

	"github.com/Veraticus/tally/internal/model"
)

// Remembered is a classification made earlier in the same run.
type Remembered struct {
	Code           string
	Name           string
	Classification model.AccountClassification
}

// Memory holds the classifications made during one processing run. It is
// keyed by account code and keeps first-classified order. A Memory must not
// be shared between runs.
type Memory struct {
	byCode  map[string]int
	entries []Remembered
}

// NewMemory creates an empty run memory.
func NewMemory() *Memory {
	return &Memory{byCode: make(map[string]int)}
}

// Remember stores a classification for code. A later classification for the
// same code replaces the earlier one in place.
func (m *Memory) Remember(code, name string, c model.AccountClassification) {
	r := Remembered{Code: code, Name: name, Classification: c}
	if i, ok := m.byCode[code]; ok {
		m.entries[i] = r
		return
	}
	m.byCode[code] = len(m.entries)
	m.entries = append(m.entries, r)
}

// Lookup returns the classification remembered for code.
func (m *Memory) Lookup(code string) (Remembered, bool) {
	i, ok := m.byCode[code]
	if !ok {
		return Remembered{}, false
	}
	return m.entries[i], true
}

// Len returns the number of remembered codes.
func (m *Memory) Len() int {
	return len(m.entries)
}

// FirstSharingWord returns the earliest remembered entry whose name shares a
// whitespace-delimited word with name, ignoring case.
func (m *Memory) FirstSharingWord(name string) (Remembered, bool) {
	words := strings.Fields(strings.ToLower(name))
	if len(words) == 0 {
		return Remembered{}, false
	}

	want := make(map[string]struct{}, len(words))
	for _, w := range words {
		want[w] = struct{}{}
	}

	for _, r := range m.entries {
		for _, w := range strings.Fields(strings.ToLower(r.Name)) {
			if _, ok := want[w]; ok {
				return r, true
			}
		}
	}
	return Remembered{}, false
}
