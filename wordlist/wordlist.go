// Copyright 2025 ASC8384
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package wordlist implements an ordered word list unique by (word,
// pinyin) key, the merge operation used to accumulate entries across runs,
// and a tab-separated line codec for persisting lists.
package wordlist

import (
	"sort"
)

// Entry is a single word list record.
type Entry struct {
	// Word is the dictionary word.
	Word string

	// Pinyin is the word's pinyin key with syllables joined by single
	// spaces.
	Pinyin string

	// Frequency is the word's weight. Never negative.
	Frequency int
}

type key struct {
	word   string
	pinyin string
}

// List is an ordered collection of entries unique by (word, pinyin) key.
// Insertion order is preserved.
type List struct {
	entries []*Entry
	index   map[key]int
}

// New returns a new empty list.
func New() *List {
	return &List{
		index: map[key]int{},
	}
}

// Add adds an entry to the list. If an entry with the same key already
// exists, the higher frequency is kept; ties keep the existing entry. Add
// reports whether a new key was inserted. Nil and invalid entries (empty
// word or pinyin, negative frequency) are ignored.
func (l *List) Add(e *Entry) bool {
	if e == nil || e.Word == "" || e.Pinyin == "" || e.Frequency < 0 {
		return false
	}

	k := key{word: e.Word, pinyin: e.Pinyin}
	if i, ok := l.index[k]; ok {
		if e.Frequency > l.entries[i].Frequency {
			l.entries[i].Frequency = e.Frequency
		}
		return false
	}

	l.index[k] = len(l.entries)
	l.entries = append(l.entries, &Entry{
		Word:      e.Word,
		Pinyin:    e.Pinyin,
		Frequency: e.Frequency,
	})
	return true
}

// Get returns the entry for the given key.
func (l *List) Get(word, pinyin string) (*Entry, bool) {
	i, ok := l.index[key{word: word, pinyin: pinyin}]
	if !ok {
		return nil, false
	}
	return l.entries[i], true
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.entries)
}

// Entries returns the list's entries in list order.
func (l *List) Entries() []*Entry {
	return l.entries
}

// Sort orders entries by descending frequency, then by word, then by
// pinyin. The resulting order is deterministic for any insertion order.
func (l *List) Sort() {
	sort.SliceStable(l.entries, func(i, j int) bool {
		a, b := l.entries[i], l.entries[j]
		if a.Frequency != b.Frequency {
			return a.Frequency > b.Frequency
		}
		if a.Word != b.Word {
			return a.Word < b.Word
		}
		return a.Pinyin < b.Pinyin
	})
	for i, e := range l.entries {
		l.index[key{word: e.Word, pinyin: e.Pinyin}] = i
	}
}

// Merge combines the current run's entries with the previously accumulated
// set. For keys present in both, the higher frequency wins; ties keep the
// accumulated entry, so a re-run with default frequencies never demotes a
// higher historical frequency. Neither input is modified. The result is
// sorted deterministically regardless of input ordering.
func Merge(current, previous *List) *List {
	merged := New()
	if previous != nil {
		for _, e := range previous.Entries() {
			merged.Add(e)
		}
	}
	if current != nil {
		for _, e := range current.Entries() {
			merged.Add(e)
		}
	}
	merged.Sort()
	return merged
}
