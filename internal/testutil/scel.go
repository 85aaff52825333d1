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

// Package testutil provides test helpers for building cell dictionary
// containers.
package testutil

import (
	"encoding/binary"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

// Container layout offsets. These mirror the .scel format.
const (
	nameOffset     = 0x130
	categoryOffset = 0x338
	descOffset     = 0x540
	examplesOffset = 0xd40
	pinyinOffset   = 0x1540
	wordOffset     = 0x2628
)

// Magic is a valid container magic header.
var Magic = []byte{0x40, 0x15, 0x00, 0x00, 0x44, 0x43, 0x53, 0x01, 0x01, 0x00, 0x00, 0x00}

// Syllable is a pinyin table record.
type Syllable struct {
	Index uint16
	Text  string
}

// Word is a single word within a homophone group.
type Word struct {
	Word string

	// Ext is the word's extension block. A typical vendor container
	// carries 12 bytes; the first uint16 is the frequency hint.
	Ext []byte
}

// Group is a homophone group in the word table.
type Group struct {
	PinyinIndexes []uint16
	Words         []Word
}

// MakeScelOptions are options for building a test container.
type MakeScelOptions struct {
	// Magic overrides the container magic header.
	Magic []byte

	// Name, Category, Description and Examples set the container's
	// metadata fields.
	Name        string
	Category    string
	Description string
	Examples    string

	// Padding is appended after the word table.
	Padding []byte
}

// MakeScel builds a cell dictionary container from the given syllable
// table and word table groups.
func MakeScel(t *testing.T, syllables []Syllable, groups []Group, opts *MakeScelOptions) []byte {
	t.Helper()

	if opts == nil {
		opts = &MakeScelOptions{}
	}

	b := make([]byte, wordOffset)

	m := Magic
	if opts.Magic != nil {
		m = opts.Magic
	}
	copy(b, m)

	putString(t, b[nameOffset:categoryOffset], opts.Name)
	putString(t, b[categoryOffset:descOffset], opts.Category)
	putString(t, b[descOffset:examplesOffset], opts.Description)
	putString(t, b[examplesOffset:pinyinOffset], opts.Examples)

	// Pinyin table: count, marker, then (index, size, text) records.
	table := b[pinyinOffset:]
	binary.LittleEndian.PutUint32(table, uint32(len(syllables)))
	binary.LittleEndian.PutUint32(table[4:], 0)
	off := 8
	for _, s := range syllables {
		text := utf16Bytes(t, s.Text)
		binary.LittleEndian.PutUint16(table[off:], s.Index)
		binary.LittleEndian.PutUint16(table[off+2:], uint16(len(text)))
		copy(table[off+4:], text)
		off += 4 + len(text)
	}

	b = append(b, MakeWordTable(t, groups)...)
	b = append(b, opts.Padding...)

	return b
}

// MakeWordTable builds the word table portion of a container.
func MakeWordTable(t *testing.T, groups []Group) []byte {
	t.Helper()

	var b []byte
	for _, g := range groups {
		b = appendUint16(b, uint16(len(g.Words)))
		b = appendUint16(b, uint16(2*len(g.PinyinIndexes)))
		for _, index := range g.PinyinIndexes {
			b = appendUint16(b, index)
		}
		for _, w := range g.Words {
			text := utf16Bytes(t, w.Word)
			b = appendUint16(b, uint16(len(text)))
			b = append(b, text...)
			b = appendUint16(b, uint16(len(w.Ext)))
			b = append(b, w.Ext...)
		}
	}
	return b
}

// FreqExt returns a standard 12-byte extension block carrying the given
// frequency hint.
func FreqExt(freq uint16) []byte {
	ext := make([]byte, 12)
	binary.LittleEndian.PutUint16(ext, freq)
	return ext
}

func putString(t *testing.T, field []byte, s string) {
	t.Helper()

	b := utf16Bytes(t, s)
	if len(b) > len(field)-2 {
		t.Fatalf("metadata string too long: %d bytes", len(b))
	}
	copy(field, b)
}

func utf16Bytes(t *testing.T, s string) []byte {
	t.Helper()

	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		t.Fatalf("encoding %q: %v", s, err)
	}
	return b
}

func appendUint16(b []byte, v uint16) []byte {
	return append(b, byte(v), byte(v>>8))
}
