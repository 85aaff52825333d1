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

// Package scel implements reading Sogou cell dictionary (.scel) containers.
//
// A cell container is a single binary blob with the following layout:
//  1. A fixed 12-byte magic header.
//  2. UTF-16LE metadata strings at fixed offsets (name, category,
//     description, example words).
//  3. A pinyin syllable table at offset 0x1540 mapping syllable indexes to
//     syllable strings.
//  4. A word table at offset 0x2628 containing groups of homophone words.
//     Each group stores a syllable-index sequence followed by
//     length-prefixed UTF-16LE words and a per-word extension block.
//
// All multi-byte integers are little-endian. All text is UTF-16LE.
package scel

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
)

var (
	// ErrMalformedContainer indicates that the container violates the cell
	// dictionary layout. No partial results are returned.
	ErrMalformedContainer = errors.New("malformed cell container")

	// ErrUnsupportedEncoding indicates that a text field is not valid
	// UTF-16LE.
	ErrUnsupportedEncoding = errors.New("unsupported text encoding")
)

// Container layout offsets.
const (
	nameOffset        = 0x130
	categoryOffset    = 0x338
	descriptionOffset = 0x540
	examplesOffset    = 0xd40
	pinyinOffset      = 0x1540
	wordOffset        = 0x2628
)

// DefaultFrequency is assigned to entries whose extension block does not
// carry a frequency hint.
const DefaultFrequency = 1

// magic is the fixed container header. Byte 4 is 0x44 in most vendor
// exports and 0x45 in some older ones; both are accepted.
var magic = []byte{0x40, 0x15, 0x00, 0x00, 0x44, 0x43, 0x53, 0x01}

// Entry is a single decoded dictionary record.
type Entry struct {
	// Word is the dictionary word.
	Word string

	// Pinyin is the word's pinyin key with syllables joined by single
	// spaces, e.g. "ni hao".
	Pinyin string

	// Frequency is the word frequency hint from the container, or
	// DefaultFrequency if the container does not carry one.
	Frequency int
}

// Dict is a fully decoded cell dictionary.
type Dict struct {
	name        string
	category    string
	description string
	examples    string

	entries []*Entry
}

// Name returns the dictionary name.
func (d *Dict) Name() string {
	return d.name
}

// Category returns the dictionary category.
func (d *Dict) Category() string {
	return d.category
}

// Description returns the dictionary description.
func (d *Dict) Description() string {
	return d.description
}

// Examples returns the example words advertised by the container.
func (d *Dict) Examples() string {
	return d.examples
}

// Entries returns the decoded entries in container order.
func (d *Dict) Entries() []*Entry {
	return d.entries
}

// WordCount returns the number of decoded entries.
func (d *Dict) WordCount() int {
	return len(d.entries)
}

// Parse decodes a cell dictionary container from the given byte buffer.
func Parse(b []byte) (*Dict, error) {
	if len(b) < wordOffset {
		return nil, fmt.Errorf("%w: container too small: %d bytes", ErrMalformedContainer, len(b))
	}

	if !checkMagic(b) {
		return nil, fmt.Errorf("%w: bad magic: %x", ErrMalformedContainer, b[:len(magic)])
	}

	d := &Dict{}
	var err error
	if d.name, err = fixedString(b, nameOffset, categoryOffset); err != nil {
		return nil, fmt.Errorf("reading dictionary name: %w", err)
	}
	if d.category, err = fixedString(b, categoryOffset, descriptionOffset); err != nil {
		return nil, fmt.Errorf("reading dictionary category: %w", err)
	}
	if d.description, err = fixedString(b, descriptionOffset, examplesOffset); err != nil {
		return nil, fmt.Errorf("reading dictionary description: %w", err)
	}
	if d.examples, err = fixedString(b, examplesOffset, pinyinOffset); err != nil {
		return nil, fmt.Errorf("reading dictionary examples: %w", err)
	}

	syllables, err := parsePinyinTable(b[pinyinOffset:wordOffset])
	if err != nil {
		return nil, err
	}

	s := NewScanner(bytes.NewReader(b[wordOffset:]), syllables)
	for s.Scan() {
		d.entries = append(d.entries, s.Entry())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	return d, nil
}

// ParseReader decodes a cell dictionary container from the given reader.
func ParseReader(r io.Reader) (*Dict, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading container: %w", err)
	}
	return Parse(b)
}

func checkMagic(b []byte) bool {
	if bytes.Equal(b[:len(magic)], magic) {
		return true
	}
	alt := bytes.Clone(magic)
	alt[4] = 0x45
	return bytes.Equal(b[:len(alt)], alt)
}

// parsePinyinTable reads the syllable table into an index to syllable
// mapping. The table starts with a uint32 syllable count and a uint32
// marker followed by (index, length, text) records.
func parsePinyinTable(b []byte) (map[uint16]string, error) {
	r := bytes.NewReader(b)

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: missing pinyin table header", ErrMalformedContainer)
	}
	var marker uint32
	if err := binary.Read(r, binary.LittleEndian, &marker); err != nil {
		return nil, fmt.Errorf("%w: missing pinyin table marker", ErrMalformedContainer)
	}

	// Each record is at least 6 bytes, so the declared count must fit in
	// the table's byte window.
	if int(count) > len(b)/6 {
		return nil, fmt.Errorf("%w: pinyin table declares %d syllables in %d bytes", ErrMalformedContainer, count, len(b))
	}

	syllables := make(map[uint16]string, count)
	for i := uint32(0); i < count; i++ {
		index, err := readUint16(r)
		if err != nil {
			return nil, fmt.Errorf("%w: truncated pinyin table", ErrMalformedContainer)
		}
		size, err := readUint16(r)
		if err != nil {
			return nil, fmt.Errorf("%w: truncated pinyin table", ErrMalformedContainer)
		}
		text := make([]byte, size)
		if _, err := io.ReadFull(r, text); err != nil {
			return nil, fmt.Errorf("%w: truncated pinyin syllable %d", ErrMalformedContainer, index)
		}
		syllable, err := decodeUTF16(text)
		if err != nil {
			return nil, fmt.Errorf("decoding pinyin syllable %d: %w", index, err)
		}
		syllables[index] = syllable
	}

	return syllables, nil
}

// fixedString decodes a zero-padded UTF-16LE string from the fixed-size
// field at b[start:end].
func fixedString(b []byte, start, end int) (string, error) {
	field := b[start:end]
	// Trim at the first aligned zero character.
	for i := 0; i+1 < len(field); i += 2 {
		if field[i] == 0 && field[i+1] == 0 {
			field = field[:i]
			break
		}
	}
	return decodeUTF16(field)
}

func decodeUTF16(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", fmt.Errorf("%w: odd UTF-16 byte length %d", ErrUnsupportedEncoding, len(b))
	}
	// The x/text decoder substitutes U+FFFD for broken surrogate
	// sequences instead of failing, so check surrogate pairing first.
	for i := 0; i < len(b); i += 2 {
		u := binary.LittleEndian.Uint16(b[i:])
		switch {
		case u >= 0xd800 && u < 0xdc00:
			if i+3 >= len(b) {
				return "", fmt.Errorf("%w: unpaired UTF-16 surrogate at byte %d", ErrUnsupportedEncoding, i)
			}
			if next := binary.LittleEndian.Uint16(b[i+2:]); next < 0xdc00 || next >= 0xe000 {
				return "", fmt.Errorf("%w: unpaired UTF-16 surrogate at byte %d", ErrUnsupportedEncoding, i)
			}
			i += 2
		case u >= 0xdc00 && u < 0xe000:
			return "", fmt.Errorf("%w: unpaired UTF-16 surrogate at byte %d", ErrUnsupportedEncoding, i)
		}
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	s, err := dec.Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedEncoding, err)
	}
	return string(s), nil
}

func readUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		//nolint:wrapcheck // callers wrap with positional context.
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}
