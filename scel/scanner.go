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

package scel

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Scanner scans a cell container's word table from start to end. Groups of
// homophone words are flattened into individual entries.
type Scanner struct {
	r         io.Reader
	syllables map[uint16]string

	// pending holds remaining entries from the current homophone group.
	pending []*Entry
	entry   *Entry
	err     error
	done    bool
}

// NewScanner returns a scanner over a word table. The reader must be
// positioned at the start of the word table (container offset 0x2628). The
// syllables mapping is used to resolve each word's pinyin key.
func NewScanner(r io.Reader, syllables map[uint16]string) *Scanner {
	return &Scanner{
		r:         r,
		syllables: syllables,
	}
}

// Scan advances to the next word table entry. It returns false when the
// table is exhausted or an error occurs.
func (s *Scanner) Scan() bool {
	if s.err != nil || s.done {
		return false
	}

	if len(s.pending) == 0 {
		if !s.scanGroup() {
			return false
		}
	}

	s.entry = s.pending[0]
	s.pending = s.pending[1:]
	return true
}

// Entry returns the current entry.
func (s *Scanner) Entry() *Entry {
	return s.entry
}

// Err returns the first error encountered.
func (s *Scanner) Err() error {
	return s.err
}

// scanGroup reads the next homophone group into s.pending. It returns
// false at the end of the table or on error.
func (s *Scanner) scanGroup() bool {
	count, err := readUint16(s.r)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		// End of the table. A single stray byte here is trailing padding.
		s.done = true
		return false
	}
	if err != nil {
		s.err = fmt.Errorf("%w: truncated word table", ErrMalformedContainer)
		return false
	}

	pinyinSize, err := readUint16(s.r)
	if err != nil {
		// Two or three zero bytes of padding read as a zero count and a
		// short second read.
		if count == 0 && (errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)) {
			s.done = true
			return false
		}
		s.err = fmt.Errorf("%w: truncated word table", ErrMalformedContainer)
		return false
	}

	// A zero homophone count with a zero index size is trailing padding.
	if count == 0 && pinyinSize == 0 {
		s.done = true
		return false
	}
	if count == 0 || pinyinSize == 0 || pinyinSize%2 != 0 {
		s.err = fmt.Errorf("%w: bad homophone group header (count=%d, pinyin size=%d)", ErrMalformedContainer, count, pinyinSize)
		return false
	}

	pinyin, err := s.readPinyin(int(pinyinSize) / 2)
	if err != nil {
		s.err = err
		return false
	}

	for i := 0; i < int(count); i++ {
		word, freq, err := s.readWord()
		if err != nil {
			s.err = err
			return false
		}
		s.pending = append(s.pending, &Entry{
			Word:      word,
			Pinyin:    pinyin,
			Frequency: freq,
		})
	}

	return true
}

// readPinyin reads n syllable indexes and joins the referenced syllables
// with single spaces.
func (s *Scanner) readPinyin(n int) (string, error) {
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		index, err := readUint16(s.r)
		if err != nil {
			return "", fmt.Errorf("%w: truncated pinyin index sequence", ErrMalformedContainer)
		}
		syllable, ok := s.syllables[index]
		if !ok {
			return "", fmt.Errorf("%w: pinyin index %d not in syllable table", ErrMalformedContainer, index)
		}
		parts = append(parts, syllable)
	}
	return strings.Join(parts, " "), nil
}

// readWord reads a single length-prefixed word and its extension block.
// The first uint16 of the extension block is used as the word frequency
// when present and non-zero.
func (s *Scanner) readWord() (string, int, error) {
	wordSize, err := readUint16(s.r)
	if err != nil {
		return "", 0, fmt.Errorf("%w: truncated word record", ErrMalformedContainer)
	}
	wordBytes := make([]byte, wordSize)
	if _, err := io.ReadFull(s.r, wordBytes); err != nil {
		return "", 0, fmt.Errorf("%w: truncated word record", ErrMalformedContainer)
	}
	word, err := decodeUTF16(wordBytes)
	if err != nil {
		return "", 0, fmt.Errorf("decoding word: %w", err)
	}

	extSize, err := readUint16(s.r)
	if err != nil {
		return "", 0, fmt.Errorf("%w: truncated word extension", ErrMalformedContainer)
	}
	ext := make([]byte, extSize)
	if _, err := io.ReadFull(s.r, ext); err != nil {
		return "", 0, fmt.Errorf("%w: truncated word extension", ErrMalformedContainer)
	}

	freq := DefaultFrequency
	if len(ext) >= 2 {
		if f := int(ext[0]) | int(ext[1])<<8; f > 0 {
			freq = f
		}
	}

	return word, freq, nil
}
