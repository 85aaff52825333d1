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

package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedLine indicates that a persisted word list line does not
// conform to the word<TAB>pinyin<TAB>frequency format.
var ErrMalformedLine = errors.New("malformed word list line")

// fieldSeparator separates the word, pinyin and frequency fields on a
// line.
const fieldSeparator = "\t"

// Write writes the list in the line format, one entry per line as
// word<TAB>pinyin<TAB>frequency. Entries whose word or pinyin contain the
// field separator or a newline cannot be represented and are returned as
// dropped, never written corrupted. Output bytes depend only on list
// order and content.
func Write(w io.Writer, l *List) ([]*Entry, error) {
	var dropped []*Entry

	bw := bufio.NewWriter(w)
	for _, e := range l.Entries() {
		if strings.ContainsAny(e.Word, "\t\n") || strings.ContainsAny(e.Pinyin, "\t\n") {
			dropped = append(dropped, e)
			continue
		}
		if _, err := fmt.Fprintf(bw, "%s%s%s%s%d\n", e.Word, fieldSeparator, e.Pinyin, fieldSeparator, e.Frequency); err != nil {
			return dropped, fmt.Errorf("writing word list: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return dropped, fmt.Errorf("writing word list: %w", err)
	}

	return dropped, nil
}

// Read parses a persisted word list. It is the exact inverse of Write:
// reading bytes produced by Write yields an equal list. Blank lines are
// skipped.
func Read(r io.Reader) (*List, error) {
	l := New()

	s := bufio.NewScanner(r)
	n := 0
	for s.Scan() {
		n++
		line := s.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, fieldSeparator)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrMalformedLine, n, len(fields))
		}
		if fields[0] == "" || fields[1] == "" {
			return nil, fmt.Errorf("%w: line %d has an empty field", ErrMalformedLine, n)
		}
		freq, err := strconv.Atoi(fields[2])
		if err != nil || freq < 0 {
			return nil, fmt.Errorf("%w: line %d has bad frequency %q", ErrMalformedLine, n, fields[2])
		}

		l.Add(&Entry{
			Word:      fields[0],
			Pinyin:    fields[1],
			Frequency: freq,
		})
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading word list: %w", err)
	}

	return l, nil
}
