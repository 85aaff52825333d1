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

// Package rime encodes word lists as Rime dictionary files
// (*.dict.yaml).
//
// A Rime dictionary is a YAML front-matter header between "---" and "..."
// lines followed by one entry per line. The header is written line by line
// with a fixed key order so that encoding the same list always yields
// byte-identical output.
package rime

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/asc8384/sogoupopular/wordlist"
)

// Column identifies an entry field in the output line.
type Column int

const (
	// ColumnWord is the dictionary word.
	ColumnWord Column = iota

	// ColumnPinyin is the space-separated pinyin key.
	ColumnPinyin

	// ColumnWeight is the entry frequency.
	ColumnWeight
)

// DefaultColumns is the standard Rime entry column order.
var DefaultColumns = []Column{ColumnWord, ColumnPinyin, ColumnWeight}

// Header is the dictionary front matter.
type Header struct {
	// Name is the dictionary name, e.g. "luna_pinyin.sogoupopular".
	Name string

	// Version is the dictionary version string.
	Version string

	// Sort is the sort key declared to the input method. Defaults to
	// "by_weight".
	Sort string

	// UsePresetVocabulary enables the engine's preset vocabulary.
	UsePresetVocabulary bool

	// Banner lines are written as "# " comments above the front matter.
	Banner []string
}

// Encoder encodes word lists in the Rime dictionary format.
type Encoder struct {
	// Header is the dictionary front matter.
	Header Header

	// Columns is the entry field order. Defaults to DefaultColumns.
	Columns []Column

	// Delimiter separates entry fields. Defaults to a tab.
	Delimiter string
}

// NewEncoder returns an encoder with the default column mapping.
func NewEncoder(h Header) *Encoder {
	return &Encoder{
		Header:    h,
		Columns:   DefaultColumns,
		Delimiter: "\t",
	}
}

// Encode writes the list as a Rime dictionary. Entries whose fields
// contain the delimiter or a newline are returned as dropped and never
// written. The output is byte-identical for equal lists.
func (e *Encoder) Encode(w io.Writer, l *wordlist.List) ([]*wordlist.Entry, error) {
	columns := e.Columns
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	delim := e.Delimiter
	if delim == "" {
		delim = "\t"
	}

	bw := bufio.NewWriter(w)
	if err := e.writeHeader(bw); err != nil {
		return nil, err
	}

	var dropped []*wordlist.Entry
	for _, entry := range l.Entries() {
		if strings.ContainsAny(entry.Word, delim+"\n") || strings.ContainsAny(entry.Pinyin, delim+"\n") {
			dropped = append(dropped, entry)
			continue
		}

		fields := make([]string, 0, len(columns))
		for _, c := range columns {
			switch c {
			case ColumnWord:
				fields = append(fields, entry.Word)
			case ColumnPinyin:
				fields = append(fields, entry.Pinyin)
			case ColumnWeight:
				fields = append(fields, fmt.Sprintf("%d", entry.Frequency))
			}
		}
		if _, err := fmt.Fprintln(bw, strings.Join(fields, delim)); err != nil {
			return dropped, fmt.Errorf("writing rime dictionary: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return dropped, fmt.Errorf("writing rime dictionary: %w", err)
	}

	return dropped, nil
}

func (e *Encoder) writeHeader(w io.Writer) error {
	sortKey := e.Header.Sort
	if sortKey == "" {
		sortKey = "by_weight"
	}

	var b strings.Builder
	b.WriteString("# Rime dictionary\n")
	b.WriteString("# encoding: utf-8\n")
	if len(e.Header.Banner) > 0 {
		b.WriteString("#\n")
		for _, line := range e.Header.Banner {
			if line == "" {
				b.WriteString("#\n")
				continue
			}
			b.WriteString("# " + line + "\n")
		}
	}
	b.WriteString("#\n")
	b.WriteString("---\n")
	fmt.Fprintf(&b, "name: %s\n", e.Header.Name)
	fmt.Fprintf(&b, "version: %q\n", e.Header.Version)
	fmt.Fprintf(&b, "sort: %s\n", sortKey)
	if e.Header.UsePresetVocabulary {
		b.WriteString("use_preset_vocabulary: true\n")
	}
	b.WriteString("...\n\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing rime header: %w", err)
	}
	return nil
}
