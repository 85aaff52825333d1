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

package wordlist_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/asc8384/sogoupopular/wordlist"
)

// TestWrite tests the line format output.
func TestWrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		list *wordlist.List

		expected        string
		expectedDropped []*wordlist.Entry
	}{
		{
			name: "empty list",
			list: wordlist.New(),

			expected: "",
		},
		{
			name: "entries in list order",
			list: makeList(
				&wordlist.Entry{Word: "你好", Pinyin: "ni hao", Frequency: 5},
				&wordlist.Entry{Word: "世界", Pinyin: "shi jie", Frequency: 1},
			),

			expected: "你好\tni hao\t5\n世界\tshi jie\t1\n",
		},
		{
			name: "separator conflicts dropped",
			list: makeList(
				&wordlist.Entry{Word: "你好", Pinyin: "ni hao", Frequency: 5},
				&wordlist.Entry{Word: "bad\tword", Pinyin: "bad", Frequency: 1},
				&wordlist.Entry{Word: "bad", Pinyin: "bad\npinyin", Frequency: 1},
			),

			expected: "你好\tni hao\t5\n",
			expectedDropped: []*wordlist.Entry{
				{Word: "bad\tword", Pinyin: "bad", Frequency: 1},
				{Word: "bad", Pinyin: "bad\npinyin", Frequency: 1},
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			var b bytes.Buffer
			dropped, err := wordlist.Write(&b, test.list)
			if err != nil {
				t.Fatalf("wordlist.Write: %v", err)
			}

			if diff := cmp.Diff(test.expected, b.String()); diff != "" {
				t.Fatalf("wordlist.Write (-want, +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.expectedDropped, dropped); diff != "" {
				t.Fatalf("dropped entries (-want, +got):\n%s", diff)
			}
		})
	}
}

// TestWrite_deterministic tests that equal lists produce byte-identical
// output.
func TestWrite_deterministic(t *testing.T) {
	t.Parallel()

	l := makeList(
		&wordlist.Entry{Word: "你好", Pinyin: "ni hao", Frequency: 5},
		&wordlist.Entry{Word: "世界", Pinyin: "shi jie", Frequency: 1},
	)

	var a, b bytes.Buffer
	if _, err := wordlist.Write(&a, l); err != nil {
		t.Fatalf("wordlist.Write: %v", err)
	}
	if _, err := wordlist.Write(&b, l); err != nil {
		t.Fatalf("wordlist.Write: %v", err)
	}

	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("output not byte-identical:\n%q\n%q", a.String(), b.String())
	}
}

// TestRead tests parsing of the line format.
func TestRead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string

		expected    []*wordlist.Entry
		expectedErr error
	}{
		{
			name:  "empty input",
			input: "",

			expected: nil,
		},
		{
			name:  "blank lines skipped",
			input: "你好\tni hao\t5\n\n世界\tshi jie\t1\n",

			expected: []*wordlist.Entry{
				{Word: "你好", Pinyin: "ni hao", Frequency: 5},
				{Word: "世界", Pinyin: "shi jie", Frequency: 1},
			},
		},
		{
			name:  "missing fields",
			input: "你好\tni hao\n",

			expectedErr: wordlist.ErrMalformedLine,
		},
		{
			name:  "empty field",
			input: "你好\t\t5\n",

			expectedErr: wordlist.ErrMalformedLine,
		},
		{
			name:  "bad frequency",
			input: "你好\tni hao\tfive\n",

			expectedErr: wordlist.ErrMalformedLine,
		},
		{
			name:  "negative frequency",
			input: "你好\tni hao\t-1\n",

			expectedErr: wordlist.ErrMalformedLine,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			l, err := wordlist.Read(strings.NewReader(test.input))
			if test.expectedErr != nil {
				if !errors.Is(err, test.expectedErr) {
					t.Fatalf("unexpected error; want: %v, got: %v", test.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("wordlist.Read: %v", err)
			}

			if diff := cmp.Diff(test.expected, l.Entries()); diff != "" {
				t.Fatalf("wordlist.Read (-want, +got):\n%s", diff)
			}
		})
	}
}

// TestRoundTrip tests that Read is the exact inverse of Write.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	l := makeList(
		&wordlist.Entry{Word: "你好", Pinyin: "ni hao", Frequency: 5},
		&wordlist.Entry{Word: "世界", Pinyin: "shi jie", Frequency: 1},
		&wordlist.Entry{Word: "重庆", Pinyin: "chong qing", Frequency: 0},
	)

	var b bytes.Buffer
	if _, err := wordlist.Write(&b, l); err != nil {
		t.Fatalf("wordlist.Write: %v", err)
	}

	got, err := wordlist.Read(&b)
	if err != nil {
		t.Fatalf("wordlist.Read: %v", err)
	}

	if diff := cmp.Diff(l.Entries(), got.Entries()); diff != "" {
		t.Fatalf("round trip (-want, +got):\n%s", diff)
	}
}
