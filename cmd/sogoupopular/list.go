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

package main

import (
	"fmt"
	"os"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/asc8384/sogoupopular/scel"
)

var listCommand = &cli.Command{
	Name:      "list",
	Usage:     "decode a local .scel file and print its contents",
	ArgsUsage: "[FILE]",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "limit",
			Usage:   "print at most `N` entries (0 prints all)",
			Aliases: []string{"n"},
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("%w: expected a single .scel file argument", ErrFlagParse)
		}
		path := c.Args().First()

		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSogouPopular, err)
		}
		dict, err := scel.Parse(b)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSogouPopular, err)
		}

		fmt.Fprintf(c.App.Writer, "Name:        %s\n", dict.Name())
		fmt.Fprintf(c.App.Writer, "Category:    %s\n", dict.Category())
		fmt.Fprintf(c.App.Writer, "Description: %s\n", dict.Description())
		fmt.Fprintf(c.App.Writer, "Word Count:  %d\n", dict.WordCount())
		fmt.Fprintln(c.App.Writer)

		entries := dict.Entries()
		if limit := c.Int("limit"); limit > 0 && limit < len(entries) {
			entries = entries[:limit]
		}

		tbl := table.New("Word", "Pinyin", "Frequency").WithWriter(c.App.Writer)
		for _, e := range entries {
			tbl.AddRow(e.Word, e.Pinyin, e.Frequency)
		}
		tbl.Print()

		return nil
	},
}
