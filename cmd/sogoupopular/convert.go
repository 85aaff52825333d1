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

	"github.com/urfave/cli/v2"

	"github.com/asc8384/sogoupopular"
)

var convertCommand = &cli.Command{
	Name:  "convert",
	Usage: "regenerate the Rime dictionaries from the persisted word lists",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "current-only",
			Usage: "convert only the current word list",
		},
		&cli.BoolFlag{
			Name:  "accumulated-only",
			Usage: "convert only the accumulated word list",
		},
	},
	Action: func(c *cli.Context) error {
		log, err := newLogger(c)
		if err != nil {
			return err
		}

		result, err := sogoupopular.Convert(
			sogoupopular.Config{
				DataDir: c.String("data-dir"),
				Logger:  log,
			},
			sogoupopular.ConvertOptions{
				CurrentOnly:     c.Bool("current-only"),
				AccumulatedOnly: c.Bool("accumulated-only"),
			},
		)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSogouPopular, err)
		}

		for _, w := range result.Warnings {
			fmt.Fprintf(c.App.Writer, "warning: %s\n", w)
		}
		return nil
	},
}
