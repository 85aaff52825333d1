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

	"github.com/urfave/cli/v2"

	"github.com/asc8384/sogoupopular"
	"github.com/asc8384/sogoupopular/sogou"
)

var updateCommand = &cli.Command{
	Name:  "update",
	Usage: "fetch the latest dictionary and regenerate all artifacts",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "force",
			Usage:   "run even if the vendor version is not newer",
			Aliases: []string{"f"},
		},
		&cli.StringFlag{
			Name:  "url",
			Usage: "cell dictionary download `URL`",
			Value: sogou.DefaultDownloadURL,
		},
		&cli.StringFlag{
			Name:  "detail-url",
			Usage: "dictionary detail page `URL`",
			Value: sogou.DefaultDetailURL,
		},
	},
	Action: func(c *cli.Context) error {
		log, err := newLogger(c)
		if err != nil {
			return err
		}

		dataDir := c.String("data-dir")
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return fmt.Errorf("%w: creating data dir: %w", ErrSogouPopular, err)
		}

		client := sogou.NewClient()
		client.DownloadURL = c.String("url")
		client.DetailURL = c.String("detail-url")

		result, err := sogoupopular.Run(c.Context, sogoupopular.Config{
			Client:  client,
			DataDir: dataDir,
			Force:   c.Bool("force"),
			Logger:  log,
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSogouPopular, err)
		}

		if result.Skipped {
			fmt.Fprintf(c.App.Writer, "Already at version %d; nothing to do.\n", result.Version.Version)
			return nil
		}

		fmt.Fprintf(c.App.Writer, "Updated to version %d: %d current entries, %d accumulated (%d new).\n",
			result.Version.Version, result.CurrentCount, result.AccumulatedCount, result.AddedCount)
		for _, w := range result.Warnings {
			fmt.Fprintf(c.App.Writer, "warning: %s\n", w)
		}
		return nil
	},
}
