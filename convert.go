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

package sogoupopular

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/asc8384/sogoupopular/internal/atomicfile"
	"github.com/asc8384/sogoupopular/wordlist"
)

// ConvertOptions selects which snapshots Convert re-encodes.
type ConvertOptions struct {
	// CurrentOnly converts only the current snapshot.
	CurrentOnly bool

	// AccumulatedOnly converts only the accumulated snapshot.
	AccumulatedOnly bool
}

// Convert re-encodes the persisted line-format word lists into Rime
// dictionaries without fetching anything. It is used to regenerate the
// Rime artifacts after a manual edit of the text files.
func Convert(cfg Config, opts ConvertOptions) (*Result, error) {
	log := cfg.Logger
	version := cfg.now().Format("2006.01.02")
	result := &Result{}

	type snapshot struct {
		skip     bool
		source   string
		target   string
		name     string
		subtitle string
	}

	for _, s := range []snapshot{
		{
			skip:     opts.AccumulatedOnly,
			source:   filepath.Join(cfg.DataDir, CurrentFile),
			target:   filepath.Join(cfg.DataDir, cfg.dictName()+".current.dict.yaml"),
			name:     cfg.dictName() + ".current",
			subtitle: "网络流行新词（当前版本）",
		},
		{
			skip:     opts.CurrentOnly,
			source:   filepath.Join(cfg.DataDir, AccumulatedFile),
			target:   filepath.Join(cfg.DataDir, cfg.dictName()+".dict.yaml"),
			name:     cfg.dictName(),
			subtitle: "网络流行新词（累积版本）",
		},
	} {
		if s.skip {
			continue
		}

		list, err := loadWordList(s.source)
		if err != nil {
			return nil, err
		}
		if list.Len() == 0 {
			warning := fmt.Sprintf("%s is empty or missing; skipped", filepath.Base(s.source))
			log.Warn().Msg(warning)
			result.Warnings = append(result.Warnings, warning)
			continue
		}

		enc := rimeEncoder(s.name, version, s.subtitle)
		var dropped []*wordlist.Entry
		err = atomicfile.WriteFile(s.target, artifactMode, func(w io.Writer) error {
			var err error
			dropped, err = enc.Encode(w, list)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("writing artifact %q: %w", s.target, err)
		}
		if len(dropped) > 0 {
			warning := fmt.Sprintf("%d entries dropped from %s (field separator conflict)", len(dropped), filepath.Base(s.target))
			log.Warn().Msg(warning)
			result.Warnings = append(result.Warnings, warning)
			result.Dropped = append(result.Dropped, dropped...)
		}
		log.Info().Str("path", s.target).Int("entries", list.Len()-len(dropped)).Msg("converted rime dictionary")
	}

	return result, nil
}
