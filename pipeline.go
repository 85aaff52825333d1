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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/asc8384/sogoupopular/internal/atomicfile"
	"github.com/asc8384/sogoupopular/rime"
	"github.com/asc8384/sogoupopular/scel"
	"github.com/asc8384/sogoupopular/sogou"
	"github.com/asc8384/sogoupopular/wordlist"
)

// Artifact file names within the data directory.
const (
	CurrentFile     = "sogou_network_words_current.txt"
	AccumulatedFile = "sogou_network_words_accumulated.txt"
	VersionInfoFile = "version_info.json"
)

// DefaultDictName is the base name for the generated Rime dictionaries.
// The current snapshot is written as <name>.current.dict.yaml and the
// accumulated set as <name>.dict.yaml.
const DefaultDictName = "luna_pinyin.sogoupopular"

const artifactMode = 0o644

// Config configures a pipeline run. All process-wide settings are carried
// here explicitly; the pipeline reads no ambient state.
type Config struct {
	// Client fetches from the vendor endpoints. Defaults to
	// sogou.NewClient().
	Client *sogou.Client

	// DataDir is the directory holding all artifacts.
	DataDir string

	// DictName is the base name for the Rime dictionaries. Defaults to
	// DefaultDictName.
	DictName string

	// Force runs the pipeline even when the vendor version is not newer
	// than the persisted one.
	Force bool

	// Logger receives run progress. Defaults to a no-op logger.
	Logger zerolog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

func (c *Config) client() *sogou.Client {
	if c.Client == nil {
		return sogou.NewClient()
	}
	return c.Client
}

func (c *Config) dictName() string {
	if c.DictName == "" {
		return DefaultDictName
	}
	return c.DictName
}

func (c *Config) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Result summarizes a pipeline run.
type Result struct {
	// Skipped is true when the vendor version was not newer than the
	// persisted one and no artifacts were written.
	Skipped bool

	// Version is the vendor version info for this run.
	Version *sogou.VersionInfo

	// CurrentCount is the number of entries decoded this run.
	CurrentCount int

	// AccumulatedCount is the size of the accumulated set after merging.
	AccumulatedCount int

	// AddedCount is the number of keys the run added to the accumulated
	// set.
	AddedCount int

	// Dropped holds entries that could not be represented in an output
	// format and were skipped.
	Dropped []*wordlist.Entry

	// Warnings holds non-fatal conditions encountered during the run.
	Warnings []string
}

// Run executes one pipeline run: check the vendor version, download and
// decode the cell container, merge with the accumulated set, and write the
// artifacts. Every artifact is replaced atomically; on any error the
// previously persisted files remain valid.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	log := cfg.Logger
	client := cfg.client()

	prior, err := sogou.LoadVersionInfo(filepath.Join(cfg.DataDir, VersionInfoFile))
	if err != nil {
		return nil, err
	}

	latest, err := client.LatestVersion(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("version", latest.Version).
		Int("word_count", latest.WordCount).
		Str("update_time", latest.UpdateTime).
		Msg("fetched vendor version info")

	result := &Result{Version: latest}

	if !latest.NewerThan(prior) && !cfg.Force {
		log.Info().
			Int("version", prior.Version).
			Msg("already at latest version, skipping")
		result.Skipped = true
		return result, nil
	}

	container, err := client.Download(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("bytes", len(container)).Msg("downloaded cell container")

	dict, err := scel.Parse(container)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("name", dict.Name()).
		Int("entries", dict.WordCount()).
		Msg("decoded cell container")

	current := wordlist.New()
	for _, e := range dict.Entries() {
		current.Add(&wordlist.Entry{
			Word:      e.Word,
			Pinyin:    e.Pinyin,
			Frequency: e.Frequency,
		})
	}
	result.CurrentCount = current.Len()

	previous, err := loadWordList(filepath.Join(cfg.DataDir, AccumulatedFile))
	if err != nil {
		return nil, err
	}

	if current.Len() == 0 {
		warning := "fetched container produced no entries; accumulated set unchanged"
		log.Warn().Msg(warning)
		result.Warnings = append(result.Warnings, warning)
	}

	accumulated := wordlist.Merge(current, previous)
	result.AccumulatedCount = accumulated.Len()
	result.AddedCount = accumulated.Len() - previous.Len()
	log.Info().
		Int("previous", previous.Len()).
		Int("accumulated", accumulated.Len()).
		Int("added", result.AddedCount).
		Msg("merged accumulated set")

	if err := writeArtifacts(cfg, result, current, accumulated); err != nil {
		return nil, err
	}

	latest.FetchedAt = cfg.now().UTC()
	latest.EntryCount = result.CurrentCount
	if err := sogou.SaveVersionInfo(filepath.Join(cfg.DataDir, VersionInfoFile), latest); err != nil {
		return nil, err
	}

	log.Info().Msg("run complete")
	return result, nil
}

// loadWordList loads a persisted word list. A missing file is not an
// error and yields an empty list, so a first run starts from nothing.
func loadWordList(path string) (*wordlist.List, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return wordlist.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening accumulated word list %q: %w", path, err)
	}
	defer f.Close()

	l, err := wordlist.Read(f)
	if err != nil {
		return nil, fmt.Errorf("loading accumulated word list %q: %w", path, err)
	}
	return l, nil
}

// writeArtifacts writes the two line-format word lists and the two Rime
// dictionaries. Each file lands atomically.
func writeArtifacts(cfg Config, result *Result, current, accumulated *wordlist.List) error {
	log := cfg.Logger
	version := cfg.now().Format("2006.01.02")

	lists := []struct {
		path    string
		list    *wordlist.List
		encoder *rime.Encoder
	}{
		{
			path: filepath.Join(cfg.DataDir, CurrentFile),
			list: current,
		},
		{
			path: filepath.Join(cfg.DataDir, AccumulatedFile),
			list: accumulated,
		},
		{
			path:    filepath.Join(cfg.DataDir, cfg.dictName()+".current.dict.yaml"),
			list:    current,
			encoder: rimeEncoder(cfg.dictName()+".current", version, "网络流行新词（当前版本）"),
		},
		{
			path:    filepath.Join(cfg.DataDir, cfg.dictName()+".dict.yaml"),
			list:    accumulated,
			encoder: rimeEncoder(cfg.dictName(), version, "网络流行新词（累积版本）"),
		},
	}

	for _, a := range lists {
		var dropped []*wordlist.Entry
		err := atomicfile.WriteFile(a.path, artifactMode, func(w io.Writer) error {
			var err error
			if a.encoder != nil {
				dropped, err = a.encoder.Encode(w, a.list)
			} else {
				dropped, err = wordlist.Write(w, a.list)
			}
			return err
		})
		if err != nil {
			return fmt.Errorf("writing artifact %q: %w", a.path, err)
		}
		if len(dropped) > 0 {
			warning := fmt.Sprintf("%d entries dropped from %s (field separator conflict)", len(dropped), filepath.Base(a.path))
			log.Warn().Msg(warning)
			result.Warnings = append(result.Warnings, warning)
			result.Dropped = append(result.Dropped, dropped...)
		}
		log.Debug().Str("path", a.path).Int("entries", a.list.Len()-len(dropped)).Msg("wrote artifact")
	}

	return nil
}

// rimeBanner is the comment banner written above each Rime dictionary's
// front matter, including the deployment locations for the major
// platforms.
func rimeBanner(subtitle string) []string {
	return []string{
		"Luna Pinyin Extended Dictionary（明月拼音扩充词库）",
		subtitle,
		"",
		"https://github.com/ASC8384/SogouPopularDict",
		"",
		"部署位置：",
		"~/.config/ibus/rime  (Linux)",
		"~/Library/Rime  (Mac OS)",
		`%APPDATA%\Rime  (Windows)`,
		"",
		"重新部署即可",
	}
}

func rimeEncoder(name, version, subtitle string) *rime.Encoder {
	return rime.NewEncoder(rime.Header{
		Name:                name,
		Version:             version,
		UsePresetVocabulary: true,
		Banner:              rimeBanner(subtitle),
	})
}
