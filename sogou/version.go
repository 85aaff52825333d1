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

package sogou

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/asc8384/sogoupopular/internal/atomicfile"
)

// VersionInfo describes the vendor dictionary version seen on a run. It is
// persisted between runs for change detection.
type VersionInfo struct {
	// Version is the vendor's release counter ("第N个版本" on the detail
	// page).
	Version int `json:"version"`

	// UpdateTime is the vendor's update timestamp, as shown on the
	// detail page.
	UpdateTime string `json:"update_time"`

	// WordCount is the entry count advertised on the detail page.
	WordCount int `json:"word_count"`

	// FetchedAt is when the container was fetched.
	FetchedAt time.Time `json:"fetched_at,omitempty"`

	// EntryCount is the number of entries actually decoded from the
	// container.
	EntryCount int `json:"entry_count,omitempty"`
}

// NewerThan reports whether v is a newer vendor release than o. A nil o is
// treated as version zero.
func (v *VersionInfo) NewerThan(o *VersionInfo) bool {
	if o == nil {
		return v.Version > 0
	}
	return v.Version > o.Version
}

// LoadVersionInfo loads persisted version info. A missing file is not an
// error and yields the zero version, so a first run always proceeds.
func LoadVersionInfo(path string) (*VersionInfo, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &VersionInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading version info %q: %w", path, err)
	}

	var v VersionInfo
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("parsing version info %q: %w", path, err)
	}
	return &v, nil
}

// SaveVersionInfo atomically persists version info to path.
func SaveVersionInfo(path string, v *VersionInfo) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding version info: %w", err)
	}
	b = append(b, '\n')

	err = atomicfile.WriteFile(path, 0o644, func(w io.Writer) error {
		if _, err := w.Write(b); err != nil {
			return fmt.Errorf("writing version info: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persisting version info %q: %w", path, err)
	}
	return nil
}
