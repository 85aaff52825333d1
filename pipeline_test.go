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

package sogoupopular_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/asc8384/sogoupopular"
	"github.com/asc8384/sogoupopular/internal/testutil"
	"github.com/asc8384/sogoupopular/scel"
	"github.com/asc8384/sogoupopular/sogou"
)

const testDetailPage = `<html><body>
<div class="detail_info">
<dl>
<dt>词 条：</dt><dd>2个</dd>
<dt>示 例：</dt><dd>你好 世界</dd>
<dt>更 新：</dt><dd>2025-03-16 20:50:02</dd>
<dt>版 本：</dt><dd>第6013个版本</dd>
</dl>
</div>
</body></html>`

// testHelloWorldContainer builds a container with the entries
// ("你好", "ni hao") and ("世界", "shi jie").
func testHelloWorldContainer(t *testing.T) []byte {
	t.Helper()

	return testutil.MakeScel(t,
		[]testutil.Syllable{
			{Index: 0, Text: "ni"},
			{Index: 1, Text: "hao"},
			{Index: 2, Text: "shi"},
			{Index: 3, Text: "jie"},
		},
		[]testutil.Group{
			{
				PinyinIndexes: []uint16{0, 1},
				Words: []testutil.Word{
					{Word: "你好", Ext: testutil.FreqExt(0)},
				},
			},
			{
				PinyinIndexes: []uint16{2, 3},
				Words: []testutil.Word{
					{Word: "世界", Ext: testutil.FreqExt(0)},
				},
			},
		},
		nil,
	)
}

// newTestClient returns a client pointed at a test server that serves the
// given detail page and container bytes.
func newTestClient(t *testing.T, detailPage string, container []byte) *sogou.Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/detail", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(detailPage))
	})
	mux.HandleFunc("/download", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(container)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	c := sogou.NewClient()
	c.DetailURL = server.URL + "/detail"
	c.DownloadURL = server.URL + "/download"
	return c
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile: %v", err)
	}
	return string(b)
}

// TestRun tests a first pipeline run.
func TestRun(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	result, err := sogoupopular.Run(context.Background(), sogoupopular.Config{
		Client:  newTestClient(t, testDetailPage, testHelloWorldContainer(t)),
		DataDir: dataDir,
	})
	if err != nil {
		t.Fatalf("sogoupopular.Run: %v", err)
	}

	if result.Skipped {
		t.Fatal("run unexpectedly skipped")
	}
	if want, got := 2, result.CurrentCount; want != got {
		t.Errorf("unexpected current count; want: %d, got: %d", want, got)
	}
	if want, got := 2, result.AccumulatedCount; want != got {
		t.Errorf("unexpected accumulated count; want: %d, got: %d", want, got)
	}
	if want, got := 2, result.AddedCount; want != got {
		t.Errorf("unexpected added count; want: %d, got: %d", want, got)
	}

	// Current snapshot preserves container order.
	current := readFile(t, filepath.Join(dataDir, sogoupopular.CurrentFile))
	if want := "你好\tni hao\t1\n世界\tshi jie\t1\n"; want != current {
		t.Errorf("unexpected current file; want: %q, got: %q", want, current)
	}

	// Accumulated snapshot is sorted by frequency then word.
	accumulated := readFile(t, filepath.Join(dataDir, sogoupopular.AccumulatedFile))
	if want := "世界\tshi jie\t1\n你好\tni hao\t1\n"; want != accumulated {
		t.Errorf("unexpected accumulated file; want: %q, got: %q", want, accumulated)
	}

	rimeDict := readFile(t, filepath.Join(dataDir, "luna_pinyin.sogoupopular.dict.yaml"))
	for _, want := range []string{
		"# Rime dictionary\n",
		"name: luna_pinyin.sogoupopular\n",
		"sort: by_weight\n",
		"use_preset_vocabulary: true\n",
		"你好\tni hao\t1\n",
	} {
		if !strings.Contains(rimeDict, want) {
			t.Errorf("rime dictionary missing %q:\n%s", want, rimeDict)
		}
	}
	rimeCurrent := readFile(t, filepath.Join(dataDir, "luna_pinyin.sogoupopular.current.dict.yaml"))
	if !strings.Contains(rimeCurrent, "name: luna_pinyin.sogoupopular.current\n") {
		t.Errorf("unexpected current rime dictionary:\n%s", rimeCurrent)
	}

	v, err := sogou.LoadVersionInfo(filepath.Join(dataDir, sogoupopular.VersionInfoFile))
	if err != nil {
		t.Fatalf("sogou.LoadVersionInfo: %v", err)
	}
	if want, got := 6013, v.Version; want != got {
		t.Errorf("unexpected persisted version; want: %d, got: %d", want, got)
	}
	if want, got := 2, v.EntryCount; want != got {
		t.Errorf("unexpected persisted entry count; want: %d, got: %d", want, got)
	}
}

// TestRun_accumulates tests that a run never demotes historical
// frequencies and unions new entries.
func TestRun_accumulates(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()

	// Previous accumulated set carries 你好 with a higher frequency.
	prior := "你好\tni hao\t5\n"
	if err := os.WriteFile(filepath.Join(dataDir, sogoupopular.AccumulatedFile), []byte(prior), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}

	result, err := sogoupopular.Run(context.Background(), sogoupopular.Config{
		Client:  newTestClient(t, testDetailPage, testHelloWorldContainer(t)),
		DataDir: dataDir,
	})
	if err != nil {
		t.Fatalf("sogoupopular.Run: %v", err)
	}

	if want, got := 2, result.AccumulatedCount; want != got {
		t.Errorf("unexpected accumulated count; want: %d, got: %d", want, got)
	}
	if want, got := 1, result.AddedCount; want != got {
		t.Errorf("unexpected added count; want: %d, got: %d", want, got)
	}

	accumulated := readFile(t, filepath.Join(dataDir, sogoupopular.AccumulatedFile))
	if want := "你好\tni hao\t5\n世界\tshi jie\t1\n"; want != accumulated {
		t.Errorf("unexpected accumulated file; want: %q, got: %q", want, accumulated)
	}
}

// TestRun_skipsWhenNotNewer tests version-based change detection.
func TestRun_skipsWhenNotNewer(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	if err := sogou.SaveVersionInfo(filepath.Join(dataDir, sogoupopular.VersionInfoFile), &sogou.VersionInfo{Version: 6013}); err != nil {
		t.Fatalf("sogou.SaveVersionInfo: %v", err)
	}

	result, err := sogoupopular.Run(context.Background(), sogoupopular.Config{
		Client:  newTestClient(t, testDetailPage, testHelloWorldContainer(t)),
		DataDir: dataDir,
	})
	if err != nil {
		t.Fatalf("sogoupopular.Run: %v", err)
	}

	if !result.Skipped {
		t.Error("run was not skipped")
	}
	if _, err := os.Stat(filepath.Join(dataDir, sogoupopular.CurrentFile)); !os.IsNotExist(err) {
		t.Errorf("current file unexpectedly written: %v", err)
	}
}

// TestRun_force tests that Force overrides change detection.
func TestRun_force(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	if err := sogou.SaveVersionInfo(filepath.Join(dataDir, sogoupopular.VersionInfoFile), &sogou.VersionInfo{Version: 6013}); err != nil {
		t.Fatalf("sogou.SaveVersionInfo: %v", err)
	}

	result, err := sogoupopular.Run(context.Background(), sogoupopular.Config{
		Client:  newTestClient(t, testDetailPage, testHelloWorldContainer(t)),
		DataDir: dataDir,
		Force:   true,
	})
	if err != nil {
		t.Fatalf("sogoupopular.Run: %v", err)
	}

	if result.Skipped {
		t.Error("run unexpectedly skipped")
	}
	if _, err := os.Stat(filepath.Join(dataDir, sogoupopular.CurrentFile)); err != nil {
		t.Errorf("current file not written: %v", err)
	}
}

// TestRun_malformedContainer tests that a decode failure writes nothing.
func TestRun_malformedContainer(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	_, err := sogoupopular.Run(context.Background(), sogoupopular.Config{
		Client:  newTestClient(t, testDetailPage, []byte("not a cell container")),
		DataDir: dataDir,
	})
	if !errors.Is(err, scel.ErrMalformedContainer) {
		t.Fatalf("unexpected error; want: %v, got: %v", scel.ErrMalformedContainer, err)
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		t.Fatalf("os.ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("unexpected files written: %v", entries)
	}
}

// TestRun_emptyContainer tests that an empty fetch keeps the accumulated
// set unchanged and surfaces a warning.
func TestRun_emptyContainer(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	prior := "你好\tni hao\t5\n"
	if err := os.WriteFile(filepath.Join(dataDir, sogoupopular.AccumulatedFile), []byte(prior), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}

	empty := testutil.MakeScel(t, []testutil.Syllable{{Index: 0, Text: "ni"}}, nil, nil)
	result, err := sogoupopular.Run(context.Background(), sogoupopular.Config{
		Client:  newTestClient(t, testDetailPage, empty),
		DataDir: dataDir,
	})
	if err != nil {
		t.Fatalf("sogoupopular.Run: %v", err)
	}

	if len(result.Warnings) == 0 {
		t.Error("expected a warning for the empty container")
	}
	if want, got := 0, result.CurrentCount; want != got {
		t.Errorf("unexpected current count; want: %d, got: %d", want, got)
	}

	accumulated := readFile(t, filepath.Join(dataDir, sogoupopular.AccumulatedFile))
	if want := prior; want != accumulated {
		t.Errorf("accumulated file changed; want: %q, got: %q", want, accumulated)
	}
}

// TestConvert tests regenerating the Rime dictionaries from persisted
// word lists.
func TestConvert(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataDir, sogoupopular.CurrentFile), []byte("你好\tni hao\t1\n"), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, sogoupopular.AccumulatedFile), []byte("你好\tni hao\t5\n世界\tshi jie\t1\n"), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}

	result, err := sogoupopular.Convert(sogoupopular.Config{DataDir: dataDir}, sogoupopular.ConvertOptions{})
	if err != nil {
		t.Fatalf("sogoupopular.Convert: %v", err)
	}
	if diff := cmp.Diff([]string(nil), result.Warnings); diff != "" {
		t.Fatalf("unexpected warnings (-want, +got):\n%s", diff)
	}

	rimeDict := readFile(t, filepath.Join(dataDir, "luna_pinyin.sogoupopular.dict.yaml"))
	for _, want := range []string{
		"name: luna_pinyin.sogoupopular\n",
		"你好\tni hao\t5\n",
		"世界\tshi jie\t1\n",
	} {
		if !strings.Contains(rimeDict, want) {
			t.Errorf("rime dictionary missing %q:\n%s", want, rimeDict)
		}
	}

	rimeCurrent := readFile(t, filepath.Join(dataDir, "luna_pinyin.sogoupopular.current.dict.yaml"))
	if !strings.Contains(rimeCurrent, "你好\tni hao\t1\n") {
		t.Errorf("unexpected current rime dictionary:\n%s", rimeCurrent)
	}
}

// TestConvert_missingSource tests that a missing word list is a warning,
// not an error.
func TestConvert_missingSource(t *testing.T) {
	t.Parallel()

	result, err := sogoupopular.Convert(sogoupopular.Config{DataDir: t.TempDir()}, sogoupopular.ConvertOptions{})
	if err != nil {
		t.Fatalf("sogoupopular.Convert: %v", err)
	}
	if want, got := 2, len(result.Warnings); want != got {
		t.Errorf("unexpected # of warnings; want: %d, got: %d", want, got)
	}
}
