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
	"bytes"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/k3a/html2text"
	"golang.org/x/net/html"
)

// ErrNoVersionInfo indicates that no version metadata could be scraped
// from the detail page.
var ErrNoVersionInfo = errors.New("no version info on detail page")

var (
	wordCountRegexp  = regexp.MustCompile(`(\d+)`)
	versionRegexp    = regexp.MustCompile(`第(\d+)个版本`)
	textCountRegexp  = regexp.MustCompile(`词\s*条：(\d+)个`)
	textUpdateRegexp = regexp.MustCompile(`更\s*新：([\d-]+\s+[\d:]+)`)
)

// parseVersionInfo scrapes version metadata from the detail page HTML.
//
// The detail page lists metadata as <dd> elements inside a "detail_info"
// block, in the order: word count, examples, update time, version. When
// the page structure does not match, the page text is flattened and
// matched against the labeled fields instead.
func parseVersionInfo(body []byte) (*VersionInfo, error) {
	if v, ok := parseDetailInfo(body); ok {
		return v, nil
	}
	if v, ok := parsePageText(body); ok {
		return v, nil
	}
	return nil, ErrNoVersionInfo
}

func parseDetailInfo(body []byte) (*VersionInfo, bool) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, false
	}

	items := detailItems(doc, false)
	if len(items) < 4 {
		// Some page revisions drop the wrapping class.
		items = ddText(doc)
	}
	if len(items) < 4 {
		return nil, false
	}

	var v VersionInfo
	var ok bool
	if m := wordCountRegexp.FindStringSubmatch(items[0]); m != nil {
		v.WordCount, _ = strconv.Atoi(m[1])
		ok = true
	}
	v.UpdateTime = strings.TrimSpace(items[2])
	if m := versionRegexp.FindStringSubmatch(items[3]); m != nil {
		v.Version, _ = strconv.Atoi(m[1])
		ok = true
	}
	if !ok {
		return nil, false
	}
	return &v, true
}

// detailItems collects the text of <dd> elements below a node with a
// "detail_info" class, in document order.
func detailItems(n *html.Node, within bool) []string {
	if n.Type == html.ElementNode {
		if !within && hasClass(n, "detail_info") {
			within = true
		}
		if within && n.Data == "dd" {
			return []string{nodeText(n)}
		}
	}

	var items []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		items = append(items, detailItems(c, within)...)
	}
	return items
}

// ddText collects the text of every <dd> element in the document.
func ddText(n *html.Node) []string {
	if n.Type == html.ElementNode && n.Data == "dd" {
		return []string{nodeText(n)}
	}
	var items []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		items = append(items, ddText(c)...)
	}
	return items
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return strings.TrimSpace(b.String())
}

// parsePageText falls back to regex matching over the flattened page text.
func parsePageText(body []byte) (*VersionInfo, bool) {
	text := html2text.HTML2Text(string(body))

	var v VersionInfo
	var ok bool
	if m := textCountRegexp.FindStringSubmatch(text); m != nil {
		v.WordCount, _ = strconv.Atoi(m[1])
		ok = true
	}
	if m := textUpdateRegexp.FindStringSubmatch(text); m != nil {
		v.UpdateTime = strings.TrimSpace(m[1])
	}
	if m := versionRegexp.FindStringSubmatch(text); m != nil {
		v.Version, _ = strconv.Atoi(m[1])
		ok = true
	}
	if !ok {
		return nil, false
	}
	return &v, true
}
