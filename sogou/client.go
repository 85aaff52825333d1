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

// Package sogou implements a client for the Sogou cell dictionary
// endpoints: the dictionary detail page, which carries version metadata,
// and the cell download endpoint, which serves the .scel container.
package sogou

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultDetailURL is the detail page for the "网络流行新词" (popular
	// network words) dictionary.
	DefaultDetailURL = "https://pinyin.sogou.com/dict/detail/index/4"

	// DefaultDownloadURL is the cell download endpoint for the same
	// dictionary.
	DefaultDownloadURL = "https://pinyin.sogou.com/d/dict/download_cell.php?id=4&name=%E7%BD%91%E7%BB%9C%E6%B5%81%E8%A1%8C%E6%96%B0%E8%AF%8D&f=detail"

	detailTimeout   = 10 * time.Second
	downloadTimeout = 30 * time.Second
)

// ErrFetch indicates that a vendor endpoint request failed. Fetch errors
// never affect previously persisted artifacts.
var ErrFetch = errors.New("fetching from vendor")

// Client fetches dictionary data from the Sogou endpoints.
type Client struct {
	// HTTPClient is the client used for requests. Defaults to a client
	// with a 30 second timeout.
	HTTPClient *http.Client

	// DetailURL is the dictionary detail page URL.
	DetailURL string

	// DownloadURL is the cell download URL.
	DownloadURL string
}

// NewClient returns a client for the popular network words dictionary.
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout: downloadTimeout,
		},
		DetailURL:   DefaultDetailURL,
		DownloadURL: DefaultDownloadURL,
	}
}

// LatestVersion fetches the detail page and scrapes the dictionary's
// version number, update time and advertised word count.
func (c *Client) LatestVersion(ctx context.Context) (*VersionInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, detailTimeout)
	defer cancel()

	body, err := c.get(ctx, c.DetailURL)
	if err != nil {
		return nil, err
	}
	return parseVersionInfo(body)
}

// Download fetches the cell dictionary container.
func (c *Client) Download(ctx context.Context) ([]byte, error) {
	body, err := c.get(ctx, c.DownloadURL)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty response from %q", ErrFetch, c.DownloadURL)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: downloadTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %q from %q", ErrFetch, resp.Status, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response from %q: %v", ErrFetch, url, err)
	}
	return body, nil
}
