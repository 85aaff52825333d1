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

// Package sogoupopular implements the Sogou popular-words pipeline: fetch
// the vendor's cell dictionary (.scel), decode it, merge the entries into
// an accumulated historical set, and write the derived artifacts.
//
// A run produces five files in the data directory:
//  1. sogou_network_words_current.txt: this run's entries in the
//     tab-separated line format.
//  2. sogou_network_words_accumulated.txt: the deduplicated union of all
//     entries ever decoded, in the same format.
//  3. <name>.current.dict.yaml: the current snapshot as a Rime
//     dictionary.
//  4. <name>.dict.yaml: the accumulated set as a Rime dictionary.
//  5. version_info.json: the vendor version seen on this run, used to
//     skip runs when the vendor has not published a new release.
//
// The decoding, merging and encoding logic lives in the scel, wordlist and
// rime packages and operates on in-memory values only; this package wires
// them to the sogou client and the filesystem. All files are replaced
// atomically so an interrupted run never corrupts a previously persisted
// artifact.
package sogoupopular
