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

// Command sogoupopular maintains derived artifacts for the Sogou popular
// network words dictionary.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newSogouPopularApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)

		code := ExitCodeUnknownError
		if errors.Is(err, ErrFlagParse) {
			code = ExitCodeFlagParseError
		}
		cli.OsExiter(code)
	}
}
