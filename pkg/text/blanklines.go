// Copyright 2025 walteh LLC
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

package text

import (
	"github.com/dlclark/regexp2"
)

// a line holding only whitespace, together with its newline
var blankLine = regexp2.MustCompile(`^\s*\n`, regexp2.ECMAScript|regexp2.Multiline)

// RemoveEmptyLines deletes every line made only of whitespace. Non-blank lines keep
// their content, including leading indentation. A whitespace-only last line with
// no trailing newline is left in place.
func RemoveEmptyLines(text string) string {
	return replaceAll(blankLine, text, "")
}
