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

// Directional quotation marks.
const (
	OpenDouble  = "“"
	CloseDouble = "”"
	OpenSingle  = "‘"
	CloseSingle = "’"
)

var (
	// shortest span between two straight double quotes, possibly empty
	doubleQuoted = regexp2.MustCompile(`"(.*?)"`, regexp2.ECMAScript)
	// single quotes around at least one non-quote character
	singleQuoted = regexp2.MustCompile(`'([^']+)'`, regexp2.ECMAScript)
)

// SmartQuotes converts straight quotes to directional quotes. Double-quoted spans are
// converted first, then single-quoted spans on that result.
//
// Pairing is leftmost-first and lazy. An odd number of quotes on a line, or an
// apostrophe inside a quoted span, pairs with whatever quote comes next:
//
//	don't say 'no'  ->  don‘t say ’no'
//
// This is kept as is so that documents already converted by earlier versions come
// out identical.
func SmartQuotes(text string) string {
	text = replaceAll(doubleQuoted, text, OpenDouble+"$1"+CloseDouble)
	text = replaceAll(singleQuoted, text, OpenSingle+"$1"+CloseSingle)
	return text
}

// replaceAll is used with the package's fixed expressions, which have no match
// timeout and cannot fail.
func replaceAll(re *regexp2.Regexp, text, replacement string) string {
	out, err := re.Replace(text, replacement, -1, -1)
	if err != nil {
		return text
	}
	return out
}
