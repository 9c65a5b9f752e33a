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

/*
Package rules parses replacement-rule documents.

A rules document is plain text with one rule per line:

	; comments start with a semicolon
	== Section markers start with two equals signs ==
	"colour", "color"
	"^- ", "• "
	"\.\s+", ".\n"

Each rule line is a double-quoted pattern, a comma, optional whitespace and a
double-quoted replacement. Patterns are compiled with global, multiline,
JavaScript-compatible semantics, so "^" and "$" anchor per line. Replacements
follow JavaScript's String.prototype.replace: "$1" and "$<name>" insert groups,
"$&" the match, "$`" and "$'" the text around it, "$$" a dollar sign. Any other
"$" is literal. A literal \n in the replacement becomes a newline.

🔄 Flow:
 1. Split the document on newlines and trim every line
 2. Classify the line (blank, comment, section, malformed, invalid pattern, rule)
 3. Compile usable patterns into Rule values in document order

Lines that are not rules never abort the parse. The Policy decides whether they
are dropped silently (Lenient) or reported back as an error (Strict).
*/
package rules
