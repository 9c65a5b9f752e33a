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
Package operation runs transforms over batches of documents in a vault.

	+-----------+     +-----------+     +-----------+
	|  Runner   | --> | Operation | --> | pipeline  |
	| (jobs: N) |     | per doc   |     | Run/Trans |
	+-----------+     +-----------+     +-----------+

🎯 Purpose:
- Bounds how many documents are transformed at once
- Keeps outcomes in the order the documents were given
- Offers an in-place operation and a preview operation that only diffs

🔄 Flow:
1. The caller builds one Operation per document
2. Runner executes them with at most N in flight
3. Each Outcome carries the pipeline Result, a diff for previews, or an error

Every document is its own pipeline invocation. Nothing is shared between
operations except the read-only settings snapshot.
*/
package operation
