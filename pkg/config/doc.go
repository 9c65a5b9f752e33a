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
Package config stores and loads the user's Smart Replace settings.

	+-----------+     +-----------+     +---------+     +---------+
	| defaults  | --> | settings  | --> |   env   | --> |  flags  |
	| (confmap) |     |   file    |     | SMART.. |     | changed |
	+-----------+     +-----------+     +---------+     +---------+
	                        |
	               yaml / json / toml / hcl

🎯 Purpose:
- Owns the Settings record (rules path, smart quotes, blank lines, rule timeout)
- Persists it in one file whose format follows the extension
- Layers per-invocation overrides on load

🔄 Flow:
1. Start from Defaults
2. Overlay the settings file when present
3. Overlay SMARTREPLACE_* environment variables
4. Overlay flags the user actually set

A settings file that cannot be parsed is reported to the caller together
with Defaults, so a run can continue with default behavior.
*/
package config
