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

// Package pipeline runs the Smart Replace transform over one document:
// smart quotes, then the rules document's replacements, then blank-line
// removal. Each stage is gated by a config.Settings snapshot taken when the
// transform starts.
//
// A rules step that cannot run (no path, missing document, unreadable
// document) is skipped and reported through a Notifier. The other stages still
// run and only the final text is written back.
package pipeline
