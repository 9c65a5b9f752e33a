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

package config

import (
	"github.com/pelletier/go-toml/v2"
	"gitlab.com/tozd/go/errors"
)

// 🔧 TOMLCodec implements the Codec interface for TOML files
type TOMLCodec struct{}

func init() {
	Register(&TOMLCodec{})
}

func (c *TOMLCodec) Name() string { return "toml" }

func (c *TOMLCodec) CanParse(filename string) bool {
	return hasExt(filename, ".toml")
}

func (c *TOMLCodec) Unmarshal(data []byte) (map[string]interface{}, error) {
	m := map[string]interface{}{}
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Errorf("parsing TOML: %w", err)
	}
	return m, nil
}

func (c *TOMLCodec) Marshal(m map[string]interface{}) ([]byte, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, errors.Errorf("encoding TOML: %w", err)
	}
	return data, nil
}
