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
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔧 YAMLCodec implements the Codec interface for YAML files
type YAMLCodec struct {
	parser *kyaml.YAML
}

func init() {
	Register(&YAMLCodec{parser: kyaml.Parser()})
}

func (c *YAMLCodec) Name() string { return "yaml" }

func (c *YAMLCodec) CanParse(filename string) bool {
	return hasExt(filename, ".yaml", ".yml")
}

func (c *YAMLCodec) Unmarshal(data []byte) (map[string]interface{}, error) {
	m, err := c.parser.Unmarshal(data)
	if err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return m, nil
}

func (c *YAMLCodec) Marshal(m map[string]interface{}) ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, errors.Errorf("encoding YAML: %w", err)
	}
	return data, nil
}
