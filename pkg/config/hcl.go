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
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

// 🔧 HCLCodec implements the Codec interface for HCL files. Settings are
// flat top-level attributes:
//
//	replaceRulesPath  = "rules/replaceRules.md"
//	enableSmartQuotes = true
type HCLCodec struct{}

func init() {
	Register(&HCLCodec{})
}

func (c *HCLCodec) Name() string { return "hcl" }

func (c *HCLCodec) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

func (c *HCLCodec) Unmarshal(data []byte) (map[string]interface{}, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, "settings.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, errors.Errorf("reading HCL attributes: %s", diags.Error())
	}

	m := make(map[string]interface{}, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, errors.Errorf("evaluating %s: %s", name, diags.Error())
		}
		if val.IsNull() || !val.IsKnown() {
			continue
		}
		switch val.Type() {
		case cty.String:
			m[name] = val.AsString()
		case cty.Bool:
			m[name] = val.True()
		case cty.Number:
			f, _ := val.AsBigFloat().Float64()
			m[name] = f
		default:
			return nil, errors.Errorf("unsupported type %s for %s", val.Type().FriendlyName(), name)
		}
	}
	return m, nil
}

func (c *HCLCodec) Marshal(m map[string]interface{}) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			body.SetAttributeValue(k, cty.StringVal(v))
		case bool:
			body.SetAttributeValue(k, cty.BoolVal(v))
		case int:
			body.SetAttributeValue(k, cty.NumberIntVal(int64(v)))
		case int64:
			body.SetAttributeValue(k, cty.NumberIntVal(v))
		case float64:
			body.SetAttributeValue(k, cty.NumberFloatVal(v))
		default:
			body.SetAttributeValue(k, cty.StringVal(fmt.Sprint(v)))
		}
	}
	return f.Bytes(), nil
}
