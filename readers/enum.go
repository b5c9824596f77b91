/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package readers

import (
	"reflect"

	"dirpx.dev/jrx/apis"
)

// Ensure EnumReader implements apis.ValueReader.
var _ apis.ValueReader = (*EnumReader)(nil)

// EnumReader maps a JSON string label to one declared constant.
type EnumReader struct {
	t      reflect.Type
	values map[string]any
}

// NewEnumReader builds the label table of def.
func NewEnumReader(def *apis.EnumDefinition) *EnumReader {
	values := make(map[string]any, len(def.Constants))
	for _, c := range def.Constants {
		if _, dup := values[c.Name]; !dup {
			values[c.Name] = c.Value.Interface()
		}
	}
	return &EnumReader{t: def.Type, values: values}
}

func (r *EnumReader) ValueType() reflect.Type { return r.t }

func (r *EnumReader) ReadNext(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	return next(r, rc, src)
}

func (r *EnumReader) Read(_ *apis.ReadContext, src apis.TokenSource) (any, error) {
	switch src.CurrentToken() {
	case apis.TokenNull:
		return nil, nil
	case apis.TokenString:
		if v, ok := r.values[src.Text()]; ok {
			return v, nil
		}
		return nil, apis.NewCoercionError(src, r.t, nil, "unknown constant %q of %v", src.Text(), r.t)
	case apis.TokenEmbedded:
		if v, ok := embedded(src, r.t); ok {
			return v, nil
		}
	}
	return nil, apis.NewCoercionError(src, r.t, nil, "expected a constant label of %v, got %s", r.t, src.CurrentToken())
}
