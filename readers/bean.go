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
	"strings"
	"sync/atomic"
	"unsafe"

	"dirpx.dev/jrx/apis"
	"dirpx.dev/jrx/container"
)

// Ensure BeanReader implements apis.ValueReader.
var _ apis.ValueReader = (*BeanReader)(nil)

// BeanReader decodes a JSON object into a record type.
//
// A BeanReader is built in two steps: NewBeanReader selects the usable
// properties, then every property gets its reader through SetReader before
// Complete is called. Splitting the steps lets a property refer back to the
// reader being built. After Complete the reader is immutable.
type BeanReader struct {
	t        reflect.Type
	def      *apis.RecordDefinition
	props    []*Property
	exact    map[string]*Property
	folded   map[string]*Property
	complete atomic.Bool
}

// Property is one usable record property.
type Property struct {
	Def    apis.PropertyDefinition
	reader apis.ValueReader
	// unsafe is set when the field must be written through unsafe.Pointer.
	unsafe bool
}

// Name returns the JSON name.
func (p *Property) Name() string { return p.Def.Name }

// Type returns the property value type.
func (p *Property) Type() reflect.Type { return p.Def.Type }

// NewBeanReader returns an incomplete reader for def, keeping only the
// properties usable under fs: a setter always is; a field is when it is
// exported and UseFields is on, or when ForceReflectionAccess is on.
func NewBeanReader(def *apis.RecordDefinition, fs apis.Features) *BeanReader {
	r := &BeanReader{
		t:      def.Type,
		def:    def,
		exact:  make(map[string]*Property, len(def.Properties)),
		folded: make(map[string]*Property, len(def.Properties)),
	}
	for _, pd := range def.Properties {
		p := &Property{Def: pd}
		switch {
		case pd.Setter != nil:
		case pd.Field == nil:
			continue
		case pd.FieldExported() && fs.Enabled(apis.UseFields):
		case fs.Enabled(apis.ForceReflectionAccess):
			p.unsafe = !pd.FieldExported()
		default:
			continue
		}
		if _, dup := r.exact[pd.Name]; dup {
			continue
		}
		r.props = append(r.props, p)
		r.exact[pd.Name] = p
		if _, dup := r.folded[strings.ToLower(pd.Name)]; !dup {
			r.folded[strings.ToLower(pd.Name)] = p
		}
	}
	return r
}

// Properties returns the usable properties in definition order.
func (r *BeanReader) Properties() []*Property { return r.props }

// SetReader wires the reader of p. It must only be called before Complete.
func (r *BeanReader) SetReader(p *Property, vr apis.ValueReader) {
	p.reader = vr
}

// Complete marks the reader ready for use.
func (r *BeanReader) Complete() { r.complete.Store(true) }

// Completed reports whether Complete was called.
func (r *BeanReader) Completed() bool { return r.complete.Load() }

func (r *BeanReader) ValueType() reflect.Type { return r.t }

func (r *BeanReader) ReadNext(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	return next(r, rc, src)
}

// Lookup finds a property by exact name, then case-insensitively.
func (r *BeanReader) Lookup(name string) (*Property, bool) {
	if p, ok := r.exact[name]; ok {
		return p, true
	}
	p, ok := r.folded[strings.ToLower(name)]
	return p, ok
}

func (r *BeanReader) Read(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	if !r.complete.Load() {
		return nil, apis.NewConfigurationError(r.t, ErrIncomplete, "incomplete reader")
	}
	switch src.CurrentToken() {
	case apis.TokenNull:
		return nil, nil
	case apis.TokenStartObject, apis.TokenFieldName:
		return r.readObject(rc, src)
	case apis.TokenString:
		if r.def.FromString != nil {
			p, err := r.def.FromString(src.Text())
			if err != nil {
				return nil, apis.NewCoercionError(src, r.t, err, "string constructor failed")
			}
			return p.Elem().Interface(), nil
		}
	case apis.TokenNumberInt:
		if r.def.FromInt != nil {
			n, err := src.Int64()
			if err != nil {
				return nil, apis.NewCoercionError(src, r.t, err, "out of range")
			}
			p, err := r.def.FromInt(n)
			if err != nil {
				return nil, apis.NewCoercionError(src, r.t, err, "integer constructor failed")
			}
			return p.Elem().Interface(), nil
		}
	case apis.TokenEmbedded:
		if v, ok := embedded(src, r.t); ok {
			return v, nil
		}
	}
	return nil, apis.NewCoercionError(src, r.t, nil, "cannot build %v from %s", r.t, src.CurrentToken())
}

func (r *BeanReader) readObject(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	if r.def.New == nil {
		return nil, apis.NewCoercionError(src, r.t, nil, "%v has no default constructor", r.t)
	}
	ptr := r.def.New()
	err := container.Walk(src, func(name string) error {
		p, ok := r.Lookup(name)
		if !ok {
			if _, err := src.NextToken(); err != nil {
				return err
			}
			return src.SkipChildren()
		}
		v, err := p.reader.ReadNext(rc, src)
		if err != nil {
			return err
		}
		return r.set(src, ptr, p, v)
	})
	if err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}

// set stores v into the property of the record ptr points to, through the
// setter when there is one.
func (r *BeanReader) set(src apis.TokenSource, ptr reflect.Value, p *Property, v any) error {
	arg, err := assign(src, v, p.Def.Type)
	if err != nil {
		return err
	}
	if m := p.Def.Setter; m != nil {
		out := m.Func.Call([]reflect.Value{ptr, arg})
		if len(out) == 1 && !out[0].IsNil() {
			return apis.NewCoercionError(src, r.t, out[0].Interface().(error), "%s rejected the value", m.Name)
		}
		return nil
	}
	fv := ptr.Elem().FieldByIndex(p.Def.Field.Index)
	if p.unsafe || !fv.CanSet() {
		fv = reflect.NewAt(fv.Type(), unsafe.Pointer(fv.UnsafeAddr())).Elem()
	}
	fv.Set(arg)
	return nil
}
