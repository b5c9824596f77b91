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

package tokens

import (
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"

	"dirpx.dev/jrx/apis"
)

// Buffer records a token sequence for later replay.
//
// Unlike Stream it can carry TokenEmbedded values, which lets callers feed
// already materialized Go values through the readers. Writes are not
// validated; a Buffer replays exactly what it was given.
type Buffer struct {
	entries []entry
}

type entry struct {
	lit   literal
	value any
}

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Len returns the number of recorded tokens.
func (b *Buffer) Len() int { return len(b.entries) }

func (b *Buffer) add(tok apis.Token, text string) *Buffer {
	b.entries = append(b.entries, entry{lit: literal{tok: tok, text: text}})
	return b
}

func (b *Buffer) WriteStartObject() *Buffer          { return b.add(apis.TokenStartObject, "{") }
func (b *Buffer) WriteEndObject() *Buffer            { return b.add(apis.TokenEndObject, "}") }
func (b *Buffer) WriteStartArray() *Buffer           { return b.add(apis.TokenStartArray, "[") }
func (b *Buffer) WriteEndArray() *Buffer             { return b.add(apis.TokenEndArray, "]") }
func (b *Buffer) WriteFieldName(name string) *Buffer { return b.add(apis.TokenFieldName, name) }
func (b *Buffer) WriteString(s string) *Buffer       { return b.add(apis.TokenString, s) }
func (b *Buffer) WriteNull() *Buffer                 { return b.add(apis.TokenNull, "null") }

func (b *Buffer) WriteBool(v bool) *Buffer {
	if v {
		return b.add(apis.TokenTrue, "true")
	}
	return b.add(apis.TokenFalse, "false")
}

func (b *Buffer) WriteInt(n int64) *Buffer {
	return b.add(apis.TokenNumberInt, strconv.FormatInt(n, 10))
}

func (b *Buffer) WriteBigInt(n *big.Int) *Buffer {
	return b.add(apis.TokenNumberInt, n.String())
}

// WriteNumber records a raw numeric literal, classified like textual input.
func (b *Buffer) WriteNumber(text string) *Buffer {
	if isFloatText(text) {
		return b.add(apis.TokenNumberFloat, text)
	}
	return b.add(apis.TokenNumberInt, text)
}

// WriteFloat32 records a float that classifies as a 32-bit float.
func (b *Buffer) WriteFloat32(f float32) *Buffer {
	b.entries = append(b.entries, entry{lit: literal{
		tok:  apis.TokenNumberFloat,
		text: strconv.FormatFloat(float64(f), 'g', -1, 32),
		nt:   apis.NumberFloat,
	}})
	return b
}

func (b *Buffer) WriteFloat64(f float64) *Buffer {
	b.entries = append(b.entries, entry{lit: literal{
		tok:  apis.TokenNumberFloat,
		text: strconv.FormatFloat(f, 'g', -1, 64),
		nt:   apis.NumberDouble,
	}})
	return b
}

func (b *Buffer) WriteDecimal(d decimal.Decimal) *Buffer {
	b.entries = append(b.entries, entry{lit: literal{
		tok:  apis.TokenNumberFloat,
		text: d.String(),
		nt:   apis.NumberBigDecimal,
	}})
	return b
}

// WriteEmbedded records an opaque value.
func (b *Buffer) WriteEmbedded(v any) *Buffer {
	b.entries = append(b.entries, entry{lit: literal{tok: apis.TokenEmbedded}, value: v})
	return b
}

// Copy records the value src is positioned on, including nested containers.
// src is left on the value's last token.
func (b *Buffer) Copy(src apis.TokenSource) error {
	depth := 0
	for {
		tok := src.CurrentToken()
		switch tok {
		case apis.TokenNone:
			return apis.NewStructuralError(src, "nothing to copy")
		case apis.TokenStartObject, apis.TokenStartArray:
			depth++
		case apis.TokenEndObject, apis.TokenEndArray:
			depth--
		}
		e := entry{lit: literal{tok: tok, text: src.Text()}}
		if tok == apis.TokenEmbedded {
			e.value = src.Embedded()
		}
		b.entries = append(b.entries, e)
		if depth <= 0 && tok != apis.TokenFieldName {
			return nil
		}
		if _, err := src.NextToken(); err != nil {
			return err
		}
	}
}

// Source returns a fresh replaying apis.TokenSource positioned before the
// first recorded token. A Buffer may be replayed any number of times.
func (b *Buffer) Source() apis.TokenSource {
	return &replay{entries: b.entries, idx: -1}
}

type replay struct {
	entries []entry
	idx     int
	depth   int
}

var _ apis.TokenSource = (*replay)(nil)

func (r *replay) current() entry {
	if r.idx < 0 || r.idx >= len(r.entries) {
		return entry{}
	}
	return r.entries[r.idx]
}

func (r *replay) NextToken() (apis.Token, error) {
	if r.idx < len(r.entries) {
		r.idx++
	}
	tok := r.current().lit.tok
	switch tok {
	case apis.TokenStartObject, apis.TokenStartArray:
		r.depth++
	case apis.TokenEndObject, apis.TokenEndArray:
		r.depth--
	case apis.TokenNone:
		if r.depth > 0 {
			return tok, apis.NewStructuralError(r, "unexpected end of recorded input")
		}
	}
	return tok, nil
}

func (r *replay) CurrentToken() apis.Token { return r.current().lit.tok }

func (r *replay) NextFieldName() (string, bool, error) {
	tok, err := r.NextToken()
	if err != nil || tok != apis.TokenFieldName {
		return "", false, err
	}
	return r.current().lit.text, true, nil
}

func (r *replay) SkipChildren() error { return skipChildren(r) }

func (r *replay) Text() string { return r.current().lit.text }

func (r *replay) NumberType() (apis.NumberType, error) { return r.current().lit.numberType() }
func (r *replay) Int32() (int32, error)                { return r.current().lit.int32() }
func (r *replay) Int64() (int64, error)                { return r.current().lit.int64() }
func (r *replay) BigInt() (*big.Int, error)            { return r.current().lit.bigInt() }
func (r *replay) Float32() (float32, error)            { return r.current().lit.float32() }
func (r *replay) Float64() (float64, error)            { return r.current().lit.float64() }
func (r *replay) Decimal() (decimal.Decimal, error)    { return r.current().lit.decimal() }
func (r *replay) Embedded() any                        { return r.current().value }

// Location reports the token index as the offset.
func (r *replay) Location() apis.Location {
	return apis.Location{Offset: int64(r.idx), Depth: r.depth}
}
