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
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math/big"

	"github.com/shopspring/decimal"

	"dirpx.dev/jrx/apis"
)

// Ensure Stream implements apis.TokenSource.
var _ apis.TokenSource = (*Stream)(nil)

// Stream adapts encoding/json's streaming tokenizer to apis.TokenSource.
//
// encoding/json reports object keys and string values alike as strings, so
// Stream tracks the open containers to tell field names apart. Numbers are
// kept as their literal text (Decoder.UseNumber) and classified on demand.
type Stream struct {
	dec   *json.Decoder
	cur   literal
	stack []frame
	// off is the input offset of the current token's end.
	off int64
}

type frame struct {
	object    bool
	expectKey bool
}

// NewStream returns a Stream reading from r.
func NewStream(r io.Reader) *Stream {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &Stream{dec: dec}
}

// NewStreamBytes returns a Stream over an in-memory document.
func NewStreamBytes(b []byte) *Stream {
	return NewStream(bytes.NewReader(b))
}

// NextToken advances to the next token.
func (s *Stream) NextToken() (apis.Token, error) {
	raw, err := s.dec.Token()
	if err != nil {
		return s.fail(err)
	}
	s.off = s.dec.InputOffset()

	switch v := raw.(type) {
	case json.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{object: true, expectKey: true})
			s.set(apis.TokenStartObject, "{")
		case '[':
			s.stack = append(s.stack, frame{})
			s.set(apis.TokenStartArray, "[")
		case '}':
			s.pop()
			s.set(apis.TokenEndObject, "}")
		case ']':
			s.pop()
			s.set(apis.TokenEndArray, "]")
		}
	case string:
		if top := s.top(); top != nil && top.object && top.expectKey {
			top.expectKey = false
			s.set(apis.TokenFieldName, v)
			break
		}
		s.set(apis.TokenString, v)
		s.valueDone()
	case json.Number:
		if isFloatText(string(v)) {
			s.set(apis.TokenNumberFloat, string(v))
		} else {
			s.set(apis.TokenNumberInt, string(v))
		}
		s.valueDone()
	case bool:
		if v {
			s.set(apis.TokenTrue, "true")
		} else {
			s.set(apis.TokenFalse, "false")
		}
		s.valueDone()
	case nil:
		s.set(apis.TokenNull, "null")
		s.valueDone()
	}
	return s.cur.tok, nil
}

// fail maps decoder errors into the jrx taxonomy. A clean end of input
// outside any container is not an error.
func (s *Stream) fail(err error) (apis.Token, error) {
	if errors.Is(err, io.EOF) && len(s.stack) == 0 {
		s.set(apis.TokenNone, "")
		return apis.TokenNone, nil
	}
	tok := s.cur.tok
	s.set(apis.TokenNone, "")
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	off := s.dec.InputOffset()
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		off = syn.Offset
	}
	return apis.TokenNone, &apis.StructuralError{
		Token:    tok,
		Location: apis.Location{Offset: off, Depth: len(s.stack)},
		Message:  "malformed input",
		Err:      err,
	}
}

func (s *Stream) set(tok apis.Token, text string) {
	s.cur = literal{tok: tok, text: text}
}

func (s *Stream) top() *frame {
	if len(s.stack) == 0 {
		return nil
	}
	return &s.stack[len(s.stack)-1]
}

func (s *Stream) pop() {
	if len(s.stack) > 0 {
		s.stack = s.stack[:len(s.stack)-1]
	}
	s.valueDone()
}

// valueDone marks a complete value inside the enclosing object.
func (s *Stream) valueDone() {
	if top := s.top(); top != nil && top.object {
		top.expectKey = true
	}
}

// CurrentToken returns the token the stream is positioned on.
func (s *Stream) CurrentToken() apis.Token { return s.cur.tok }

// NextFieldName advances and reports the field name, if any.
func (s *Stream) NextFieldName() (string, bool, error) {
	tok, err := s.NextToken()
	if err != nil {
		return "", false, err
	}
	if tok != apis.TokenFieldName {
		return "", false, nil
	}
	return s.cur.text, true, nil
}

// SkipChildren skips a whole container when positioned on its start marker.
func (s *Stream) SkipChildren() error {
	return skipChildren(s)
}

func (s *Stream) Text() string { return s.cur.text }

func (s *Stream) NumberType() (apis.NumberType, error) { return s.cur.numberType() }
func (s *Stream) Int32() (int32, error)                { return s.cur.int32() }
func (s *Stream) Int64() (int64, error)                { return s.cur.int64() }
func (s *Stream) BigInt() (*big.Int, error)            { return s.cur.bigInt() }
func (s *Stream) Float32() (float32, error)            { return s.cur.float32() }
func (s *Stream) Float64() (float64, error)            { return s.cur.float64() }
func (s *Stream) Decimal() (decimal.Decimal, error)    { return s.cur.decimal() }

// Embedded always returns nil: textual input carries no embedded values.
func (s *Stream) Embedded() any { return nil }

// Location returns the input offset after the current token.
func (s *Stream) Location() apis.Location {
	return apis.Location{Offset: s.off, Depth: len(s.stack)}
}

func skipChildren(src apis.TokenSource) error {
	switch src.CurrentToken() {
	case apis.TokenStartObject, apis.TokenStartArray:
	default:
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := src.NextToken()
		if err != nil {
			return err
		}
		switch tok {
		case apis.TokenStartObject, apis.TokenStartArray:
			depth++
		case apis.TokenEndObject, apis.TokenEndArray:
			depth--
		case apis.TokenNone:
			return apis.NewStructuralError(src, "unexpected end of input while skipping")
		}
	}
	return nil
}
