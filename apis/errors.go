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

package apis

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrStructural matches every *StructuralError.
	ErrStructural = errors.New("jrx: structural decode error")
	// ErrCoercion matches every *CoercionError.
	ErrCoercion = errors.New("jrx: scalar coercion error")
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("jrx: configuration error")
)

// StructuralError reports a token stream that violates the expected shape:
// an unexpected token kind or a missing terminator.
type StructuralError struct {
	Token    Token
	Location Location
	Message  string
	Err      error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("jrx: %s (token %s at %s)", e.Message, e.Token, e.Location)
}

// Unwrap returns the underlying error, if any.
func (e *StructuralError) Unwrap() error { return e.Err }

// Is matches ErrStructural.
func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

// CoercionError reports a literal that cannot be represented in the
// requested target type.
type CoercionError struct {
	Type     reflect.Type
	Value    string
	Location Location
	Message  string
	Err      error
}

func (e *CoercionError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("jrx: cannot decode %q as %v: %s (at %s)", e.Value, e.Type, e.Message, e.Location)
	}
	return fmt.Sprintf("jrx: cannot decode %v: %s (at %s)", e.Type, e.Message, e.Location)
}

// Unwrap returns the underlying error, if any.
func (e *CoercionError) Unwrap() error { return e.Err }

// Is matches ErrCoercion.
func (e *CoercionError) Is(target error) bool {
	return target == ErrCoercion
}

// ConfigurationError reports a type that cannot produce a reader at all.
type ConfigurationError struct {
	Type    reflect.Type
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("jrx: cannot build reader for %v: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// Is matches ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewStructuralError builds a StructuralError positioned at src's current token.
func NewStructuralError(src TokenSource, format string, args ...any) *StructuralError {
	return &StructuralError{
		Token:    src.CurrentToken(),
		Location: src.Location(),
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewCoercionError builds a CoercionError for the current token of src.
func NewCoercionError(src TokenSource, t reflect.Type, err error, format string, args ...any) *CoercionError {
	return &CoercionError{
		Type:     t,
		Value:    src.Text(),
		Location: src.Location(),
		Message:  fmt.Sprintf(format, args...),
		Err:      err,
	}
}

// NewConfigurationError builds a ConfigurationError for t.
func NewConfigurationError(t reflect.Type, err error, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Type:    t,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// UnexpectedToken is the common "got X, wanted one of ..." structural error.
func UnexpectedToken(src TokenSource, what string) *StructuralError {
	return NewStructuralError(src, "unexpected token %s (%s)", src.CurrentToken(), what)
}
