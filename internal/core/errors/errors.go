package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type ErrorCode string

const (
	CodeNotFound                 ErrorCode = "NOT_FOUND"
	CodeValidationError          ErrorCode = "VALIDATION_ERROR"
	CodeInternal                 ErrorCode = "INTERNAL_ERROR"
	CodeParsingFailed            ErrorCode = "PARSING_FAILED"
	CodeUnsupportedExtension     ErrorCode = "UNSUPPORTED_EXTENSION"
	CodeNamingCollision          ErrorCode = "NAMING_COLLISION"
	CodePlaceholderArityMismatch ErrorCode = "PLACEHOLDER_ARITY_MISMATCH"
	CodeUnreadableFile           ErrorCode = "UNREADABLE_FILE"
)

type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

const (
	CtxPath       = "path"
	CtxOperation  = "operation"
	CtxExtension  = "extension"
	CtxSupported  = "supported"
	CtxIdentifier = "identifier"
	CtxKey        = "key"
)

func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		msg += " {" + strings.Join(parts, ", ") + "}"
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

func Newf(code ErrorCode, format string, args ...interface{}) error {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: err}
}

// UnsupportedExtension reports a parser receiving a file it does not understand.
func UnsupportedExtension(path, ext string, supported []string) error {
	de := &DomainError{
		Code:    CodeUnsupportedExtension,
		Message: fmt.Sprintf("file extension %q is not one of the supported extensions: %s", ext, strings.Join(supported, ", ")),
	}
	de.WithContext(CtxPath, path)
	de.WithContext(CtxExtension, ext)
	de.WithContext(CtxSupported, append([]string(nil), supported...))
	return de
}

// ParsingFailed wraps a format error for a resource file.
func ParsingFailed(path string, err error) error {
	de := &DomainError{Code: CodeParsingFailed, Message: "unable to parse resource", Err: err}
	return de.WithContext(CtxPath, path)
}

// AddContext attaches key/value context, wrapping foreign errors as internal ones.
func AddContext(err error, key string, value interface{}) error {
	var de *DomainError
	if errors.As(err, &de) {
		de.WithContext(key, value)
		return err
	}
	return &DomainError{
		Code:    CodeInternal,
		Message: "wrapped error",
		Err:     err,
		Context: map[string]interface{}{key: value},
	}
}

func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost DomainError, or CodeInternal.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsFatal reports whether an error code must abort a generation run.
func IsFatal(code ErrorCode) bool {
	return code != CodeUnreadableFile
}
