package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedLanguage means no analyzer is registered for a file.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrRuleSkipped lets a rule opt out silently (e.g. network disabled).
	ErrRuleSkipped = errors.New("rule skipped")
	// ErrRuleTimeout marks a rule that ran out of time; it is skipped with a warning.
	ErrRuleTimeout = errors.New("rule timed out")
	// ErrInvalidInput wraps bad paths or files handed to an entry point.
	ErrInvalidInput = errors.New("invalid input")
)

// SyntaxError reports malformed markup. It is fatal for the document.
type SyntaxError struct {
	Line   int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d: %s", e.Line, e.Reason)
}

// UnsupportedLanguageError carries the offending path.
type UnsupportedLanguageError struct {
	Path string
	Ext  string
}

func (e *UnsupportedLanguageError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("%s: %s", e.Path, ErrUnsupportedLanguage)
	}
	return fmt.Sprintf("%s: %s %q", e.Path, ErrUnsupportedLanguage, e.Ext)
}

func (e *UnsupportedLanguageError) Unwrap() error { return ErrUnsupportedLanguage }

// ParseFailure is an analyzer error for one file. The file is excluded and
// the failure is recorded as a report warning.
type ParseFailure struct {
	Path     string
	Language Language
	Err      error
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("parsing %s (%s): %v", e.Path, e.Language, e.Err)
}

func (e *ParseFailure) Unwrap() error { return e.Err }
