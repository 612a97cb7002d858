package sshconf

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNotFound: the account is absent from the representation being
	// operated on.
	ErrNotFound = errors.New("account not found")

	// ErrConflict: alias or key path collision detected before mutation.
	ErrConflict = errors.New("account already exists")

	// ErrSplitFileExists: a split file for the alias is already on disk.
	// Split writes never silently overwrite.
	ErrSplitFileExists = errors.New("split file already exists")

	// ErrUnmanaged: the block exists but carries no ownership comment, so
	// comment-based edits (set-email) cannot apply. Callers report this
	// differently from ErrNotFound.
	ErrUnmanaged = errors.New("account is not managed by ghkeys")
)

// ValidationError rejects malformed input before any file is touched.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateName checks an account name. Names end up in file names and in the
// ownership-comment grammar, which both need a narrow charset.
func ValidateName(name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Value: name, Reason: "must not be empty"}
	}
	if len(name) > 64 {
		return &ValidationError{Field: "name", Value: name, Reason: "longer than 64 characters"}
	}
	if !nameRe.MatchString(name) {
		return &ValidationError{Field: "name", Value: name, Reason: "use lowercase letters, digits, '-' and '_'"}
	}
	return nil
}

// ValidateEmail checks an email address. It is embedded verbatim in a single
// comment line, so whitespace would corrupt the block grammar.
func ValidateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Value: email, Reason: "must not be empty"}
	}
	if strings.ContainsAny(email, " \t\n") {
		return &ValidationError{Field: "email", Value: email, Reason: "must not contain whitespace"}
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return &ValidationError{Field: "email", Value: email, Reason: "must look like user@host"}
	}
	return nil
}
