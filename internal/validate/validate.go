// Package validate holds the field validation rules for inbound DTOs.
// Rules are plain functions that collect violation messages in declaration
// order; an empty result means the input is acceptable.
package validate

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

// Error aggregates rule violations, ordered the way the rules are declared.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "; ")
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Credentials checks the username/password pair used by registration and
// login. The same rules apply to both so a login request for an account
// that could never have been registered fails fast.
func Credentials(username, password string) error {
	var msgs []string

	switch {
	case username == "":
		msgs = append(msgs, "username is required")
	case len(username) < 3:
		msgs = append(msgs, "username must be at least 3 characters")
	case len(username) > 50:
		msgs = append(msgs, "username must be at most 50 characters")
	case !usernamePattern.MatchString(username):
		msgs = append(msgs, "username may only contain letters, digits and underscores")
	}

	if password == "" {
		msgs = append(msgs, "password is required")
	} else {
		if len([]rune(password)) < 6 {
			msgs = append(msgs, "password must be at least 6 characters")
		}
		if !containsFunc(password, unicode.IsUpper) {
			msgs = append(msgs, "password must contain an uppercase letter")
		}
		if !containsFunc(password, unicode.IsLower) {
			msgs = append(msgs, "password must contain a lowercase letter")
		}
		if !containsFunc(password, unicode.IsDigit) {
			msgs = append(msgs, "password must contain a digit")
		}
	}

	if len(msgs) > 0 {
		return &Error{Messages: msgs}
	}
	return nil
}

// Profile checks the name/email pair carried by directory create and
// update requests.
func Profile(name, email string) error {
	var msgs []string

	switch {
	case strings.TrimSpace(name) == "":
		msgs = append(msgs, "name is required")
	case len([]rune(name)) < 2:
		msgs = append(msgs, "name must be at least 2 characters")
	case len([]rune(name)) > 100:
		msgs = append(msgs, "name must be at most 100 characters")
	case !lettersAndSpaces(name):
		msgs = append(msgs, "name may only contain letters and spaces")
	}

	switch {
	case email == "":
		msgs = append(msgs, "email is required")
	case len(email) > 100:
		msgs = append(msgs, "email must be at most 100 characters")
	default:
		if _, err := mail.ParseAddress(email); err != nil {
			msgs = append(msgs, "email format is invalid")
		}
	}

	if len(msgs) > 0 {
		return &Error{Messages: msgs}
	}
	return nil
}

func containsFunc(s string, fn func(rune) bool) bool {
	for _, r := range s {
		if fn(r) {
			return true
		}
	}
	return false
}

func lettersAndSpaces(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
