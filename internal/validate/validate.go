// Package validate implements field-format validation for user accounts.
//
// Each field has an explicit, ordered list of predicate+message rules that are
// evaluated imperatively. Validation never short-circuits across fields: every
// field is checked and all violations are collected into one field → message
// map, so a caller submitting three bad fields learns about all three at once.
// Within a single field, the first violated rule wins — "extension is empty"
// and "extension must be numeric" would only be noise together.
//
// Phase-2 business rules (uniqueness, existence) need the repository and live
// in the service layer. The reserved-extension check sits here because it is a
// pure data property, but the service re-checks it independently of the
// format pass.
package validate

import (
	"regexp"
	"strings"
)

// Field length bounds, mirrored by the rule messages below.
const (
	MinNameLength      = 2
	MaxNameLength      = 100
	MinExtensionLength = 4
	MaxExtensionLength = 6
	MinUsernameLength  = 3
	MaxUsernameLength  = 50
	MinPasswordLength  = 6
	MaxPasswordLength  = 100
)

var (
	namePattern      = regexp.MustCompile(`^[A-Za-z\s\-']+$`)
	extensionPattern = regexp.MustCompile(`^[0-9]+$`)
	usernamePattern  = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// reservedExtensions are permanently excluded from assignment, regardless of
// availability.
var reservedExtensions = map[string]struct{}{
	"0000": {},
	"9999": {},
}

// rule is one predicate+message pair. ok returns true when the value passes.
type rule struct {
	ok      func(string) bool
	message string
}

var nameRules = []rule{
	{func(v string) bool { return strings.TrimSpace(v) != "" }, "name cannot be empty"},
	{func(v string) bool { return len(strings.TrimSpace(v)) >= MinNameLength && len(strings.TrimSpace(v)) <= MaxNameLength },
		"name must be between 2 and 100 characters"},
	{func(v string) bool { return namePattern.MatchString(v) },
		"name can only contain letters, spaces, hyphens, and apostrophes"},
}

var extensionRules = []rule{
	{func(v string) bool { return v != "" }, "extension cannot be empty"},
	{func(v string) bool { return extensionPattern.MatchString(v) }, "extension can only contain numbers"},
	{func(v string) bool { return len(v) >= MinExtensionLength && len(v) <= MaxExtensionLength },
		"extension must be between 4 and 6 characters"},
}

var usernameRules = []rule{
	{func(v string) bool { return v != "" }, "username cannot be empty"},
	{func(v string) bool { return len(v) >= MinUsernameLength && len(v) <= MaxUsernameLength },
		"username must be between 3 and 50 characters"},
	{func(v string) bool { return usernamePattern.MatchString(v) },
		"username can only contain letters, numbers, and underscores"},
}

var passwordRules = []rule{
	{func(v string) bool { return v != "" }, "password cannot be empty"},
	{func(v string) bool { return len(v) >= MinPasswordLength && len(v) <= MaxPasswordLength },
		"password must be between 6 and 100 characters"},
}

// check runs the rules in order and returns the first failure message,
// or "" when all rules pass.
func check(value string, rules []rule) string {
	for _, r := range rules {
		if !r.ok(value) {
			return r.message
		}
	}
	return ""
}

// collect adds the field's first violation (if any) to the violations map.
func collect(violations map[string]string, field, value string, rules []rule) {
	if msg := check(value, rules); msg != "" {
		violations[field] = msg
	}
}

// Create validates all fields required to create an account.
// Returns a field → message map; empty means valid.
func Create(username, password, name, extension string) map[string]string {
	violations := make(map[string]string)
	collect(violations, "username", username, usernameRules)
	collect(violations, "password", password, passwordRules)
	collect(violations, "name", name, nameRules)
	collect(violations, "extension", extension, extensionRules)
	return violations
}

// Update validates the fields that may change on update: name and extension.
// Returns a field → message map; empty means valid.
func Update(name, extension string) map[string]string {
	violations := make(map[string]string)
	collect(violations, "name", name, nameRules)
	collect(violations, "extension", extension, extensionRules)
	return violations
}

// IsReserved reports whether the extension is permanently unassignable.
func IsReserved(extension string) bool {
	_, ok := reservedExtensions[extension]
	return ok
}
