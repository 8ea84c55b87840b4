package validate

import (
	"strings"
	"testing"
)

// =========================================================================
// CREATE VALIDATION TESTS
// =========================================================================

func TestCreate_Valid(t *testing.T) {
	violations := Create("johndoe", "securepass123", "John Doe", "1002")
	if len(violations) != 0 {
		t.Errorf("Create() valid input produced violations: %v", violations)
	}
}

func TestCreate_AllViolationsCollected(t *testing.T) {
	// Every field invalid at once — validation must not short-circuit.
	violations := Create("", "", "", "")
	for _, field := range []string{"username", "password", "name", "extension"} {
		if _, ok := violations[field]; !ok {
			t.Errorf("Create() missing violation for field %q: %v", field, violations)
		}
	}
}

func TestCreate_UsernameRules(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantOK   bool
	}{
		{"valid", "john_doe1", true},
		{"minimum length", "abc", true},
		{"too short", "ab", false},
		{"too long", string(make([]byte, 51)), false},
		{"illegal characters", "john.doe", false},
		{"spaces", "john doe", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := Create(tt.username, "securepass123", "John Doe", "1002")
			_, violated := violations["username"]
			if violated == tt.wantOK {
				t.Errorf("Create() username=%q violated=%v, want ok=%v", tt.username, violated, tt.wantOK)
			}
		})
	}
}

func TestCreate_PasswordLengthBounds(t *testing.T) {
	if v := Create("johndoe", "12345", "John Doe", "1002"); v["password"] == "" {
		t.Error("Create() accepted a 5-character password")
	}
	if v := Create("johndoe", "123456", "John Doe", "1002"); v["password"] != "" {
		t.Errorf("Create() rejected a 6-character password: %v", v["password"])
	}
	if v := Create("johndoe", strings.Repeat("x", 100), "John Doe", "1002"); v["password"] != "" {
		t.Errorf("Create() rejected a 100-character password: %v", v["password"])
	}
	if v := Create("johndoe", strings.Repeat("x", 101), "John Doe", "1002"); v["password"] == "" {
		t.Error("Create() accepted a 101-character password")
	}
}

// =========================================================================
// UPDATE VALIDATION TESTS
// =========================================================================

func TestUpdate_Valid(t *testing.T) {
	if violations := Update("Jane O'Brien-Smith", "100234"); len(violations) != 0 {
		t.Errorf("Update() valid input produced violations: %v", violations)
	}
}

func TestUpdate_NameRules(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		wantOK bool
	}{
		{"letters and spaces", "John Doe", true},
		{"hyphen and apostrophe", "Mary-Jane O'Neil", true},
		{"single character", "J", false},
		{"digits", "John 3rd", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := Update(tt.value, "1002")
			_, violated := violations["name"]
			if violated == tt.wantOK {
				t.Errorf("Update() name=%q violated=%v, want ok=%v", tt.value, violated, tt.wantOK)
			}
		})
	}
}

func TestUpdate_ExtensionRules(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		wantOK bool
	}{
		{"four digits", "1002", true},
		{"six digits", "100234", true},
		{"three digits", "100", false},
		{"seven digits", "1002345", false},
		{"non-numeric", "10a2", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := Update("John Doe", tt.value)
			_, violated := violations["extension"]
			if violated == tt.wantOK {
				t.Errorf("Update() extension=%q violated=%v, want ok=%v", tt.value, violated, tt.wantOK)
			}
		})
	}
}

func TestUpdate_FirstRulePerFieldWins(t *testing.T) {
	// An empty extension fails multiple rules; only the emptiness message
	// should surface.
	violations := Update("John Doe", "")
	if violations["extension"] != "extension cannot be empty" {
		t.Errorf("Update() extension message = %q, want the emptiness message", violations["extension"])
	}
}

// =========================================================================
// RESERVED EXTENSION TESTS
// =========================================================================

func TestIsReserved(t *testing.T) {
	for _, ext := range []string{"0000", "9999"} {
		if !IsReserved(ext) {
			t.Errorf("IsReserved(%q) = false, want true", ext)
		}
	}
	for _, ext := range []string{"1002", "0001", "9998", ""} {
		if IsReserved(ext) {
			t.Errorf("IsReserved(%q) = true, want false", ext)
		}
	}
}

func TestReservedExtensionsPassFormatRules(t *testing.T) {
	// Reserved values are format-valid: phase 1 must not be what rejects
	// them, the reservation check is a separate rule.
	if v := Update("John Doe", "0000"); len(v) != 0 {
		t.Errorf("Update() rejected reserved extension on format grounds: %v", v)
	}
}
