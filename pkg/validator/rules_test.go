package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/authkit/pkg/validator"
)

func TestRequiredString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"non-empty value", "hello", true},
		{"empty value", "", false},
		{"whitespace only", "   \t\n", false},
		{"value with surrounding whitespace", "  x  ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validator.Apply(validator.RequiredString("field", tt.value))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestMinLenString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		min   int
		valid bool
	}{
		{"longer than minimum", "password123", 8, true},
		{"exactly minimum", "12345678", 8, true},
		{"shorter than minimum", "short", 8, false},
		{"empty against zero", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validator.Apply(validator.MinLenString("field", tt.value, tt.min))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestMaxLenString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		max   int
		valid bool
	}{
		{"shorter than maximum", "abc", 10, true},
		{"exactly maximum", "abcde", 5, true},
		{"longer than maximum", "abcdef", 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validator.Apply(validator.MaxLenString("field", tt.value, tt.max))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"plain address", "user@example.com", true},
		{"dotted local part", "first.last@example.com", true},
		{"plus addressing", "user+tag@example.com", true},
		{"subdomain", "user@mail.example.com", true},
		{"empty", "", false},
		{"missing at sign", "userexample.com", false},
		{"missing local part", "@example.com", false},
		{"missing domain", "user@", false},
		{"bare hostname domain", "user@localhost", false},
		{"domain starts with dot", "user@.example.com", false},
		{"domain ends with dot", "user@example.", false},
		{"whitespace only", "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validator.Apply(validator.ValidEmail("email", tt.value))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
