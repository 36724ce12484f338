package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/validator"
)

func passing() validator.Rule {
	return validator.Rule{
		Check: func() bool { return true },
		Error: validator.ValidationError{Field: "ok", Message: "never reported"},
	}
}

func failing(field, message string) validator.Rule {
	return validator.Rule{
		Check: func() bool { return false },
		Error: validator.ValidationError{Field: field, Message: message},
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("nil when all rules pass", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validator.Apply(passing(), passing()))
	})

	t.Run("nil without rules", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validator.Apply())
	})

	t.Run("collects every failure", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			failing("email", "field is required"),
			passing(),
			failing("password", "too short"),
		)
		require.Error(t, err)

		ve := validator.ExtractValidationErrors(err)
		require.Len(t, ve, 2)
		assert.Equal(t, []string{"email", "password"}, ve.Fields())
	})

	t.Run("error message lists each field", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			failing("email", "field is required"),
			failing("password", "too short"),
		)
		require.Error(t, err)
		assert.Equal(t, "validation failed: email: field is required; password: too short", err.Error())
	})
}

func TestValidationErrors_Accessors(t *testing.T) {
	t.Parallel()

	ve := validator.ValidationErrors{
		{Field: "email", Message: "field is required"},
		{Field: "email", Message: "must be a valid email address"},
		{Field: "password", Message: "too short"},
	}

	assert.True(t, ve.Has("email"))
	assert.False(t, ve.Has("name"))
	assert.Equal(t, []string{"field is required", "must be a valid email address"}, ve.Get("email"))
	assert.Nil(t, ve.Get("name"))
	assert.Equal(t, []string{"email", "password"}, ve.Fields())
}

func TestExtractValidationErrors(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, validator.ExtractValidationErrors(nil))
		assert.False(t, validator.IsValidationError(nil))
	})

	t.Run("unrelated error", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, validator.ExtractValidationErrors(errors.New("boom")))
		assert.False(t, validator.IsValidationError(errors.New("boom")))
	})

	t.Run("wrapped validation error", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(failing("email", "field is required"))
		wrapped := fmt.Errorf("request rejected: %w", err)

		ve := validator.ExtractValidationErrors(wrapped)
		require.Len(t, ve, 1)
		assert.True(t, validator.IsValidationError(wrapped))
	})
}
