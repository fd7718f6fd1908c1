package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required,max=5"`
	Count *int   `json:"count" validate:"required"`
	Note  string `json:"note"`
}

func TestStruct(t *testing.T) {
	one := 1

	assert.NoError(t, Struct(sample{Name: "ok", Count: &one}))

	err := Struct(sample{Name: "too-long"})
	require.Error(t, err)

	var errs Errors
	require.True(t, errors.As(err, &errs))
	assert.ElementsMatch(t, Errors{
		{Field: "name", Message: "must be at most 5 characters"},
		{Field: "count", Message: "is required"},
	}, errs)
	assert.Contains(t, err.Error(), "count: is required")
}
