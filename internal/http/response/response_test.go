package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOKWithData(t *testing.T) {
	resp := StatusOKWithData(map[string]any{"id": 1})
	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something broke")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something broke", resp.Error)
}

func TestBlocked(t *testing.T) {
	resp := Blocked("require_renewal", "subscription expired")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "require_renewal", resp.Decision)
	assert.Equal(t, "subscription expired", resp.Error)
}

func TestValidationError(t *testing.T) {
	type request struct {
		Name     string `validate:"required"`
		PlanType string `validate:"required,oneof=producer buyer"`
		Amount   int    `validate:"gt=0"`
	}

	err := validator.New().Struct(request{PlanType: "enterprise", Amount: -1})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Name is a required field")
	assert.Contains(t, resp.Error, "field PlanType must be one of: producer buyer")
	assert.Contains(t, resp.Error, "field Amount must be greater than 0")
}
