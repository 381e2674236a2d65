package models_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferoute/saferoute/internal/api/models"
)

func TestProblem_Write(t *testing.T) {
	p := models.NewBadRequest("req_123", "origin is required", []models.FieldError{
		{Field: "origin", Message: "required"},
	})

	rec := httptest.NewRecorder()
	p.Write(rec)

	assert.Equal(t, 400, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "req_123", rec.Header().Get("X-Request-Id"))

	var got models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.ProblemTypeValidation, got.Type)
	assert.Equal(t, "origin is required", got.Detail)
	require.Len(t, got.Errors, 1)
	assert.Equal(t, "origin", got.Errors[0].Field)
}

func TestProblem_Constructors(t *testing.T) {
	tests := []struct {
		name    string
		problem *models.Problem
		status  int
	}{
		{"not found", models.NewNotFound("t", "missing"), 404},
		{"conflict", models.NewConflict("t", "busy"), 409},
		{"too many requests", models.NewTooManyRequests("t", "slow down"), 429},
		{"internal", models.NewInternalError("t", "boom"), 500},
		{"unavailable", models.NewServiceUnavailable("t", "later"), 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.problem.Status)
			assert.NotEmpty(t, tt.problem.Type)
			assert.NotEmpty(t, tt.problem.Title)
		})
	}
}
