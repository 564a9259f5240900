package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reviewPayload mirrors the review submission shape the catalog accepts.
type reviewPayload struct {
	Author  string `json:"author" validate:"required,max=100"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title   string `json:"title" validate:"max=150"`
	Content string `json:"content" validate:"required,max=5000"`
}

func TestProperty_RatingRangeValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("ratings outside 1..5 are rejected", prop.ForAll(
		func(rating int) bool {
			reqBody, _ := json.Marshal(map[string]interface{}{
				"author":  "Marta",
				"rating":  rating,
				"content": "Well cast, crisp tampos",
			})
			req := httptest.NewRequest("POST", "/api/products/x/reviews", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload reviewPayload
			err := DecodeAndValidate(req, &payload)

			if rating >= 1 && rating <= 5 {
				return err == nil
			}
			return err != nil
		},
		gen.IntRange(-10, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecodeAndValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "complete payload passes",
			body: `{"author":"Marta","rating":5,"title":"Superb","content":"Great detail"}`,
		},
		{
			name:    "missing author fails",
			body:    `{"rating":5,"content":"Great detail"}`,
			wantErr: true,
		},
		{
			name:    "missing content fails",
			body:    `{"author":"Marta","rating":5}`,
			wantErr: true,
		},
		{
			name: "title is optional",
			body: `{"author":"Marta","rating":3,"content":"Solid"}`,
		},
		{
			name:    "malformed JSON fails",
			body:    `{"author":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/products/x/reviews", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")

			var payload reviewPayload
			err := DecodeAndValidate(req, &payload)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	payload := reviewPayload{Author: "Marta", Rating: 9, Content: "x"}

	err := ValidateStruct(payload)
	require.Error(t, err)

	formatted := FormatValidationErrors(err)
	require.Len(t, formatted, 1)
	assert.Equal(t, "Rating", formatted[0].Field)
	assert.Equal(t, "Value must be less than or equal to 5", formatted[0].Message)
}

func TestFormatValidationErrorsNonValidatorError(t *testing.T) {
	formatted := FormatValidationErrors(assert.AnError)
	assert.Empty(t, formatted)
}
