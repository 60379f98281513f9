package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchemaValidator_LoadsEmbeddedSchemas(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	assert.True(t, sv.SchemaExists(RecommendationRequest))
	assert.Equal(t, []string{RecommendationRequest, RecommendationResponse}, sv.GetAvailableSchemas())
}

func TestRecommendationRequestSchema(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	tests := []struct {
		name  string
		body  string
		valid bool
		field string
	}{
		{"hollywood with user", `{"industry":"Hollywood","user_id":12,"count":5,"genre":"Comedy"}`, true, ""},
		{"bollywood without user", `{"industry":"Bollywood","genre":"Drama"}`, true, ""},
		{"hollywood without user", `{"industry":"Hollywood","count":5}`, false, "user_id"},
		{"unknown industry", `{"industry":"Tollywood"}`, false, "industry"},
		{"missing industry", `{"count":3}`, false, "industry"},
		{"count too large", `{"industry":"Bollywood","count":11}`, false, "count"},
		{"count zero", `{"industry":"Bollywood","count":0}`, false, "count"},
		{"fractional user", `{"industry":"Hollywood","user_id":1.5}`, false, "user_id"},
		{"hollywood null user", `{"industry":"Hollywood","user_id":null}`, false, "user_id"},
		{"hollywood negative user", `{"industry":"Hollywood","user_id":-1}`, false, "user_id"},
		{"bollywood null user", `{"industry":"Bollywood","user_id":null}`, true, ""},
		{"bollywood negative user ignored", `{"industry":"Bollywood","user_id":-1}`, true, ""},
		{"unexpected field", `{"industry":"Bollywood","limit":3}`, false, "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sv.ValidateJSONString(RecommendationRequest, tt.body)
			assert.Equal(t, tt.valid, result.Valid, "%+v", result.Errors)
			if tt.valid {
				assert.Nil(t, result.ToAPIError())
				return
			}

			fields := make([]string, 0, len(result.Errors))
			for _, e := range result.Errors {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.field)
			assert.NotNil(t, result.ToAPIError())
		})
	}
}

func TestValidate_UnknownSchemaAndBadJSON(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	result := sv.ValidateJSONString("missing", `{}`)
	require.False(t, result.Valid)
	assert.Equal(t, "SCHEMA_NOT_FOUND", result.Errors[0].Code)

	result = sv.ValidateJSONString(RecommendationRequest, `{"industry":`)
	require.False(t, result.Valid)
	assert.Equal(t, "INVALID_JSON", result.Errors[0].Code)
}

func TestValidateStruct(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	body := map[string]interface{}{"industry": "Bollywood", "count": 2}
	assert.True(t, sv.ValidateStruct(RecommendationRequest, body).Valid)
}
