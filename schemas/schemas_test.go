package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/smartmatch/internal/matching"
	"github.com/jonathan/smartmatch/internal/schemas"
	"github.com/jonathan/smartmatch/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

var schemaFiles = []string{
	"recommend_request.schema.json",
	"recommendations.schema.json",
	"catalog.schema.json",
}

func TestSchemaFiles_Compile(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(schemaFile)
			require.NoError(t, err)

			var schemaObj map[string]any
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON")
			assert.Contains(t, schemaObj, "$schema")

			_, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			assert.NoError(t, err)
		})
	}
}

func TestCatalogSchema_AcceptsTestdata(t *testing.T) {
	for _, name := range []string{"catalog.yaml", "catalog.json"} {
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join("..", "internal", "catalog", "testdata", name))
			require.NoError(t, err)

			var doc any
			require.NoError(t, yaml.Unmarshal(data, &doc))
			assert.NoError(t, schemas.ValidateDocument("catalog.schema.json", doc))
		})
	}
}

func TestCatalogSchema_RejectsUnknownRequirement(t *testing.T) {
	doc := map[string]any{
		"internships": []any{
			map[string]any{"title": "Intern", "requirements": map[string]any{"min_gpa": 7}},
		},
	}
	assert.Error(t, schemas.ValidateDocument("catalog.schema.json", doc))
}

func TestRecommendationsSchema_AcceptsResponses(t *testing.T) {
	deadline := time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)
	ranked := []matching.ScoredOpportunity{{
		Opportunity: matching.Opportunity{
			ID: "int-001", Title: "Backend Intern", Organization: "Acme",
			RequiredDomain: "Software Development", Stipend: 25000, Deadline: &deadline,
		},
		ScoreDomain: 1, ScoreGPA: 0.8, TotalScore: 1.8, Notes: "Exact domain match",
	}}

	assert.NoError(t, schemas.ValidateDocument("recommendations.schema.json", types.NewRecommendationResponse(ranked, 3)))
	assert.NoError(t, schemas.ValidateDocument("recommendations.schema.json", types.NewRecommendationResponse(nil, 0)))
}

func TestRecommendRequestSchema(t *testing.T) {
	assert.NoError(t, schemas.ValidateJSONString(mustRead(t, "recommend_request.schema.json"),
		`{"domain": "Data Science", "cgpa": 8.5, "experience_years": 1, "certifications": 2}`))
	assert.Error(t, schemas.ValidateJSONString(mustRead(t, "recommend_request.schema.json"),
		`{"domain": "", "cgpa": 8.5, "experience_years": 1, "certifications": 2}`))
	assert.Error(t, schemas.ValidateJSONString(mustRead(t, "recommend_request.schema.json"),
		`{"domain": "x", "cgpa": -1, "experience_years": 1, "certifications": 2}`))
}

func mustRead(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	return string(data)
}
