package experiences

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Query Builder
// ==========================

func TestBuildSearchQuery_TextOnly(t *testing.T) {
	body, err := buildSearchQuery(&SearchInput{Query: "seoul popup"}, 25)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &parsed))

	assert.Equal(t, float64(25), parsed["size"])

	boolQuery := parsed["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)

	multiMatch := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "seoul popup", multiMatch["query"])
	assert.Contains(t, multiMatch["fields"], "title^3")

	_, hasFilter := boolQuery["filter"]
	assert.False(t, hasFilter)
}

func TestBuildSearchQuery_WithFilters(t *testing.T) {
	body, err := buildSearchQuery(&SearchInput{Query: "jazz", Region: "KR", Category: "concert"}, 10)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &parsed))

	boolQuery := parsed["query"].(map[string]interface{})["bool"].(map[string]interface{})
	filter := boolQuery["filter"].([]interface{})
	require.Len(t, filter, 2)

	regionTerm := filter[0].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "KR", regionTerm["region"])
	categoryTerm := filter[1].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "concert", categoryTerm["category"])
}

// ==========================
// Response Parser
// ==========================

func TestParseSearchResponse_ExtractsHits(t *testing.T) {
	raw := `{
		"hits": {
			"total": {"value": 2},
			"hits": [
				{"_id": "exp-1", "_source": {"title": "Seongsu Popup", "region": "KR", "status": "open"}},
				{"_id": "exp-2", "_source": {"id": "stale-id", "title": "Jeju Food Week", "region": "KR"}}
			]
		}
	}`

	output, err := parseSearchResponse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, int64(2), output.Total)
	require.Len(t, output.Experiences, 2)
	assert.Equal(t, "exp-1", output.Experiences[0].ID)
	assert.Equal(t, "Seongsu Popup", output.Experiences[0].Title)

	// Document ID wins over a stale id field in the source.
	assert.Equal(t, "exp-2", output.Experiences[1].ID)
}

func TestParseSearchResponse_EmptyResult(t *testing.T) {
	output, err := parseSearchResponse([]byte(`{"hits": {"total": {"value": 0}, "hits": []}}`))
	require.NoError(t, err)

	assert.Equal(t, int64(0), output.Total)
	assert.Empty(t, output.Experiences)
}

func TestParseSearchResponse_MalformedBody(t *testing.T) {
	_, err := parseSearchResponse([]byte(`not json`))
	assert.Error(t, err)
}
