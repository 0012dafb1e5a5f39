package experiences

import (
	"encoding/json"

	"zzik-backend/internal/models"
)

// buildSearchQuery assembles the Elasticsearch request body for free-text
// experience search. The text query runs against title, description, and
// tags with title weighted highest; region and category narrow as filters.
func buildSearchQuery(input *SearchInput, size int) (string, error) {
	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":  input.Query,
				"fields": []string{"title^3", "description", "tags^2"},
			},
		},
	}

	var filter []map[string]interface{}
	if input.Region != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"region": input.Region},
		})
	}
	if input.Category != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"category": input.Category},
		})
	}

	boolQuery := map[string]interface{}{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	body := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string            `json:"_id"`
			Source models.Experience `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// parseSearchResponse extracts experiences from a raw Elasticsearch response.
// The document ID wins over any id field in the source.
func parseSearchResponse(raw []byte) (*SearchOutput, error) {
	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}

	output := &SearchOutput{
		Experiences: []models.Experience{},
		Total:       resp.Hits.Total.Value,
	}
	for _, hit := range resp.Hits.Hits {
		exp := hit.Source
		exp.ID = hit.ID
		output.Experiences = append(output.Experiences, exp)
	}
	return output, nil
}
