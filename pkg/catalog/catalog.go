// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

var validCategories = map[string]bool{
	"popup":      true,
	"exhibition": true,
	"concert":    true,
	"food":       true,
}

var validStatuses = map[string]bool{
	"draft":   true,
	"funding": true,
	"open":    true,
	"closed":  true,
}

// LoadCatalog reads and validates a seed catalog file.
func LoadCatalog(path string) (*ExperienceCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cat ExperienceCatalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("catalog parse: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate checks structural invariants the schema can't express in types:
// unique IDs, known categories and statuses, and a positive funding goal for
// funding experiences.
func (c *ExperienceCatalog) Validate() error {
	seen := make(map[string]bool, len(c.Experiences))
	for i, e := range c.Experiences {
		if e.ID == "" || e.Title == "" {
			return fmt.Errorf("entry %d: id and title are required", i)
		}
		if seen[e.ID] {
			return fmt.Errorf("entry %d: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = true

		if !validCategories[e.Category] {
			return fmt.Errorf("entry %d: unknown category %q", i, e.Category)
		}
		if !validStatuses[e.Status] {
			return fmt.Errorf("entry %d: unknown status %q", i, e.Status)
		}
		if e.Status == "funding" && e.FundingGoal <= 0 {
			return fmt.Errorf("entry %d: funding experience needs a positive goal", i)
		}
	}
	return nil
}
