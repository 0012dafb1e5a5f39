// pkg/catalog/schema.go
package catalog

// ExperienceCatalog is the seed file format for bootstrapping an environment
// with a set of experiences. Operators maintain it by hand; the seeder loads
// it into Postgres and Elasticsearch.
type ExperienceCatalog struct {
	Version     string      `json:"version"`
	LastUpdated string      `json:"lastUpdated"`
	Experiences []SeedEntry `json:"experiences"`
}

type SeedEntry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"` // popup, exhibition, concert, food
	Region      string   `json:"region"`
	Venue       string   `json:"venue"`
	Status      string   `json:"status"`
	FundingGoal int64    `json:"fundingGoal"`
	StartsAt    string   `json:"startsAt"`
	EndsAt      string   `json:"endsAt"`
	Tags        []string `json:"tags,omitempty"`
}
