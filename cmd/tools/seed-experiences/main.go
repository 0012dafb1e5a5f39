// Command seed-experiences loads an experience catalog file into Postgres
// and refreshes the Elasticsearch search projection. Used to bootstrap new
// environments and to reset staging data.
//
// Usage:
//
//	seed-experiences -catalog configs/experiences.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"zzik-backend/internal/common/config"
	"zzik-backend/internal/common/database"
	"zzik-backend/internal/models"
	"zzik-backend/pkg/catalog"
)

func main() {
	catalogPath := flag.String("catalog", "configs/experiences.json", "path to the experience catalog file")
	skipSearch := flag.Bool("skip-search", false, "skip Elasticsearch indexing")
	flag.Parse()

	if err := run(*catalogPath, *skipSearch); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(catalogPath string, skipSearch bool) error {
	cat, err := catalog.LoadCatalog(catalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}

	var es *database.ElasticsearchClient
	if !skipSearch {
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, entry := range cat.Experiences {
		_, err := pg.Exec(ctx,
			`INSERT INTO experiences (id, title, description, category, region, venue, status,
			     funding_goal, funding_pledged, starts_at, ends_at, tags, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10, $11, $12)
			 ON CONFLICT (id) DO UPDATE SET
			     title = EXCLUDED.title,
			     description = EXCLUDED.description,
			     category = EXCLUDED.category,
			     region = EXCLUDED.region,
			     venue = EXCLUDED.venue,
			     status = EXCLUDED.status,
			     funding_goal = EXCLUDED.funding_goal,
			     starts_at = EXCLUDED.starts_at,
			     ends_at = EXCLUDED.ends_at,
			     tags = EXCLUDED.tags`,
			entry.ID, entry.Title, entry.Description, entry.Category, entry.Region, entry.Venue,
			entry.Status, entry.FundingGoal, entry.StartsAt, entry.EndsAt,
			strings.Join(entry.Tags, ","), now,
		)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", entry.ID, err)
		}

		if es != nil {
			doc, err := json.Marshal(models.Experience{
				ID:          entry.ID,
				Title:       entry.Title,
				Description: entry.Description,
				Category:    entry.Category,
				Region:      entry.Region,
				Venue:       entry.Venue,
				Status:      entry.Status,
				FundingGoal: entry.FundingGoal,
				StartsAt:    entry.StartsAt,
				EndsAt:      entry.EndsAt,
				Tags:        entry.Tags,
				CreatedAt:   now,
			})
			if err != nil {
				return err
			}
			if err := es.IndexDocument(ctx, entry.ID, string(doc)); err != nil {
				return fmt.Errorf("index %s: %w", entry.ID, err)
			}
		}
	}

	fmt.Printf("seeded %d experiences from %s (version %s)\n", len(cat.Experiences), catalogPath, cat.Version)
	return nil
}
