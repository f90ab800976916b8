package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"neuroflow/internal/middleware"
	"neuroflow/internal/models"
	"neuroflow/internal/repository"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// CatalogMilestone is one milestone of a built-in roadmap.
type CatalogMilestone struct {
	Day         int    `yaml:"day"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// CatalogRoadmap is a permanent system roadmap.
type CatalogRoadmap struct {
	Title       string             `yaml:"title"`
	Description string             `yaml:"description"`
	Category    string             `yaml:"category"`
	Milestones  []CatalogMilestone `yaml:"milestones"`
}

// Catalog parses the embedded built-in roadmap catalog.
func Catalog() ([]CatalogRoadmap, error) {
	var doc struct {
		Roadmaps []CatalogRoadmap `yaml:"roadmaps"`
	}
	if err := yaml.Unmarshal(catalogYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse roadmap catalog: %w", err)
	}
	return doc.Roadmaps, nil
}

// PredefinedResult reports what a catalog seed run did.
type PredefinedResult struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

// PredefinedRoadmaps materializes the catalog. A roadmap is inserted, together
// with its milestones, only when no predefined roadmap with the same title exists.
func PredefinedRoadmaps(ctx context.Context, repo repository.RoadmapRepository) (*PredefinedResult, error) {
	catalog, err := Catalog()
	if err != nil {
		return nil, err
	}

	result := &PredefinedResult{Created: []string{}, Skipped: []string{}}
	for _, item := range catalog {
		existing, err := repo.FindPredefinedByTitle(ctx, item.Title)
		if err != nil {
			return nil, fmt.Errorf("seed predefined roadmap %q: %w", item.Title, err)
		}
		if existing != nil {
			result.Skipped = append(result.Skipped, item.Title)
			continue
		}

		roadmap := &models.Roadmap{
			Title:        item.Title,
			Description:  item.Description,
			Category:     item.Category,
			IsPredefined: true,
		}
		milestones := make([]models.Milestone, 0, len(item.Milestones))
		for _, m := range item.Milestones {
			milestones = append(milestones, models.Milestone{
				Title:       m.Title,
				Description: m.Description,
				Day:         m.Day,
			})
		}
		if err := repo.CreateWithMilestones(ctx, roadmap, milestones); err != nil {
			return nil, fmt.Errorf("seed predefined roadmap %q: %w", item.Title, err)
		}
		result.Created = append(result.Created, item.Title)
	}

	middleware.Logger.InfoContext(ctx, "predefined roadmaps seeded",
		slog.Int("created", len(result.Created)),
		slog.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}
