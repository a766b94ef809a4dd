package category

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// seedEntry is one default catalog category
type seedEntry struct {
	Name        string
	Description string
	Type        Type
}

// DefaultCategories is the ten-category starter catalog
var DefaultCategories = []seedEntry{
	{"Superhero", "Capes, suits and masked crusaders", TypeCostume},
	{"Historical", "Period dress from medieval to victorian", TypeCostume},
	{"Fantasy", "Wizards, elves and fairy tale characters", TypeCostume},
	{"Horror", "Vampires, zombies and haunted looks", TypeCostume},
	{"Traditional", "Regional and ceremonial attire", TypeCostume},
	{"Masks", "Full and half face masks, masquerade styles", TypeAccessory},
	{"Wigs", "Character and period hairpieces", TypeAccessory},
	{"Jewelry", "Crowns, brooches and costume jewelry", TypeAccessory},
	{"Props", "Swords, wands, staffs and hand props", TypeAccessory},
	{"Footwear", "Boots, slippers and period shoes", TypeAccessory},
}

// SeedResult reports what a seed run did
type SeedResult struct {
	Created []string
	Skipped []string
}

// Seed inserts the default categories that are not present yet. Running it
// again is a no-op: every existing name is reported as skipped.
func Seed(ctx context.Context, repo Repository) (*SeedResult, error) {
	result := &SeedResult{}

	for _, entry := range DefaultCategories {
		existing, err := repo.GetByName(ctx, entry.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			log.Info().Str("category", entry.Name).Msg("Category already exists, skipping")
			result.Skipped = append(result.Skipped, entry.Name)
			continue
		}

		now := time.Now()
		c := &Category{
			ID:          uuid.New(),
			Name:        entry.Name,
			Description: sql.NullString{String: entry.Description, Valid: true},
			Type:        entry.Type,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repo.Create(ctx, c); err != nil {
			return nil, err
		}
		log.Info().Str("category", entry.Name).Str("type", string(entry.Type)).Msg("Category created")
		result.Created = append(result.Created, entry.Name)
	}

	return result, nil
}
