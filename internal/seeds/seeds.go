// Package seeds loads the starter theme and set data into the catalog.
package seeds

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/EmpoweredVote/lego-catalog/internal/catalog"
	"github.com/goccy/go-yaml"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultDataset is the dataset path used when none is given, relative to the repo root.
const DefaultDataset = "internal/seeds/data/lego.yaml"

type themeRecord struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

type setRecord struct {
	SetNum   string `yaml:"set_num"`
	Name     string `yaml:"name"`
	Year     int    `yaml:"year"`
	NumParts int    `yaml:"num_parts"`
	ThemeID  int    `yaml:"theme_id"`
	ImgURL   string `yaml:"img_url"`
}

// Dataset is the parsed seed file.
type Dataset struct {
	Themes []catalog.Theme
	Sets   []catalog.Set
}

// LoadDataset reads a YAML or JSON seed file.
func LoadDataset(path string) (Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("could not read %s: %w", path, err)
	}
	return ParseDataset(raw)
}

// ParseDataset decodes and validates seed data. JSON input is accepted as YAML.
func ParseDataset(raw []byte) (Dataset, error) {
	var doc struct {
		Themes []themeRecord `yaml:"themes"`
		Sets   []setRecord   `yaml:"sets"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Dataset{}, fmt.Errorf("failed to parse dataset: %w", err)
	}

	var ds Dataset
	for _, t := range doc.Themes {
		ds.Themes = append(ds.Themes, catalog.Theme{ID: t.ID, Name: strings.TrimSpace(t.Name)})
	}
	for _, s := range doc.Sets {
		ds.Sets = append(ds.Sets, catalog.Set{
			SetNum:   strings.TrimSpace(s.SetNum),
			Name:     strings.TrimSpace(s.Name),
			Year:     s.Year,
			NumParts: s.NumParts,
			ThemeID:  s.ThemeID,
			ImgURL:   strings.TrimSpace(s.ImgURL),
		})
	}

	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// Validate rejects empty names, duplicate keys and sets whose theme is not in the dataset.
func (ds Dataset) Validate() error {
	if len(ds.Themes) == 0 {
		return fmt.Errorf("dataset has no themes")
	}

	themes := make(map[int]struct{}, len(ds.Themes))
	for i, t := range ds.Themes {
		if t.ID <= 0 {
			return fmt.Errorf("theme %d: id must be positive", i+1)
		}
		if t.Name == "" {
			return fmt.Errorf("theme %d: name is empty", t.ID)
		}
		if _, dup := themes[t.ID]; dup {
			return fmt.Errorf("theme %d: duplicate id", t.ID)
		}
		themes[t.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(ds.Sets))
	for i, s := range ds.Sets {
		if s.SetNum == "" {
			return fmt.Errorf("set %d: set_num is empty", i+1)
		}
		if s.Name == "" {
			return fmt.Errorf("set %s: name is empty", s.SetNum)
		}
		if _, ok := themes[s.ThemeID]; !ok {
			return fmt.Errorf("set %s: unknown theme_id %d", s.SetNum, s.ThemeID)
		}
		if _, dup := seen[s.SetNum]; dup {
			return fmt.Errorf("set %s: duplicate set_num", s.SetNum)
		}
		seen[s.SetNum] = struct{}{}
	}
	return nil
}

// SeedThemes inserts themes with their ids, leaving existing rows alone.
// It returns the number of themes actually inserted.
func SeedThemes(ctx context.Context, db *gorm.DB, themes []catalog.Theme) (int64, error) {
	if len(themes) == 0 {
		return 0, nil
	}

	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&themes)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to seed themes: %w", res.Error)
	}

	// Explicit ids leave the serial behind; move it past them so AddTheme keeps working.
	if db.Dialector.Name() == "postgres" {
		err := db.WithContext(ctx).
			Exec(`SELECT setval(pg_get_serial_sequence('themes', 'id'), (SELECT MAX(id) FROM themes))`).Error
		if err != nil {
			return res.RowsAffected, fmt.Errorf("failed to advance theme id sequence: %w", err)
		}
	}

	log.Printf("Seeded %d of %d themes", res.RowsAffected, len(themes))
	return res.RowsAffected, nil
}

// SeedSets inserts sets through gorm in batches, skipping set numbers already
// present. cmd/seed uses it for --no-copy runs.
func SeedSets(ctx context.Context, db *gorm.DB, sets []catalog.Set) (int64, error) {
	if len(sets) == 0 {
		return 0, nil
	}

	res := db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&sets, 500)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to seed sets: %w", res.Error)
	}

	log.Printf("Seeded %d of %d sets", res.RowsAffected, len(sets))
	return res.RowsAffected, nil
}
