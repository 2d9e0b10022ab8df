package board

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/maauso/dreamjob/internal/record"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the initial board content inserted at every process start.
type Seed struct {
	Cities []struct {
		ID   int    `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"cities"`
	Candidates []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		CityID      int    `yaml:"city_id"`
	} `yaml:"candidates"`
	Vacancies []struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Visible     bool   `yaml:"visible"`
		CityID      int    `yaml:"city_id"`
	} `yaml:"vacancies"`
}

// LoadSeed reads seed data from a YAML file. An empty path selects the
// built-in seed.
func LoadSeed(path string) (*Seed, error) {
	data := defaultSeed
	if path != "" {
		var err error
		data, err = os.ReadFile(path) // #nosec G304 - path comes from configuration
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	}
	return ParseSeed(data)
}

// ParseSeed decodes seed data and checks city references.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	cities := make(map[int]bool, len(seed.Cities))
	for _, c := range seed.Cities {
		if c.ID <= 0 {
			return nil, fmt.Errorf("seed city %q: id must be positive", c.Name)
		}
		if cities[c.ID] {
			return nil, fmt.Errorf("seed city %q: duplicate id %d", c.Name, c.ID)
		}
		cities[c.ID] = true
	}
	for _, c := range seed.Candidates {
		if !cities[c.CityID] {
			return nil, fmt.Errorf("seed candidate %q: unknown city %d", c.Name, c.CityID)
		}
	}
	for _, v := range seed.Vacancies {
		if !cities[v.CityID] {
			return nil, fmt.Errorf("seed vacancy %q: unknown city %d", v.Title, v.CityID)
		}
	}

	return &seed, nil
}

// Apply inserts the seed into the repositories. Cities keep their explicit
// IDs; candidates and vacancies get allocated ones.
func (s *Seed) Apply(ctx context.Context, cities record.Repository[City], candidates record.Repository[Candidate], vacancies record.Repository[Vacancy]) {
	now := time.Now()
	for _, c := range s.Cities {
		cities.Save(ctx, City{ID: c.ID, Name: c.Name})
	}
	for _, c := range s.Candidates {
		candidates.Save(ctx, Candidate{
			Name:         c.Name,
			Description:  c.Description,
			CreationDate: now,
			CityID:       c.CityID,
		})
	}
	for _, v := range s.Vacancies {
		vacancies.Save(ctx, Vacancy{
			Title:        v.Title,
			Description:  v.Description,
			CreationDate: now,
			Visible:      v.Visible,
			CityID:       v.CityID,
		})
	}
}
