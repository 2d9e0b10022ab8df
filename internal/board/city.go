package board

import (
	"context"

	"github.com/maauso/dreamjob/internal/record"
)

// City is a location that candidates and vacancies refer to.
type City struct {
	ID   int
	Name string
}

// GetID returns the city identifier; 0 means not yet stored.
func (c City) GetID() int { return c.ID }

// WithID returns a copy of the city with the given identifier.
func (c City) WithID(id int) City {
	c.ID = id
	return c
}

// CityService provides read access to the city directory.
type CityService struct {
	repo record.Repository[City]
}

// NewCityService creates a new CityService.
func NewCityService(repo record.Repository[City]) *CityService {
	return &CityService{repo: repo}
}

// FindAll returns all cities.
func (s *CityService) FindAll(ctx context.Context) []City {
	return s.repo.FindAll(ctx)
}

// FindByID retrieves a city by ID.
func (s *CityService) FindByID(ctx context.Context, id int) (City, bool) {
	return s.repo.FindByID(ctx, id)
}
