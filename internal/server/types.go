// Package server provides the HTTP server for the DreamJob API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

import "time"

// CandidateForm is the form body for creating or updating a candidate.
// It arrives as multipart/form-data with an optional "file" part.
type CandidateForm struct {
	Name        string `validate:"required,max=255"`
	Description string `validate:"max=4000"`
	CityID      int    `validate:"required,min=1"`
}

// VacancyForm is the form body for creating or updating a vacancy.
type VacancyForm struct {
	Title       string `validate:"required,max=255"`
	Description string `validate:"max=4000"`
	Visible     bool
	CityID      int `validate:"required,min=1"`
}

// CandidateResponse is the HTTP representation of a candidate.
type CandidateResponse struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CreationDate time.Time `json:"creation_date"`
	CityID       int       `json:"city_id"`
	// FileURL is the download path of the candidate's photo, if any.
	FileURL string `json:"file_url,omitempty"`
}

// VacancyResponse is the HTTP representation of a vacancy.
type VacancyResponse struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CreationDate time.Time `json:"creation_date"`
	Visible      bool      `json:"visible"`
	CityID       int       `json:"city_id"`
	// FileURL is the download path of the vacancy's logo, if any.
	FileURL string `json:"file_url,omitempty"`
}

// CityResponse is the HTTP representation of a city.
type CityResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RegisterRequest is the HTTP request body for registering a user.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest is the HTTP request body for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the HTTP representation of a user. It never carries the
// password hash.
type UserResponse struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
