// Package storage provides content backends for uploaded file payloads.
// It defines the Storage interface (port) and implementations that keep
// payloads on local disk or in S3.
package storage

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrObjectNotFound is returned by Get when no payload exists for a key.
	ErrObjectNotFound = errors.New("storage: object not found")
	// ErrInvalidKey is returned when a key is empty or contains a path separator.
	ErrInvalidKey = errors.New("storage: invalid key")
)

// Storage defines the interface for payload persistence keyed by opaque strings.
type Storage interface {
	// Put stores data under key, replacing any previous payload.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the payload stored under key.
	// Returns ErrObjectNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the payload stored under key.
	// Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return ErrInvalidKey
	}
	return nil
}
