// Package keystore defines the registry that remembers which key each string
// identifier was given, so keys stay stable across key assignment runs.
package keystore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound indicates a requested assignment is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates the key is already assigned to another identifier.
	ErrAlreadyExists = errors.New("record already exists")
)

// Assignment records the key given to one identifier within a table scope.
type Assignment struct {
	Scope      string
	Identifier string
	Key        uint32
	AssignedAt time.Time
}

// Store persists key assignments.
type Store interface {
	// GetAssignment returns the assignment for identifier in scope.
	GetAssignment(ctx context.Context, scope, identifier string) (Assignment, error)
	// ListAssignments returns every assignment in scope ordered by identifier.
	ListAssignments(ctx context.Context, scope string) ([]Assignment, error)
	// PutAssignment records or replaces the key of an identifier. It returns
	// ErrAlreadyExists when another identifier in scope holds the key.
	PutAssignment(ctx context.Context, assignment Assignment) error
}

// Scope returns the registry scope of a table address.
func Scope(group uint32, instance uint64) string {
	return fmt.Sprintf("%08x:%016x", group, instance)
}
