package keystore

import (
	"context"
	"errors"
	"fmt"

	"github.com/louisbranch/stblbuilder/internal/stbl/keygen"
	"github.com/louisbranch/stblbuilder/internal/stbl/table"
)

// Report counts what Assign did.
type Report struct {
	Scope string
	// Assigned entries received a freshly drawn key.
	Assigned int
	// Reused entries received the key the registry already held for them.
	Reused int
	// Recorded entries already had a key that was added to the registry.
	Recorded int
	// Conflicts lists identifiers whose table key belongs to another
	// identifier in the registry.
	Conflicts []string
}

// Assign gives every entry whose key is zero a key, preferring the key the
// registry remembers for its identifier. New keys avoid every key in the
// table and in the registry scope. Every key the table ends up with is
// recorded in the registry unless another identifier holds it there.
func Assign(ctx context.Context, store Store, gen *keygen.Generator, t *table.Table) (Report, error) {
	if store == nil {
		return Report{}, errors.New("key store is required")
	}
	if gen == nil {
		return Report{}, errors.New("key generator is required")
	}
	report := Report{Scope: Scope(t.Group, t.Instance)}

	assignments, err := store.ListAssignments(ctx, report.Scope)
	if err != nil {
		return Report{}, fmt.Errorf("list assignments: %w", err)
	}
	registryKey := make(map[string]uint32, len(assignments))
	keyOwner := make(map[uint32]string, len(assignments))
	blocked := keygen.Blocked32(0)
	for _, a := range assignments {
		registryKey[a.Identifier] = a.Key
		keyOwner[a.Key] = a.Identifier
		blocked[a.Key] = struct{}{}
	}
	inTable := make(map[uint32]bool, len(t.Entries))
	for _, e := range t.Entries {
		if e.Key != 0 {
			inTable[e.Key] = true
			blocked[e.Key] = struct{}{}
		}
	}

	put := func(identifier string, key uint32) error {
		if err := store.PutAssignment(ctx, Assignment{Scope: report.Scope, Identifier: identifier, Key: key}); err != nil {
			return fmt.Errorf("record key for %q: %w", identifier, err)
		}
		registryKey[identifier] = key
		keyOwner[key] = identifier
		return nil
	}

	for _, e := range t.Entries {
		if e.Key == 0 {
			continue
		}
		if current, ok := registryKey[e.Identifier]; ok && current == e.Key {
			continue
		}
		if owner, ok := keyOwner[e.Key]; ok && owner != e.Identifier {
			report.Conflicts = append(report.Conflicts, e.Identifier)
			continue
		}
		if err := put(e.Identifier, e.Key); err != nil {
			return Report{}, err
		}
		report.Recorded++
	}

	for _, e := range t.Entries {
		if e.Key != 0 {
			continue
		}
		if key, ok := registryKey[e.Identifier]; ok && key != 0 && !inTable[key] {
			e.Key = key
			inTable[key] = true
			report.Reused++
			continue
		}
		key, err := gen.Key32(blocked)
		if err != nil {
			return Report{}, fmt.Errorf("draw key for %q: %w", e.Identifier, err)
		}
		blocked[key] = struct{}{}
		inTable[key] = true
		e.Key = key
		if err := put(e.Identifier, key); err != nil {
			return Report{}, err
		}
		report.Assigned++
	}
	return report, nil
}
