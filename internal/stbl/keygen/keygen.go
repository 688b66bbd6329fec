// Package keygen draws random table keys that avoid a caller supplied set of
// blocked values.
package keygen

import (
	"fmt"
	"math/rand"
	"strconv"

	apperrors "github.com/louisbranch/stblbuilder/internal/platform/errors"
)

// DefaultMaxAttempts bounds the draws made for a single key.
const DefaultMaxAttempts = 1 << 20

// ErrKeySpaceExhausted matches errors returned when no free key was found.
var ErrKeySpaceExhausted = apperrors.New(apperrors.CodeKeySpaceExhausted, "key space exhausted")

// Generator draws keys from an explicit random source. It is not safe for
// concurrent use.
type Generator struct {
	rng         *rand.Rand
	maxAttempts int
}

// Option configures a Generator.
type Option func(*Generator)

// WithMaxAttempts sets the number of draws made before giving up. Values
// below one are ignored.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// New returns a generator drawing from rng.
func New(rng *rand.Rand, opts ...Option) *Generator {
	g := &Generator{rng: rng, maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewSeeded returns a generator over a deterministic source.
func NewSeeded(seed int64, opts ...Option) *Generator {
	return New(rand.New(rand.NewSource(seed)), opts...)
}

// Key32 returns a uniformly drawn 32-bit key that is not in blocked.
func (g *Generator) Key32(blocked map[uint32]struct{}) (uint32, error) {
	if uint64(len(blocked)) >= 1<<32 {
		return 0, exhausted(32, len(blocked), 0)
	}
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		key := g.rng.Uint32()
		if _, taken := blocked[key]; !taken {
			return key, nil
		}
	}
	return 0, exhausted(32, len(blocked), g.maxAttempts)
}

// Key64 returns a uniformly drawn 64-bit key that is not in blocked.
func (g *Generator) Key64(blocked map[uint64]struct{}) (uint64, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		key := g.rng.Uint64()
		if _, taken := blocked[key]; !taken {
			return key, nil
		}
	}
	return 0, exhausted(64, len(blocked), g.maxAttempts)
}

// Blocked32 builds a blocked set from existing keys.
func Blocked32(keys ...uint32) map[uint32]struct{} {
	blocked := make(map[uint32]struct{}, len(keys))
	for _, key := range keys {
		blocked[key] = struct{}{}
	}
	return blocked
}

func exhausted(width, blocked, attempts int) error {
	return apperrors.WithMetadata(
		apperrors.CodeKeySpaceExhausted,
		fmt.Sprintf("no free %d-bit key after %d attempts", width, attempts),
		map[string]string{
			"width":    strconv.Itoa(width),
			"blocked":  strconv.Itoa(blocked),
			"attempts": strconv.Itoa(attempts),
		},
	)
}
