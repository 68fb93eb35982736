// Package idgen produces opaque identifiers for projects and tasks.
//
// Three generators are available: time-ordered UUIDv7 (the default),
// monotonic ULIDs, and the legacy random token made of two base-36 draws.
// None of them check for collisions; the store does that on insert.
package idgen

import (
	"crypto/rand"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/oklog/ulid"
)

// Generator produces new identifiers.
type Generator interface {
	NewID() string
}

// Func adapts a plain function to the Generator interface.
type Func func() string

// NewID calls f.
func (f Func) NewID() string { return f() }

// New returns the generator for the given kind: "uuid", "ulid" or "random".
func New(kind string) (Generator, error) {
	switch kind {
	case "", "uuid":
		return UUID{}, nil
	case "ulid":
		return NewULID(), nil
	case "random":
		return NewRandom(), nil
	default:
		return nil, fmt.Errorf("unknown id generator %q", kind)
	}
}

// UUID generates time-ordered version 7 UUIDs.
type UUID struct{}

// NewID returns a new UUIDv7 string, falling back to a random v4 UUID if the
// v7 generator fails.
func (UUID) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// ULID generates lexically sortable ULIDs in strictly increasing order.
// It is safe for concurrent use.
type ULID struct {
	mu      sync.Mutex
	entropy io.Reader
}

// NewULID returns a monotonic ULID generator backed by crypto/rand.
func NewULID() *ULID {
	return &ULID{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// NewID returns the next ULID. It panics if the entropy source fails.
func (g *ULID) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Now(), g.entropy).String()
}

// Random produces the legacy token: two independent pseudo-random base-36
// draws of up to 13 characters each, concatenated. It is not
// cryptographically secure.
type Random struct {
	mu  sync.Mutex
	src *mrand.Rand
}

// NewRandom returns a Random generator seeded from the runtime.
func NewRandom() *Random {
	return &Random{src: mrand.New(mrand.NewPCG(mrand.Uint64(), mrand.Uint64()))}
}

// NewRandomSeeded returns a deterministic Random generator.
func NewRandomSeeded(seed1, seed2 uint64) *Random {
	return &Random{src: mrand.New(mrand.NewPCG(seed1, seed2))}
}

// NewID returns a new token.
func (g *Random) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.draw() + g.draw()
}

// draw returns up to 13 base-36 digits of a 64-bit pseudo-random value.
func (g *Random) draw() string {
	s := strconv.FormatUint(g.src.Uint64(), 36)
	if len(s) > 13 {
		s = s[:13]
	}
	return s
}
