package id

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator creates opaque IDs that are safe to embed in URL paths.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct {
	prefix string
}

// NewRandomGenerator returns IDs of the form "<prefix>_<uuid v4>".
func NewRandomGenerator(prefix string) *RandomGenerator {
	return &RandomGenerator{prefix: strings.TrimSpace(prefix)}
}

func (g *RandomGenerator) NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	if g.prefix == "" {
		return value.String(), nil
	}
	return g.prefix + "_" + value.String(), nil
}

// SequenceGenerator hands out "<Prefix>1", "<Prefix>2", ... and is safe for concurrent use.
type SequenceGenerator struct {
	Prefix string
	next   atomic.Int64
}

func (g *SequenceGenerator) NewID() (string, error) {
	return g.Prefix + strconv.FormatInt(g.next.Add(1), 10), nil
}
