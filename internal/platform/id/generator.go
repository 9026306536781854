package id

import (
	"github.com/oklog/ulid/v2"
)

// Generator creates sortable opaque IDs for pipeline runs.
type Generator interface {
	NewID() string
}

type ULIDGenerator struct{}

func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

func (g *ULIDGenerator) NewID() string {
	return ulid.Make().String()
}
