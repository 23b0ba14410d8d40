package idgen

import "github.com/google/uuid"

// Generator produces unique identifiers. One identifier is assigned per
// connection, and the same token names the room that connection creates.
type Generator interface {
	NewID() string
}

// UUIDGenerator issues random version 4 UUIDs.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}
