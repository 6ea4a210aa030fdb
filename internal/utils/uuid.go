package utils

import "github.com/google/uuid"

// UUIDGenerator issues entry ids. Version 7 UUIDs are time-ordered, which
// keeps freshly added entries clustered in the store's primary index.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
