package model

import "github.com/google/uuid"

// NewDocumentID creates a new export document identifier.
func NewDocumentID() string {
	return uuid.New().String()
}
