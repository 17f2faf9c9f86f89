package library

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID generates a new document ID (24 hex characters).
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID returns true if id has the shape of a document ID.
// It says nothing about whether a document with that ID exists.
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
