package domain

import (
	"errors"
	"fmt"
)

var (
	// Collection errors
	ErrCollectionNotFound      = errors.New("collection not found")
	ErrInvalidCollectionName   = errors.New("invalid collection name")
	ErrInvalidCollectionType   = errors.New("invalid collection type")
	ErrInvalidVisibility       = errors.New("invalid visibility")
	ErrSmartQueryRequired      = errors.New("smart collection requires a query")
	ErrCollectionNameTaken     = errors.New("collection name already exists")
	ErrDocumentNotInCollection = errors.New("document is not a member of the collection")
	ErrEmptyDocumentIDs        = errors.New("document ids must not be empty")
	ErrOffsetTooLarge          = errors.New("offset exceeds the supported ceiling for smart collections")

	// Shard errors
	ErrShardNotFound = errors.New("shard not found")

	// Permission errors
	ErrGrantNotFound    = errors.New("permission grant not found")
	ErrPermissionDenied = errors.New("permission denied")

	// Common errors
	ErrInvalidTenantID = errors.New("invalid tenant id")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// MemberFailure names one document that could not be added to a collection.
type MemberFailure struct {
	ID     string `json:"id"`
	Reason string `json:"error"` // no_permission, not_found
}

const (
	MemberFailureNoPermission = "no_permission"
	MemberFailureNotFound     = "not_found"
)

// MemberAccessError is returned when adding members fails because the
// caller cannot read some of the target documents. The collection is left
// unchanged in that case.
type MemberAccessError struct {
	Failures []MemberFailure
}

func (e *MemberAccessError) Error() string {
	return fmt.Sprintf("cannot add some documents: %d inaccessible", len(e.Failures))
}
