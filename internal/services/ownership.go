package services

import (
	apperrors "taskboard/internal/errors"

	"github.com/gofrs/uuid"
)

// OwnershipPolicy decides what a caller sees when a resource belongs to
// someone else.
type OwnershipPolicy int

const (
	// MaskAsNotFound hides the resource entirely. Used for tasks.
	MaskAsNotFound OwnershipPolicy = iota
	// RejectForbidden admits the resource exists. Used for user profiles.
	RejectForbidden
)

// Check returns nil when caller owns the resource, otherwise the error the
// policy prescribes. notFound is the message used when masking.
func (p OwnershipPolicy) Check(caller, owner uuid.UUID, notFound string) error {
	if caller != uuid.Nil && caller == owner {
		return nil
	}
	switch p {
	case RejectForbidden:
		return apperrors.Forbidden("Forbidden")
	default:
		return apperrors.NotFound(notFound)
	}
}
