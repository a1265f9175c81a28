package domain

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError is returned when a referenced entity does not resolve.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InvalidTransitionError is returned when an invitation state-machine operation
// is attempted from a state that does not permit it.
type InvalidTransitionError struct {
	InvitationID string
	Current      InvitationStatus
	Requested    InvitationStatus
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("guild invitation %s: cannot transition from %s to %s", e.InvitationID, e.Current, e.Requested)
}

// ConstraintViolationError is the caller-facing form of a blocking rule
// violation. Kind discriminates the taxonomy (shape, referential,
// duplicate_key, transition); Constraint and Fields name the violated
// invariant precisely.
type ConstraintViolationError struct {
	Kind       ViolationKind
	Entity     EntityType
	EntityID   string
	Constraint string
	Fields     []string
	Message    string
}

func (e ConstraintViolationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s %s: %s", e.Entity, e.Constraint, e.Message)
	}
	return fmt.Sprintf("%s %s (%s): %s", e.Entity, e.Constraint, strings.Join(e.Fields, ", "), e.Message)
}

// ViolationError converts a blocking rules result into the typed taxonomy,
// using the first blocking violation in evaluation order so that shape errors
// surface before referential ones and referential before duplicates.
func ViolationError(res Result) error {
	v, ok := res.FirstBlocking()
	if !ok {
		return nil
	}
	return ConstraintViolationError{
		Kind:       v.Kind,
		Entity:     v.Entity,
		EntityID:   v.EntityID,
		Constraint: v.Constraint,
		Fields:     append([]string(nil), v.Fields...),
		Message:    v.Message,
	}
}

// IsNotFound reports whether err is a missing-entity error.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
func IsDuplicateKey(err error) bool {
	return violationKind(err) == KindDuplicateKey
}

// IsShapeViolation reports whether err is a broken exactly-one-of or
// enum-legality invariant.
func IsShapeViolation(err error) bool {
	return violationKind(err) == KindShape
}

// IsReferentialViolation reports whether err is a dangling or orphaned
// required reference.
func IsReferentialViolation(err error) bool {
	return violationKind(err) == KindReferential
}

// IsInvalidTransition reports whether err is an illegal invitation lifecycle
// transition, surfaced either by the state-machine operations or by the
// lifecycle rule backstop.
func IsInvalidTransition(err error) bool {
	var it InvalidTransitionError
	if errors.As(err, &it) {
		return true
	}
	return violationKind(err) == KindTransition
}

func violationKind(err error) ViolationKind {
	var cv ConstraintViolationError
	if errors.As(err, &cv) {
		return cv.Kind
	}
	var rve RuleViolationError
	if errors.As(err, &rve) {
		if v, ok := rve.Result.FirstBlocking(); ok {
			return v.Kind
		}
	}
	return ""
}
