// Package auth contains the pure authorization rules for help requests.
// All predicates operate on already-loaded models so they can be applied
// uniformly by services and verified in isolation.
package auth

import (
	"github.com/eduassist/backend/internal/app/models"
	"github.com/eduassist/backend/internal/pkg/apperrors"
)

// CanViewRequest reports whether actor may read the request.
// Owners see their own requests, staff see everything.
func CanViewRequest(actor *models.User, req *models.Request) bool {
	if actor == nil || req == nil {
		return false
	}
	return actor.IsStaff() || req.UserID == actor.ID
}

// CanEditRequest reports whether actor may change the request's content
// (title, description, priority, category, tags, attachment). Only the
// owner may: staff moderate through status transitions, not by rewriting
// another user's submission.
func CanEditRequest(actor *models.User, req *models.Request) bool {
	if actor == nil || req == nil {
		return false
	}
	return req.UserID == actor.ID
}

// CanDeleteRequest reports whether actor may delete the request.
// Owners may delete their own; staff may delete any.
func CanDeleteRequest(actor *models.User, req *models.Request) bool {
	if actor == nil || req == nil {
		return false
	}
	return actor.IsStaff() || req.UserID == actor.ID
}

// CanTransitionStatus reports whether actor may move requests between
// statuses. Status moderation is a staff capability regardless of ownership.
func CanTransitionStatus(actor *models.User) bool {
	return actor != nil && actor.IsStaff()
}

// CanViewAllFeedback reports whether actor may read other users' feedback.
func CanViewAllFeedback(actor *models.User) bool {
	return actor != nil && actor.IsStaff()
}

// CanManageCategories reports whether actor may create, edit or delete
// categories and their choices.
func CanManageCategories(actor *models.User) bool {
	return actor != nil && actor.IsStaff()
}

// ValidateViewRequest returns ErrPermissionDenied when actor may not read req.
func ValidateViewRequest(actor *models.User, req *models.Request) error {
	if !CanViewRequest(actor, req) {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// ValidateEditRequest returns the appropriate error when actor may not edit
// req's content. Staff get a distinct error so the API can explain that
// moderation happens via status changes.
func ValidateEditRequest(actor *models.User, req *models.Request) error {
	if CanEditRequest(actor, req) {
		return nil
	}
	if actor != nil && actor.IsStaff() {
		return apperrors.ErrStaffContentEdit
	}
	return apperrors.ErrPermissionDenied
}

// ValidateDeleteRequest returns ErrPermissionDenied when actor may not delete req.
func ValidateDeleteRequest(actor *models.User, req *models.Request) error {
	if !CanDeleteRequest(actor, req) {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// ValidateTransitionStatus returns ErrPermissionDenied when actor may not
// perform status transitions.
func ValidateTransitionStatus(actor *models.User) error {
	if !CanTransitionStatus(actor) {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
