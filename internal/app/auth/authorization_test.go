package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eduassist/backend/internal/app/models"
	"github.com/eduassist/backend/internal/pkg/apperrors"
)

var (
	student      = &models.User{ID: 1, Role: models.RoleStudent}
	otherStudent = &models.User{ID: 2, Role: models.RoleStudent}
	admin        = &models.User{ID: 10, Role: models.RoleAdmin}
	superAdmin   = &models.User{ID: 11, Role: models.RoleSuperAdmin}
)

func ownRequest() *models.Request { return &models.Request{ID: 100, UserID: student.ID} }
func adminOwned() *models.Request { return &models.Request{ID: 101, UserID: admin.ID} }

func TestCanViewRequest(t *testing.T) {
	req := ownRequest()

	assert.True(t, CanViewRequest(student, req))
	assert.False(t, CanViewRequest(otherStudent, req))
	assert.True(t, CanViewRequest(admin, req))
	assert.True(t, CanViewRequest(superAdmin, req))
	assert.False(t, CanViewRequest(nil, req))
	assert.False(t, CanViewRequest(student, nil))
}

func TestCanEditRequestOwnerOnly(t *testing.T) {
	req := ownRequest()

	assert.True(t, CanEditRequest(student, req))
	assert.False(t, CanEditRequest(otherStudent, req))
	// Staff moderate via status transitions, never by editing content
	assert.False(t, CanEditRequest(admin, req))
	assert.False(t, CanEditRequest(superAdmin, req))

	// Staff editing their own submission is fine
	assert.True(t, CanEditRequest(admin, adminOwned()))
}

func TestCanDeleteRequest(t *testing.T) {
	req := ownRequest()

	assert.True(t, CanDeleteRequest(student, req))
	assert.False(t, CanDeleteRequest(otherStudent, req))
	assert.True(t, CanDeleteRequest(admin, req))
}

func TestStaffOnlyCapabilities(t *testing.T) {
	assert.False(t, CanTransitionStatus(student))
	assert.True(t, CanTransitionStatus(admin))
	assert.True(t, CanTransitionStatus(superAdmin))
	assert.False(t, CanTransitionStatus(nil))

	assert.False(t, CanViewAllFeedback(student))
	assert.True(t, CanViewAllFeedback(admin))

	assert.False(t, CanManageCategories(student))
	assert.True(t, CanManageCategories(superAdmin))
}

func TestValidateEditRequestErrors(t *testing.T) {
	req := ownRequest()

	assert.NoError(t, ValidateEditRequest(student, req))
	assert.ErrorIs(t, ValidateEditRequest(otherStudent, req), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, ValidateEditRequest(admin, req), apperrors.ErrStaffContentEdit)
}

func TestValidateViewAndDelete(t *testing.T) {
	req := ownRequest()

	assert.NoError(t, ValidateViewRequest(admin, req))
	assert.ErrorIs(t, ValidateViewRequest(otherStudent, req), apperrors.ErrPermissionDenied)

	assert.NoError(t, ValidateDeleteRequest(student, req))
	assert.ErrorIs(t, ValidateDeleteRequest(otherStudent, req), apperrors.ErrPermissionDenied)

	assert.NoError(t, ValidateTransitionStatus(admin))
	assert.ErrorIs(t, ValidateTransitionStatus(student), apperrors.ErrPermissionDenied)
}
