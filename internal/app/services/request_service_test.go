package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduassist/backend/internal/app/lifecycle"
	"github.com/eduassist/backend/internal/app/models"
	"github.com/eduassist/backend/internal/app/models/dto"
	"github.com/eduassist/backend/internal/app/repositories"
	"github.com/eduassist/backend/internal/config"
)

type fakeRequestStore struct {
	summaryOwners []*int64
	summaryCounts map[models.Status]int64
	listFilters   []repositories.RequestFilter
	listResult    []*models.Request
}

func (f *fakeRequestStore) Create(ctx context.Context, req *models.Request, tagIDs []int64) error {
	return nil
}

func (f *fakeRequestStore) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	return nil, nil
}

func (f *fakeRequestStore) List(ctx context.Context, filter repositories.RequestFilter) ([]*models.Request, int64, error) {
	f.listFilters = append(f.listFilters, filter)
	return f.listResult, int64(len(f.listResult)), nil
}

func (f *fakeRequestStore) UpdateContent(ctx context.Context, req *models.Request, tagIDs []int64) error {
	return nil
}

func (f *fakeRequestStore) Delete(ctx context.Context, id int64) error {
	return nil
}

func (f *fakeRequestStore) Summary(ctx context.Context, ownerID *int64) (map[models.Status]int64, error) {
	f.summaryOwners = append(f.summaryOwners, ownerID)
	return f.summaryCounts, nil
}

func newTestRequestService(store RequestStore) *RequestService {
	set := lifecycle.NewStatusSet(config.LifecycleConfig{
		Statuses:        []string{"pending", "approved", "cancelled"},
		ApprovedStatus:  "approved",
		CancelledStatus: "cancelled",
	})
	engine := lifecycle.NewEngine(set, nil, nil, true)
	return NewRequestService(store, nil, nil, engine, nil, nil, zerolog.Nop())
}

func TestSummaryScopesToOwnerForStudents(t *testing.T) {
	store := &fakeRequestStore{summaryCounts: map[models.Status]int64{"pending": 2}}
	svc := newTestRequestService(store)
	student := &models.User{ID: 7, Role: models.RoleStudent}

	// Listing filters must not leak into the counts.
	_, _, err := svc.List(context.Background(), student, dto.RequestFilterRequest{
		Status: "approved",
		Search: "wifi",
	}, 1, 10)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background(), student)
	require.NoError(t, err)

	require.Len(t, store.summaryOwners, 1)
	require.NotNil(t, store.summaryOwners[0])
	assert.Equal(t, int64(7), *store.summaryOwners[0])

	assert.Equal(t, int64(2), summary.Total)
	assert.Equal(t, map[string]int64{"pending": 2, "approved": 0, "cancelled": 0}, summary.ByStatus)
}

func TestSummaryGlobalForStaff(t *testing.T) {
	store := &fakeRequestStore{summaryCounts: map[models.Status]int64{"pending": 4, "approved": 9}}
	svc := newTestRequestService(store)
	admin := &models.User{ID: 1, Role: models.RoleAdmin}

	summary, err := svc.Summary(context.Background(), admin)
	require.NoError(t, err)

	require.Len(t, store.summaryOwners, 1)
	assert.Nil(t, store.summaryOwners[0])
	assert.Equal(t, int64(13), summary.Total)
}

func TestSummaryTotalExcludesCancelled(t *testing.T) {
	store := &fakeRequestStore{summaryCounts: map[models.Status]int64{
		"pending":   1,
		"approved":  2,
		"cancelled": 5,
	}}
	svc := newTestRequestService(store)
	admin := &models.User{ID: 1, Role: models.RoleAdmin}

	summary, err := svc.Summary(context.Background(), admin)
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.Total)
	assert.Equal(t, int64(5), summary.ByStatus["cancelled"])
}

func TestListForcesOwnerScopeForStudents(t *testing.T) {
	store := &fakeRequestStore{}
	svc := newTestRequestService(store)
	student := &models.User{ID: 7, Role: models.RoleStudent}

	_, _, err := svc.List(context.Background(), student, dto.RequestFilterRequest{Search: "printer"}, 1, 10)
	require.NoError(t, err)

	require.Len(t, store.listFilters, 1)
	require.NotNil(t, store.listFilters[0].OwnerID)
	assert.Equal(t, int64(7), *store.listFilters[0].OwnerID)
	assert.Equal(t, "printer", store.listFilters[0].Search)
}

func TestListStaffSeesAllOwners(t *testing.T) {
	store := &fakeRequestStore{}
	svc := newTestRequestService(store)
	admin := &models.User{ID: 1, Role: models.RoleAdmin}

	_, _, err := svc.List(context.Background(), admin, dto.RequestFilterRequest{Status: "pending"}, 1, 10)
	require.NoError(t, err)

	require.Len(t, store.listFilters, 1)
	assert.Nil(t, store.listFilters[0].OwnerID)
	assert.Equal(t, "pending", store.listFilters[0].Status)
}
