package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduassist/backend/internal/app/models"
	"github.com/eduassist/backend/internal/config"
	"github.com/eduassist/backend/internal/pkg/apperrors"
)

type fakeStore struct {
	calls []storeCall
	err   error
}

type storeCall struct {
	id            int64
	status        models.Status
	adminMessage  *string
	setApprovedAt bool
}

func (s *fakeStore) UpdateStatus(_ context.Context, id int64, status models.Status, adminMessage *string, setApprovedAt bool) error {
	s.calls = append(s.calls, storeCall{id: id, status: status, adminMessage: adminMessage, setApprovedAt: setApprovedAt})
	return s.err
}

type fakeNotifier struct {
	events []Event
}

func (n *fakeNotifier) NotifyStatusChange(_ context.Context, event Event) {
	n.events = append(n.events, event)
}

func testStatusSet() *StatusSet {
	return NewStatusSet(config.LifecycleConfig{
		Statuses:        []string{"pending", "approved", "cancelled"},
		Labels:          map[string]string{"pending": "Pending", "approved": "Approved", "cancelled": "Cancelled"},
		ApprovedStatus:  "approved",
		CancelledStatus: "cancelled",
	})
}

func TestStatusSet(t *testing.T) {
	set := testStatusSet()

	assert.Equal(t, models.Status("pending"), set.Initial())
	assert.Equal(t, models.Status("approved"), set.Approved())
	assert.Equal(t, models.Status("cancelled"), set.Cancelled())
	assert.True(t, set.Contains("cancelled"))
	assert.False(t, set.Contains("resolved"))
	assert.Equal(t, "Approved", set.Label("approved"))
	assert.Equal(t, "weird", set.Label("weird"))
	assert.Equal(t, []models.Status{"pending", "approved", "cancelled"}, set.Members())
}

func TestStatusSetCustomTaxonomy(t *testing.T) {
	set := NewStatusSet(config.LifecycleConfig{
		Statuses:       []string{"open", "in_progress", "resolved", "closed"},
		ApprovedStatus: "resolved",
	})

	assert.Equal(t, models.Status("open"), set.Initial())
	assert.Equal(t, models.Status("resolved"), set.Approved())
	// No label configured, names serve as labels
	assert.Equal(t, "in_progress", set.Label("in_progress"))
}

func TestTransitionInvalidStatus(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	engine := NewEngine(testStatusSet(), store, notifier, true)

	req := &models.Request{ID: 1, Status: "pending"}
	changed, err := engine.Transition(context.Background(), req, "resolved", "", false)

	require.ErrorIs(t, err, apperrors.ErrInvalidStatus)
	assert.False(t, changed)
	assert.Empty(t, store.calls)
	assert.Empty(t, notifier.events)
}

func TestTransitionSameStatusIsNoOp(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	engine := NewEngine(testStatusSet(), store, notifier, true)

	req := &models.Request{ID: 1, Status: "pending"}
	changed, err := engine.Transition(context.Background(), req, "pending", "still waiting", false)

	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, store.calls, "no-op must not touch the store")
	assert.Empty(t, notifier.events, "no-op must not notify")
}

func TestTransitionApproveStampsApprovedAt(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	engine := NewEngine(testStatusSet(), store, notifier, true)

	req := &models.Request{ID: 7, Status: "pending", Title: "WiFi down"}
	changed, err := engine.Transition(context.Background(), req, "approved", "on it", false)

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.Status("approved"), req.Status)
	require.NotNil(t, req.ApprovedAt)
	assert.WithinDuration(t, time.Now(), *req.ApprovedAt, time.Second)
	require.NotNil(t, req.AdminMessage)
	assert.Equal(t, "on it", *req.AdminMessage)

	require.Len(t, store.calls, 1)
	assert.True(t, store.calls[0].setApprovedAt)

	require.Len(t, notifier.events, 1)
	event := notifier.events[0]
	assert.Equal(t, models.Status("pending"), event.From)
	assert.Equal(t, models.Status("approved"), event.To)
	assert.Equal(t, "Approved", event.ToLabel)
	assert.Equal(t, "on it", event.AdminMessage)
	assert.Equal(t, "request_approved", event.TemplateKey())
}

func TestTransitionReapprovalBlocked(t *testing.T) {
	store := &fakeStore{}
	engine := NewEngine(testStatusSet(), store, nil, true)

	approvedAt := time.Now().Add(-time.Hour)
	req := &models.Request{ID: 3, Status: "cancelled", ApprovedAt: &approvedAt}

	changed, err := engine.Transition(context.Background(), req, "approved", "", false)
	require.ErrorIs(t, err, apperrors.ErrAlreadyApproved)
	assert.False(t, changed)
	assert.Empty(t, store.calls)
}

func TestTransitionReapprovalForced(t *testing.T) {
	store := &fakeStore{}
	engine := NewEngine(testStatusSet(), store, nil, true)

	approvedAt := time.Now().Add(-time.Hour)
	req := &models.Request{ID: 3, Status: "cancelled", ApprovedAt: &approvedAt}

	changed, err := engine.Transition(context.Background(), req, "approved", "", true)
	require.NoError(t, err)
	assert.True(t, changed)

	// The original approval timestamp is preserved
	require.Len(t, store.calls, 1)
	assert.False(t, store.calls[0].setApprovedAt)
	assert.Equal(t, approvedAt, *req.ApprovedAt)
}

func TestTransitionReapprovalGuardDisabled(t *testing.T) {
	store := &fakeStore{}
	engine := NewEngine(testStatusSet(), store, nil, false)

	approvedAt := time.Now().Add(-time.Hour)
	req := &models.Request{ID: 3, Status: "cancelled", ApprovedAt: &approvedAt}

	changed, err := engine.Transition(context.Background(), req, "approved", "", false)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestTransitionStoreFailureLeavesRequestUntouched(t *testing.T) {
	store := &fakeStore{err: assert.AnError}
	notifier := &fakeNotifier{}
	engine := NewEngine(testStatusSet(), store, notifier, true)

	req := &models.Request{ID: 5, Status: "pending"}
	changed, err := engine.Transition(context.Background(), req, "cancelled", "", false)

	require.ErrorIs(t, err, assert.AnError)
	assert.False(t, changed)
	assert.Equal(t, models.Status("pending"), req.Status)
	assert.Empty(t, notifier.events, "persist failure must not notify")
}

func TestTransitionEmptyAdminMessageStaysNil(t *testing.T) {
	store := &fakeStore{}
	engine := NewEngine(testStatusSet(), store, nil, true)

	req := &models.Request{ID: 2, Status: "pending"}
	changed, err := engine.Transition(context.Background(), req, "cancelled", "", false)

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Nil(t, req.AdminMessage)
	require.Len(t, store.calls, 1)
	assert.Nil(t, store.calls[0].adminMessage)
}
