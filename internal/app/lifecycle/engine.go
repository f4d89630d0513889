package lifecycle

import (
	"context"
	"time"

	"github.com/eduassist/backend/internal/app/models"
	"github.com/eduassist/backend/internal/pkg/apperrors"
	"github.com/eduassist/backend/internal/pkg/logger"
)

// Store persists a status transition.
type Store interface {
	UpdateStatus(ctx context.Context, id int64, status models.Status, adminMessage *string, setApprovedAt bool) error
}

// Event describes a committed status change, handed to the Notifier.
type Event struct {
	Request      *models.Request
	From         models.Status
	To           models.Status
	ToLabel      string
	AdminMessage string
}

// TemplateKey returns the notification template identifier for the
// destination status, e.g. request_approved.
func (e Event) TemplateKey() string {
	return "request_" + string(e.To)
}

// Notifier delivers notifications for a committed transition. Delivery
// failures must be handled internally: the status change has already been
// persisted and is never rolled back on notification problems.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, event Event)
}

// Engine applies status transitions against the configured StatusSet.
type Engine struct {
	set             *StatusSet
	store           Store
	notifier        Notifier
	blockReapproval bool
}

// NewEngine creates a transition engine. notifier may be nil, in which
// case transitions are persisted silently.
func NewEngine(set *StatusSet, store Store, notifier Notifier, blockReapproval bool) *Engine {
	return &Engine{
		set:             set,
		store:           store,
		notifier:        notifier,
		blockReapproval: blockReapproval,
	}
}

// StatusSet exposes the configured enumeration.
func (e *Engine) StatusSet() *StatusSet {
	return e.set
}

// Transition moves req to the target status and dispatches notifications.
// It returns false without touching anything when the request is already
// in the target status. Re-entering the approved status after a previous
// approval is rejected with ErrAlreadyApproved unless force is set or the
// guard is disabled. req is updated in place on success.
func (e *Engine) Transition(ctx context.Context, req *models.Request, to models.Status, adminMessage string, force bool) (bool, error) {
	if !e.set.Contains(to) {
		return false, apperrors.ErrInvalidStatus
	}

	from := req.Status
	if from == to {
		logger.Debug().
			Int64("requestID", req.ID).
			Str("status", string(to)).
			Msg("Status transition is a no-op")
		return false, nil
	}

	approving := to == e.set.Approved()
	if approving && req.ApprovedAt != nil && e.blockReapproval && !force {
		return false, apperrors.ErrAlreadyApproved
	}

	var msg *string
	if adminMessage != "" {
		msg = &adminMessage
	}

	stampApproval := approving && req.ApprovedAt == nil
	if err := e.store.UpdateStatus(ctx, req.ID, to, msg, stampApproval); err != nil {
		return false, err
	}

	now := time.Now()
	req.Status = to
	req.AdminMessage = msg
	req.UpdatedAt = now
	if stampApproval {
		req.ApprovedAt = &now
	}

	logger.Info().
		Int64("requestID", req.ID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("Request status changed")

	if e.notifier != nil {
		e.notifier.NotifyStatusChange(ctx, Event{
			Request:      req,
			From:         from,
			To:           to,
			ToLabel:      e.set.Label(to),
			AdminMessage: adminMessage,
		})
	}
	return true, nil
}
