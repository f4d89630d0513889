// Package lifecycle implements the request status machine. The status
// enumeration is not hard-coded: it is installed from configuration at
// bootstrap, and every transition runs through the Engine so the guards
// apply uniformly no matter which caller initiates the change.
package lifecycle

import (
	"github.com/eduassist/backend/internal/app/models"
	"github.com/eduassist/backend/internal/config"
)

// StatusSet is the configured, ordered enumeration of request statuses.
type StatusSet struct {
	ordered   []models.Status
	labels    map[models.Status]string
	approved  models.Status
	cancelled models.Status
}

// NewStatusSet builds a StatusSet from the lifecycle configuration.
// The configuration is assumed validated: non-empty, unique members,
// approved status contained in the set.
func NewStatusSet(cfg config.LifecycleConfig) *StatusSet {
	set := &StatusSet{
		ordered:   make([]models.Status, 0, len(cfg.Statuses)),
		labels:    make(map[models.Status]string, len(cfg.Statuses)),
		approved:  models.Status(cfg.ApprovedStatus),
		cancelled: models.Status(cfg.CancelledStatus),
	}
	for _, name := range cfg.Statuses {
		status := models.Status(name)
		set.ordered = append(set.ordered, status)
		if label, ok := cfg.Labels[name]; ok {
			set.labels[status] = label
		} else {
			set.labels[status] = name
		}
	}
	return set
}

// Contains reports whether status is a member of the enumeration.
func (s *StatusSet) Contains(status models.Status) bool {
	for _, member := range s.ordered {
		if member == status {
			return true
		}
	}
	return false
}

// Initial returns the status assigned to newly created requests:
// the first member of the configured enumeration.
func (s *StatusSet) Initial() models.Status {
	return s.ordered[0]
}

// Approved returns the status designated as approval.
func (s *StatusSet) Approved() models.Status {
	return s.approved
}

// Cancelled returns the status designated as cancellation.
func (s *StatusSet) Cancelled() models.Status {
	return s.cancelled
}

// Label returns the display label of a status, falling back to its name.
func (s *StatusSet) Label(status models.Status) string {
	if label, ok := s.labels[status]; ok {
		return label
	}
	return string(status)
}

// Members returns the enumeration in configured order.
func (s *StatusSet) Members() []models.Status {
	out := make([]models.Status, len(s.ordered))
	copy(out, s.ordered)
	return out
}
