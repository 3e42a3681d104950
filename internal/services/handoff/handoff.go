// Package handoff turns assistant events into support cases for human agents.
package handoff

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BearBump/ParcelAssist/internal/broker/messages"
	"github.com/BearBump/ParcelAssist/internal/models"
	"github.com/pkg/errors"
)

type Repository interface {
	CreateCase(ctx context.Context, c models.SupportCase) (bool, error)
	ListCases(ctx context.Context, limit, offset int) ([]*models.SupportCase, error)
}

type Consumer interface {
	Consume(ctx context.Context, handler func(ctx context.Context, ev messages.AssistantEvent) error) error
}

type Service struct {
	repo Repository

	startedAtUnixNano int64
	lastEventUnixNano atomic.Int64
	totalReceived     atomic.Int64
	totalRecorded     atomic.Int64
	totalDuplicates   atomic.Int64
	totalIgnored      atomic.Int64
	totalErrors       atomic.Int64
	lastErrorMu       sync.Mutex
	lastError         string
}

func New(repo Repository) *Service {
	return &Service{
		repo:              repo,
		startedAtUnixNano: time.Now().UTC().UnixNano(),
	}
}

type Stats struct {
	StartedAt       time.Time  `json:"startedAt"`
	LastEventAt     *time.Time `json:"lastEventAt,omitempty"`
	TotalReceived   int64      `json:"totalReceived"`
	TotalRecorded   int64      `json:"totalRecorded"`
	TotalDuplicates int64      `json:"totalDuplicates"`
	TotalIgnored    int64      `json:"totalIgnored"`
	TotalErrors     int64      `json:"totalErrors"`
	LastError       string     `json:"lastError,omitempty"`
}

func (s *Service) Stats() Stats {
	st := Stats{
		StartedAt:       time.Unix(0, s.startedAtUnixNano).UTC(),
		TotalReceived:   s.totalReceived.Load(),
		TotalRecorded:   s.totalRecorded.Load(),
		TotalDuplicates: s.totalDuplicates.Load(),
		TotalIgnored:    s.totalIgnored.Load(),
		TotalErrors:     s.totalErrors.Load(),
	}
	if n := s.lastEventUnixNano.Load(); n > 0 {
		t := time.Unix(0, n).UTC()
		st.LastEventAt = &t
	}
	s.lastErrorMu.Lock()
	st.LastError = s.lastError
	s.lastErrorMu.Unlock()
	return st
}

// Run consumes events until ctx is done or the consumer fails.
func (s *Service) Run(ctx context.Context, c Consumer) error {
	err := c.Consume(ctx, s.Handle)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Handle records one event. Irrelevant events are skipped without error,
// so only storage failures stop the consumer (and leave the message uncommitted).
func (s *Service) Handle(ctx context.Context, ev messages.AssistantEvent) error {
	s.totalReceived.Add(1)
	s.lastEventUnixNano.Store(time.Now().UTC().UnixNano())

	c, ok := caseFromEvent(ev)
	if !ok {
		s.totalIgnored.Add(1)
		slog.Debug("assistant event ignored", "type", ev.Type, "session_id", ev.SessionID)
		return nil
	}

	created, err := s.repo.CreateCase(ctx, c)
	if err != nil {
		err = errors.Wrapf(err, "record %s case for session %s", c.Kind, c.SessionID)
		s.recordError(err)
		return err
	}
	if !created {
		s.totalDuplicates.Add(1)
		slog.Info("support case already recorded", "kind", c.Kind, "session_id", c.SessionID)
		return nil
	}
	s.totalRecorded.Add(1)
	slog.Info("support case recorded", "kind", c.Kind, "session_id", c.SessionID, "order_id", c.OrderID)
	return nil
}

func (s *Service) ListCases(ctx context.Context, limit, offset int) ([]*models.SupportCase, error) {
	return s.repo.ListCases(ctx, limit, offset)
}

func (s *Service) recordError(err error) {
	s.totalErrors.Add(1)
	s.lastErrorMu.Lock()
	s.lastError = err.Error()
	s.lastErrorMu.Unlock()
}

func caseFromEvent(ev messages.AssistantEvent) (models.SupportCase, bool) {
	if ev.SessionID == "" {
		return models.SupportCase{}, false
	}
	c := models.SupportCase{
		SessionID:  ev.SessionID,
		OrderID:    ev.OrderID,
		Email:      ev.Email,
		Zip:        ev.Zip,
		Reason:     ev.Reason,
		OccurredAt: ev.OccurredAt,
	}
	if c.OccurredAt.IsZero() {
		c.OccurredAt = time.Now().UTC()
	}
	switch ev.Type {
	case messages.EventSessionEscalated:
		c.Kind = models.SupportCaseKindEscalation
	case messages.EventPackageReportedMissing:
		c.Kind = models.SupportCaseKindMissingPackage
		if ev.CaseRef != "" {
			ref := ev.CaseRef
			c.CaseRef = &ref
		}
	default:
		return models.SupportCase{}, false
	}
	return c, true
}
