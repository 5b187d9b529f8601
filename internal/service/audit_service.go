package service

import (
	"context"
	"log/slog"
	"time"

	"hotelhub/internal/event"
	"hotelhub/internal/model"
)

type auditStore interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}

// AuditService drains the event bus into the audit_entries table. Failures
// to persist an entry are logged and dropped; auditing never blocks or
// fails a request.
type AuditService struct {
	store auditStore
	bus   event.Bus
}

func NewAuditService(store auditStore, bus event.Bus) *AuditService {
	return &AuditService{store: store, bus: bus}
}

// Run subscribes to the bus and persists events until ctx is cancelled.
// Intended to run in its own goroutine.
func (s *AuditService) Run(ctx context.Context) {
	events, unsubscribe := s.bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			s.record(e)
		}
	}
}

func (s *AuditService) record(e event.Event) {
	occurredAt, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		occurredAt = time.Now().UTC()
	}

	status := "ok"
	if e.Error != "" {
		status = "error"
	}

	entry := model.AuditEntry{
		Action:     string(e.Type),
		OccurredAt: occurredAt,
		Actor: model.AuditActor{
			UserID: e.ActorID,
			Email:  e.ActorEmail,
			IP:     e.ActorIP,
		},
		Status:   status,
		Resource: e.Resource,
		Detail:   e.Detail,
		Error:    e.Error,
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.Log(writeCtx, entry); err != nil {
		slog.Error("audit entry dropped", "action", entry.Action, "error", err)
	}
}

func (s *AuditService) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	return s.store.Query(ctx, query)
}
