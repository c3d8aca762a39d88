// Package audit records security and money-relevant back-office actions:
// wholesale approvals, tier changes, payment link creation, knowledge
// ingestion. Events flow through a Publisher port so the server can ship them
// to Kafka while tests capture them in memory.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionWholesaleApproved  Action = "wholesale_account_approved"
	ActionWholesaleRejected  Action = "wholesale_account_rejected"
	ActionWholesaleTierSet   Action = "wholesale_tier_set"
	ActionPaymentLinkCreated Action = "payment_link_created"
	ActionKnowledgeIngested  Action = "knowledge_fragment_ingested"
)

// Event is a single audit record. Detail keys are free-form but should stay
// stable per action since downstream consumers filter on them.
type Event struct {
	ID         string            `json:"id"`
	Action     Action            `json:"action"`
	Actor      string            `json:"actor,omitempty"`
	Subject    string            `json:"subject,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
	Detail     map[string]string `json:"detail,omitempty"`
}

// Publisher emits audit events. Emit must not block the request path for long;
// implementations are expected to buffer or fire-and-forget internally.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
	Close() error
}

// Record fills event defaults and emits, logging instead of failing the caller
// when the publisher is down. Auditing must never abort a business operation.
func Record(ctx context.Context, logger *slog.Logger, pub Publisher, action Action, actor, subject string, kv ...string) {
	event := Event{
		ID:         uuid.NewString(),
		Action:     action,
		Actor:      actor,
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
		Detail:     pairsToDetail(kv),
	}

	if pub == nil {
		if logger != nil {
			logger.InfoContext(ctx, "audit", "action", action, "actor", actor, "subject", subject)
		}
		return
	}
	if err := pub.Emit(ctx, event); err != nil && logger != nil {
		logger.ErrorContext(ctx, "audit emit failed", "action", action, "error", err)
	}
}

func pairsToDetail(kv []string) map[string]string {
	if len(kv) == 0 {
		return nil
	}
	detail := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		detail[kv[i]] = kv[i+1]
	}
	return detail
}

// MemoryPublisher retains events for assertions in tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

func (p *MemoryPublisher) Emit(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *MemoryPublisher) Close() error { return nil }

// Events returns a copy of everything emitted so far.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// ByAction filters captured events.
func (p *MemoryPublisher) ByAction(action Action) []Event {
	var out []Event
	for _, e := range p.Events() {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

var _ Publisher = (*MemoryPublisher)(nil)

// String implements fmt.Stringer for log readability.
func (e Event) String() string {
	return fmt.Sprintf("%s actor=%s subject=%s", e.Action, e.Actor, e.Subject)
}
