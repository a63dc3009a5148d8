package biz

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"docuvault/cmd/collection-service/internal/domain"
	"docuvault/cmd/collection-service/internal/infrastructure/event"
	"docuvault/pkg/auth"
	"docuvault/pkg/monitoring"
)

// Auditor emits audit events on a fire-and-forget basis. Auditing is an
// advisory side effect, not a correctness requirement: a publish failure is
// logged and metric-counted on its own channel and never reaches the caller.
type Auditor struct {
	publisher event.AuditPublisher
	timeout   time.Duration
	log       *log.Helper
}

// NewAuditor creates an auditor.
func NewAuditor(publisher event.AuditPublisher, logger log.Logger) *Auditor {
	return &Auditor{
		publisher: publisher,
		timeout:   5 * time.Second,
		log:       log.NewHelper(log.With(logger, "module", "audit")),
	}
}

// Emit publishes an audit event asynchronously. The dispatch detaches from
// the request context so an already-finished request cannot cancel it.
func (a *Auditor) Emit(id auth.Identity, action, resourceID string, details map[string]interface{}) {
	ev := domain.NewAuditEvent(id.TenantID, id.UserID, action, resourceID, details)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		if err := a.publisher.Publish(ctx, ev); err != nil {
			a.log.Warnf("audit publish failed for %s on %s: %v", action, resourceID, err)
			monitoring.AuditPublishFailures.WithLabelValues(action).Inc()
		}
	}()
}
