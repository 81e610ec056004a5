package events

import (
	"context"

	"github.com/fleetworks/fleetworks-backend/pkg/messaging"
)

// ReportEventPublisher publishes reporting events to the workshop exchange.
// A nil publisher is a no-op, so reporting works without a broker.
type ReportEventPublisher struct {
	publisher *messaging.Publisher
}

// NewReportEventPublisher creates a new report event publisher
func NewReportEventPublisher(publisher *messaging.Publisher) *ReportEventPublisher {
	return &ReportEventPublisher{publisher: publisher}
}

// ReportGenerated announces a completed report run for usage auditing.
func (p *ReportEventPublisher) ReportGenerated(ctx context.Context, event messaging.ReportGeneratedEvent) error {
	if p == nil {
		return nil
	}
	return p.publisher.Publish(ctx, messaging.EventReportGenerated, event)
}
