package events

import (
	"context"

	"github.com/fleetworks/fleetworks-backend/pkg/messaging"
)

// CatalogEventPublisher announces reference-data changes on the workshop
// exchange so the downstream sync service can mirror them. A nil publisher
// is a no-op.
type CatalogEventPublisher struct {
	publisher *messaging.Publisher
}

// NewCatalogEventPublisher creates a new catalog event publisher
func NewCatalogEventPublisher(publisher *messaging.Publisher) *CatalogEventPublisher {
	return &CatalogEventPublisher{publisher: publisher}
}

// BusinessUnitCreated publishes a created event
func (p *CatalogEventPublisher) BusinessUnitCreated(ctx context.Context, id int64, name string) error {
	if p == nil {
		return nil
	}
	return p.publisher.Publish(ctx, messaging.EventBusinessUnitCreated, messaging.BusinessUnitEvent{
		BusinessUnitID: id,
		Name:           name,
	})
}

// BusinessUnitUpdated publishes an updated event
func (p *CatalogEventPublisher) BusinessUnitUpdated(ctx context.Context, id int64, name string) error {
	if p == nil {
		return nil
	}
	return p.publisher.Publish(ctx, messaging.EventBusinessUnitUpdated, messaging.BusinessUnitEvent{
		BusinessUnitID: id,
		Name:           name,
	})
}

// BusinessUnitDeleted publishes a deleted event
func (p *CatalogEventPublisher) BusinessUnitDeleted(ctx context.Context, id int64) error {
	if p == nil {
		return nil
	}
	return p.publisher.Publish(ctx, messaging.EventBusinessUnitDeleted, messaging.BusinessUnitEvent{
		BusinessUnitID: id,
	})
}
