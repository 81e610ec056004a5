package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Exchanges
const (
	ExchangeWorkshopEvents = "workshop.events"
)

// Event types, used as routing keys. The outbound sync service binds to
// catalog.* to mirror reference data into NetSuite; report.generated feeds
// usage auditing.
const (
	EventReportGenerated     = "report.generated"
	EventBusinessUnitCreated = "catalog.business_unit.created"
	EventBusinessUnitUpdated = "catalog.business_unit.updated"
	EventBusinessUnitDeleted = "catalog.business_unit.deleted"
)

// Event is the envelope for all published events
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event envelope
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		CorrelationID: correlationID,
		Timestamp:     time.Now().UTC(),
		Data:          payload,
	}, nil
}

// ReportGeneratedEvent is published after a successful report run
type ReportGeneratedEvent struct {
	Report          string  `json:"report"`
	RequestedBy     string  `json:"requested_by"`
	BusinessUnitID  *int64  `json:"business_unit_id,omitempty"`
	TechnicianID    *string `json:"technician_id,omitempty"`
	StartDay        string  `json:"start_day"`
	EndDay          string  `json:"end_day"`
	TechnicianCount int     `json:"technician_count"`
}

// BusinessUnitEvent carries reference-data changes for downstream sync
type BusinessUnitEvent struct {
	BusinessUnitID int64  `json:"business_unit_id"`
	Name           string `json:"name"`
}
