package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ordertrack/ordertrack-backend/pkg/enums"
)

// OutboxEvent stages an audit event in the mutating transaction until the
// publisher ships it.
type OutboxEvent struct {
	ID            uuid.UUID            `gorm:"column:id;primaryKey" json:"id"`
	EventType     enums.AuditAction    `gorm:"column:event_type;size:50;not null" json:"event_type"`
	AggregateType enums.AuditAggregate `gorm:"column:aggregate_type;size:50;not null" json:"aggregate_type"`
	AggregateID   string               `gorm:"column:aggregate_id;size:450;not null" json:"aggregate_id"`
	Payload       json.RawMessage      `gorm:"column:payload;serializer:json" json:"payload"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	PublishedAt   *time.Time           `gorm:"column:published_at" json:"published_at,omitempty"`
	AttemptCount  int                  `gorm:"column:attempt_count;not null;default:0" json:"attempt_count"`
	LastError     *string              `gorm:"column:last_error" json:"last_error,omitempty"`
}
