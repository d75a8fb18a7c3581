package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/omarsaleem/tandoorpos-backend/pkg/enums"
)

// AuditLog records a financial transition. Failures to write audit rows never
// roll back the primary operation.
type AuditLog struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	EntityType string            `gorm:"column:entity_type;not null"`
	EntityID   uuid.UUID         `gorm:"column:entity_id;type:uuid;not null;index"`
	Action     enums.AuditAction `gorm:"column:action;type:audit_action;not null"`
	ActorID    uuid.UUID         `gorm:"column:actor_id;type:uuid;not null"`
	Payload    json.RawMessage   `gorm:"column:payload;type:jsonb"`
	Summary    string            `gorm:"column:summary;not null"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}
