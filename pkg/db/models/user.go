package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/omarsaleem/tandoorpos-backend/pkg/enums"
)

// User is a staff account. Credentials live with the identity provider; this
// row exists so ledger entries and payments can reference their actor.
type User struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string           `gorm:"column:email;not null;unique"`
	FullName  string           `gorm:"column:full_name;not null"`
	Role      enums.MemberRole `gorm:"column:role;type:member_role;not null;default:'cashier'"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
}
