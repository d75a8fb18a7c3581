package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/omarsaleem/tandoorpos-backend/pkg/db/models"
	"github.com/omarsaleem/tandoorpos-backend/pkg/enums"
	"github.com/omarsaleem/tandoorpos-backend/pkg/logger"
)

// SideEffect is the outcome of a non-fatal secondary write. The primary
// operation succeeds regardless; callers and tests can still observe whether
// the audit row landed.
type SideEffect struct {
	Err error
}

// Ok reports whether the side effect completed.
func (s SideEffect) Ok() bool {
	return s.Err == nil
}

// Service records financial transitions without ever failing the caller.
type Service interface {
	LogAction(ctx context.Context, input LogActionInput) SideEffect
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// LogActionInput captures one auditable transition.
type LogActionInput struct {
	UserID     uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	Action     enums.AuditAction
	ActorID    uuid.UUID
	Payload    json.RawMessage
	Summary    string
}

// NewService wires an audit service with the provided repository.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) LogAction(ctx context.Context, input LogActionInput) SideEffect {
	if input.EntityID == uuid.Nil || !input.Action.IsValid() {
		err := fmt.Errorf("invalid audit input: entity=%s action=%q", input.EntityID, input.Action)
		s.warn(ctx, input, err)
		return SideEffect{Err: err}
	}

	entry := &models.AuditLog{
		UserID:     input.UserID,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		Action:     input.Action,
		ActorID:    input.ActorID,
		Payload:    input.Payload,
		Summary:    input.Summary,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.warn(ctx, input, err)
		return SideEffect{Err: err}
	}
	return SideEffect{}
}

func (s *service) warn(ctx context.Context, input LogActionInput, err error) {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"entity_type": input.EntityType,
		"entity_id":   input.EntityID.String(),
		"action":      string(input.Action),
	})
	s.logg.Warn(ctx, fmt.Sprintf("audit log write failed: %v", err))
}
