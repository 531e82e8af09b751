package service

import (
	"context"
	"strings"

	"github.com/skillforge/lms-api/internal/models"
	"github.com/skillforge/lms-api/internal/realtime"
	"github.com/skillforge/lms-api/internal/repository"
)

// RecipientResolution is the concrete audience for a notification: the ids
// recorded on the stored record and the rooms targeted for broadcast. For the
// All type neither is populated; the broadcast is global instead.
type RecipientResolution struct {
	StoredIDs []string
	Rooms     []string
	Global    bool
}

// RecipientResolver maps a logical recipient specification to a concrete
// audience. Batch specifications keep the batch ids as stored ids and target
// batch rooms; they are never expanded to student ids at resolution time.
type RecipientResolver interface {
	Resolve(ctx context.Context, recipientType models.RecipientType, recipientIDs []string) (RecipientResolution, error)
}

type recipientResolver struct {
	users repository.UserRepository
}

// NewRecipientResolver constructs a resolver backed by the user roster.
func NewRecipientResolver(users repository.UserRepository) RecipientResolver {
	return &recipientResolver{users: users}
}

func (r *recipientResolver) Resolve(ctx context.Context, recipientType models.RecipientType, recipientIDs []string) (RecipientResolution, error) {
	switch recipientType {
	case models.RecipientAll:
		return RecipientResolution{Global: true}, nil

	case models.RecipientAllTrainers:
		return r.rolePopulation(ctx, models.RoleTrainer)

	case models.RecipientAllStudents:
		return r.rolePopulation(ctx, models.RoleStudent)

	case models.RecipientBatch:
		ids := compactIDs(recipientIDs)
		rooms := make([]string, 0, len(ids))
		for _, id := range ids {
			rooms = append(rooms, realtime.BatchRoom(id))
		}
		return RecipientResolution{StoredIDs: ids, Rooms: rooms}, nil

	case models.RecipientIndividual:
		ids := compactIDs(recipientIDs)
		rooms := make([]string, 0, len(ids))
		for _, id := range ids {
			rooms = append(rooms, realtime.UserRoom(id))
		}
		return RecipientResolution{StoredIDs: ids, Rooms: rooms}, nil

	default:
		// Unset type: the record is persisted with the ids verbatim but no
		// live client is targeted.
		return RecipientResolution{StoredIDs: compactIDs(recipientIDs)}, nil
	}
}

func (r *recipientResolver) rolePopulation(ctx context.Context, role string) (RecipientResolution, error) {
	ids, err := r.users.ListIDsByRole(ctx, role)
	if err != nil {
		return RecipientResolution{}, err
	}

	rooms := make([]string, 0, len(ids))
	for _, id := range ids {
		rooms = append(rooms, realtime.UserRoom(id))
	}
	return RecipientResolution{StoredIDs: ids, Rooms: rooms}, nil
}

func compactIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		trimmed := strings.TrimSpace(id)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
