package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillforge/lms-api/internal/models"
)

func TestResolveAllIsGlobalWithNoStoredIDs(t *testing.T) {
	resolver := NewRecipientResolver(&stubUserRepo{})

	resolution, err := resolver.Resolve(context.Background(), models.RecipientAll, []string{"ignored"})
	require.NoError(t, err)
	require.True(t, resolution.Global)
	require.Empty(t, resolution.StoredIDs)
	require.Empty(t, resolution.Rooms)
}

func TestResolveAllTrainersTargetsUserRooms(t *testing.T) {
	users := &stubUserRepo{idsByRole: map[string][]string{
		models.RoleTrainer: {"t1", "t2"},
	}}
	resolver := NewRecipientResolver(users)

	resolution, err := resolver.Resolve(context.Background(), models.RecipientAllTrainers, nil)
	require.NoError(t, err)
	require.False(t, resolution.Global)
	require.Equal(t, []string{"t1", "t2"}, resolution.StoredIDs)
	require.Equal(t, []string{"user_t1", "user_t2"}, resolution.Rooms)
}

func TestResolveBatchKeepsBatchIDsVerbatim(t *testing.T) {
	resolver := NewRecipientResolver(&stubUserRepo{})

	resolution, err := resolver.Resolve(context.Background(), models.RecipientBatch, []string{"b1", " b2 ", ""})
	require.NoError(t, err)
	require.Equal(t, []string{"b1", "b2"}, resolution.StoredIDs, "batch ids are stored, never expanded to students")
	require.Equal(t, []string{"batch_b1", "batch_b2"}, resolution.Rooms)
}

func TestResolveIndividualTargetsUserRooms(t *testing.T) {
	resolver := NewRecipientResolver(&stubUserRepo{})

	resolution, err := resolver.Resolve(context.Background(), models.RecipientIndividual, []string{"u1"})
	require.NoError(t, err)
	require.Equal(t, []string{"u1"}, resolution.StoredIDs)
	require.Equal(t, []string{"user_u1"}, resolution.Rooms)
}

func TestResolveUnsetTypeStoresIDsWithoutRooms(t *testing.T) {
	resolver := NewRecipientResolver(&stubUserRepo{})

	resolution, err := resolver.Resolve(context.Background(), models.RecipientType(""), []string{"u1", "u2"})
	require.NoError(t, err)
	require.False(t, resolution.Global)
	require.Equal(t, []string{"u1", "u2"}, resolution.StoredIDs)
	require.Empty(t, resolution.Rooms, "no live delivery without a recognised type")
}
