package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillforge/lms-api/internal/models"
)

func TestUserRepositoryRoleQueries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	batchID := "b1"
	users := []models.User{
		{ID: "t1", Name: "Trainer One", Email: "t1@example.com", Role: models.RoleTrainer, CreatedAt: time.Now().Add(-2 * time.Hour)},
		{ID: "s1", Name: "Student One", Email: "s1@example.com", Role: models.RoleStudent, BatchID: &batchID, CreatedAt: time.Now().Add(-1 * time.Hour)},
		{ID: "s2", Name: "Student Two", Email: "s2@example.com", Role: models.RoleStudent, CreatedAt: time.Now()},
	}
	for i := range users {
		require.NoError(t, repo.Create(ctx, &users[i]))
	}

	ids, err := repo.ListIDsByRole(ctx, models.RoleStudent)
	require.NoError(t, err)
	require.Equal(t, []string{"s1", "s2"}, ids)

	trainers, err := repo.ListByRole(ctx, models.RoleTrainer)
	require.NoError(t, err)
	require.Len(t, trainers, 1)

	everyone, err := repo.ListByRole(ctx, "")
	require.NoError(t, err)
	require.Len(t, everyone, 3)

	inBatch, err := repo.ListByBatch(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, inBatch, 1)
	require.Equal(t, "s1", inBatch[0].ID)

	found, err := repo.FindByEmail(ctx, "  T1@Example.com ")
	require.NoError(t, err)
	require.Equal(t, "t1", found.ID)
}
