package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/lms-api/internal/dto"
	"github.com/skillforge/lms-api/internal/models"
)

func newRosterFixture(t *testing.T) (*stubUserRepo, *stubContactRepo, *stubBatchRepo, RosterService) {
	t.Helper()
	users := &stubUserRepo{users: map[string]models.User{}}
	contacts := &stubContactRepo{}
	batches := &stubBatchRepo{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewRosterService(users, contacts, batches, &recordingActivityRecorder{}, validate, testLogger())
	return users, contacts, batches, svc
}

func TestCreateUserAlsoCreatesContactRecord(t *testing.T) {
	users, contacts, _, svc := newRosterFixture(t)

	user, err := svc.CreateUser(context.Background(), dto.UserCreateRequest{
		Name:  "Priya Sharma",
		Email: "Priya@SkillForge.io",
		Role:  models.RoleTrainer,
	})
	require.NoError(t, err)
	require.Equal(t, "priya@skillforge.io", user.Email, "emails are stored lowercased")
	require.Contains(t, users.users, user.ID)

	require.Len(t, contacts.created, 1)
	require.Equal(t, "priya@skillforge.io", contacts.created[0].Email)
	require.Equal(t, "Priya Sharma", contacts.created[0].Name)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	_, _, _, svc := newRosterFixture(t)

	_, err := svc.CreateUser(context.Background(), dto.UserCreateRequest{
		Name:  "Nobody",
		Email: "nobody@skillforge.io",
		Role:  "superuser",
	})
	require.Error(t, err)
}

func TestCreateBatchRequiresExistingTrainer(t *testing.T) {
	_, _, _, svc := newRosterFixture(t)

	_, err := svc.CreateBatch(context.Background(), dto.BatchCreateRequest{
		Name:      "Go Basics",
		TrainerID: "missing",
	})
	require.ErrorIs(t, err, ErrTrainerNotFound)
}

func TestCreateBatchRejectsNonTrainerOwner(t *testing.T) {
	users, _, _, svc := newRosterFixture(t)
	users.users["student-1"] = models.User{ID: "student-1", Role: models.RoleStudent}

	_, err := svc.CreateBatch(context.Background(), dto.BatchCreateRequest{
		Name:      "Go Basics",
		TrainerID: "student-1",
	})
	require.ErrorIs(t, err, ErrTrainerNotFound)
}

func TestCreateBatchDefaultsToUpcoming(t *testing.T) {
	users, _, batches, svc := newRosterFixture(t)
	users.users["trainer-1"] = models.User{ID: "trainer-1", Name: "Priya", Role: models.RoleTrainer}

	batch, err := svc.CreateBatch(context.Background(), dto.BatchCreateRequest{
		Name:      "Go Basics",
		TrainerID: "trainer-1",
	})
	require.NoError(t, err)
	require.Equal(t, models.BatchStatusUpcoming, batch.Status)
	require.Contains(t, batches.batches, batch.ID)
}
