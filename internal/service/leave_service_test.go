package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/lms-api/internal/dto"
	"github.com/skillforge/lms-api/internal/models"
)

func newLeaveFixture(t *testing.T) (*stubLeaveRepo, *stubUserRepo, *stubBatchRepo, *recordingNotificationSender, *recordingActivityRecorder, LeaveService) {
	t.Helper()
	leaves := &stubLeaveRepo{leaves: map[string]models.LeaveRequest{}}
	users := &stubUserRepo{users: map[string]models.User{
		"trainer-1": {ID: "trainer-1", Name: "Priya Sharma", Email: "priya@skillforge.io", Role: models.RoleTrainer},
	}}
	batches := &stubBatchRepo{running: map[string][]models.Batch{
		"trainer-1": {
			{ID: "b1", Name: "Go Basics", TrainerID: "trainer-1", Status: models.BatchStatusRunning},
			{ID: "b2", Name: "Go Advanced", TrainerID: "trainer-1", Status: models.BatchStatusRunning},
		},
	}}
	sender := &recordingNotificationSender{}
	activity := &recordingActivityRecorder{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewLeaveService(leaves, users, batches, sender, activity, validate, testLogger())
	return leaves, users, batches, sender, activity, svc
}

func TestLeaveRequestRejectsInvertedDates(t *testing.T) {
	_, _, _, _, _, svc := newLeaveFixture(t)

	_, err := svc.Request(context.Background(), "trainer-1", dto.LeaveCreateRequest{
		StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, ErrLeaveDatesInvalid)
}

func TestLeaveRequestRecordsActivity(t *testing.T) {
	leaves, _, _, _, activity, svc := newLeaveFixture(t)

	leave, err := svc.Request(context.Background(), "trainer-1", dto.LeaveCreateRequest{
		StartDate: time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		Reason:    "family event",
	})
	require.NoError(t, err)
	require.Equal(t, models.LeaveStatusPending, leave.Status)
	require.Contains(t, leaves.leaves, leave.ID)

	require.Len(t, activity.entries, 1)
	require.Equal(t, "leave_requested", activity.entries[0].Action)
}

func TestLeaveApproveNotifiesRunningBatches(t *testing.T) {
	leaves, _, _, sender, activity, svc := newLeaveFixture(t)
	leaves.leaves["leave-1"] = models.LeaveRequest{
		ID:        "leave-1",
		TrainerID: "trainer-1",
		StartDate: time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		Status:    models.LeaveStatusPending,
	}

	approved, err := svc.Approve(context.Background(), "leave-1", "admin@skillforge.io")
	require.NoError(t, err)
	require.Equal(t, models.LeaveStatusApproved, approved.Status)

	require.Len(t, sender.requests, 1)
	sent := sender.requests[0]
	require.Equal(t, string(models.RecipientBatch), sent.RecipientType)
	require.Equal(t, []string{"b1", "b2"}, sent.RecipientIDs)
	require.Contains(t, sent.Message, "Priya Sharma is on leave from Sep 5, 2026 to Sep 10, 2026")
	require.Equal(t, []string{"admin@skillforge.io"}, sender.senders)

	require.Len(t, activity.entries, 1)
	require.Equal(t, "leave_approved", activity.entries[0].Action)
}

func TestLeaveApproveFailedSendLeavesRequestPending(t *testing.T) {
	leaves, _, _, sender, activity, svc := newLeaveFixture(t)
	leaves.leaves["leave-1"] = models.LeaveRequest{
		ID:        "leave-1",
		TrainerID: "trainer-1",
		StartDate: time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		Status:    models.LeaveStatusPending,
	}
	sender.sendErr = ErrSenderContactNotFound

	_, err := svc.Approve(context.Background(), "leave-1", "ghost@skillforge.io")
	require.ErrorIs(t, err, ErrSenderContactNotFound)

	require.Equal(t, models.LeaveStatusPending, leaves.leaves["leave-1"].Status, "a rejected send must not flip the status")
	require.Empty(t, activity.entries)

	sender.sendErr = nil
	approved, err := svc.Approve(context.Background(), "leave-1", "admin@skillforge.io")
	require.NoError(t, err)
	require.Equal(t, models.LeaveStatusApproved, approved.Status)
}

func TestLeaveApproveUnknownRequest(t *testing.T) {
	_, _, _, _, _, svc := newLeaveFixture(t)

	_, err := svc.Approve(context.Background(), "missing", "admin@skillforge.io")
	require.ErrorIs(t, err, ErrLeaveNotFound)
}

func TestLeaveApproveAlreadyResolved(t *testing.T) {
	leaves, _, _, _, _, svc := newLeaveFixture(t)
	leaves.leaves["leave-1"] = models.LeaveRequest{
		ID:        "leave-1",
		TrainerID: "trainer-1",
		Status:    models.LeaveStatusRejected,
	}

	_, err := svc.Approve(context.Background(), "leave-1", "admin@skillforge.io")
	require.ErrorIs(t, err, ErrLeaveAlreadyResolved)
}

func TestLeaveRejectSkipsNotifications(t *testing.T) {
	leaves, _, _, sender, _, svc := newLeaveFixture(t)
	leaves.leaves["leave-1"] = models.LeaveRequest{
		ID:        "leave-1",
		TrainerID: "trainer-1",
		Status:    models.LeaveStatusPending,
	}

	rejected, err := svc.Reject(context.Background(), "leave-1")
	require.NoError(t, err)
	require.Equal(t, models.LeaveStatusRejected, rejected.Status)
	require.Empty(t, sender.requests)
}
