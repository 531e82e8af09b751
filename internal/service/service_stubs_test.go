package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/skillforge/lms-api/internal/dto"
	"github.com/skillforge/lms-api/internal/models"
	"github.com/skillforge/lms-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type stubUserRepo struct {
	users      map[string]models.User
	idsByRole  map[string][]string
	listErr    error
	findErrors map[string]error
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if s.users == nil {
		s.users = make(map[string]models.User)
	}
	s.users[user.ID] = *user
	return nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (models.User, error) {
	if err, ok := s.findErrors[id]; ok {
		return models.User{}, err
	}
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.User, 0)
	for _, user := range s.users {
		if role == "" || user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}

func (s *stubUserRepo) ListIDsByRole(ctx context.Context, role string) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.idsByRole[role], nil
}

func (s *stubUserRepo) ListByBatch(ctx context.Context, batchID string) ([]models.User, error) {
	return nil, nil
}

type stubContactRepo struct {
	contacts map[string]models.Contact
	created  []models.Contact
}

func (s *stubContactRepo) Create(ctx context.Context, contact *models.Contact) error {
	s.created = append(s.created, *contact)
	return nil
}

func (s *stubContactRepo) FindByEmail(ctx context.Context, email string) (models.Contact, error) {
	if contact, ok := s.contacts[email]; ok {
		return contact, nil
	}
	return models.Contact{}, gorm.ErrRecordNotFound
}

type stubBatchRepo struct {
	batches map[string]models.Batch
	running map[string][]models.Batch
}

func (s *stubBatchRepo) Create(ctx context.Context, batch *models.Batch) error {
	if s.batches == nil {
		s.batches = make(map[string]models.Batch)
	}
	s.batches[batch.ID] = *batch
	return nil
}

func (s *stubBatchRepo) FindByID(ctx context.Context, id string) (models.Batch, error) {
	if batch, ok := s.batches[id]; ok {
		return batch, nil
	}
	return models.Batch{}, gorm.ErrRecordNotFound
}

func (s *stubBatchRepo) List(ctx context.Context) ([]models.Batch, error) {
	out := make([]models.Batch, 0, len(s.batches))
	for _, batch := range s.batches {
		out = append(out, batch)
	}
	return out, nil
}

func (s *stubBatchRepo) ListRunningByTrainer(ctx context.Context, trainerID string) ([]models.Batch, error) {
	return s.running[trainerID], nil
}

type stubLeaveRepo struct {
	leaves   map[string]models.LeaveRequest
	statuses map[string]string
}

func (s *stubLeaveRepo) Create(ctx context.Context, leave *models.LeaveRequest) error {
	if s.leaves == nil {
		s.leaves = make(map[string]models.LeaveRequest)
	}
	s.leaves[leave.ID] = *leave
	return nil
}

func (s *stubLeaveRepo) FindByID(ctx context.Context, id string) (models.LeaveRequest, error) {
	if leave, ok := s.leaves[id]; ok {
		return leave, nil
	}
	return models.LeaveRequest{}, gorm.ErrRecordNotFound
}

func (s *stubLeaveRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if _, ok := s.leaves[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	if s.statuses == nil {
		s.statuses = make(map[string]string)
	}
	s.statuses[id] = status
	leave := s.leaves[id]
	leave.Status = status
	s.leaves[id] = leave
	return nil
}

func (s *stubLeaveRepo) ListByTrainer(ctx context.Context, trainerID string) ([]models.LeaveRequest, error) {
	out := make([]models.LeaveRequest, 0)
	for _, leave := range s.leaves {
		if leave.TrainerID == trainerID {
			out = append(out, leave)
		}
	}
	return out, nil
}

func (s *stubLeaveRepo) ListByStatus(ctx context.Context, status string) ([]models.LeaveRequest, error) {
	out := make([]models.LeaveRequest, 0)
	for _, leave := range s.leaves {
		if leave.Status == status {
			out = append(out, leave)
		}
	}
	return out, nil
}

type memoryNotificationRepo struct {
	createErr     error
	notifications []models.Notification
}

func (m *memoryNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	notification.ID = uint(len(m.notifications) + 1)
	notification.CreatedAt = time.Now()
	m.notifications = append(m.notifications, *notification)
	return nil
}

func (m *memoryNotificationRepo) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return append([]models.Notification(nil), m.notifications...), nil
}

func (m *memoryNotificationRepo) MarkRead(ctx context.Context, id uint, userID string) (models.Notification, error) {
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].MarkReadBy(userID)
			return m.notifications[i], nil
		}
	}
	return models.Notification{}, gorm.ErrRecordNotFound
}

func (m *memoryNotificationRepo) FindByID(ctx context.Context, id uint) (models.Notification, error) {
	for _, notification := range m.notifications {
		if notification.ID == id {
			return notification, nil
		}
	}
	return models.Notification{}, gorm.ErrRecordNotFound
}

type memoryActivityRepo struct {
	mu        sync.Mutex
	createErr error
	entries   []models.ActivityLog
}

func (m *memoryActivityRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	entry.ID = uint(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryActivityRepo) List(ctx context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ActivityLog(nil), m.entries...), int64(len(m.entries)), nil
}

type emission struct {
	Room  string
	Event string
}

// recordingBroadcaster captures emits for assertions.
type recordingBroadcaster struct {
	mu      sync.Mutex
	rooms   []emission
	globals []string
}

func (r *recordingBroadcaster) EmitToRoom(room, event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms = append(r.rooms, emission{Room: room, Event: event})
}

func (r *recordingBroadcaster) EmitGlobal(event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.globals = append(r.globals, event)
}

func (r *recordingBroadcaster) roomEmissions() []emission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]emission(nil), r.rooms...)
}

func (r *recordingBroadcaster) globalEmissions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.globals...)
}

type panickingBroadcaster struct{}

func (panickingBroadcaster) EmitToRoom(string, string, interface{}) { panic("broadcast down") }
func (panickingBroadcaster) EmitGlobal(string, interface{})        { panic("broadcast down") }

// recordingNotificationSender satisfies NotificationService for callers that
// only need Send.
type recordingNotificationSender struct {
	sendErr  error
	requests []dto.NotificationSendRequest
	senders  []string
}

func (r *recordingNotificationSender) Send(ctx context.Context, payload dto.NotificationSendRequest, senderEmail string) (dto.NotificationResponse, error) {
	if r.sendErr != nil {
		return dto.NotificationResponse{}, r.sendErr
	}
	r.requests = append(r.requests, payload)
	r.senders = append(r.senders, senderEmail)
	return dto.NotificationResponse{ID: uint(len(r.requests))}, nil
}

func (r *recordingNotificationSender) ListForUser(ctx context.Context, userID string) ([]dto.NotificationResponse, error) {
	return nil, nil
}

func (r *recordingNotificationSender) MarkRead(ctx context.Context, id uint, userID string) (dto.NotificationResponse, error) {
	return dto.NotificationResponse{}, nil
}

type recordingActivityRecorder struct {
	entries []ActivityEntry
}

func (r *recordingActivityRecorder) Record(ctx context.Context, entry ActivityEntry) dto.ActivityLogResponse {
	r.entries = append(r.entries, entry)
	return dto.ActivityLogResponse{ID: uint(len(r.entries)), Action: entry.Action}
}
