package models

import "time"

// Batch statuses.
const (
	BatchStatusUpcoming  = "upcoming"
	BatchStatusRunning   = "running"
	BatchStatusCompleted = "completed"
)

// Batch groups students under a trainer for a course run.
type Batch struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	CourseName string    `gorm:"size:255" json:"course_name"`
	TrainerID  string    `gorm:"size:64;index" json:"trainer_id"`
	Status     string    `gorm:"size:32;not null;default:upcoming;index" json:"status"`
	StartDate  time.Time `json:"start_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Material is a file shared with a batch, stored in Cloudinary.
type Material struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	BatchID    string    `gorm:"size:64;index;not null" json:"batch_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	FileURL    string    `gorm:"size:1024;not null" json:"file_url"`
	PublicID   string    `gorm:"size:255" json:"public_id"`
	Format     string    `gorm:"size:64" json:"format"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedBy string    `gorm:"size:64" json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}
