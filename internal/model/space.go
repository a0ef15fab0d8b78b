package model

import "time"

const (
	SpaceStatusReady      = "ready"
	SpaceStatusProcessing = "processing"
)

const (
	RoundStatusNotCompleted = "not completed"
	RoundStatusCompleted    = "completed"
)

// InterviewRound is stored inside the Space row as part of a JSON column.
// Statuses beyond the two known constants are passed through opaquely; the
// downstream processing stage may introduce its own.
type InterviewRound struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Summary string `json:"summary,omitempty"`
}

type Space struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	OwnerToken      string           `gorm:"size:16;not null;index" json:"owner_token"`
	Name            string           `gorm:"size:128;not null" json:"name"`
	Description     string           `gorm:"type:text;not null" json:"description"`
	TaskType        string           `gorm:"size:64;not null" json:"task_type"`
	Filepaths       []string         `gorm:"serializer:json;type:text" json:"filepaths"`
	Status          string           `gorm:"size:32;not null" json:"status"`
	JobDescription  string           `gorm:"type:text" json:"job_description,omitempty"`
	PurifiedSummary string           `gorm:"type:text" json:"purified_summary,omitempty"`
	InterviewRounds []InterviewRound `gorm:"serializer:json;type:text" json:"interview_rounds,omitempty"`
	ResumePath      string           `gorm:"size:512" json:"resume_path,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
