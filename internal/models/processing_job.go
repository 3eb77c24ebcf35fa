package models

import "time"

type WatermarkJob struct {
	ID        string           `json:"id"`
	Request   WatermarkRequest `json:"request"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Result    *WatermarkResult `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
