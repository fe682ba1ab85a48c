package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SyncKindChannel  = "channel"
	SyncKindCalendar = "ics"
)

// SyncRun is an audit row for one bulk synchronization pass. Per-property
// failures are counted here, they never abort the run.
type SyncRun struct {
	gorm.Model
	Kind       string    `json:"kind" gorm:"type:varchar(10);not null;index"`
	Success    int       `json:"success"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}
