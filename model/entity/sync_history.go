package entity

import (
	"time"

	"gorm.io/datatypes"
)

// ConnectionType tags what kind of run a SyncHistory row describes.
type ConnectionType string

const (
	ConnectionSync  ConnectionType = "SYNC"
	ConnectionReset ConnectionType = "RESET"
)

// SyncHistory is the audit record of one orchestrated run, written exactly
// once when the run reaches a terminal state. ErrorCode 0 means success.
// Details carries per-category delta counts and flag-reset counters as JSON.
type SyncHistory struct {
	ID              uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RemoteName      string         `gorm:"column:remote_name;type:varchar(50)" json:"remote_name"`
	TimestampStart  time.Time      `gorm:"column:timestamp_start" json:"timestamp_start"`
	TimestampEnd    time.Time      `gorm:"column:timestamp_end" json:"timestamp_end"`
	ErrorCode       int            `gorm:"column:error_code;not null;default:0" json:"error_code"`
	ConnectionType  ConnectionType `gorm:"column:connection_type;type:varchar(16);not null" json:"connection_type"`
	UpdatesReceived int            `gorm:"column:updates_received;not null;default:0" json:"updates_received"`
	UpdatesSent     int            `gorm:"column:updates_sent;not null;default:0" json:"updates_sent"`
	Details         datatypes.JSON `gorm:"column:details" json:"details,omitempty"`
}

func (SyncHistory) TableName() string {
	return "sync_history"
}

func (s *SyncHistory) Succeeded() bool {
	return s.ErrorCode == 0
}
