package entity

import "time"

// IssueStatus is the resolution state of an issue.
type IssueStatus string

const (
	IssueUnresolved IssueStatus = "UNRESOLVED"
	IssueResolved   IssueStatus = "RESOLVED"
)

// Issue records a data inconsistency discovered during reconciliation
// (unknown purchase code, purchase on a deleted item, stock underflow).
// One row per anomalous event; resolution is a manual operator action.
type Issue struct {
	ID         uint        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RaisedTime time.Time   `gorm:"column:raised_time" json:"raised_time"`
	Message    string      `gorm:"column:message;type:varchar(256)" json:"message"`
	Status     IssueStatus `gorm:"column:status;type:varchar(16);not null;default:UNRESOLVED" json:"status"`
	SolvedTime *time.Time  `gorm:"column:solved_time" json:"solved_time,omitempty"`
}

func (Issue) TableName() string {
	return "issues"
}

func (i *Issue) IsResolved() bool {
	return i.Status == IssueResolved
}

// Resolve flags the issue as resolved and records when.
func (i *Issue) Resolve(now time.Time) {
	i.Status = IssueResolved
	i.SolvedTime = &now
}
