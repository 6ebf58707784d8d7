package models

import (
	"time"

	"gorm.io/gorm"
)

// Priority levels for an Issue.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status values an Issue moves through.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Issue struct {
	gorm.Model
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"not null" json:"description"`
	Category    string     `gorm:"not null" json:"category"`
	Priority    Priority   `gorm:"not null;default:MEDIUM" json:"priority"`
	Status      Status     `gorm:"not null;default:TODO" json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	File        string     `json:"file,omitempty"`
	FileType    string     `json:"fileType,omitempty"`
	AssigneeID  *uint      `json:"assigneeId,omitempty"`
	Assignee    *User      `json:"assignee,omitempty"`
	Comments    []Comment  `json:"comments,omitempty"`
}
