package models

import "gorm.io/gorm"

// Comment belongs to exactly one Issue and one author. The author and issue
// references are fixed at creation; only content and attachment may change.
type Comment struct {
	gorm.Model
	Content  string `gorm:"not null" json:"content"`
	File     string `json:"file,omitempty"`
	FileType string `json:"fileType,omitempty"`
	AuthorID uint   `gorm:"not null" json:"authorId"`
	Author   *User  `json:"author,omitempty"`
	IssueID  uint   `gorm:"not null" json:"issueId"`
	Issue    *Issue `json:"issue,omitempty"`
}
