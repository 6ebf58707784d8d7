package services

import (
	"errors"
	"fmt"

	"issuetrack-restful/models"
	"issuetrack-restful/policy"
	"issuetrack-restful/repositories"

	"gorm.io/gorm"
)

// CommentService defines comment operations, including the notification
// side effect on creation.
type CommentService interface {
	// CreateComment persists the comment and then, if the parent issue has
	// an assignee, creates one notification for that assignee. The
	// notification write is best-effort: its failure is returned as warn,
	// distinct from err, and never rolls back the comment.
	CreateComment(actor policy.Identity, input *CreateCommentInput) (comment *models.Comment, warn error, err error)
	GetCommentByID(id uint) (*models.Comment, error)
	UpdateComment(actor policy.Identity, id uint, input *UpdateCommentInput) (*models.Comment, error)
	DeleteComment(actor policy.Identity, id uint) (*models.Comment, error)
	ListComments() ([]models.Comment, error)
}

// CreateCommentInput carries the comment payload. The author is always the
// acting identity, never a client-supplied field.
type CreateCommentInput struct {
	Content  string `json:"content"`
	File     string `json:"file"`
	FileType string `json:"fileType"`
	IssueID  uint   `json:"issueId"`
}

// UpdateCommentInput permits editing content and attachment only; the
// author and issue references are immutable after creation.
type UpdateCommentInput struct {
	Content  *string `json:"content"`
	File     *string `json:"file"`
	FileType *string `json:"fileType"`
}

type commentService struct {
	repo          repositories.CommentRepository
	issues        repositories.IssueRepository
	notifications repositories.NotificationRepository
}

var _ CommentService = (*commentService)(nil)

// NewCommentService creates a new CommentService instance.
func NewCommentService(repo repositories.CommentRepository, issues repositories.IssueRepository, notifications repositories.NotificationRepository) CommentService {
	return &commentService{repo: repo, issues: issues, notifications: notifications}
}

func (s *commentService) CreateComment(actor policy.Identity, input *CreateCommentInput) (*models.Comment, error, error) {
	if input.Content == "" {
		return nil, nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	issue, err := s.issues.FindByID(input.IssueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: issue %d", ErrNotFound, input.IssueID)
		}
		return nil, nil, fmt.Errorf("looking up issue: %w", err)
	}

	comment := models.Comment{
		Content:  input.Content,
		File:     input.File,
		FileType: input.FileType,
		AuthorID: actor.ID,
		IssueID:  issue.ID,
	}
	if err := s.repo.Create(&comment); err != nil {
		return nil, nil, fmt.Errorf("failed to create comment: %w", err)
	}

	var warn error
	if issue.AssigneeID != nil {
		notification := models.Notification{
			Message:     fmt.Sprintf("New comment on your assigned issue: %q", input.Content),
			RecipientID: *issue.AssigneeID,
		}
		if err := s.notifications.Create(&notification); err != nil {
			warn = fmt.Errorf("comment saved but notification failed: %w", err)
		}
	}

	return &comment, warn, nil
}

func (s *commentService) GetCommentByID(id uint) (*models.Comment, error) {
	comment, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %d", ErrNotFound, id)
		}
		return nil, err
	}
	return comment, nil
}

// UpdateComment applies a partial merge of content and attachment. Only the
// author or an admin may edit.
func (s *commentService) UpdateComment(actor policy.Identity, id uint, input *UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %d", ErrNotFound, id)
		}
		return nil, err
	}

	if !policy.CanMutateComment(actor, comment.AuthorID) {
		return nil, ErrForbidden
	}

	changed := false
	changed = patch(&comment.Content, input.Content) || changed
	changed = patch(&comment.File, input.File) || changed
	changed = patch(&comment.FileType, input.FileType) || changed

	if changed {
		if err := s.repo.Update(comment); err != nil {
			return nil, fmt.Errorf("failed to save comment updates: %w", err)
		}
	}
	return comment, nil
}

// DeleteComment removes the comment and returns its prior state.
func (s *commentService) DeleteComment(actor policy.Identity, id uint) (*models.Comment, error) {
	comment, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %d", ErrNotFound, id)
		}
		return nil, err
	}

	if !policy.CanMutateComment(actor, comment.AuthorID) {
		return nil, ErrForbidden
	}

	if err := s.repo.Delete(comment); err != nil {
		return nil, fmt.Errorf("failed to delete comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) ListComments() ([]models.Comment, error) {
	comments, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
