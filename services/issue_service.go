package services

import (
	"errors"
	"fmt"
	"time"

	"issuetrack-restful/models"
	"issuetrack-restful/policy"
	"issuetrack-restful/repositories"

	"gorm.io/gorm"
)

// IssueService defines the issue-tracking business operations.
type IssueService interface {
	CreateIssue(input *CreateIssueInput) (*models.Issue, error)
	GetIssueByID(id uint) (*models.Issue, error)
	UpdateIssue(actor policy.Identity, id uint, input *UpdateIssueInput) (*models.Issue, error)
	DeleteIssue(actor policy.Identity, id uint) (*models.Issue, error)
	ListIssues() ([]models.Issue, error)
}

// CreateIssueInput carries the issue creation payload. Title, description
// and category are required; priority and status fall back to server
// defaults when omitted.
type CreateIssueInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	File        string     `json:"file"`
	FileType    string     `json:"fileType"`
	AssigneeID  *uint      `json:"assigneeId"`
}

// UpdateIssueInput uses pointers so absent fields leave stored values
// untouched.
type UpdateIssueInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	File        *string    `json:"file"`
	FileType    *string    `json:"fileType"`
	AssigneeID  *uint      `json:"assigneeId"`
}

type issueService struct {
	repo  repositories.IssueRepository
	users repositories.UserRepository
}

var _ IssueService = (*issueService)(nil)

// NewIssueService creates a new IssueService instance.
func NewIssueService(repo repositories.IssueRepository, users repositories.UserRepository) IssueService {
	return &issueService{repo: repo, users: users}
}

func (s *issueService) CreateIssue(input *CreateIssueInput) (*models.Issue, error) {
	if input.Title == "" || input.Description == "" || input.Category == "" {
		return nil, fmt.Errorf("%w: title, description and category are required", ErrValidation)
	}

	priority := models.PriorityMedium
	if input.Priority != "" {
		priority = models.Priority(input.Priority)
		if !priority.Valid() {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, input.Priority)
		}
	}
	status := models.StatusTodo
	if input.Status != "" {
		status = models.Status(input.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, input.Status)
		}
	}

	if input.AssigneeID != nil {
		if err := s.checkAssignee(*input.AssigneeID); err != nil {
			return nil, err
		}
	}

	issue := models.Issue{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    priority,
		Status:      status,
		Deadline:    input.Deadline,
		File:        input.File,
		FileType:    input.FileType,
		AssigneeID:  input.AssigneeID,
	}
	if err := s.repo.Create(&issue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	return &issue, nil
}

func (s *issueService) GetIssueByID(id uint) (*models.Issue, error) {
	issue, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: issue %d", ErrNotFound, id)
		}
		return nil, err
	}
	return issue, nil
}

// UpdateIssue applies a partial merge. Mutation requires the acting
// identity to be the issue's assignee or an admin.
func (s *issueService) UpdateIssue(actor policy.Identity, id uint, input *UpdateIssueInput) (*models.Issue, error) {
	issue, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: issue %d", ErrNotFound, id)
		}
		return nil, err
	}

	if !policy.CanMutateIssue(actor, issue.AssigneeID) {
		return nil, ErrForbidden
	}

	changed := false
	changed = patch(&issue.Title, input.Title) || changed
	changed = patch(&issue.Description, input.Description) || changed
	changed = patch(&issue.Category, input.Category) || changed
	changed = patch(&issue.File, input.File) || changed
	changed = patch(&issue.FileType, input.FileType) || changed
	changed = patchRef(&issue.Deadline, input.Deadline) || changed

	if input.Priority != nil {
		priority := models.Priority(*input.Priority)
		if !priority.Valid() {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, *input.Priority)
		}
		if issue.Priority != priority {
			issue.Priority = priority
			changed = true
		}
	}
	if input.Status != nil {
		status := models.Status(*input.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *input.Status)
		}
		if issue.Status != status {
			issue.Status = status
			changed = true
		}
	}
	if input.AssigneeID != nil {
		if err := s.checkAssignee(*input.AssigneeID); err != nil {
			return nil, err
		}
		issue.AssigneeID = input.AssigneeID
		changed = true
	}

	if changed {
		if err := s.repo.Update(issue); err != nil {
			return nil, fmt.Errorf("failed to save issue updates: %w", err)
		}
	}

	// Re-read so the response carries the current assignee and comments.
	return s.repo.FindByID(issue.ID)
}

// DeleteIssue removes the issue and returns its prior state.
func (s *issueService) DeleteIssue(actor policy.Identity, id uint) (*models.Issue, error) {
	issue, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: issue %d", ErrNotFound, id)
		}
		return nil, err
	}

	if !policy.CanMutateIssue(actor, issue.AssigneeID) {
		return nil, ErrForbidden
	}

	if err := s.repo.Delete(issue); err != nil {
		return nil, fmt.Errorf("failed to delete issue: %w", err)
	}
	return issue, nil
}

func (s *issueService) ListIssues() ([]models.Issue, error) {
	issues, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	return issues, nil
}

// checkAssignee enforces the referential rule that an assignee, if present,
// resolves to an existing user.
func (s *issueService) checkAssignee(id uint) error {
	if _, err := s.users.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: assignee %d does not exist", ErrValidation, id)
		}
		return fmt.Errorf("checking assignee: %w", err)
	}
	return nil
}
