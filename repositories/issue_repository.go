package repositories

import (
	"issuetrack-restful/models"

	"gorm.io/gorm"
)

// IssueRepository defines Issue-related database operations. Reads eagerly
// load the assignee and comments so list rendering needs no follow-up
// queries per row.
type IssueRepository interface {
	Create(issue *models.Issue) error
	FindByID(id uint) (*models.Issue, error)
	Update(issue *models.Issue) error
	Delete(issue *models.Issue) error
	FindAll() ([]models.Issue, error)
}

type issueRepository struct {
	db *gorm.DB
}

// NewIssueRepository creates a new IssueRepository instance.
func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &issueRepository{db: db}
}

func (r *issueRepository) Create(issue *models.Issue) error {
	return r.db.Create(issue).Error
}

func (r *issueRepository) FindByID(id uint) (*models.Issue, error) {
	var issue models.Issue
	err := r.db.Preload("Assignee").Preload("Comments").First(&issue, id).Error
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *issueRepository) Update(issue *models.Issue) error {
	return r.db.Save(issue).Error
}

func (r *issueRepository) Delete(issue *models.Issue) error {
	return r.db.Delete(issue).Error
}

func (r *issueRepository) FindAll() ([]models.Issue, error) {
	var issues []models.Issue
	err := r.db.Preload("Assignee").Preload("Comments").Find(&issues).Error
	if err != nil {
		return nil, err
	}
	return issues, nil
}
