package repositories

import (
	"issuetrack-restful/models"

	"gorm.io/gorm"
)

// CommentRepository defines Comment-related database operations. Reads
// eagerly load the author and parent issue.
type CommentRepository interface {
	Create(comment *models.Comment) error
	FindByID(id uint) (*models.Comment, error)
	Update(comment *models.Comment) error
	Delete(comment *models.Comment) error
	FindAll() ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository instance.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) FindByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("Author").Preload("Issue").First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Update(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

func (r *commentRepository) Delete(comment *models.Comment) error {
	return r.db.Delete(comment).Error
}

func (r *commentRepository) FindAll() ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").Preload("Issue").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
