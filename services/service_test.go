package services

import (
	"testing"

	"issuetrack-restful/models"
	"issuetrack-restful/policy"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh in-memory database per test so cases stay
// isolated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	err = db.AutoMigrate(&models.User{}, &models.Issue{}, &models.Comment{}, &models.Notification{})
	require.NoError(t, err)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Name:     username,
		Password: "irrelevant-hash",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func identityOf(user *models.User) policy.Identity {
	return policy.Identity{ID: user.ID, Username: user.Username, Role: user.Role}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func uintPtr(u uint) *uint    { return &u }
