package services

import (
	"testing"

	"issuetrack-restful/models"
	"issuetrack-restful/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T) (UserService, repositories.UserRepository) {
	t.Helper()
	db := setupTestDB(t)
	repo := repositories.NewUserRepository(db)
	return NewUserService(repo), repo
}

func TestCreateUser(t *testing.T) {
	t.Run("success hashes the password", func(t *testing.T) {
		svc, repo := newUserService(t)

		user, err := svc.CreateUser(&CreateUserInput{
			Username: "dev1",
			Name:     "Dev One",
			Role:     "developer",
			Email:    "dev1@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleDeveloper, user.Role)
		assert.NotEqual(t, "password123", user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))

		stored, err := repo.FindByEmail("dev1@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("duplicate email conflicts and leaves the first record intact", func(t *testing.T) {
		svc, repo := newUserService(t)

		first, err := svc.CreateUser(&CreateUserInput{
			Username: "dev1", Name: "Dev One", Role: "developer",
			Email: "shared@example.com", Password: "password123",
		})
		require.NoError(t, err)

		_, err = svc.CreateUser(&CreateUserInput{
			Username: "dev2", Name: "Dev Two", Role: "developer",
			Email: "shared@example.com", Password: "password456",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)

		stored, err := repo.FindByEmail("shared@example.com")
		require.NoError(t, err)
		assert.Equal(t, first.ID, stored.ID)
		assert.Equal(t, "dev1", stored.Username)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		svc, _ := newUserService(t)

		_, err := svc.CreateUser(&CreateUserInput{
			Username: "same", Name: "A", Role: "reporter",
			Email: "a@example.com", Password: "password123",
		})
		require.NoError(t, err)

		_, err = svc.CreateUser(&CreateUserInput{
			Username: "same", Name: "B", Role: "reporter",
			Email: "b@example.com", Password: "password123",
		})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("short password is a validation failure", func(t *testing.T) {
		svc, _ := newUserService(t)
		_, err := svc.CreateUser(&CreateUserInput{
			Username: "x", Name: "X", Role: "reporter",
			Email: "x@example.com", Password: "short",
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown role is a validation failure", func(t *testing.T) {
		svc, _ := newUserService(t)
		_, err := svc.CreateUser(&CreateUserInput{
			Username: "x", Name: "X", Role: "superuser",
			Email: "x@example.com", Password: "password123",
		})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("partial merge leaves absent fields untouched", func(t *testing.T) {
		db := setupTestDB(t)
		repo := repositories.NewUserRepository(db)
		svc := NewUserService(repo)
		user := createTestUser(t, db, "dev", models.RoleDeveloper)

		updated, err := svc.UpdateUser(identityOf(user), user.ID, &UpdateUserInput{Name: strPtr("New Name")})
		require.NoError(t, err)
		assert.Equal(t, "New Name", updated.Name)
		assert.Equal(t, "dev", updated.Username)
		assert.Equal(t, "dev@example.com", updated.Email)
		assert.Equal(t, models.RoleDeveloper, updated.Role)
	})

	t.Run("applying the same partial update twice is idempotent", func(t *testing.T) {
		db := setupTestDB(t)
		repo := repositories.NewUserRepository(db)
		svc := NewUserService(repo)
		user := createTestUser(t, db, "dev", models.RoleDeveloper)

		input := &UpdateUserInput{Name: strPtr("Renamed"), Email: strPtr("renamed@example.com")}
		once, err := svc.UpdateUser(identityOf(user), user.ID, input)
		require.NoError(t, err)
		twice, err := svc.UpdateUser(identityOf(user), user.ID, input)
		require.NoError(t, err)

		assert.Equal(t, once.Name, twice.Name)
		assert.Equal(t, once.Email, twice.Email)
		assert.Equal(t, once.Username, twice.Username)
		assert.Equal(t, once.Role, twice.Role)
	})

	t.Run("non-admin cannot update another user", func(t *testing.T) {
		db := setupTestDB(t)
		repo := repositories.NewUserRepository(db)
		svc := NewUserService(repo)
		actor := createTestUser(t, db, "dev", models.RoleDeveloper)
		target := createTestUser(t, db, "other", models.RoleReporter)

		_, err := svc.UpdateUser(identityOf(actor), target.ID, &UpdateUserInput{Name: strPtr("Hacked")})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("email collision with another account conflicts", func(t *testing.T) {
		db := setupTestDB(t)
		repo := repositories.NewUserRepository(db)
		svc := NewUserService(repo)
		admin := createTestUser(t, db, "admin", models.RoleAdmin)
		createTestUser(t, db, "taken", models.RoleReporter)

		_, err := svc.UpdateUser(identityOf(admin), admin.ID, &UpdateUserInput{Email: strPtr("taken@example.com")})
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("non-admin deleting another user is forbidden", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewUserService(repositories.NewUserRepository(db))
		actor := createTestUser(t, db, "dev", models.RoleDeveloper)
		target := createTestUser(t, db, "victim", models.RoleReporter)

		_, err := svc.DeleteUser(identityOf(actor), target.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("self delete succeeds and returns the prior record", func(t *testing.T) {
		db := setupTestDB(t)
		repo := repositories.NewUserRepository(db)
		svc := NewUserService(repo)
		actor := createTestUser(t, db, "dev", models.RoleDeveloper)

		deleted, err := svc.DeleteUser(identityOf(actor), actor.ID)
		require.NoError(t, err)
		assert.Equal(t, "dev", deleted.Username)

		_, err = svc.GetUserByID(actor.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewUserService(repositories.NewUserRepository(db))
		admin := createTestUser(t, db, "admin", models.RoleAdmin)

		_, err := svc.DeleteUser(identityOf(admin), 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListUsers(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repositories.NewUserRepository(db))
	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	dev := createTestUser(t, db, "dev", models.RoleDeveloper)

	t.Run("admin receives the projection without ids or hashes", func(t *testing.T) {
		projections, err := svc.ListUsers(identityOf(admin))
		require.NoError(t, err)
		assert.Len(t, projections, 2)
		for _, p := range projections {
			assert.NotEmpty(t, p.Email)
			assert.NotEmpty(t, p.Role)
		}
	})

	t.Run("non-admin is refused", func(t *testing.T) {
		_, err := svc.ListUsers(identityOf(dev))
		assert.ErrorIs(t, err, ErrForbidden)
	})
}
