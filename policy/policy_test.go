package policy

import (
	"testing"

	"issuetrack-restful/models"

	"github.com/stretchr/testify/assert"
)

func TestCanMutateUser(t *testing.T) {
	admin := Identity{ID: 1, Username: "admin", Role: models.RoleAdmin}
	dev := Identity{ID: 2, Username: "dev", Role: models.RoleDeveloper}

	assert.True(t, CanMutateUser(dev, 2), "users may mutate their own record")
	assert.False(t, CanMutateUser(dev, 3), "non-admins may not mutate other records")
	assert.True(t, CanMutateUser(admin, 3), "admins may mutate any record")
}

func TestCanMutateIssue(t *testing.T) {
	admin := Identity{ID: 1, Role: models.RoleAdmin}
	dev := Identity{ID: 2, Role: models.RoleDeveloper}
	assignee := uint(2)
	other := uint(7)

	assert.True(t, CanMutateIssue(dev, &assignee))
	assert.False(t, CanMutateIssue(dev, &other))
	assert.False(t, CanMutateIssue(dev, nil), "unassigned issues are admin-only")
	assert.True(t, CanMutateIssue(admin, nil))
	assert.True(t, CanMutateIssue(admin, &other))
}

func TestCanMutateCommentAndNotification(t *testing.T) {
	admin := Identity{ID: 1, Role: models.RoleAdmin}
	reporter := Identity{ID: 5, Role: models.RoleReporter}

	assert.True(t, CanMutateComment(reporter, 5))
	assert.False(t, CanMutateComment(reporter, 6))
	assert.True(t, CanMutateComment(admin, 6))

	assert.True(t, CanMutateNotification(reporter, 5))
	assert.False(t, CanMutateNotification(reporter, 6))
	assert.True(t, CanMutateNotification(admin, 6))
}

func TestGuardDashboard(t *testing.T) {
	reporter := &Identity{ID: 5, Username: "rep", Role: models.RoleReporter}
	developer := &Identity{ID: 6, Username: "dev", Role: models.RoleDeveloper}

	t.Run("never redirects while loading", func(t *testing.T) {
		s := Session{State: StateLoading}
		assert.Equal(t, DecisionWait, GuardDashboard(s, models.RoleDeveloper))

		// Even a loading session that will turn out mismatched must wait.
		s = Session{State: StateLoading, Identity: reporter}
		assert.Equal(t, DecisionWait, GuardDashboard(s, models.RoleDeveloper))
	})

	t.Run("reporter on developer dashboard redirects once settled", func(t *testing.T) {
		s := Session{State: StateAuthenticated, Identity: reporter}
		assert.Equal(t, DecisionRedirectSignIn, GuardDashboard(s, models.RoleDeveloper))
	})

	t.Run("exact role match allows", func(t *testing.T) {
		s := Session{State: StateAuthenticated, Identity: developer}
		assert.Equal(t, DecisionAllow, GuardDashboard(s, models.RoleDeveloper))
	})

	t.Run("admin role does not satisfy the developer dashboard", func(t *testing.T) {
		admin := &Identity{ID: 1, Username: "admin", Role: models.RoleAdmin}
		s := Session{State: StateAuthenticated, Identity: admin}
		assert.Equal(t, DecisionRedirectSignIn, GuardDashboard(s, models.RoleDeveloper))
	})

	t.Run("no session redirects", func(t *testing.T) {
		s := Session{State: StateUnauthenticated}
		assert.Equal(t, DecisionRedirectSignIn, GuardDashboard(s, models.RoleDeveloper))
	})
}
