package visibility

import (
	"testing"

	"issuetrack-restful/models"
	"issuetrack-restful/policy"

	"github.com/stretchr/testify/assert"
)

func TestMyIssues(t *testing.T) {
	dev := policy.Identity{ID: 2, Username: "dev", Role: models.RoleDeveloper}
	issues := []models.Issue{
		{Title: "mine", Assignee: &models.User{Username: "dev"}},
		{Title: "someone else's", Assignee: &models.User{Username: "other"}},
		{Title: "unassigned"},
	}

	mine := MyIssues(issues, dev)
	assert.Len(t, mine, 1)
	assert.Equal(t, "mine", mine[0].Title)
}

func TestMyComments(t *testing.T) {
	dev := policy.Identity{ID: 2, Username: "dev", Role: models.RoleDeveloper}
	comments := []models.Comment{
		{Content: "mine", Author: &models.User{Username: "dev"}},
		{Content: "not mine", Author: &models.User{Username: "other"}},
		{Content: "author not loaded"},
	}

	mine := MyComments(comments, dev)
	assert.Len(t, mine, 1)
	assert.Equal(t, "mine", mine[0].Content)
}

func TestMyNotificationsAndUnreadCount(t *testing.T) {
	dev := policy.Identity{ID: 2, Username: "dev"}
	notifications := []models.Notification{
		{Message: "a", RecipientID: 2, Read: false},
		{Message: "b", RecipientID: 2, Read: true},
		{Message: "c", RecipientID: 9, Read: false},
	}

	assert.Len(t, MyNotifications(notifications, dev), 2)
	assert.Equal(t, 1, UnreadCount(notifications, dev))
}
