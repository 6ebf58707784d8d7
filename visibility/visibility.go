// Package visibility derives the per-identity subsets the role dashboards
// display from collections the API already returned. These are pure,
// client-evaluated projections, not a security boundary: the server hands
// out full collections and the dashboard narrows them for display.
package visibility

import (
	"issuetrack-restful/models"
	"issuetrack-restful/policy"
)

// MyIssues returns the issues assigned to the session identity, matched by
// assignee username.
func MyIssues(issues []models.Issue, identity policy.Identity) []models.Issue {
	var mine []models.Issue
	for _, issue := range issues {
		if issue.Assignee != nil && issue.Assignee.Username == identity.Username {
			mine = append(mine, issue)
		}
	}
	return mine
}

// MyComments returns the comments authored by the session identity, matched
// by author username.
func MyComments(comments []models.Comment, identity policy.Identity) []models.Comment {
	var mine []models.Comment
	for _, comment := range comments {
		if comment.Author != nil && comment.Author.Username == identity.Username {
			mine = append(mine, comment)
		}
	}
	return mine
}

// MyNotifications returns the notifications addressed to the session
// identity.
func MyNotifications(notifications []models.Notification, identity policy.Identity) []models.Notification {
	var mine []models.Notification
	for _, notification := range notifications {
		if notification.RecipientID == identity.ID {
			mine = append(mine, notification)
		}
	}
	return mine
}

// UnreadCount counts the identity's unread notifications, for the badge
// next to the dashboard's notifications entry.
func UnreadCount(notifications []models.Notification, identity policy.Identity) int {
	count := 0
	for _, notification := range notifications {
		if notification.RecipientID == identity.ID && !notification.Read {
			count++
		}
	}
	return count
}
