// Package policy holds the pure authorization decisions for the tracker.
// Every function takes the acting identity and the target's owner reference
// as plain values; nothing here touches the store or the HTTP layer, so the
// same decisions back both route guards and service-level checks.
package policy

import "issuetrack-restful/models"

// Identity is the authenticated subject of a request, reconstructed from the
// session token on every request and never from client-supplied body fields.
type Identity struct {
	ID       uint
	Username string
	Role     models.Role
}

// IsAdmin reports whether the identity carries the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}

// CanMutateUser allows update/delete of a user record to the record's owner
// or an admin.
func CanMutateUser(actor Identity, targetUserID uint) bool {
	return actor.ID == targetUserID || actor.IsAdmin()
}

// CanMutateIssue allows update/delete of an issue to its assignee or an
// admin. An unassigned issue is only mutable by admins.
func CanMutateIssue(actor Identity, assigneeID *uint) bool {
	if actor.IsAdmin() {
		return true
	}
	return assigneeID != nil && *assigneeID == actor.ID
}

// CanMutateComment allows edits and deletes to the comment's author or an
// admin.
func CanMutateComment(actor Identity, authorID uint) bool {
	return actor.ID == authorID || actor.IsAdmin()
}

// CanMutateNotification allows mutation to the notification's recipient or
// an admin.
func CanMutateNotification(actor Identity, recipientID uint) bool {
	return actor.ID == recipientID || actor.IsAdmin()
}
