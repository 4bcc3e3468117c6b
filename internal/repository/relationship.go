package repository

import "context"

// RelationshipRepository reads the lawyer-client relationship store owned by
// the portal. Only the existence check this subsystem needs is exposed.
type RelationshipRepository interface {
	// Exists reports whether an active or pending relationship links the
	// lawyer and client. Archived relationships do not count.
	Exists(ctx context.Context, lawyerID, clientID string) (bool, error)
}
