package model

import "time"

// Role identifies the kind of account behind a request.
type Role string

const (
	RoleLawyer Role = "lawyer"
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// User holds the identity fields this service reads from the user store.
// Accounts themselves are owned by the portal's auth service.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// RelationshipStatus is the lifecycle state of a lawyer-client relationship.
type RelationshipStatus string

const (
	RelationshipActive   RelationshipStatus = "active"
	RelationshipPending  RelationshipStatus = "pending"
	RelationshipArchived RelationshipStatus = "archived"
)

// LawyerClient is the authorization anchor: a document may only exist for a
// lawyer-client pair with an active or pending relationship row.
type LawyerClient struct {
	ID        string             `json:"id"`
	LawyerID  string             `json:"lawyer_id"`
	ClientID  string             `json:"client_id"`
	Status    RelationshipStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}
