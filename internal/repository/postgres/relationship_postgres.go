package postgres

import (
	"context"
	"database/sql"

	"lawdocs/internal/repository"
)

// RelationshipPostgres is a PostgreSQL implementation of repository.RelationshipRepository.
// The lawyer_clients table is written by the portal; this service only reads it.
type RelationshipPostgres struct {
	db *sql.DB
}

// NewRelationshipPostgres creates a new RelationshipPostgres repository.
func NewRelationshipPostgres(db *sql.DB) *RelationshipPostgres {
	return &RelationshipPostgres{db: db}
}

var _ repository.RelationshipRepository = (*RelationshipPostgres)(nil)

// Exists reports whether an active or pending relationship links the lawyer
// and client. Archived relationships do not authorize document operations.
func (r *RelationshipPostgres) Exists(ctx context.Context, lawyerID, clientID string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM lawyer_clients
			WHERE lawyer_id = $1 AND client_id = $2 AND status IN ('active', 'pending')
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, lawyerID, clientID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
