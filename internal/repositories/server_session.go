package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/shared"
)

// ServerSessionRepository stores sessions created by the server-side credential check.
type ServerSessionRepository struct {
	db *sql.DB
}

// NewServerSessionRepository creates a new [ServerSessionRepository] with the given database connection
func NewServerSessionRepository(db *sql.DB) *ServerSessionRepository {
	return &ServerSessionRepository{db: db}
}

// Create inserts sess with a generated ID
func (r *ServerSessionRepository) Create(sess *models.ServerSession) error {
	if err := sess.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	sess.SetID(id)

	query := `INSERT INTO server_sessions (id, username, created_at, expires_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.Exec(query, id, sess.Username(), sess.CreatedAt(), sess.ExpiresAt()); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// Get returns the session with id, including revoked and expired ones.
func (r *ServerSessionRepository) Get(id string) (*models.ServerSession, error) {
	query := `SELECT id, username, created_at, expires_at, revoked_at FROM server_sessions WHERE id = ?`

	var (
		sessID    string
		username  string
		createdAt time.Time
		expiresAt time.Time
		revokedAt sql.NullTime
	)

	err := r.db.QueryRow(query, id).Scan(&sessID, &username, &createdAt, &expiresAt, &revokedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %w", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	sess := models.NewServerSession(username, 0)
	sess.SetID(sessID)
	sess.SetCreatedAt(createdAt)
	sess.SetExpiresAt(expiresAt)
	if revokedAt.Valid {
		sess.SetRevokedAt(&revokedAt.Time)
	}
	return sess, nil
}

// GetActive returns the session with id when it is neither revoked nor expired.
func (r *ServerSessionRepository) GetActive(id string) (*models.ServerSession, error) {
	sess, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if !sess.Active(time.Now()) {
		return nil, shared.ErrSessionExpired
	}
	return sess, nil
}

// Revoke marks the session as logged out.
func (r *ServerSessionRepository) Revoke(id string) error {
	result, err := r.db.Exec(`UPDATE server_sessions SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return expectOneRow(result, "session", id)
}

// RevokeUser revokes every live session of username and returns how many were revoked.
func (r *ServerSessionRepository) RevokeUser(username string) (int64, error) {
	result, err := r.db.Exec(`UPDATE server_sessions SET revoked_at = ? WHERE username = ? AND revoked_at IS NULL`, time.Now(), username)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return result.RowsAffected()
}

// Prune deletes sessions that expired or were revoked before cutoff.
func (r *ServerSessionRepository) Prune(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM server_sessions WHERE expires_at < ? OR revoked_at < ?`, cutoff, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	return result.RowsAffected()
}
