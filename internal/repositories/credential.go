package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/shared"
)

// CredentialRepository implements [models.Repository] for [models.Credential] persistence.
type CredentialRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Credential] = (*CredentialRepository)(nil)

// NewCredentialRepository creates a new [CredentialRepository] with the given database connection
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

const credentialColumns = `id, sequence, username, password_hash, display_name, role, created_at, updated_at, deleted_at`

// Create inserts a new credential with generated ID and sequence
func (r *CredentialRepository) Create(cred *models.Credential) error {
	if err := cred.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if _, err := r.GetByUsername(cred.Username()); err == nil {
		return fmt.Errorf("%w: username %s", shared.ErrAlreadyExists, cred.Username())
	}

	sequence, err := NextSequence(r.db, "credentials")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	cred.SetID(id)
	cred.SetSequence(sequence)

	query := `
		INSERT INTO credentials (id, sequence, username, password_hash, display_name, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id, sequence, cred.Username(), cred.PasswordHash(), cred.DisplayName(), string(cred.Role()),
		cred.CreatedAt(), cred.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert credential: %w", err)
	}

	return nil
}

// Get retrieves a credential by ID, excluding soft-deleted rows
func (r *CredentialRepository) Get(id string) (*models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE id = ? AND deleted_at IS NULL`
	return r.scan(r.db.QueryRow(query, id))
}

// GetByUsername retrieves the live credential for username. Matching is exact.
func (r *CredentialRepository) GetByUsername(username string) (*models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE username = ? AND deleted_at IS NULL`
	return r.scan(r.db.QueryRow(query, username))
}

// Update stores a new password hash, display name and role for an existing credential
func (r *CredentialRepository) Update(cred *models.Credential) error {
	if err := cred.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	cred.SetUpdatedAt(now)

	query := `
		UPDATE credentials
		SET password_hash = ?, display_name = ?, role = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, cred.PasswordHash(), cred.DisplayName(), string(cred.Role()), now, cred.ID())
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}

	return expectOneRow(result, "credential", cred.ID())
}

// Delete soft-deletes a credential by ID
func (r *CredentialRepository) Delete(id string) error {
	query := `UPDATE credentials SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	return expectOneRow(result, "credential", id)
}

// List retrieves credentials matching criteria, ordered by sequence.
//
// Supported criteria: "username" (exact) and "role".
func (r *CredentialRepository) List(criteria map[string]any) ([]*models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE deleted_at IS NULL`
	args := []any{}

	if username, ok := criteria["username"].(string); ok && username != "" {
		query += " AND username = ?"
		args = append(args, username)
	}
	if role, ok := criteria["role"].(models.Role); ok && role != "" {
		query += " AND role = ?"
		args = append(args, string(role))
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}
	defer rows.Close()

	var creds []*models.Credential
	for rows.Next() {
		cred, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		creds = append(creds, cred)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return creds, nil
}

// scan reads one credential row from either [sql.Row] or [sql.Rows]
func (r *CredentialRepository) scan(row scanner) (*models.Credential, error) {
	var (
		id           string
		sequence     int
		username     string
		passwordHash string
		displayName  string
		role         string
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(&id, &sequence, &username, &passwordHash, &displayName, &role, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("credential %w", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan credential: %w", err)
	}

	cred := models.NewCredential(sequence, username, passwordHash, displayName, models.Role(role))
	cred.SetID(id)
	cred.SetCreatedAt(createdAt)
	cred.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		cred.SetDeletedAt(&deletedAt.Time)
	}

	return cred, nil
}
