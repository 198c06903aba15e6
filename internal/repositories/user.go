package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mixtape-labs/mixtape/internal/models"
	"github.com/mixtape-labs/mixtape/internal/shared"
)

// UserRepository implements [models.Repository] for [models.User] persistence.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database with generated ID and sequence
func (r *UserRepository) Create(user *models.User) error {
	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	user.ID = shared.GenerateID()
	user.Sequence = sequence

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	likes, err := encodeIDs(user.Likes)
	if err != nil {
		return err
	}
	batches, err := encodeIDs(user.Batches)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (id, sequence, username, email, password, likes, batches, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, user.ID, sequence, user.Username, user.Email, user.Password, likes, batches, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := `
		SELECT id, sequence, username, email, password, likes, batches, created_at, updated_at
		FROM users
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id), id)
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, sequence, username, email, password, likes, batches, created_at, updated_at
		FROM users
		WHERE email = ?
	`

	return r.scanOne(r.db.QueryRow(query, email), email)
}

// Update replaces an existing user record whole, including its reference sets
func (r *UserRepository) Update(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	likes, err := encodeIDs(user.Likes)
	if err != nil {
		return err
	}
	batches, err := encodeIDs(user.Batches)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user.UpdatedAt = now

	query := `
		UPDATE users
		SET username = ?, email = ?, password = ?, likes = ?, batches = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, user.Username, user.Email, user.Password, likes, batches, now, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, user.ID)
	}

	return nil
}

// Delete removes a user by ID. Users are never deleted by the service
// itself; this exists for operational cleanup.
func (r *UserRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, id)
	}

	return nil
}

// List retrieves all users matching the given criteria
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := `
		SELECT id, sequence, username, email, password, likes, batches, created_at, updated_at
		FROM users
		WHERE 1 = 1
	`

	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	if username, ok := criteria["username"].(string); ok && username != "" {
		query += " AND username = ?"
		args = append(args, username)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// scanOne scans a single [sql.Row] into a [models.User]
func (r *UserRepository) scanOne(row *sql.Row, ref string) (*models.User, error) {
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserNotFound, ref)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user           models.User
		likes, batches string
	)

	err := row.Scan(&user.ID, &user.Sequence, &user.Username, &user.Email, &user.Password, &likes, &batches, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if user.Likes, err = decodeIDs(likes); err != nil {
		return nil, err
	}
	if user.Batches, err = decodeIDs(batches); err != nil {
		return nil, err
	}

	return &user, nil
}
