package repositories

import (
	"database/sql"
	"fmt"

	"github.com/mixtape-labs/mixtape/internal/models"
	"github.com/mixtape-labs/mixtape/internal/shared"
)

// LikeRepository implements [models.Repository] for [models.Like] persistence.
//
// Likes are immutable snapshots: they are created and deleted, never
// updated.
type LikeRepository struct {
	db *sql.DB
}

// NewLikeRepository creates a new [LikeRepository] with the given database connection
func NewLikeRepository(db *sql.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts a new like into the database with generated ID and sequence
func (r *LikeRepository) Create(like *models.Like) error {
	sequence, err := NextSequence(r.db, "likes")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	like.ID = shared.GenerateID()
	like.Sequence = sequence

	if err := like.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	query := `
		INSERT INTO likes (id, sequence, user_id, title, artist, popularity, spotify_id, preview_url, art_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, like.ID, sequence, like.UserID, like.Title, like.Artist, like.Popularity, like.SpotifyID, like.PreviewURL, like.ArtURL, like.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert like: %w", err)
	}

	return nil
}

// Get retrieves a like by ID
func (r *LikeRepository) Get(id string) (*models.Like, error) {
	query := `
		SELECT id, sequence, user_id, title, artist, popularity, spotify_id, preview_url, art_url, created_at
		FROM likes
		WHERE id = ?
	`

	like, err := scanLike(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrLikeNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return like, nil
}

// Update is not supported: likes are snapshots, created and deleted only.
func (r *LikeRepository) Update(like *models.Like) error {
	return fmt.Errorf("likes are immutable snapshots")
}

// Delete removes a like by ID
func (r *LikeRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM likes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrLikeNotFound, id)
	}

	return nil
}

// List retrieves all likes matching the given criteria
func (r *LikeRepository) List(criteria map[string]any) ([]*models.Like, error) {
	query := `
		SELECT id, sequence, user_id, title, artist, popularity, spotify_id, preview_url, art_url, created_at
		FROM likes
		WHERE 1 = 1
	`

	args := []any{}

	if userID, ok := criteria["user"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer rows.Close()

	var likes []*models.Like
	for rows.Next() {
		like, err := scanLike(rows)
		if err != nil {
			return nil, err
		}
		likes = append(likes, like)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return likes, nil
}

// ListByUser retrieves all likes owned by the given user
func (r *LikeRepository) ListByUser(userID string) ([]*models.Like, error) {
	return r.List(map[string]any{"user": userID})
}

func scanLike(row rowScanner) (*models.Like, error) {
	var (
		like               models.Like
		previewURL, artURL sql.NullString
	)

	err := row.Scan(&like.ID, &like.Sequence, &like.UserID, &like.Title, &like.Artist, &like.Popularity, &like.SpotifyID, &previewURL, &artURL, &like.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan like: %w", err)
	}

	like.PreviewURL = previewURL.String
	like.ArtURL = artURL.String

	return &like, nil
}
