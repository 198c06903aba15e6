package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mixtape-labs/mixtape/internal/models"
	"github.com/mixtape-labs/mixtape/internal/shared"
)

// SongRepository implements [models.Repository] for [models.Song] persistence.
//
// The spotify_id column is indexed but not unique: the recommendations
// path inserts every returned track as a fresh row, while the search path
// performs an upsert via [SongRepository.GetBySpotifyID].
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new [SongRepository] with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new song into the database with generated ID and sequence
func (r *SongRepository) Create(song *models.Song) error {
	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	song.ID = shared.GenerateID()
	song.Sequence = sequence

	if err := song.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	query := `
		INSERT INTO songs (id, sequence, title, artist, popularity, spotify_id, preview_url, art_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, song.ID, sequence, song.Title, song.Artist, song.Popularity, song.SpotifyID, song.PreviewURL, song.ArtURL, song.CreatedAt, song.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// Get retrieves a song by ID
func (r *SongRepository) Get(id string) (*models.Song, error) {
	query := `
		SELECT id, sequence, title, artist, popularity, spotify_id, preview_url, art_url, created_at, updated_at
		FROM songs
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id), id)
}

// GetBySpotifyID retrieves a stored song by its external catalog id.
// When duplicates exist the earliest stored row wins.
func (r *SongRepository) GetBySpotifyID(spotifyID string) (*models.Song, error) {
	query := `
		SELECT id, sequence, title, artist, popularity, spotify_id, preview_url, art_url, created_at, updated_at
		FROM songs
		WHERE spotify_id = ?
		ORDER BY sequence ASC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query, spotifyID), spotifyID)
}

// Update replaces an existing song record
func (r *SongRepository) Update(song *models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	now := time.Now().UTC()
	song.UpdatedAt = now

	query := `
		UPDATE songs
		SET title = ?, artist = ?, popularity = ?, spotify_id = ?, preview_url = ?, art_url = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, song.Title, song.Artist, song.Popularity, song.SpotifyID, song.PreviewURL, song.ArtURL, now, song.ID)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, song.ID)
	}

	return nil
}

// Delete removes a song by ID
func (r *SongRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}

	return nil
}

// List retrieves all songs matching the given criteria
func (r *SongRepository) List(criteria map[string]any) ([]*models.Song, error) {
	query := `
		SELECT id, sequence, title, artist, popularity, spotify_id, preview_url, art_url, created_at, updated_at
		FROM songs
		WHERE 1 = 1
	`

	args := []any{}

	if spotifyID, ok := criteria["spotify_id"].(string); ok && spotifyID != "" {
		query += " AND spotify_id = ?"
		args = append(args, spotifyID)
	}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist LIKE ?"
		args = append(args, "%"+artist+"%")
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// scanOne scans a single [sql.Row] into a [models.Song]
func (r *SongRepository) scanOne(row *sql.Row, ref string) (*models.Song, error) {
	song, err := scanSong(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrSongNotFound, ref)
	}
	if err != nil {
		return nil, err
	}
	return song, nil
}

func scanSong(row rowScanner) (*models.Song, error) {
	var (
		song               models.Song
		previewURL, artURL sql.NullString
	)

	err := row.Scan(&song.ID, &song.Sequence, &song.Title, &song.Artist, &song.Popularity, &song.SpotifyID, &previewURL, &artURL, &song.CreatedAt, &song.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	song.PreviewURL = previewURL.String
	song.ArtURL = artURL.String

	return &song, nil
}
