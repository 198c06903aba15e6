package repositories

import (
	"database/sql"
	"fmt"

	"github.com/mixtape-labs/mixtape/internal/models"
	"github.com/mixtape-labs/mixtape/internal/shared"
)

// BatchRepository implements [models.Repository] for [models.Batch] persistence.
//
// A batch's song reference set is a JSON array replaced whole on update.
type BatchRepository struct {
	db *sql.DB
}

// NewBatchRepository creates a new [BatchRepository] with the given database connection
func NewBatchRepository(db *sql.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// Create inserts a new batch into the database with generated ID and sequence
func (r *BatchRepository) Create(batch *models.Batch) error {
	sequence, err := NextSequence(r.db, "batches")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	batch.ID = shared.GenerateID()
	batch.Sequence = sequence

	if err := batch.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	songs, err := encodeIDs(batch.Songs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO batches (id, sequence, name, user_id, songs, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, batch.ID, sequence, batch.Name, batch.UserID, songs, batch.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}

	return nil
}

// Get retrieves a batch by ID
func (r *BatchRepository) Get(id string) (*models.Batch, error) {
	query := `
		SELECT id, sequence, name, user_id, songs, created_at
		FROM batches
		WHERE id = ?
	`

	batch, err := scanBatch(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrBatchNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// GetForUser retrieves a batch by ID scoped to its owning user
func (r *BatchRepository) GetForUser(id, userID string) (*models.Batch, error) {
	query := `
		SELECT id, sequence, name, user_id, songs, created_at
		FROM batches
		WHERE id = ? AND user_id = ?
	`

	batch, err := scanBatch(r.db.QueryRow(query, id, userID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrBatchNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// Update replaces an existing batch record whole
func (r *BatchRepository) Update(batch *models.Batch) error {
	if err := batch.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	songs, err := encodeIDs(batch.Songs)
	if err != nil {
		return err
	}

	query := `
		UPDATE batches
		SET name = ?, user_id = ?, songs = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, batch.Name, batch.UserID, songs, batch.ID)
	if err != nil {
		return fmt.Errorf("failed to update batch: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrBatchNotFound, batch.ID)
	}

	return nil
}

// Delete removes a batch by ID
func (r *BatchRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM batches WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrBatchNotFound, id)
	}

	return nil
}

// List retrieves all batches matching the given criteria
func (r *BatchRepository) List(criteria map[string]any) ([]*models.Batch, error) {
	query := `
		SELECT id, sequence, name, user_id, songs, created_at
		FROM batches
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
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	var batches []*models.Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return batches, nil
}

// ListByUser retrieves all batches owned by the given user
func (r *BatchRepository) ListByUser(userID string) ([]*models.Batch, error) {
	return r.List(map[string]any{"user": userID})
}

func scanBatch(row rowScanner) (*models.Batch, error) {
	var (
		batch models.Batch
		songs string
	)

	err := row.Scan(&batch.ID, &batch.Sequence, &batch.Name, &batch.UserID, &songs, &batch.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan batch: %w", err)
	}

	if batch.Songs, err = decodeIDs(songs); err != nil {
		return nil, err
	}

	return &batch, nil
}
