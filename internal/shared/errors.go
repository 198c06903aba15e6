package shared

import "fmt"

var (
	// Request validation errors (400)
	ErrValidation         = fmt.Errorf("validation failed")
	ErrMissingSeeds       = fmt.Errorf("%w: at least one of seed_artists, seed_tracks, or seed_genres is required", ErrValidation)
	ErrUserExists         = fmt.Errorf("%w: user already exists", ErrValidation)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrValidation)

	// Missing entity errors (404)
	ErrNotFound      = fmt.Errorf("not found")
	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)
	ErrSongNotFound  = fmt.Errorf("song %w", ErrNotFound)
	ErrLikeNotFound  = fmt.Errorf("like %w", ErrNotFound)
	ErrLikeNotOwned  = fmt.Errorf("%w for this user", ErrLikeNotFound)
	ErrBatchNotFound = fmt.Errorf("batch %w", ErrNotFound)

	// Catalog errors (500, generic message to clients, detail stays server-side)
	ErrUpstream = fmt.Errorf("catalog request failed")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
)
