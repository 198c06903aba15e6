// package models defines the data model for the song recommendation service
package models

import (
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for all persistent models.
// Implementations include [User], [Song], [Like] and [Batch].
type Model interface {
	Validate() error // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update replaces an existing record whole
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// User is an account holder. Likes and Batches are reference sets kept in
// sync with the like/batch collections by the library layer; the password
// is stored and compared as plaintext (inherited behavior, see DESIGN.md).
type User struct {
	ID        string    `json:"id"`
	Sequence  int       `json:"-"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Likes     []string  `json:"likes"`
	Batches   []string  `json:"batches"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a User with empty reference sets.
func NewUser(username, email, password string) *User {
	now := time.Now().UTC()
	return &User{
		Username:  username,
		Email:     email,
		Password:  password,
		Likes:     []string{},
		Batches:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if u.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// HasLike reports whether likeID is present in the user's like-set.
func (u *User) HasLike(likeID string) bool {
	for _, id := range u.Likes {
		if id == likeID {
			return true
		}
	}
	return false
}

// RemoveLike detaches likeID from the user's like-set.
// Reports whether the reference was present.
func (u *User) RemoveLike(likeID string) bool {
	for i, id := range u.Likes {
		if id == likeID {
			u.Likes = append(u.Likes[:i], u.Likes[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveBatch detaches batchID from the user's batch-set.
// Reports whether the reference was present.
func (u *User) RemoveBatch(batchID string) bool {
	for i, id := range u.Batches {
		if id == batchID {
			u.Batches = append(u.Batches[:i], u.Batches[i+1:]...)
			return true
		}
	}
	return false
}

// Song is a catalog track persisted on first search or recommendation
// encounter. Artist holds the concatenated artist names. SpotifyID is
// deliberately not unique at the storage layer: the recommendations path
// may store the same catalog track more than once.
type Song struct {
	ID         string    `json:"id"`
	Sequence   int       `json:"-"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Popularity int       `json:"popularity"`
	SpotifyID  string    `json:"spotify_id"`
	PreviewURL string    `json:"previewURL"`
	ArtURL     string    `json:"artURL"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewSong creates a Song from catalog track fields.
func NewSong(title, artist string, popularity int, spotifyID, previewURL, artURL string) *Song {
	now := time.Now().UTC()
	return &Song{
		Title:      title,
		Artist:     artist,
		Popularity: popularity,
		SpotifyID:  spotifyID,
		PreviewURL: previewURL,
		ArtURL:     artURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *Song) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(s.Artist) == "" {
		return fmt.Errorf("artist is required")
	}
	if strings.TrimSpace(s.SpotifyID) == "" {
		return fmt.Errorf("spotify id is required")
	}
	if s.Popularity < 1 || s.Popularity > 100 {
		return fmt.Errorf("popularity must be between 1 and 100")
	}
	return nil
}

// Like is a user's saved copy of a Song. The descriptive fields are a
// snapshot taken at like-time; deleting the Song later does not touch
// the Like.
type Like struct {
	ID         string    `json:"id"`
	Sequence   int       `json:"-"`
	UserID     string    `json:"user"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Popularity int       `json:"popularity"`
	SpotifyID  string    `json:"spotify_id"`
	PreviewURL string    `json:"previewURL"`
	ArtURL     string    `json:"artURL"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewLikeFromSong snapshots a Song's descriptive fields into a Like owned
// by userID.
func NewLikeFromSong(song *Song, userID string) *Like {
	return &Like{
		UserID:     userID,
		Title:      song.Title,
		Artist:     song.Artist,
		Popularity: song.Popularity,
		SpotifyID:  song.SpotifyID,
		PreviewURL: song.PreviewURL,
		ArtURL:     song.ArtURL,
		CreatedAt:  time.Now().UTC(),
	}
}

func (l *Like) Validate() error {
	if strings.TrimSpace(l.UserID) == "" {
		return fmt.Errorf("user reference is required")
	}
	if strings.TrimSpace(l.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(l.Artist) == "" {
		return fmt.Errorf("artist is required")
	}
	if strings.TrimSpace(l.SpotifyID) == "" {
		return fmt.Errorf("spotify id is required")
	}
	if l.Popularity < 1 || l.Popularity > 100 {
		return fmt.Errorf("popularity must be between 1 and 100")
	}
	return nil
}

// Batch is a named grouping of Song references produced by one
// recommendation request. Deleting a Batch deletes the Songs it
// references.
type Batch struct {
	ID        string    `json:"id"`
	Sequence  int       `json:"-"`
	Name      string    `json:"name"`
	UserID    string    `json:"user"`
	Songs     []string  `json:"songs"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBatch creates a Batch referencing songIDs for userID. The name
// records when the batch was requested.
func NewBatch(name, userID string, songIDs []string) *Batch {
	if songIDs == nil {
		songIDs = []string{}
	}
	return &Batch{
		Name:      name,
		UserID:    userID,
		Songs:     songIDs,
		CreatedAt: time.Now().UTC(),
	}
}

func (b *Batch) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return fmt.Errorf("user reference is required")
	}
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}
