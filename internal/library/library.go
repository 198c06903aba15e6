package library

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mixtape-labs/mixtape/internal/models"
	"github.com/mixtape-labs/mixtape/internal/repositories"
	"github.com/mixtape-labs/mixtape/internal/services"
	"github.com/mixtape-labs/mixtape/internal/shared"
)

// recommendationLimit caps how many tracks one recommendation request
// fetches and stores.
const recommendationLimit = 10

// Library coordinates the user, song, like, and batch collections and
// the external catalog. Multi-record mutations are sequenced here; there
// is no transaction wrapping, so a failure mid-mutation leaves earlier
// writes in place.
type Library struct {
	users   *repositories.UserRepository
	songs   *repositories.SongRepository
	likes   *repositories.LikeRepository
	batches *repositories.BatchRepository
	catalog services.Catalog
	logger  *log.Logger
}

// New creates a Library over the given database connection and catalog.
func New(db *sql.DB, catalog services.Catalog, logger *log.Logger) *Library {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Library{
		users:   repositories.NewUserRepository(db),
		songs:   repositories.NewSongRepository(db),
		likes:   repositories.NewLikeRepository(db),
		batches: repositories.NewBatchRepository(db),
		catalog: catalog,
		logger:  logger,
	}
}

// Signup registers a new account. The email address must not already be
// registered.
func (l *Library) Signup(username, email, password string) (*models.User, error) {
	existing, err := l.users.List(map[string]any{"email": email})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, shared.ErrUserExists
	}

	user := models.NewUser(username, email, password)
	if err := l.users.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login resolves an account by email and password. The stored password
// is compared as plaintext.
func (l *Library) Login(email, password string) (*models.User, error) {
	user, err := l.users.GetByEmail(email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if user.Password != password {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// GetSong retrieves a stored song by its internal id.
func (l *Library) GetSong(id string) (*models.Song, error) {
	return l.songs.Get(id)
}

// ListSongs returns every stored song in insertion order.
func (l *Library) ListSongs() ([]*models.Song, error) {
	return l.songs.List(map[string]any{})
}

// SearchSong asks the catalog for the single best match of artist+title
// and upserts it into the song collection keyed on its catalog id. The
// catalog's view of the track is returned, whether or not a row already
// existed.
func (l *Library) SearchSong(ctx context.Context, artist, title string) (*services.TrackSummary, error) {
	track, err := l.catalog.SearchTrack(ctx, artist, title)
	if err != nil {
		return nil, err
	}
	if track == nil {
		return nil, fmt.Errorf("%w: no match for %q by %q", shared.ErrSongNotFound, title, artist)
	}

	if _, err := l.songs.GetBySpotifyID(track.SpotifyID); err != nil {
		song := models.NewSong(track.Title, track.Artist, track.Popularity, track.SpotifyID, track.PreviewURL, track.ArtURL)
		if err := l.songs.Create(song); err != nil {
			return nil, err
		}
	}

	return track, nil
}

// Recommend fetches up to ten recommended tracks for the given seeds,
// stores each as a fresh song row, groups them into a timestamp-named
// batch attached to the user, and returns the catalog's track data.
//
// The user is validated before anything is written, so a bad user id
// leaves no orphaned songs behind.
func (l *Library) Recommend(ctx context.Context, userID string, seeds services.Seeds, maxPopularity int) ([]services.TrackSummary, error) {
	if seeds.Empty() {
		return nil, shared.ErrMissingSeeds
	}

	user, err := l.users.Get(userID)
	if err != nil {
		return nil, err
	}

	tracks, err := l.catalog.Recommendations(ctx, seeds, recommendationLimit, maxPopularity)
	if err != nil {
		return nil, err
	}

	songIDs := make([]string, 0, len(tracks))
	for _, track := range tracks {
		song := models.NewSong(track.Title, track.Artist, track.Popularity, track.SpotifyID, track.PreviewURL, track.ArtURL)
		if err := l.songs.Create(song); err != nil {
			return nil, err
		}
		songIDs = append(songIDs, song.ID)
	}

	batch := models.NewBatch(time.Now().UTC().Format(time.RFC3339), userID, songIDs)
	if err := l.batches.Create(batch); err != nil {
		return nil, err
	}

	user.Batches = append(user.Batches, batch.ID)
	if err := l.users.Update(user); err != nil {
		return nil, err
	}

	return tracks, nil
}

// LikeSong snapshots a stored song into the user's likes. The song
// reference resolves by internal id first, then by catalog id.
func (l *Library) LikeSong(userID, songRef string) (*models.Like, error) {
	song, err := l.songs.Get(songRef)
	if err != nil {
		song, err = l.songs.GetBySpotifyID(songRef)
	}
	if err != nil {
		return nil, err
	}

	user, err := l.users.Get(userID)
	if err != nil {
		return nil, err
	}

	like := models.NewLikeFromSong(song, userID)
	if err := l.likes.Create(like); err != nil {
		return nil, err
	}

	user.Likes = append(user.Likes, like.ID)
	if err := l.users.Update(user); err != nil {
		return nil, err
	}

	return like, nil
}

// UnlikeSong detaches likeID from the user's like-set and deletes the
// like record. The reference is detached and persisted before the record
// is deleted so that a crash between the two steps cannot leave the user
// pointing at a missing like.
func (l *Library) UnlikeSong(userID, likeID string) error {
	user, err := l.users.Get(userID)
	if err != nil {
		return err
	}

	if !user.RemoveLike(likeID) {
		return fmt.Errorf("%w: %s", shared.ErrLikeNotOwned, likeID)
	}
	if err := l.users.Update(user); err != nil {
		return err
	}

	return l.likes.Delete(likeID)
}

// ListLikes returns all likes held by the user. An empty collection is
// reported as not found.
func (l *Library) ListLikes(userID string) ([]*models.Like, error) {
	likes, err := l.likes.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(likes) == 0 {
		return nil, fmt.Errorf("%w: no likes for user %s", shared.ErrLikeNotFound, userID)
	}
	return likes, nil
}

// ListBatches returns all batches owned by the user. An empty collection
// is reported as not found.
func (l *Library) ListBatches(userID string) ([]*models.Batch, error) {
	batches, err := l.batches.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, fmt.Errorf("%w: no batches for user %s", shared.ErrBatchNotFound, userID)
	}
	return batches, nil
}

// GetBatch retrieves one batch scoped to its owning user.
func (l *Library) GetBatch(userID, batchID string) (*models.Batch, error) {
	return l.batches.GetForUser(batchID, userID)
}

// DeleteBatch removes a batch, the songs it references, and the owning
// user's reference to it. Song deletion is best-effort: a song already
// gone does not fail the operation. A missing user reference is
// tolerated for the same reason.
func (l *Library) DeleteBatch(userID, batchID string) error {
	batch, err := l.batches.Get(batchID)
	if err != nil {
		return err
	}

	for _, songID := range batch.Songs {
		if err := l.songs.Delete(songID); err != nil {
			l.logger.Warn("failed to delete batch song", "batch", batchID, "song", songID, "error", err)
		}
	}

	if err := l.batches.Delete(batchID); err != nil {
		return err
	}

	user, err := l.users.Get(userID)
	if err != nil {
		l.logger.Warn("batch owner not found during delete", "batch", batchID, "user", userID)
		return nil
	}
	if user.RemoveBatch(batchID) {
		if err := l.users.Update(user); err != nil {
			return err
		}
	}

	return nil
}
