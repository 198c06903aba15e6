package library

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/mixtape-labs/mixtape/internal/models"
	"github.com/mixtape-labs/mixtape/internal/services"
	"github.com/mixtape-labs/mixtape/internal/shared"
	tu "github.com/mixtape-labs/mixtape/internal/testing"
)

// newTestLibrary creates a Library over an in-memory database with the
// given catalog double.
func newTestLibrary(t *testing.T, catalog services.Catalog) *Library {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return New(db, catalog, shared.NewLogger(io.Discard))
}

func createTestUser(t *testing.T, lib *Library) *models.User {
	t.Helper()

	user, err := lib.Signup("ada", "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createTestSong(t *testing.T, lib *Library) *models.Song {
	t.Helper()

	song := models.NewSong("Pink Moon", "Nick Drake", 74, "sp123", "https://p.example/a.mp3", "https://img.example/a.jpg")
	if err := lib.songs.Create(song); err != nil {
		t.Fatalf("failed to create song: %v", err)
	}
	return song
}

func TestSignup(t *testing.T) {
	t.Run("Registers User", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})

		user, err := lib.Signup("ada", "ada@example.com", "hunter2")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.ID == "" {
			t.Error("expected a generated user id")
		}
		if len(user.Likes) != 0 || len(user.Batches) != 0 {
			t.Error("expected empty reference sets")
		}
	})

	t.Run("Duplicate Email Rejected", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})
		createTestUser(t, lib)

		_, err := lib.Signup("ada2", "ada@example.com", "hunter2")
		if !errors.Is(err, shared.ErrUserExists) {
			t.Errorf("expected ErrUserExists, got %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("Valid Credentials", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})
		created := createTestUser(t, lib)

		user, err := lib.Login("ada@example.com", "hunter2")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.ID != created.ID {
			t.Errorf("expected user %s, got %s", created.ID, user.ID)
		}
	})

	t.Run("Wrong Password", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})
		createTestUser(t, lib)

		if _, err := lib.Login("ada@example.com", "wrong"); !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("Unknown Email", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})

		if _, err := lib.Login("nobody@example.com", "hunter2"); !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestSearchSong(t *testing.T) {
	track := &services.TrackSummary{
		Title:      "Pink Moon",
		Artist:     "Nick Drake",
		Popularity: 74,
		SpotifyID:  "sp123",
		PreviewURL: "https://p.example/a.mp3",
		ArtURL:     "https://img.example/a.jpg",
	}

	t.Run("Stores New Match", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{SearchResult: track})

		got, err := lib.SearchSong(context.Background(), "Nick Drake", "Pink Moon")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.SpotifyID != "sp123" {
			t.Errorf("expected spotify id 'sp123', got %s", got.SpotifyID)
		}

		if _, err := lib.songs.GetBySpotifyID("sp123"); err != nil {
			t.Errorf("expected song to be stored: %v", err)
		}
	})

	t.Run("Existing Match Not Duplicated", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{SearchResult: track})

		for range 2 {
			if _, err := lib.SearchSong(context.Background(), "Nick Drake", "Pink Moon"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}

		songs, err := lib.songs.List(map[string]any{"spotify_id": "sp123"})
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(songs) != 1 {
			t.Errorf("expected 1 stored song, got %d", len(songs))
		}
	})

	t.Run("No Match", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})

		_, err := lib.SearchSong(context.Background(), "Nobody", "Nothing")
		if !errors.Is(err, shared.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound, got %v", err)
		}
	})

	t.Run("Catalog Failure", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{SearchErr: shared.ErrUpstream})

		_, err := lib.SearchSong(context.Background(), "Nick Drake", "Pink Moon")
		if !errors.Is(err, shared.ErrUpstream) {
			t.Errorf("expected ErrUpstream, got %v", err)
		}
	})
}

func TestLikeSong(t *testing.T) {
	t.Run("By Internal ID", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})
		user := createTestUser(t, lib)
		song := createTestSong(t, lib)

		like, err := lib.LikeSong(user.ID, song.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if like.UserID != user.ID {
			t.Errorf("expected like owned by %s, got %s", user.ID, like.UserID)
		}
		if like.Title != song.Title || like.SpotifyID != song.SpotifyID {
			t.Error("expected like to snapshot the song's fields")
		}

		updated, err := lib.users.Get(user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if !updated.HasLike(like.ID) {
			t.Error("expected like reference in the user's like-set")
		}
	})

	t.Run("By Catalog ID", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})
		user := createTestUser(t, lib)
		song := createTestSong(t, lib)

		like, err := lib.LikeSong(user.ID, song.SpotifyID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if like.SpotifyID != song.SpotifyID {
			t.Errorf("expected snapshot of %s, got %s", song.SpotifyID, like.SpotifyID)
		}
	})

	t.Run("Song Snapshot Survives Song Deletion", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})
		user := createTestUser(t, lib)
		song := createTestSong(t, lib)

		like, err := lib.LikeSong(user.ID, song.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if err := lib.songs.Delete(song.ID); err != nil {
			t.Fatalf("failed to delete song: %v", err)
		}
		if _, err := lib.likes.Get(like.ID); err != nil {
			t.Errorf("expected like to outlive the song: %v", err)
		}
	})

	t.Run("Nonexistent Song", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})
		user := createTestUser(t, lib)

		_, err := lib.LikeSong(user.ID, "missing")
		if !errors.Is(err, shared.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound, got %v", err)
		}

		likes, err := lib.likes.ListByUser(user.ID)
		if err != nil {
			t.Fatalf("failed to list likes: %v", err)
		}
		if len(likes) != 0 {
			t.Error("expected no like to be created")
		}

		updated, err := lib.users.Get(user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if len(updated.Likes) != 0 {
			t.Error("expected the user's like-set to be unchanged")
		}
	})

	t.Run("Nonexistent User", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})
		song := createTestSong(t, lib)

		_, err := lib.LikeSong("missing", song.ID)
		if !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUnlikeSong(t *testing.T) {
	t.Run("Removes Record And Reference", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})
		user := createTestUser(t, lib)
		song := createTestSong(t, lib)

		like, err := lib.LikeSong(user.ID, song.ID)
		if err != nil {
			t.Fatalf("failed to like song: %v", err)
		}

		if err := lib.UnlikeSong(user.ID, like.ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := lib.likes.Get(like.ID); !errors.Is(err, shared.ErrLikeNotFound) {
			t.Errorf("expected like record to be deleted, got %v", err)
		}

		updated, err := lib.users.Get(user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if updated.HasLike(like.ID) {
			t.Error("expected like reference to be detached")
		}
	})

	t.Run("Nonexistent User", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})

		if err := lib.UnlikeSong("missing", "like1"); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("Like Not Held By User", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})
		user := createTestUser(t, lib)

		err := lib.UnlikeSong(user.ID, "not-yours")
		if !errors.Is(err, shared.ErrLikeNotOwned) {
			t.Errorf("expected ErrLikeNotOwned, got %v", err)
		}
	})
}

func TestListLikes(t *testing.T) {
	t.Run("Empty Reported As Not Found", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})
		user := createTestUser(t, lib)

		if _, err := lib.ListLikes(user.ID); !errors.Is(err, shared.ErrLikeNotFound) {
			t.Errorf("expected ErrLikeNotFound, got %v", err)
		}
	})

	t.Run("Returns User Likes", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})
		user := createTestUser(t, lib)
		song := createTestSong(t, lib)

		if _, err := lib.LikeSong(user.ID, song.ID); err != nil {
			t.Fatalf("failed to like song: %v", err)
		}

		likes, err := lib.ListLikes(user.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(likes) != 1 {
			t.Errorf("expected 1 like, got %d", len(likes))
		}
	})
}

func TestRecommend(t *testing.T) {
	tracks := []services.TrackSummary{
		{Title: "One", Artist: "A", Popularity: 41, SpotifyID: "t1"},
		{Title: "Two", Artist: "B", Popularity: 52, SpotifyID: "t2"},
	}

	t.Run("Stores Songs And Batch", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{RecsResult: tracks})
		user := createTestUser(t, lib)

		got, err := lib.Recommend(context.Background(), user.ID, services.Seeds{Genres: []string{"folk"}}, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(got))
		}

		batches, err := lib.batches.ListByUser(user.ID)
		if err != nil {
			t.Fatalf("failed to list batches: %v", err)
		}
		if len(batches) != 1 {
			t.Fatalf("expected 1 batch, got %d", len(batches))
		}
		if len(batches[0].Songs) != 2 {
			t.Errorf("expected 2 song references, got %d", len(batches[0].Songs))
		}
		if batches[0].Name == "" {
			t.Error("expected a timestamp batch name")
		}

		updated, err := lib.users.Get(user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if len(updated.Batches) != 1 || updated.Batches[0] != batches[0].ID {
			t.Error("expected batch reference in the user's batch-set")
		}

		for _, songID := range batches[0].Songs {
			if _, err := lib.songs.Get(songID); err != nil {
				t.Errorf("expected stored song %s: %v", songID, err)
			}
		}
	})

	t.Run("Duplicate Catalog Tracks Stored Fresh", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{RecsResult: tracks})
		user := createTestUser(t, lib)

		for range 2 {
			if _, err := lib.Recommend(context.Background(), user.ID, services.Seeds{Genres: []string{"folk"}}, 0); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}

		songs, err := lib.songs.List(map[string]any{"spotify_id": "t1"})
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(songs) != 2 {
			t.Errorf("expected 2 rows for the same catalog track, got %d", len(songs))
		}
	})

	t.Run("Empty Seeds Rejected Before Writes", func(t *testing.T) {
		catalog := &tu.MockCatalog{RecsResult: tracks}
		lib := newTestLibrary(t, catalog)
		user := createTestUser(t, lib)

		_, err := lib.Recommend(context.Background(), user.ID, services.Seeds{}, 0)
		if !errors.Is(err, shared.ErrMissingSeeds) {
			t.Errorf("expected ErrMissingSeeds, got %v", err)
		}
		if len(catalog.Calls) != 0 {
			t.Error("expected no catalog call for empty seeds")
		}
	})

	t.Run("Nonexistent User Leaves No Orphans", func(t *testing.T) {
		catalog := &tu.MockCatalog{RecsResult: tracks}
		lib := newTestLibrary(t, catalog)

		_, err := lib.Recommend(context.Background(), "missing", services.Seeds{Genres: []string{"folk"}}, 0)
		if !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
		if len(catalog.Calls) != 0 {
			t.Error("expected no catalog call for a bad user")
		}

		songs, err := lib.songs.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(songs) != 0 {
			t.Errorf("expected no orphaned songs, got %d", len(songs))
		}
	})

	t.Run("Catalog Failure", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{RecsErr: shared.ErrUpstream})
		user := createTestUser(t, lib)

		_, err := lib.Recommend(context.Background(), user.ID, services.Seeds{Genres: []string{"folk"}}, 0)
		if !errors.Is(err, shared.ErrUpstream) {
			t.Errorf("expected ErrUpstream, got %v", err)
		}
	})
}

func TestListBatches(t *testing.T) {
	t.Run("Empty Reported As Not Found", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})
		user := createTestUser(t, lib)

		if _, err := lib.ListBatches(user.ID); !errors.Is(err, shared.ErrBatchNotFound) {
			t.Errorf("expected ErrBatchNotFound, got %v", err)
		}
	})
}

func TestGetBatch(t *testing.T) {
	t.Run("Scoped To Owner", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{RecsResult: []services.TrackSummary{{Title: "One", Artist: "A", Popularity: 41, SpotifyID: "t1"}}})
		user := createTestUser(t, lib)

		if _, err := lib.Recommend(context.Background(), user.ID, services.Seeds{Genres: []string{"folk"}}, 0); err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}

		batches, err := lib.ListBatches(user.ID)
		if err != nil {
			t.Fatalf("failed to list batches: %v", err)
		}

		batch, err := lib.GetBatch(user.ID, batches[0].ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if batch.ID != batches[0].ID {
			t.Errorf("expected batch %s, got %s", batches[0].ID, batch.ID)
		}

		if _, err := lib.GetBatch("someone-else", batches[0].ID); !errors.Is(err, shared.ErrBatchNotFound) {
			t.Errorf("expected ErrBatchNotFound for wrong owner, got %v", err)
		}
	})
}

func TestDeleteBatch(t *testing.T) {
	seedBatch := func(t *testing.T, lib *Library, user *models.User) *models.Batch {
		t.Helper()

		if _, err := lib.Recommend(context.Background(), user.ID, services.Seeds{Genres: []string{"folk"}}, 0); err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}
		batches, err := lib.batches.ListByUser(user.ID)
		if err != nil || len(batches) == 0 {
			t.Fatalf("failed to read back batch: %v", err)
		}
		return batches[0]
	}

	tracks := []services.TrackSummary{
		{Title: "One", Artist: "A", Popularity: 41, SpotifyID: "t1"},
		{Title: "Two", Artist: "B", Popularity: 52, SpotifyID: "t2"},
	}

	t.Run("Removes Batch Songs And Reference", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{RecsResult: tracks})
		user := createTestUser(t, lib)
		batch := seedBatch(t, lib, user)

		if err := lib.DeleteBatch(user.ID, batch.ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := lib.batches.Get(batch.ID); !errors.Is(err, shared.ErrBatchNotFound) {
			t.Errorf("expected batch to be deleted, got %v", err)
		}
		for _, songID := range batch.Songs {
			if _, err := lib.songs.Get(songID); !errors.Is(err, shared.ErrSongNotFound) {
				t.Errorf("expected song %s to be deleted, got %v", songID, err)
			}
		}

		updated, err := lib.users.Get(user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if len(updated.Batches) != 0 {
			t.Error("expected batch reference to be detached")
		}
	})

	t.Run("Missing Batch", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{})
		user := createTestUser(t, lib)

		if err := lib.DeleteBatch(user.ID, "missing"); !errors.Is(err, shared.ErrBatchNotFound) {
			t.Errorf("expected ErrBatchNotFound, got %v", err)
		}
	})

	t.Run("Tolerates Already Deleted Songs", func(t *testing.T) {
		lib := newTestLibrary(t, &tu.MockCatalog{RecsResult: tracks})
		user := createTestUser(t, lib)
		batch := seedBatch(t, lib, user)

		if err := lib.songs.Delete(batch.Songs[0]); err != nil {
			t.Fatalf("failed to delete song: %v", err)
		}

		if err := lib.DeleteBatch(user.ID, batch.ID); err != nil {
			t.Errorf("expected best-effort song cleanup, got %v", err)
		}
	})
}
