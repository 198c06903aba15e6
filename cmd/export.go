package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mixtape-labs/mixtape/internal/formatter"
	"github.com/mixtape-labs/mixtape/internal/models"
	"github.com/mixtape-labs/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

// ExportLikes writes a user's liked songs to a file, or to the runner's
// output when the json format is selected.
func (r *Runner) ExportLikes(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd.String("config"))

	userID := cmd.String("user")
	format := cmd.String("format")
	outputPath := cmd.String("output")

	lib, cleanup, err := r.openLibrary()
	if err != nil {
		return err
	}
	defer cleanup()

	likes, err := lib.ListLikes(userID)
	if err != nil {
		return fmt.Errorf("failed to list likes: %w", err)
	}

	if format == "json" {
		return r.writeJSON(likes, true)
	}

	path, err := formatter.WriteLikesExport(likes, format, outputPath)
	if err != nil {
		return fmt.Errorf("failed to export likes: %w", err)
	}

	return r.writePlainln("✓ Exported %d likes to %s", len(likes), path)
}

// ExportBatch writes a recommendation batch and its songs as Markdown.
// Songs already removed from the store are skipped.
func (r *Runner) ExportBatch(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd.String("config"))

	userID := cmd.String("user")
	batchID := cmd.String("id")
	outputPath := cmd.String("output")

	lib, cleanup, err := r.openLibrary()
	if err != nil {
		return err
	}
	defer cleanup()

	batch, err := lib.GetBatch(userID, batchID)
	if err != nil {
		return fmt.Errorf("failed to load batch: %w", err)
	}

	songs := make([]*models.Song, 0, len(batch.Songs))
	for _, songID := range batch.Songs {
		song, err := lib.GetSong(songID)
		if err != nil {
			if errors.Is(err, shared.ErrSongNotFound) {
				r.logger.Warn("song missing from batch", "batch", batch.ID, "song", songID)
				continue
			}
			return fmt.Errorf("failed to load batch song: %w", err)
		}
		songs = append(songs, song)
	}

	path, err := formatter.WriteBatchExport(batch, songs, outputPath)
	if err != nil {
		return fmt.Errorf("failed to export batch: %w", err)
	}

	return r.writePlainln("✓ Exported batch %q (%d songs) to %s", batch.Name, len(songs), path)
}
