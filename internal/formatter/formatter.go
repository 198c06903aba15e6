// package formatter provides functions to export library data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mixtape-labs/mixtape/internal/models"
)

// LikesToCSV writes a user's likes as CSV with columns: ID, Title, Artist, Popularity, SpotifyID, PreviewURL, ArtURL
func LikesToCSV(w io.Writer, likes []*models.Like) error {
	writer := csv.NewWriter(w)

	headers := []string{"ID", "Title", "Artist", "Popularity", "SpotifyID", "PreviewURL", "ArtURL"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, like := range likes {
		record := []string{
			like.ID,
			like.Title,
			like.Artist,
			strconv.Itoa(like.Popularity),
			like.SpotifyID,
			like.PreviewURL,
			like.ArtURL,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}

	return nil
}

// LikesToText writes a user's likes as a plain numbered list
func LikesToText(w io.Writer, likes []*models.Like) error {
	if _, err := fmt.Fprintf(w, "Likes: %d\n\n", len(likes)); err != nil {
		return fmt.Errorf("failed to write text export: %w", err)
	}

	for i, like := range likes {
		if _, err := fmt.Fprintf(w, "%d. %s - %s\n", i+1, like.Artist, like.Title); err != nil {
			return fmt.Errorf("failed to write text export: %w", err)
		}
	}

	return nil
}

// BatchToMarkdown writes a recommendation batch as Markdown.
//
// songs carries the resolved song records; references the batch still
// holds for deleted songs are skipped by the caller.
func BatchToMarkdown(w io.Writer, batch *models.Batch, songs []*models.Song) error {
	write := func(format string, args ...any) error {
		_, err := fmt.Fprintf(w, format, args...)
		if err != nil {
			return fmt.Errorf("failed to write Markdown export: %w", err)
		}
		return nil
	}

	if err := write("# %s\n\n", batch.Name); err != nil {
		return err
	}
	if err := write("**Songs**: %d\n\n", len(songs)); err != nil {
		return err
	}

	for i, song := range songs {
		line := fmt.Sprintf("%d. %s - %s (popularity %d)", i+1, song.Artist, song.Title, song.Popularity)
		if song.PreviewURL != "" {
			line += fmt.Sprintf(" [preview](%s)", song.PreviewURL)
		}
		if err := write("%s\n", line); err != nil {
			return err
		}
	}

	return nil
}

// WriteLikesExport writes a user's likes to a file in the given format
// ("csv" or "text") and returns the path written.
//
// Defaults to likes.{ext} when path is empty.
func WriteLikesExport(likes []*models.Like, format, path string) (string, error) {
	var render func(io.Writer, []*models.Like) error
	var ext string

	switch format {
	case "csv":
		render, ext = LikesToCSV, "csv"
	case "text":
		render, ext = LikesToText, "txt"
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}

	if path == "" {
		path = "likes." + ext
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := render(f, likes); err != nil {
		return "", err
	}

	return path, nil
}

// WriteBatchExport writes a batch to a Markdown file and returns the
// path written.
//
// Defaults to {batch.ID}.md when path is empty.
func WriteBatchExport(batch *models.Batch, songs []*models.Song, path string) (string, error) {
	if path == "" {
		path = batch.ID + ".md"
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := BatchToMarkdown(f, batch, songs); err != nil {
		return "", err
	}

	return path, nil
}
