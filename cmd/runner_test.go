package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mixtape-labs/mixtape/internal/library"
	"github.com/mixtape-labs/mixtape/internal/services"
	"github.com/mixtape-labs/mixtape/internal/shared"
	tu "github.com/mixtape-labs/mixtape/internal/testing"
)

var pinkMoon = &services.TrackSummary{
	Title:      "Pink Moon",
	Artist:     "Nick Drake",
	Popularity: 74,
	SpotifyID:  "sp123",
}

func newTestConfig(t *testing.T) *shared.Config {
	t.Helper()

	config := shared.DefaultConfig()
	config.Database.URI = filepath.Join(t.TempDir(), "mixtape.db")
	return config
}

func newTestRunner(config *shared.Config, output io.Writer) *Runner {
	return NewRunner(RunnerOpts{
		Config: config,
		Logger: shared.NewLogger(io.Discard),
		Output: output,
	})
}

// seedLibrary stores a song via catalog search, likes it, and creates one
// recommendation batch for a fresh user.
func seedLibrary(t *testing.T, config *shared.Config) (userID, songID, likeID, batchID string) {
	t.Helper()

	db, err := shared.NewDatabase(config.Database.URI)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	catalog := &tu.MockCatalog{
		SearchResult: pinkMoon,
		RecsResult:   []services.TrackSummary{*pinkMoon},
	}
	lib := library.New(db, catalog, shared.NewLogger(io.Discard))

	user, err := lib.Signup("ada", "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	if _, err := lib.SearchSong(context.Background(), "Nick Drake", "Pink Moon"); err != nil {
		t.Fatalf("failed to store song: %v", err)
	}

	songs, err := lib.ListSongs()
	if err != nil || len(songs) == 0 {
		t.Fatalf("expected stored song, got %v (err %v)", songs, err)
	}

	like, err := lib.LikeSong(user.ID, songs[0].ID)
	if err != nil {
		t.Fatalf("failed to like song: %v", err)
	}

	seeds := services.Seeds{Artists: []string{"nick-drake"}}
	if _, err := lib.Recommend(context.Background(), user.ID, seeds, 0); err != nil {
		t.Fatalf("failed to create batch: %v", err)
	}

	batches, err := lib.ListBatches(user.ID)
	if err != nil || len(batches) == 0 {
		t.Fatalf("expected stored batch, got %v (err %v)", batches, err)
	}

	return user.ID, songs[0].ID, like.ID, batches[0].ID
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			catalog := &tu.MockCatalog{}

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Catalog: catalog,
				Logger:  logger,
				Output:  output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limited := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: limited})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlainln", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlainln("done: %d", 3); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if output.String() != "\ndone: 3\n" {
			t.Errorf("expected surrounding newlines, got %q", output.String())
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) != 4 {
			t.Errorf("expected 4 commands, got %d", len(commands))
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

func TestSetupDatabase(t *testing.T) {
	t.Run("initializes database from config file", func(t *testing.T) {
		tmp := t.TempDir()
		configPath := filepath.Join(tmp, "config.toml")
		dbPath := filepath.Join(tmp, "mixtape.db")

		contents := fmt.Sprintf("[database]\nuri = %q\n", dbPath)
		if err := os.WriteFile(configPath, []byte(contents), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		output := &bytes.Buffer{}
		runner := newTestRunner(nil, output)

		cmd := setupCommand(runner)
		if err := cmd.Run(context.Background(), []string{"setup", "--config", configPath}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := os.Stat(dbPath); err != nil {
			t.Errorf("expected database file to exist: %v", err)
		}
		if !strings.Contains(output.String(), "Database ready") {
			t.Errorf("expected confirmation message, got %q", output.String())
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		tmp := t.TempDir()
		configPath := filepath.Join(tmp, "config.toml")
		dbPath := filepath.Join(tmp, "mixtape.db")

		contents := fmt.Sprintf("[database]\nuri = %q\n", dbPath)
		if err := os.WriteFile(configPath, []byte(contents), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		runner := newTestRunner(nil, &bytes.Buffer{})

		for i := 0; i < 2; i++ {
			cmd := setupCommand(runner)
			if err := cmd.Run(context.Background(), []string{"setup", "--config", configPath}); err != nil {
				t.Fatalf("run %d: expected no error, got %v", i+1, err)
			}
		}
	})
}

func TestExportLikes(t *testing.T) {
	t.Run("writes CSV file", func(t *testing.T) {
		config := newTestConfig(t)
		userID, _, _, _ := seedLibrary(t, config)

		outPath := filepath.Join(t.TempDir(), "likes.csv")
		output := &bytes.Buffer{}
		runner := newTestRunner(config, output)

		cmd := exportCommand(runner)
		args := []string{"export", "likes", "--user", userID, "--output", outPath}
		if err := cmd.Run(context.Background(), args); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("expected export file: %v", err)
		}
		if !strings.Contains(string(data), "Pink Moon") {
			t.Errorf("expected exported like in file, got %q", string(data))
		}
		if !strings.Contains(output.String(), "Exported 1 likes") {
			t.Errorf("expected confirmation message, got %q", output.String())
		}
	})

	t.Run("prints JSON to output", func(t *testing.T) {
		config := newTestConfig(t)
		userID, _, _, _ := seedLibrary(t, config)

		output := &bytes.Buffer{}
		runner := newTestRunner(config, output)

		cmd := exportCommand(runner)
		args := []string{"export", "likes", "--user", userID, "--format", "json"}
		if err := cmd.Run(context.Background(), args); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(output.String(), `"title": "Pink Moon"`) {
			t.Errorf("expected JSON output, got %q", output.String())
		}
	})

	t.Run("fails for unknown user", func(t *testing.T) {
		config := newTestConfig(t)
		seedLibrary(t, config)

		runner := newTestRunner(config, &bytes.Buffer{})

		cmd := exportCommand(runner)
		args := []string{"export", "likes", "--user", "missing", "--output", filepath.Join(t.TempDir(), "x.csv")}
		err := cmd.Run(context.Background(), args)

		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found error, got %v", err)
		}
	})
}

func TestExportBatch(t *testing.T) {
	t.Run("writes Markdown file", func(t *testing.T) {
		config := newTestConfig(t)
		userID, _, _, batchID := seedLibrary(t, config)

		outPath := filepath.Join(t.TempDir(), "batch.md")
		output := &bytes.Buffer{}
		runner := newTestRunner(config, output)

		cmd := exportCommand(runner)
		args := []string{"export", "batch", "--user", userID, "--id", batchID, "--output", outPath}
		if err := cmd.Run(context.Background(), args); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("expected export file: %v", err)
		}
		if !strings.Contains(string(data), "Nick Drake - Pink Moon") {
			t.Errorf("expected batch song in file, got %q", string(data))
		}
		if !strings.Contains(output.String(), "Exported batch") {
			t.Errorf("expected confirmation message, got %q", output.String())
		}
	})

	t.Run("fails for missing batch", func(t *testing.T) {
		config := newTestConfig(t)
		userID, _, _, _ := seedLibrary(t, config)

		runner := newTestRunner(config, &bytes.Buffer{})

		cmd := exportCommand(runner)
		args := []string{"export", "batch", "--user", userID, "--id", "missing", "--output", filepath.Join(t.TempDir(), "x.md")}
		err := cmd.Run(context.Background(), args)

		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found error, got %v", err)
		}
	})
}

func TestServe(t *testing.T) {
	t.Run("fails without catalog credentials", func(t *testing.T) {
		config := newTestConfig(t)
		runner := newTestRunner(config, &bytes.Buffer{})

		cmd := serveCommand(runner)
		err := cmd.Run(context.Background(), []string{"serve"})

		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected missing credentials error, got %v", err)
		}
	})
}
