package main

import (
	"context"

	"github.com/mixtape-labs/mixtape/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse opens the terminal browser over stored songs and, when a user is
// given, their likes.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd.String("config"))

	lib, cleanup, err := r.openLibrary()
	if err != nil {
		return err
	}
	defer cleanup()

	return ui.Run(lib, cmd.String("user"))
}
