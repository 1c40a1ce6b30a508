package commands

import (
	"errors"
	"log/slog"

	"github.com/dotcommander/kvd/internal/app"
	"github.com/dotcommander/kvd/internal/client"
	"github.com/dotcommander/kvd/internal/models"
	"github.com/dotcommander/kvd/internal/output"
)

type printedError struct {
	err error
}

func (e printedError) Error() string {
	// Intentionally hide the original error: the JSON error response is the output.
	return "error already printed"
}

// withClient resolves the server address and runs fn against a client for it.
// Failures are printed as a JSON error response and logged once.
func withClient(fn func(c *client.Client) error) error {
	c := client.New(app.ServerAddr())
	if err := fn(c); err != nil {
		return cmdErr(err)
	}
	return nil
}

func cmdErr(err error) error {
	if err == nil {
		return nil
	}
	attrs := []any{"error", err.Error()}
	var rec models.RecoverableError
	if errors.As(err, &rec) {
		attrs = append(attrs, "code", rec.ErrorCode())
	}
	slog.Error("command error", attrs...)
	_ = output.PrintError(err)
	return printedError{err: err}
}
