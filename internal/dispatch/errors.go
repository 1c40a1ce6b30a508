package dispatch

import (
	"errors"
	"fmt"

	"github.com/dotcommander/kvd/internal/models"
)

// Sentinel errors for errors.Is checks across package boundaries.
var (
	ErrCommandNotFound  = errors.New("unknown command")
	ErrInvalidArguments = errors.New("invalid arguments")
)

// CommandNotFoundError reports a request naming a command the dispatcher
// does not know.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string     { return "unknown command" }
func (e *CommandNotFoundError) ErrorCode() string { return "COMMAND_NOT_FOUND" }
func (e *CommandNotFoundError) Context() map[string]string {
	return map[string]string{"command": e.Name}
}
func (e *CommandNotFoundError) SuggestedAction() string {
	return "use one of: PING, GET, SET, DELETE, INCR, DECR, TTL, EXPIRE"
}
func (e *CommandNotFoundError) Is(target error) bool { return target == ErrCommandNotFound }

// InvalidArgumentsError reports a recognized command whose argument bag is
// missing a required argument or carries one of the wrong type.
type InvalidArgumentsError struct {
	Command string
	Arg     string
	Reason  string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments: %s", e.Reason)
}
func (e *InvalidArgumentsError) ErrorCode() string { return "INVALID_ARGUMENTS" }
func (e *InvalidArgumentsError) Context() map[string]string {
	return map[string]string{
		"command": e.Command,
		"arg":     e.Arg,
	}
}
func (e *InvalidArgumentsError) SuggestedAction() string {
	return fmt.Sprintf("re-send %s with a valid %q argument", e.Command, e.Arg)
}
func (e *InvalidArgumentsError) Is(target error) bool { return target == ErrInvalidArguments }

var _ models.RecoverableError = (*CommandNotFoundError)(nil)
var _ models.RecoverableError = (*InvalidArgumentsError)(nil)
