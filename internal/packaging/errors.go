package packaging

import (
	"errors"
	"fmt"

	"nugetctl/internal/services"
)

var (
	// ErrPackFailed marks a pack command that exited nonzero.
	ErrPackFailed = errors.New("pack failed")
	// ErrPushFailed marks a push command that exited nonzero.
	ErrPushFailed = errors.New("push failed")
	// ErrSetAPIKey marks a setApiKey command that exited nonzero.
	ErrSetAPIKey = errors.New("failed to set API key")
)

// CommandError reports a NuGet command that ran but exited nonzero.
type CommandError struct {
	Command  string
	Input    string
	ExitCode int
}

func (e *CommandError) Error() string {
	switch e.Command {
	case commandPack:
		return fmt.Sprintf("failed to pack file: %s (exit code %d)", e.Input, e.ExitCode)
	case commandPush:
		return fmt.Sprintf("failed to push file: %s (exit code %d)", e.Input, e.ExitCode)
	case commandSetAPIKey:
		return fmt.Sprintf("%s (exit code %d)", ErrSetAPIKey, e.ExitCode)
	default:
		return fmt.Sprintf("nuget %s failed: %s (exit code %d)", e.Command, e.Input, e.ExitCode)
	}
}

func (e *CommandError) Is(target error) bool {
	switch target {
	case services.ErrExternalTool:
		return true
	case ErrPackFailed:
		return e.Command == commandPack
	case ErrPushFailed:
		return e.Command == commandPush
	case ErrSetAPIKey:
		return e.Command == commandSetAPIKey
	}
	return false
}
