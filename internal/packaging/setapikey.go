package packaging

import (
	"context"
	"fmt"

	"nugetctl/internal/logging"
)

// SetAPIKey stores key in the NuGet configuration. The key never reaches the
// logs or the journal.
func (s *Service) SetAPIKey(ctx context.Context, key string) (err error) {
	op := s.begin(ctx, "setapikey", "")
	defer func() { op.finish(err, "") }()

	op.logger.Debug("setting api key", logging.Secret("api_key", key))
	code, err := s.runner.RunSecret(op.ctx, commandSetAPIKey, key)
	if err != nil {
		return fmt.Errorf("set api key: %w", err)
	}
	if code != 0 {
		return &CommandError{Command: commandSetAPIKey, ExitCode: code}
	}
	return nil
}
