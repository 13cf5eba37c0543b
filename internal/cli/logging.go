package cli

import (
	"io"
	"log/slog"

	"github.com/rocketship-ai/scriptrunner/internal/logging"
)

// Logger is the global logger instance
var Logger = slog.Default()

// InitLogging points the global logger at w with the given level name
// (DEBUG, INFO, WARN or ERROR; INFO when empty or unrecognized).
func InitLogging(w io.Writer, level string) {
	Logger = logging.New(w, level)
}
