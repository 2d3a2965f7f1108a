// Package logger configures the process-wide grip sender.
package logger

import (
	"strings"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/send"
	"github.com/pkg/errors"
)

// Setup routes grip output to stdout for messages at or above lvl.
func Setup(name, lvl string) error {
	sender, err := send.NewNativeLogger(name, send.LevelInfo{Default: level.Info, Threshold: parseLevel(lvl)})
	if err != nil {
		return errors.Wrap(err, "creating log sender")
	}
	return errors.Wrap(grip.SetSender(sender), "setting log sender")
}

func parseLevel(lvl string) level.Priority {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return level.Debug
	case "warn", "warning":
		return level.Warning
	case "error":
		return level.Error
	default:
		return level.Info
	}
}
