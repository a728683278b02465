package utils

import (
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"clinsearch/models"
)

// CreateSessionLogger builds the append-mode, size-capped session logger.
// Events are written to the rotating log file only, keeping stdout free for
// the interactive prompts and the final report.
func CreateSessionLogger(cfg *models.Config) *slog.Logger {
	rotatingWriter := &lumberjack.Logger{
		Filename:   cfg.Log.Path,
		MaxSize:    cfg.Log.MaxSizeMb,
		MaxBackups: cfg.Log.MaxBackups,
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	return slog.New(tint.NewHandler(rotatingWriter, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}))
}
