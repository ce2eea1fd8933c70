// Package tasks implements the clinic bot's scheduled tasks: the daily
// aftercare sweep and database maintenance. It includes task definitions,
// dependencies, and registration mechanisms.
package tasks

import (
	"log/slog"

	"github.com/flosclinic/benmeibot/internal/aftercare"
	"github.com/flosclinic/benmeibot/internal/config"
	"github.com/flosclinic/benmeibot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Store   database.Store
	Sweeper *aftercare.Sweeper
}
