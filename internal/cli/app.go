package cli

import (
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/mrlokans/journo/internal/cache"
	"github.com/mrlokans/journo/internal/config"
	"github.com/mrlokans/journo/internal/database"
	"github.com/mrlokans/journo/internal/importers"
	"github.com/mrlokans/journo/internal/logging"
	"github.com/mrlokans/journo/internal/notion"
)

// App carries what every command shares: the env file location, the
// loaded configuration and the logger.
type App struct {
	EnvFile string
	Version string

	cfg    *config.Config
	logger *zap.Logger
}

func (a *App) load() error {
	cfg, err := config.NewConfig(a.EnvFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *App) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *App) store() (*cache.Store, error) {
	return cache.NewStore(a.cfg.Data.ImportFolder())
}

func (a *App) database() (*database.Database, error) {
	return database.NewDatabase(a.cfg.Database.Path, a.logger)
}

// soft turns the errors a user fixes by changing their input into a
// printed notice, so the command still exits 0.
func soft(w io.Writer, err error) error {
	switch {
	case errors.Is(err, importers.ErrMissingCredential),
		errors.Is(err, importers.ErrInvalidIdentifier):
		printNotice(w, err.Error())
		return nil
	case errors.Is(err, notion.ErrInvalidCredential):
		printNotice(w, "Invalid API key, unable to connect to Notion: "+err.Error())
		return nil
	}
	return err
}
