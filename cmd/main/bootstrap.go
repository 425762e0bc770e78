package main

import (
	"context"
	"sync"

	"plug-explorer/src/i18n"
	"plug-explorer/src/interfaces"
	"plug-explorer/src/logger"
	"plug-explorer/src/storage"
)

// localState is the persisted blob as loaded once at startup, kept so a language
// switch can write it back without losing unrelated keys.
type localState struct {
	db  interfaces.IDatabase
	key string

	mu  sync.Mutex
	raw map[string]interface{}
}

// -----------------------------------------------------------------------------

// bootstrapLocalState reads the persisted blob. A blob that is not valid JSON stops
// the process.
func bootstrapLocalState(ctx context.Context, db interfaces.IDatabase, key string, appLogger *logger.Logger) (*localState, string) {
	loaded, err := storage.LoadLocalState(ctx, db, key)
	if err != nil {
		appLogger.Critical("Failed to read local state: %v", err)
	}

	switch loaded.Kind {
	case storage.StateParseError:
		appLogger.Critical("Local state under %q is corrupt: %v", key, loaded.Err)
	case storage.StateEmpty:
		appLogger.Info("No local state under %q, starting fresh", key)
	case storage.StateLoaded:
		appLogger.Info("Loaded local state under %q (%d keys)", key, len(loaded.Raw))
		if loaded.DecodeErr != nil {
			appLogger.Warning("Local state has an unexpected shape: %v", loaded.DecodeErr)
		}
	}

	language := loaded.State.Config.Language
	if !i18n.Supported(language) {
		language = ""
	}
	return &localState{db: db, key: key, raw: loaded.Raw}, language
}

// -----------------------------------------------------------------------------

// SetLanguage stores lang under config.language.
func (s *localState) SetLanguage(ctx context.Context, lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := storage.WithLanguage(s.raw, lang)
	if err := storage.SaveLocalState(ctx, s.db, s.key, next); err != nil {
		return err
	}
	s.raw = next
	return nil
}
