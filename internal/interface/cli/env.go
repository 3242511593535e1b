package cli

import (
	"fmt"
	"strings"

	"yeomju/internal/core/auth"
	"yeomju/internal/core/config"
	"yeomju/internal/core/db"
	"yeomju/internal/core/models"
	"yeomju/internal/core/remote"
)

// env bundles what most commands need: config, the open database and the
// optional remote/auth collaborators.
type env struct {
	cfg    *config.Config
	db     *db.DB
	auth   *auth.Provider
	remote *remote.Client
}

// openEnv loads config and opens the database. The remote client is nil
// when no endpoint is configured.
func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	database, err := db.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	e := &env{
		cfg:  cfg,
		db:   database,
		auth: auth.NewProvider(cfg.AuthEndpoint, cfg.ConfigDir),
	}
	if cfg.RemoteEndpoint != "" {
		rc, err := remote.New(cfg.RemoteEndpoint, e.auth.Token, remote.DeviceID(cfg.ConfigDir))
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("invalid remote endpoint: %w", err)
		}
		e.remote = rc
	}
	return e, nil
}

func (e *env) close() {
	_ = e.db.Close()
}

// chantTypeFromFlag resolves a --type flag value: a Korean label, or one of
// the english aliases.
func chantTypeFromFlag(s string) (*models.ChantType, error) {
	aliases := map[string]models.ChantType{
		"namu-amitabul": models.TypeNamuAmitabul,
		"namu-gwanseum": models.TypeNamuGwanseum,
		"gwanseum":      models.TypeGwanseum,
		"jijang":        models.TypeJijang,
		"custom":        models.TypeCustom,
	}
	if t, ok := aliases[strings.ToLower(s)]; ok {
		return &t, nil
	}
	for _, t := range models.ChantTypes() {
		if t.Label() == s {
			t := t
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unknown chant type %q (want namu-amitabul, namu-gwanseum, gwanseum, jijang, custom or a label)", s)
}
