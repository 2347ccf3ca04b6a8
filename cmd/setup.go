package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/flotilla-dev/flotilla/internal/config"
	"github.com/flotilla-dev/flotilla/internal/engine"
	"github.com/flotilla-dev/flotilla/internal/store"
	"github.com/flotilla-dev/flotilla/pkg/docker"
	"github.com/flotilla-dev/flotilla/pkg/logger"
	"github.com/flotilla-dev/flotilla/pkg/manifest"
)

// manifestCandidates are tried in order when --manifest is not given.
var manifestCandidates = []string{"flotilla.yaml", "flotilla.yml", "flotilla.json"}

// app bundles everything a command needs: loaded config, the validated
// manifest, the runtime client and the engine over them.
type app struct {
	cfg *config.Config
	man *manifest.Manifest
	eng *engine.Engine

	rt *docker.Client
	st *store.Store
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.GetLogger().SetLogLevel(cfg.LogLevel)
	logger.GetLogger().ConfigureFromEnv()

	path, err := locateManifest()
	if err != nil {
		return nil, err
	}
	man, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}

	rt, err := docker.New(ctx, docker.Options{
		SocketPath:   cfg.Runtime.SocketPath,
		MinVersion:   cfg.Runtime.MinVersion,
		StopTimeout:  cfg.Engine.StopTimeout,
		ReadyTimeout: cfg.Engine.ReadyTimeout,
	})
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Engine.StateDir)
	if err != nil {
		// The engine degrades to name lookup without recorded state.
		logger.Warn("Could not open state store", "error", err)
		st = nil
	}

	var state engine.StateStore
	if st != nil {
		state = st
	}
	return &app{cfg: cfg, man: man, eng: engine.New(rt, state), rt: rt, st: st}, nil
}

func (a *app) close() {
	if a.st != nil {
		a.st.Close()
	}
	if a.rt != nil {
		a.rt.Close()
	}
}

func locateManifest() (string, error) {
	if manifestFile != "" {
		if _, err := os.Stat(manifestFile); err != nil {
			return "", fmt.Errorf("could not open manifest %s: %w", manifestFile, err)
		}
		return manifestFile, nil
	}
	for _, candidate := range manifestCandidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no manifest found (tried %v); use --manifest", manifestCandidates)
}
