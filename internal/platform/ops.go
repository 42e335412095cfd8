package platform

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/scribble/pkg/adapters/badger"
	"github.com/aretw0/scribble/pkg/adapters/fs"
	"github.com/aretw0/scribble/pkg/adapters/memory"
	"github.com/aretw0/scribble/pkg/adapters/sqlite"
	"github.com/aretw0/scribble/pkg/core"
)

// Adapters lists the storage adapter names Init understands.
var Adapters = []string{"fs", "badger", "sqlite", "memory"}

// Init opens the storage backend selected by the options.
// The uri is adapter-specific: a directory for fs and badger, a database file for sqlite,
// ignored for memory.
func Init(uri string, opts ...Option) (core.KeyValueStore, error) {
	return initStore(context.Background(), uri, applyOptions(opts))
}

func initStore(ctx context.Context, uri string, o *options) (core.KeyValueStore, error) {
	if o.kv != nil {
		return o.kv, nil
	}

	switch o.adapter {
	case "fs", "":
		return initFS(ctx, uri, o)
	case "badger":
		return initBadger(ctx, uri, o)
	case "sqlite":
		return initSQLite(ctx, uri, o)
	case "memory":
		return initMemory(o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// resolvePath applies the dev sandbox to a path-based adapter location.
func resolvePath(uri string, o *options) (string, bool) {
	tempDir, _ := o.config["temp_dir"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)

	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only access is inherently safe.
	bypassSafety := isReadOnly || !devSafety
	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolveStoragePath(uri, useTemp)

	if o.logger != nil {
		switch {
		case useTemp:
			o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", uri, "resolved_path", resolved)
		case IsDevRun() && isReadOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		case IsDevRun():
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}
	return resolved, useTemp
}

func initFS(ctx context.Context, uri string, o *options) (core.KeyValueStore, error) {
	path, _ := resolvePath(uri, o)
	mustExist, _ := o.config["must_exist"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	store := fs.NewStore(fs.Config{
		Path:         path,
		MustExist:    mustExist,
		ReadOnly:     isReadOnly,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func initMemory(o *options) (core.KeyValueStore, error) {
	if mustExist, _ := o.config["must_exist"].(bool); mustExist {
		return nil, fmt.Errorf("memory storage never exists beforehand")
	}
	isReadOnly, _ := o.config["read_only"].(bool)
	return memory.NewStore(nil, memory.WithReadOnly(isReadOnly)), nil
}

func initBadger(ctx context.Context, uri string, o *options) (core.KeyValueStore, error) {
	path, _ := resolvePath(uri, o)
	mustExist, _ := o.config["must_exist"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)

	store := badger.NewStore(badger.Config{
		Path:      path,
		MustExist: mustExist,
		ReadOnly:  isReadOnly,
		Logger:    o.logger,
	})
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func initSQLite(ctx context.Context, uri string, o *options) (core.KeyValueStore, error) {
	mustExist, _ := o.config["must_exist"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)
	opts := []sqlite.Option{sqlite.WithMustExist(mustExist), sqlite.WithReadOnly(isReadOnly)}

	if uri == sqlite.MemoryPath {
		return sqlite.Open(ctx, uri, opts...)
	}
	if uri == "" || filepath.Ext(uri) == "" {
		uri = filepath.Join(uri, "scribble.db")
	}
	path, _ := resolvePath(uri, o)
	return sqlite.Open(ctx, path, opts...)
}
