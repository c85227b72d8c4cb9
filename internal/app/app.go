package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pixelyear/pixelyear/internal/config"
	"github.com/pixelyear/pixelyear/internal/engine"
	"github.com/pixelyear/pixelyear/internal/identity"
	"github.com/pixelyear/pixelyear/internal/logging"
	"github.com/pixelyear/pixelyear/internal/remote"
	"github.com/pixelyear/pixelyear/internal/repositories/metadata"
	"github.com/pixelyear/pixelyear/internal/storage"
)

// DatabaseFileName is the sqlite file kept inside the data directory.
const DatabaseFileName = "pixelyear.db"

// App wires the planner, local storage, session identity and the sync
// engine behind the interactive prompt.
type App struct {
	cfg     *config.Config
	log     logging.Logger
	store   *storage.Store
	remote  remote.Store
	rclose  io.Closer
	session *identity.SessionProvider
	engine  *engine.Engine
	canvas  *Canvas
	clock   *metadata.KeyStore
	reader  *bufio.Reader
	device  string

	mu      sync.Mutex
	ident   *identity.Identity
	unsubID func()
}

// NewApp opens the local database, dials the sync backend (staying offline
// when it is unreachable) and assembles the engine around them.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	store, err := storage.InitDatabase(ctx, filepath.Join(cfg.DataDir, DatabaseFileName))
	if err != nil {
		return nil, err
	}

	device, err := metadata.EnsureDeviceID(ctx, store.Metadata)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	var (
		remoteStore remote.Store
		rclose      io.Closer
	)
	if cfg.RedisAddr != "" {
		rs, err := remote.Dial(ctx, cfg.RedisAddr, log)
		if err != nil {
			log.Warn(ctx, "sync backend unreachable, starting offline",
				"addr", cfg.RedisAddr, "error", err)
		} else {
			remoteStore = rs
			rclose = rs
		}
	}

	canvas := NewCanvas(cfg.Year, store.DB, store.Annotations, log)
	if err := canvas.Load(ctx); err != nil {
		_ = store.Close()
		if rclose != nil {
			_ = rclose.Close()
		}
		return nil, err
	}

	clock := metadata.NewKeyStore(store.Metadata, metadata.KeyLastSyncedAt)

	eng := engine.New(engine.Config{
		Store:          remoteStore,
		State:          canvas,
		Clock:          clock,
		Logger:         log,
		DeviceID:       device,
		Year:           cfg.Year,
		DebounceWindow: cfg.DebounceWindow,
	})
	canvas.SetNotify(eng.OnDocumentChanged)

	var secret []byte
	if cfg.SessionSecret != "" {
		secret = []byte(cfg.SessionSecret)
	}
	session := identity.NewSessionProvider(cfg.DataDir, secret, log)

	return &App{
		cfg:     cfg,
		log:     log,
		store:   store,
		remote:  remoteStore,
		rclose:  rclose,
		session: session,
		engine:  eng,
		canvas:  canvas,
		clock:   clock,
		reader:  bufio.NewReader(os.Stdin),
		device:  device,
	}, nil
}

// Run connects identity changes to the engine, restores any existing
// session and blocks in the interactive prompt until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.unsubID = a.session.Subscribe(func(id *identity.Identity) {
		a.onIdentity(ctx, id)
	})
	if err := a.session.Start(ctx); err != nil {
		a.log.Warn(ctx, "session watcher unavailable", "error", err)
	}

	if id, err := a.session.Current(ctx); err == nil && id != nil {
		a.onIdentity(ctx, id)
	}

	fmt.Println("pixelyear (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

// Close tears everything down in dependency order: engine first so no
// callback touches a closed store.
func (a *App) Close() {
	if a.unsubID != nil {
		a.unsubID()
		a.unsubID = nil
	}
	a.engine.Close()
	a.session.Stop()
	if a.rclose != nil {
		_ = a.rclose.Close()
	}
	_ = a.store.Close()
}

// onIdentity records the identity for the prompt and flips the engine.
func (a *App) onIdentity(ctx context.Context, id *identity.Identity) {
	a.mu.Lock()
	a.ident = id
	a.mu.Unlock()

	owner := ""
	if id != nil {
		owner = id.UserID
	}
	a.engine.OnIdentityChanged(ctx, owner)
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ident != nil
}

func (a *App) currentIdentity() *identity.Identity {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ident
}

func (a *App) getStatus() string {
	who := "guest"
	if id := a.currentIdentity(); id != nil {
		who = id.UserID
		if id.Email != "" {
			who = id.Email
		}
	}
	return fmt.Sprintf("(%s %d %s)", who, a.canvas.Year(), a.engine.Phase())
}
