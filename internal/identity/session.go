package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pixelyear/pixelyear/internal/logging"
)

// SessionFileName is the token file kept in the data directory.
const SessionFileName = "session.jwt"

// SessionProvider implements Provider on top of a session token file.
//
// When a verification secret is configured, tokens are checked as HS256
// signatures; otherwise claims are read unverified (the token is then
// trusted the way a browser trusts its own local storage) with only the
// expiry enforced. An unreadable, invalid or expired token counts as
// logged out, never as an error.
type SessionProvider struct {
	path   string
	secret []byte
	log    logging.Logger

	mu      sync.Mutex
	subs    map[int]func(*Identity)
	nextSub int
	lastID  string

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewSessionProvider(dataDir string, secret []byte, log logging.Logger) *SessionProvider {
	return &SessionProvider{
		path:   filepath.Join(dataDir, SessionFileName),
		secret: secret,
		log:    log,
		subs:   make(map[int]func(*Identity)),
	}
}

// Current returns the identity from the session file, or nil when there is
// no usable session.
func (p *SessionProvider) Current(ctx context.Context) (*Identity, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	id, err := p.parseToken(strings.TrimSpace(string(data)))
	if err != nil {
		p.log.Warn(ctx, "ignoring unusable session token", "error", err)
		return nil, nil
	}
	return id, nil
}

// Login validates the token, persists it and notifies subscribers.
func (p *SessionProvider) Login(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	id, err := p.parseToken(token)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := os.WriteFile(p.path, []byte(token), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write session file: %w", err)
	}

	p.log.Info(ctx, "logged in", "user_id", id.UserID)
	p.notify(id)
	return id, nil
}

// Logout removes the session file and notifies subscribers. Logging out
// twice is fine.
func (p *SessionProvider) Logout(ctx context.Context) error {
	err := os.Remove(p.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	p.log.Info(ctx, "logged out")
	p.notify(nil)
	return nil
}

// Subscribe registers a handler invoked whenever the identity changes. The
// returned function removes the registration.
func (p *SessionProvider) Subscribe(handler func(*Identity)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = handler
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// notify fans an identity change out to subscribers. Consecutive
// notifications for the same user collapse into one, which also absorbs the
// watcher event caused by our own Login write.
func (p *SessionProvider) notify(id *Identity) {
	var userID string
	if id != nil {
		userID = id.UserID
	}

	p.mu.Lock()
	if userID == p.lastID {
		p.mu.Unlock()
		return
	}
	p.lastID = userID
	handlers := make([]func(*Identity), 0, len(p.subs))
	for _, h := range p.subs {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(id)
	}
}

func (p *SessionProvider) parseToken(token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}

	if len(p.secret) > 0 {
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			return p.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return nil, ErrTokenExpired
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if !parsed.Valid {
			return nil, ErrInvalidToken
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
			return nil, ErrTokenExpired
		}
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// Start begins watching the session file so logins and logouts performed by
// other processes are noticed. Stop (or ctx cancellation) ends the watch.
func (p *SessionProvider) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	// Watch the directory, not the file: the file may not exist yet and
	// editors replace files by rename.
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	done := make(chan struct{})
	p.mu.Lock()
	p.watcher = watcher
	p.done = done
	p.mu.Unlock()

	p.wg.Add(1)
	go p.processEvents(ctx, watcher, done)
	return nil
}

// Stop ends the watch and waits for the event goroutine to exit.
func (p *SessionProvider) Stop() {
	p.mu.Lock()
	watcher := p.watcher
	done := p.done
	p.watcher = nil
	p.mu.Unlock()

	if watcher == nil {
		return
	}
	close(done)
	_ = watcher.Close()
	p.wg.Wait()
}

func (p *SessionProvider) processEvents(ctx context.Context, watcher *fsnotify.Watcher, done <-chan struct{}) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != p.path {
				continue
			}
			id, err := p.Current(ctx)
			if err != nil {
				p.log.Warn(ctx, "failed to re-read session after change", "error", err)
				continue
			}
			p.notify(id)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.log.Warn(ctx, "session watcher error", "error", err)
		}
	}
}
