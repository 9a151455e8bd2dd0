package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"framez/internal/auth"
	"framez/internal/backend"
	"framez/internal/backend/local"
	"framez/internal/config"
	"framez/internal/database"
	"framez/internal/realtime"
	"framez/internal/session"
	"framez/internal/storage"
)

// app bundles the wired platform client and the session state for one
// CLI invocation.
type app struct {
	client   *backend.Client
	sessions *session.Store
	bus      *realtime.Bus
	detach   func()
}

func openApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	bus := realtime.NewBus()
	store := storage.NewDiskStore(cfg.StorageDir, cfg.StorageBaseURL)
	client := local.New(db, store, bus, cfg.JWTSecret)

	sessions := session.NewStore()
	detach := session.Bootstrap(context.Background(), sessions, client)
	return &app{client: client, sessions: sessions, bus: bus, detach: detach}, nil
}

func (a *app) Close() {
	a.detach()
	a.bus.Close()
}

// restoreSession re-establishes the persisted session, if any. A stale
// or invalid token is discarded silently; the user just isn't signed in.
func (a *app) restoreSession(ctx context.Context) *auth.Session {
	token, err := readSessionToken()
	if err != nil || token == "" {
		return nil
	}
	sess, err := a.client.Auth.Restore(ctx, token)
	if err != nil {
		_ = clearSessionToken()
		return nil
	}
	return sess
}

// mustSession exits when nobody is signed in.
func (a *app) mustSession(ctx context.Context) *auth.Session {
	sess := a.restoreSession(ctx)
	if sess == nil {
		exitf("Not signed in. Run `framez login <email>` first.")
	}
	return sess
}

func sessionTokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".framez", "session"), nil
}

func readSessionToken() (string, error) {
	path, err := sessionTokenPath()
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func writeSessionToken(token string) error {
	path, err := sessionTokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0600)
}

func clearSessionToken() error {
	path, err := sessionTokenPath()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
