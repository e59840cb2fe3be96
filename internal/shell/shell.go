package shell

import (
	"context"
	"strings"
	"sync"

	"logistics-console/internal/logx"
	"logistics-console/internal/session"
)

// Known paths.
const (
	PathRoot     = "/"
	PathLogin    = "/login"
	PathRegister = "/register"
	PathHome     = "/home"
	PathOrders   = "/orders"
	PathCarriers = "/carriers"
	PathTracking = "/tracking"
)

var publicPaths = map[string]struct{}{
	PathRoot:     {},
	PathLogin:    {},
	PathRegister: {},
}

// IsPublic reports whether path can be visited without a session.
func IsPublic(path string) bool {
	_, ok := publicPaths[normalize(path)]
	return ok
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return PathRoot
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// Navigator tracks the current location.
type Navigator struct {
	mu      sync.RWMutex
	current string
	history []string
	logger  logx.Logger
}

// NewNavigator starts at start.
func NewNavigator(start string, logger logx.Logger) *Navigator {
	if logger == nil {
		logger = logx.Nop()
	}
	start = normalize(start)
	return &Navigator{current: start, history: []string{start}, logger: logger}
}

// Navigate moves to path.
func (n *Navigator) Navigate(path string) {
	path = normalize(path)
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == path {
		return
	}
	n.logger.Debug("navigate", logx.String("from", n.current), logx.String("to", path))
	n.current = path
	n.history = append(n.history, path)
}

// Current returns the current path.
func (n *Navigator) Current() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// History returns every path visited, oldest first.
func (n *Navigator) History() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]string(nil), n.history...)
}

// MenuItem is one entry of the navigation chrome.
type MenuItem struct {
	Label string
	Path  string
}

// Shell owns navigation and the session-dependent chrome.
type Shell struct {
	sess   *session.Session
	nav    *Navigator
	logger logx.Logger
}

// New creates a Shell.
func New(sess *session.Session, nav *Navigator, logger logx.Logger) *Shell {
	if logger == nil {
		logger = logx.Nop()
	}
	if nav == nil {
		nav = NewNavigator(PathRoot, logger)
	}
	return &Shell{sess: sess, nav: nav, logger: logger}
}

// Navigator returns the shell navigator.
func (s *Shell) Navigator() *Navigator { return s.nav }

// Resolve returns where a visit to path actually lands: protected paths need an
// active session, and the login screens send an authenticated user home.
func (s *Shell) Resolve(path string) string {
	path = normalize(path)
	active := s.sess.Active()
	switch {
	case !active && !IsPublic(path):
		return PathLogin
	case active && (path == PathRoot || path == PathLogin):
		return PathHome
	default:
		return path
	}
}

// Visit navigates to path through the guard and returns the landing path.
func (s *Shell) Visit(path string) string {
	dest := s.Resolve(path)
	s.nav.Navigate(dest)
	return dest
}

// HandleAuthExpired is the single top-level reaction to an expired token:
// the session is cleared and navigation is forced to the login screen.
func (s *Shell) HandleAuthExpired(ctx context.Context) {
	s.logger.Warn("session expired, redirecting to login", logx.String("from", s.nav.Current()))
	if err := s.sess.Clear(ctx); err != nil {
		s.logger.Error("clear expired session", logx.Err(err))
	}
	s.nav.Navigate(PathLogin)
}

// Logout clears the session and returns to the login screen.
func (s *Shell) Logout(ctx context.Context) error {
	err := s.sess.Clear(ctx)
	s.nav.Navigate(PathLogin)
	return err
}

// Greeting is the home banner for the signed-in user.
func (s *Shell) Greeting() string {
	u, ok := s.sess.User()
	if !ok {
		return ""
	}
	return "Bienvenido, " + u.Username
}

// Menu returns the navigation entries; empty without a session.
func (s *Shell) Menu() []MenuItem {
	if !s.sess.Active() {
		return nil
	}
	return []MenuItem{
		{Label: "Órdenes", Path: PathOrders},
		{Label: "Transportistas", Path: PathCarriers},
		{Label: "Seguimiento", Path: PathTracking},
		{Label: "Cerrar Sesión", Path: PathLogin},
	}
}
