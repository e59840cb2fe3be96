package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"logistics-console/internal/apperr"
	"logistics-console/internal/domain"
	"logistics-console/internal/gateway/backend"
	"logistics-console/internal/logx"
	"logistics-console/internal/schedule"
	"logistics-console/internal/session"
	"logistics-console/internal/shell"
)

// Login and register screen messages.
const (
	MsgLoginFailed    = "Error al iniciar sesión"
	MsgRegisterFailed = "Error al registrar usuario. Inténtelo de nuevo."
	MsgRegistered     = "¡Registro exitoso! Redirigiendo al inicio de sesión..."
)

// DefaultRedirectDelay is how long the register success banner stays before
// navigating to the login screen.
const DefaultRedirectDelay = 2 * time.Second

// Backend is the part of the REST client used by the auth screens.
type Backend interface {
	Login(ctx context.Context, username, password string) backend.Result[backend.LoginResult]
	Register(ctx context.Context, username, password string) backend.Result[backend.Ack]
}

// Service drives login, register and logout.
type Service struct {
	backend Backend
	sess    *session.Session
	shell   *shell.Shell
	sched   schedule.Scheduler
	delay   time.Duration
	logger  logx.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithScheduler replaces the timer used for the post-register redirect.
func WithScheduler(s schedule.Scheduler) Option {
	return func(svc *Service) { svc.sched = s }
}

// WithRedirectDelay sets the post-register redirect delay.
func WithRedirectDelay(d time.Duration) Option {
	return func(svc *Service) { svc.delay = d }
}

// WithLogger sets the logger.
func WithLogger(l logx.Logger) Option {
	return func(svc *Service) { svc.logger = l }
}

// New creates the auth service.
func New(b Backend, sess *session.Session, sh *shell.Shell, opts ...Option) *Service {
	svc := &Service{
		backend: b,
		sess:    sess,
		shell:   sh,
		sched:   schedule.Timer{},
		delay:   DefaultRedirectDelay,
		logger:  logx.Nop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = logx.Nop()
	}
	return svc
}

// Login exchanges the credentials for a token, activates the session and
// lands on the home screen.
func (s *Service) Login(ctx context.Context, username, password string) (domain.User, error) {
	fe := domain.FieldErrors{}
	if strings.TrimSpace(username) == "" {
		fe["username"] = "El nombre de usuario es requerido"
	}
	if password == "" {
		fe["password"] = "La contraseña es requerida"
	}
	if err := fe.Err(); err != nil {
		return domain.User{}, err
	}

	res := s.backend.Login(ctx, username, password)
	if !res.OK() {
		s.logger.Info("login rejected", logx.String("username", username), logx.String("outcome", res.Outcome().String()))
		return domain.User{}, apperr.WithMessage(res.Message(MsgLoginFailed), fmt.Errorf("login: %w", res.Err()))
	}

	out := res.Value()
	if err := s.sess.Activate(ctx, out.Token, out.User); err != nil {
		return domain.User{}, fmt.Errorf("login: %w", err)
	}
	s.shell.Visit(shell.PathHome)
	return out.User, nil
}

// Register creates an account. On success the login screen is reached after
// the redirect delay.
func (s *Service) Register(ctx context.Context, username, password, confirm string) (string, error) {
	if err := domain.ValidateRegistration(username, password, confirm); err != nil {
		return "", err
	}

	res := s.backend.Register(ctx, username, password)
	if !res.OK() {
		s.logger.Info("register rejected", logx.String("username", username), logx.String("outcome", res.Outcome().String()))
		return "", apperr.WithMessage(res.Message(MsgRegisterFailed), fmt.Errorf("register: %w", res.Err()))
	}

	s.logger.Info("user registered", logx.String("username", username))
	s.sched.After(context.WithoutCancel(ctx), s.delay, func() {
		s.shell.Visit(shell.PathLogin)
	})
	return MsgRegistered, nil
}

// Logout clears the session and returns to the login screen.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.shell.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Whoami returns the signed-in user.
func (s *Service) Whoami() (domain.User, error) {
	u, ok := s.sess.User()
	if !ok {
		return domain.User{}, fmt.Errorf("whoami: %w", apperr.ErrUnauthenticated)
	}
	return u, nil
}
