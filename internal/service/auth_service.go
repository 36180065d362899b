package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/mladjabiznis1-source/sales-tracker/internal/config"
	"github.com/mladjabiznis1-source/sales-tracker/internal/domain"
	pw "github.com/mladjabiznis1-source/sales-tracker/internal/password"
	"github.com/mladjabiznis1-source/sales-tracker/internal/repository"
	"github.com/mladjabiznis1-source/sales-tracker/internal/session"
)

// AuthService handles registration, login and session identity.
type AuthService struct {
	users    repository.UserRepository
	sessions session.Store
	node     *snowflake.Node
	cfg      config.Config
	logger   *zap.Logger
	tracer   trace.Tracer
}

// NewAuthService wires dependencies.
func NewAuthService(users repository.UserRepository, sessions session.Store, node *snowflake.Node, cfg config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		node:     node,
		cfg:      cfg,
		logger:   logger,
		tracer:   otel.Tracer("github.com/mladjabiznis1-source/sales-tracker/internal/service"),
	}
}

// Register creates an account and an authenticated session for it.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (domain.UserSummary, session.Session, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Register")
	defer span.End()

	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || password == "" || strings.TrimSpace(name) == "" {
		return domain.UserSummary{}, session.Session{}, newValidationError("email, password and name are required")
	}

	if _, err := s.users.GetByEmail(ctx, normalized); err == nil {
		return domain.UserSummary{}, session.Session{}, newConflictError("email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		span.RecordError(err)
		return domain.UserSummary{}, session.Session{}, fmt.Errorf("register lookup user: %w", err)
	}

	hashed, err := pw.Hash(password)
	if err != nil {
		span.RecordError(err)
		return domain.UserSummary{}, session.Session{}, fmt.Errorf("register hash password: %w", err)
	}

	user := domain.User{
		ID:           s.node.Generate().Int64(),
		Email:        normalized,
		PasswordHash: hashed,
		Name:         strings.TrimSpace(name),
		CreatedAt:    time.Now().UTC(),
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		span.RecordError(err)
		return domain.UserSummary{}, session.Session{}, fmt.Errorf("register create user: %w", err)
	}

	sess, err := s.establishSession(ctx, created)
	if err != nil {
		span.RecordError(err)
		return domain.UserSummary{}, session.Session{}, err
	}

	s.audit("auth.register.success", "user_id", created.ID, "email", created.Email)
	return created.Summary(), sess, nil
}

// Login authenticates by email and password. Unknown email and wrong password
// produce the same generic error.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.UserSummary, session.Session, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Login")
	defer span.End()

	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || password == "" {
		return domain.UserSummary{}, session.Session{}, newValidationError("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			span.RecordError(err)
			return domain.UserSummary{}, session.Session{}, fmt.Errorf("login lookup user: %w", err)
		}
		return domain.UserSummary{}, session.Session{}, newAuthError("invalid email or password")
	}

	valid, err := pw.Verify(password, user.PasswordHash)
	if err != nil || !valid {
		return domain.UserSummary{}, session.Session{}, newAuthError("invalid email or password")
	}

	sess, err := s.establishSession(ctx, user)
	if err != nil {
		span.RecordError(err)
		return domain.UserSummary{}, session.Session{}, err
	}

	s.audit("auth.login.success", "user_id", user.ID)
	return user.Summary(), sess, nil
}

// Logout destroys the session. Unknown or empty IDs succeed silently.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	ctx, span := s.startSpan(ctx, "AuthService.Logout")
	defer span.End()

	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("logout delete session: %w", err)
	}
	return nil
}

// CurrentUser resolves the session's cached identity without touching the
// database. A nil summary means unauthenticated.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (*domain.UserSummary, error) {
	ctx, span := s.startSpan(ctx, "AuthService.CurrentUser")
	defer span.End()

	if sessionID == "" {
		return nil, nil
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("current user load session: %w", err)
	}
	if sess == nil {
		return nil, nil
	}
	return &domain.UserSummary{ID: sess.UserID, Name: sess.UserName, Email: sess.UserEmail}, nil
}

// Session loads the live session record for the auth middleware.
func (s *AuthService) Session(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	return s.sessions.Get(ctx, sessionID)
}

func (s *AuthService) establishSession(ctx context.Context, user domain.User) (session.Session, error) {
	sess := session.New(user.ID, user.Name, user.Email, s.cfg.SessionTTL)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return session.Session{}, fmt.Errorf("establish session: %w", err)
	}
	return sess, nil
}

func (s *AuthService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *AuthService) audit(event string, attrs ...any) {
	logger := s.log()
	if logger == nil {
		return
	}
	fields := make([]zap.Field, 0, len(attrs)/2+2)
	fields = append(fields, zap.String("event", event), zap.Time("timestamp", time.Now().UTC()))
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, attrs[i+1]))
	}
	logger.Info("audit", fields...)
}

func (s *AuthService) log() *zap.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return zap.L()
}
