package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	// DefaultCodeTTL is how long an issued code stays valid.
	DefaultCodeTTL = 300 * time.Second
	// DefaultSessionTTL is the session window of a minted token.
	DefaultSessionTTL = 7 * 24 * time.Hour

	codeKeyPrefix    = "code:"
	sessionKeyPrefix = "session:"
)

// Session is an authenticated identity backed by a stored session record.
type Session struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the service clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithCodeGenerator overrides code generation.
func WithCodeGenerator(generator CodeGenerator) Option {
	return func(s *Service) {
		if generator != nil {
			s.generate = generator
		}
	}
}

// WithCodeTTL overrides DefaultCodeTTL.
func WithCodeTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.codeTTL = ttl
		}
	}
}

// WithSessionTTL overrides DefaultSessionTTL.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithCodeSender sets the code delivery collaborator.
func WithCodeSender(sender interfaces.CodeSender) Option {
	return func(s *Service) {
		if sender != nil {
			s.sender = sender
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service runs the email verification and session flow.
type Service struct {
	store      interfaces.KVStore
	sender     interfaces.CodeSender
	secret     string
	allowed    map[string]struct{}
	codeTTL    time.Duration
	sessionTTL time.Duration
	generate   CodeGenerator
	now        func() time.Time
	logger     interfaces.Logger

	signer *Signer
}

// NewService constructs a Service. allowed lists the emails permitted to
// request codes.
func NewService(store interfaces.KVStore, secret string, allowed []string, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: kv store is required")
	}
	s := &Service{
		store:      store,
		secret:     secret,
		allowed:    make(map[string]struct{}, len(allowed)),
		codeTTL:    DefaultCodeTTL,
		sessionTTL: DefaultSessionTTL,
		generate:   RandomCode,
		now:        time.Now,
		logger:     logging.NoOp(),
	}
	for _, email := range allowed {
		if trimmed := strings.TrimSpace(email); trimmed != "" {
			s.allowed[trimmed] = struct{}{}
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.sender == nil {
		s.sender = NewLogCodeSender(s.logger)
	}

	signer, err := NewSigner(secret, s.now)
	if err != nil {
		return nil, err
	}
	s.signer = signer
	return s, nil
}

// SendCode issues a fresh code for email, replacing any unconsumed one.
func (s *Service) SendCode(ctx context.Context, email string) error {
	req := SendCodeRequest{Email: strings.TrimSpace(email)}
	if err := req.Validate(); err != nil {
		return validationError(err, TextCodeEmailInvalid)
	}
	if _, ok := s.allowed[req.Email]; !ok {
		logging.WithEmail(s.logger, req.Email).WithContext(ctx).Warn("auth.code_rejected")
		return authorizationError(ErrEmailNotAllowed)
	}

	code, err := s.generate()
	if err != nil {
		return internalError(err, "failed to generate code", TextCodeStoreFailed)
	}
	if err := s.store.Set(ctx, codeKeyPrefix+req.Email, code, s.codeTTL); err != nil {
		return internalError(fmt.Errorf("store code: %w", err), "failed to store code", TextCodeStoreFailed)
	}
	if err := s.sender.SendCode(ctx, req.Email, code); err != nil {
		return internalError(fmt.Errorf("deliver code: %w", err), "failed to deliver code", TextCodeDeliveryFailed)
	}
	return nil
}

// Verify exchanges a matching code for a session token. The stored code is
// consumed only on success.
func (s *Service) Verify(ctx context.Context, email, code string) (*Session, error) {
	req := VerifyRequest{Email: strings.TrimSpace(email), Code: strings.TrimSpace(code)}
	if err := req.Validate(); err != nil {
		return nil, validationError(err, TextCodeInputInvalid)
	}

	stored, err := s.store.Get(ctx, codeKeyPrefix+req.Email)
	if err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			return nil, authenticationError(ErrInvalidCode, TextCodeCodeInvalid)
		}
		return nil, internalError(fmt.Errorf("load code: %w", err), "failed to load code", TextCodeStoreFailed)
	}
	if stored != req.Code {
		logging.WithEmail(s.logger, req.Email).WithContext(ctx).Warn("auth.code_mismatch")
		return nil, authenticationError(ErrInvalidCode, TextCodeCodeInvalid)
	}

	token, claims, err := s.signer.Sign(req.Email, s.sessionTTL)
	if err != nil {
		return nil, internalError(err, "failed to sign token", TextCodeSigningFailed)
	}
	if err := s.store.Set(ctx, sessionKeyPrefix+req.Email, token, s.sessionTTL); err != nil {
		return nil, internalError(fmt.Errorf("store session: %w", err), "failed to store session", TextCodeStoreFailed)
	}
	if err := s.store.Delete(ctx, codeKeyPrefix+req.Email); err != nil {
		return nil, internalError(fmt.Errorf("consume code: %w", err), "failed to consume code", TextCodeStoreFailed)
	}

	logging.WithEmail(s.logger, req.Email).WithContext(ctx).Info("auth.session_started")
	return &Session{Email: req.Email, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Check validates token and requires its session record to still exist.
func (s *Service) Check(ctx context.Context, token string) (*Session, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	stored, err := s.store.Get(ctx, sessionKeyPrefix+claims.Email)
	if err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			return nil, authenticationError(ErrSessionExpired, TextCodeSessionExpired)
		}
		return nil, internalError(fmt.Errorf("load session: %w", err), "failed to load session", TextCodeStoreFailed)
	}
	if stored != token {
		return nil, authenticationError(ErrSessionExpired, TextCodeSessionExpired)
	}
	return &Session{Email: claims.Email, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Logout removes the session record of the token's identity. Logging out of
// an absent session succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sessionKeyPrefix+claims.Email); err != nil {
		return internalError(fmt.Errorf("delete session: %w", err), "failed to delete session", TextCodeStoreFailed)
	}
	logging.WithEmail(s.logger, claims.Email).WithContext(ctx).Info("auth.session_ended")
	return nil
}

func (s *Service) parse(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, authenticationError(ErrInvalidToken, TextCodeTokenInvalid)
	}
	claims, err := s.signer.Parse(token)
	if err != nil {
		return nil, authenticationError(fmt.Errorf("%w: %v", ErrInvalidToken, err), TextCodeTokenInvalid)
	}
	return claims, nil
}
