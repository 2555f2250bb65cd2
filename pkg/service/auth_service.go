package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/agentsynergy/agentsynergy/pkg/cache"
	"github.com/agentsynergy/agentsynergy/pkg/db"
	"github.com/agentsynergy/agentsynergy/pkg/models"
	"github.com/agentsynergy/agentsynergy/pkg/utils"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrInvalidToken       = errors.New("could not validate credentials")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

const (
	tokenTypePasswordReset = "password_reset"
	passwordResetTTL       = 24 * time.Hour
	resetKeyPrefix         = "reset:"
)

// Claims is the JWT payload. Access tokens leave Type empty.
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Type   string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// ResetNotifier delivers password-reset tokens to their owner.
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogNotifier records reset requests in the log instead of sending mail.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) SendPasswordReset(_ context.Context, email, token string) error {
	n.Logger.Info("Password reset requested", "email", email, "token", utils.MaskSensitiveString(token))
	return nil
}

// AuthOptions configures token signing.
type AuthOptions struct {
	SecretKey      string
	AccessTokenTTL time.Duration
	Notifier       ResetNotifier
}

// AuthService registers users, checks credentials and issues and validates
// bearer tokens.
type AuthService struct {
	db         *gorm.DB
	tokens     cache.Store
	secret     []byte
	ttl        time.Duration
	notifier   ResetNotifier
	bcryptCost int
	now        func() time.Time
	logger     *slog.Logger
}

func NewAuthService(gdb *gorm.DB, tokens cache.Store, opts AuthOptions) *AuthService {
	logger := utils.GetLogger()
	if opts.AccessTokenTTL <= 0 {
		opts.AccessTokenTTL = 30 * time.Minute
	}
	if opts.Notifier == nil {
		opts.Notifier = LogNotifier{Logger: logger}
	}
	return &AuthService{
		db:         gdb,
		tokens:     tokens,
		secret:     []byte(opts.SecretKey),
		ttl:        opts.AccessTokenTTL,
		notifier:   opts.Notifier,
		bcryptCost: bcrypt.DefaultCost,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger,
	}
}

// TokenTTL is the lifetime of an access token.
func (s *AuthService) TokenTTL() time.Duration {
	return s.ttl
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*db.User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	email := normalizeEmail(req.Email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&db.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "check existing email")
	}
	if count > 0 {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &db.User{
		ID:             uuid.New().String(),
		Email:          email,
		HashedPassword: string(hash),
		CompanyName:    req.CompanyName,
		CompanySize:    req.CompanySize,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		IsActive:       true,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, errors.Wrap(err, "create user")
	}
	s.logger.Info("User registered", "userId", user.ID)
	return user, nil
}

// Login verifies credentials, records the login time and issues a token.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	var user db.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", normalizeEmail(req.Email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "load user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		return nil, errors.Wrap(err, "update last login")
	}
	user.LastLogin = &now

	return s.issue(&user)
}

// Refresh issues a fresh token for the subject of a validated one.
func (s *AuthService) Refresh(ctx context.Context, claims *Claims) (*models.TokenResponse, error) {
	var user db.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, errors.Wrap(err, "load user")
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return s.issue(&user)
}

func (s *AuthService) issue(user *db.User) (*models.TokenResponse, error) {
	token, err := s.CreateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.ttl.Seconds()),
		User:        user,
	}, nil
}

// CreateAccessToken signs an HS256 token carrying the email as subject and
// the user id.
func (s *AuthService) CreateAccessToken(userID, email string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

func (s *AuthService) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateAccessToken fails closed: any parse error, a missing or past
// expiry, a missing user id or a non-access token type is rejected.
func (s *AuthService) ValidateAccessToken(token string) (*Claims, error) {
	claims, err := s.parse(token)
	if err != nil {
		s.logger.Debug("Token rejected", "error", err)
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || claims.Type != "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticate validates an access token and confirms its user still
// exists and is active. A deleted user's token is ErrInvalidToken.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	var user db.User
	if err := s.db.WithContext(ctx).Select("id", "is_active").First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, errors.Wrap(err, "load token user")
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return claims, nil
}

// CreatePasswordResetToken signs a single-use reset token for email.
func (s *AuthService) CreatePasswordResetToken(email string) (string, error) {
	now := s.now()
	claims := Claims{
		Type: tokenTypePasswordReset,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(passwordResetTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign reset token")
	}
	return signed, nil
}

// ForgotPassword issues a reset token when the account exists. Unknown
// emails are not reported so callers cannot enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	var user db.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return errors.Wrap(err, "load user")
	}
	token, err := s.CreatePasswordResetToken(user.Email)
	if err != nil {
		return err
	}
	return s.notifier.SendPasswordReset(ctx, user.Email, token)
}

// ResetPassword spends a reset token and replaces the account password.
func (s *AuthService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	claims, err := s.parse(req.Token)
	if err != nil || claims.Type != tokenTypePasswordReset || claims.ID == "" || claims.Subject == "" {
		return ErrInvalidResetToken
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		ttl = time.Minute
	}
	// The jti is reserved first so two concurrent resets cannot both pass,
	// and released again if the password could not be stored.
	key := resetKeyPrefix + claims.ID
	fresh, err := s.tokens.SetNX(ctx, key, "used", ttl)
	if err != nil {
		return errors.Wrap(err, "record reset token")
	}
	if !fresh {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		s.releaseResetToken(ctx, key)
		return errors.Wrap(err, "hash password")
	}
	res := s.db.WithContext(ctx).Model(&db.User{}).
		Where("email = ?", claims.Subject).
		Update("hashed_password", string(hash))
	if res.Error != nil {
		s.releaseResetToken(ctx, key)
		return errors.Wrap(res.Error, "update password")
	}
	if res.RowsAffected == 0 {
		return ErrInvalidResetToken
	}
	s.logger.Info("Password reset", "email", claims.Subject)
	return nil
}

func (s *AuthService) releaseResetToken(ctx context.Context, key string) {
	if _, err := s.tokens.Del(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn("Failed to release reset token", "error", err)
	}
}
