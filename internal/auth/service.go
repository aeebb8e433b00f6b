// Package auth implements passwordless operator login: a one-time code is
// dispatched out of band and exchanged for a short-lived session token.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"perfumery/internal/apperr"
	"perfumery/internal/models"
	"perfumery/internal/store"
)

const (
	RoleAdmin = "admin"

	codeDigits = 6

	DefaultCodeTTL    = 5 * time.Minute
	DefaultSessionTTL = time.Hour
)

// Dispatcher delivers a freshly issued code to the operator.
type Dispatcher interface {
	Dispatch(ctx context.Context, email, code string) error
}

// LogDispatcher writes the code to the server log.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(_ context.Context, email, code string) error {
	log.Printf("[AUTH] [INFO] OTP for %s: %s", email, code)
	return nil
}

type Options struct {
	Secret     string
	CodeTTL    time.Duration
	SessionTTL time.Duration
	BcryptCost int
}

type Service struct {
	admins     store.Admins
	dispatcher Dispatcher
	secret     []byte
	codeTTL    time.Duration
	sessionTTL time.Duration
	cost       int
	now        func() time.Time
	generate   func() (string, error)
}

func NewService(admins store.Admins, dispatcher Dispatcher, opts Options) *Service {
	if opts.CodeTTL <= 0 {
		opts.CodeTTL = DefaultCodeTTL
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		admins:     admins,
		dispatcher: dispatcher,
		secret:     []byte(opts.Secret),
		codeTTL:    opts.CodeTTL,
		sessionTTL: opts.SessionTTL,
		cost:       opts.BcryptCost,
		now:        time.Now,
		generate:   generateCode,
	}
}

func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()+100000), nil
}

// RequestCode issues a new code for email, replacing any outstanding one.
func (s *Service) RequestCode(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return apperr.Validation("email is required")
	}

	if _, err := s.admins.FindAdminByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Admin not found")
		}
		return apperr.Store("request code: find admin", err)
	}

	code, err := s.generate()
	if err != nil {
		return apperr.Store("request code: generate", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.cost)
	if err != nil {
		return apperr.Store("request code: hash", err)
	}

	otp := models.OneTimeCode{Hash: string(hash), ExpiresAt: s.now().Add(s.codeTTL)}
	if err := s.admins.SetOTP(ctx, email, otp); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Admin not found")
		}
		return apperr.Store("request code: save", err)
	}

	if err := s.dispatcher.Dispatch(ctx, email, code); err != nil {
		return apperr.Store("request code: dispatch", err)
	}
	return nil
}

// Verify consumes the outstanding code for email and returns a signed
// session token.
func (s *Service) Verify(ctx context.Context, email, code string) (string, error) {
	email = NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if code == "" {
		return "", apperr.Validation("OTP is required")
	}

	invalid := apperr.Auth("Invalid or expired OTP")

	admin, err := s.admins.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", invalid
		}
		return "", apperr.Store("verify: find admin", err)
	}

	if admin.OTP.Expired(s.now()) {
		return "", invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.OTP.Hash), []byte(code)); err != nil {
		return "", invalid
	}

	consumed, err := s.admins.ConsumeOTP(ctx, email, admin.OTP.Hash)
	if err != nil {
		return "", apperr.Store("verify: consume", err)
	}
	if !consumed {
		return "", invalid
	}

	token, err := s.issueToken(admin)
	if err != nil {
		return "", apperr.Store("verify: sign token", err)
	}

	log.Println("[AUTH] [INFO] admin login succeeded:", admin.Email)
	return token, nil
}

func (s *Service) issueToken(admin models.Admin) (string, error) {
	claims := jwt.MapClaims{
		"sub":   admin.ID.Hex(),
		"role":  RoleAdmin,
		"email": admin.Email,
		"exp":   s.now().Add(s.sessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Claims is the decoded session of an operator.
type Claims struct {
	Subject string
	Email   string
	Role    string
}

// ParseToken validates signature, expiry and role of a session token.
func (s *Service) ParseToken(raw string) (Claims, error) {
	token, err := jwt.Parse(
		raw,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return Claims{}, apperr.Auth("Unauthorized - Invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, apperr.Auth("Unauthorized - Invalid token")
	}

	role, _ := mapClaims["role"].(string)
	if role != RoleAdmin {
		return Claims{}, apperr.Auth("Unauthorized - Invalid token")
	}
	sub, _ := mapClaims["sub"].(string)
	email, _ := mapClaims["email"].(string)

	return Claims{Subject: sub, Email: email, Role: role}, nil
}
