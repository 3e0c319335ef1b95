package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"socialfeed"
	"socialfeed/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 2 * time.Hour

// AuthOptions configures token signing. An empty Secret means a random
// per-process key, so tokens do not survive a restart.
type AuthOptions struct {
	Secret   string
	TokenTTL time.Duration
}

// AuthService handles registration, login and token checks.
type AuthService struct {
	users repository.Users
	key   []byte
	ttl   time.Duration
	now   func() time.Time
}

func NewAuthService(users repository.Users, opts AuthOptions) *AuthService {
	key := []byte(opts.Secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("generate signing key: %v", err))
		}
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{users: users, key: key, ttl: ttl, now: time.Now}
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UID int `json:"uid"`
}

// Register validates the credentials, creates the user and logs them in.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (socialfeed.Token, error) {
	if err := checkField("Username", username, ruleUsername); err != nil {
		return socialfeed.Token{}, err
	}
	if err := checkField("Password", password, "required,"+rulePassword); err != nil {
		return socialfeed.Token{}, err
	}
	if err := checkField("Email", email, ruleEmail); err != nil {
		return socialfeed.Token{}, err
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return socialfeed.Token{}, err
	}
	if existing != nil {
		return socialfeed.Token{}, ErrUsernameTaken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return socialfeed.Token{}, err
	}
	id, err := s.users.Create(ctx, socialfeed.User{
		Username:       username,
		Email:          email,
		PasswordHash:   hash,
		ProfilePicture: socialfeed.PlaceholderProfilePicture,
		BannerPicture:  socialfeed.PlaceholderBannerPicture,
	})
	if err != nil {
		return socialfeed.Token{}, err
	}
	return s.issueToken(id)
}

// Login checks credentials and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) (socialfeed.Token, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return socialfeed.Token{}, err
	}
	if u == nil {
		return socialfeed.Token{}, ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return socialfeed.Token{}, ErrInvalidCredentials
	}
	return s.issueToken(u.ID)
}

// ParseToken parses JWT and returns the user id
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UID <= 0 {
		return 0, ErrInvalidToken
	}
	return claims.UID, nil
}

func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (int, error) {
	uid, err := s.ParseToken(accessToken)
	if err != nil {
		return 0, err
	}
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, ErrUserNotFound
	}
	return uid, nil
}

func (s *AuthService) issueToken(uid int) (socialfeed.Token, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UID: uid,
	})
	signed, err := token.SignedString(s.key)
	if err != nil {
		return socialfeed.Token{}, fmt.Errorf("sign token: %w", err)
	}
	return socialfeed.Token{AccessToken: signed, Expiration: exp.Unix()}, nil
}

func hashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
