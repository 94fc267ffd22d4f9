package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/lmercier/pongtracker/auth/storage"
	"github.com/lmercier/pongtracker/auth/users"
	"github.com/lmercier/pongtracker/internal/config"
)

var (
	ErrForbidden     = errors.New("access denied")
	ErrNotAuthorized = errors.New("unauthorized")
	ErrBadCredential = errors.New("wrong username or password")
)

type Service struct {
	storage storage.AuthStorage
	cfg     config.Auth
	rules   []rule
}

type rule struct {
	path   *regexp.Regexp
	method []string
	allow  []string
}

// New compiles the access rules and makes sure the root account exists so a
// fresh install can sign in.
func New(ctx context.Context, cfg config.Auth, authStorage storage.AuthStorage) (*Service, error) {
	s := Service{
		cfg:     cfg,
		storage: authStorage,
	}
	for _, r := range cfg.Rules {
		path, err := regexp.Compile(r.Path)
		if err != nil {
			return nil, err
		}
		s.rules = append(s.rules, rule{
			path:   path,
			method: r.Method,
			allow:  r.Allow,
		})
	}
	_, err := s.storage.GetUserSecret(ctx, users.User{Name: "root"})
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		salt, err := randomSalt()
		if err != nil {
			return nil, err
		}
		secret := generateSecret(cfg.RootPassword, cfg.PasswordPepper, salt)
		err = s.storage.CreateUser(ctx, users.User{
			ID:           uuid.New(),
			Name:         "root",
			Roles:        []string{users.RoleAdmin},
			RegisteredAt: time.Now(),
		}, secret)
		if err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func (s *Service) Login(ctx context.Context, name string, password string) (users.User, error) {
	userSecret, err := s.storage.GetUserSecret(ctx, users.User{Name: name})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, ErrBadCredential
		}
		return users.User{}, err
	}
	secret := generateSecret(password, s.cfg.PasswordPepper, userSecret.Salt)
	if subtle.ConstantTimeCompare(secret.PasswordHash, userSecret.PasswordHash) != 1 {
		return users.User{}, ErrBadCredential
	}
	return s.storage.SignIn(ctx, name, secret.PasswordHash)
}

func (s *Service) SignUp(ctx context.Context, name string, password string) (users.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return users.User{}, ErrBadCredential
	}
	salt, err := randomSalt()
	if err != nil {
		return users.User{}, err
	}
	secret := generateSecret(password, s.cfg.PasswordPepper, salt)
	user := users.User{
		ID:           uuid.New(),
		Name:         name,
		Roles:        []string{users.RoleUser},
		RegisteredAt: time.Now(),
	}
	err = s.storage.CreateUser(ctx, user, secret)
	if err != nil {
		return users.User{}, err
	}
	return user, nil
}

func (s *Service) GenerateJWTCookie(userID uuid.UUID, host string) (*fiber.Cookie, error) {
	expiresIn, err := time.ParseDuration(s.cfg.Expiration)
	if err != nil {
		return nil, err
	}
	expirationTime := time.Now().Add(expiresIn)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		ExpiresAt: expirationTime.Unix(),
		IssuedAt:  time.Now().Unix(),
		Subject:   userID.String(),
	})
	tokenString, err := token.SignedString([]byte(s.cfg.Token))
	if err != nil {
		return nil, err
	}
	return &fiber.Cookie{
		Name:     "token",
		Value:    tokenString,
		Path:     "/",
		Domain:   host,
		Expires:  expirationTime,
		HTTPOnly: true,
	}, nil
}

// Auth resolves the user behind the token cookie and checks the first access
// rule matching the request. An empty cookie resolves to the anonymous user,
// which rules can still allow with "*".
func (s *Service) Auth(ctx context.Context, cookie string, method string, url string) (users.User, error) {
	user, err := s.getUserFromToken(ctx, cookie)
	if err != nil {
		return users.User{}, ErrNotAuthorized
	}

	for _, r := range s.rules {
		if !r.path.MatchString(url) {
			continue
		}
		for _, ruleMethod := range r.method {
			if ruleMethod != "*" && ruleMethod != method {
				continue
			}
			for _, role := range r.allow {
				if role == "*" || user.HasRole(role) {
					return user, nil
				}
			}
			return users.User{}, ErrForbidden
		}
	}
	return users.User{}, ErrForbidden
}

func (s *Service) getUserFromToken(ctx context.Context, cookie string) (users.User, error) {
	if cookie == "" {
		return users.User{}, nil
	}
	token, err := jwt.ParseWithClaims(cookie, &jwt.StandardClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Token), nil
	})
	if err != nil {
		ve := jwt.ValidationError{}
		if ok := errors.As(err, &ve); !ok {
			return users.User{}, err
		}
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return users.User{}, errors.New("bad token")
		}
		if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			return users.User{}, errors.New("token expired")
		}
		return users.User{}, err
	}
	claims, ok := token.Claims.(*jwt.StandardClaims)
	if !ok || !token.Valid {
		return users.User{}, errors.New("bad token")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return users.User{}, err
	}
	return s.storage.GetUser(ctx, id)
}

func randomSalt() ([]byte, error) {
	salt := make([]byte, 8)
	_, err := rand.Read(salt)
	if err != nil {
		return nil, err
	}
	return salt, nil
}

func generateSecret(password string, pepper string, salt []byte) users.Secret {
	sha := sha256.New()
	sha.Write([]byte(pepper + password))
	sha.Write(salt)
	return users.Secret{
		PasswordHash: sha.Sum(nil),
		Salt:         salt,
	}
}
