package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"rescue-revolution/internal/domain/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

type Service struct {
	users    users.Repository
	sessions SessionRepository
	now      func() time.Time
}

func NewService(userRepo users.Repository, sessionRepo SessionRepository) *Service {
	return &Service{
		users:    userRepo,
		sessions: sessionRepo,
		now:      time.Now,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (users.User, error) {
	username := strings.TrimSpace(in.Username)
	// Emails en minúsculas para que el unique check no dependa del casing.
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if username == "" || email == "" || in.Password == "" {
		return users.User{}, ErrInvalidInput
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return users.User{}, ErrDuplicateUsername
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return users.User{}, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return users.User{}, err
	}

	u := users.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      false,
		CreatedAt:    s.now(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		return users.User{}, err
	}
	return u, nil
}

// Login valida credenciales y abre una sesión server-side.
// Devuelve el mismo error para username desconocido y password incorrecto.
func (s *Service) Login(ctx context.Context, username, password string) (users.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return users.User{}, "", ErrInvalidCredentials
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return users.User{}, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return users.User{}, "", ErrInvalidCredentials
	}

	sess := Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		CreatedAt: s.now(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return users.User{}, "", err
	}

	return u, sess.Token, nil
}

// Logout borra la sesión. Idempotente: un token desconocido no es error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return nil
	}
	return nil
}

func (s *Service) UserFromToken(ctx context.Context, token string) (users.User, error) {
	if strings.TrimSpace(token) == "" {
		return users.User{}, ErrUnauthenticated
	}

	sess, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return users.User{}, ErrUnauthenticated
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return users.User{}, ErrUnauthenticated
	}
	return u, nil
}

// UsernameByID expone el username de un user.
// Los handlers de pets/incidents lo usan para armar owner/reporter
// sin importar este paquete en sus services (evita ciclos).
func (s *Service) UsernameByID(ctx context.Context, id string) (string, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return u.Username, nil
}
