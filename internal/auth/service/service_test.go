package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"leadflow_backend/internal/auth/repository"
	"leadflow_backend/internal/auth/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
)

const testSecret = "test-secret"

type stubConfig struct{}

func (stubConfig) GetJWTAccessSecret() string { return testSecret }

func (stubConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

type mockRepo struct {
	users map[string]repository.User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[string]repository.User)}
}

func (m *mockRepo) CreateUser(_ context.Context, email, name, passwordHash string) (repository.User, error) {
	if _, exists := m.users[email]; exists {
		return repository.User{}, apperr.Conflict("an account with this email already exists")
	}
	user := repository.User{ID: uuid.New(), Email: email, Name: name, PasswordHash: passwordHash}
	m.users[email] = user
	return user, nil
}

func (m *mockRepo) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	user, ok := m.users[email]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

func (m *mockRepo) GetUserByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return repository.User{}, apperr.NotFound("user not found")
}

func newTestService(repo repository.Repository) *Service {
	return New(repo, stubConfig{}, logger.New("test"))
}

func TestRegisterIssuesValidToken(t *testing.T) {
	svc := newTestService(newMockRepo())

	resp, err := svc.Register(context.Background(), transport.RegisterRequest{
		Email:    "Maria@Example.com",
		Name:     "Maria Santos",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if resp.User.Email != "maria@example.com" {
		t.Fatalf("email not normalized: %q", resp.User.Email)
	}

	parsed, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token invalid: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != resp.User.ID.String() {
		t.Fatalf("sub claim = %v, want %s", claims["sub"], resp.User.ID)
	}
	if claims["email"] != "maria@example.com" {
		t.Fatalf("email claim = %v", claims["email"])
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Email:    "maria@example.com",
		Name:     "Maria",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	stored := repo.users["maria@example.com"]
	if stored.PasswordHash == "correct horse" {
		t.Fatal("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(newMockRepo())
	req := transport.RegisterRequest{Email: "maria@example.com", Name: "Maria", Password: "correct horse"}

	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first Register() error: %v", err)
	}
	_, err := svc.Register(context.Background(), req)
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("error kind = %v, want conflict", apperr.GetKind(err))
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService(newMockRepo())
	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Email:    "maria@example.com",
		Name:     "Maria",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	if _, err := svc.Login(context.Background(), transport.LoginRequest{Email: "maria@example.com", Password: "correct horse"}); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	_, err = svc.Login(context.Background(), transport.LoginRequest{Email: "maria@example.com", Password: "wrong"})
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("wrong password error kind = %v, want unauthorized", apperr.GetKind(err))
	}

	// Unknown email must be indistinguishable from a wrong password.
	_, err = svc.Login(context.Background(), transport.LoginRequest{Email: "nobody@example.com", Password: "correct horse"})
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("unknown email error kind = %v, want unauthorized", apperr.GetKind(err))
	}
}
