package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/repository"
)

// --- モック ---

type mockUserRepo struct {
	createFn      func(ctx context.Context, user *model.User) error
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]*model.User, error) {
	return nil, nil
}

func newTestService(repo repository.UserRepository) *Service {
	tokens := NewTokenManager("test-secret", 24*time.Hour)
	// テストはコスト最小で十分
	return NewService(repo, tokens, ServiceConfig{BcryptCost: bcrypt.MinCost})
}

// --- Signup ---

func TestService_Signup_CreatesUserWithHashedPassword(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}

	svc := newTestService(repo)

	user, err := svc.Signup(context.Background(), "Taro", "taro@example.com", "secret-password")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if created == nil {
		t.Fatal("expected Create to be called")
	}
	if user.ID == "" {
		t.Error("expected generated user ID")
	}
	if user.PasswordHash == "secret-password" {
		t.Error("password must not be stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret-password")); err != nil {
		t.Errorf("stored hash should match original password: %v", err)
	}
}

func TestService_Signup_DuplicateEmail_ReturnsEmailTaken(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "existing", Email: email}, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			t.Error("Create must not be called for duplicate email")
			return nil
		},
	}

	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), "Taro", "taro@example.com", "pw")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmailTaken {
		t.Fatalf("expected EMAIL_TAKEN error, got %v", err)
	}
}

// 同時サインアップはストアの一意性制約が防ぎ、同じEMAIL_TAKENとして見える
func TestService_Signup_RaceLostAtStore_ReturnsEmailTaken(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return repository.ErrDuplicateEmail
		},
	}

	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), "Taro", "taro@example.com", "pw")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmailTaken {
		t.Fatalf("expected EMAIL_TAKEN error, got %v", err)
	}
}

// --- Login ---

func TestService_Login_Success_IssuesVerifiableToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email, PasswordHash: string(hash)}, nil
		},
	}

	tokens := NewTokenManager("test-secret", 24*time.Hour)
	svc := NewService(repo, tokens, ServiceConfig{BcryptCost: bcrypt.MinCost})

	token, err := svc.Login(context.Background(), "taro@example.com", "secret-password")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	// 発行されたトークンはAuth Gateで受理されるペイロードを持つこと
	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}
	if claims.Email != "taro@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "taro@example.com")
	}
}

func TestService_Login_UnknownEmail_ReturnsUserNotFound(t *testing.T) {
	svc := newTestService(&mockUserRepo{})

	_, err := svc.Login(context.Background(), "nobody@example.com", "pw")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Fatalf("expected USER_NOT_FOUND error, got %v", err)
	}
}

func TestService_Login_WrongPassword_ReturnsInvalidCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email, PasswordHash: string(hash)}, nil
		},
	}

	svc := newTestService(repo)

	_, err = svc.Login(context.Background(), "taro@example.com", "wrong-password")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidCredentials {
		t.Fatalf("expected INVALID_CREDENTIALS error, got %v", err)
	}
}

// サインアップ直後のログインが成功すること
func TestService_SignupThenLogin_RoundTrip(t *testing.T) {
	store := map[string]*model.User{}
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			store[user.Email] = user
			return nil
		},
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return store[email], nil
		},
	}

	svc := newTestService(repo)

	if _, err := svc.Signup(context.Background(), "Taro", "taro@example.com", "secret-password"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	token, err := svc.Login(context.Background(), "taro@example.com", "secret-password")
	if err != nil {
		t.Fatalf("Login after Signup returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
}

// --- CurrentUser ---

func TestService_CurrentUser_ResolvesFullRecord(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Name: "Taro", Email: "taro@example.com"}, nil
		},
	}

	svc := newTestService(repo)

	user, err := svc.CurrentUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CurrentUser returned error: %v", err)
	}
	if user.Name != "Taro" {
		t.Errorf("Name = %q, want %q", user.Name, "Taro")
	}
}

func TestService_CurrentUser_Missing_ReturnsUserNotFound(t *testing.T) {
	svc := newTestService(&mockUserRepo{})

	_, err := svc.CurrentUser(context.Background(), "ghost")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Fatalf("expected USER_NOT_FOUND error, got %v", err)
	}
}
