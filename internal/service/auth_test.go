package service

import (
	"context"
	"errors"
	"testing"

	"securedata/internal/auth"
	"securedata/internal/models"
	"securedata/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	CreateUserFunc     func(ctx context.Context, user *models.User) (bool, error)
	UserByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user *models.User) (bool, error) {
	return m.CreateUserFunc(ctx, user)
}
func (m *mockUserRepo) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.UserByUsernameFunc(ctx, username)
}

// fakeIssuer records what it was asked to sign.
type fakeIssuer struct {
	userID    string
	clearance int
}

func (f *fakeIssuer) Issue(userID string, clearance int) (string, error) {
	f.userID = userID
	f.clearance = clearance
	return "signed-token", nil
}

func newTestHasher() *auth.Hasher {
	return auth.NewHasher(bcrypt.MinCost)
}

func TestRegister_Success(t *testing.T) {
	hasher := newTestHasher()
	var stored *models.User
	repo := &mockUserRepo{
		CreateUserFunc: func(ctx context.Context, user *models.User) (bool, error) {
			stored = user
			return true, nil
		},
	}
	svc := NewAuthService(repo, hasher, &fakeIssuer{})

	if err := svc.Register(context.Background(), "alice", "Str0ngP@ss"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if stored == nil {
		t.Fatal("CreateUser was not called")
	}
	if stored.Username != "alice" {
		t.Errorf("Username = %q; want %q", stored.Username, "alice")
	}
	if stored.Clearance != models.ClearanceMin {
		t.Errorf("Clearance = %d; want new users at tier %d", stored.Clearance, models.ClearanceMin)
	}
	if stored.ID == "" {
		t.Error("expected a generated user id")
	}
	if !hasher.Verify("Str0ngP@ss", stored.PasswordHash) {
		t.Error("stored hash does not verify against the original password")
	}
	if string(stored.PasswordHash) == "Str0ngP@ss" {
		t.Error("password was stored in plaintext")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	repo := &mockUserRepo{
		CreateUserFunc: func(ctx context.Context, user *models.User) (bool, error) {
			return false, nil
		},
	}
	svc := NewAuthService(repo, newTestHasher(), &fakeIssuer{})

	err := svc.Register(context.Background(), "alice", "pw")
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("Register error = %v; want ErrUserExists", err)
	}
}

func TestRegister_EmptyCredentials(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, newTestHasher(), &fakeIssuer{})

	for _, tc := range []struct{ username, password string }{
		{"", "pw"},
		{"alice", ""},
		{"", ""},
	} {
		if err := svc.Register(context.Background(), tc.username, tc.password); !errors.Is(err, ErrEmptyCredentials) {
			t.Errorf("Register(%q, %q) error = %v; want ErrEmptyCredentials", tc.username, tc.password, err)
		}
	}
}

func TestLogin_Success(t *testing.T) {
	hasher := newTestHasher()
	hash, err := hasher.Hash("Str0ngP@ss")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	repo := &mockUserRepo{
		UserByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{ID: "u1", Username: username, PasswordHash: hash, Clearance: 0}, nil
		},
	}
	issuer := &fakeIssuer{}
	svc := NewAuthService(repo, hasher, issuer)

	token, userID, err := svc.Login(context.Background(), "alice", "Str0ngP@ss")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token != "signed-token" || userID != "u1" {
		t.Errorf("Login = (%q, %q); want (signed-token, u1)", token, userID)
	}
	if issuer.userID != "u1" || issuer.clearance != 0 {
		t.Errorf("token issued for (%q, %d); want (u1, 0)", issuer.userID, issuer.clearance)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	repo := &mockUserRepo{
		UserByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewAuthService(repo, newTestHasher(), &fakeIssuer{})

	_, _, err := svc.Login(context.Background(), "ghost", "pw")
	if !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Login error = %v; want ErrBadCredentials (no username disclosure)", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hasher := newTestHasher()
	hash, err := hasher.Hash("correct")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	repo := &mockUserRepo{
		UserByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{ID: "u1", Username: username, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(repo, hasher, &fakeIssuer{})

	_, _, err = svc.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Login error = %v; want ErrBadCredentials", err)
	}
}

func TestLogin_RepoError(t *testing.T) {
	wantErr := errors.New("db error")
	repo := &mockUserRepo{
		UserByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return nil, wantErr
		},
	}
	svc := NewAuthService(repo, newTestHasher(), &fakeIssuer{})

	_, _, err := svc.Login(context.Background(), "alice", "pw")
	if !errors.Is(err, wantErr) {
		t.Errorf("Login error = %v; want wrapped %v", err, wantErr)
	}
}
