package services

import (
	"context"
	"testing"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, domain.NewError(domain.KindValidationFailed, "username or email already taken")
		}
	}
	f.users[user.UserID] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, userID uuid.UUID) (*domain.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "user not found")
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, domain.NewError(domain.KindNotFound, "user not found")
}

func (f *fakeUserRepo) ListUsers(_ context.Context) ([]*domain.User, error) {
	var users []*domain.User
	for _, user := range f.users {
		users = append(users, user)
	}
	return users, nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, userID uuid.UUID) error {
	if _, ok := f.users[userID]; !ok {
		return domain.NewError(domain.KindNotFound, "user not found")
	}
	delete(f.users, userID)
	return nil
}

func (f *fakeUserRepo) CountUsers(_ context.Context) (int, error) {
	return len(f.users), nil
}

func newUserService() (*UserService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewUserService(repo, nopLogger{}, validator.New()), repo
}

func TestRegisterHashesPassword(t *testing.T) {
	service, _ := newUserService()

	user := &domain.User{Username: "rider42", Email: "rider42@example.com"}
	created, err := service.Register(context.Background(), user, "super-secret-1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if created.PasswordHash == "" || created.PasswordHash == "super-secret-1" {
		t.Error("password must be stored hashed")
	}
	if created.IsAdmin {
		t.Error("self-registration must not grant admin")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	service, _ := newUserService()

	user := &domain.User{Username: "rider42", Email: "rider42@example.com"}
	if _, err := service.Register(context.Background(), user, "short"); !domain.IsKind(err, domain.KindValidationFailed) {
		t.Errorf("error kind = %v, want validation_failed", domain.KindOf(err))
	}
}

func TestLogin(t *testing.T) {
	service, _ := newUserService()

	user := &domain.User{Username: "rider42", Email: "rider42@example.com"}
	if _, err := service.Register(context.Background(), user, "super-secret-1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	logged, err := service.Login(context.Background(), "rider42", "super-secret-1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.Username != "rider42" {
		t.Errorf("username = %s, want rider42", logged.Username)
	}

	if _, err := service.Login(context.Background(), "rider42", "wrong-password"); !domain.IsKind(err, domain.KindPermissionDenied) {
		t.Errorf("wrong password: error kind = %v, want permission_denied", domain.KindOf(err))
	}

	// неизвестный логин отвечает так же, как неверный пароль
	if _, err := service.Login(context.Background(), "ghost", "super-secret-1"); !domain.IsKind(err, domain.KindPermissionDenied) {
		t.Errorf("unknown user: error kind = %v, want permission_denied", domain.KindOf(err))
	}
}

func TestDuplicateRegistration(t *testing.T) {
	service, _ := newUserService()

	user := &domain.User{Username: "rider42", Email: "rider42@example.com"}
	if _, err := service.Register(context.Background(), user, "super-secret-1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	dup := &domain.User{Username: "rider42", Email: "other@example.com"}
	if _, err := service.Register(context.Background(), dup, "super-secret-1"); err == nil {
		t.Error("duplicate username must be rejected")
	}
}
