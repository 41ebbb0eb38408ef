package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/formforge/backend/internal/entity"
	"github.com/formforge/backend/internal/modules/user/dto"
	"github.com/formforge/backend/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users       map[string]*entity.User
	lastLogins  map[uuid.UUID]time.Time
	updateCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[string]*entity.User),
		lastLogins: make(map[uuid.UUID]time.Time),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.users[email]
	return ok, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.updateCalls++
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, id uuid.UUID) error {
	r.lastLogins[id] = time.Now()
	return nil
}

func newTestAuthService(repo *fakeUserRepo) AuthService {
	return NewAuthService(repo, "test-secret", time.Hour)
}

func TestRegisterIssuesToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	resp, err := svc.Register(context.Background(), dto.RegisterInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "Ada", resp.User.Name)
	assert.InDelta(t, time.Hour.Seconds(), float64(resp.ExpiresIn), 5)

	// The stored hash is bcrypt, never the plaintext.
	stored := repo.users["ada@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, stored.ID.String(), claims.Subject)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	input := dto.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))
}

func TestLoginBadPasswordAndUnknownEmailLookAlike(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), dto.RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, badPass := svc.Login(context.Background(), dto.LoginInput{Email: "ada@example.com", Password: "wrong"})
	_, badEmail := svc.Login(context.Background(), dto.LoginInput{Email: "nobody@example.com", Password: "secret123"})

	require.Error(t, badPass)
	require.Error(t, badEmail)
	assert.Equal(t, badPass.Error(), badEmail.Error())
	assert.Equal(t, http.StatusUnauthorized, apperror.MapErrorToStatus(badPass))
}

func TestLoginTouchesLastLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), dto.RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginInput{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	stored := repo.users["ada@example.com"]
	_, touched := repo.lastLogins[stored.ID]
	assert.True(t, touched)
	assert.NotNil(t, resp.User.LastLogin)
}

func TestChangePasswordRehashes(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), dto.RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	stored := repo.users["ada@example.com"]

	err = svc.ChangePassword(context.Background(), stored.ID, dto.ChangePasswordInput{
		CurrentPassword: "secret123",
		NewPassword:     "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.updateCalls)

	// The old password no longer verifies; the new one does.
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter22")))

	_, err = svc.Login(context.Background(), dto.LoginInput{Email: "ada@example.com", Password: "hunter22"})
	assert.NoError(t, err)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), dto.RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	stored := repo.users["ada@example.com"]

	err = svc.ChangePassword(context.Background(), stored.ID, dto.ChangePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "hunter22",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperror.MapErrorToStatus(err))
	assert.Zero(t, repo.updateCalls)

	// The stored hash is untouched.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
}

func TestChangePasswordUnknownUser(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	err := svc.ChangePassword(context.Background(), uuid.New(), dto.ChangePasswordInput{
		CurrentPassword: "secret123",
		NewPassword:     "hunter22",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), dto.RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	repo.users["ada@example.com"].IsActive = false

	_, err = svc.Login(context.Background(), dto.LoginInput{Email: "ada@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperror.MapErrorToStatus(err))
}
