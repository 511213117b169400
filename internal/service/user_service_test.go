package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"usermgmt/internal/entities"
	"usermgmt/internal/models"
	"usermgmt/internal/repository"
)

// countingRepo wraps a real repository and records inserts.
type countingRepo struct {
	repository.UserRepository
	inserts   int
	insertErr error
}

func (r *countingRepo) Insert(ctx context.Context, user *entities.User) (*entities.User, error) {
	r.inserts++
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	return r.UserRepository.Insert(ctx, user)
}

func newTestService(t *testing.T) (UserService, *countingRepo) {
	t.Helper()
	repo := &countingRepo{UserRepository: repository.NewMemoryUserRepository()}
	return NewUserService(repo, 0), repo
}

func strPtr(s string) *string { return &s }

func TestCreateUser_HashesPassword(t *testing.T) {
	svc, repo := newTestService(t)

	user, err := svc.CreateUser(context.Background(), &models.CreateUserRequest{
		Name:     "Ana",
		Email:    "ana@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ana@x.com", user.Email)
	assert.NotEqual(t, "secret1", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret1")))
	assert.Equal(t, 1, repo.inserts)

	cost, err := bcrypt.Cost([]byte(user.Password))
	require.NoError(t, err)
	assert.Equal(t, DefaultHashCost, cost)
}

func TestCreateUser_SamePasswordDifferentHashes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateUser(ctx, &models.CreateUserRequest{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	b, err := svc.CreateUser(ctx, &models.CreateUserRequest{Name: "B", Email: "b@x.com", Password: "secret1"})
	require.NoError(t, err)

	assert.NotEqual(t, a.Password, b.Password)
}

func TestCreateUser_ShortPassword(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.CreateUser(context.Background(), &models.CreateUserRequest{
		Name:     "Ana",
		Email:    "ana@x.com",
		Password: "12345",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, "password", verr.Violations[0].Field)
	assert.Equal(t, "password must be at least 6 characters long", verr.Violations[0].Message)
	assert.Equal(t, 0, repo.inserts)
}

func TestCreateUser_AllFieldsInvalid(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.CreateUser(context.Background(), &models.CreateUserRequest{
		Name:     "",
		Email:    "bad",
		Password: "12",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []models.Violation{
		{Field: "name", Message: "name is required"},
		{Field: "email", Message: "email must be a valid email address"},
		{Field: "password", Message: "password must be at least 6 characters long"},
	}, verr.Violations)
	assert.Equal(t, 0, repo.inserts)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestCreateUser_MissingFields(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateUser(context.Background(), &models.CreateUserRequest{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 3)
	for _, v := range verr.Violations {
		assert.True(t, strings.HasSuffix(v.Message, "is required"), v.Message)
	}
}

func TestCreateUser_PasswordLengthCountsCharacters(t *testing.T) {
	svc, _ := newTestService(t)

	// six characters, twelve bytes
	_, err := svc.CreateUser(context.Background(), &models.CreateUserRequest{
		Name:     "Ana",
		Email:    "ana@x.com",
		Password: "ñññññ",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.CreateUser(context.Background(), &models.CreateUserRequest{
		Name:     "Ana",
		Email:    "ana@x.com",
		Password: "ññññññ",
	})
	assert.NoError(t, err)
}

func TestCreateUser_LongPasswordUsesFirst72Bytes(t *testing.T) {
	svc, repo := newTestService(t)
	password := strings.Repeat("a", 72) + "tail"

	user, err := svc.CreateUser(context.Background(), &models.CreateUserRequest{
		Name:     "Ana",
		Email:    "ana@x.com",
		Password: password,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.inserts)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password[:72])))
}

func TestCreateUser_PersistenceFailure(t *testing.T) {
	boom := errors.New("store unavailable")
	repo := &countingRepo{UserRepository: repository.NewMemoryUserRepository(), insertErr: boom}
	svc := NewUserService(repo, 0)

	_, err := svc.CreateUser(context.Background(), &models.CreateUserRequest{
		Name:     "Ana",
		Email:    "ana@x.com",
		Password: "secret1",
	})

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, repo.inserts)
}

func TestCreateThenList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, &models.CreateUserRequest{Name: "Ana", Email: "ana@x.com", Password: "secret1"})
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ana", users[0].Name)
	assert.Equal(t, "ana@x.com", users[0].Email)
	assert.NotEqual(t, "secret1", users[0].Password)
}

func TestUpdateUser_WritesFieldsVerbatim(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, &models.CreateUserRequest{Name: "Ana", Email: "ana@x.com", Password: "secret1"})
	require.NoError(t, err)

	// no validation and no hashing on update
	err = svc.UpdateUser(ctx, created.ID, entities.UserUpdate{
		Email:    strPtr("not-an-email"),
		Password: strPtr("plain"),
	})
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "not-an-email", got.Email)
	assert.Equal(t, "plain", got.Password)
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.UpdateUser(context.Background(), "missing", entities.UserUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestDeleteThenGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, &models.CreateUserRequest{Name: "Ana", Email: "ana@x.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, created.ID))

	_, err = svc.GetUser(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	// deleting again is not an error
	assert.NoError(t, svc.DeleteUser(ctx, created.ID))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Violations: []models.Violation{
		{Field: "name", Message: "name is required"},
		{Field: "email", Message: "email must be a valid email address"},
	}}

	assert.Equal(t, "validation failed: name: name is required; email: email must be a valid email address", err.Error())
}
