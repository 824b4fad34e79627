package service

import (
	"StudySync/internal/model"
	"StudySync/internal/repo"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// мок для repo.UserRepository
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) GetUser(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) ListUsersByXP(ctx context.Context, limit int) ([]model.User, error) {
	args := m.Called(ctx, limit)
	if v, ok := args.Get(0).([]model.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UpdateUserXP(ctx context.Context, id string, xp int) (*model.User, error) {
	args := m.Called(ctx, id, xp)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	m := new(mockUserRepo)
	svc := NewUserService(m)

	t.Run("ok when username free", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByUsername", mock.Anything, "john").Return((*model.User)(nil), nil).Once()
		created := &model.User{ID: "u-10", Username: "john"}
		m.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Username == "john" && u.Email == "john@example.com" &&
				u.Avatar == model.DefaultAvatar &&
				bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("p@ss")) == nil
		})).Return(created, nil).Once()

		user, err := svc.Register(ctx, " john ", "john@example.com", "p@ss")
		assert.NoError(t, err)
		assert.Equal(t, "u-10", user.ID)
		m.AssertExpectations(t)
	})

	t.Run("conflict when username taken", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByUsername", mock.Anything, "john").Return(&model.User{ID: "u-1", Username: "john"}, nil).Once()

		user, err := svc.Register(ctx, "john", "john@example.com", "p@ss")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrUsernameTaken)
		m.AssertExpectations(t)
	})

	t.Run("race on insert is reported as taken", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByUsername", mock.Anything, "john").Return((*model.User)(nil), nil).Once()
		m.On("CreateUser", mock.Anything, mock.Anything).Return(nil, repo.ErrDuplicate).Once()

		_, err := svc.Register(ctx, "john", "john@example.com", "p@ss")
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("validation", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.Calls = nil
		for _, in := range [][3]string{
			{"", "a@b.c", "p"},
			{"john", "not-an-email", "p"},
			{"john", "a@b.c", ""},
		} {
			_, err := svc.Register(ctx, in[0], in[1], in[2])
			assert.ErrorIs(t, err, ErrValidation)
		}
		m.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByUsername", mock.Anything, "john").Return(nil, repo.ErrUnavailable).Once()
		_, err := svc.Register(ctx, "john", "john@example.com", "p@ss")
		assert.ErrorIs(t, err, repo.ErrUnavailable)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	m := new(mockUserRepo)
	svc := NewUserService(m)

	// готовим хеш для пароля "secret"
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)

	t.Run("ok with valid credentials", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByUsername", mock.Anything, "alice").Return(&model.User{ID: "u-2", Username: "alice", Password: string(hash)}, nil).Once()

		user, err := svc.Login(ctx, "alice", "secret")
		assert.NoError(t, err)
		assert.Equal(t, "u-2", user.ID)
		m.AssertExpectations(t)
	})

	t.Run("invalid password", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByUsername", mock.Anything, "alice").Return(&model.User{ID: "u-2", Username: "alice", Password: string(hash)}, nil).Once()

		user, err := svc.Login(ctx, "alice", "wrong")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		m.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByUsername", mock.Anything, "ghost").Return((*model.User)(nil), nil).Once()

		_, err := svc.Login(ctx, "ghost", "secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_AddXP(t *testing.T) {
	ctx := context.Background()
	m := new(mockUserRepo)
	svc := NewUserService(m)

	t.Run("adds delta", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUser", mock.Anything, "u-1").Return(&model.User{ID: "u-1", XP: 40}, nil).Once()
		m.On("UpdateUserXP", mock.Anything, "u-1", 90).Return(&model.User{ID: "u-1", XP: 90}, nil).Once()

		u, err := svc.AddXP(ctx, "u-1", 50)
		require.NoError(t, err)
		assert.Equal(t, 90, u.XP)
		m.AssertExpectations(t)
	})

	t.Run("clamps at zero", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUser", mock.Anything, "u-1").Return(&model.User{ID: "u-1", XP: 5}, nil).Once()
		m.On("UpdateUserXP", mock.Anything, "u-1", 0).Return(&model.User{ID: "u-1"}, nil).Once()

		_, err := svc.AddXP(ctx, "u-1", -20)
		require.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.Calls = nil
		m.On("GetUser", mock.Anything, "nope").Return((*model.User)(nil), nil).Once()

		_, err := svc.AddXP(ctx, "nope", 10)
		assert.ErrorIs(t, err, repo.ErrNotFound)
		m.AssertNotCalled(t, "UpdateUserXP", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserService_Leaderboard(t *testing.T) {
	ctx := context.Background()
	m := new(mockUserRepo)
	svc := NewUserService(m)

	m.On("ListUsersByXP", mock.Anything, DefaultLeaderboardSize).Return([]model.User{}, nil).Once()
	m.On("ListUsersByXP", mock.Anything, MaxLeaderboardSize).Return([]model.User{}, nil).Once()
	m.On("ListUsersByXP", mock.Anything, 3).Return(nil, errors.New("boom")).Once()

	_, err := svc.Leaderboard(ctx, 0)
	assert.NoError(t, err)
	_, err = svc.Leaderboard(ctx, 1000)
	assert.NoError(t, err)
	_, err = svc.Leaderboard(ctx, 3)
	assert.EqualError(t, err, "boom")
	m.AssertExpectations(t)
}

// lockedXPRepo считает XP в памяти с задержкой между чтением и записью.
type lockedXPRepo struct {
	mockUserRepo
	mu sync.Mutex
	xp int
}

func (r *lockedXPRepo) GetUser(context.Context, string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &model.User{ID: "u", XP: r.xp}, nil
}

func (r *lockedXPRepo) UpdateUserXP(_ context.Context, id string, xp int) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.xp = xp
	return &model.User{ID: id, XP: xp}, nil
}

func TestUserService_AddXPConcurrent(t *testing.T) {
	r := &lockedXPRepo{}
	svc := NewUserService(r)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AddXP(context.Background(), "u", 10)
		}()
	}
	wg.Wait()
	assert.Equal(t, 250, r.xp)
}
