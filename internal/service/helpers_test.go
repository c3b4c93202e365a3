package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"Campus_Portal/internal/model"
	"Campus_Portal/internal/pkg"
	"Campus_Portal/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memCache struct {
	mu            sync.Mutex
	list          []model.ClubSummary
	ok            bool
	hits          int
	invalidations int
}

func (c *memCache) GetList(context.Context) ([]model.ClubSummary, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ok {
		c.hits++
	}
	return c.list, c.ok, nil
}

func (c *memCache) SetList(_ context.Context, list []model.ClubSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list, c.ok = list, true
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list, c.ok = nil, false
	c.invalidations++
	return nil
}

type memActivity struct {
	mu        sync.Mutex
	entries   []model.Activity
	appendErr error
	recentErr error
}

func (r *memActivity) Append(_ context.Context, a *model.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	a.CreatedAt = time.Now()
	r.entries = append(r.entries, *a)
	return nil
}

func (r *memActivity) Recent(_ context.Context, limit int) ([]model.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recentErr != nil {
		return nil, r.recentErr
	}
	var out []model.Activity
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func (r *memActivity) all() []model.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Activity(nil), r.entries...)
}

type decision struct {
	UserID   uint64
	ClubID   uint64
	Approved bool
}

type recordingNotifier struct {
	mu        sync.Mutex
	decisions []decision
}

func (n *recordingNotifier) RequestDecided(_ context.Context, user model.User, club model.Club, approved bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.decisions = append(n.decisions, decision{UserID: user.ID, ClubID: club.ID, Approved: approved})
}

type memSessions struct {
	mu   sync.Mutex
	data map[uint64]repository.Session
}

func newMemSessions() *memSessions {
	return &memSessions{data: map[uint64]repository.Session{}}
}

func (m *memSessions) Save(_ context.Context, userID uint64, s repository.Session, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[userID] = s
	return nil
}

func (m *memSessions) Get(_ context.Context, userID uint64) (*repository.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[userID]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return &s, nil
}

func (m *memSessions) Extend(_ context.Context, userID uint64, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[userID]; !ok {
		return repository.ErrSessionNotFound
	}
	return nil
}

func (m *memSessions) Delete(_ context.Context, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID)
	return nil
}

func seedUser(t *testing.T, store *memStore, name, email string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: email, Password: "x", Role: role}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func actorOf(u *model.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

// assertCode 按错误码断言
func assertCode(t *testing.T, want *pkg.Error, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, want), "want %s, got %v", want.Code, err)
}

// assertClubInvariants 校验所有社团的成员关系约束
func assertClubInvariants(t *testing.T, store *memStore) {
	t.Helper()
	ctx := context.Background()
	clubs, err := store.Clubs().List(ctx)
	require.NoError(t, err)
	for i := range clubs {
		c := &clubs[i]
		assert.LessOrEqual(t, len(c.LeaderIDs()), model.MaxLeaders, "club %d leaders", c.ID)
		for _, id := range c.LeaderIDs() {
			assert.True(t, c.IsMember(id), "leader %d must be a member of club %d", id, c.ID)
		}
		full, err := store.Clubs().FindByID(ctx, c.ID)
		require.NoError(t, err)
		for _, id := range append(full.MemberIDs(), full.RequestIDs()...) {
			u, err := store.Users().FindByID(ctx, id)
			require.NoError(t, err)
			assert.False(t, u.IsAdmin(), "admin %d found in club %d", id, c.ID)
		}
		for _, id := range full.RequestIDs() {
			assert.False(t, full.IsMember(id), "requester %d is already a member of club %d", id, c.ID)
		}
	}
}
