package service

import (
	"context"
	"errors"
	"testing"

	"Campus_Portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityRecordSwallowsFailure(t *testing.T) {
	store := newMemStore()
	repo := &memActivity{appendErr: errors.New("redis down")}
	svc := NewActivityService(repo, store.Users(), newTestLogger())

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), 1, model.ActionCreate, model.TargetNews, "t", "d")
	})
	assert.Empty(t, repo.all())
}

func TestActivityRecordSkipsInvalidKinds(t *testing.T) {
	store := newMemStore()
	repo := &memActivity{}
	svc := NewActivityService(repo, store.Users(), newTestLogger())

	svc.Record(context.Background(), 1, "publish", model.TargetNews, "t", "d")
	svc.Record(context.Background(), 1, model.ActionCreate, "video", "t", "d")
	assert.Empty(t, repo.all())
}

func TestActivityListRecent(t *testing.T) {
	store := newMemStore()
	admin := seedUser(t, store, "Admin", "admin@x.com", model.RoleAdmin)
	repo := &memActivity{}
	svc := NewActivityService(repo, store.Users(), newTestLogger())
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		svc.Record(ctx, admin.ID, model.ActionUpdate, model.TargetPage, "page", "")
	}
	svc.Record(ctx, 999, model.ActionDelete, model.TargetGallery, "last", "")

	list := svc.ListRecent(ctx)
	require.Len(t, list, RecentActivityLimit)
	assert.Equal(t, "last", list[0].TargetTitle)
	assert.Nil(t, list[0].User)
	require.NotNil(t, list[1].User)
	assert.Equal(t, admin.Brief(), *list[1].User)
}

func TestActivityListRecentNeverFails(t *testing.T) {
	store := newMemStore()
	svc := NewActivityService(&memActivity{recentErr: errors.New("redis down")}, store.Users(), newTestLogger())

	list := svc.ListRecent(context.Background())
	assert.NotNil(t, list)
	assert.Empty(t, list)

	empty := NewActivityService(&memActivity{}, store.Users(), newTestLogger())
	assert.NotNil(t, empty.ListRecent(context.Background()))
}
