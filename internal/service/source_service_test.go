package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSourceFixture(t *testing.T) (*SourceService, *fakeSourceStore, *fakeUserStore) {
	t.Helper()
	sources := newFakeSourceStore()
	users := newFakeUserStore()
	return NewSourceService(sources, users, zap.NewNop()), sources, users
}

func TestCreateSourceRejectsDuplicateName(t *testing.T) {
	svc, _, _ := newSourceFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateSourceInput{Name: "Instagram"})
	require.NoError(t, err)

	// Names are normalized to lower case before the uniqueness check.
	_, err = svc.Create(ctx, CreateSourceInput{Name: "instagram"})
	assert.ErrorIs(t, err, ErrSourceExists)

	_, err = svc.Create(ctx, CreateSourceInput{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidSource)
}

func TestAttributeLinksUserOnce(t *testing.T) {
	svc, sources, users := newSourceFixture(t)
	ctx := context.Background()
	user := newTestUser(users, 555)

	// First /start payload creates the source on the fly and links the user.
	require.NoError(t, svc.Attribute(ctx, user.ID, "instagram"))

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.SourceID)

	created, err := sources.GetByName(ctx, "instagram")
	require.NoError(t, err)
	assert.Equal(t, created.ID, *stored.SourceID)

	// A later payload never overwrites the original attribution.
	require.NoError(t, svc.Attribute(ctx, user.ID, "google"))
	stored, err = users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, *stored.SourceID)
}

func TestCreateDefaultsIsIdempotent(t *testing.T) {
	svc, sources, _ := newSourceFixture(t)
	ctx := context.Background()

	created, err := svc.CreateDefaults(ctx)
	require.NoError(t, err)
	assert.Len(t, created, 7)

	again, err := svc.CreateDefaults(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)

	all, err := sources.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 7)
}
