package tag

import (
	"context"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTagService(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewTagRepository(db)
	svc := NewTagService(repo)

	lunch := testutil.CreateTag(t, db, "lunch", "#00ff00")
	breakfast := testutil.CreateTag(t, db, "breakfast", "#ff0000")

	tags, err := svc.GetTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Slug)

	got, err := svc.GetTag(ctx, lunch.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.TagResponse{ID: lunch.ID.String(), Name: "lunch", Color: "#00ff00", Slug: "lunch"}, *got)

	_, err = svc.GetTag(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	n, err := repo.CountTagsByIDs(ctx, []uuid.UUID{lunch.ID, breakfast.ID, uuid.New()})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestTagUniqueness(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateTag(t, db, "dinner", "#123456")

	err := db.Create(&entities.Tag{Name: "other", Color: "#123456", Slug: "other"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
