package ingredient

import (
	"context"
	"strings"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCSV(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewIngredientService(NewIngredientRepository(db))

	n, err := svc.ImportCSV(ctx, strings.NewReader("name,measurement_unit\nflour,g\n\"milk, whole\",ml\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var count int64
	require.NoError(t, db.Model(&entities.Ingredient{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	all, err := svc.GetIngredients(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "milk, whole", all[1].Name)
}

func TestImportCSVAbortsOnBadRow(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewIngredientService(NewIngredientRepository(db))

	_, err := svc.ImportCSV(context.Background(), strings.NewReader("name,measurement_unit\nflour,g\nbroken\n"))
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&entities.Ingredient{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestImportCSVHeaderOnly(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewIngredientService(NewIngredientRepository(db))

	n, err := svc.ImportCSV(context.Background(), strings.NewReader("name,measurement_unit\n"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGetIngredients(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewIngredientService(NewIngredientRepository(db))

	salt := testutil.CreateIngredient(t, db, "Salt", "g")
	testutil.CreateIngredient(t, db, "salmon", "g")
	testutil.CreateIngredient(t, db, "sugar", "g")
	testutil.CreateIngredient(t, db, "100%_juice", "ml")

	got, err := svc.GetIngredients(ctx, "SAL")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Salt", got[0].Name)
	assert.Equal(t, "salmon", got[1].Name)

	got, err = svc.GetIngredients(ctx, "100%_")
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = svc.GetIngredients(ctx, "1_")
	require.NoError(t, err)
	assert.Empty(t, got)

	one, err := svc.GetIngredient(ctx, salt.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "g", one.MeasurementUnit)

	_, err = svc.GetIngredient(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)

	_, err = svc.GetIngredient(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
}
