package catalog_test

import (
	"context"
	"testing"

	"github.com/EmpoweredVote/lego-catalog/internal/apperr"
	"github.com/EmpoweredVote/lego-catalog/internal/catalog"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore opens a private in-memory SQLite database with foreign keys enforced.
func newTestStore(t *testing.T) *catalog.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every connection to :memory: is its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	store := catalog.New(db)
	require.NoError(t, store.Init(context.Background()))
	return store
}

type fixture struct {
	store    *catalog.Store
	starWars catalog.Theme
	city     catalog.Theme
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := newTestStore(t)

	starWars, err := store.AddTheme(ctx, "Star Wars")
	require.NoError(t, err)
	city, err := store.AddTheme(ctx, "City")
	require.NoError(t, err)

	sets := []catalog.Set{
		{SetNum: "75192-1", Name: "Millennium Falcon", Year: 2017, NumParts: 7541, ThemeID: starWars.ID, ImgURL: "https://cdn.rebrickable.com/media/sets/75192-1.jpg"},
		{SetNum: "75313-1", Name: "AT-AT", Year: 2021, NumParts: 6785, ThemeID: starWars.ID, ImgURL: "https://cdn.rebrickable.com/media/sets/75313-1.jpg"},
		{SetNum: "60380-1", Name: "Downtown", Year: 2023, NumParts: 2010, ThemeID: city.ID, ImgURL: "https://cdn.rebrickable.com/media/sets/60380-1.jpg"},
	}
	for _, s := range sets {
		require.NoError(t, store.AddSet(ctx, s))
	}

	return fixture{store: store, starWars: starWars, city: city}
}

func TestAddSetRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	data := catalog.Set{
		SetNum:   "10497-1",
		Name:     "Galaxy Explorer",
		Year:     2022,
		NumParts: 1254,
		ThemeID:  f.city.ID,
		ImgURL:   "https://cdn.rebrickable.com/media/sets/10497-1.jpg",
	}
	require.NoError(t, f.store.AddSet(ctx, data))

	got, err := f.store.SetByNum(ctx, data.SetNum)
	require.NoError(t, err)

	want := data
	want.Theme = f.city
	assert.Equal(t, want, got)
}

func TestSetByNum(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	set, err := f.store.SetByNum(ctx, "75192-1")
	require.NoError(t, err)
	assert.Equal(t, "Millennium Falcon", set.Name)
	assert.Equal(t, set.ThemeID, set.Theme.ID)
	assert.Equal(t, "Star Wars", set.Theme.Name)

	_, err = f.store.SetByNum(ctx, "00000-0")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAllSetsJoinsTheme(t *testing.T) {
	f := newFixture(t)

	sets, err := f.store.AllSets(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 3)
	for _, s := range sets {
		assert.Equal(t, s.ThemeID, s.Theme.ID, s.SetNum)
		assert.NotEmpty(t, s.Theme.Name, s.SetNum)
	}
}

func TestSetsByTheme(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sets, err := f.store.SetsByTheme(ctx, "star")
	require.NoError(t, err)
	require.Len(t, sets, 2)
	for _, s := range sets {
		assert.Equal(t, "Star Wars", s.Theme.Name)
	}

	sets, err = f.store.SetsByTheme(ctx, "CITY")
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "60380-1", sets[0].SetNum)

	_, err = f.store.SetsByTheme(ctx, "Ninjago")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSetsByThemeMatchesWildcardsLiterally(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.SetsByTheme(context.Background(), "%")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.store.SetsByTheme(context.Background(), "St_r")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAllThemesOrderedByName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.AddTheme(ctx, "Architecture")
	require.NoError(t, err)

	themes, err := f.store.AllThemes(ctx)
	require.NoError(t, err)

	var names []string
	for _, th := range themes {
		names = append(names, th.Name)
	}
	assert.Equal(t, []string{"Architecture", "City", "Star Wars"}, names)
}

func TestAddSetDuplicateKey(t *testing.T) {
	f := newFixture(t)

	err := f.store.AddSet(context.Background(), catalog.Set{
		SetNum:  "75192-1",
		Name:    "Duplicate",
		ThemeID: f.starWars.ID,
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.NotEmpty(t, err.Error())

	set, err := f.store.SetByNum(context.Background(), "75192-1")
	require.NoError(t, err)
	assert.Equal(t, "Millennium Falcon", set.Name)
}

func TestAddSetUnknownTheme(t *testing.T) {
	f := newFixture(t)

	err := f.store.AddSet(context.Background(), catalog.Set{
		SetNum:  "99999-1",
		Name:    "Orphan",
		ThemeID: 4242,
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestEditSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	update := catalog.Set{
		Name:     "Millennium Falcon UCS",
		Year:     2018,
		NumParts: 7500,
		ThemeID:  f.city.ID,
		ImgURL:   "https://example.com/falcon.jpg",
	}
	require.NoError(t, f.store.EditSet(ctx, "75192-1", update))

	got, err := f.store.SetByNum(ctx, "75192-1")
	require.NoError(t, err)
	assert.Equal(t, "Millennium Falcon UCS", got.Name)
	assert.Equal(t, 2018, got.Year)
	assert.Equal(t, 7500, got.NumParts)
	assert.Equal(t, f.city, got.Theme)
	assert.Equal(t, "https://example.com/falcon.jpg", got.ImgURL)

	untouched, err := f.store.SetByNum(ctx, "75313-1")
	require.NoError(t, err)
	assert.Equal(t, "AT-AT", untouched.Name)
	assert.Equal(t, f.starWars, untouched.Theme)
}

func TestEditSetMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.store.EditSet(ctx, "00000-0", catalog.Set{Name: "Ghost", ThemeID: f.city.ID})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	sets, err := f.store.AllSets(ctx)
	require.NoError(t, err)
	for _, s := range sets {
		assert.NotEqual(t, "Ghost", s.Name)
	}
}

func TestEditSetUnknownTheme(t *testing.T) {
	f := newFixture(t)

	err := f.store.EditSet(context.Background(), "75192-1", catalog.Set{Name: "Falcon", ThemeID: 4242})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDeleteSetTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.DeleteSet(ctx, "60380-1"))

	err := f.store.DeleteSet(ctx, "60380-1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.store.SetByNum(ctx, "60380-1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
