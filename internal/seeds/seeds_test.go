package seeds

import (
	"context"
	"testing"

	"github.com/EmpoweredVote/lego-catalog/internal/catalog"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) (*gorm.DB, *catalog.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	store := catalog.New(db)
	require.NoError(t, store.Init(context.Background()))
	return db, store
}

func TestLoadBundledDataset(t *testing.T) {
	ds, err := LoadDataset("data/lego.yaml")
	require.NoError(t, err)

	assert.Len(t, ds.Themes, 6)
	assert.Len(t, ds.Sets, 10)
	assert.Equal(t, catalog.Theme{ID: 158, Name: "Star Wars"}, ds.Themes[1])
	assert.Equal(t, "Lamborghini Sián FKP 37", ds.Sets[0].Name)
}

func TestLoadDatasetMissingFile(t *testing.T) {
	_, err := LoadDataset("data/nope.yaml")
	assert.Error(t, err)
}

func TestParseDatasetAcceptsJSON(t *testing.T) {
	raw := []byte(`{
		"themes": [{"id": 7, "name": " Castle "}],
		"sets": [{"set_num": "10305-1", "name": "Lion Knights' Castle", "year": 2022, "num_parts": 4514, "theme_id": 7, "img_url": "castle.jpg"}]
	}`)

	ds, err := ParseDataset(raw)
	require.NoError(t, err)
	assert.Equal(t, []catalog.Theme{{ID: 7, Name: "Castle"}}, ds.Themes)
	assert.Equal(t, []catalog.Set{{
		SetNum: "10305-1", Name: "Lion Knights' Castle", Year: 2022, NumParts: 4514, ThemeID: 7, ImgURL: "castle.jpg",
	}}, ds.Sets)
}

func TestParseDatasetValidation(t *testing.T) {
	cases := map[string]string{
		"no themes":       "sets: []",
		"zero theme id":   "themes: [{id: 0, name: A}]",
		"empty name":      "themes: [{id: 1, name: ''}]",
		"duplicate theme": "themes: [{id: 1, name: A}, {id: 1, name: B}]",
		"empty set_num":   "themes: [{id: 1, name: A}]\nsets: [{set_num: '', name: X, theme_id: 1}]",
		"unknown theme":   "themes: [{id: 1, name: A}]\nsets: [{set_num: 1-1, name: X, theme_id: 2}]",
		"duplicate set":   "themes: [{id: 1, name: A}]\nsets: [{set_num: 1-1, name: X, theme_id: 1}, {set_num: 1-1, name: Y, theme_id: 1}]",
		"not yaml":        "themes: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDataset([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, store := newTestDB(t)
	ds, err := LoadDataset("data/lego.yaml")
	require.NoError(t, err)

	n, err := SeedThemes(ctx, db, ds.Themes)
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)
	n, err = SeedSets(ctx, db, ds.Sets)
	require.NoError(t, err)
	assert.EqualValues(t, 10, n)

	n, err = SeedThemes(ctx, db, ds.Themes)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = SeedSets(ctx, db, ds.Sets)
	require.NoError(t, err)
	assert.Zero(t, n)

	set, err := store.SetByNum(ctx, "75192-1")
	require.NoError(t, err)
	assert.Equal(t, "Star Wars", set.Theme.Name)

	sets, err := store.SetsByTheme(ctx, "ideas")
	require.NoError(t, err)
	assert.Len(t, sets, 2)
}

func TestSeedThemesKeepsExistingRows(t *testing.T) {
	ctx := context.Background()
	db, store := newTestDB(t)

	_, err := SeedThemes(ctx, db, []catalog.Theme{{ID: 1, Name: "Technic"}})
	require.NoError(t, err)

	n, err := SeedThemes(ctx, db, []catalog.Theme{{ID: 1, Name: "Renamed"}, {ID: 2, Name: "Duplo"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	themes, err := store.AllThemes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []catalog.Theme{{ID: 2, Name: "Duplo"}, {ID: 1, Name: "Technic"}}, themes)
}

func TestSeedNothing(t *testing.T) {
	db, _ := newTestDB(t)

	n, err := SeedThemes(context.Background(), db, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = SeedSets(context.Background(), db, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
