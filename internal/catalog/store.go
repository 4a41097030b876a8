// Package catalog stores LEGO themes and sets in a relational database.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/EmpoweredVote/lego-catalog/internal/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the catalog adapter. It is safe for concurrent use.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Init creates the themes and sets tables and the foreign key between them.
func (s *Store) Init(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Theme{}, &Set{}); err != nil {
		return apperr.Wrap(apperr.CodeSchema, "failed to migrate catalog tables", err)
	}
	return nil
}

// AllSets returns every set with its theme, in store order.
func (s *Store) AllSets(ctx context.Context) ([]Set, error) {
	var sets []Set
	if err := s.db.WithContext(ctx).Joins("Theme").Find(&sets).Error; err != nil {
		return nil, storeError(msgSetsNotFound, err)
	}
	return sets, nil
}

// SetByNum looks a set up by its set number.
func (s *Store) SetByNum(ctx context.Context, setNum string) (Set, error) {
	var set Set
	err := s.db.WithContext(ctx).
		Joins("Theme").
		Where("sets.set_num = ?", setNum).
		Take(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Set{}, apperr.New(apperr.CodeNotFound, msgSetNotFound)
	}
	if err != nil {
		return Set{}, storeError(msgSetNotFound, err)
	}
	return set, nil
}

// SetsByTheme returns the sets whose theme name contains theme, ignoring case.
// An empty result is reported as a not-found error.
func (s *Store) SetsByTheme(ctx context.Context, theme string) ([]Set, error) {
	var sets []Set
	err := s.db.WithContext(ctx).
		InnerJoins("Theme").
		Where(`LOWER("Theme"."name") LIKE ? ESCAPE '\'`, containsPattern(theme)).
		Find(&sets).Error
	if err != nil {
		return nil, storeError(msgSetsNotFound, err)
	}
	if len(sets) == 0 {
		return nil, apperr.New(apperr.CodeNotFound, msgSetsNotFound)
	}
	return sets, nil
}

// AddSet inserts a new set. The embedded Theme is ignored.
func (s *Store) AddSet(ctx context.Context, set Set) error {
	set.Theme = Theme{}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&set).Error; err != nil {
		return validationError(err, msgDuplicateSet)
	}
	return nil
}

// AllThemes returns every theme ordered by name.
func (s *Store) AllThemes(ctx context.Context) ([]Theme, error) {
	var themes []Theme
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&themes).Error; err != nil {
		return nil, storeError("Unable to find themes", err)
	}
	return themes, nil
}

// AddTheme inserts a theme and returns it with its assigned id.
func (s *Store) AddTheme(ctx context.Context, name string) (Theme, error) {
	theme := Theme{Name: name}
	if err := s.db.WithContext(ctx).Create(&theme).Error; err != nil {
		return Theme{}, validationError(err, msgDuplicateTheme)
	}
	return theme, nil
}

// EditSet overwrites every mutable field of the set identified by setNum.
func (s *Store) EditSet(ctx context.Context, setNum string, data Set) error {
	res := s.db.WithContext(ctx).
		Model(&Set{}).
		Where("set_num = ?", setNum).
		Updates(map[string]any{
			"name":      data.Name,
			"year":      data.Year,
			"num_parts": data.NumParts,
			"theme_id":  data.ThemeID,
			"img_url":   data.ImgURL,
		})
	if res.Error != nil {
		return validationError(res.Error, msgDuplicateSet)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, msgSetNotFound)
	}
	return nil
}

// DeleteSet removes the set identified by setNum.
func (s *Store) DeleteSet(ctx context.Context, setNum string) error {
	res := s.db.WithContext(ctx).Where("set_num = ?", setNum).Delete(&Set{})
	if res.Error != nil {
		return storeError(storeMessage(res.Error, ""), res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, msgSetNotFound)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
