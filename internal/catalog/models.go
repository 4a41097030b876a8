package catalog

// Theme groups many sets.
type Theme struct {
	ID   int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `json:"name"`
}

// Set is a catalog entry. Theme is populated by reads only.
type Set struct {
	SetNum   string `gorm:"primaryKey" json:"set_num"`
	Name     string `json:"name"`
	Year     int    `json:"year"`
	NumParts int    `json:"num_parts"`
	ThemeID  int    `gorm:"index" json:"theme_id"`
	ImgURL   string `json:"img_url"`
	Theme    Theme  `gorm:"foreignKey:ThemeID" json:"theme"`
}

func (Theme) TableName() string { return "themes" }
func (Set) TableName() string   { return "sets" }
