package model

// Space is the root of a configuration namespace.
type Space struct {
	Name string `gorm:"column:name;primaryKey"`
}

func (Space) TableName() string {
	return "Spaces"
}
