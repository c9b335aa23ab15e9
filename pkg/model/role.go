package model

// Role is a named permission bundle assigned to users
type Role struct {
	Name string `gorm:"column:name;primaryKey"`
}

func (Role) TableName() string {
	return "Roles"
}
