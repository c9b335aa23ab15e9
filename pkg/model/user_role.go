package model

// UserRole is the many-to-many join between users and roles
type UserRole struct {
	Email    string `gorm:"column:email;primaryKey"`
	RoleName string `gorm:"column:roleName;primaryKey"`
}

func (UserRole) TableName() string {
	return "UserRoles"
}
