package model

// SpaceAccess grants a role read (Write=false) or read-write (Write=true)
// access to a space. At most one grant exists per (space, role) pair.
type SpaceAccess struct {
	SpaceName string `gorm:"column:spaceName;primaryKey"`
	RoleName  string `gorm:"column:roleName;primaryKey"`
	Write     bool   `gorm:"column:write;not null"`
}

func (SpaceAccess) TableName() string {
	return "SpaceAccess"
}
