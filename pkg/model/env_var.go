package model

// EnvVar is a single environment variable owned by a space. The key is
// unique within its space, so two spaces can reuse the same variable name.
type EnvVar struct {
	SpaceName string `gorm:"column:spaceName;primaryKey"`
	EnvKey    string `gorm:"column:envKey;primaryKey"`
	EnvValue  string `gorm:"column:envValue;not null"`
}

func (EnvVar) TableName() string {
	return "EnvVars"
}
