package model

// User is an account identity. Password holds the hasher digest, never
// plaintext.
type User struct {
	Email    string `gorm:"column:email;primaryKey"`
	Password string `gorm:"column:password;not null"`
}

func (User) TableName() string {
	return "Users"
}
