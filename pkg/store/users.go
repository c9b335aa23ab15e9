package store

import (
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/envspace/envspace/pkg/model"
)

// Users is the repository for User aggregates.
type Users struct {
	db *gorm.DB
}

// NewUsers creates a new Users repository on the shared store handle.
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// UserData is the aggregate snapshot carried by a User instance. Password
// holds the hasher digest; this layer never hashes.
type UserData struct {
	Email    string
	Password string
	Roles    []model.Role
}

// User is a live instance bound to the store it was loaded from.
type User struct {
	db   *gorm.DB
	Data UserData
}

const userAggregateQuery = `
SELECT
  Users.email,
  Users.password,
  json_group_array(json_object('name', Roles.name)) AS roles
FROM Users
LEFT JOIN UserRoles ON Users.email = UserRoles.email
LEFT JOIN Roles ON UserRoles.roleName = Roles.name
WHERE Users.email = ?
GROUP BY Users.email`

// FindByEmail fetches a user with their role list in a single query. A user
// with no roles comes back with an empty list. Returns (nil, nil) when no
// user has that email.
func (r *Users) FindByEmail(email string) (*User, error) {
	var (
		userEmail, password string
		roles               sql.NullString
	)
	row := r.db.Raw(userAggregateQuery, email).Row()
	if err := row.Scan(&userEmail, &password, &roles); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user %q: %w", email, err)
	}

	roleRows, err := decodeRelation[roleRow](roles)
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", email, err)
	}

	data := UserData{Email: userEmail, Password: password, Roles: make([]model.Role, 0, len(roleRows))}
	for _, ro := range roleRows {
		data.Roles = append(data.Roles, model.Role{Name: derefString(ro.Name)})
	}

	return &User{db: r.db, Data: data}, nil
}

// Create inserts a new user with an empty role list. The password must
// already be a hasher digest; repositories never hash. A duplicate email
// comes back as an ordinary error and uniqueness is enforced solely by the
// store's primary key.
func (r *Users) Create(data model.User) (*User, error) {
	err := r.db.Exec(
		`INSERT INTO Users (email, password) VALUES (?, ?)`,
		data.Email, data.Password,
	).Error
	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", data.Email, err)
	}
	return &User{
		db:   r.db,
		Data: UserData{Email: data.Email, Password: data.Password, Roles: []model.Role{}},
	}, nil
}

// Update patches the named columns only; an empty field set is a successful
// no-op. A password field must be pre-hashed by the caller under the same
// convention as Create. Mirrored into the instance's data on success.
func (u *User) Update(fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	tx := u.db.Table("Users").Where("email = ?", u.Data.Email).Updates(fields)
	if tx.Error != nil {
		return fmt.Errorf("update user %q: %w", u.Data.Email, tx.Error)
	}
	if email, ok := fields["email"].(string); ok {
		u.Data.Email = email
	}
	if password, ok := fields["password"].(string); ok {
		u.Data.Password = password
	}
	return nil
}

// Delete removes the user row. Memberships referencing the user are not
// cascaded.
func (u *User) Delete() error {
	if err := u.db.Exec(`DELETE FROM Users WHERE email = ?`, u.Data.Email).Error; err != nil {
		return fmt.Errorf("delete user %q: %w", u.Data.Email, err)
	}
	return nil
}

// AddRole inserts a membership row for the role. Same bidirectional mirror
// update as Role.AddUser, seen from the user's side.
func (u *User) AddRole(role *Role) error {
	err := u.db.Exec(
		`INSERT INTO UserRoles (email, roleName) VALUES (?, ?)`,
		u.Data.Email, role.Data.Name,
	).Error
	if err != nil {
		return fmt.Errorf("add role %q to user %q: %w", role.Data.Name, u.Data.Email, err)
	}
	u.Data.Roles = append(u.Data.Roles, model.Role{Name: role.Data.Name})
	role.Data.Users = append(role.Data.Users, model.User{Email: u.Data.Email, Password: u.Data.Password})
	return nil
}

// RemoveRole deletes the matching membership row and patches both mirrors.
func (u *User) RemoveRole(role *Role) error {
	err := u.db.Exec(
		`DELETE FROM UserRoles WHERE email = ? AND roleName = ?`,
		u.Data.Email, role.Data.Name,
	).Error
	if err != nil {
		return fmt.Errorf("remove role %q from user %q: %w", role.Data.Name, u.Data.Email, err)
	}

	keptRoles := u.Data.Roles[:0]
	for _, ro := range u.Data.Roles {
		if ro.Name != role.Data.Name {
			keptRoles = append(keptRoles, ro)
		}
	}
	u.Data.Roles = keptRoles

	keptUsers := role.Data.Users[:0]
	for _, us := range role.Data.Users {
		if us.Email != u.Data.Email {
			keptUsers = append(keptUsers, us)
		}
	}
	role.Data.Users = keptUsers
	return nil
}
