package store

import (
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/envspace/envspace/pkg/model"
)

// Roles is the repository for Role aggregates.
type Roles struct {
	db *gorm.DB
}

// NewRoles creates a new Roles repository on the shared store handle.
func NewRoles(db *gorm.DB) *Roles {
	return &Roles{db: db}
}

// RoleData is the aggregate snapshot carried by a Role instance.
type RoleData struct {
	Name  string
	Users []model.User
}

// Role is a live instance bound to the store it was loaded from.
type Role struct {
	db   *gorm.DB
	Data RoleData
}

const roleAggregateQuery = `
SELECT
  Roles.name,
  json_group_array(json_object('email', Users.email, 'password', Users.password)) AS members
FROM Roles
LEFT JOIN UserRoles ON Roles.name = UserRoles.roleName
LEFT JOIN Users ON UserRoles.email = Users.email
WHERE Roles.name = ?
GROUP BY Roles.name`

// FindByName fetches a role with its member list in a single query. A role
// with no members comes back with an empty list, never a null-identity
// placeholder. Returns (nil, nil) when no role has that name.
func (r *Roles) FindByName(name string) (*Role, error) {
	var (
		roleName string
		members  sql.NullString
	)
	row := r.db.Raw(roleAggregateQuery, name).Row()
	if err := row.Scan(&roleName, &members); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find role %q: %w", name, err)
	}

	memberRows, err := decodeRelation[memberRow](members)
	if err != nil {
		return nil, fmt.Errorf("find role %q: %w", name, err)
	}

	data := RoleData{Name: roleName, Users: make([]model.User, 0, len(memberRows))}
	for _, m := range memberRows {
		data.Users = append(data.Users, model.User{
			Email:    derefString(m.Email),
			Password: derefString(m.Password),
		})
	}

	return &Role{db: r.db, Data: data}, nil
}

// Create inserts a new role with an empty member list. A duplicate name
// comes back as an ordinary error.
func (r *Roles) Create(data model.Role) (*Role, error) {
	if err := r.db.Exec(`INSERT INTO Roles (name) VALUES (?)`, data.Name).Error; err != nil {
		return nil, fmt.Errorf("create role %q: %w", data.Name, err)
	}
	return &Role{db: r.db, Data: RoleData{Name: data.Name, Users: []model.User{}}}, nil
}

// Update patches the named columns only; an empty field set is a successful
// no-op. Mirrored into the instance's data on success.
func (r *Role) Update(fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	tx := r.db.Table("Roles").Where("name = ?", r.Data.Name).Updates(fields)
	if tx.Error != nil {
		return fmt.Errorf("update role %q: %w", r.Data.Name, tx.Error)
	}
	if name, ok := fields["name"].(string); ok {
		r.Data.Name = name
	}
	return nil
}

// Delete removes the role row. Memberships and grants referencing the role
// are not cascaded.
func (r *Role) Delete() error {
	if err := r.db.Exec(`DELETE FROM Roles WHERE name = ?`, r.Data.Name).Error; err != nil {
		return fmt.Errorf("delete role %q: %w", r.Data.Name, err)
	}
	return nil
}

// AddUser inserts a membership row for the user. On success both mirrors
// are patched: the user's data is appended to this role's Users and this
// role's data to the user's Roles. Updating only one side would leave the
// caller's two in-memory views disagreeing while the store is correct.
func (r *Role) AddUser(user *User) error {
	err := r.db.Exec(
		`INSERT INTO UserRoles (email, roleName) VALUES (?, ?)`,
		user.Data.Email, r.Data.Name,
	).Error
	if err != nil {
		return fmt.Errorf("add user %q to role %q: %w", user.Data.Email, r.Data.Name, err)
	}
	r.Data.Users = append(r.Data.Users, model.User{Email: user.Data.Email, Password: user.Data.Password})
	user.Data.Roles = append(user.Data.Roles, model.Role{Name: r.Data.Name})
	return nil
}

// RemoveUser deletes the matching membership row and, on success, removes
// the entries from both mirrors symmetrically.
func (r *Role) RemoveUser(user *User) error {
	err := r.db.Exec(
		`DELETE FROM UserRoles WHERE email = ? AND roleName = ?`,
		user.Data.Email, r.Data.Name,
	).Error
	if err != nil {
		return fmt.Errorf("remove user %q from role %q: %w", user.Data.Email, r.Data.Name, err)
	}

	keptUsers := r.Data.Users[:0]
	for _, u := range r.Data.Users {
		if u.Email != user.Data.Email {
			keptUsers = append(keptUsers, u)
		}
	}
	r.Data.Users = keptUsers

	keptRoles := user.Data.Roles[:0]
	for _, ur := range user.Data.Roles {
		if ur.Name != r.Data.Name {
			keptRoles = append(keptRoles, ur)
		}
	}
	user.Data.Roles = keptRoles
	return nil
}
