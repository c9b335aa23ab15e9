package store

import (
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/envspace/envspace/pkg/model"
)

// Spaces is the repository for Space aggregates.
type Spaces struct {
	db *gorm.DB
}

// NewSpaces creates a new Spaces repository on the shared store handle.
func NewSpaces(db *gorm.DB) *Spaces {
	return &Spaces{db: db}
}

// SpaceData is the aggregate snapshot carried by a Space instance: the row
// itself plus the mirrors of its environment variables and access grants.
type SpaceData struct {
	Name   string
	Envs   []model.EnvVar
	Access []model.SpaceAccess
}

// Space is a live instance bound to the store it was loaded from.
type Space struct {
	db   *gorm.DB
	Data SpaceData
}

// Each related list is aggregated in its own correlated subquery. Joining
// EnvVars and SpaceAccess in one pass would cross-join unrelated rows and
// blow up the result between the two lists.
const spaceAggregateQuery = `
SELECT
  Spaces.name,
  (SELECT json_group_array(json_object('spaceName', spaceName, 'envKey', envKey, 'envValue', envValue))
     FROM EnvVars WHERE EnvVars.spaceName = Spaces.name) AS envs,
  (SELECT json_group_array(json_object('spaceName', spaceName, 'roleName', roleName, 'write', write))
     FROM SpaceAccess WHERE SpaceAccess.spaceName = Spaces.name) AS access
FROM Spaces
WHERE Spaces.name = ?`

// FindByName fetches a space together with its environment variables and
// access grants in a single query. It returns (nil, nil) when no space has
// that name.
func (r *Spaces) FindByName(name string) (*Space, error) {
	var (
		spaceName    string
		envs, access sql.NullString
	)
	row := r.db.Raw(spaceAggregateQuery, name).Row()
	if err := row.Scan(&spaceName, &envs, &access); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find space %q: %w", name, err)
	}

	envRows, err := decodeRelation[envRow](envs)
	if err != nil {
		return nil, fmt.Errorf("find space %q: %w", name, err)
	}
	accessRows, err := decodeRelation[accessRow](access)
	if err != nil {
		return nil, fmt.Errorf("find space %q: %w", name, err)
	}

	data := SpaceData{
		Name:   spaceName,
		Envs:   make([]model.EnvVar, 0, len(envRows)),
		Access: make([]model.SpaceAccess, 0, len(accessRows)),
	}
	for _, e := range envRows {
		data.Envs = append(data.Envs, model.EnvVar{
			SpaceName: derefString(e.SpaceName),
			EnvKey:    derefString(e.EnvKey),
			EnvValue:  derefString(e.EnvValue),
		})
	}
	for _, a := range accessRows {
		data.Access = append(data.Access, model.SpaceAccess{
			SpaceName: derefString(a.SpaceName),
			RoleName:  derefString(a.RoleName),
			Write:     a.Write != nil && *a.Write != 0,
		})
	}

	return &Space{db: r.db, Data: data}, nil
}

// Create inserts a new space with empty envs and access lists. A duplicate
// name comes back as an ordinary error; see IsConstraintViolation.
func (r *Spaces) Create(name string) (*Space, error) {
	if err := r.db.Exec(`INSERT INTO Spaces (name) VALUES (?)`, name).Error; err != nil {
		return nil, fmt.Errorf("create space %q: %w", name, err)
	}
	return &Space{
		db:   r.db,
		Data: SpaceData{Name: name, Envs: []model.EnvVar{}, Access: []model.SpaceAccess{}},
	}, nil
}

// Update patches the named columns only. An empty field set is a successful
// no-op that never reaches the store. On success the same fields are
// mirrored into the instance's data.
func (s *Space) Update(fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	tx := s.db.Table("Spaces").Where("name = ?", s.Data.Name).Updates(fields)
	if tx.Error != nil {
		return fmt.Errorf("update space %q: %w", s.Data.Name, tx.Error)
	}
	if name, ok := fields["name"].(string); ok {
		s.Data.Name = name
		// keep the dependent rows' mirror entries pointing at the new name
		for i := range s.Data.Envs {
			s.Data.Envs[i].SpaceName = name
		}
		for i := range s.Data.Access {
			s.Data.Access[i].SpaceName = name
		}
	}
	return nil
}

// Delete removes the space row. Dependent EnvVars and SpaceAccess rows are
// not cascaded; with foreign keys enforced the store rejects the delete
// until the caller has removed them.
func (s *Space) Delete() error {
	if err := s.db.Exec(`DELETE FROM Spaces WHERE name = ?`, s.Data.Name).Error; err != nil {
		return fmt.Errorf("delete space %q: %w", s.Data.Name, err)
	}
	return nil
}

// AddEnv inserts an environment variable and, on success, appends it to the
// instance's envs mirror.
func (s *Space) AddEnv(key, value string) error {
	err := s.db.Exec(
		`INSERT INTO EnvVars (spaceName, envKey, envValue) VALUES (?, ?, ?)`,
		s.Data.Name, key, value,
	).Error
	if err != nil {
		return fmt.Errorf("add env %q to space %q: %w", key, s.Data.Name, err)
	}
	s.Data.Envs = append(s.Data.Envs, model.EnvVar{SpaceName: s.Data.Name, EnvKey: key, EnvValue: value})
	return nil
}

// RemoveEnv deletes an environment variable and, on success, drops it from
// the envs mirror.
func (s *Space) RemoveEnv(key string) error {
	err := s.db.Exec(
		`DELETE FROM EnvVars WHERE spaceName = ? AND envKey = ?`,
		s.Data.Name, key,
	).Error
	if err != nil {
		return fmt.Errorf("remove env %q from space %q: %w", key, s.Data.Name, err)
	}
	kept := s.Data.Envs[:0]
	for _, e := range s.Data.Envs {
		if e.EnvKey != key {
			kept = append(kept, e)
		}
	}
	s.Data.Envs = kept
	return nil
}

// Grant gives a role read (write=false) or read-write (write=true) access
// to the space. Granting to a role that does not exist fails under
// referential integrity, as does granting the same pair twice.
func (s *Space) Grant(roleName string, write bool) error {
	err := s.db.Exec(
		`INSERT INTO SpaceAccess (spaceName, roleName, write) VALUES (?, ?, ?)`,
		s.Data.Name, roleName, write,
	).Error
	if err != nil {
		return fmt.Errorf("grant %q access to space %q: %w", roleName, s.Data.Name, err)
	}
	s.Data.Access = append(s.Data.Access, model.SpaceAccess{SpaceName: s.Data.Name, RoleName: roleName, Write: write})
	return nil
}

// Revoke removes a role's access grant from the space.
func (s *Space) Revoke(roleName string) error {
	err := s.db.Exec(
		`DELETE FROM SpaceAccess WHERE spaceName = ? AND roleName = ?`,
		s.Data.Name, roleName,
	).Error
	if err != nil {
		return fmt.Errorf("revoke %q access to space %q: %w", roleName, s.Data.Name, err)
	}
	kept := s.Data.Access[:0]
	for _, a := range s.Data.Access {
		if a.RoleName != roleName {
			kept = append(kept, a)
		}
	}
	s.Data.Access = kept
	return nil
}
