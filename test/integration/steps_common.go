package integration

import (
	"fmt"

	"github.com/cucumber/godog"
	"gorm.io/gorm"

	"github.com/envspace/envspace/pkg/db"
	"github.com/envspace/envspace/pkg/hasher"
	"github.com/envspace/envspace/pkg/model"
	"github.com/envspace/envspace/pkg/store"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	db     *gorm.DB
	spaces *store.Spaces
	roles  *store.Roles
	users  *store.Users

	// instances loaded by earlier steps, keyed by their natural names
	role *store.Role
	user *store.User

	// lastErr records the most recent operation outcome so failure
	// scenarios can assert on it
	lastErr error
}

// NewStepsContext creates a new steps context
func NewStepsContext() *StepsContext {
	return &StepsContext{}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^a fresh envspace store$`, s.aFreshStore)

	// Space steps
	sc.Step(`^I create a space "([^"]*)"$`, s.iCreateSpace)
	sc.Step(`^a space "([^"]*)" exists$`, s.aSpaceExists)
	sc.Step(`^fetching space "([^"]*)" succeeds$`, s.fetchingSpaceSucceeds)
	sc.Step(`^space "([^"]*)" has no environment variables$`, s.spaceHasNoEnvs)
	sc.Step(`^space "([^"]*)" has no access grants$`, s.spaceHasNoGrants)
	sc.Step(`^exactly (\d+) space named "([^"]*)" exists$`, s.exactlyNSpacesNamed)
	sc.Step(`^I set env "([^"]*)" to "([^"]*)" in space "([^"]*)"$`, s.iSetEnvInSpace)
	sc.Step(`^space "([^"]*)" has env "([^"]*)" set to "([^"]*)"$`, s.iSetEnvInSpacePrecondition)
	sc.Step(`^fetching space "([^"]*)" yields env "([^"]*)" with value "([^"]*)"$`, s.fetchingSpaceYieldsEnv)
	sc.Step(`^I grant role "([^"]*)" write access to space "([^"]*)"$`, s.iGrantRoleWriteAccess)
	sc.Step(`^I delete space "([^"]*)"$`, s.iDeleteSpace)

	// Role and membership steps
	sc.Step(`^a role "([^"]*)" exists$`, s.aRoleExists)
	sc.Step(`^a user "([^"]*)" exists$`, s.aUserExists)
	sc.Step(`^I add user "([^"]*)" to role "([^"]*)"$`, s.iAddUserToRole)
	sc.Step(`^I remove user "([^"]*)" from role "([^"]*)"$`, s.iRemoveUserFromRole)
	sc.Step(`^fetching role "([^"]*)" yields (\d+) members$`, s.fetchingRoleYieldsMembers)
	sc.Step(`^the role instance lists member "([^"]*)"$`, s.roleInstanceListsMember)
	sc.Step(`^the role instance lists no members$`, s.roleInstanceListsNoMembers)
	sc.Step(`^the user instance lists role "([^"]*)"$`, s.userInstanceListsRole)
	sc.Step(`^the user instance lists no roles$`, s.userInstanceListsNoRoles)

	// Outcome steps
	sc.Step(`^the operation fails with a constraint violation$`, s.operationFailsWithConstraint)
}

// Background steps

func (s *StepsContext) aFreshStore() error {
	conn, err := db.Connect(db.Config{Path: ":memory:"})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if err := db.Migrate(conn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	s.db = conn
	s.spaces = store.NewSpaces(conn)
	s.roles = store.NewRoles(conn)
	s.users = store.NewUsers(conn)
	s.role = nil
	s.user = nil
	s.lastErr = nil
	return nil
}

// Space steps

func (s *StepsContext) iCreateSpace(name string) error {
	_, s.lastErr = s.spaces.Create(name)
	return nil
}

func (s *StepsContext) aSpaceExists(name string) error {
	if _, err := s.spaces.Create(name); err != nil {
		return fmt.Errorf("create space %q: %w", name, err)
	}
	return nil
}

func (s *StepsContext) fetchingSpaceSucceeds(name string) error {
	space, err := s.spaces.FindByName(name)
	if err != nil {
		return err
	}
	if space == nil {
		return fmt.Errorf("space %q not found", name)
	}
	return nil
}

func (s *StepsContext) spaceHasNoEnvs(name string) error {
	space, err := s.spaces.FindByName(name)
	if err != nil {
		return err
	}
	if space == nil {
		return fmt.Errorf("space %q not found", name)
	}
	if len(space.Data.Envs) != 0 {
		return fmt.Errorf("expected no envs, got %d", len(space.Data.Envs))
	}
	return nil
}

func (s *StepsContext) spaceHasNoGrants(name string) error {
	space, err := s.spaces.FindByName(name)
	if err != nil {
		return err
	}
	if space == nil {
		return fmt.Errorf("space %q not found", name)
	}
	if len(space.Data.Access) != 0 {
		return fmt.Errorf("expected no grants, got %d", len(space.Data.Access))
	}
	return nil
}

func (s *StepsContext) exactlyNSpacesNamed(count int, name string) error {
	var n int64
	if err := s.db.Raw(`SELECT COUNT(*) FROM Spaces WHERE name = ?`, name).Scan(&n).Error; err != nil {
		return err
	}
	if n != int64(count) {
		return fmt.Errorf("expected %d spaces named %q, got %d", count, name, n)
	}
	return nil
}

func (s *StepsContext) iSetEnvInSpace(key, value, name string) error {
	space, err := s.spaces.FindByName(name)
	if err != nil {
		return err
	}
	if space == nil {
		return fmt.Errorf("space %q not found", name)
	}
	s.lastErr = space.AddEnv(key, value)
	return nil
}

func (s *StepsContext) iSetEnvInSpacePrecondition(name, key, value string) error {
	if err := s.iSetEnvInSpace(key, value, name); err != nil {
		return err
	}
	return s.lastErr
}

func (s *StepsContext) fetchingSpaceYieldsEnv(name, key, value string) error {
	space, err := s.spaces.FindByName(name)
	if err != nil {
		return err
	}
	if space == nil {
		return fmt.Errorf("space %q not found", name)
	}
	for _, env := range space.Data.Envs {
		if env.EnvKey == key {
			if env.EnvValue != value {
				return fmt.Errorf("env %q has value %q, want %q", key, env.EnvValue, value)
			}
			return nil
		}
	}
	return fmt.Errorf("env %q not present in space %q", key, name)
}

func (s *StepsContext) iGrantRoleWriteAccess(roleName, spaceName string) error {
	space, err := s.spaces.FindByName(spaceName)
	if err != nil {
		return err
	}
	if space == nil {
		return fmt.Errorf("space %q not found", spaceName)
	}
	s.lastErr = space.Grant(roleName, true)
	return nil
}

func (s *StepsContext) iDeleteSpace(name string) error {
	space, err := s.spaces.FindByName(name)
	if err != nil {
		return err
	}
	if space == nil {
		return fmt.Errorf("space %q not found", name)
	}
	s.lastErr = space.Delete()
	return nil
}

// Role and membership steps

func (s *StepsContext) aRoleExists(name string) error {
	role, err := s.roles.Create(model.Role{Name: name})
	if err != nil {
		return fmt.Errorf("create role %q: %w", name, err)
	}
	s.role = role
	return nil
}

func (s *StepsContext) aUserExists(email string) error {
	user, err := s.users.Create(model.User{
		Email:    email,
		Password: hasher.Digest("integration"),
	})
	if err != nil {
		return fmt.Errorf("create user %q: %w", email, err)
	}
	s.user = user
	return nil
}

func (s *StepsContext) iAddUserToRole(email, roleName string) error {
	if s.role == nil || s.user == nil {
		return fmt.Errorf("role and user must exist before adding membership")
	}
	if s.role.Data.Name != roleName || s.user.Data.Email != email {
		return fmt.Errorf("loaded instances do not match %q / %q", roleName, email)
	}
	s.lastErr = s.role.AddUser(s.user)
	return nil
}

func (s *StepsContext) iRemoveUserFromRole(email, roleName string) error {
	if s.role == nil || s.user == nil {
		return fmt.Errorf("role and user must exist before removing membership")
	}
	if s.role.Data.Name != roleName || s.user.Data.Email != email {
		return fmt.Errorf("loaded instances do not match %q / %q", roleName, email)
	}
	s.lastErr = s.role.RemoveUser(s.user)
	return nil
}

func (s *StepsContext) fetchingRoleYieldsMembers(name string, count int) error {
	role, err := s.roles.FindByName(name)
	if err != nil {
		return err
	}
	if role == nil {
		return fmt.Errorf("role %q not found", name)
	}
	if len(role.Data.Users) != count {
		return fmt.Errorf("expected %d members, got %d", count, len(role.Data.Users))
	}
	return nil
}

func (s *StepsContext) roleInstanceListsMember(email string) error {
	for _, u := range s.role.Data.Users {
		if u.Email == email {
			return nil
		}
	}
	return fmt.Errorf("role instance does not list member %q", email)
}

func (s *StepsContext) roleInstanceListsNoMembers() error {
	if len(s.role.Data.Users) != 0 {
		return fmt.Errorf("role instance still lists %d members", len(s.role.Data.Users))
	}
	return nil
}

func (s *StepsContext) userInstanceListsRole(name string) error {
	for _, r := range s.user.Data.Roles {
		if r.Name == name {
			return nil
		}
	}
	return fmt.Errorf("user instance does not list role %q", name)
}

func (s *StepsContext) userInstanceListsNoRoles() error {
	if len(s.user.Data.Roles) != 0 {
		return fmt.Errorf("user instance still lists %d roles", len(s.user.Data.Roles))
	}
	return nil
}

// Outcome steps

func (s *StepsContext) operationFailsWithConstraint() error {
	if s.lastErr == nil {
		return fmt.Errorf("expected a constraint violation, operation succeeded")
	}
	if !store.IsConstraintViolation(s.lastErr) {
		return fmt.Errorf("expected a constraint violation, got: %v", s.lastErr)
	}
	return nil
}
