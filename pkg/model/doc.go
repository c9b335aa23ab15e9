// Package model defines the database models for envspace.
//
// This package contains GORM models that map to the envspace schema. The
// schema is the on-disk contract: table names, column names and key
// structure must stay compatible with existing data files.
//
// # Core Models
//
//   - Space: root of a configuration namespace
//   - EnvVar: a key/value environment variable owned by a space
//   - Role: a named permission bundle
//   - SpaceAccess: a grant giving a role read or read-write access to a space
//   - User: an account identity
//   - UserRole: many-to-many join between users and roles
//
// # Database Schema
//
// The store is an embedded SQLite database with six tables:
//
//   - Spaces: configuration namespaces
//   - EnvVars: environment variables, keyed (spaceName, envKey)
//   - Roles: permission bundles
//   - SpaceAccess: access grants, keyed (spaceName, roleName)
//   - Users: accounts
//   - UserRoles: role memberships, keyed (email, roleName)
package model
