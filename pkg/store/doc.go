// Package store implements the relational data-access layer for envspace.
//
// Each aggregate root (Space, User, Role) has a repository constructed
// with the shared *gorm.DB handle. Find and create operations return live
// instances that carry a snapshot of the row together with its related
// entities (the "mirror"). Instance methods persist to the store first and
// patch the mirror only after the store confirms success, so a failed
// mutation never leaves the mirror ahead of the database.
//
// Association methods that touch the UserRoles join table update the
// mirrors on both sides of the relationship. Mirrors hold value copies of
// the other side's row data, never references to the other instance, so
// there are no object cycles between User and Role instances.
//
// A mirror is correct at load time and after mutations performed through
// the instance's own methods. It is not refreshed when the relationship is
// changed through another instance or another process; callers reconcile
// by reloading.
//
// Absent rows are not errors: find operations return (nil, nil) when no
// row matches. Constraint violations (duplicate key, missing foreign-key
// target) come back as ordinary errors, classifiable with
// IsConstraintViolation. Repositories never pre-check uniqueness; the
// store's primary keys are the authoritative signal.
package store
