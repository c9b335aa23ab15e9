package store

import "strings"

// IsConstraintViolation reports whether err was caused by the store
// rejecting a mutation under a primary-key, uniqueness or foreign-key
// constraint. SQLite reports all of these with a "constraint failed"
// result code, which is the only classification this layer offers;
// everything else is an opaque store error.
func IsConstraintViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}
