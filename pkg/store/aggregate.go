package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// relationRow is a decoded element of a json_group_array aggregate column.
// present reports whether the element carries real data: an outer join with
// zero matching rows emits one synthetic element with every column null,
// which must be dropped rather than surfaced as an entity with null
// identity.
type relationRow interface {
	present() bool
}

// decodeRelation parses the JSON list column of an aggregate fetch and
// filters null-placeholder elements. A SQL NULL or empty column decodes to
// an empty list. All repositories route their related-entity lists through
// this one function.
func decodeRelation[R relationRow](raw sql.NullString) ([]R, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}

	var rows []R
	if err := json.Unmarshal([]byte(raw.String), &rows); err != nil {
		return nil, fmt.Errorf("decode relation list: %w", err)
	}

	kept := rows[:0]
	for _, row := range rows {
		if row.present() {
			kept = append(kept, row)
		}
	}
	return kept, nil
}

// envRow mirrors the JSON shape produced by the space aggregate query.
// Columns are pointers so a null placeholder is detectable.
type envRow struct {
	SpaceName *string `json:"spaceName"`
	EnvKey    *string `json:"envKey"`
	EnvValue  *string `json:"envValue"`
}

func (r envRow) present() bool { return r.EnvKey != nil }

// accessRow mirrors the JSON shape of a SpaceAccess grant. The write flag
// arrives as the 0/1 integer SQLite stores for booleans.
type accessRow struct {
	SpaceName *string `json:"spaceName"`
	RoleName  *string `json:"roleName"`
	Write     *int    `json:"write"`
}

func (r accessRow) present() bool { return r.RoleName != nil }

// memberRow mirrors the JSON shape of a role's member list.
type memberRow struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (r memberRow) present() bool { return r.Email != nil }

// roleRow mirrors the JSON shape of a user's role list.
type roleRow struct {
	Name *string `json:"name"`
}

func (r roleRow) present() bool { return r.Name != nil }

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
