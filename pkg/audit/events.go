package audit

import "fmt"

// AuthenticateEvent records a login attempt
type AuthenticateEvent struct {
	Email    string
	ClientIP string
	Success  bool
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated", e.Email)
	}
	return fmt.Sprintf("%s failed to authenticate", e.Email)
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Email,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}

// SpaceEvent records a mutation of a space record
type SpaceEvent struct {
	Actor    string
	ClientIP string
	Space    string
	Action   string // "create", "update" or "delete"
}

func (e SpaceEvent) MessageID() string {
	return "space"
}

func (e SpaceEvent) Message() string {
	return fmt.Sprintf("%s performed %s on space %s", e.Actor, e.Action, e.Space)
}

func (e SpaceEvent) Severity() Severity {
	return SeverityNotice
}

func (e SpaceEvent) Facility() int {
	return FacilityAuth
}

func (e SpaceEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"space": e.Space,
		},
		SDIDAction: {
			"operation": e.Action,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}

// EnvEvent records a change to an environment variable.
// Variable values never appear in the audit stream, only keys.
type EnvEvent struct {
	Actor    string
	ClientIP string
	Space    string
	Key      string
	Action   string // "set" or "remove"
}

func (e EnvEvent) MessageID() string {
	return "env"
}

func (e EnvEvent) Message() string {
	return fmt.Sprintf("%s performed %s on variable %s in space %s", e.Actor, e.Action, e.Key, e.Space)
}

func (e EnvEvent) Severity() Severity {
	return SeverityNotice
}

func (e EnvEvent) Facility() int {
	return FacilityAuth
}

func (e EnvEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"space": e.Space,
			"key":   e.Key,
		},
		SDIDAction: {
			"operation": e.Action,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}

// GrantEvent records granting or revoking a role's access to a space
type GrantEvent struct {
	Actor    string
	ClientIP string
	Space    string
	Role     string
	Write    bool
	Revoked  bool
}

func (e GrantEvent) MessageID() string {
	return "grant"
}

func (e GrantEvent) Message() string {
	if e.Revoked {
		return fmt.Sprintf("%s revoked access of role %s to space %s", e.Actor, e.Role, e.Space)
	}
	level := "read"
	if e.Write {
		level = "read-write"
	}
	return fmt.Sprintf("%s granted %s access on space %s to role %s", e.Actor, level, e.Space, e.Role)
}

func (e GrantEvent) Severity() Severity {
	return SeverityNotice
}

func (e GrantEvent) Facility() int {
	return FacilityAuth
}

func (e GrantEvent) StructuredData() map[string]map[string]string {
	operation := "grant"
	if e.Revoked {
		operation = "revoke"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"space": e.Space,
			"role":  e.Role,
		},
		SDIDAction: {
			"operation": operation,
			"write":     fmt.Sprintf("%t", e.Write && !e.Revoked),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}

// AccountEvent records a mutation of a user account
type AccountEvent struct {
	Actor    string
	ClientIP string
	Email    string
	Action   string // "create", "update" or "delete"
}

func (e AccountEvent) MessageID() string {
	return "account"
}

func (e AccountEvent) Message() string {
	return fmt.Sprintf("%s performed %s on account %s", e.Actor, e.Action, e.Email)
}

func (e AccountEvent) Severity() Severity {
	return SeverityNotice
}

func (e AccountEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AccountEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"account": e.Email,
		},
		SDIDAction: {
			"operation": e.Action,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}

// RoleEvent records a mutation of a role record
type RoleEvent struct {
	Actor    string
	ClientIP string
	Role     string
	Action   string // "create", "update" or "delete"
}

func (e RoleEvent) MessageID() string {
	return "role"
}

func (e RoleEvent) Message() string {
	return fmt.Sprintf("%s performed %s on role %s", e.Actor, e.Action, e.Role)
}

func (e RoleEvent) Severity() Severity {
	return SeverityNotice
}

func (e RoleEvent) Facility() int {
	return FacilityAuth
}

func (e RoleEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"role": e.Role,
		},
		SDIDAction: {
			"operation": e.Action,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}

// MembershipEvent records adding or removing a user from a role
type MembershipEvent struct {
	Actor    string
	ClientIP string
	Role     string
	Email    string
	Added    bool
}

func (e MembershipEvent) MessageID() string {
	return "membership"
}

func (e MembershipEvent) Message() string {
	if e.Added {
		return fmt.Sprintf("%s added %s to role %s", e.Actor, e.Email, e.Role)
	}
	return fmt.Sprintf("%s removed %s from role %s", e.Actor, e.Email, e.Role)
}

func (e MembershipEvent) Severity() Severity {
	return SeverityNotice
}

func (e MembershipEvent) Facility() int {
	return FacilityAuth
}

func (e MembershipEvent) StructuredData() map[string]map[string]string {
	operation := "remove"
	if e.Added {
		operation = "add"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"role":    e.Role,
			"account": e.Email,
		},
		SDIDAction: {
			"operation": operation,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}
