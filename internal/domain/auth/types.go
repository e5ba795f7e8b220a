package auth

// Package auth contains domain-level types for identity and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents an application's authorization role.
// The string form travels in the session token's user_type claim.
type Role string

const (
	RoleStudent Role = "aluno"
	RoleAdvisor Role = "professor"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdvisor, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole accepts the wire form as well as the English aliases used by the CLI.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aluno", "student":
		return RoleStudent, true
	case "professor", "advisor":
		return RoleAdvisor, true
	case "admin":
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Principal is the identity returned by the external provider.
// Adapters map provider-specific profile fields into this shape. Never persisted.
type Principal struct {
	// Subject is the provider's stable object id. It keys the local record
	// when the provider returns no email.
	Subject     string
	Email       string
	DisplayName string
	JobTitle    string
	Department  string
	MobilePhone string
	// AccessToken is the upstream credential; it is forwarded in the session token.
	AccessToken string
	ExpiresAt   time.Time
}

// LocalPart returns the part of the email before '@'.
func (p Principal) LocalPart() string {
	local, _, _ := strings.Cut(p.Email, "@")
	return local
}

// Subject is the caller decoded from a verified session token.
// Exactly one of StudentSubject, AdvisorSubject or AdminSubject.
type Subject interface {
	Role() Role
	Base() SubjectBase
	isSubject()
}

// SubjectBase holds claims common to every role.
type SubjectBase struct {
	UserID         int64
	Email          string
	Name           string
	IsNewUser      bool
	MicrosoftToken string
	ExpiresAt      time.Time
}

// StudentSubject is a caller holding a student token.
type StudentSubject struct {
	SubjectBase
	Matricula string
	Curso     string
	Semestre  int
}

// AdvisorSubject is a caller holding an advisor token.
type AdvisorSubject struct {
	SubjectBase
	Codigo        string
	AreaPesquisa  string
	Titulacao     string
	IsCoordenador bool
}

// AdminSubject is a caller holding an admin token. UserID refers to the
// advisor-shaped record and StudentID to the parallel student record.
type AdminSubject struct {
	AdvisorSubject
	StudentID int64
}

func (StudentSubject) Role() Role { return RoleStudent }
func (AdvisorSubject) Role() Role { return RoleAdvisor }
func (AdminSubject) Role() Role { return RoleAdmin }

func (s StudentSubject) Base() SubjectBase { return s.SubjectBase }
func (s AdvisorSubject) Base() SubjectBase { return s.SubjectBase }
func (s AdminSubject) Base() SubjectBase { return s.SubjectBase }

func (StudentSubject) isSubject() {}
func (AdvisorSubject) isSubject() {}
func (AdminSubject) isSubject() {}

// HasRole reports whether the subject's role is among roles.
func HasRole(s Subject, roles ...Role) bool {
	if s == nil {
		return false
	}
	for _, r := range roles {
		if s.Role() == r {
			return true
		}
	}
	return false
}

// LoginState is the server-side record of an in-flight login, keyed by the
// OAuth state parameter and consumed exactly once by the callback.
type LoginState struct {
	State     string    `json:"state"`
	Nonce     string    `json:"nonce"`
	ExpiresAt time.Time `json:"expires_at"`
}
