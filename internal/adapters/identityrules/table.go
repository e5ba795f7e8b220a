// Package identityrules holds the ordered decision table that maps an
// email address to an application role, and the helpers that derive
// local record attributes from the same address.
package identityrules

import (
	"strings"

	"github.com/ibmec/pict-api/config"
	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
)

// Rule names returned by Evaluate.
const (
	RulePrivileged   = "privileged-identifier"
	RuleAdvisorEmail = "advisor-domain"
	RuleKeywordAdmin = "admin-keyword"
	RuleDefault      = "default"
)

// Table is the ordered role decision table. The first matching rule wins.
type Table struct {
	AdminIdentifier string
	AdminDomain     string
	AdvisorDomain   string
	KeywordAdmin    bool
	AdminKeywords   []string
}

// New builds a Table from sanitized configuration.
func New(cfg config.IdentityRulesConfig) Table {
	return Table{
		AdminIdentifier: cfg.AdminIdentifier,
		AdminDomain:     cfg.AdminDomain,
		AdvisorDomain:   cfg.AdvisorDomain,
		KeywordAdmin:    cfg.KeywordAdmin,
		AdminKeywords:   cfg.AdminKeywords,
	}
}

// Classify implements ports.RoleClassifier.
func (t Table) Classify(email string) domainauth.Role {
	role, _ := t.Evaluate(email)
	return role
}

// Evaluate returns the role for email and the name of the rule that decided it.
// An empty email falls through to the default rule.
func (t Table) Evaluate(email string) (domainauth.Role, string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domainauth.RoleStudent, RuleDefault
	}
	lower := strings.ToLower(email)

	if t.isPrivileged(email) {
		return domainauth.RoleAdmin, RulePrivileged
	}
	if t.isAdvisor(lower) {
		return domainauth.RoleAdvisor, RuleAdvisorEmail
	}
	if t.KeywordAdmin {
		for _, kw := range t.AdminKeywords {
			if kw != "" && strings.Contains(lower, kw) {
				return domainauth.RoleAdmin, RuleKeywordAdmin
			}
		}
	}
	return domainauth.RoleStudent, RuleDefault
}

func (t Table) isPrivileged(email string) bool {
	if t.AdminIdentifier == "" {
		return false
	}
	if t.AdminDomain != "" && email == t.AdminIdentifier+"@"+t.AdminDomain {
		return true
	}
	return strings.HasPrefix(email, t.AdminIdentifier)
}

func (t Table) isAdvisor(lower string) bool {
	if t.AdvisorDomain == "" || !strings.HasSuffix(lower, "@"+t.AdvisorDomain) {
		return false
	}
	local, _, _ := strings.Cut(lower, "@")
	return local != "" && !isDigit(local[0])
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
