package auth

import "github.com/99minutos/user-service/internal/core/domain"

// AccessPolicy is attached to a protected operation when it is registered.
type AccessPolicy struct {
	// RequiredRole is the minimum role; the zero Role means no requirement.
	RequiredRole domain.Role
	// OwnershipRequired limits non-admins to targets they own.
	OwnershipRequired bool
	// ForbidSelfTarget denies any principal acting on its own account.
	ForbidSelfTarget bool
}

// Target is the user resource an operation addresses.
type Target struct {
	ID      int64
	OwnerID int64
}

// UserTarget describes a user record, which is owned by itself.
func UserTarget(id int64) Target {
	return Target{ID: id, OwnerID: id}
}

type Effect int

const (
	Deny Effect = iota
	Allow
)

func (e Effect) String() string {
	if e == Allow {
		return "allow"
	}
	return "deny"
}

// Rule names which check produced a decision.
type Rule string

const (
	RuleRequiredRole Rule = "required_role"
	RuleSelfTarget   Rule = "self_target"
	RuleOwnership    Rule = "ownership"
	RuleDefault      Rule = "default"
)

type Decision struct {
	Effect Effect
	Rule   Rule
}

func (d Decision) Allowed() bool { return d.Effect == Allow }

// Decide evaluates policy for p against target. The first matching rule wins.
// It reads nothing beyond its arguments.
func Decide(p Principal, policy AccessPolicy, target Target) Decision {
	if policy.RequiredRole != "" && !p.role.AtLeast(policy.RequiredRole) {
		return Decision{Effect: Deny, Rule: RuleRequiredRole}
	}
	if policy.ForbidSelfTarget && p.subjectID == target.ID {
		return Decision{Effect: Deny, Rule: RuleSelfTarget}
	}
	if policy.OwnershipRequired && p.subjectID != target.OwnerID && p.role != domain.RoleAdmin {
		return Decision{Effect: Deny, Rule: RuleOwnership}
	}
	return Decision{Effect: Allow, Rule: RuleDefault}
}
