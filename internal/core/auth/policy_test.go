package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/99minutos/user-service/internal/core/domain"
)

func principal(id int64, role domain.Role) Principal {
	return Principal{subjectID: id, role: role}
}

func TestDecide_Ownership(t *testing.T) {
	owned := AccessPolicy{OwnershipRequired: true}

	cases := []struct {
		name   string
		p      Principal
		target Target
		want   Effect
	}{
		{"user on self", principal(1, domain.RoleUser), UserTarget(1), Allow},
		{"user on other", principal(1, domain.RoleUser), UserTarget(2), Deny},
		{"admin on self", principal(1, domain.RoleAdmin), UserTarget(1), Allow},
		{"admin on other", principal(1, domain.RoleAdmin), UserTarget(2), Allow},
		{"admin on foreign owner", principal(1, domain.RoleAdmin), Target{ID: 5, OwnerID: 9}, Allow},
		{"user on owned child", principal(9, domain.RoleUser), Target{ID: 5, OwnerID: 9}, Allow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Decide(tc.p, owned, tc.target)
			require.Equal(t, tc.want, d.Effect)
			if tc.want == Deny {
				require.Equal(t, RuleOwnership, d.Rule)
			}
		})
	}
}

func TestDecide_SelfProtection(t *testing.T) {
	deletion := AccessPolicy{RequiredRole: domain.RoleAdmin, ForbidSelfTarget: true}

	require.Equal(t, Allow, Decide(principal(2, domain.RoleAdmin), deletion, UserTarget(1)).Effect)

	d := Decide(principal(1, domain.RoleAdmin), deletion, UserTarget(1))
	require.Equal(t, Deny, d.Effect)
	require.Equal(t, RuleSelfTarget, d.Rule)

	selfOnly := AccessPolicy{ForbidSelfTarget: true}
	require.Equal(t, Allow, Decide(principal(2, domain.RoleUser), selfOnly, UserTarget(1)).Effect)
	require.Equal(t, Deny, Decide(principal(1, domain.RoleUser), selfOnly, UserTarget(1)).Effect)
}

func TestDecide_RequiredRole(t *testing.T) {
	listAll := AccessPolicy{RequiredRole: domain.RoleAdmin}

	d := Decide(principal(1, domain.RoleUser), listAll, Target{})
	require.Equal(t, Deny, d.Effect)
	require.Equal(t, RuleRequiredRole, d.Rule)

	require.True(t, Decide(principal(1, domain.RoleAdmin), listAll, Target{}).Allowed())

	userLevel := AccessPolicy{RequiredRole: domain.RoleUser}
	require.True(t, Decide(principal(1, domain.RoleUser), userLevel, Target{}).Allowed())
	require.True(t, Decide(principal(1, domain.RoleAdmin), userLevel, Target{}).Allowed())
	require.False(t, Decide(principal(1, domain.Role("GUEST")), userLevel, Target{}).Allowed())
}

func TestDecide_RoleCheckedBeforeSelfTarget(t *testing.T) {
	deletion := AccessPolicy{RequiredRole: domain.RoleAdmin, ForbidSelfTarget: true}

	d := Decide(principal(1, domain.RoleUser), deletion, UserTarget(1))
	require.Equal(t, RuleRequiredRole, d.Rule)
}

func TestDecide_NoPolicyAllows(t *testing.T) {
	d := Decide(principal(3, domain.RoleUser), AccessPolicy{}, UserTarget(4))
	require.Equal(t, Decision{Effect: Allow, Rule: RuleDefault}, d)
}

func TestDecide_ZeroPrincipalNeverPassesRoleCheck(t *testing.T) {
	require.False(t, Decide(Principal{}, AccessPolicy{RequiredRole: domain.RoleUser}, Target{}).Allowed())
	require.False(t, Decide(Principal{}, AccessPolicy{OwnershipRequired: true}, UserTarget(1)).Allowed())
}

func TestDecide_IsPure(t *testing.T) {
	policies := []AccessPolicy{
		{},
		{RequiredRole: domain.RoleAdmin},
		{OwnershipRequired: true},
		{RequiredRole: domain.RoleAdmin, ForbidSelfTarget: true},
		{RequiredRole: domain.RoleUser, OwnershipRequired: true, ForbidSelfTarget: true},
	}
	principals := []Principal{
		principal(1, domain.RoleUser),
		principal(1, domain.RoleAdmin),
		principal(2, domain.RoleUser),
	}
	targets := []Target{UserTarget(1), UserTarget(2), {}}

	for _, pol := range policies {
		for _, p := range principals {
			for _, tg := range targets {
				first := Decide(p, pol, tg)
				for i := 0; i < 3; i++ {
					require.Equal(t, first, Decide(p, pol, tg))
				}
			}
		}
	}
}

func TestEffectString(t *testing.T) {
	require.Equal(t, "allow", Allow.String())
	require.Equal(t, "deny", Deny.String())
}
