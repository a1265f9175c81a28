package core

import (
	"context"
	"fmt"

	"scenecore/pkg/domain"
)

// InvitationTransitionRule blocks illegal invitation lifecycle moves. Pending
// is the only legal initial status, and the three resolved statuses are
// absorbing.
func InvitationTransitionRule() Rule {
	return invitationTransitionRule{}
}

type invitationTransitionRule struct{}

func (invitationTransitionRule) Name() string { return "invitation_transition" }

func (invitationTransitionRule) Evaluate(_ context.Context, _ RuleView, changes []Change) (Result, error) {
	res := Result{}
	for _, change := range changes {
		if change.Entity != EntityGuildInvitation {
			continue
		}

		switch change.Action {
		case ActionCreate:
			inv, ok := decodeChange[GuildInvitation](change.After)
			if !ok {
				continue
			}
			if inv.Status != domain.InvitationPending {
				res.Violations = append(res.Violations, Violation{
					Rule:       "invitation_transition",
					Kind:       domain.KindTransition,
					Severity:   SeverityBlock,
					Message:    fmt.Sprintf("invitation %s must start pending, got %s", inv.ID, inv.Status),
					Entity:     EntityGuildInvitation,
					EntityID:   inv.ID,
					Constraint: "invitation_initial_pending",
					Fields:     []string{"status"},
				})
			}
		case ActionUpdate:
			before, ok := decodeChange[GuildInvitation](change.Before)
			if !ok {
				continue
			}
			after, ok := decodeChange[GuildInvitation](change.After)
			if !ok {
				continue
			}
			if before.Status.Terminal() && after.Status != before.Status {
				res.Violations = append(res.Violations, Violation{
					Rule:       "invitation_transition",
					Kind:       domain.KindTransition,
					Severity:   SeverityBlock,
					Message:    fmt.Sprintf("cannot move invitation %s from terminal status %s to %s", before.ID, before.Status, after.Status),
					Entity:     EntityGuildInvitation,
					EntityID:   before.ID,
					Constraint: "invitation_terminal_absorbing",
					Fields:     []string{"status"},
				})
			}
		}
	}
	return res, nil
}
