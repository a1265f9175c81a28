package core

import (
	"context"
	"fmt"

	"scenecore/pkg/domain"
)

// InvitationShapeRule blocks invitations carrying an unknown status or a
// response timestamp inconsistent with it. RespondedAt must be nil exactly
// while the invitation is pending.
func InvitationShapeRule() Rule {
	return invitationShapeRule{}
}

type invitationShapeRule struct{}

func (invitationShapeRule) Name() string { return "invitation_shape" }

func (invitationShapeRule) Evaluate(_ context.Context, _ RuleView, changes []Change) (Result, error) {
	res := Result{}
	for _, change := range changes {
		if change.Entity != EntityGuildInvitation || change.Action == ActionDelete {
			continue
		}
		inv, ok := decodeChange[GuildInvitation](change.After)
		if !ok {
			continue
		}

		if !inv.Status.Valid() {
			res.Violations = append(res.Violations, Violation{
				Rule:       "invitation_shape",
				Kind:       domain.KindShape,
				Severity:   SeverityBlock,
				Message:    fmt.Sprintf("invitation %s has unknown status %q", inv.ID, inv.Status),
				Entity:     EntityGuildInvitation,
				EntityID:   inv.ID,
				Constraint: "invitation_status_valid",
				Fields:     []string{"status"},
			})
			continue
		}

		pending := inv.Status == domain.InvitationPending
		if pending && inv.RespondedAt != nil {
			res.Violations = append(res.Violations, Violation{
				Rule:       "invitation_shape",
				Kind:       domain.KindShape,
				Severity:   SeverityBlock,
				Message:    fmt.Sprintf("pending invitation %s must not carry a response timestamp", inv.ID),
				Entity:     EntityGuildInvitation,
				EntityID:   inv.ID,
				Constraint: "invitation_responded_at_consistent",
				Fields:     []string{"responded_at"},
			})
		}
		if !pending && inv.RespondedAt == nil {
			res.Violations = append(res.Violations, Violation{
				Rule:       "invitation_shape",
				Kind:       domain.KindShape,
				Severity:   SeverityBlock,
				Message:    fmt.Sprintf("resolved invitation %s must carry a response timestamp", inv.ID),
				Entity:     EntityGuildInvitation,
				EntityID:   inv.ID,
				Constraint: "invitation_responded_at_consistent",
				Fields:     []string{"responded_at"},
			})
		}
	}
	return res, nil
}
