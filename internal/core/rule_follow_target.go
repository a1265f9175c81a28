package core

import (
	"context"
	"fmt"

	"scenecore/pkg/domain"
)

// FollowTargetRule blocks follow edges whose target references do not match
// their declared kind, and follows from a user to themselves.
func FollowTargetRule() Rule {
	return followTargetRule{}
}

type followTargetRule struct{}

func (followTargetRule) Name() string { return "follow_target" }

func (followTargetRule) Evaluate(_ context.Context, _ RuleView, changes []Change) (Result, error) {
	res := Result{}
	for _, change := range changes {
		if change.Entity != EntityFollow || change.Action == ActionDelete {
			continue
		}
		follow, ok := decodeChange[Follow](change.After)
		if !ok {
			continue
		}

		if !follow.Kind.Valid() {
			res.Violations = append(res.Violations, Violation{
				Rule:       "follow_target",
				Kind:       domain.KindShape,
				Severity:   SeverityBlock,
				Message:    fmt.Sprintf("follow %s has unknown kind %q", follow.ID, follow.Kind),
				Entity:     EntityFollow,
				EntityID:   follow.ID,
				Constraint: "follow_kind_valid",
				Fields:     []string{"kind"},
			})
			continue
		}

		set := make([]string, 0, 3)
		if follow.FollowedUserID != nil {
			set = append(set, "followed_user_id")
		}
		if follow.TagID != nil {
			set = append(set, "tag_id")
		}
		if follow.GuildID != nil {
			set = append(set, "guild_id")
		}
		if len(set) != 1 {
			res.Violations = append(res.Violations, Violation{
				Rule:       "follow_target",
				Kind:       domain.KindShape,
				Severity:   SeverityBlock,
				Message:    fmt.Sprintf("follow %s must reference exactly one target, got %d", follow.ID, len(set)),
				Entity:     EntityFollow,
				EntityID:   follow.ID,
				Constraint: "follow_target_exactly_one",
				Fields:     []string{"followed_user_id", "tag_id", "guild_id"},
			})
			continue
		}

		want := map[FollowKind]string{
			domain.FollowUser:  "followed_user_id",
			domain.FollowTag:   "tag_id",
			domain.FollowGuild: "guild_id",
		}[follow.Kind]
		if set[0] != want {
			res.Violations = append(res.Violations, Violation{
				Rule:       "follow_target",
				Kind:       domain.KindShape,
				Severity:   SeverityBlock,
				Message:    fmt.Sprintf("follow %s of kind %s must set %s, got %s", follow.ID, follow.Kind, want, set[0]),
				Entity:     EntityFollow,
				EntityID:   follow.ID,
				Constraint: "follow_target_matches_kind",
				Fields:     []string{want, set[0]},
			})
			continue
		}

		if follow.Kind == domain.FollowUser && follow.FollowedUserID != nil && *follow.FollowedUserID == follow.UserID {
			res.Violations = append(res.Violations, Violation{
				Rule:       "follow_target",
				Kind:       domain.KindShape,
				Severity:   SeverityBlock,
				Message:    fmt.Sprintf("user %s cannot follow themselves", follow.UserID),
				Entity:     EntityFollow,
				EntityID:   follow.ID,
				Constraint: "follow_not_self",
				Fields:     []string{"followed_user_id"},
			})
		}
	}
	return res, nil
}
