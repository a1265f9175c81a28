package core

import (
	"context"
	"fmt"

	"scenecore/pkg/domain"
)

// GuildVariantRule blocks guilds whose payload references do not match their
// declared type: exactly one of the act, venue, or club references must be set,
// and it must be the one the type selects.
func GuildVariantRule() Rule {
	return guildVariantRule{}
}

type guildVariantRule struct{}

func (guildVariantRule) Name() string { return "guild_variant" }

func (guildVariantRule) Evaluate(_ context.Context, _ RuleView, changes []Change) (Result, error) {
	res := Result{}
	for _, change := range changes {
		if change.Entity != EntityGuild || change.Action == ActionDelete {
			continue
		}
		guild, ok := decodeChange[Guild](change.After)
		if !ok {
			continue
		}

		if !guild.Type.Valid() {
			res.Violations = append(res.Violations, Violation{
				Rule:       "guild_variant",
				Kind:       domain.KindShape,
				Severity:   SeverityBlock,
				Message:    fmt.Sprintf("guild %s has unknown type %q", guild.ID, guild.Type),
				Entity:     EntityGuild,
				EntityID:   guild.ID,
				Constraint: "guild_type_valid",
				Fields:     []string{"type"},
			})
			continue
		}

		set := make([]string, 0, 3)
		if guild.ActID != nil {
			set = append(set, "act_id")
		}
		if guild.VenueID != nil {
			set = append(set, "venue_id")
		}
		if guild.ClubID != nil {
			set = append(set, "club_id")
		}
		if len(set) != 1 {
			res.Violations = append(res.Violations, Violation{
				Rule:       "guild_variant",
				Kind:       domain.KindShape,
				Severity:   SeverityBlock,
				Message:    fmt.Sprintf("guild %s must reference exactly one payload entity, got %d", guild.ID, len(set)),
				Entity:     EntityGuild,
				EntityID:   guild.ID,
				Constraint: "guild_payload_exactly_one",
				Fields:     []string{"act_id", "venue_id", "club_id"},
			})
			continue
		}

		want := map[GuildType]string{
			domain.GuildTypeAct:   "act_id",
			domain.GuildTypeVenue: "venue_id",
			domain.GuildTypeClub:  "club_id",
		}[guild.Type]
		if set[0] != want {
			res.Violations = append(res.Violations, Violation{
				Rule:       "guild_variant",
				Kind:       domain.KindShape,
				Severity:   SeverityBlock,
				Message:    fmt.Sprintf("guild %s of type %s must set %s, got %s", guild.ID, guild.Type, want, set[0]),
				Entity:     EntityGuild,
				EntityID:   guild.ID,
				Constraint: "guild_payload_matches_type",
				Fields:     []string{want, set[0]},
			})
		}
	}
	return res, nil
}
