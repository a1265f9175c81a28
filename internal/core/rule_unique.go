package core

import (
	"context"
	"fmt"

	"scenecore/pkg/domain"
)

// UniqueConstraintsRule blocks writes that land two live records on the same
// unique key. Keys are read back from the snapshot's unique indexes, so a
// constraint trips when the index bucket for the written record holds more
// than one id. Compound keys treat null columns as equal to null columns.
func UniqueConstraintsRule() Rule {
	return uniqueConstraintsRule{}
}

type uniqueConstraintsRule struct{}

func (uniqueConstraintsRule) Name() string { return "unique_constraints" }

func (uniqueConstraintsRule) Evaluate(_ context.Context, view RuleView, changes []Change) (Result, error) {
	res := Result{}
	duplicate := func(entity EntityType, id, constraint, detail string, fields ...string) {
		res.Violations = append(res.Violations, Violation{
			Rule:       "unique_constraints",
			Kind:       domain.KindDuplicateKey,
			Severity:   SeverityBlock,
			Message:    fmt.Sprintf("%s %s violates %s: %s", entity, id, constraint, detail),
			Entity:     entity,
			EntityID:   id,
			Constraint: constraint,
			Fields:     fields,
		})
	}

	for _, change := range changes {
		if change.Action == ActionDelete {
			continue
		}
		switch change.Entity {
		case EntityUser:
			user, ok := decodeChange[User](change.After)
			if !ok {
				continue
			}
			if ids := view.UsersByEmail(user.Email); len(ids) > 1 {
				duplicate(EntityUser, user.ID, "users_email_unique", fmt.Sprintf("email %q already in use", user.Email), "email")
			}
			if user.ExternalAuthID != nil {
				if ids := view.UsersByExternalAuthID(*user.ExternalAuthID); len(ids) > 1 {
					duplicate(EntityUser, user.ID, "users_external_auth_id_unique", fmt.Sprintf("external auth id %q already in use", *user.ExternalAuthID), "external_auth_id")
				}
			}
		case EntityTag:
			tag, ok := decodeChange[Tag](change.After)
			if !ok {
				continue
			}
			if ids := view.TagsByKey(tag.Category, tag.Value); len(ids) > 1 {
				duplicate(EntityTag, tag.ID, "tags_category_value_unique", fmt.Sprintf("tag (%s, %s) already exists", tag.Category, tag.Value), "category", "value")
			}
		case EntityGuild:
			guild, ok := decodeChange[Guild](change.After)
			if !ok {
				continue
			}
			if guild.ActID != nil {
				if ids := view.GuildsByAct(*guild.ActID); len(ids) > 1 {
					duplicate(EntityGuild, guild.ID, "guilds_act_id_unique", fmt.Sprintf("act %s already backs another guild", *guild.ActID), "act_id")
				}
			}
			if guild.VenueID != nil {
				if ids := view.GuildsByVenue(*guild.VenueID); len(ids) > 1 {
					duplicate(EntityGuild, guild.ID, "guilds_venue_id_unique", fmt.Sprintf("venue %s already backs another guild", *guild.VenueID), "venue_id")
				}
			}
			if guild.ClubID != nil {
				if ids := view.GuildsByClub(*guild.ClubID); len(ids) > 1 {
					duplicate(EntityGuild, guild.ID, "guilds_club_id_unique", fmt.Sprintf("club %s already backs another guild", *guild.ClubID), "club_id")
				}
			}
		case EntityFollow:
			follow, ok := decodeChange[Follow](change.After)
			if !ok {
				continue
			}
			if ids := view.FollowsByUniqueKey(domain.FollowUniqueKey(follow)); len(ids) > 1 {
				duplicate(EntityFollow, follow.ID, "follows_tuple_unique", fmt.Sprintf("user %s already follows this target", follow.UserID), "user_id", "kind", "followed_user_id", "tag_id", "guild_id")
			}
		case EntityGuildInvitation:
			inv, ok := decodeChange[GuildInvitation](change.After)
			if !ok {
				continue
			}
			if ids := view.InvitationsByPair(inv.GuildID, inv.InvitedUserID); len(ids) > 1 {
				duplicate(EntityGuildInvitation, inv.ID, "invitations_guild_user_unique", fmt.Sprintf("user %s already invited to guild %s", inv.InvitedUserID, inv.GuildID), "guild_id", "invited_user_id")
			}
		}
	}
	return res, nil
}
