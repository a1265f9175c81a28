package core

import (
	"context"
	"fmt"

	"scenecore/pkg/domain"
)

// ReferentialIntegrityRule blocks writes whose set references point at missing
// records, and deletes that would leave any reference to the removed record
// behind. Cascades and nullifications must land in the same transaction as the
// delete for it to pass.
func ReferentialIntegrityRule() Rule {
	return referentialIntegrityRule{}
}

type referentialIntegrityRule struct{}

func (referentialIntegrityRule) Name() string { return "referential_integrity" }

func (r referentialIntegrityRule) Evaluate(_ context.Context, view RuleView, changes []Change) (Result, error) {
	res := Result{}
	last := lastChangePerRecord(changes)
	for i, change := range changes {
		if change.Action == ActionDelete {
			r.checkDelete(view, change, &res)
			continue
		}
		// A record touched more than once in the same transaction carries a
		// stale After snapshot on all but its final change. Only the final
		// state is what commits, so only that change is checked.
		if id, ok := changeRecordID(change); ok {
			if last[recordRef{change.Entity, id}] != i {
				continue
			}
		}
		r.checkWrite(view, change, &res)
	}
	return res, nil
}

type recordRef struct {
	entity EntityType
	id     string
}

func lastChangePerRecord(changes []Change) map[recordRef]int {
	last := make(map[recordRef]int, len(changes))
	for i, change := range changes {
		if id, ok := changeRecordID(change); ok {
			last[recordRef{change.Entity, id}] = i
		}
	}
	return last
}

// changeRecordID extracts the ID of the record a change targets, from After
// for writes and Before for deletes.
func changeRecordID(change Change) (string, bool) {
	payload := change.After
	if change.Action == ActionDelete {
		payload = change.Before
	}
	switch v := payload.(type) {
	case User:
		return v.ID, true
	case Tag:
		return v.ID, true
	case Guild:
		return v.ID, true
	case Act:
		return v.ID, true
	case Venue:
		return v.ID, true
	case Club:
		return v.ID, true
	case CalendarEvent:
		return v.ID, true
	case Follow:
		return v.ID, true
	case FeedActivity:
		return v.ID, true
	case GuildInvitation:
		return v.ID, true
	}
	return "", false
}

func (referentialIntegrityRule) checkWrite(view RuleView, change Change, res *Result) {
	dangling := func(entity EntityType, id, field, refID string) {
		res.Violations = append(res.Violations, Violation{
			Rule:       "referential_integrity",
			Kind:       domain.KindReferential,
			Severity:   SeverityBlock,
			Message:    fmt.Sprintf("%s %s references missing record %s via %s", entity, id, refID, field),
			Entity:     entity,
			EntityID:   id,
			Constraint: "reference_exists",
			Fields:     []string{field},
		})
	}

	switch change.Entity {
	case EntityGuild:
		guild, ok := decodeChange[Guild](change.After)
		if !ok {
			return
		}
		if guild.CreatedByID != nil {
			if _, ok := view.FindUser(*guild.CreatedByID); !ok {
				dangling(EntityGuild, guild.ID, "created_by_id", *guild.CreatedByID)
			}
		}
		if _, ok := view.FindUser(guild.CurrentOwnerID); !ok {
			dangling(EntityGuild, guild.ID, "current_owner_id", guild.CurrentOwnerID)
		}
		for _, memberID := range guild.MemberIDs {
			if _, ok := view.FindUser(memberID); !ok {
				dangling(EntityGuild, guild.ID, "member_ids", memberID)
			}
		}
		if guild.ActID != nil {
			if _, ok := view.FindAct(*guild.ActID); !ok {
				dangling(EntityGuild, guild.ID, "act_id", *guild.ActID)
			}
		}
		if guild.VenueID != nil {
			if _, ok := view.FindVenue(*guild.VenueID); !ok {
				dangling(EntityGuild, guild.ID, "venue_id", *guild.VenueID)
			}
		}
		if guild.ClubID != nil {
			if _, ok := view.FindClub(*guild.ClubID); !ok {
				dangling(EntityGuild, guild.ID, "club_id", *guild.ClubID)
			}
		}
	case EntityCalendarEvent:
		event, ok := decodeChange[CalendarEvent](change.After)
		if !ok {
			return
		}
		if _, ok := view.FindVenue(event.VenueID); !ok {
			dangling(EntityCalendarEvent, event.ID, "venue_id", event.VenueID)
		}
		for _, actID := range event.ActIDs {
			if _, ok := view.FindAct(actID); !ok {
				dangling(EntityCalendarEvent, event.ID, "act_ids", actID)
			}
		}
	case EntityFollow:
		follow, ok := decodeChange[Follow](change.After)
		if !ok {
			return
		}
		if _, ok := view.FindUser(follow.UserID); !ok {
			dangling(EntityFollow, follow.ID, "user_id", follow.UserID)
		}
		if follow.FollowedUserID != nil {
			if _, ok := view.FindUser(*follow.FollowedUserID); !ok {
				dangling(EntityFollow, follow.ID, "followed_user_id", *follow.FollowedUserID)
			}
		}
		if follow.TagID != nil {
			if _, ok := view.FindTag(*follow.TagID); !ok {
				dangling(EntityFollow, follow.ID, "tag_id", *follow.TagID)
			}
		}
		if follow.GuildID != nil {
			if _, ok := view.FindGuild(*follow.GuildID); !ok {
				dangling(EntityFollow, follow.ID, "guild_id", *follow.GuildID)
			}
		}
	case EntityFeedActivity:
		activity, ok := decodeChange[FeedActivity](change.After)
		if !ok {
			return
		}
		if activity.CalendarEventID != nil {
			if _, ok := view.FindCalendarEvent(*activity.CalendarEventID); !ok {
				dangling(EntityFeedActivity, activity.ID, "calendar_event_id", *activity.CalendarEventID)
			}
		}
		if activity.UserID != nil {
			if _, ok := view.FindUser(*activity.UserID); !ok {
				dangling(EntityFeedActivity, activity.ID, "user_id", *activity.UserID)
			}
		}
	case EntityGuildInvitation:
		inv, ok := decodeChange[GuildInvitation](change.After)
		if !ok {
			return
		}
		if _, ok := view.FindGuild(inv.GuildID); !ok {
			dangling(EntityGuildInvitation, inv.ID, "guild_id", inv.GuildID)
		}
		if _, ok := view.FindUser(inv.InvitedUserID); !ok {
			dangling(EntityGuildInvitation, inv.ID, "invited_user_id", inv.InvitedUserID)
		}
		if inv.InvitedByID != nil {
			if _, ok := view.FindUser(*inv.InvitedByID); !ok {
				dangling(EntityGuildInvitation, inv.ID, "invited_by_id", *inv.InvitedByID)
			}
		}
	}
}

func (referentialIntegrityRule) checkDelete(view RuleView, change Change, res *Result) {
	blocked := func(entity EntityType, id string, remaining []string, what string) {
		if len(remaining) == 0 {
			return
		}
		res.Violations = append(res.Violations, Violation{
			Rule:       "referential_integrity",
			Kind:       domain.KindReferential,
			Severity:   SeverityBlock,
			Message:    fmt.Sprintf("cannot delete %s %s: still referenced by %d %s", entity, id, len(remaining), what),
			Entity:     entity,
			EntityID:   id,
			Constraint: "no_remaining_references",
		})
	}

	switch change.Entity {
	case EntityUser:
		user, ok := decodeChange[User](change.Before)
		if !ok {
			return
		}
		blocked(EntityUser, user.ID, view.GuildsOwnedBy(user.ID), "owned guilds")
		blocked(EntityUser, user.ID, view.GuildsCreatedBy(user.ID), "created guilds")
		blocked(EntityUser, user.ID, view.GuildsWithMember(user.ID), "guild memberships")
		blocked(EntityUser, user.ID, view.FollowsBy(user.ID), "outgoing follows")
		blocked(EntityUser, user.ID, view.FollowsTargeting(domain.FollowUser, user.ID), "incoming follows")
		blocked(EntityUser, user.ID, view.InvitationsForUser(user.ID), "invitations")
		blocked(EntityUser, user.ID, view.InvitationsSentBy(user.ID), "sent invitations")
		blocked(EntityUser, user.ID, view.ActivitiesByUser(user.ID), "feed activities")
	case EntityTag:
		tag, ok := decodeChange[Tag](change.Before)
		if !ok {
			return
		}
		blocked(EntityTag, tag.ID, view.FollowsTargeting(domain.FollowTag, tag.ID), "follows")
	case EntityGuild:
		guild, ok := decodeChange[Guild](change.Before)
		if !ok {
			return
		}
		blocked(EntityGuild, guild.ID, view.FollowsTargeting(domain.FollowGuild, guild.ID), "follows")
		blocked(EntityGuild, guild.ID, view.InvitationsForGuild(guild.ID), "invitations")
	case EntityAct:
		act, ok := decodeChange[Act](change.Before)
		if !ok {
			return
		}
		blocked(EntityAct, act.ID, view.GuildsByAct(act.ID), "guilds")
		blocked(EntityAct, act.ID, view.EventsFeaturingAct(act.ID), "calendar events")
	case EntityVenue:
		venue, ok := decodeChange[Venue](change.Before)
		if !ok {
			return
		}
		blocked(EntityVenue, venue.ID, view.GuildsByVenue(venue.ID), "guilds")
		blocked(EntityVenue, venue.ID, view.EventsAtVenue(venue.ID), "calendar events")
	case EntityClub:
		club, ok := decodeChange[Club](change.Before)
		if !ok {
			return
		}
		blocked(EntityClub, club.ID, view.GuildsByClub(club.ID), "guilds")
	case EntityCalendarEvent:
		event, ok := decodeChange[CalendarEvent](change.Before)
		if !ok {
			return
		}
		blocked(EntityCalendarEvent, event.ID, view.ActivitiesForEvent(event.ID), "feed activities")
	}
}
