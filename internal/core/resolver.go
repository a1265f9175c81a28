package core

import (
	"context"

	"scenecore/pkg/domain"
)

// Resolver materializes relationships into full records. Every call reads one
// consistent snapshot and walks the store's secondary indexes rather than
// scanning, so results come back in stable id order.
type Resolver struct {
	store domain.PersistentStore
}

// NewResolver constructs a resolver over the given store.
func NewResolver(store domain.PersistentStore) *Resolver {
	return &Resolver{store: store}
}

// Resolver returns a resolver bound to the service's store.
func (s *Service) Resolver() *Resolver {
	return NewResolver(s.store)
}

// UserGuilds captures a user's guild relationships.
type UserGuilds struct {
	Owned   []Guild
	Created []Guild
	Member  []Guild
}

// FollowEdge pairs a follow with its resolved target. Exactly one target field
// is non-nil for a well-formed edge.
type FollowEdge struct {
	Follow Follow
	User   *User
	Tag    *Tag
	Guild  *Guild
}

// GuildDetail aggregates a guild with its payload entity, resolved member
// records, and open relationship edges.
type GuildDetail struct {
	Guild       Guild
	Act         *Act
	Venue       *Venue
	Club        *Club
	Owner       User
	Members     []User
	Invitations []GuildInvitation
	Followers   []Follow
}

// EventDetail aggregates a calendar event with its venue, billed acts, and
// feed activities.
type EventDetail struct {
	Event      CalendarEvent
	Venue      Venue
	Acts       []Act
	Activities []FeedActivity
}

func guildsByIDs(view RuleView, ids []string) []Guild {
	out := make([]Guild, 0, len(ids))
	for _, id := range ids {
		if guild, ok := view.FindGuild(id); ok {
			out = append(out, guild)
		}
	}
	return out
}

// GuildsForUser resolves the guilds a user owns, created, and belongs to.
func (r *Resolver) GuildsForUser(ctx context.Context, userID string) (UserGuilds, error) {
	var out UserGuilds
	err := r.store.View(ctx, func(view RuleView) error {
		if _, ok := view.FindUser(userID); !ok {
			return domain.NotFoundError{Entity: EntityUser, ID: userID}
		}
		out.Owned = guildsByIDs(view, view.GuildsOwnedBy(userID))
		out.Created = guildsByIDs(view, view.GuildsCreatedBy(userID))
		out.Member = guildsByIDs(view, view.GuildsWithMember(userID))
		return nil
	})
	return out, err
}

// FollowsForUser resolves a user's outgoing follow edges with their targets.
func (r *Resolver) FollowsForUser(ctx context.Context, userID string) ([]FollowEdge, error) {
	var out []FollowEdge
	err := r.store.View(ctx, func(view RuleView) error {
		if _, ok := view.FindUser(userID); !ok {
			return domain.NotFoundError{Entity: EntityUser, ID: userID}
		}
		for _, followID := range view.FollowsBy(userID) {
			follow, ok := view.FindFollow(followID)
			if !ok {
				continue
			}
			edge := FollowEdge{Follow: follow}
			switch {
			case follow.FollowedUserID != nil:
				if user, ok := view.FindUser(*follow.FollowedUserID); ok {
					edge.User = &user
				}
			case follow.TagID != nil:
				if tag, ok := view.FindTag(*follow.TagID); ok {
					edge.Tag = &tag
				}
			case follow.GuildID != nil:
				if guild, ok := view.FindGuild(*follow.GuildID); ok {
					edge.Guild = &guild
				}
			}
			out = append(out, edge)
		}
		return nil
	})
	return out, err
}

// Followers resolves the follow edges pointing at a target of the given kind.
func (r *Resolver) Followers(ctx context.Context, kind FollowKind, targetID string) ([]Follow, error) {
	var out []Follow
	err := r.store.View(ctx, func(view RuleView) error {
		for _, followID := range view.FollowsTargeting(kind, targetID) {
			if follow, ok := view.FindFollow(followID); ok {
				out = append(out, follow)
			}
		}
		return nil
	})
	return out, err
}

// GuildDetail resolves a guild with its payload, members, invitations, and
// followers.
func (r *Resolver) GuildDetail(ctx context.Context, guildID string) (GuildDetail, error) {
	var out GuildDetail
	err := r.store.View(ctx, func(view RuleView) error {
		guild, ok := view.FindGuild(guildID)
		if !ok {
			return domain.NotFoundError{Entity: EntityGuild, ID: guildID}
		}
		out.Guild = guild
		if guild.ActID != nil {
			if act, ok := view.FindAct(*guild.ActID); ok {
				out.Act = &act
			}
		}
		if guild.VenueID != nil {
			if venue, ok := view.FindVenue(*guild.VenueID); ok {
				out.Venue = &venue
			}
		}
		if guild.ClubID != nil {
			if club, ok := view.FindClub(*guild.ClubID); ok {
				out.Club = &club
			}
		}
		if owner, ok := view.FindUser(guild.CurrentOwnerID); ok {
			out.Owner = owner
		}
		out.Members = make([]User, 0, len(guild.MemberIDs))
		for _, memberID := range guild.MemberIDs {
			if member, ok := view.FindUser(memberID); ok {
				out.Members = append(out.Members, member)
			}
		}
		for _, invID := range view.InvitationsForGuild(guildID) {
			if inv, ok := view.FindGuildInvitation(invID); ok {
				out.Invitations = append(out.Invitations, inv)
			}
		}
		for _, followID := range view.FollowsTargeting(domain.FollowGuild, guildID) {
			if follow, ok := view.FindFollow(followID); ok {
				out.Followers = append(out.Followers, follow)
			}
		}
		return nil
	})
	return out, err
}

// EventDetail resolves a calendar event with its venue, acts, and activities.
func (r *Resolver) EventDetail(ctx context.Context, eventID string) (EventDetail, error) {
	var out EventDetail
	err := r.store.View(ctx, func(view RuleView) error {
		event, ok := view.FindCalendarEvent(eventID)
		if !ok {
			return domain.NotFoundError{Entity: EntityCalendarEvent, ID: eventID}
		}
		out.Event = event
		if venue, ok := view.FindVenue(event.VenueID); ok {
			out.Venue = venue
		}
		out.Acts = make([]Act, 0, len(event.ActIDs))
		for _, actID := range event.ActIDs {
			if act, ok := view.FindAct(actID); ok {
				out.Acts = append(out.Acts, act)
			}
		}
		for _, activityID := range view.ActivitiesForEvent(eventID) {
			if activity, ok := view.FindFeedActivity(activityID); ok {
				out.Activities = append(out.Activities, activity)
			}
		}
		return nil
	})
	return out, err
}

// EventsAtVenue resolves the calendar events hosted by a venue.
func (r *Resolver) EventsAtVenue(ctx context.Context, venueID string) ([]CalendarEvent, error) {
	var out []CalendarEvent
	err := r.store.View(ctx, func(view RuleView) error {
		if _, ok := view.FindVenue(venueID); !ok {
			return domain.NotFoundError{Entity: EntityVenue, ID: venueID}
		}
		for _, eventID := range view.EventsAtVenue(venueID) {
			if event, ok := view.FindCalendarEvent(eventID); ok {
				out = append(out, event)
			}
		}
		return nil
	})
	return out, err
}

// EventsFeaturingAct resolves the calendar events an act is billed on.
func (r *Resolver) EventsFeaturingAct(ctx context.Context, actID string) ([]CalendarEvent, error) {
	var out []CalendarEvent
	err := r.store.View(ctx, func(view RuleView) error {
		if _, ok := view.FindAct(actID); !ok {
			return domain.NotFoundError{Entity: EntityAct, ID: actID}
		}
		for _, eventID := range view.EventsFeaturingAct(actID) {
			if event, ok := view.FindCalendarEvent(eventID); ok {
				out = append(out, event)
			}
		}
		return nil
	})
	return out, err
}

// ActivitiesForUser resolves the feed activities scoped to a user.
func (r *Resolver) ActivitiesForUser(ctx context.Context, userID string) ([]FeedActivity, error) {
	var out []FeedActivity
	err := r.store.View(ctx, func(view RuleView) error {
		if _, ok := view.FindUser(userID); !ok {
			return domain.NotFoundError{Entity: EntityUser, ID: userID}
		}
		for _, activityID := range view.ActivitiesByUser(userID) {
			if activity, ok := view.FindFeedActivity(activityID); ok {
				out = append(out, activity)
			}
		}
		return nil
	})
	return out, err
}

// InvitationsForUser resolves the invitations a user has received.
func (r *Resolver) InvitationsForUser(ctx context.Context, userID string) ([]GuildInvitation, error) {
	var out []GuildInvitation
	err := r.store.View(ctx, func(view RuleView) error {
		if _, ok := view.FindUser(userID); !ok {
			return domain.NotFoundError{Entity: EntityUser, ID: userID}
		}
		for _, invID := range view.InvitationsForUser(userID) {
			if inv, ok := view.FindGuildInvitation(invID); ok {
				out = append(out, inv)
			}
		}
		return nil
	})
	return out, err
}
