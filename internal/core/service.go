package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scenecore/internal/infra/persistence/memory"
	"scenecore/pkg/domain"
)

// Service exposes the transactional operations of the core schema. Every write
// runs inside a store transaction, so cascades and rule evaluation commit or
// abort as a unit, and every operation is traced, timed, and audited.
type Service struct {
	store   domain.PersistentStore
	logger  Logger
	clock   Clock
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
}

// NewService constructs a service backed by the supplied store.
func NewService(store domain.PersistentStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		logger: noopLogger{},
		clock:  ClockFunc(func() time.Time { return time.Now().UTC() }),
		tracer: noopTracer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if setter, ok := store.(interface{ SetNowFunc(func() time.Time) }); ok {
		setter.SetNowFunc(s.clock.Now)
	}
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store using the
// given rules engine, defaulting to the built-in constraint set.
func NewInMemoryService(engine *RulesEngine, opts ...ServiceOption) *Service {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() domain.PersistentStore {
	return s.store
}

// View executes fn against a read-only snapshot of the store.
func (s *Service) View(ctx context.Context, fn func(RuleView) error) error {
	return s.store.View(ctx, fn)
}

// runWrite executes a transaction with tracing, metrics, audit, and logging
// around it, and converts blocking rule failures into the typed error
// taxonomy.
func (s *Service) runWrite(ctx context.Context, op string, entityID *string, fn func(domain.Transaction) error) (Result, error) {
	ctx, span := s.tracer.Start(ctx, op)
	start := s.clock.Now()

	res, err := s.store.RunInTransaction(ctx, fn)
	var rve RuleViolationError
	if errors.As(err, &rve) {
		err = domain.ViolationError(rve.Result)
	}

	duration := s.clock.Now().Sub(start)
	span.End(err)
	if s.metrics != nil {
		s.metrics.Observe(ctx, op, err == nil, duration)
	}

	var id string
	if entityID != nil {
		id = *entityID
	}
	if s.audit != nil {
		entry := AuditEntry{Operation: op, Status: AuditStatusSuccess, EntityID: id, OccurredAt: s.clock.Now()}
		if err != nil {
			entry.Status = AuditStatusError
			entry.Error = err.Error()
		}
		s.audit.Record(ctx, entry)
	}
	if err != nil {
		s.logger.Error("operation failed", "operation", op, "entity_id", id, "error", err)
		return res, err
	}
	s.logger.Info("operation committed", "operation", op, "entity_id", id, "duration_ms", float64(duration)/float64(time.Millisecond))
	return res, nil
}

// CreateUser persists a new user account.
func (s *Service) CreateUser(ctx context.Context, user User) (User, Result, error) {
	var created User
	res, err := s.runWrite(ctx, "create_user", &created.ID, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateUser(user)
		return err
	})
	return created, res, err
}

// UpdateUser mutates a user using the provided mutator.
func (s *Service) UpdateUser(ctx context.Context, id string, mutator func(*User) error) (User, Result, error) {
	var updated User
	res, err := s.runWrite(ctx, "update_user", &id, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateUser(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteUser removes a user. Optional references held by other records are
// nullified, the user's outgoing follows cascade, and plain guild memberships
// are released in the same transaction. The delete is rejected while the user
// still owns a guild, is followed, or holds an invitation.
func (s *Service) DeleteUser(ctx context.Context, id string) (Result, error) {
	return s.runWrite(ctx, "delete_user", &id, func(tx domain.Transaction) error {
		view := tx.Snapshot()
		if _, ok := view.FindUser(id); !ok {
			return domain.NotFoundError{Entity: EntityUser, ID: id}
		}
		for _, guildID := range view.GuildsCreatedBy(id) {
			if _, err := tx.UpdateGuild(guildID, func(g *Guild) error {
				g.CreatedByID = nil
				return nil
			}); err != nil {
				return err
			}
		}
		for _, invID := range view.InvitationsSentBy(id) {
			if _, err := tx.UpdateGuildInvitation(invID, func(inv *GuildInvitation) error {
				inv.InvitedByID = nil
				return nil
			}); err != nil {
				return err
			}
		}
		for _, activityID := range view.ActivitiesByUser(id) {
			if _, err := tx.UpdateFeedActivity(activityID, func(a *FeedActivity) error {
				a.UserID = nil
				return nil
			}); err != nil {
				return err
			}
		}
		for _, followID := range view.FollowsBy(id) {
			if err := tx.DeleteFollow(followID); err != nil {
				return err
			}
		}
		for _, guildID := range view.GuildsWithMember(id) {
			guild, ok := view.FindGuild(guildID)
			if !ok || guild.CurrentOwnerID == id {
				// Owned guilds are left intact so the delete is rejected.
				continue
			}
			if _, err := tx.UpdateGuild(guildID, func(g *Guild) error {
				g.MemberIDs = removeID(g.MemberIDs, id)
				return nil
			}); err != nil {
				return err
			}
		}
		return tx.DeleteUser(id)
	})
}

// CreateTag persists a new tag.
func (s *Service) CreateTag(ctx context.Context, tag Tag) (Tag, Result, error) {
	var created Tag
	res, err := s.runWrite(ctx, "create_tag", &created.ID, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateTag(tag)
		return err
	})
	return created, res, err
}

// DeleteTag removes a tag. The delete is rejected while follows target it.
func (s *Service) DeleteTag(ctx context.Context, id string) (Result, error) {
	return s.runWrite(ctx, "delete_tag", &id, func(tx domain.Transaction) error {
		return tx.DeleteTag(id)
	})
}

// CreateAct persists a new act.
func (s *Service) CreateAct(ctx context.Context, act Act) (Act, Result, error) {
	var created Act
	res, err := s.runWrite(ctx, "create_act", &created.ID, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateAct(act)
		return err
	})
	return created, res, err
}

// UpdateAct mutates an act using the provided mutator.
func (s *Service) UpdateAct(ctx context.Context, id string, mutator func(*Act) error) (Act, Result, error) {
	var updated Act
	res, err := s.runWrite(ctx, "update_act", &id, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateAct(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteAct removes an act. The delete is rejected while a guild or event
// references it.
func (s *Service) DeleteAct(ctx context.Context, id string) (Result, error) {
	return s.runWrite(ctx, "delete_act", &id, func(tx domain.Transaction) error {
		return tx.DeleteAct(id)
	})
}

// CreateVenue persists a new venue.
func (s *Service) CreateVenue(ctx context.Context, venue Venue) (Venue, Result, error) {
	var created Venue
	res, err := s.runWrite(ctx, "create_venue", &created.ID, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateVenue(venue)
		return err
	})
	return created, res, err
}

// UpdateVenue mutates a venue using the provided mutator.
func (s *Service) UpdateVenue(ctx context.Context, id string, mutator func(*Venue) error) (Venue, Result, error) {
	var updated Venue
	res, err := s.runWrite(ctx, "update_venue", &id, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateVenue(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteVenue removes a venue. The delete is rejected while a guild or event
// references it.
func (s *Service) DeleteVenue(ctx context.Context, id string) (Result, error) {
	return s.runWrite(ctx, "delete_venue", &id, func(tx domain.Transaction) error {
		return tx.DeleteVenue(id)
	})
}

// CreateClub persists a new club.
func (s *Service) CreateClub(ctx context.Context, club Club) (Club, Result, error) {
	var created Club
	res, err := s.runWrite(ctx, "create_club", &created.ID, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateClub(club)
		return err
	})
	return created, res, err
}

// UpdateClub mutates a club using the provided mutator.
func (s *Service) UpdateClub(ctx context.Context, id string, mutator func(*Club) error) (Club, Result, error) {
	var updated Club
	res, err := s.runWrite(ctx, "update_club", &id, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateClub(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteClub removes a club. The delete is rejected while a guild references it.
func (s *Service) DeleteClub(ctx context.Context, id string) (Result, error) {
	return s.runWrite(ctx, "delete_club", &id, func(tx domain.Transaction) error {
		return tx.DeleteClub(id)
	})
}

func founderGuild(guild Guild) Guild {
	if guild.CurrentOwnerID != "" && !guild.HasMember(guild.CurrentOwnerID) {
		guild.MemberIDs = append(append([]string(nil), guild.MemberIDs...), guild.CurrentOwnerID)
	}
	return guild
}

// CreateGuild persists a guild over an existing payload entity. The current
// owner is enrolled as a member when missing from the member list.
func (s *Service) CreateGuild(ctx context.Context, guild Guild) (Guild, Result, error) {
	var created Guild
	res, err := s.runWrite(ctx, "create_guild", &created.ID, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateGuild(founderGuild(guild))
		return err
	})
	return created, res, err
}

// CreateActGuild creates an act and its guild in one transaction. The guild's
// type and payload reference are derived; the owner is enrolled as founder.
func (s *Service) CreateActGuild(ctx context.Context, act Act, guild Guild) (Guild, Result, error) {
	var created Guild
	res, err := s.runWrite(ctx, "create_act_guild", &created.ID, func(tx domain.Transaction) error {
		createdAct, err := tx.CreateAct(act)
		if err != nil {
			return err
		}
		guild.Type = domain.GuildTypeAct
		guild.ActID = &createdAct.ID
		guild.VenueID = nil
		guild.ClubID = nil
		created, err = tx.CreateGuild(founderGuild(guild))
		return err
	})
	return created, res, err
}

// CreateVenueGuild creates a venue and its guild in one transaction.
func (s *Service) CreateVenueGuild(ctx context.Context, venue Venue, guild Guild) (Guild, Result, error) {
	var created Guild
	res, err := s.runWrite(ctx, "create_venue_guild", &created.ID, func(tx domain.Transaction) error {
		createdVenue, err := tx.CreateVenue(venue)
		if err != nil {
			return err
		}
		guild.Type = domain.GuildTypeVenue
		guild.VenueID = &createdVenue.ID
		guild.ActID = nil
		guild.ClubID = nil
		created, err = tx.CreateGuild(founderGuild(guild))
		return err
	})
	return created, res, err
}

// CreateClubGuild creates a club and its guild in one transaction.
func (s *Service) CreateClubGuild(ctx context.Context, club Club, guild Guild) (Guild, Result, error) {
	var created Guild
	res, err := s.runWrite(ctx, "create_club_guild", &created.ID, func(tx domain.Transaction) error {
		createdClub, err := tx.CreateClub(club)
		if err != nil {
			return err
		}
		guild.Type = domain.GuildTypeClub
		guild.ClubID = &createdClub.ID
		guild.ActID = nil
		guild.VenueID = nil
		created, err = tx.CreateGuild(founderGuild(guild))
		return err
	})
	return created, res, err
}

// UpdateGuild mutates a guild using the provided mutator.
func (s *Service) UpdateGuild(ctx context.Context, id string, mutator func(*Guild) error) (Guild, Result, error) {
	var updated Guild
	res, err := s.runWrite(ctx, "update_guild", &id, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateGuild(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteGuild removes a guild, cascading its invitations and the follow edges
// targeting it. The payload entity survives the guild.
func (s *Service) DeleteGuild(ctx context.Context, id string) (Result, error) {
	return s.runWrite(ctx, "delete_guild", &id, func(tx domain.Transaction) error {
		view := tx.Snapshot()
		if _, ok := view.FindGuild(id); !ok {
			return domain.NotFoundError{Entity: EntityGuild, ID: id}
		}
		for _, invID := range view.InvitationsForGuild(id) {
			if err := tx.DeleteGuildInvitation(invID); err != nil {
				return err
			}
		}
		for _, followID := range view.FollowsTargeting(domain.FollowGuild, id) {
			if err := tx.DeleteFollow(followID); err != nil {
				return err
			}
		}
		return tx.DeleteGuild(id)
	})
}

// TransferOwnership moves a guild to a new owner, enrolling the new owner as a
// member when necessary. The previous owner keeps their membership.
func (s *Service) TransferOwnership(ctx context.Context, guildID, newOwnerID string) (Guild, Result, error) {
	var updated Guild
	res, err := s.runWrite(ctx, "transfer_ownership", &guildID, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateGuild(guildID, func(g *Guild) error {
			g.CurrentOwnerID = newOwnerID
			if !g.HasMember(newOwnerID) {
				g.MemberIDs = append(g.MemberIDs, newOwnerID)
			}
			return nil
		})
		return err
	})
	return updated, res, err
}

// AddMember enrolls a user into a guild. Adding an existing member is a no-op.
func (s *Service) AddMember(ctx context.Context, guildID, userID string) (Guild, Result, error) {
	var updated Guild
	res, err := s.runWrite(ctx, "add_member", &guildID, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateGuild(guildID, func(g *Guild) error {
			if !g.HasMember(userID) {
				g.MemberIDs = append(g.MemberIDs, userID)
			}
			return nil
		})
		return err
	})
	return updated, res, err
}

// RemoveMember releases a user's guild membership. The current owner cannot
// leave without a preceding ownership transfer.
func (s *Service) RemoveMember(ctx context.Context, guildID, userID string) (Guild, Result, error) {
	var updated Guild
	res, err := s.runWrite(ctx, "remove_member", &guildID, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateGuild(guildID, func(g *Guild) error {
			if g.CurrentOwnerID == userID {
				return fmt.Errorf("user %s owns guild %s and cannot be removed", userID, guildID)
			}
			g.MemberIDs = removeID(g.MemberIDs, userID)
			return nil
		})
		return err
	})
	return updated, res, err
}

// CreateCalendarEvent persists a new calendar event.
func (s *Service) CreateCalendarEvent(ctx context.Context, event CalendarEvent) (CalendarEvent, Result, error) {
	var created CalendarEvent
	res, err := s.runWrite(ctx, "create_calendar_event", &created.ID, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateCalendarEvent(event)
		return err
	})
	return created, res, err
}

// UpdateCalendarEvent mutates a calendar event using the provided mutator.
func (s *Service) UpdateCalendarEvent(ctx context.Context, id string, mutator func(*CalendarEvent) error) (CalendarEvent, Result, error) {
	var updated CalendarEvent
	res, err := s.runWrite(ctx, "update_calendar_event", &id, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateCalendarEvent(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteCalendarEvent removes a calendar event, releasing the feed activities
// that reference it.
func (s *Service) DeleteCalendarEvent(ctx context.Context, id string) (Result, error) {
	return s.runWrite(ctx, "delete_calendar_event", &id, func(tx domain.Transaction) error {
		view := tx.Snapshot()
		if _, ok := view.FindCalendarEvent(id); !ok {
			return domain.NotFoundError{Entity: EntityCalendarEvent, ID: id}
		}
		for _, activityID := range view.ActivitiesForEvent(id) {
			if _, err := tx.UpdateFeedActivity(activityID, func(a *FeedActivity) error {
				a.CalendarEventID = nil
				return nil
			}); err != nil {
				return err
			}
		}
		return tx.DeleteCalendarEvent(id)
	})
}

// AddEventAct puts an act on a calendar event's bill. Adding a billed act is a
// no-op.
func (s *Service) AddEventAct(ctx context.Context, eventID, actID string) (CalendarEvent, Result, error) {
	var updated CalendarEvent
	res, err := s.runWrite(ctx, "add_event_act", &eventID, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateCalendarEvent(eventID, func(e *CalendarEvent) error {
			if !e.HasAct(actID) {
				e.ActIDs = append(e.ActIDs, actID)
			}
			return nil
		})
		return err
	})
	return updated, res, err
}

// RemoveEventAct takes an act off a calendar event's bill.
func (s *Service) RemoveEventAct(ctx context.Context, eventID, actID string) (CalendarEvent, Result, error) {
	var updated CalendarEvent
	res, err := s.runWrite(ctx, "remove_event_act", &eventID, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateCalendarEvent(eventID, func(e *CalendarEvent) error {
			e.ActIDs = removeID(e.ActIDs, actID)
			return nil
		})
		return err
	})
	return updated, res, err
}

// FollowUser creates a follow edge from one user to another.
func (s *Service) FollowUser(ctx context.Context, userID, followedUserID string) (Follow, Result, error) {
	return s.createFollow(ctx, Follow{UserID: userID, Kind: domain.FollowUser, FollowedUserID: &followedUserID})
}

// FollowTag creates a follow edge from a user to a tag.
func (s *Service) FollowTag(ctx context.Context, userID, tagID string) (Follow, Result, error) {
	return s.createFollow(ctx, Follow{UserID: userID, Kind: domain.FollowTag, TagID: &tagID})
}

// FollowGuild creates a follow edge from a user to a guild.
func (s *Service) FollowGuild(ctx context.Context, userID, guildID string) (Follow, Result, error) {
	return s.createFollow(ctx, Follow{UserID: userID, Kind: domain.FollowGuild, GuildID: &guildID})
}

func (s *Service) createFollow(ctx context.Context, follow Follow) (Follow, Result, error) {
	var created Follow
	res, err := s.runWrite(ctx, "create_follow", &created.ID, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateFollow(follow)
		return err
	})
	return created, res, err
}

// Unfollow removes a follow edge.
func (s *Service) Unfollow(ctx context.Context, followID string) (Result, error) {
	return s.runWrite(ctx, "delete_follow", &followID, func(tx domain.Transaction) error {
		return tx.DeleteFollow(followID)
	})
}

// CreateFeedActivity persists a denormalized feed entry.
func (s *Service) CreateFeedActivity(ctx context.Context, activity FeedActivity) (FeedActivity, Result, error) {
	var created FeedActivity
	res, err := s.runWrite(ctx, "create_feed_activity", &created.ID, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateFeedActivity(activity)
		return err
	})
	return created, res, err
}

// DeleteFeedActivity removes a feed entry.
func (s *Service) DeleteFeedActivity(ctx context.Context, id string) (Result, error) {
	return s.runWrite(ctx, "delete_feed_activity", &id, func(tx domain.Transaction) error {
		return tx.DeleteFeedActivity(id)
	})
}

// InviteToGuild issues a pending invitation for a user to join a guild.
// invitedByID may be nil for system-issued invitations.
func (s *Service) InviteToGuild(ctx context.Context, guildID, invitedUserID string, invitedByID *string) (GuildInvitation, Result, error) {
	var created GuildInvitation
	res, err := s.runWrite(ctx, "invite_to_guild", &created.ID, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateGuildInvitation(GuildInvitation{
			GuildID:       guildID,
			InvitedUserID: invitedUserID,
			InvitedByID:   invitedByID,
			Status:        domain.InvitationPending,
		})
		return err
	})
	return created, res, err
}

// RespondToInvitation resolves a pending invitation. Accepting enrolls the
// invited user into the guild in the same transaction; both paths stamp
// RespondedAt. Responding to a resolved invitation fails with an invalid
// transition.
func (s *Service) RespondToInvitation(ctx context.Context, invitationID string, accept bool) (GuildInvitation, Result, error) {
	target := domain.InvitationRejected
	if accept {
		target = domain.InvitationAccepted
	}
	var updated GuildInvitation
	res, err := s.runWrite(ctx, "respond_to_invitation", &invitationID, func(tx domain.Transaction) error {
		var err error
		updated, err = s.resolveInvitation(tx, invitationID, target)
		if err != nil {
			return err
		}
		if !accept {
			return nil
		}
		_, err = tx.UpdateGuild(updated.GuildID, func(g *Guild) error {
			if !g.HasMember(updated.InvitedUserID) {
				g.MemberIDs = append(g.MemberIDs, updated.InvitedUserID)
			}
			return nil
		})
		return err
	})
	return updated, res, err
}

// CancelInvitation withdraws a pending invitation. Cancelling a resolved
// invitation fails with an invalid transition.
func (s *Service) CancelInvitation(ctx context.Context, invitationID string) (GuildInvitation, Result, error) {
	var updated GuildInvitation
	res, err := s.runWrite(ctx, "cancel_invitation", &invitationID, func(tx domain.Transaction) error {
		var err error
		updated, err = s.resolveInvitation(tx, invitationID, domain.InvitationCancelled)
		return err
	})
	return updated, res, err
}

// DeleteGuildInvitation removes an invitation record outright, regardless of
// its status. Use Cancel to withdraw a pending invitation with an audit trail.
func (s *Service) DeleteGuildInvitation(ctx context.Context, id string) (Result, error) {
	return s.runWrite(ctx, "delete_guild_invitation", &id, func(tx domain.Transaction) error {
		return tx.DeleteGuildInvitation(id)
	})
}

func (s *Service) resolveInvitation(tx domain.Transaction, invitationID string, target InvitationStatus) (GuildInvitation, error) {
	current, ok := tx.Snapshot().FindGuildInvitation(invitationID)
	if !ok {
		return GuildInvitation{}, domain.NotFoundError{Entity: EntityGuildInvitation, ID: invitationID}
	}
	if current.Status != domain.InvitationPending {
		return GuildInvitation{}, domain.InvalidTransitionError{
			InvitationID: invitationID,
			Current:      current.Status,
			Requested:    target,
		}
	}
	return tx.UpdateGuildInvitation(invitationID, func(inv *GuildInvitation) error {
		inv.Status = target
		respondedAt := tx.Now()
		inv.RespondedAt = &respondedAt
		return nil
	})
}

// GetUser looks up a user by id.
func (s *Service) GetUser(id string) (User, error) {
	user, ok := s.store.GetUser(id)
	if !ok {
		return User{}, domain.NotFoundError{Entity: EntityUser, ID: id}
	}
	return user, nil
}

// GetTag looks up a tag by id.
func (s *Service) GetTag(id string) (Tag, error) {
	tag, ok := s.store.GetTag(id)
	if !ok {
		return Tag{}, domain.NotFoundError{Entity: EntityTag, ID: id}
	}
	return tag, nil
}

// GetGuild looks up a guild by id.
func (s *Service) GetGuild(id string) (Guild, error) {
	guild, ok := s.store.GetGuild(id)
	if !ok {
		return Guild{}, domain.NotFoundError{Entity: EntityGuild, ID: id}
	}
	return guild, nil
}

// GetAct looks up an act by id.
func (s *Service) GetAct(id string) (Act, error) {
	act, ok := s.store.GetAct(id)
	if !ok {
		return Act{}, domain.NotFoundError{Entity: EntityAct, ID: id}
	}
	return act, nil
}

// GetVenue looks up a venue by id.
func (s *Service) GetVenue(id string) (Venue, error) {
	venue, ok := s.store.GetVenue(id)
	if !ok {
		return Venue{}, domain.NotFoundError{Entity: EntityVenue, ID: id}
	}
	return venue, nil
}

// GetClub looks up a club by id.
func (s *Service) GetClub(id string) (Club, error) {
	club, ok := s.store.GetClub(id)
	if !ok {
		return Club{}, domain.NotFoundError{Entity: EntityClub, ID: id}
	}
	return club, nil
}

// GetCalendarEvent looks up a calendar event by id.
func (s *Service) GetCalendarEvent(id string) (CalendarEvent, error) {
	event, ok := s.store.GetCalendarEvent(id)
	if !ok {
		return CalendarEvent{}, domain.NotFoundError{Entity: EntityCalendarEvent, ID: id}
	}
	return event, nil
}

// GetFollow looks up a follow edge by id.
func (s *Service) GetFollow(id string) (Follow, error) {
	follow, ok := s.store.GetFollow(id)
	if !ok {
		return Follow{}, domain.NotFoundError{Entity: EntityFollow, ID: id}
	}
	return follow, nil
}

// GetFeedActivity looks up a feed activity by id.
func (s *Service) GetFeedActivity(id string) (FeedActivity, error) {
	activity, ok := s.store.GetFeedActivity(id)
	if !ok {
		return FeedActivity{}, domain.NotFoundError{Entity: EntityFeedActivity, ID: id}
	}
	return activity, nil
}

// GetGuildInvitation looks up an invitation by id.
func (s *Service) GetGuildInvitation(id string) (GuildInvitation, error) {
	inv, ok := s.store.GetGuildInvitation(id)
	if !ok {
		return GuildInvitation{}, domain.NotFoundError{Entity: EntityGuildInvitation, ID: id}
	}
	return inv, nil
}

// ListUsers returns all users.
func (s *Service) ListUsers() []User { return s.store.ListUsers() }

// ListTags returns all tags.
func (s *Service) ListTags() []Tag { return s.store.ListTags() }

// ListGuilds returns all guilds.
func (s *Service) ListGuilds() []Guild { return s.store.ListGuilds() }

// ListActs returns all acts.
func (s *Service) ListActs() []Act { return s.store.ListActs() }

// ListVenues returns all venues.
func (s *Service) ListVenues() []Venue { return s.store.ListVenues() }

// ListClubs returns all clubs.
func (s *Service) ListClubs() []Club { return s.store.ListClubs() }

// ListCalendarEvents returns all calendar events.
func (s *Service) ListCalendarEvents() []CalendarEvent { return s.store.ListCalendarEvents() }

// ListFollows returns all follow edges.
func (s *Service) ListFollows() []Follow { return s.store.ListFollows() }

// ListFeedActivities returns all feed activities.
func (s *Service) ListFeedActivities() []FeedActivity { return s.store.ListFeedActivities() }

// ListGuildInvitations returns all invitations.
func (s *Service) ListGuildInvitations() []GuildInvitation { return s.store.ListGuildInvitations() }

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
