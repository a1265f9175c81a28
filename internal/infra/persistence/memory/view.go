package memory

import "scenecore/pkg/domain"

// ListUsers returns all users within the snapshot.
func (v transactionView) ListUsers() []User {
	out := make([]User, 0, len(v.state.users))
	for _, u := range v.state.users {
		out = append(out, cloneUser(u))
	}
	return out
}

// ListTags returns all tags within the snapshot.
func (v transactionView) ListTags() []Tag {
	out := make([]Tag, 0, len(v.state.tags))
	for _, t := range v.state.tags {
		out = append(out, cloneTag(t))
	}
	return out
}

// ListGuilds returns all guilds within the snapshot.
func (v transactionView) ListGuilds() []Guild {
	out := make([]Guild, 0, len(v.state.guilds))
	for _, g := range v.state.guilds {
		out = append(out, cloneGuild(g))
	}
	return out
}

// ListActs returns all acts within the snapshot.
func (v transactionView) ListActs() []Act {
	out := make([]Act, 0, len(v.state.acts))
	for _, a := range v.state.acts {
		out = append(out, cloneAct(a))
	}
	return out
}

// ListVenues returns all venues within the snapshot.
func (v transactionView) ListVenues() []Venue {
	out := make([]Venue, 0, len(v.state.venues))
	for _, ven := range v.state.venues {
		out = append(out, cloneVenue(ven))
	}
	return out
}

// ListClubs returns all clubs within the snapshot.
func (v transactionView) ListClubs() []Club {
	out := make([]Club, 0, len(v.state.clubs))
	for _, c := range v.state.clubs {
		out = append(out, cloneClub(c))
	}
	return out
}

// ListCalendarEvents returns all calendar events within the snapshot.
func (v transactionView) ListCalendarEvents() []CalendarEvent {
	out := make([]CalendarEvent, 0, len(v.state.events))
	for _, e := range v.state.events {
		out = append(out, cloneEvent(e))
	}
	return out
}

// ListFollows returns all follow edges within the snapshot.
func (v transactionView) ListFollows() []Follow {
	out := make([]Follow, 0, len(v.state.follows))
	for _, f := range v.state.follows {
		out = append(out, cloneFollow(f))
	}
	return out
}

// ListFeedActivities returns all feed activities within the snapshot.
func (v transactionView) ListFeedActivities() []FeedActivity {
	out := make([]FeedActivity, 0, len(v.state.activities))
	for _, a := range v.state.activities {
		out = append(out, cloneActivity(a))
	}
	return out
}

// ListGuildInvitations returns all invitations within the snapshot.
func (v transactionView) ListGuildInvitations() []GuildInvitation {
	out := make([]GuildInvitation, 0, len(v.state.invitations))
	for _, inv := range v.state.invitations {
		out = append(out, cloneInvitation(inv))
	}
	return out
}

// FindUser retrieves a user by ID from the snapshot.
func (v transactionView) FindUser(id string) (User, bool) {
	u, ok := v.state.users[id]
	if !ok {
		return User{}, false
	}
	return cloneUser(u), true
}

// FindTag retrieves a tag by ID from the snapshot.
func (v transactionView) FindTag(id string) (Tag, bool) {
	t, ok := v.state.tags[id]
	if !ok {
		return Tag{}, false
	}
	return cloneTag(t), true
}

// FindGuild retrieves a guild by ID from the snapshot.
func (v transactionView) FindGuild(id string) (Guild, bool) {
	g, ok := v.state.guilds[id]
	if !ok {
		return Guild{}, false
	}
	return cloneGuild(g), true
}

// FindAct retrieves an act by ID from the snapshot.
func (v transactionView) FindAct(id string) (Act, bool) {
	a, ok := v.state.acts[id]
	if !ok {
		return Act{}, false
	}
	return cloneAct(a), true
}

// FindVenue retrieves a venue by ID from the snapshot.
func (v transactionView) FindVenue(id string) (Venue, bool) {
	ven, ok := v.state.venues[id]
	if !ok {
		return Venue{}, false
	}
	return cloneVenue(ven), true
}

// FindClub retrieves a club by ID from the snapshot.
func (v transactionView) FindClub(id string) (Club, bool) {
	c, ok := v.state.clubs[id]
	if !ok {
		return Club{}, false
	}
	return cloneClub(c), true
}

// FindCalendarEvent retrieves a calendar event by ID from the snapshot.
func (v transactionView) FindCalendarEvent(id string) (CalendarEvent, bool) {
	e, ok := v.state.events[id]
	if !ok {
		return CalendarEvent{}, false
	}
	return cloneEvent(e), true
}

// FindFollow retrieves a follow edge by ID from the snapshot.
func (v transactionView) FindFollow(id string) (Follow, bool) {
	f, ok := v.state.follows[id]
	if !ok {
		return Follow{}, false
	}
	return cloneFollow(f), true
}

// FindFeedActivity retrieves a feed activity by ID from the snapshot.
func (v transactionView) FindFeedActivity(id string) (FeedActivity, bool) {
	a, ok := v.state.activities[id]
	if !ok {
		return FeedActivity{}, false
	}
	return cloneActivity(a), true
}

// FindGuildInvitation retrieves an invitation by ID from the snapshot.
func (v transactionView) FindGuildInvitation(id string) (GuildInvitation, bool) {
	inv, ok := v.state.invitations[id]
	if !ok {
		return GuildInvitation{}, false
	}
	return cloneInvitation(inv), true
}

// UsersByEmail returns the ids registered under an email address.
func (v transactionView) UsersByEmail(email string) []string {
	return v.state.indexes.userEmail.ids(email)
}

// UsersByExternalAuthID returns the ids registered under an external auth id.
func (v transactionView) UsersByExternalAuthID(authID string) []string {
	return v.state.indexes.userAuthID.ids(authID)
}

// TagsByKey returns the ids registered under a (category, value) pair.
func (v transactionView) TagsByKey(category, value string) []string {
	return v.state.indexes.tagKey.ids(domain.TagUniqueKey(category, value))
}

// FollowsByUniqueKey returns the ids registered under a compound follow key.
func (v transactionView) FollowsByUniqueKey(key string) []string {
	return v.state.indexes.followKey.ids(key)
}

// InvitationsByPair returns the ids registered under a (guild, user) pair.
func (v transactionView) InvitationsByPair(guildID, invitedUserID string) []string {
	return v.state.indexes.inviteKey.ids(domain.InvitationUniqueKey(guildID, invitedUserID))
}

// GuildsByAct returns the guilds backed by the given act.
func (v transactionView) GuildsByAct(actID string) []string {
	return v.state.indexes.guildByAct.ids(actID)
}

// GuildsByVenue returns the guilds backed by the given venue.
func (v transactionView) GuildsByVenue(venueID string) []string {
	return v.state.indexes.guildByVenue.ids(venueID)
}

// GuildsByClub returns the guilds backed by the given club.
func (v transactionView) GuildsByClub(clubID string) []string {
	return v.state.indexes.guildByClub.ids(clubID)
}

// GuildsOwnedBy returns the guilds whose current owner is the given user.
func (v transactionView) GuildsOwnedBy(userID string) []string {
	return v.state.indexes.guildsByOwner.ids(userID)
}

// GuildsCreatedBy returns the guilds created by the given user.
func (v transactionView) GuildsCreatedBy(userID string) []string {
	return v.state.indexes.guildsByCreator.ids(userID)
}

// GuildsWithMember returns the guilds the given user belongs to.
func (v transactionView) GuildsWithMember(userID string) []string {
	return v.state.indexes.guildsByMember.ids(userID)
}

// FollowsBy returns the follow edges originating from the given user.
func (v transactionView) FollowsBy(userID string) []string {
	return v.state.indexes.followsByUser.ids(userID)
}

// FollowsTargeting returns the follow edges pointing at the given target.
func (v transactionView) FollowsTargeting(kind domain.FollowKind, targetID string) []string {
	return v.state.indexes.followsByTarget.ids(followTargetKey(kind, targetID))
}

// InvitationsForGuild returns the invitations issued by the given guild.
func (v transactionView) InvitationsForGuild(guildID string) []string {
	return v.state.indexes.invitesByGuild.ids(guildID)
}

// InvitationsForUser returns the invitations received by the given user.
func (v transactionView) InvitationsForUser(userID string) []string {
	return v.state.indexes.invitesByUser.ids(userID)
}

// InvitationsSentBy returns the invitations sent by the given user.
func (v transactionView) InvitationsSentBy(userID string) []string {
	return v.state.indexes.invitesBySender.ids(userID)
}

// EventsAtVenue returns the calendar events hosted by the given venue.
func (v transactionView) EventsAtVenue(venueID string) []string {
	return v.state.indexes.eventsByVenue.ids(venueID)
}

// EventsFeaturingAct returns the calendar events the given act performs at.
func (v transactionView) EventsFeaturingAct(actID string) []string {
	return v.state.indexes.eventsByAct.ids(actID)
}

// ActivitiesByUser returns the feed activities scoped to the given user.
func (v transactionView) ActivitiesByUser(userID string) []string {
	return v.state.indexes.actsByUser.ids(userID)
}

// ActivitiesForEvent returns the feed activities scoped to the given event.
func (v transactionView) ActivitiesForEvent(eventID string) []string {
	return v.state.indexes.actsByEvent.ids(eventID)
}

// GetUser returns a user by id from the live state.
func (s *Store) GetUser(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.state.users[id]
	if !ok {
		return User{}, false
	}
	return cloneUser(u), true
}

// ListUsers returns all users from the live state.
func (s *Store) ListUsers() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, len(s.state.users))
	for _, u := range s.state.users {
		out = append(out, cloneUser(u))
	}
	return out
}

// GetTag returns a tag by id from the live state.
func (s *Store) GetTag(id string) (Tag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.state.tags[id]
	if !ok {
		return Tag{}, false
	}
	return cloneTag(t), true
}

// ListTags returns all tags from the live state.
func (s *Store) ListTags() []Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Tag, 0, len(s.state.tags))
	for _, t := range s.state.tags {
		out = append(out, cloneTag(t))
	}
	return out
}

// GetGuild returns a guild by id from the live state.
func (s *Store) GetGuild(id string) (Guild, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.state.guilds[id]
	if !ok {
		return Guild{}, false
	}
	return cloneGuild(g), true
}

// ListGuilds returns all guilds from the live state.
func (s *Store) ListGuilds() []Guild {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Guild, 0, len(s.state.guilds))
	for _, g := range s.state.guilds {
		out = append(out, cloneGuild(g))
	}
	return out
}

// GetAct returns an act by id from the live state.
func (s *Store) GetAct(id string) (Act, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.state.acts[id]
	if !ok {
		return Act{}, false
	}
	return cloneAct(a), true
}

// ListActs returns all acts from the live state.
func (s *Store) ListActs() []Act {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Act, 0, len(s.state.acts))
	for _, a := range s.state.acts {
		out = append(out, cloneAct(a))
	}
	return out
}

// GetVenue returns a venue by id from the live state.
func (s *Store) GetVenue(id string) (Venue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.state.venues[id]
	if !ok {
		return Venue{}, false
	}
	return cloneVenue(v), true
}

// ListVenues returns all venues from the live state.
func (s *Store) ListVenues() []Venue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Venue, 0, len(s.state.venues))
	for _, v := range s.state.venues {
		out = append(out, cloneVenue(v))
	}
	return out
}

// GetClub returns a club by id from the live state.
func (s *Store) GetClub(id string) (Club, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.state.clubs[id]
	if !ok {
		return Club{}, false
	}
	return cloneClub(c), true
}

// ListClubs returns all clubs from the live state.
func (s *Store) ListClubs() []Club {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Club, 0, len(s.state.clubs))
	for _, c := range s.state.clubs {
		out = append(out, cloneClub(c))
	}
	return out
}

// GetCalendarEvent returns a calendar event by id from the live state.
func (s *Store) GetCalendarEvent(id string) (CalendarEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.state.events[id]
	if !ok {
		return CalendarEvent{}, false
	}
	return cloneEvent(e), true
}

// ListCalendarEvents returns all calendar events from the live state.
func (s *Store) ListCalendarEvents() []CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CalendarEvent, 0, len(s.state.events))
	for _, e := range s.state.events {
		out = append(out, cloneEvent(e))
	}
	return out
}

// GetFollow returns a follow edge by id from the live state.
func (s *Store) GetFollow(id string) (Follow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.state.follows[id]
	if !ok {
		return Follow{}, false
	}
	return cloneFollow(f), true
}

// ListFollows returns all follow edges from the live state.
func (s *Store) ListFollows() []Follow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Follow, 0, len(s.state.follows))
	for _, f := range s.state.follows {
		out = append(out, cloneFollow(f))
	}
	return out
}

// GetFeedActivity returns a feed activity by id from the live state.
func (s *Store) GetFeedActivity(id string) (FeedActivity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.state.activities[id]
	if !ok {
		return FeedActivity{}, false
	}
	return cloneActivity(a), true
}

// ListFeedActivities returns all feed activities from the live state.
func (s *Store) ListFeedActivities() []FeedActivity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]FeedActivity, 0, len(s.state.activities))
	for _, a := range s.state.activities {
		out = append(out, cloneActivity(a))
	}
	return out
}

// GetGuildInvitation returns an invitation by id from the live state.
func (s *Store) GetGuildInvitation(id string) (GuildInvitation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.state.invitations[id]
	if !ok {
		return GuildInvitation{}, false
	}
	return cloneInvitation(inv), true
}

// ListGuildInvitations returns all invitations from the live state.
func (s *Store) ListGuildInvitations() []GuildInvitation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]GuildInvitation, 0, len(s.state.invitations))
	for _, inv := range s.state.invitations {
		out = append(out, cloneInvitation(inv))
	}
	return out
}
