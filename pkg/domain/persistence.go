package domain

import (
	"context"
	"time"
)

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope. Mutators receive the current record and
// may return an error to abort. No partial state from an aborted transaction
// is ever visible to readers.
type Transaction interface {
	Snapshot() RuleView

	CreateUser(User) (User, error)
	UpdateUser(id string, mutator func(*User) error) (User, error)
	DeleteUser(id string) error

	CreateTag(Tag) (Tag, error)
	DeleteTag(id string) error

	CreateGuild(Guild) (Guild, error)
	UpdateGuild(id string, mutator func(*Guild) error) (Guild, error)
	DeleteGuild(id string) error

	CreateAct(Act) (Act, error)
	UpdateAct(id string, mutator func(*Act) error) (Act, error)
	DeleteAct(id string) error

	CreateVenue(Venue) (Venue, error)
	UpdateVenue(id string, mutator func(*Venue) error) (Venue, error)
	DeleteVenue(id string) error

	CreateClub(Club) (Club, error)
	UpdateClub(id string, mutator func(*Club) error) (Club, error)
	DeleteClub(id string) error

	CreateCalendarEvent(CalendarEvent) (CalendarEvent, error)
	UpdateCalendarEvent(id string, mutator func(*CalendarEvent) error) (CalendarEvent, error)
	DeleteCalendarEvent(id string) error

	CreateFollow(Follow) (Follow, error)
	DeleteFollow(id string) error

	CreateFeedActivity(FeedActivity) (FeedActivity, error)
	UpdateFeedActivity(id string, mutator func(*FeedActivity) error) (FeedActivity, error)
	DeleteFeedActivity(id string) error

	CreateGuildInvitation(GuildInvitation) (GuildInvitation, error)
	UpdateGuildInvitation(id string, mutator func(*GuildInvitation) error) (GuildInvitation, error)
	DeleteGuildInvitation(id string) error

	// Now returns the timestamp every stamp in this transaction uses.
	Now() time.Time
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(RuleView) error) error

	GetUser(id string) (User, bool)
	ListUsers() []User
	GetTag(id string) (Tag, bool)
	ListTags() []Tag
	GetGuild(id string) (Guild, bool)
	ListGuilds() []Guild
	GetAct(id string) (Act, bool)
	ListActs() []Act
	GetVenue(id string) (Venue, bool)
	ListVenues() []Venue
	GetClub(id string) (Club, bool)
	ListClubs() []Club
	GetCalendarEvent(id string) (CalendarEvent, bool)
	ListCalendarEvents() []CalendarEvent
	GetFollow(id string) (Follow, bool)
	ListFollows() []Follow
	GetFeedActivity(id string) (FeedActivity, bool)
	ListFeedActivities() []FeedActivity
	GetGuildInvitation(id string) (GuildInvitation, bool)
	ListGuildInvitations() []GuildInvitation
}
