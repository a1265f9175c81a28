package domain

import "context"

// RuleView provides read-only access to a consistent snapshot of the store for
// rule evaluation and relationship resolution. The ...By/...For methods are
// backed by secondary indexes maintained in lock-step with the primary maps;
// they return record ids in ascending order.
type RuleView interface {
	FindUser(id string) (User, bool)
	FindTag(id string) (Tag, bool)
	FindGuild(id string) (Guild, bool)
	FindAct(id string) (Act, bool)
	FindVenue(id string) (Venue, bool)
	FindClub(id string) (Club, bool)
	FindCalendarEvent(id string) (CalendarEvent, bool)
	FindFollow(id string) (Follow, bool)
	FindFeedActivity(id string) (FeedActivity, bool)
	FindGuildInvitation(id string) (GuildInvitation, bool)

	ListUsers() []User
	ListTags() []Tag
	ListGuilds() []Guild
	ListActs() []Act
	ListVenues() []Venue
	ListClubs() []Club
	ListCalendarEvents() []CalendarEvent
	ListFollows() []Follow
	ListFeedActivities() []FeedActivity
	ListGuildInvitations() []GuildInvitation

	// Unique indexes.
	UsersByEmail(email string) []string
	UsersByExternalAuthID(authID string) []string
	TagsByKey(category, value string) []string
	FollowsByUniqueKey(key string) []string
	InvitationsByPair(guildID, invitedUserID string) []string
	GuildsByAct(actID string) []string
	GuildsByVenue(venueID string) []string
	GuildsByClub(clubID string) []string

	// Relation indexes.
	GuildsOwnedBy(userID string) []string
	GuildsCreatedBy(userID string) []string
	GuildsWithMember(userID string) []string
	FollowsBy(userID string) []string
	FollowsTargeting(kind FollowKind, targetID string) []string
	InvitationsForGuild(guildID string) []string
	InvitationsForUser(userID string) []string
	InvitationsSentBy(userID string) []string
	EventsAtVenue(venueID string) []string
	EventsFeaturingAct(actID string) []string
	ActivitiesByUser(userID string) []string
	ActivitiesForEvent(eventID string) []string
}

// Rule defines an evaluation executed within a transaction boundary.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error)
}

// RulesEngine orchestrates rule evaluation. Rules run in registration order and
// their violations aggregate in that order, so the first blocking violation of
// a commit is determined by how the engine was assembled.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance with no rules registered.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view, changes)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
