// Package domain defines the persistent entities, value types, and rule
// evaluation primitives of the scenecore data layer.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityUser identifies a user account record.
	EntityUser EntityType = "user"
	// EntityTag identifies a tag record.
	EntityTag EntityType = "tag"
	// EntityGuild identifies a guild record.
	EntityGuild EntityType = "guild"
	// EntityAct identifies an act payload record.
	EntityAct EntityType = "act"
	// EntityVenue identifies a venue payload record.
	EntityVenue EntityType = "venue"
	// EntityClub identifies a club payload record.
	EntityClub EntityType = "club"
	// EntityCalendarEvent identifies a calendar event record.
	EntityCalendarEvent EntityType = "calendar_event"
	// EntityFollow identifies a follow edge record.
	EntityFollow EntityType = "follow"
	// EntityFeedActivity identifies a feed activity record.
	EntityFeedActivity EntityType = "feed_activity"
	// EntityGuildInvitation identifies a guild invitation record.
	EntityGuildInvitation EntityType = "guild_invitation"
)

// GuildType selects which payload entity backs a guild.
type GuildType string

// Guild payload variants. Exactly one payload reference must be set and it must
// match the declared type.
const (
	GuildTypeAct   GuildType = "act"
	GuildTypeVenue GuildType = "venue"
	GuildTypeClub  GuildType = "club"
)

// Valid reports whether the guild type is a known variant.
func (t GuildType) Valid() bool {
	switch t {
	case GuildTypeAct, GuildTypeVenue, GuildTypeClub:
		return true
	default:
		return false
	}
}

// FollowKind selects which target a follow edge points at.
type FollowKind string

// Follow target variants.
const (
	FollowUser  FollowKind = "user"
	FollowTag   FollowKind = "tag"
	FollowGuild FollowKind = "guild"
)

// Valid reports whether the follow kind is a known variant.
func (k FollowKind) Valid() bool {
	switch k {
	case FollowUser, FollowTag, FollowGuild:
		return true
	default:
		return false
	}
}

// InvitationStatus enumerates the guild invitation lifecycle states.
type InvitationStatus string

// Invitation lifecycle states. Pending is the sole initial state; the other
// three are terminal and absorbing.
const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationRejected  InvitationStatus = "rejected"
	InvitationCancelled InvitationStatus = "cancelled"
)

// Valid reports whether the status is a known lifecycle state.
func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationPending, InvitationAccepted, InvitationRejected, InvitationCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status permits no further transition.
func (s InvitationStatus) Terminal() bool {
	switch s {
	case InvitationAccepted, InvitationRejected, InvitationCancelled:
		return true
	default:
		return false
	}
}

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for timestamp-tracked domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User represents an account on the platform.
type User struct {
	Base
	Email          string  `json:"email"`
	DisplayName    *string `json:"display_name,omitempty"`
	AvatarKey      *string `json:"avatar_key,omitempty"`
	ExternalAuthID *string `json:"external_auth_id,omitempty"`
}

// Tag is a categorized label users can follow.
type Tag struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Value    string `json:"value"`
}

// Guild is a community container backed by exactly one of an act, a venue, or
// a club, selected by Type. CreatedByID is optional (the creator may have been
// deleted or never recorded); CurrentOwnerID is required.
type Guild struct {
	Base
	Name           string    `json:"name"`
	Type           GuildType `json:"type"`
	CreatedByID    *string   `json:"created_by_id"`
	CurrentOwnerID string    `json:"current_owner_id"`
	MemberIDs      []string  `json:"member_ids"`
	ActID          *string   `json:"act_id"`
	VenueID        *string   `json:"venue_id"`
	ClubID         *string   `json:"club_id"`
}

// HasMember reports whether the user id is present in the member list.
func (g Guild) HasMember(userID string) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Act is the payload entity of a performing-act guild.
type Act struct {
	Base
	Name  string  `json:"name"`
	Genre *string `json:"genre,omitempty"`
}

// Venue is the payload entity of a venue guild. Venues host calendar events.
type Venue struct {
	Base
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
}

// Club is the payload entity of a club guild.
type Club struct {
	Base
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// CalendarEvent is hosted by exactly one venue and performed by any number of
// acts. DurationMinutes must be non-negative.
type CalendarEvent struct {
	Base
	Title           *string   `json:"title,omitempty"`
	Description     *string   `json:"description,omitempty"`
	PosterKey       *string   `json:"poster_key,omitempty"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	VenueID         string    `json:"venue_id"`
	ActIDs          []string  `json:"act_ids"`
}

// HasAct reports whether the act id is on the event's bill.
func (e CalendarEvent) HasAct(actID string) bool {
	for _, id := range e.ActIDs {
		if id == actID {
			return true
		}
	}
	return false
}

// Follow is a directed watching edge from a user to exactly one of another
// user, a tag, or a guild, selected by Kind.
type Follow struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Kind           FollowKind `json:"kind"`
	FollowedUserID *string    `json:"followed_user_id"`
	TagID          *string    `json:"tag_id"`
	GuildID        *string    `json:"guild_id"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TargetID returns the id of whichever target reference is set. When more than
// one is set (an invalid row caught by the shape rule) the first in
// user/tag/guild order wins.
func (f Follow) TargetID() (string, bool) {
	switch {
	case f.FollowedUserID != nil:
		return *f.FollowedUserID, true
	case f.TagID != nil:
		return *f.TagID, true
	case f.GuildID != nil:
		return *f.GuildID, true
	default:
		return "", false
	}
}

// FeedActivity is a denormalized feed entry. SubjectID is an opaque pointer
// outside the foreign-key graph and is never referentially validated; the
// optional calendar event and user references are used for scoping and are
// validated when set.
type FeedActivity struct {
	ID              string    `json:"id"`
	ActivityType    string    `json:"activity_type"`
	SubjectType     string    `json:"subject_type"`
	SubjectID       string    `json:"subject_id"`
	CalendarEventID *string   `json:"calendar_event_id"`
	UserID          *string   `json:"user_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// GuildInvitation invites a user into a guild. InvitedByID is optional (system
// or anonymous invitations). RespondedAt is nil exactly while Status is
// pending and set on the transition to any terminal state.
type GuildInvitation struct {
	ID            string           `json:"id"`
	GuildID       string           `json:"guild_id"`
	InvitedUserID string           `json:"invited_user_id"`
	InvitedByID   *string          `json:"invited_by_id"`
	Status        InvitationStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	RespondedAt   *time.Time       `json:"responded_at"`
}

// Change records a single mutation applied within a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in the audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ViolationKind classifies a violation into the external error taxonomy.
type ViolationKind string

// Violation kinds, ordered by how they surface to callers: shape problems are
// reported before referential ones, which are reported before duplicates.
const (
	// KindShape marks a broken exactly-one-of or enum-legality invariant.
	KindShape ViolationKind = "shape"
	// KindReferential marks a dangling or orphaned required reference.
	KindReferential ViolationKind = "referential"
	// KindDuplicateKey marks a unique-constraint violation.
	KindDuplicateKey ViolationKind = "duplicate_key"
	// KindTransition marks an illegal lifecycle transition.
	KindTransition ViolationKind = "transition"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule       string
	Kind       ViolationKind
	Severity   Severity
	Message    string
	Entity     EntityType
	EntityID   string
	Constraint string
	Fields     []string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// FirstBlocking returns the first blocking violation in evaluation order.
func (r Result) FirstBlocking() (Violation, bool) {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return v, true
		}
	}
	return Violation{}, false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	if v, ok := e.Result.FirstBlocking(); ok {
		return "transaction blocked by rules: " + v.Message
	}
	return "transaction blocked by rules"
}
