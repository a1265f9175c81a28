package core

import "scenecore/pkg/domain"

type (
	EntityType         = domain.EntityType
	GuildType          = domain.GuildType
	FollowKind         = domain.FollowKind
	InvitationStatus   = domain.InvitationStatus
	Severity           = domain.Severity
	Base               = domain.Base
	User               = domain.User
	Tag                = domain.Tag
	Guild              = domain.Guild
	Act                = domain.Act
	Venue              = domain.Venue
	Club               = domain.Club
	CalendarEvent      = domain.CalendarEvent
	Follow             = domain.Follow
	FeedActivity       = domain.FeedActivity
	GuildInvitation    = domain.GuildInvitation
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	Rule               = domain.Rule
	RuleView           = domain.RuleView
	RulesEngine        = domain.RulesEngine
	RuleViolationError = domain.RuleViolationError
)

const (
	EntityUser            = domain.EntityUser
	EntityTag             = domain.EntityTag
	EntityGuild           = domain.EntityGuild
	EntityAct             = domain.EntityAct
	EntityVenue           = domain.EntityVenue
	EntityClub            = domain.EntityClub
	EntityCalendarEvent   = domain.EntityCalendarEvent
	EntityFollow          = domain.EntityFollow
	EntityFeedActivity    = domain.EntityFeedActivity
	EntityGuildInvitation = domain.EntityGuildInvitation
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)

// decodeChange extracts the typed After (or Before for deletes) record of a
// change when it matches T.
func decodeChange[T any](payload any) (T, bool) {
	v, ok := payload.(T)
	return v, ok
}
