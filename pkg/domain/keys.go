package domain

import "strings"

// Compound unique keys use relational null semantics: two rows collide only
// when every column is non-null equal or both-null. Encoding nulls and values
// distinctly and joining with an unprintable separator makes key equality
// exactly that comparison.

const (
	keySep     = "\x1f"
	keyNull    = "\x00"
	keyValMark = "v:"
)

func keyCol(v *string) string {
	if v == nil {
		return keyNull
	}
	return keyValMark + *v
}

// FollowUniqueKey encodes the (user, kind, followed user, tag, guild)
// compound unique tuple of a follow edge.
func FollowUniqueKey(f Follow) string {
	return strings.Join([]string{
		keyValMark + f.UserID,
		keyValMark + string(f.Kind),
		keyCol(f.FollowedUserID),
		keyCol(f.TagID),
		keyCol(f.GuildID),
	}, keySep)
}

// TagUniqueKey encodes the (category, value) unique tuple of a tag.
func TagUniqueKey(category, value string) string {
	return keyValMark + category + keySep + keyValMark + value
}

// InvitationUniqueKey encodes the (guild, invited user) unique tuple of a
// guild invitation.
func InvitationUniqueKey(guildID, invitedUserID string) string {
	return keyValMark + guildID + keySep + keyValMark + invitedUserID
}
