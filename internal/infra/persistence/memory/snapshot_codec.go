package memory

import "encoding/json"

// SnapshotBucket encodes and decodes one entity set of a Snapshot, keyed by a
// stable bucket name. SQL-backed stores persist one row per bucket.
type SnapshotBucket struct {
	Name      string
	Marshal   func(Snapshot) ([]byte, error)
	Unmarshal func(*Snapshot, []byte) error
}

func bucket[T any](name string, get func(Snapshot) map[string]T, set func(*Snapshot, map[string]T)) SnapshotBucket {
	return SnapshotBucket{
		Name:    name,
		Marshal: func(s Snapshot) ([]byte, error) { return json.Marshal(get(s)) },
		Unmarshal: func(s *Snapshot, data []byte) error {
			var m map[string]T
			if err := json.Unmarshal(data, &m); err != nil {
				return err
			}
			set(s, m)
			return nil
		},
	}
}

// SnapshotBuckets enumerates every entity set in persistence order.
func SnapshotBuckets() []SnapshotBucket {
	return []SnapshotBucket{
		bucket("users", func(s Snapshot) map[string]User { return s.Users },
			func(s *Snapshot, m map[string]User) { s.Users = m }),
		bucket("tags", func(s Snapshot) map[string]Tag { return s.Tags },
			func(s *Snapshot, m map[string]Tag) { s.Tags = m }),
		bucket("guilds", func(s Snapshot) map[string]Guild { return s.Guilds },
			func(s *Snapshot, m map[string]Guild) { s.Guilds = m }),
		bucket("acts", func(s Snapshot) map[string]Act { return s.Acts },
			func(s *Snapshot, m map[string]Act) { s.Acts = m }),
		bucket("venues", func(s Snapshot) map[string]Venue { return s.Venues },
			func(s *Snapshot, m map[string]Venue) { s.Venues = m }),
		bucket("clubs", func(s Snapshot) map[string]Club { return s.Clubs },
			func(s *Snapshot, m map[string]Club) { s.Clubs = m }),
		bucket("calendar_events", func(s Snapshot) map[string]CalendarEvent { return s.Events },
			func(s *Snapshot, m map[string]CalendarEvent) { s.Events = m }),
		bucket("follows", func(s Snapshot) map[string]Follow { return s.Follows },
			func(s *Snapshot, m map[string]Follow) { s.Follows = m }),
		bucket("feed_activities", func(s Snapshot) map[string]FeedActivity { return s.Activities },
			func(s *Snapshot, m map[string]FeedActivity) { s.Activities = m }),
		bucket("guild_invitations", func(s Snapshot) map[string]GuildInvitation { return s.Invitations },
			func(s *Snapshot, m map[string]GuildInvitation) { s.Invitations = m }),
	}
}
