package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"scenecore/internal/core"
	"scenecore/internal/infra/persistence/memory"
	"scenecore/internal/infra/persistence/sqlite"
	"scenecore/pkg/domain"
)

// coreVariants enumerates the storage backends the relationship scenarios run
// against. Postgres is excluded here; its store shares the transactional core
// with sqlite and is covered by its package tests against a stub driver.
func coreVariants(t *testing.T) []struct {
	name string
	open func(t *testing.T) domain.PersistentStore
} {
	t.Helper()
	return []struct {
		name string
		open func(t *testing.T) domain.PersistentStore
	}{
		{
			name: "memory",
			open: func(t *testing.T) domain.PersistentStore {
				return memory.NewStore(core.NewDefaultRulesEngine())
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T) domain.PersistentStore {
				path := filepath.Join(t.TempDir(), "integration.db")
				store, err := sqlite.NewStore(path, core.NewDefaultRulesEngine())
				if err != nil {
					t.Fatalf("open sqlite store: %v", err)
				}
				t.Cleanup(func() { _ = store.Close() })
				return store
			},
		},
	}
}

func TestGuildLifecycleAcrossBackends(t *testing.T) {
	for _, variant := range coreVariants(t) {
		t.Run(variant.name, func(t *testing.T) {
			ctx := context.Background()
			svc := core.NewService(variant.open(t))

			owner, _, err := svc.CreateUser(ctx, domain.User{Email: "owner@example.com"})
			if err != nil {
				t.Fatalf("create owner: %v", err)
			}
			joiner, _, err := svc.CreateUser(ctx, domain.User{Email: "joiner@example.com"})
			if err != nil {
				t.Fatalf("create joiner: %v", err)
			}
			guild, _, err := svc.CreateActGuild(ctx, domain.Act{Name: "Night Shift"}, domain.Guild{
				Name:           "night-shift",
				CreatedByID:    &owner.ID,
				CurrentOwnerID: owner.ID,
			})
			if err != nil {
				t.Fatalf("create guild: %v", err)
			}

			inv, _, err := svc.InviteToGuild(ctx, guild.ID, joiner.ID, &owner.ID)
			if err != nil {
				t.Fatalf("invite: %v", err)
			}
			if _, _, err := svc.RespondToInvitation(ctx, inv.ID, true); err != nil {
				t.Fatalf("accept: %v", err)
			}
			if _, _, err := svc.RespondToInvitation(ctx, inv.ID, false); !domain.IsInvalidTransition(err) {
				t.Fatalf("expected terminal invitation to absorb, got %v", err)
			}

			detail, err := svc.Resolver().GuildDetail(ctx, guild.ID)
			if err != nil {
				t.Fatalf("resolve guild: %v", err)
			}
			if len(detail.Members) != 2 {
				t.Fatalf("expected 2 members after accept, got %d", len(detail.Members))
			}
			if detail.Act == nil || detail.Act.Name != "Night Shift" {
				t.Fatalf("payload act not resolved: %+v", detail.Act)
			}
		})
	}
}

func TestDeletePolicyAcrossBackends(t *testing.T) {
	for _, variant := range coreVariants(t) {
		t.Run(variant.name, func(t *testing.T) {
			ctx := context.Background()
			svc := core.NewService(variant.open(t))

			owner, _, err := svc.CreateUser(ctx, domain.User{Email: "owner@example.com"})
			if err != nil {
				t.Fatalf("create owner: %v", err)
			}
			fan, _, err := svc.CreateUser(ctx, domain.User{Email: "fan@example.com"})
			if err != nil {
				t.Fatalf("create fan: %v", err)
			}
			guild, _, err := svc.CreateVenueGuild(ctx, domain.Venue{Name: "Warehouse"}, domain.Guild{
				Name:           "warehouse-crew",
				CurrentOwnerID: owner.ID,
			})
			if err != nil {
				t.Fatalf("create guild: %v", err)
			}
			if _, _, err := svc.FollowGuild(ctx, fan.ID, guild.ID); err != nil {
				t.Fatalf("follow guild: %v", err)
			}

			// Owner deletion is blocked while the guild exists.
			if _, err := svc.DeleteUser(ctx, owner.ID); !domain.IsReferentialViolation(err) {
				t.Fatalf("expected owner delete rejection, got %v", err)
			}
			// Guild deletion cascades the follow, then the owner can go.
			if _, err := svc.DeleteGuild(ctx, guild.ID); err != nil {
				t.Fatalf("delete guild: %v", err)
			}
			if _, err := svc.DeleteUser(ctx, owner.ID); err != nil {
				t.Fatalf("delete owner after guild removal: %v", err)
			}
			if _, err := svc.GetUser(owner.ID); !domain.IsNotFound(err) {
				t.Fatalf("owner should be gone, got %v", err)
			}
		})
	}
}

func TestEventFeedAcrossBackends(t *testing.T) {
	for _, variant := range coreVariants(t) {
		t.Run(variant.name, func(t *testing.T) {
			ctx := context.Background()
			svc := core.NewService(variant.open(t))

			venue, _, err := svc.CreateVenue(ctx, domain.Venue{Name: "Basement"})
			if err != nil {
				t.Fatalf("create venue: %v", err)
			}
			act, _, err := svc.CreateAct(ctx, domain.Act{Name: "Low End"})
			if err != nil {
				t.Fatalf("create act: %v", err)
			}
			event, _, err := svc.CreateCalendarEvent(ctx, domain.CalendarEvent{
				StartTime:       time.Date(2026, 9, 12, 22, 0, 0, 0, time.UTC),
				DurationMinutes: 120,
				VenueID:         venue.ID,
				ActIDs:          []string{act.ID},
			})
			if err != nil {
				t.Fatalf("create event: %v", err)
			}
			if _, _, err := svc.CreateFeedActivity(ctx, domain.FeedActivity{
				ActivityType:    "event_announced",
				SubjectType:     "calendar_event",
				SubjectID:       event.ID,
				CalendarEventID: &event.ID,
			}); err != nil {
				t.Fatalf("create activity: %v", err)
			}

			detail, err := svc.Resolver().EventDetail(ctx, event.ID)
			if err != nil {
				t.Fatalf("resolve event: %v", err)
			}
			if len(detail.Acts) != 1 || len(detail.Activities) != 1 {
				t.Fatalf("event detail incomplete: %d acts, %d activities", len(detail.Acts), len(detail.Activities))
			}

			// Venue deletion is blocked while the event exists.
			if _, err := svc.DeleteVenue(ctx, venue.ID); !domain.IsReferentialViolation(err) {
				t.Fatalf("expected venue delete rejection, got %v", err)
			}
		})
	}
}
