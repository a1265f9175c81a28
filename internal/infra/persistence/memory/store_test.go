package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"scenecore/pkg/domain"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(nil)
	store.SetNowFunc(fixedNow)
	return store
}

func mustCreateUser(t *testing.T, store *Store, email string) domain.User {
	t.Helper()
	var user domain.User
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		created, err := tx.CreateUser(domain.User{Email: email})
		if err != nil {
			return err
		}
		user = created
		return nil
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestCreateUserStampsAndClones(t *testing.T) {
	store := newTestStore(t)
	user := mustCreateUser(t, store, "ada@example.com")

	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !user.CreatedAt.Equal(fixedNow()) || !user.UpdatedAt.Equal(fixedNow()) {
		t.Fatalf("expected transaction timestamp on stamps, got %v / %v", user.CreatedAt, user.UpdatedAt)
	}

	got, ok := store.GetUser(user.ID)
	if !ok {
		t.Fatalf("expected user to be readable")
	}
	got.Email = "mutated@example.com"
	again, _ := store.GetUser(user.ID)
	if again.Email != "ada@example.com" {
		t.Fatalf("store leaked internal state through a read")
	}
}

func TestCreateUserRequiresEmail(t *testing.T) {
	store := newTestStore(t)
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateUser(domain.User{})
		return err
	})
	if err == nil {
		t.Fatalf("expected error for missing email")
	}
	if len(store.ListUsers()) != 0 {
		t.Fatalf("aborted transaction left state behind")
	}
}

func TestTransactionAbortDiscardsIndexMutations(t *testing.T) {
	store := newTestStore(t)
	sentinel := errors.New("abort")

	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreateUser(domain.User{Email: "ghost@example.com"}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel abort, got %v", err)
	}

	if err := store.View(context.Background(), func(view domain.RuleView) error {
		if ids := view.UsersByEmail("ghost@example.com"); len(ids) != 0 {
			t.Fatalf("aborted transaction left index entries: %v", ids)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

type blockEverything struct{}

func (blockEverything) Name() string { return "block_everything" }

func (blockEverything) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for range changes {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "block_everything",
			Kind:     domain.KindShape,
			Severity: domain.SeverityBlock,
			Message:  "nothing may change",
		})
	}
	return res, nil
}

func TestBlockingViolationAbortsCommit(t *testing.T) {
	engine := domain.NewRulesEngine()
	engine.Register(blockEverything{})
	store := NewStore(engine)
	store.SetNowFunc(fixedNow)

	res, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateUser(domain.User{Email: "blocked@example.com"})
		return err
	})
	var rve domain.RuleViolationError
	if !errors.As(err, &rve) {
		t.Fatalf("expected RuleViolationError, got %v", err)
	}
	if !res.HasBlocking() {
		t.Fatalf("expected blocking result to be surfaced")
	}
	if len(store.ListUsers()) != 0 {
		t.Fatalf("blocked commit mutated live state")
	}
}

func TestUpdateReindexesUniqueColumns(t *testing.T) {
	store := newTestStore(t)
	user := mustCreateUser(t, store, "old@example.com")

	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.UpdateUser(user.ID, func(u *domain.User) error {
			u.Email = "new@example.com"
			return nil
		})
		return err
	}); err != nil {
		t.Fatalf("update user: %v", err)
	}

	if err := store.View(context.Background(), func(view domain.RuleView) error {
		if ids := view.UsersByEmail("old@example.com"); len(ids) != 0 {
			t.Fatalf("stale index entry for old email: %v", ids)
		}
		if ids := view.UsersByEmail("new@example.com"); len(ids) != 1 || ids[0] != user.ID {
			t.Fatalf("missing index entry for new email: %v", ids)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestDeleteRemovesIndexEntries(t *testing.T) {
	store := newTestStore(t)
	user := mustCreateUser(t, store, "gone@example.com")

	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		return tx.DeleteUser(user.ID)
	}); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if err := store.View(context.Background(), func(view domain.RuleView) error {
		if ids := view.UsersByEmail("gone@example.com"); len(ids) != 0 {
			t.Fatalf("delete left index entries: %v", ids)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestUpdateMissingUserReturnsNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.UpdateUser("missing", func(u *domain.User) error { return nil })
		return err
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestFollowIndexesTrackTargetKind(t *testing.T) {
	store := newTestStore(t)
	follower := mustCreateUser(t, store, "follower@example.com")
	followed := mustCreateUser(t, store, "followed@example.com")

	var follow domain.Follow
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		created, err := tx.CreateFollow(domain.Follow{
			UserID:         follower.ID,
			Kind:           domain.FollowUser,
			FollowedUserID: &followed.ID,
		})
		if err != nil {
			return err
		}
		follow = created
		return nil
	}); err != nil {
		t.Fatalf("create follow: %v", err)
	}

	if err := store.View(context.Background(), func(view domain.RuleView) error {
		if ids := view.FollowsBy(follower.ID); len(ids) != 1 || ids[0] != follow.ID {
			t.Fatalf("FollowsBy mismatch: %v", ids)
		}
		if ids := view.FollowsTargeting(domain.FollowUser, followed.ID); len(ids) != 1 || ids[0] != follow.ID {
			t.Fatalf("FollowsTargeting mismatch: %v", ids)
		}
		if ids := view.FollowsTargeting(domain.FollowTag, followed.ID); len(ids) != 0 {
			t.Fatalf("kind bleed in target index: %v", ids)
		}
		if ids := view.FollowsByUniqueKey(domain.FollowUniqueKey(follow)); len(ids) != 1 {
			t.Fatalf("unique key index mismatch: %v", ids)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestGuildIndexesCoverOwnerCreatorMembersAndPayload(t *testing.T) {
	store := newTestStore(t)
	owner := mustCreateUser(t, store, "owner@example.com")
	member := mustCreateUser(t, store, "member@example.com")

	var guild domain.Guild
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		act, err := tx.CreateAct(domain.Act{Name: "The Quiet Ones"})
		if err != nil {
			return err
		}
		created, err := tx.CreateGuild(domain.Guild{
			Name:           "quiet-ones-fans",
			CreatedByID:    &owner.ID,
			CurrentOwnerID: owner.ID,
			MemberIDs:      []string{owner.ID, member.ID},
			ActID:          &act.ID,
		})
		if err != nil {
			return err
		}
		guild = created
		return nil
	}); err != nil {
		t.Fatalf("create guild: %v", err)
	}

	if err := store.View(context.Background(), func(view domain.RuleView) error {
		if ids := view.GuildsOwnedBy(owner.ID); len(ids) != 1 || ids[0] != guild.ID {
			t.Fatalf("GuildsOwnedBy mismatch: %v", ids)
		}
		if ids := view.GuildsCreatedBy(owner.ID); len(ids) != 1 {
			t.Fatalf("GuildsCreatedBy mismatch: %v", ids)
		}
		if ids := view.GuildsWithMember(member.ID); len(ids) != 1 {
			t.Fatalf("GuildsWithMember mismatch: %v", ids)
		}
		if ids := view.GuildsByAct(*guild.ActID); len(ids) != 1 {
			t.Fatalf("GuildsByAct mismatch: %v", ids)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestExportImportRebuildsIndexes(t *testing.T) {
	store := newTestStore(t)
	user := mustCreateUser(t, store, "persist@example.com")

	snapshot := store.ExportState()

	restored := NewStore(nil)
	restored.ImportState(snapshot)

	if got, ok := restored.GetUser(user.ID); !ok || got.Email != "persist@example.com" {
		t.Fatalf("restored store missing user")
	}
	if err := restored.View(context.Background(), func(view domain.RuleView) error {
		if ids := view.UsersByEmail("persist@example.com"); len(ids) != 1 {
			t.Fatalf("restored store missing index entry: %v", ids)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestSnapshotViewSeesUncommittedWrites(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		created, err := tx.CreateUser(domain.User{Email: "inside@example.com"})
		if err != nil {
			return err
		}
		if _, ok := tx.Snapshot().FindUser(created.ID); !ok {
			t.Fatalf("transaction snapshot does not include its own write")
		}
		return nil
	}); err != nil {
		t.Fatalf("transaction: %v", err)
	}
}
