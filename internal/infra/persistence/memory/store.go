// Package memory provides the in-memory implementation of the core
// persistence store. It is the reference Entity Store: durable backends embed
// it and snapshot its state after each committed transaction.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"scenecore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain
// persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// User aliases domain.User for in-memory persistence operations.
	User = domain.User
	// Tag aliases domain.Tag.
	Tag = domain.Tag
	// Guild aliases domain.Guild.
	Guild = domain.Guild
	// Act aliases domain.Act.
	Act = domain.Act
	// Venue aliases domain.Venue.
	Venue = domain.Venue
	// Club aliases domain.Club.
	Club = domain.Club
	// CalendarEvent aliases domain.CalendarEvent.
	CalendarEvent = domain.CalendarEvent
	// Follow aliases domain.Follow.
	Follow = domain.Follow
	// FeedActivity aliases domain.FeedActivity.
	FeedActivity = domain.FeedActivity
	// GuildInvitation aliases domain.GuildInvitation.
	GuildInvitation = domain.GuildInvitation
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// RuleView aliases domain.RuleView providing read-only snapshot state.
	RuleView = domain.RuleView
	// PersistentStore aliases the domain.PersistentStore abstraction.
	PersistentStore = domain.PersistentStore
)

// index is a secondary index from an encoded key to the set of record ids
// registered under it. Unique constraints are indexes whose key sets must
// never exceed one id; relation indexes carry arbitrary fan-out.
type index map[string]map[string]struct{}

func (ix index) add(key, id string) {
	set, ok := ix[key]
	if !ok {
		set = make(map[string]struct{})
		ix[key] = set
	}
	set[id] = struct{}{}
}

func (ix index) remove(key, id string) {
	set, ok := ix[key]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(ix, key)
	}
}

func (ix index) ids(key string) []string {
	set, ok := ix[key]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sortStrings(out)
	return out
}

func (ix index) clone() index {
	cloned := make(index, len(ix))
	for key, set := range ix {
		cp := make(map[string]struct{}, len(set))
		for id := range set {
			cp[id] = struct{}{}
		}
		cloned[key] = cp
	}
	return cloned
}

func sortStrings(s []string) {
	// insertion sort keeps the helper dependency-free; id sets are small
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// stateIndexes holds every secondary index, maintained in lock-step with the
// primary maps so that an aborted transaction discards index mutations along
// with the rest of its state.
type stateIndexes struct {
	userEmail    index // email -> user ids (unique)
	userAuthID   index // external auth id -> user ids (unique)
	tagKey       index // (category,value) -> tag ids (unique)
	followKey    index // null-aware compound tuple -> follow ids (unique)
	inviteKey    index // (guild,invited user) -> invitation ids (unique)
	guildByAct   index // act id -> guild ids (unique back-reference)
	guildByVenue index // venue id -> guild ids (unique back-reference)
	guildByClub  index // club id -> guild ids (unique back-reference)

	guildsByOwner   index // user id -> guild ids owned
	guildsByCreator index // user id -> guild ids created
	guildsByMember  index // user id -> guild ids joined
	followsByUser   index // follower user id -> follow ids
	followsByTarget index // kind:target id -> follow ids
	invitesByGuild  index // guild id -> invitation ids
	invitesByUser   index // invited user id -> invitation ids
	invitesBySender index // inviting user id -> invitation ids
	eventsByVenue   index // venue id -> event ids
	eventsByAct     index // act id -> event ids
	actsByUser      index // scoped user id -> feed activity ids
	actsByEvent     index // calendar event id -> feed activity ids
}

func newStateIndexes() stateIndexes {
	return stateIndexes{
		userEmail:       make(index),
		userAuthID:      make(index),
		tagKey:          make(index),
		followKey:       make(index),
		inviteKey:       make(index),
		guildByAct:      make(index),
		guildByVenue:    make(index),
		guildByClub:     make(index),
		guildsByOwner:   make(index),
		guildsByCreator: make(index),
		guildsByMember:  make(index),
		followsByUser:   make(index),
		followsByTarget: make(index),
		invitesByGuild:  make(index),
		invitesByUser:   make(index),
		invitesBySender: make(index),
		eventsByVenue:   make(index),
		eventsByAct:     make(index),
		actsByUser:      make(index),
		actsByEvent:     make(index),
	}
}

func (ix stateIndexes) clone() stateIndexes {
	return stateIndexes{
		userEmail:       ix.userEmail.clone(),
		userAuthID:      ix.userAuthID.clone(),
		tagKey:          ix.tagKey.clone(),
		followKey:       ix.followKey.clone(),
		inviteKey:       ix.inviteKey.clone(),
		guildByAct:      ix.guildByAct.clone(),
		guildByVenue:    ix.guildByVenue.clone(),
		guildByClub:     ix.guildByClub.clone(),
		guildsByOwner:   ix.guildsByOwner.clone(),
		guildsByCreator: ix.guildsByCreator.clone(),
		guildsByMember:  ix.guildsByMember.clone(),
		followsByUser:   ix.followsByUser.clone(),
		followsByTarget: ix.followsByTarget.clone(),
		invitesByGuild:  ix.invitesByGuild.clone(),
		invitesByUser:   ix.invitesByUser.clone(),
		invitesBySender: ix.invitesBySender.clone(),
		eventsByVenue:   ix.eventsByVenue.clone(),
		eventsByAct:     ix.eventsByAct.clone(),
		actsByUser:      ix.actsByUser.clone(),
		actsByEvent:     ix.actsByEvent.clone(),
	}
}

func followTargetKey(kind domain.FollowKind, targetID string) string {
	return string(kind) + ":" + targetID
}

func (ix *stateIndexes) applyUser(u User, add bool) {
	op := ix.op(add)
	op(ix.userEmail, u.Email, u.ID)
	if u.ExternalAuthID != nil {
		op(ix.userAuthID, *u.ExternalAuthID, u.ID)
	}
}

func (ix *stateIndexes) applyTag(t Tag, add bool) {
	ix.op(add)(ix.tagKey, domain.TagUniqueKey(t.Category, t.Value), t.ID)
}

func (ix *stateIndexes) applyGuild(g Guild, add bool) {
	op := ix.op(add)
	op(ix.guildsByOwner, g.CurrentOwnerID, g.ID)
	if g.CreatedByID != nil {
		op(ix.guildsByCreator, *g.CreatedByID, g.ID)
	}
	for _, member := range g.MemberIDs {
		op(ix.guildsByMember, member, g.ID)
	}
	if g.ActID != nil {
		op(ix.guildByAct, *g.ActID, g.ID)
	}
	if g.VenueID != nil {
		op(ix.guildByVenue, *g.VenueID, g.ID)
	}
	if g.ClubID != nil {
		op(ix.guildByClub, *g.ClubID, g.ID)
	}
}

func (ix *stateIndexes) applyFollow(f Follow, add bool) {
	op := ix.op(add)
	op(ix.followKey, domain.FollowUniqueKey(f), f.ID)
	op(ix.followsByUser, f.UserID, f.ID)
	if f.FollowedUserID != nil {
		op(ix.followsByTarget, followTargetKey(domain.FollowUser, *f.FollowedUserID), f.ID)
	}
	if f.TagID != nil {
		op(ix.followsByTarget, followTargetKey(domain.FollowTag, *f.TagID), f.ID)
	}
	if f.GuildID != nil {
		op(ix.followsByTarget, followTargetKey(domain.FollowGuild, *f.GuildID), f.ID)
	}
}

func (ix *stateIndexes) applyEvent(e CalendarEvent, add bool) {
	op := ix.op(add)
	op(ix.eventsByVenue, e.VenueID, e.ID)
	for _, actID := range e.ActIDs {
		op(ix.eventsByAct, actID, e.ID)
	}
}

func (ix *stateIndexes) applyActivity(a FeedActivity, add bool) {
	op := ix.op(add)
	if a.UserID != nil {
		op(ix.actsByUser, *a.UserID, a.ID)
	}
	if a.CalendarEventID != nil {
		op(ix.actsByEvent, *a.CalendarEventID, a.ID)
	}
}

func (ix *stateIndexes) applyInvitation(inv GuildInvitation, add bool) {
	op := ix.op(add)
	op(ix.inviteKey, domain.InvitationUniqueKey(inv.GuildID, inv.InvitedUserID), inv.ID)
	op(ix.invitesByGuild, inv.GuildID, inv.ID)
	op(ix.invitesByUser, inv.InvitedUserID, inv.ID)
	if inv.InvitedByID != nil {
		op(ix.invitesBySender, *inv.InvitedByID, inv.ID)
	}
}

func (ix *stateIndexes) op(add bool) func(index, string, string) {
	if add {
		return func(i index, key, id string) { i.add(key, id) }
	}
	return func(i index, key, id string) { i.remove(key, id) }
}

type memoryState struct {
	users       map[string]User
	tags        map[string]Tag
	guilds      map[string]Guild
	acts        map[string]Act
	venues      map[string]Venue
	clubs       map[string]Club
	events      map[string]CalendarEvent
	follows     map[string]Follow
	activities  map[string]FeedActivity
	invitations map[string]GuildInvitation
	indexes     stateIndexes
}

// Snapshot captures a point-in-time clone of the store state. Indexes are not
// serialized; they are rebuilt on import.
type Snapshot struct {
	Users       map[string]User            `json:"users"`
	Tags        map[string]Tag             `json:"tags"`
	Guilds      map[string]Guild           `json:"guilds"`
	Acts        map[string]Act             `json:"acts"`
	Venues      map[string]Venue           `json:"venues"`
	Clubs       map[string]Club            `json:"clubs"`
	Events      map[string]CalendarEvent   `json:"calendar_events"`
	Follows     map[string]Follow          `json:"follows"`
	Activities  map[string]FeedActivity    `json:"feed_activities"`
	Invitations map[string]GuildInvitation `json:"guild_invitations"`
}

func newMemoryState() memoryState {
	return memoryState{
		users:       make(map[string]User),
		tags:        make(map[string]Tag),
		guilds:      make(map[string]Guild),
		acts:        make(map[string]Act),
		venues:      make(map[string]Venue),
		clubs:       make(map[string]Club),
		events:      make(map[string]CalendarEvent),
		follows:     make(map[string]Follow),
		activities:  make(map[string]FeedActivity),
		invitations: make(map[string]GuildInvitation),
		indexes:     newStateIndexes(),
	}
}

func cloneUser(u User) User { return u }

func cloneTag(t Tag) Tag { return t }

func cloneAct(a Act) Act { return a }

func cloneVenue(v Venue) Venue { return v }

func cloneClub(c Club) Club { return c }

func cloneFollow(f Follow) Follow { return f }

func cloneActivity(a FeedActivity) FeedActivity { return a }

func cloneInvitation(i GuildInvitation) GuildInvitation { return i }

func cloneGuild(g Guild) Guild {
	cp := g
	cp.MemberIDs = append([]string(nil), g.MemberIDs...)
	return cp
}

func cloneEvent(e CalendarEvent) CalendarEvent {
	cp := e
	cp.ActIDs = append([]string(nil), e.ActIDs...)
	return cp
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.users {
		cloned.users[k] = cloneUser(v)
	}
	for k, v := range s.tags {
		cloned.tags[k] = cloneTag(v)
	}
	for k, v := range s.guilds {
		cloned.guilds[k] = cloneGuild(v)
	}
	for k, v := range s.acts {
		cloned.acts[k] = cloneAct(v)
	}
	for k, v := range s.venues {
		cloned.venues[k] = cloneVenue(v)
	}
	for k, v := range s.clubs {
		cloned.clubs[k] = cloneClub(v)
	}
	for k, v := range s.events {
		cloned.events[k] = cloneEvent(v)
	}
	for k, v := range s.follows {
		cloned.follows[k] = cloneFollow(v)
	}
	for k, v := range s.activities {
		cloned.activities[k] = cloneActivity(v)
	}
	for k, v := range s.invitations {
		cloned.invitations[k] = cloneInvitation(v)
	}
	cloned.indexes = s.indexes.clone()
	return cloned
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	s := Snapshot{
		Users:       make(map[string]User, len(state.users)),
		Tags:        make(map[string]Tag, len(state.tags)),
		Guilds:      make(map[string]Guild, len(state.guilds)),
		Acts:        make(map[string]Act, len(state.acts)),
		Venues:      make(map[string]Venue, len(state.venues)),
		Clubs:       make(map[string]Club, len(state.clubs)),
		Events:      make(map[string]CalendarEvent, len(state.events)),
		Follows:     make(map[string]Follow, len(state.follows)),
		Activities:  make(map[string]FeedActivity, len(state.activities)),
		Invitations: make(map[string]GuildInvitation, len(state.invitations)),
	}
	for k, v := range state.users {
		s.Users[k] = cloneUser(v)
	}
	for k, v := range state.tags {
		s.Tags[k] = cloneTag(v)
	}
	for k, v := range state.guilds {
		s.Guilds[k] = cloneGuild(v)
	}
	for k, v := range state.acts {
		s.Acts[k] = cloneAct(v)
	}
	for k, v := range state.venues {
		s.Venues[k] = cloneVenue(v)
	}
	for k, v := range state.clubs {
		s.Clubs[k] = cloneClub(v)
	}
	for k, v := range state.events {
		s.Events[k] = cloneEvent(v)
	}
	for k, v := range state.follows {
		s.Follows[k] = cloneFollow(v)
	}
	for k, v := range state.activities {
		s.Activities[k] = cloneActivity(v)
	}
	for k, v := range state.invitations {
		s.Invitations[k] = cloneInvitation(v)
	}
	return s
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for k, v := range s.Users {
		state.users[k] = cloneUser(v)
		state.indexes.applyUser(v, true)
	}
	for k, v := range s.Tags {
		state.tags[k] = cloneTag(v)
		state.indexes.applyTag(v, true)
	}
	for k, v := range s.Guilds {
		state.guilds[k] = cloneGuild(v)
		state.indexes.applyGuild(v, true)
	}
	for k, v := range s.Acts {
		state.acts[k] = cloneAct(v)
	}
	for k, v := range s.Venues {
		state.venues[k] = cloneVenue(v)
	}
	for k, v := range s.Clubs {
		state.clubs[k] = cloneClub(v)
	}
	for k, v := range s.Events {
		state.events[k] = cloneEvent(v)
		state.indexes.applyEvent(v, true)
	}
	for k, v := range s.Follows {
		state.follows[k] = cloneFollow(v)
		state.indexes.applyFollow(v, true)
	}
	for k, v := range s.Activities {
		state.activities[k] = cloneActivity(v)
		state.indexes.applyActivity(v, true)
	}
	for k, v := range s.Invitations {
		state.invitations[k] = cloneInvitation(v)
		state.indexes.applyInvitation(v, true)
	}
	return state
}

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot, rebuilding
// every secondary index.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(snapshot)
}

// RulesEngine exposes the currently configured engine for integration points.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// SetNowFunc overrides the time provider. Intended for deterministic tests.
func (s *Store) SetNowFunc(fn func() time.Time) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = fn
}

// transaction represents a mutation set applied to the store state.
type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

// transactionView exposes a read-only snapshot of the transactional state to
// rules and resolvers.
type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) RuleView {
	return transactionView{state: state}
}

// RunInTransaction executes fn within a transactional copy of the store state.
// The copy, including all index structures, replaces the live state only after
// fn succeeds and no blocking rule violation is present; an abort at any point
// leaves no partial mutation visible to readers.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(RuleView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	view := newTransactionView(&snapshot)
	return fn(view)
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() RuleView {
	return newTransactionView(&tx.state)
}

// Now returns the timestamp used for every stamp in this transaction.
func (tx *transaction) Now() time.Time {
	return tx.now
}

func notFound(entity domain.EntityType, id string) error {
	return domain.NotFoundError{Entity: entity, ID: id}
}

// CreateUser stores a new user within the transaction.
func (tx *transaction) CreateUser(u User) (User, error) {
	if u.ID == "" {
		u.ID = tx.store.newID()
	}
	if _, exists := tx.state.users[u.ID]; exists {
		return User{}, fmt.Errorf("user %q already exists", u.ID)
	}
	if u.Email == "" {
		return User{}, errors.New("user email is required")
	}
	u.CreatedAt = tx.now
	u.UpdatedAt = tx.now
	tx.state.users[u.ID] = cloneUser(u)
	tx.state.indexes.applyUser(u, true)
	tx.recordChange(Change{Entity: domain.EntityUser, Action: domain.ActionCreate, After: cloneUser(u)})
	return cloneUser(u), nil
}

// UpdateUser mutates a user using the provided mutator function.
func (tx *transaction) UpdateUser(id string, mutator func(*User) error) (User, error) {
	current, ok := tx.state.users[id]
	if !ok {
		return User{}, notFound(domain.EntityUser, id)
	}
	before := cloneUser(current)
	if err := mutator(&current); err != nil {
		return User{}, err
	}
	if current.Email == "" {
		return User{}, errors.New("user email is required")
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.indexes.applyUser(before, false)
	tx.state.indexes.applyUser(current, true)
	tx.state.users[id] = cloneUser(current)
	tx.recordChange(Change{Entity: domain.EntityUser, Action: domain.ActionUpdate, Before: before, After: cloneUser(current)})
	return cloneUser(current), nil
}

// DeleteUser removes a user from the transaction state.
func (tx *transaction) DeleteUser(id string) error {
	current, ok := tx.state.users[id]
	if !ok {
		return notFound(domain.EntityUser, id)
	}
	delete(tx.state.users, id)
	tx.state.indexes.applyUser(current, false)
	tx.recordChange(Change{Entity: domain.EntityUser, Action: domain.ActionDelete, Before: cloneUser(current)})
	return nil
}

// CreateTag stores a new tag.
func (tx *transaction) CreateTag(t Tag) (Tag, error) {
	if t.ID == "" {
		t.ID = tx.store.newID()
	}
	if _, exists := tx.state.tags[t.ID]; exists {
		return Tag{}, fmt.Errorf("tag %q already exists", t.ID)
	}
	if t.Category == "" || t.Value == "" {
		return Tag{}, errors.New("tag category and value are required")
	}
	tx.state.tags[t.ID] = cloneTag(t)
	tx.state.indexes.applyTag(t, true)
	tx.recordChange(Change{Entity: domain.EntityTag, Action: domain.ActionCreate, After: cloneTag(t)})
	return cloneTag(t), nil
}

// DeleteTag removes a tag.
func (tx *transaction) DeleteTag(id string) error {
	current, ok := tx.state.tags[id]
	if !ok {
		return notFound(domain.EntityTag, id)
	}
	delete(tx.state.tags, id)
	tx.state.indexes.applyTag(current, false)
	tx.recordChange(Change{Entity: domain.EntityTag, Action: domain.ActionDelete, Before: cloneTag(current)})
	return nil
}

// CreateGuild stores a new guild.
func (tx *transaction) CreateGuild(g Guild) (Guild, error) {
	if g.ID == "" {
		g.ID = tx.store.newID()
	}
	if _, exists := tx.state.guilds[g.ID]; exists {
		return Guild{}, fmt.Errorf("guild %q already exists", g.ID)
	}
	if g.Name == "" {
		return Guild{}, errors.New("guild name is required")
	}
	g.CreatedAt = tx.now
	g.UpdatedAt = tx.now
	tx.state.guilds[g.ID] = cloneGuild(g)
	tx.state.indexes.applyGuild(g, true)
	tx.recordChange(Change{Entity: domain.EntityGuild, Action: domain.ActionCreate, After: cloneGuild(g)})
	return cloneGuild(g), nil
}

// UpdateGuild mutates an existing guild.
func (tx *transaction) UpdateGuild(id string, mutator func(*Guild) error) (Guild, error) {
	current, ok := tx.state.guilds[id]
	if !ok {
		return Guild{}, notFound(domain.EntityGuild, id)
	}
	before := cloneGuild(current)
	current = cloneGuild(current)
	if err := mutator(&current); err != nil {
		return Guild{}, err
	}
	if current.Name == "" {
		return Guild{}, errors.New("guild name is required")
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.indexes.applyGuild(before, false)
	tx.state.indexes.applyGuild(current, true)
	tx.state.guilds[id] = cloneGuild(current)
	tx.recordChange(Change{Entity: domain.EntityGuild, Action: domain.ActionUpdate, Before: before, After: cloneGuild(current)})
	return cloneGuild(current), nil
}

// DeleteGuild removes a guild from state.
func (tx *transaction) DeleteGuild(id string) error {
	current, ok := tx.state.guilds[id]
	if !ok {
		return notFound(domain.EntityGuild, id)
	}
	delete(tx.state.guilds, id)
	tx.state.indexes.applyGuild(current, false)
	tx.recordChange(Change{Entity: domain.EntityGuild, Action: domain.ActionDelete, Before: cloneGuild(current)})
	return nil
}

// CreateAct stores a new act payload record.
func (tx *transaction) CreateAct(a Act) (Act, error) {
	if a.ID == "" {
		a.ID = tx.store.newID()
	}
	if _, exists := tx.state.acts[a.ID]; exists {
		return Act{}, fmt.Errorf("act %q already exists", a.ID)
	}
	if a.Name == "" {
		return Act{}, errors.New("act name is required")
	}
	a.CreatedAt = tx.now
	a.UpdatedAt = tx.now
	tx.state.acts[a.ID] = cloneAct(a)
	tx.recordChange(Change{Entity: domain.EntityAct, Action: domain.ActionCreate, After: cloneAct(a)})
	return cloneAct(a), nil
}

// UpdateAct mutates an existing act.
func (tx *transaction) UpdateAct(id string, mutator func(*Act) error) (Act, error) {
	current, ok := tx.state.acts[id]
	if !ok {
		return Act{}, notFound(domain.EntityAct, id)
	}
	before := cloneAct(current)
	if err := mutator(&current); err != nil {
		return Act{}, err
	}
	if current.Name == "" {
		return Act{}, errors.New("act name is required")
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.acts[id] = cloneAct(current)
	tx.recordChange(Change{Entity: domain.EntityAct, Action: domain.ActionUpdate, Before: before, After: cloneAct(current)})
	return cloneAct(current), nil
}

// DeleteAct removes an act.
func (tx *transaction) DeleteAct(id string) error {
	current, ok := tx.state.acts[id]
	if !ok {
		return notFound(domain.EntityAct, id)
	}
	delete(tx.state.acts, id)
	tx.recordChange(Change{Entity: domain.EntityAct, Action: domain.ActionDelete, Before: cloneAct(current)})
	return nil
}

// CreateVenue stores a new venue payload record.
func (tx *transaction) CreateVenue(v Venue) (Venue, error) {
	if v.ID == "" {
		v.ID = tx.store.newID()
	}
	if _, exists := tx.state.venues[v.ID]; exists {
		return Venue{}, fmt.Errorf("venue %q already exists", v.ID)
	}
	if v.Name == "" {
		return Venue{}, errors.New("venue name is required")
	}
	v.CreatedAt = tx.now
	v.UpdatedAt = tx.now
	tx.state.venues[v.ID] = cloneVenue(v)
	tx.recordChange(Change{Entity: domain.EntityVenue, Action: domain.ActionCreate, After: cloneVenue(v)})
	return cloneVenue(v), nil
}

// UpdateVenue mutates an existing venue.
func (tx *transaction) UpdateVenue(id string, mutator func(*Venue) error) (Venue, error) {
	current, ok := tx.state.venues[id]
	if !ok {
		return Venue{}, notFound(domain.EntityVenue, id)
	}
	before := cloneVenue(current)
	if err := mutator(&current); err != nil {
		return Venue{}, err
	}
	if current.Name == "" {
		return Venue{}, errors.New("venue name is required")
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.venues[id] = cloneVenue(current)
	tx.recordChange(Change{Entity: domain.EntityVenue, Action: domain.ActionUpdate, Before: before, After: cloneVenue(current)})
	return cloneVenue(current), nil
}

// DeleteVenue removes a venue.
func (tx *transaction) DeleteVenue(id string) error {
	current, ok := tx.state.venues[id]
	if !ok {
		return notFound(domain.EntityVenue, id)
	}
	delete(tx.state.venues, id)
	tx.recordChange(Change{Entity: domain.EntityVenue, Action: domain.ActionDelete, Before: cloneVenue(current)})
	return nil
}

// CreateClub stores a new club payload record.
func (tx *transaction) CreateClub(c Club) (Club, error) {
	if c.ID == "" {
		c.ID = tx.store.newID()
	}
	if _, exists := tx.state.clubs[c.ID]; exists {
		return Club{}, fmt.Errorf("club %q already exists", c.ID)
	}
	if c.Name == "" {
		return Club{}, errors.New("club name is required")
	}
	c.CreatedAt = tx.now
	c.UpdatedAt = tx.now
	tx.state.clubs[c.ID] = cloneClub(c)
	tx.recordChange(Change{Entity: domain.EntityClub, Action: domain.ActionCreate, After: cloneClub(c)})
	return cloneClub(c), nil
}

// UpdateClub mutates an existing club.
func (tx *transaction) UpdateClub(id string, mutator func(*Club) error) (Club, error) {
	current, ok := tx.state.clubs[id]
	if !ok {
		return Club{}, notFound(domain.EntityClub, id)
	}
	before := cloneClub(current)
	if err := mutator(&current); err != nil {
		return Club{}, err
	}
	if current.Name == "" {
		return Club{}, errors.New("club name is required")
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.clubs[id] = cloneClub(current)
	tx.recordChange(Change{Entity: domain.EntityClub, Action: domain.ActionUpdate, Before: before, After: cloneClub(current)})
	return cloneClub(current), nil
}

// DeleteClub removes a club.
func (tx *transaction) DeleteClub(id string) error {
	current, ok := tx.state.clubs[id]
	if !ok {
		return notFound(domain.EntityClub, id)
	}
	delete(tx.state.clubs, id)
	tx.recordChange(Change{Entity: domain.EntityClub, Action: domain.ActionDelete, Before: cloneClub(current)})
	return nil
}

// CreateCalendarEvent stores a new calendar event.
func (tx *transaction) CreateCalendarEvent(e CalendarEvent) (CalendarEvent, error) {
	if e.ID == "" {
		e.ID = tx.store.newID()
	}
	if _, exists := tx.state.events[e.ID]; exists {
		return CalendarEvent{}, fmt.Errorf("calendar event %q already exists", e.ID)
	}
	if e.DurationMinutes < 0 {
		return CalendarEvent{}, errors.New("event duration must be non-negative")
	}
	e.CreatedAt = tx.now
	e.UpdatedAt = tx.now
	tx.state.events[e.ID] = cloneEvent(e)
	tx.state.indexes.applyEvent(e, true)
	tx.recordChange(Change{Entity: domain.EntityCalendarEvent, Action: domain.ActionCreate, After: cloneEvent(e)})
	return cloneEvent(e), nil
}

// UpdateCalendarEvent mutates an existing calendar event.
func (tx *transaction) UpdateCalendarEvent(id string, mutator func(*CalendarEvent) error) (CalendarEvent, error) {
	current, ok := tx.state.events[id]
	if !ok {
		return CalendarEvent{}, notFound(domain.EntityCalendarEvent, id)
	}
	before := cloneEvent(current)
	current = cloneEvent(current)
	if err := mutator(&current); err != nil {
		return CalendarEvent{}, err
	}
	if current.DurationMinutes < 0 {
		return CalendarEvent{}, errors.New("event duration must be non-negative")
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.indexes.applyEvent(before, false)
	tx.state.indexes.applyEvent(current, true)
	tx.state.events[id] = cloneEvent(current)
	tx.recordChange(Change{Entity: domain.EntityCalendarEvent, Action: domain.ActionUpdate, Before: before, After: cloneEvent(current)})
	return cloneEvent(current), nil
}

// DeleteCalendarEvent removes a calendar event.
func (tx *transaction) DeleteCalendarEvent(id string) error {
	current, ok := tx.state.events[id]
	if !ok {
		return notFound(domain.EntityCalendarEvent, id)
	}
	delete(tx.state.events, id)
	tx.state.indexes.applyEvent(current, false)
	tx.recordChange(Change{Entity: domain.EntityCalendarEvent, Action: domain.ActionDelete, Before: cloneEvent(current)})
	return nil
}

// CreateFollow stores a new follow edge. Follows are immutable; there is no
// update operation.
func (tx *transaction) CreateFollow(f Follow) (Follow, error) {
	if f.ID == "" {
		f.ID = tx.store.newID()
	}
	if _, exists := tx.state.follows[f.ID]; exists {
		return Follow{}, fmt.Errorf("follow %q already exists", f.ID)
	}
	f.CreatedAt = tx.now
	tx.state.follows[f.ID] = cloneFollow(f)
	tx.state.indexes.applyFollow(f, true)
	tx.recordChange(Change{Entity: domain.EntityFollow, Action: domain.ActionCreate, After: cloneFollow(f)})
	return cloneFollow(f), nil
}

// DeleteFollow removes a follow edge.
func (tx *transaction) DeleteFollow(id string) error {
	current, ok := tx.state.follows[id]
	if !ok {
		return notFound(domain.EntityFollow, id)
	}
	delete(tx.state.follows, id)
	tx.state.indexes.applyFollow(current, false)
	tx.recordChange(Change{Entity: domain.EntityFollow, Action: domain.ActionDelete, Before: cloneFollow(current)})
	return nil
}

// CreateFeedActivity stores a new feed activity record.
func (tx *transaction) CreateFeedActivity(a FeedActivity) (FeedActivity, error) {
	if a.ID == "" {
		a.ID = tx.store.newID()
	}
	if _, exists := tx.state.activities[a.ID]; exists {
		return FeedActivity{}, fmt.Errorf("feed activity %q already exists", a.ID)
	}
	if a.ActivityType == "" {
		return FeedActivity{}, errors.New("activity type is required")
	}
	a.CreatedAt = tx.now
	tx.state.activities[a.ID] = cloneActivity(a)
	tx.state.indexes.applyActivity(a, true)
	tx.recordChange(Change{Entity: domain.EntityFeedActivity, Action: domain.ActionCreate, After: cloneActivity(a)})
	return cloneActivity(a), nil
}

// UpdateFeedActivity mutates a feed activity using the provided mutator. The
// creation timestamp is preserved; only the reference columns are expected to
// change.
func (tx *transaction) UpdateFeedActivity(id string, mutator func(*FeedActivity) error) (FeedActivity, error) {
	current, ok := tx.state.activities[id]
	if !ok {
		return FeedActivity{}, notFound(domain.EntityFeedActivity, id)
	}
	before := cloneActivity(current)
	if err := mutator(&current); err != nil {
		return FeedActivity{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	tx.state.indexes.applyActivity(before, false)
	tx.state.activities[id] = cloneActivity(current)
	tx.state.indexes.applyActivity(current, true)
	tx.recordChange(Change{Entity: domain.EntityFeedActivity, Action: domain.ActionUpdate, Before: before, After: cloneActivity(current)})
	return cloneActivity(current), nil
}

// DeleteFeedActivity removes a feed activity record.
func (tx *transaction) DeleteFeedActivity(id string) error {
	current, ok := tx.state.activities[id]
	if !ok {
		return notFound(domain.EntityFeedActivity, id)
	}
	delete(tx.state.activities, id)
	tx.state.indexes.applyActivity(current, false)
	tx.recordChange(Change{Entity: domain.EntityFeedActivity, Action: domain.ActionDelete, Before: cloneActivity(current)})
	return nil
}

// CreateGuildInvitation stores a new invitation. Status defaults to pending.
func (tx *transaction) CreateGuildInvitation(inv GuildInvitation) (GuildInvitation, error) {
	if inv.ID == "" {
		inv.ID = tx.store.newID()
	}
	if _, exists := tx.state.invitations[inv.ID]; exists {
		return GuildInvitation{}, fmt.Errorf("guild invitation %q already exists", inv.ID)
	}
	if inv.Status == "" {
		inv.Status = domain.InvitationPending
	}
	inv.CreatedAt = tx.now
	tx.state.invitations[inv.ID] = cloneInvitation(inv)
	tx.state.indexes.applyInvitation(inv, true)
	tx.recordChange(Change{Entity: domain.EntityGuildInvitation, Action: domain.ActionCreate, After: cloneInvitation(inv)})
	return cloneInvitation(inv), nil
}

// UpdateGuildInvitation mutates an existing invitation.
func (tx *transaction) UpdateGuildInvitation(id string, mutator func(*GuildInvitation) error) (GuildInvitation, error) {
	current, ok := tx.state.invitations[id]
	if !ok {
		return GuildInvitation{}, notFound(domain.EntityGuildInvitation, id)
	}
	before := cloneInvitation(current)
	if err := mutator(&current); err != nil {
		return GuildInvitation{}, err
	}
	current.ID = id
	tx.state.indexes.applyInvitation(before, false)
	tx.state.indexes.applyInvitation(current, true)
	tx.state.invitations[id] = cloneInvitation(current)
	tx.recordChange(Change{Entity: domain.EntityGuildInvitation, Action: domain.ActionUpdate, Before: before, After: cloneInvitation(current)})
	return cloneInvitation(current), nil
}

// DeleteGuildInvitation removes an invitation record.
func (tx *transaction) DeleteGuildInvitation(id string) error {
	current, ok := tx.state.invitations[id]
	if !ok {
		return notFound(domain.EntityGuildInvitation, id)
	}
	delete(tx.state.invitations, id)
	tx.state.indexes.applyInvitation(current, false)
	tx.recordChange(Change{Entity: domain.EntityGuildInvitation, Action: domain.ActionDelete, Before: cloneInvitation(current)})
	return nil
}
