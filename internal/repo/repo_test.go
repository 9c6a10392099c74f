package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/technotes/internal/models"
	"github.com/Skotchmaster/technotes/internal/testutil"
	"github.com/Skotchmaster/technotes/internal/ticket"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	return &GormRepo{DB: testutil.NewDB(t)}
}

func TestUsers_CreateFindUpdateDelete(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	u := &models.User{Username: "alice", PasswordHash: "x", Roles: []string{"Employee", "Manager"}, Active: true}
	require.NoError(t, r.CreateUser(ctx, u))
	require.NotEqual(t, uuid.Nil, u.ID)

	got, err := r.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, []string{"Employee", "Manager"}, got.Roles)
	assert.True(t, got.Active)

	got.Active = false
	got.Roles = []string{"Admin"}
	require.NoError(t, r.SaveUser(ctx, got))

	again, err := r.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, again.Active)
	assert.Equal(t, []string{"Admin"}, again.Roles)

	require.NoError(t, r.DeleteUser(ctx, u.ID))
	_, err = r.FindUserByID(ctx, u.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, r.DeleteUser(ctx, u.ID), gorm.ErrRecordNotFound)
}

func TestUsers_UsernameTaken(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	alice, _ := testutil.NewUserBuilder().WithUsername("alice").Build(t, r.DB)

	taken, err := r.UsernameTaken(ctx, "alice", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = r.UsernameTaken(ctx, "alice", alice.ID)
	require.NoError(t, err)
	assert.False(t, taken, "a user does not collide with itself")

	taken, err = r.UsernameTaken(ctx, "bob", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUsers_ListAndLookupByIDs(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	users, err := r.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	b, _ := testutil.NewUserBuilder().WithUsername("bob").Build(t, r.DB)
	a, _ := testutil.NewUserBuilder().WithUsername("alice").Build(t, r.DB)

	users, err = r.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)

	byIDs, err := r.FindUsersByIDs(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)

	none, err := r.FindUsersByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUserHasNotes(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	owner, _ := testutil.NewUserBuilder().Build(t, r.DB)
	other, _ := testutil.NewUserBuilder().Build(t, r.DB)
	testutil.CreateNote(t, r.DB, owner, "printer jam", 1)

	has, err := r.UserHasNotes(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = r.UserHasNotes(ctx, other.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCreateNote_AssignsSequentialTickets(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	owner, _ := testutil.NewUserBuilder().Build(t, r.DB)

	for i, title := range []string{"one", "two", "three"} {
		n := &models.Note{UserID: owner.ID, Title: title, Text: "t"}
		require.NoError(t, r.CreateNote(ctx, n))
		assert.EqualValues(t, i+1, n.Ticket)
	}

	notes, err := r.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "one", notes[0].Title)
	assert.EqualValues(t, 3, notes[2].Ticket)
}

func TestCreateNote_FailedInsertDoesNotConsumeTicket(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	owner, _ := testutil.NewUserBuilder().Build(t, r.DB)

	require.NoError(t, r.CreateNote(ctx, &models.Note{UserID: owner.ID, Title: "dup", Text: "t"}))
	require.Error(t, r.CreateNote(ctx, &models.Note{UserID: owner.ID, Title: "dup", Text: "t"}))

	next, err := (&ticket.Counter{DB: r.DB}).Peek(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, next)
}

func TestNotes_TitleTakenSaveDelete(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	owner, _ := testutil.NewUserBuilder().Build(t, r.DB)
	n := testutil.CreateNote(t, r.DB, owner, "vpn down", 1)

	taken, err := r.TitleTaken(ctx, "vpn down", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = r.TitleTaken(ctx, "vpn down", n.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	n.Completed = true
	require.NoError(t, r.SaveNote(ctx, n))
	got, err := r.FindNoteByID(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.EqualValues(t, 1, got.Ticket)

	require.NoError(t, r.DeleteNote(ctx, n.ID))
	assert.ErrorIs(t, r.DeleteNote(ctx, n.ID), gorm.ErrRecordNotFound)
}

func TestFindNotesByIDs_KeepsOrder(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	owner, _ := testutil.NewUserBuilder().Build(t, r.DB)
	a := testutil.CreateNote(t, r.DB, owner, "a", 1)
	b := testutil.CreateNote(t, r.DB, owner, "b", 2)

	notes, err := r.FindNotesByIDs(ctx, []uuid.UUID{b.ID, uuid.New(), a.ID})
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "b", notes[0].Title)
	assert.Equal(t, "a", notes[1].Title)
}

func TestSearchNotes(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	owner, _ := testutil.NewUserBuilder().Build(t, r.DB)
	testutil.CreateNote(t, r.DB, owner, "Printer jam", 1)
	testutil.CreateNote(t, r.DB, owner, "VPN down", 2)
	testutil.CreateNote(t, r.DB, owner, "printer toner", 3)
	testutil.CreateNote(t, r.DB, owner, "100% cpu", 4)

	total, notes, err := r.SearchNotes(ctx, "PRINTER", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, notes, 2)
	assert.Equal(t, "Printer jam", notes[0].Title)

	total, notes, err = r.SearchNotes(ctx, "printer", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, notes, 1)
	assert.Equal(t, "printer toner", notes[0].Title)

	total, _, err = r.SearchNotes(ctx, "%", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "percent sign matched literally")
}
