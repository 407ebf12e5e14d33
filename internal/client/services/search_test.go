package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskmaster-app/taskmaster-cli/internal/client/api"
	"github.com/taskmaster-app/taskmaster-cli/internal/client/models"
)

// fakeSession provides just enough SessionService for the searcher.
type fakeSession struct {
	user *models.SessionUser
}

func (f *fakeSession) Login(ctx context.Context, username, password string) (*models.SessionUser, error) {
	return f.user, nil
}
func (f *fakeSession) Register(ctx context.Context, reg api.Registration) error { return nil }
func (f *fakeSession) Logout(ctx context.Context) error                         { return nil }
func (f *fakeSession) Restore(ctx context.Context) (*models.SessionUser, error) {
	return f.user, nil
}
func (f *fakeSession) Current() *models.SessionUser { return f.user }
func (f *fakeSession) AccessToken() string          { return "tok" }

type delivery struct {
	query string
	users []models.User
}

func newRecorder() (chan delivery, func(string, []models.User)) {
	ch := make(chan delivery, 16)
	return ch, func(query string, users []models.User) {
		ch <- delivery{query: query, users: users}
	}
}

func waitDelivery(t *testing.T, ch chan delivery) delivery {
	t.Helper()
	select {
	case d := <-ch:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for search delivery")
		return delivery{}
	}
}

func requireNoDelivery(t *testing.T, ch chan delivery, wait time.Duration) {
	t.Helper()
	select {
	case d := <-ch:
		t.Fatalf("unexpected delivery for %q", d.query)
	case <-time.After(wait):
	}
}

func TestSearcher_CoalescesRapidInput(t *testing.T) {
	fc := &fakeClient{SearchUsersRet: []models.User{{ID: 9, Username: "bob"}}}
	ch, deliver := newRecorder()
	s := NewUserSearcher(fc, &fakeSession{user: &models.SessionUser{UserID: 42}}, 50*time.Millisecond, testLogger(), deliver)
	ctx := context.Background()

	// Three keystrokes inside the quiet period: only the last query goes out.
	s.Trigger(ctx, "a")
	time.Sleep(10 * time.Millisecond)
	s.Trigger(ctx, "ab")
	time.Sleep(10 * time.Millisecond)
	s.Trigger(ctx, "abc")

	d := waitDelivery(t, ch)
	require.Equal(t, "abc", d.query)
	require.Equal(t, 1, fc.searchCalls())
	require.Equal(t, "abc", fc.lastSearch())

	requireNoDelivery(t, ch, 150*time.Millisecond)
}

func TestSearcher_EmptyQueryCancelsAndClears(t *testing.T) {
	fc := &fakeClient{SearchUsersRet: []models.User{{ID: 9, Username: "bob"}}}
	ch, deliver := newRecorder()
	s := NewUserSearcher(fc, &fakeSession{user: &models.SessionUser{UserID: 42}}, 30*time.Millisecond, testLogger(), deliver)
	ctx := context.Background()

	s.Trigger(ctx, "a")
	s.Trigger(ctx, "")

	d := waitDelivery(t, ch)
	require.Empty(t, d.query)
	require.Empty(t, d.users)

	// The abandoned query never produces a request.
	requireNoDelivery(t, ch, 100*time.Millisecond)
	require.Zero(t, fc.searchCalls())
}

func TestSearcher_ExcludesAuthenticatedUser(t *testing.T) {
	fc := &fakeClient{SearchUsersRet: []models.User{
		{ID: 42, Username: "me"},
		{ID: 9, Username: "bob"},
	}}
	ch, deliver := newRecorder()
	s := NewUserSearcher(fc, &fakeSession{user: &models.SessionUser{UserID: 42}}, 10*time.Millisecond, testLogger(), deliver)

	s.Trigger(context.Background(), "b")

	d := waitDelivery(t, ch)
	require.Len(t, d.users, 1)
	require.Equal(t, "bob", d.users[0].Username)
}

func TestSearcher_StaleInFlightResultDropped(t *testing.T) {
	block := make(chan struct{})
	fc := &fakeClient{
		SearchUsersRet: []models.User{{ID: 9, Username: "bob"}},
		searchBlock:    block,
	}
	ch, deliver := newRecorder()
	s := NewUserSearcher(fc, &fakeSession{user: &models.SessionUser{UserID: 42}}, 10*time.Millisecond, testLogger(), deliver)
	ctx := context.Background()

	s.Trigger(ctx, "a")
	// Wait for the first request to be in flight.
	require.Eventually(t, func() bool { return fc.searchCalls() == 1 }, time.Second, 5*time.Millisecond)

	s.Trigger(ctx, "b")
	require.Eventually(t, func() bool { return fc.searchCalls() == 2 }, time.Second, 5*time.Millisecond)
	close(block)

	d := waitDelivery(t, ch)
	require.Equal(t, "b", d.query)
	requireNoDelivery(t, ch, 100*time.Millisecond)
}

func TestSearcher_CancelDiscardsPending(t *testing.T) {
	fc := &fakeClient{SearchUsersRet: []models.User{{ID: 9, Username: "bob"}}}
	ch, deliver := newRecorder()
	s := NewUserSearcher(fc, &fakeSession{user: &models.SessionUser{UserID: 42}}, 20*time.Millisecond, testLogger(), deliver)

	s.Trigger(context.Background(), "a")
	s.Cancel()

	requireNoDelivery(t, ch, 100*time.Millisecond)
	require.Zero(t, fc.searchCalls())
}
