package query

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gametracker/library-service/internal/app/library/entity"
	"gametracker/library-service/internal/app/library/store"
)

const testLatency = 20 * time.Millisecond

func newTestFacade(t *testing.T, latency time.Duration) (*Facade, *store.EntityStore) {
	t.Helper()

	seed, err := store.DefaultSeed()
	require.NoError(t, err)
	s, err := store.NewEntityStore(seed)
	require.NoError(t, err)

	return NewFacade(s, latency), s
}

func awaitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestGetGames(t *testing.T) {
	f, _ := newTestFacade(t, testLatency)

	games, err := f.GetGames(context.Background()).Await(awaitCtx(t))

	require.NoError(t, err)
	assert.Len(t, games, 6)
}

func TestGetGame_Found(t *testing.T) {
	f, _ := newTestFacade(t, testLatency)

	game, err := f.GetGame(context.Background(), "4").Await(awaitCtx(t))

	require.NoError(t, err)
	require.NotNil(t, game)
	assert.Equal(t, "Hades", game.Title)
}

func TestGetGame_Missing(t *testing.T) {
	f, _ := newTestFacade(t, testLatency)

	game, err := f.GetGame(context.Background(), "missing-id").Await(awaitCtx(t))

	assert.NoError(t, err)
	assert.Nil(t, game)
}

func TestGetStatuses(t *testing.T) {
	f, s := newTestFacade(t, testLatency)

	statuses, err := f.GetStatuses(context.Background(), s.CurrentUserID()).Await(awaitCtx(t))

	require.NoError(t, err)
	assert.Len(t, statuses, 4)
}

func TestGetReviews_ValueCapturedAtDispatch(t *testing.T) {
	f, s := newTestFacade(t, testLatency)

	pending := f.GetReviews(context.Background(), "1")
	_, err := s.AddReview(entity.ReviewDraft{GameID: "1", UserName: "You", Rating: 5})
	require.NoError(t, err)

	reviews, err := pending.Await(awaitCtx(t))

	require.NoError(t, err)
	assert.Len(t, reviews, 3)
	assert.Len(t, s.ListReviews("1"), 4)
}

func TestResolvesAfterLatency(t *testing.T) {
	f, _ := newTestFacade(t, 50*time.Millisecond)

	start := time.Now()
	_, err := f.GetGames(context.Background()).Await(awaitCtx(t))

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestOnComplete_Fires(t *testing.T) {
	f, _ := newTestFacade(t, testLatency)

	got := make(chan int, 1)
	pending := f.GetReviews(context.Background(), "1")
	pending.OnComplete(func(reviews []entity.Review) { got <- len(reviews) })

	select {
	case n := <-got:
		assert.Equal(t, 3, n)
	case <-time.After(time.Second):
		t.Fatal("completion callback was not called")
	}
}

func TestOnComplete_AfterResolutionFiresImmediately(t *testing.T) {
	f, _ := newTestFacade(t, 0)

	pending := f.GetGames(context.Background())
	<-pending.Done()

	calls := 0
	pending.OnComplete(func([]entity.Game) { calls++ })

	assert.Equal(t, 1, calls)
}

func TestCancel_BeforeResolution(t *testing.T) {
	f, _ := newTestFacade(t, testLatency)

	var calls atomic.Int32
	pending := f.GetGames(context.Background())
	pending.OnComplete(func([]entity.Game) { calls.Add(1) })

	assert.True(t, pending.Cancel())
	assert.False(t, pending.Cancel())
	assert.True(t, pending.Cancelled())

	time.Sleep(3 * testLatency)

	games, err := pending.Await(awaitCtx(t))
	assert.ErrorIs(t, err, ErrQueryCancelled)
	assert.Nil(t, games)
	assert.Zero(t, calls.Load())

	pending.OnComplete(func([]entity.Game) { calls.Add(1) })
	assert.Zero(t, calls.Load())
}

func TestCancel_AfterResolution(t *testing.T) {
	f, _ := newTestFacade(t, 0)

	pending := f.GetGames(context.Background())
	games, err := pending.Await(awaitCtx(t))
	require.NoError(t, err)

	assert.False(t, pending.Cancel())
	assert.False(t, pending.Cancelled())

	again, err := pending.Await(awaitCtx(t))
	assert.NoError(t, err)
	assert.Equal(t, games, again)
}

func TestContextCancellation(t *testing.T) {
	f, _ := newTestFacade(t, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	pending := f.GetGames(ctx)
	cancel()

	_, err := pending.Await(awaitCtx(t))

	assert.ErrorIs(t, err, ErrQueryCancelled)
	assert.True(t, pending.Cancelled())
}

func TestAwait_ContextDeadline(t *testing.T) {
	f, _ := newTestFacade(t, time.Second)

	pending := f.GetGames(context.Background())
	defer pending.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := pending.Await(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, pending.Cancelled())
}

func TestGetGames_EachConsumerGetsOwnCopy(t *testing.T) {
	f, s := newTestFacade(t, 0)

	pending := f.GetGames(context.Background())
	first, err := pending.Await(awaitCtx(t))
	require.NoError(t, err)
	first[0].Title = "mutated"
	first[0].Genres[0] = "mutated"

	var second []entity.Game
	pending.OnComplete(func(games []entity.Game) { second = games })

	again, err := pending.Await(awaitCtx(t))
	require.NoError(t, err)

	require.NotEmpty(t, second)
	assert.Equal(t, "The Legend of Zelda: Breath of the Wild", second[0].Title)
	assert.Equal(t, "Action", second[0].Genres[0])
	assert.Equal(t, "The Legend of Zelda: Breath of the Wild", again[0].Title)
	assert.Equal(t, "Action", s.ListGames()[0].Genres[0])
}

func TestOnComplete_CallbacksGetSeparateCopies(t *testing.T) {
	f, _ := newTestFacade(t, testLatency)

	pending := f.GetReviews(context.Background(), "1")
	pending.OnComplete(func(reviews []entity.Review) { reviews[0].Title = "mutated" })

	got := make(chan string, 1)
	pending.OnComplete(func(reviews []entity.Review) { got <- reviews[0].Title })

	select {
	case title := <-got:
		assert.Equal(t, "A Masterpiece of Open World Design", title)
	case <-time.After(time.Second):
		t.Fatal("completion callback was not called")
	}
}

func TestGetGame_EachConsumerGetsOwnCopy(t *testing.T) {
	f, _ := newTestFacade(t, 0)

	pending := f.GetGame(context.Background(), "4")
	first, err := pending.Await(awaitCtx(t))
	require.NoError(t, err)
	require.NotNil(t, first)
	first.Title = "mutated"

	second, err := pending.Await(awaitCtx(t))
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "Hades", second.Title)
	assert.NotSame(t, first, second)
}

func TestNewFacade_NegativeLatency(t *testing.T) {
	f, _ := newTestFacade(t, -time.Second)

	assert.Zero(t, f.Latency())
}
