package bot

import (
	"context"
	"database/sql"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cinepoll/cinepoll/internal/bot/mocks"
	"github.com/cinepoll/cinepoll/internal/chart"
	"github.com/cinepoll/cinepoll/internal/migrations"
	"github.com/cinepoll/cinepoll/internal/movies"
	"github.com/cinepoll/cinepoll/internal/poll"
)

func TestNew_MissingDependencies(t *testing.T) {
	_, err := New(Deps{}, Config{})
	require.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	b, _, _ := newTestBot(t)

	assert.Equal(t, defaultQuestion, b.cfg.PollQuestion)
	assert.Equal(t, 4, b.cfg.PollSize)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	b, api, _ := newTestBot(t)

	updates := make(chan tgbotapi.Update)
	api.EXPECT().GetUpdatesChan(gomock.Any()).DoAndReturn(func(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
		assert.Contains(t, cfg.AllowedUpdates, "message")
		assert.Contains(t, cfg.AllowedUpdates, "poll")
		return updates
	})
	api.EXPECT().StopReceivingUpdates().Do(func() { close(updates) })

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- b.Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for bot to stop")
	}
}

func TestRun_HandlesUpdatesInOrder(t *testing.T) {
	b, api, _ := newTestBot(t)

	updates := make(chan tgbotapi.Update)
	api.EXPECT().GetUpdatesChan(gomock.Any()).Return(tgbotapi.UpdatesChannel(updates))
	api.EXPECT().StopReceivingUpdates().Do(func() { close(updates) })

	sent := make(chan string, 8)
	api.EXPECT().Send(gomock.Any()).DoAndReturn(func(c tgbotapi.Chattable) (tgbotapi.Message, error) {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			sent <- m.Text
		}
		return tgbotapi.Message{MessageID: 1}, nil
	}).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- b.Run(ctx)
	}()

	updates <- commandUpdate(42, "recommend")
	updates <- textUpdate(42, "English")

	var got []string
	for i := 0; i < 2; i++ {
		select {
		case text := <-sent:
			got = append(got, text)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for replies")
		}
	}
	assert.Equal(t, []string{languagePrompt, countryPrompt}, got)

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for bot to stop")
	}
}

func TestSweep_PrunesSessionsAndPolls(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAPI(ctrl)
	rec := mocks.NewMockRecommender(ctrl)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)

	clock := clockwork.NewFakeClockAt(handlersTestNow)
	b, err := New(Deps{
		API:         api,
		Recommender: rec,
		Windows:     movies.NewWindows(clock),
		Polls:       poll.NewStore(db),
		Charts:      chart.NewRenderer(),
		Sessions:    NewSessions(clock, 30*time.Minute),
		Clock:       clock,
	}, Config{KeepPolls: 24 * time.Hour})
	require.NoError(t, err)

	b.sessions.Start(1)

	registerPoll(t, b, "old", 1, "Alpha", "Bravo")
	registerPoll(t, b, "fresh", 2, "Charlie", "Delta")
	// Pin creation times relative to the fake clock.
	_, err = db.Exec(`UPDATE polls SET created_at = ? WHERE id = ?`, handlersTestNow.Add(-48*time.Hour), "old")
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE polls SET created_at = ? WHERE id = ?`, handlersTestNow.Add(-time.Hour), "fresh")
	require.NoError(t, err)

	clock.Advance(31 * time.Minute)
	b.sweep()

	assert.Equal(t, 0, b.sessions.Len(), "idle session should be pruned")
	_, err = b.polls.Get("old")
	assert.ErrorIs(t, err, poll.ErrNotFound, "expired poll should be pruned")
	_, err = b.polls.Get("fresh")
	assert.NoError(t, err)
}
