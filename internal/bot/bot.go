// Package bot implements the Telegram conversation: collect language and
// country preferences, run the recommendation pipeline, post a poll and
// chart the results.
package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/cinepoll/cinepoll/internal/chart"
	"github.com/cinepoll/cinepoll/internal/movies"
	"github.com/cinepoll/cinepoll/internal/poll"
)

const (
	updateTimeout   = 60 // long poll timeout in seconds
	janitorInterval = 5 * time.Minute
)

// Config carries the bot's tunables.
type Config struct {
	// PollQuestion is the question sent with every movie poll.
	PollQuestion string

	// PollSize caps how many movies a poll offers. Telegram polls need at
	// least two options.
	PollSize int

	// KeepPolls bounds how long poll records stay in the database. Zero
	// disables pruning.
	KeepPolls time.Duration
}

// Deps contains the bot's collaborators. All fields are required except
// Clock and Logger.
type Deps struct {
	API         API
	Recommender Recommender
	Windows     *movies.Windows
	Polls       *poll.Store
	Charts      *chart.Renderer
	Sessions    *Sessions
	Clock       clockwork.Clock
	Logger      *slog.Logger
}

// Validate checks that all required dependencies are provided.
func (d Deps) Validate() error {
	if d.API == nil {
		return errors.New("telegram api is required")
	}
	if d.Recommender == nil {
		return errors.New("recommender is required")
	}
	if d.Windows == nil {
		return errors.New("windows is required")
	}
	if d.Polls == nil {
		return errors.New("poll store is required")
	}
	if d.Charts == nil {
		return errors.New("chart renderer is required")
	}
	if d.Sessions == nil {
		return errors.New("sessions is required")
	}
	return nil
}

// Bot routes Telegram updates through the recommendation pipeline.
type Bot struct {
	api      API
	rec      Recommender
	windows  *movies.Windows
	polls    *poll.Store
	charts   *chart.Renderer
	sessions *Sessions
	clock    clockwork.Clock
	cfg      Config
	logger   *slog.Logger
}

// New creates the bot. It returns an error when a required dependency is
// missing.
func New(deps Deps, cfg Config) (*Bot, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.PollQuestion == "" {
		cfg.PollQuestion = defaultQuestion
	}
	if cfg.PollSize < 2 {
		cfg.PollSize = 4
	}
	return &Bot{
		api:      deps.API,
		rec:      deps.Recommender,
		windows:  deps.Windows,
		polls:    deps.Polls,
		charts:   deps.Charts,
		sessions: deps.Sessions,
		clock:    deps.Clock,
		cfg:      cfg,
		logger:   deps.Logger.With("component", "bot"),
	}, nil
}

// Run starts long polling and blocks until the context is cancelled or
// the update stream closes. Updates are handled sequentially in arrival
// order.
func (b *Bot) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout
	u.AllowedUpdates = []string{"message", "poll"}
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started", "poll_size", b.cfg.PollSize)

	g.Go(func() error {
		<-ctx.Done()
		b.logger.Info("stopping update stream")
		b.api.StopReceivingUpdates()
		return ctx.Err()
	})

	g.Go(func() error {
		for update := range updates {
			b.handleUpdate(ctx, update)
		}
		return nil
	})

	g.Go(func() error {
		return b.runJanitor(ctx)
	})

	return g.Wait()
}

// runJanitor periodically drops stale sessions and prunes old poll
// records.
func (b *Bot) runJanitor(ctx context.Context) error {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			b.sweep()
		}
	}
}

func (b *Bot) sweep() {
	if n := b.sessions.PruneStale(); n > 0 {
		b.logger.Info("pruned stale sessions", "count", n)
	}
	if b.cfg.KeepPolls <= 0 {
		return
	}
	cutoff := b.clock.Now().UTC().Add(-b.cfg.KeepPolls)
	n, err := b.polls.Prune(cutoff)
	if err != nil {
		b.logger.Error("poll prune failed", "error", err)
		return
	}
	if n > 0 {
		b.logger.Info("pruned old polls", "count", n)
	}
}
