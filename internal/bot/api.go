package bot

//go:generate mockgen -source=api.go -destination=mocks/api.go -package=mocks

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/cinepoll/cinepoll/internal/movies"
)

// API is the slice of the Telegram client the bot depends on.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Recommender produces the rating-ranked movie list for a preference
// scope. onWiden is invoked before the search widens to the fallback
// window.
type Recommender interface {
	Recommend(ctx context.Context, scope movies.Scope, size int, onWiden func(have []movies.Movie, next movies.Window)) ([]movies.Movie, error)
}
