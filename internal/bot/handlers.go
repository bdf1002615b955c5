package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/cinepoll/cinepoll/internal/chart"
	"github.com/cinepoll/cinepoll/internal/movies"
	"github.com/cinepoll/cinepoll/internal/poll"
	"github.com/cinepoll/cinepoll/internal/prefs"
)

// User-facing copy, kept in one place.
const (
	defaultQuestion = "Which movie to watch in theaters?"

	languagePrompt = "Which language would you like for the movies? (e.g., English, Spanish)"
	countryPrompt  = "Which country would you like the movies to be from? (e.g., USA, UK)"
	cancelledReply = "Recommendation process cancelled."
	nothingReply   = "Nothing to cancel."
	errorReply     = "An error occurred. Please try again."
	chartFailReply = "Error processing movie data. Try again later."
	idleReply      = "Send /recommend to get movie suggestions."
	votingReply    = "The poll is up. Vote there, or /cancel to start over."
	noPollsReply   = "No polls in this chat yet. Start with /recommend."

	chartTitle = "Movie Poll Results"
	chartFile  = "poll_results.png"

	helpReply = "I recommend movies now playing in theaters and let the chat vote.\n\n" +
		"/recommend - pick language and country, get a movie poll\n" +
		"/results - resend the latest poll chart\n" +
		"/cancel - abort the current conversation\n" +
		"/help - show this message"
)

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.Poll != nil:
		b.handlePoll(update.Poll)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		b.handleCommand(chatID, msg.Command())
		return
	}
	b.handleText(ctx, chatID, msg.Text)
}

func (b *Bot) handleCommand(chatID int64, command string) {
	switch command {
	case "start", "help":
		b.reply(chatID, helpReply)
	case "recommend":
		b.sessions.Start(chatID)
		b.reply(chatID, languagePrompt)
	case "cancel":
		b.cancel(chatID)
	case "results":
		b.resendResults(chatID)
	default:
		b.reply(chatID, "Unknown command. Try /help.")
	}
}

func (b *Bot) cancel(chatID int64) {
	if _, ok := b.sessions.Get(chatID); !ok {
		b.reply(chatID, nothingReply)
		return
	}
	if err := b.sessions.Transition(chatID, StateCancelled); err != nil {
		b.logger.Warn("cancel transition failed", "chat_id", chatID, "error", err)
	}
	b.sessions.End(chatID)
	b.logger.Info("conversation cancelled", "chat_id", chatID)
	b.reply(chatID, cancelledReply)
}

// handleText routes free-form text by conversation state. Text outside a
// conversation gets a usage hint.
func (b *Bot) handleText(ctx context.Context, chatID int64, text string) {
	sess, ok := b.sessions.Get(chatID)
	if !ok {
		b.reply(chatID, idleReply)
		return
	}

	switch sess.State {
	case StateAwaitingLanguage:
		b.collectLanguage(chatID, text)
	case StateAwaitingCountry:
		b.collectCountry(ctx, chatID, text)
	case StateAwaitingVote:
		b.reply(chatID, votingReply)
	}
}

func (b *Bot) collectLanguage(chatID int64, text string) {
	lang, err := prefs.ResolveLanguage(text)
	if err != nil {
		b.reply(chatID, preferenceReply(err, languagePrompt))
		return
	}
	if err := b.sessions.SetLanguage(chatID, lang); err != nil {
		b.logger.Warn("set language failed", "chat_id", chatID, "error", err)
		return
	}
	b.logger.Debug("language collected", "chat_id", chatID, "language", lang.Code)
	b.reply(chatID, countryPrompt)
}

func (b *Bot) collectCountry(ctx context.Context, chatID int64, text string) {
	country, err := prefs.ResolveCountry(text)
	if err != nil {
		b.reply(chatID, preferenceReply(err, countryPrompt))
		return
	}
	if err := b.sessions.SetCountry(chatID, country); err != nil {
		b.logger.Warn("set country failed", "chat_id", chatID, "error", err)
		return
	}
	b.logger.Debug("country collected", "chat_id", chatID, "country", country.Code)

	sess, ok := b.sessions.Get(chatID)
	if !ok {
		return
	}
	b.recommend(ctx, sess)
}

// preferenceReply maps a resolution failure to a retry prompt. The
// conversation stays in place so the user can answer again.
func preferenceReply(err error, prompt string) string {
	var unknown *prefs.UnknownError
	if errors.As(err, &unknown) {
		if unknown.Suggestion != "" {
			return fmt.Sprintf("I don't recognize %q. Did you mean %s?", unknown.Input, unknown.Suggestion)
		}
		return fmt.Sprintf("I don't recognize %q. %s", unknown.Input, prompt)
	}
	return prompt
}

// recommend runs the pipeline for the collected preferences and posts the
// ranked list plus a poll.
func (b *Bot) recommend(ctx context.Context, sess Session) {
	chatID := sess.ChatID
	scope := movies.Scope{Language: sess.Language.Code, Country: sess.Country.Code}
	window := b.windows.Primary()

	picks, err := b.rec.Recommend(ctx, scope, b.cfg.PollSize, func(have []movies.Movie, next movies.Window) {
		b.reply(chatID, fmt.Sprintf("Only %d movies found for %s in %s from %s. Searching movies from %s...",
			len(have), window.Label(), sess.Language.Name, sess.Country.Name, next.Label()))
		window = next
	})
	if err != nil {
		b.sessions.End(chatID)
		if errors.Is(err, movies.ErrNoMovies) {
			b.reply(chatID, fmt.Sprintf("No movies found in %s for %s from %s. Try again later.",
				window.Label(), sess.Language.Name, sess.Country.Name))
			return
		}
		b.logger.Error("recommendation failed",
			"chat_id", chatID, "language", scope.Language, "country", scope.Country, "error", err)
		b.reply(chatID, errorReply)
		return
	}

	b.reply(chatID, rankedList(window, picks))

	if len(picks) < 2 {
		b.sessions.End(chatID)
		b.reply(chatID, fmt.Sprintf("Only %d movie found for %s in %s from %s. Need at least 2 for a poll. Try again later.",
			len(picks), window.Label(), sess.Language.Name, sess.Country.Name))
		return
	}

	b.sendPoll(chatID, scope, picks)
}

// rankedList formats the picks the way they appear in chat.
func rankedList(window movies.Window, picks []movies.Movie) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Top Movies Released in %s:\n", window.Label())
	for i, m := range picks {
		fmt.Fprintf(&sb, "%d. %s (TMDb Rating: %.1f)\n", i+1, m.Title, m.Rating)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Bot) sendPoll(chatID int64, scope movies.Scope, picks []movies.Movie) {
	options := make([]string, len(picks))
	for i, m := range picks {
		options[i] = m.Title
	}

	cfg := tgbotapi.NewPoll(chatID, b.cfg.PollQuestion, options...)
	cfg.IsAnonymous = false

	sent, err := b.api.Send(cfg)
	if err != nil || sent.Poll == nil {
		b.sessions.End(chatID)
		b.logger.Error("send poll failed", "chat_id", chatID, "error", err)
		b.reply(chatID, errorReply)
		return
	}

	record := &poll.Poll{
		ID:        sent.Poll.ID,
		ChatID:    chatID,
		MessageID: sent.MessageID,
		Question:  b.cfg.PollQuestion,
		Language:  scope.Language,
		Country:   scope.Country,
		Options:   pollOptions(options),
	}
	if err := b.polls.Add(record); err != nil {
		b.logger.Error("register poll failed", "poll_id", sent.Poll.ID, "error", err)
	}

	if err := b.sessions.Transition(chatID, StateAwaitingVote); err != nil {
		b.logger.Warn("transition failed", "chat_id", chatID, "error", err)
	}
	b.logger.Info("poll sent", "chat_id", chatID, "poll_id", sent.Poll.ID, "options", len(options))
}

func pollOptions(labels []string) []poll.Option {
	opts := make([]poll.Option, len(labels))
	for i, l := range labels {
		opts[i] = poll.Option{Position: i, Label: l}
	}
	return opts
}

// handlePoll records the current tallies and sends an updated results
// chart. Updates for polls this bot never sent are ignored.
func (b *Bot) handlePoll(p *tgbotapi.Poll) {
	registered, err := b.polls.Get(p.ID)
	if err != nil {
		if errors.Is(err, poll.ErrNotFound) {
			b.logger.Debug("update for unknown poll", "poll_id", p.ID)
			return
		}
		b.logger.Error("poll lookup failed", "poll_id", p.ID, "error", err)
		return
	}

	tallies := make(map[string]int, len(p.Options))
	for _, o := range p.Options {
		tallies[o.Text] = o.VoterCount
	}
	if err := b.polls.SetResults(p.ID, tallies); err != nil {
		b.logger.Error("record tallies failed", "poll_id", p.ID, "error", err)
	}
	if p.IsClosed {
		if err := b.polls.Close(p.ID); err != nil {
			b.logger.Error("close poll failed", "poll_id", p.ID, "error", err)
		}
	}

	b.sendChart(registered.ChatID, chart.SortTallies(tallies))

	// Votes can arrive long after the conversation moved on; only an
	// awaiting-vote session completes here.
	if err := b.sessions.Transition(registered.ChatID, StateDone); err == nil {
		b.sessions.End(registered.ChatID)
	}
}

// resendResults charts the stored tallies of the chat's newest poll.
func (b *Bot) resendResults(chatID int64) {
	latest, err := b.polls.LatestForChat(chatID)
	if err != nil {
		if errors.Is(err, poll.ErrNotFound) {
			b.reply(chatID, noPollsReply)
			return
		}
		b.logger.Error("latest poll lookup failed", "chat_id", chatID, "error", err)
		b.reply(chatID, errorReply)
		return
	}

	tallies := make(map[string]int, len(latest.Options))
	for _, o := range latest.Options {
		tallies[o.Label] = o.Votes
	}
	b.sendChart(chatID, chart.SortTallies(tallies))
}

func (b *Bot) sendChart(chatID int64, tallies []chart.Tally) {
	var buf bytes.Buffer
	if err := b.charts.Render(&buf, chartTitle, tallies); err != nil {
		b.logger.Error("render chart failed", "chat_id", chatID, "error", err)
		b.reply(chatID, chartFailReply)
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: chartFile, Bytes: buf.Bytes()})
	if _, err := b.api.Send(photo); err != nil {
		b.logger.Error("send chart failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("send message failed", "chat_id", chatID, "error", err)
	}
}
