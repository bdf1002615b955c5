package poll

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Poll is one registered Telegram poll. ChatID and MessageID locate the
// poll message; ID is Telegram's poll identifier, which is what poll
// update events carry.
type Poll struct {
	ID        string
	ChatID    int64
	MessageID int
	Question  string
	Language  string // ISO 639-1 original language the poll was built for
	Country   string // ISO 3166-1 release region the poll was built for
	Options   []Option
	CreatedAt time.Time
	ClosedAt  *time.Time // nil while the poll is open
}

// Option is one poll answer with its recorded tally.
type Option struct {
	Position int
	Label    string
	Votes    int
}

// mapSQLiteError converts SQLite errors to custom error types.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	// modernc.org/sqlite wraps errors; check error message for constraint violations
	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "PRIMARY KEY constraint failed") {
		return ErrDuplicate
	}
	return err
}

func addPoll(q querier, p *Poll) error {
	now := time.Now().UTC()
	_, err := q.Exec(`
		INSERT INTO polls (id, chat_id, message_id, question, language, country, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ChatID, p.MessageID, p.Question, p.Language, p.Country, now,
	)
	if err != nil {
		return fmt.Errorf("insert poll: %w", mapSQLiteError(err))
	}
	for i := range p.Options {
		p.Options[i].Position = i
		p.Options[i].Votes = 0
		_, err := q.Exec(`
			INSERT INTO poll_options (poll_id, position, label, votes)
			VALUES (?, ?, ?, 0)`,
			p.ID, i, p.Options[i].Label,
		)
		if err != nil {
			return fmt.Errorf("insert poll option: %w", mapSQLiteError(err))
		}
	}
	p.CreatedAt = now
	p.ClosedAt = nil
	return nil
}

// Add registers a new poll with zeroed tallies in one transaction.
// Option positions follow slice order; CreatedAt is set on the struct.
// Returns ErrDuplicate if the poll ID is already registered.
func (s *Store) Add(p *Poll) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	if err := tx.Add(p); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Add registers a new poll within a transaction.
func (t *Tx) Add(p *Poll) error { return addPoll(t.tx, p) }

func getPoll(q querier, id string) (*Poll, error) {
	p := &Poll{}
	err := q.QueryRow(`
		SELECT id, chat_id, message_id, question, language, country, created_at, closed_at
		FROM polls WHERE id = ?`, id,
	).Scan(&p.ID, &p.ChatID, &p.MessageID, &p.Question, &p.Language, &p.Country, &p.CreatedAt, &p.ClosedAt)
	if err != nil {
		return nil, fmt.Errorf("get poll %s: %w", id, mapSQLiteError(err))
	}

	rows, err := q.Query(`
		SELECT position, label, votes
		FROM poll_options WHERE poll_id = ? ORDER BY position`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("get poll options %s: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var o Option
		if err := rows.Scan(&o.Position, &o.Label, &o.Votes); err != nil {
			return nil, fmt.Errorf("scan poll option: %w", err)
		}
		p.Options = append(p.Options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate poll options: %w", err)
	}
	return p, nil
}

// Get retrieves a poll with its options by Telegram poll ID.
// Returns ErrNotFound if the poll is not registered.
func (s *Store) Get(id string) (*Poll, error) { return getPoll(s.db, id) }

// Get retrieves a poll within a transaction.
func (t *Tx) Get(id string) (*Poll, error) { return getPoll(t.tx, id) }

// LatestForChat returns the chat's most recently registered poll.
// Returns ErrNotFound if the chat has none.
func (s *Store) LatestForChat(chatID int64) (*Poll, error) {
	var id string
	err := s.db.QueryRow(`
		SELECT id FROM polls WHERE chat_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT 1`, chatID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("latest poll for chat %d: %w", chatID, mapSQLiteError(err))
	}
	return getPoll(s.db, id)
}

func setResults(q querier, id string, tallies map[string]int) error {
	var exists int
	if err := q.QueryRow("SELECT COUNT(*) FROM polls WHERE id = ?", id).Scan(&exists); err != nil {
		return fmt.Errorf("check poll %s: %w", id, err)
	}
	if exists == 0 {
		return fmt.Errorf("set results for poll %s: %w", id, ErrNotFound)
	}

	for label, votes := range tallies {
		_, err := q.Exec(`
			UPDATE poll_options SET votes = ?
			WHERE poll_id = ? AND label = ?`,
			votes, id, label,
		)
		if err != nil {
			return fmt.Errorf("update tally: %w", mapSQLiteError(err))
		}
	}
	return nil
}

// SetResults records the latest tallies, keyed by option label, in one
// transaction. Labels without a matching option are ignored.
// Returns ErrNotFound if the poll is not registered.
func (s *Store) SetResults(id string, tallies map[string]int) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	if err := tx.SetResults(id, tallies); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// SetResults records tallies within a transaction.
func (t *Tx) SetResults(id string, tallies map[string]int) error { return setResults(t.tx, id, tallies) }

// Results returns the poll's options with their recorded tallies, in
// display order. Returns ErrNotFound if the poll is not registered.
func (s *Store) Results(id string) ([]Option, error) {
	p, err := getPoll(s.db, id)
	if err != nil {
		return nil, err
	}
	return p.Options, nil
}

// Close marks the poll closed. Closing an already closed poll is a no-op.
// Returns ErrNotFound if the poll is not registered.
func (s *Store) Close(id string) error {
	result, err := s.db.Exec(`
		UPDATE polls SET closed_at = ? WHERE id = ? AND closed_at IS NULL`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("close poll %s: %w", id, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM polls WHERE id = ?", id).Scan(&exists); err != nil {
			return fmt.Errorf("check poll %s: %w", id, err)
		}
		if exists == 0 {
			return fmt.Errorf("close poll %s: %w", id, ErrNotFound)
		}
	}
	return nil
}

// List returns registered polls without their options, newest first.
// A limit of 0 or less returns all polls.
func (s *Store) List(limit int) ([]*Poll, error) {
	query := `
		SELECT id, chat_id, message_id, question, language, country, created_at, closed_at
		FROM polls ORDER BY created_at DESC, rowid DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list polls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Poll
	for rows.Next() {
		p := &Poll{}
		if err := rows.Scan(&p.ID, &p.ChatID, &p.MessageID, &p.Question, &p.Language, &p.Country, &p.CreatedAt, &p.ClosedAt); err != nil {
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate polls: %w", err)
	}
	return results, nil
}

// Prune deletes polls registered before the cutoff together with their
// options, returning how many polls were removed. Votes on a pruned poll
// are gone for good.
func (s *Store) Prune(olderThan time.Time) (int64, error) {
	tx, err := s.Begin()
	if err != nil {
		return 0, err
	}

	// Delete options explicitly instead of leaning on foreign key
	// enforcement, which SQLite leaves off by default.
	if _, err := tx.tx.Exec(`
		DELETE FROM poll_options WHERE poll_id IN
		(SELECT id FROM polls WHERE created_at < ?)`, olderThan,
	); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prune poll options: %w", err)
	}

	result, err := tx.tx.Exec("DELETE FROM polls WHERE created_at < ?", olderThan)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prune polls: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, tx.Commit()
}
