package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists signal history to a local SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	expiry time.Duration
	mu     sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database, runs migrations, and
// uses expiry as the dedup window for Seen.
func NewSQLiteRecorder(dbPath string, expiry time.Duration) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so history reads don't block the scan loop's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, expiry: expiry}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id          TEXT PRIMARY KEY,
			symbol      TEXT NOT NULL,
			decision    TEXT NOT NULL,
			ema_period  INTEGER,
			entry_price REAL,
			take_profit REAL,
			stop_loss   REAL,
			risk_reward REAL,
			pattern     TEXT,
			strength    TEXT,
			sent_at     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_symbol_sent ON signals(symbol, sent_at)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_sent ON signals(sent_at)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Seen(symbol string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-r.expiry).Unix()
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM signals WHERE symbol = ? AND sent_at > ?`,
		symbol, cutoff,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query seen: %w", err)
	}
	return count > 0, nil
}

func (r *SQLiteRecorder) Record(rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO signals
		(id, symbol, decision, ema_period, entry_price, take_profit, stop_loss,
		 risk_reward, pattern, strength, sent_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.Symbol, rec.Decision, rec.EMAPeriod,
		rec.EntryPrice, rec.TakeProfit, rec.StopLoss, rec.RiskReward,
		rec.Pattern, rec.Strength, rec.SentAt.Unix(),
	)
	return err
}

func (r *SQLiteRecorder) Recent(limit int) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, symbol, decision, ema_period, entry_price,
		take_profit, stop_loss, risk_reward, pattern, strength, sent_at
		FROM signals ORDER BY sent_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var sentAt int64
		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Decision, &rec.EMAPeriod,
			&rec.EntryPrice, &rec.TakeProfit, &rec.StopLoss, &rec.RiskReward,
			&rec.Pattern, &rec.Strength, &sentAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.SentAt = time.Unix(sentAt, 0).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *SQLiteRecorder) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`DELETE FROM signals`)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
