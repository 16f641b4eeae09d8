package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"TrendWatch/internal/logger"
	"TrendWatch/internal/model"
)

// SQLiteRecorder persists snapshot history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.SugaredLogger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: logger.Named("recorder")}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Infow("sqlite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_snapshots (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			coin             TEXT NOT NULL,
			period           TEXT NOT NULL,
			trend            TEXT,
			confidence       REAL,
			price_change_24h REAL,
			current_price    REAL,
			analysis_period  TEXT,
			rsi              REAL,
			data_points      INTEGER,
			volatility       REAL,
			last_update      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON analysis_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS fetch_failures (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			coin      TEXT NOT NULL,
			period    TEXT NOT NULL,
			message   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_ts ON fetch_failures(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSnapshot(sel model.Selection, snap *model.AnalysisSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var lastUpdate sql.NullInt64
	if !snap.LastUpdate.IsZero() {
		lastUpdate = sql.NullInt64{Int64: snap.LastUpdate.UnixMilli(), Valid: true}
	}

	_, err := r.db.Exec(`INSERT INTO analysis_snapshots
		(timestamp, coin, period, trend, confidence, price_change_24h, current_price,
		 analysis_period, rsi, data_points, volatility, last_update)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().UnixMilli(), string(sel.Coin), string(sel.Period),
		string(snap.Trend), snap.Confidence, nullFloat(snap.PriceChange24h), snap.CurrentPrice,
		snap.Period, nullFloat(snap.RSI), nullInt(snap.DataPoints), nullFloat(snap.Volatility),
		lastUpdate,
	)
	return err
}

func (r *SQLiteRecorder) RecordFailure(evt *FailureEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO fetch_failures (timestamp, coin, period, message) VALUES (?,?,?,?)`,
		time.Now().UnixMilli(), string(evt.Selection.Coin), string(evt.Selection.Period), evt.Message,
	)
	return err
}

// RecentSnapshots returns up to limit snapshots, newest first.
func (r *SQLiteRecorder) RecentSnapshots(limit int) ([]SnapshotRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT timestamp, coin, period, trend, confidence, price_change_24h,
		current_price, analysis_period, rsi, data_points, volatility, last_update
		FROM analysis_snapshots ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotRecord
	for rows.Next() {
		var (
			rec                 SnapshotRecord
			coin, period, trend sql.NullString
			change, rsi, vol    sql.NullFloat64
			points, lastUpdate  sql.NullInt64
			receivedAt          int64
		)
		if err := rows.Scan(&receivedAt, &coin, &period, &trend, &rec.Snapshot.Confidence, &change,
			&rec.Snapshot.CurrentPrice, &rec.Snapshot.Period, &rsi, &points, &vol, &lastUpdate); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		rec.ReceivedAt = time.UnixMilli(receivedAt)
		rec.Selection = model.Selection{Coin: model.Coin(coin.String), Period: model.Period(period.String)}
		rec.Snapshot.Trend = model.Trend(trend.String)
		if change.Valid {
			rec.Snapshot.PriceChange24h = model.Float(change.Float64)
		}
		if rsi.Valid {
			rec.Snapshot.RSI = model.Float(rsi.Float64)
		}
		if vol.Valid {
			rec.Snapshot.Volatility = model.Float(vol.Float64)
		}
		if points.Valid {
			rec.Snapshot.DataPoints = model.Int(int(points.Int64))
		}
		if lastUpdate.Valid {
			rec.Snapshot.LastUpdate = time.UnixMilli(lastUpdate.Int64)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
