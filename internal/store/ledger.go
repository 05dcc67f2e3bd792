//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/e-gun/TextClusterLab/internal/explore"
	_ "modernc.org/sqlite"
)

//
// SQLITE RESULTS LEDGER
//

// a file-backed db; everything a run produced can be reviewed after the process exits

const (
	LTTIMEFMT = time.RFC3339Nano
)

var ledgertables = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		notebook TEXT NOT NULL,
		started TEXT NOT NULL,
		finished TEXT NOT NULL,
		samples INTEGER NOT NULL,
		trials INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS trials (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		params TEXT NOT NULL,
		short TEXT NOT NULL,
		n_clusters INTEGER NOT NULL,
		inertia REAL NOT NULL,
		sizes TEXT NOT NULL,
		top_terms TEXT NOT NULL,
		points TEXT NOT NULL,
		elapsed INTEGER NOT NULL,
		reading TEXT NOT NULL,
		snapshot BLOB,
		PRIMARY KEY (run_id, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		idx INTEGER NOT NULL,
		content TEXT NOT NULL,
		num_clusters INTEGER NOT NULL,
		cluster INTEGER NOT NULL,
		top_tokens TEXT NOT NULL,
		params_str TEXT NOT NULL,
		FOREIGN KEY (run_id, seq) REFERENCES trials(run_id, seq) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS posts_by_run ON posts (run_id, cluster)`,
}

// Ledger - the SQLite results ledger
type Ledger struct {
	db *sql.DB
}

// OpenLedger - open (creating if need be) the ledger at path; ":memory:" works for throwaway ledgers
func OpenLedger(path string) (*Ledger, error) {
	const (
		MSG1 = "OpenLedger() results ledger at %s"
	)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	// one writer; also keeps a ":memory:" db from vanishing between pooled connections
	db.SetMaxOpenConns(1)

	l := &Ledger{db: db}
	if err = l.init(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init ledger %s: %w", path, err)
	}
	Msg.PEEK(fmt.Sprintf(MSG1, path))
	return l, nil
}

func (l *Ledger) init() error {
	if _, err := l.db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return err
	}
	for _, q := range ledgertables {
		if _, err := l.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Close - close the underlying db
func (l *Ledger) Close() error {
	return l.db.Close()
}

// SaveRun - insert or replace a run
func (l *Ledger) SaveRun(ctx context.Context, r Run) error {
	const (
		Q = `INSERT OR REPLACE INTO runs (id, notebook, started, finished, samples, trials) VALUES (?, ?, ?, ?, ?, ?)`
	)
	_, err := l.db.ExecContext(ctx, Q, r.ID, r.Notebook, r.Started.Format(LTTIMEFMT), r.Finished.Format(LTTIMEFMT), r.Samples, r.Trials)
	return err
}

// SaveTrial - insert or replace a trial and its sampled posts in one transaction
func (l *Ledger) SaveTrial(ctx context.Context, t Trial, posts []explore.ClusterPost) error {
	const (
		QT = `INSERT OR REPLACE INTO trials (run_id, seq, params, short, n_clusters, inertia, sizes, top_terms, points, elapsed, reading, snapshot)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		QD = `DELETE FROM posts WHERE run_id = ? AND seq = ?`
		QP = `INSERT INTO posts (run_id, seq, idx, content, num_clusters, cluster, top_tokens, params_str) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	)

	sizes, top, points, err := trialjson(t)
	if err != nil {
		return err
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, QT, t.RunID, t.Seq, t.Params, t.Short, t.NClusters, t.Inertia,
		sizes, top, points, int64(t.Elapsed), t.Reading, t.Snapshot); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, QD, t.RunID, t.Seq); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, QP)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range posts {
		tt, e := json.Marshal(p.TopTokens)
		if e != nil {
			return e
		}
		if _, e = stmt.ExecContext(ctx, t.RunID, t.Seq, p.Index, p.Content, p.NumClusters, p.Cluster, string(tt), p.ParamsStr); e != nil {
			return e
		}
	}
	return tx.Commit()
}

func trialjson(t Trial) (string, string, string, error) {
	sizes, err := json.Marshal(t.Sizes)
	if err != nil {
		return "", "", "", err
	}
	top, err := json.Marshal(t.Top)
	if err != nil {
		return "", "", "", err
	}
	points, err := json.Marshal(t.Points)
	if err != nil {
		return "", "", "", err
	}
	return string(sizes), string(top), string(points), nil
}

// Runs - every run, newest first
func (l *Ledger) Runs(ctx context.Context) ([]Run, error) {
	const (
		Q = `SELECT id, notebook, started, finished, samples, trials FROM runs ORDER BY started DESC`
	)
	rows, err := l.db.QueryContext(ctx, Q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, e := scanrun(rows)
		if e != nil {
			return nil, e
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Run - a single run
func (l *Ledger) Run(ctx context.Context, id string) (Run, error) {
	const (
		Q = `SELECT id, notebook, started, finished, samples, trials FROM runs WHERE id = ?`
	)
	r, err := scanrun(l.db.QueryRowContext(ctx, Q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("%s: %w", id, ErrNoRun)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanrun(s scanner) (Run, error) {
	var r Run
	var st, fin string
	if err := s.Scan(&r.ID, &r.Notebook, &st, &fin, &r.Samples, &r.Trials); err != nil {
		return r, err
	}
	var err error
	if r.Started, err = time.Parse(LTTIMEFMT, st); err != nil {
		return r, err
	}
	if r.Finished, err = time.Parse(LTTIMEFMT, fin); err != nil {
		return r, err
	}
	return r, nil
}

// Trials - the trials of a run in grid order; snapshots are left out unless withSnap
func (l *Ledger) Trials(ctx context.Context, id string, withSnap bool) ([]Trial, error) {
	const (
		Q = `SELECT run_id, seq, params, short, n_clusters, inertia, sizes, top_terms, points, elapsed, reading, %s
			FROM trials WHERE run_id = ? ORDER BY seq`
	)

	snapcol := "NULL"
	if withSnap {
		snapcol = "snapshot"
	}

	if _, err := l.Run(ctx, id); err != nil {
		return nil, err
	}

	rows, err := l.db.QueryContext(ctx, fmt.Sprintf(Q, snapcol), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trials []Trial
	for rows.Next() {
		var t Trial
		var sizes, top, points string
		var el int64
		if err = rows.Scan(&t.RunID, &t.Seq, &t.Params, &t.Short, &t.NClusters, &t.Inertia,
			&sizes, &top, &points, &el, &t.Reading, &t.Snapshot); err != nil {
			return nil, err
		}
		t.Elapsed = time.Duration(el)
		if err = json.Unmarshal([]byte(sizes), &t.Sizes); err != nil {
			return nil, err
		}
		if err = json.Unmarshal([]byte(top), &t.Top); err != nil {
			return nil, err
		}
		if err = json.Unmarshal([]byte(points), &t.Points); err != nil {
			return nil, err
		}
		trials = append(trials, t)
	}
	return trials, rows.Err()
}

// Posts - the sampled posts of a run in trial then cluster order
func (l *Ledger) Posts(ctx context.Context, id string, pf PostFilter) ([]explore.ClusterPost, error) {
	const (
		Q = `SELECT idx, content, num_clusters, cluster, top_tokens, params_str FROM posts WHERE %s ORDER BY seq, rowid`
	)

	where := []string{"run_id = ?"}
	args := []any{id}
	if pf.Cluster >= 0 {
		where = append(where, "cluster = ?")
		args = append(args, pf.Cluster)
	}
	if pf.Params != "" {
		where = append(where, "params_str = ?")
		args = append(args, pf.Params)
	}

	rows, err := l.db.QueryContext(ctx, fmt.Sprintf(Q, strings.Join(where, " AND ")), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []explore.ClusterPost
	for rows.Next() {
		var p explore.ClusterPost
		var tt string
		if err = rows.Scan(&p.Index, &p.Content, &p.NumClusters, &p.Cluster, &tt, &p.ParamsStr); err != nil {
			return nil, err
		}
		if err = json.Unmarshal([]byte(tt), &p.TopTokens); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
