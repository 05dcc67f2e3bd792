//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/e-gun/TextClusterLab/internal/explore"
	"github.com/e-gun/TextClusterLab/internal/str"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//
// POSTGRESQL EXPORT
//

var pgtables = []string{
	`CREATE TABLE IF NOT EXISTS tcl_runs (
		id TEXT PRIMARY KEY,
		notebook TEXT NOT NULL,
		started TIMESTAMPTZ NOT NULL,
		finished TIMESTAMPTZ NOT NULL,
		samples INTEGER NOT NULL,
		trials INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tcl_trials (
		run_id TEXT NOT NULL REFERENCES tcl_runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		params TEXT NOT NULL,
		n_clusters INTEGER NOT NULL,
		inertia DOUBLE PRECISION NOT NULL,
		sizes INTEGER[] NOT NULL,
		top_terms TEXT NOT NULL,
		elapsed_ms BIGINT NOT NULL,
		PRIMARY KEY (run_id, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS tcl_posts (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		idx INTEGER NOT NULL,
		content TEXT NOT NULL,
		num_clusters INTEGER NOT NULL,
		cluster INTEGER NOT NULL,
		top_tokens TEXT[] NOT NULL,
		params_str TEXT NOT NULL
	)`,
}

var postcols = []string{"run_id", "seq", "idx", "content", "num_clusters", "cluster", "top_tokens", "params_str"}

// PGExport - a Sink that copies results into PostgreSQL
type PGExport struct {
	pool *pgxpool.Pool
}

// PGURL - the connection string for a login
func PGURL(pl str.PostgresLogin, workers int) string {
	const (
		UTPL = "postgres://%s:%s@%s:%d/%s?pool_min_conns=%d&pool_max_conns=%d"
	)
	if workers < 1 {
		workers = 1
	}
	return fmt.Sprintf(UTPL, pl.User, pl.Pass, pl.Host, pl.Port, pl.DBName, 1, workers)
}

// NewPGExport - build the pool and make sure the export tables exist
func NewPGExport(ctx context.Context, pl str.PostgresLogin, workers int) (*PGExport, error) {
	const (
		FAIL1   = "NewPGExport() could not parse the connection configuration for %s@%s:%d/%s"
		ERRRUN  = `dial error`
		FAILRUN = `NewPGExport() the PostgreSQL server cannot be found; check that it is running and serving on port %d`
	)

	if !pl.Usable() {
		return nil, ErrNoLogin
	}

	config, err := pgxpool.ParseConfig(PGURL(pl, workers))
	if err != nil {
		Msg.WARN(fmt.Sprintf(FAIL1, pl.User, pl.Host, pl.Port, pl.DBName))
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	if err = pool.Ping(ctx); err != nil {
		if strings.Contains(err.Error(), ERRRUN) {
			Msg.WARN(fmt.Sprintf(FAILRUN, pl.Port))
		}
		pool.Close()
		return nil, err
	}

	for _, q := range pgtables {
		if _, err = pool.Exec(ctx, q); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &PGExport{pool: pool}, nil
}

// SaveRun - upsert a run
func (pg *PGExport) SaveRun(ctx context.Context, r Run) error {
	const (
		Q = `INSERT INTO tcl_runs (id, notebook, started, finished, samples, trials) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET finished = EXCLUDED.finished, trials = EXCLUDED.trials`
	)
	_, err := pg.pool.Exec(ctx, Q, r.ID, r.Notebook, r.Started, r.Finished, r.Samples, r.Trials)
	return err
}

// SaveTrial - upsert a trial; its posts are replaced via COPY
func (pg *PGExport) SaveTrial(ctx context.Context, t Trial, posts []explore.ClusterPost) error {
	const (
		QT = `INSERT INTO tcl_trials (run_id, seq, params, n_clusters, inertia, sizes, top_terms, elapsed_ms)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (run_id, seq) DO UPDATE SET inertia = EXCLUDED.inertia, sizes = EXCLUDED.sizes, top_terms = EXCLUDED.top_terms`
		QD = `DELETE FROM tcl_posts WHERE run_id = $1 AND seq = $2`
	)

	top, err := json.Marshal(t.Top)
	if err != nil {
		return err
	}

	tx, err := pg.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, QT, t.RunID, t.Seq, t.Params, t.NClusters, t.Inertia, t.Sizes, string(top), t.Elapsed.Milliseconds()); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, QD, t.RunID, t.Seq); err != nil {
		return err
	}

	if _, err = tx.CopyFrom(ctx, pgx.Identifier{"tcl_posts"}, postcols, pgx.CopyFromRows(postrows(t, posts))); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func postrows(t Trial, posts []explore.ClusterPost) [][]any {
	rows := make([][]any, len(posts))
	for i, p := range posts {
		tt := p.TopTokens
		if tt == nil {
			tt = []string{}
		}
		rows[i] = []any{t.RunID, t.Seq, p.Index, p.Content, p.NumClusters, p.Cluster, tt, p.ParamsStr}
	}
	return rows
}

// Close - close the pool
func (pg *PGExport) Close() error {
	pg.pool.Close()
	return nil
}
