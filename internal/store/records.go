//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/e-gun/TextClusterLab/internal/cluster"
	"github.com/e-gun/TextClusterLab/internal/explore"
	"github.com/e-gun/TextClusterLab/internal/flow"
	"github.com/e-gun/TextClusterLab/internal/lnch"
	"github.com/google/uuid"
)

var (
	Msg = lnch.NewMessageMakerWithDefaults()

	ErrNoRun   = errors.New("no such run")
	ErrNoLogin = errors.New("incomplete PostgreSQL credentials")
)

// Run - one execution of the clustering notebook
type Run struct {
	ID       string    `json:"id"`
	Notebook string    `json:"notebook"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Samples  int       `json:"samples"`
	Trials   int       `json:"trials"`
}

// Trial - one point of the grid as the ledger keeps it
type Trial struct {
	RunID     string           `json:"run_id"`
	Seq       int              `json:"seq"`
	Params    string           `json:"params"`
	Short     string           `json:"short"`
	NClusters int              `json:"n_clusters"`
	Inertia   float64          `json:"inertia"`
	Sizes     []int            `json:"sizes"`
	Top       map[int][]string `json:"top_terms"`
	Points    []cluster.Point  `json:"points,omitempty"`
	Elapsed   time.Duration    `json:"elapsed"`
	Reading   string           `json:"-"`
	Snapshot  []byte           `json:"-"`
}

// PostFilter - narrow a posts query; Cluster < 0 and Params == "" match everything
type PostFilter struct {
	Cluster int
	Params  string
}

// Sink - somewhere finished runs can be written
type Sink interface {
	SaveRun(ctx context.Context, r Run) error
	SaveTrial(ctx context.Context, t Trial, posts []explore.ClusterPost) error
	Close() error
}

// NewRunID - a fresh run identifier
func NewRunID() string {
	return uuid.New().String()
}

// TrialFromOutput - the ledger's view of one flow.TrialOutput
func TrialFromOutput(runID string, seq int, o flow.TrialOutput) (Trial, error) {
	snap, err := o.Snapshot.Marshal()
	if err != nil {
		return Trial{}, fmt.Errorf("trial %d: %w", seq, err)
	}
	return Trial{
		RunID:     runID,
		Seq:       seq,
		Params:    o.Params.String(),
		Short:     o.Params.Short(),
		NClusters: o.Params.Int(cluster.PNCLUSTERS, len(o.Sizes)),
		Inertia:   o.Inertia,
		Sizes:     o.Sizes,
		Top:       o.Top,
		Points:    o.Points,
		Elapsed:   o.Elapsed,
		Reading:   o.Reading,
		Snapshot:  snap,
	}, nil
}

// Record - write a run and every one of its trials to each sink in turn
func Record(ctx context.Context, r Run, outputs []flow.TrialOutput, sinks ...Sink) error {
	const (
		MSG1 = "Record() wrote run %s (%d trials) to %d sink(s)"
	)

	r.Trials = len(outputs)
	trials := make([]Trial, len(outputs))
	for i, o := range outputs {
		t, err := TrialFromOutput(r.ID, i, o)
		if err != nil {
			return err
		}
		trials[i] = t
	}

	n := 0
	for _, s := range sinks {
		if s == nil {
			continue
		}
		if err := s.SaveRun(ctx, r); err != nil {
			return fmt.Errorf("save run %s: %w", r.ID, err)
		}
		for i, t := range trials {
			if err := s.SaveTrial(ctx, t, outputs[i].Posts); err != nil {
				return fmt.Errorf("save trial %d of run %s: %w", i, r.ID, err)
			}
		}
		n++
	}
	Msg.FYI(fmt.Sprintf(MSG1, r.ID, len(trials), n))
	return nil
}
