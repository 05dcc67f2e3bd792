//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package cluster

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Snapshot - what a fitted pipeline knows, in a form that can be written down and read back
type Snapshot struct {
	Params     ParamSet    `json:"params"`
	Stops      []string    `json:"stops"`
	Vocabulary []string    `json:"vocabulary"`
	Centroids  [][]float64 `json:"centroids"`
	Labels     []int       `json:"labels"`
	Inertia    float64     `json:"inertia"`
	NIter      int         `json:"n_iter"`
}

// Snapshot - freeze a fitted pipeline
func (p *Pipeline) Snapshot() (Snapshot, error) {
	if !p.Fitted() {
		return Snapshot{}, ErrNotFitted
	}
	return Snapshot{
		Params:     p.Params,
		Stops:      p.Stops,
		Vocabulary: p.vocab,
		Centroids:  p.km.centroidrows(),
		Labels:     p.km.Labels,
		Inertia:    p.km.Inertia,
		NIter:      p.km.NIter,
	}, nil
}

// Marshal - the snapshot as JSON
func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot - JSON back to a snapshot
func UnmarshalSnapshot(b []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return s, err
	}
	s.Params = s.Params.Normalize()
	return s, nil
}

// Restore - a pipeline that answers Labels(), Centroids(), TopTerms() from a snapshot; it cannot Predict()
func Restore(s Snapshot) (*Pipeline, error) {
	p := NewPipeline(s.Stops)
	if err := p.SetParams(s.Params); err != nil {
		return nil, err
	}
	k := len(s.Centroids)
	if k == 0 {
		return nil, ErrNotFitted
	}
	for i, row := range s.Centroids {
		if len(row) != len(s.Vocabulary) {
			return nil, fmt.Errorf("centroid %d has %d terms, vocabulary has %d: %w", i, len(row), len(s.Vocabulary), ErrBadParam)
		}
	}
	if len(s.Vocabulary) == 0 {
		return nil, ErrEmptyVocabulary
	}

	km := NewKMeans(k, int64(p.Params.Int(PSEED, 0)))
	km.Normalise = p.Params.Str(PNORM, NORML2) == NORML2
	km.Labels = s.Labels
	km.Inertia = s.Inertia
	km.NIter = s.NIter
	km.terms = len(s.Vocabulary)
	km.Centroids = mat.NewDense(k, len(s.Vocabulary), floatsflat(s.Centroids))

	p.km = km
	p.vocab = s.Vocabulary
	return p, nil
}
