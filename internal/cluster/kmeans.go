//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package cluster

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/e-gun/nlp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/e-gun/TextClusterLab/internal/vv"
)

var (
	ErrTooFewDocs      = errors.New("fewer documents than clusters")
	ErrEmptyVocabulary = errors.New("empty vocabulary")
	ErrNotFitted       = errors.New("pipeline has not been fitted")
)

// docvec - one document as a sparse row: the term ids it uses and their weights
type docvec struct {
	idx []int
	val []float64
	sq  float64 // squared norm
}

func (d docvec) dot(c []float64) float64 {
	s := 0.0
	for i, j := range d.idx {
		s += d.val[i] * c[j]
	}
	return s
}

// KMeans - Lloyd's algorithm with k-means++ seeding over sparse documents
type KMeans struct {
	K         int
	Seed      int64
	MaxIter   int
	NInit     int
	Tol       float64
	Normalise bool // l2-normalise every document first
	Labels    []int
	Centroids *mat.Dense // K x terms
	Inertia   float64
	NIter     int
	docs      []docvec
	terms     int
	err       error
}

var _ nlp.Transformer = (*KMeans)(nil)

// NewKMeans - sensible defaults for k clusters
func NewKMeans(k int, seed int64) *KMeans {
	return &KMeans{K: k, Seed: seed, MaxIter: vv.KMEANSMAXITER, NInit: vv.KMEANSNINIT, Tol: vv.KMEANSTOL, Normalise: true}
}

// Fit - nlp.Transformer; m is terms x documents; any failure is reported by the next Transform
func (km *KMeans) Fit(m mat.Matrix) nlp.Transformer {
	km.err = km.FitContext(context.Background(), m)
	return km
}

// FitTransform - fit, then distances from every document to every centroid
func (km *KMeans) FitTransform(m mat.Matrix) (mat.Matrix, error) {
	km.Fit(m)
	if km.err != nil {
		return nil, km.err
	}
	return km.Transform(m)
}

// Transform - K x documents matrix of euclidean distances to each centroid
func (km *KMeans) Transform(m mat.Matrix) (mat.Matrix, error) {
	if km.err != nil {
		return nil, km.err
	}
	if km.Centroids == nil {
		return nil, ErrNotFitted
	}
	docs, terms := tovectors(m, km.Normalise)
	if terms != km.terms {
		return nil, fmt.Errorf("%d terms in input, %d in model: %w", terms, km.terms, ErrBadParam)
	}
	cents := km.centroidrows()
	csq := sqnorms(cents)
	out := mat.NewDense(km.K, len(docs), nil)
	for j, d := range docs {
		for c := range cents {
			out.Set(c, j, math.Sqrt(sqdist(d, cents[c], csq[c])))
		}
	}
	return out, nil
}

// Predict - nearest centroid for each document of m
func (km *KMeans) Predict(m mat.Matrix) ([]int, error) {
	dist, err := km.Transform(m)
	if err != nil {
		return nil, err
	}
	r, c := dist.Dims()
	lab := make([]int, c)
	for j := 0; j < c; j++ {
		best := math.Inf(1)
		for i := 0; i < r; i++ {
			if v := dist.At(i, j); v < best {
				best = v
				lab[j] = i
			}
		}
	}
	return lab, nil
}

// FitContext - the real fit; the best of NInit seeded runs by inertia wins
func (km *KMeans) FitContext(ctx context.Context, m mat.Matrix) error {
	if km.K < 1 {
		return fmt.Errorf("n_clusters=%d: %w", km.K, ErrBadParam)
	}
	if m == nil {
		return ErrEmptyVocabulary
	}

	docs, terms := tovectors(m, km.Normalise)
	if terms == 0 {
		return ErrEmptyVocabulary
	}
	if len(docs) < km.K {
		return fmt.Errorf("%d documents, %d clusters: %w", len(docs), km.K, ErrTooFewDocs)
	}

	km.docs = docs
	km.terms = terms

	ninit := km.NInit
	if ninit < 1 {
		ninit = 1
	}
	maxiter := km.MaxIter
	if maxiter < 1 {
		maxiter = 1
	}
	tol := km.Tol * meanvariance(docs, terms)

	rng := rand.New(rand.NewSource(km.Seed))

	var best *kmrun
	for run := 0; run < ninit; run++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		r := newrun(docs, terms, km.K)
		r.seed(rng)
		if err := r.lloyd(ctx, maxiter, tol); err != nil {
			return err
		}
		if best == nil || r.inertia < best.inertia {
			best = r
		}
	}

	km.Labels = best.labels
	km.Inertia = best.inertia
	km.NIter = best.niter
	km.Centroids = mat.NewDense(km.K, terms, floatsflat(best.cents))
	km.err = nil
	return nil
}

func (km *KMeans) centroidrows() [][]float64 {
	r, c := km.Centroids.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = make([]float64, c)
		mat.Row(rows[i], i, km.Centroids)
	}
	return rows
}

//
// ONE SEEDED RUN
//

type kmrun struct {
	docs    []docvec
	terms   int
	k       int
	cents   [][]float64
	labels  []int
	dist    []float64 // squared distance of each doc to its centroid
	inertia float64
	niter   int
}

func newrun(docs []docvec, terms int, k int) *kmrun {
	r := &kmrun{docs: docs, terms: terms, k: k, labels: make([]int, len(docs)), dist: make([]float64, len(docs))}
	r.cents = make([][]float64, k)
	for i := range r.cents {
		r.cents[i] = make([]float64, terms)
	}
	return r
}

// seed - k-means++: each new centre is drawn with probability proportional to D(x)^2
func (r *kmrun) seed(rng *rand.Rand) {
	n := len(r.docs)
	setcent(r.cents[0], r.docs[rng.Intn(n)])

	closest := make([]float64, n)
	c0sq := floats.Dot(r.cents[0], r.cents[0])
	for i, d := range r.docs {
		closest[i] = sqdist(d, r.cents[0], c0sq)
	}

	for c := 1; c < r.k; c++ {
		total := floats.Sum(closest)
		pick := 0
		if total <= 0 {
			pick = rng.Intn(n)
		} else {
			target := rng.Float64() * total
			acc := 0.0
			for i, v := range closest {
				acc += v
				if acc >= target {
					pick = i
					break
				}
				pick = i
			}
		}
		setcent(r.cents[c], r.docs[pick])
		csq := floats.Dot(r.cents[c], r.cents[c])
		for i, d := range r.docs {
			if v := sqdist(d, r.cents[c], csq); v < closest[i] {
				closest[i] = v
			}
		}
	}
}

func (r *kmrun) assign() {
	csq := sqnorms(r.cents)
	r.inertia = 0
	for i, d := range r.docs {
		best, bestc := math.Inf(1), 0
		for c, cent := range r.cents {
			if v := sqdist(d, cent, csq[c]); v < best {
				best, bestc = v, c
			}
		}
		r.labels[i] = bestc
		r.dist[i] = best
		r.inertia += best
	}
}

// update - recompute the means; an empty cluster takes the document farthest from its centre; returns the total squared shift
func (r *kmrun) update() float64 {
	sums := make([][]float64, r.k)
	for i := range sums {
		sums[i] = make([]float64, r.terms)
	}
	counts := make([]int, r.k)
	for i, d := range r.docs {
		c := r.labels[i]
		counts[c]++
		for p, j := range d.idx {
			sums[c][j] += d.val[p]
		}
	}

	for c := range sums {
		if counts[c] > 0 {
			continue
		}
		far := floats.MaxIdx(r.dist)
		setcent(sums[c], r.docs[far])
		counts[c] = 1
		// move it so that a second empty cluster picks someone else
		old := r.labels[far]
		if counts[old] > 1 {
			counts[old]--
			for p, j := range r.docs[far].idx {
				sums[old][j] -= r.docs[far].val[p]
			}
		}
		r.labels[far] = c
		r.dist[far] = 0
	}

	shift := 0.0
	for c := range sums {
		floats.Scale(1/float64(counts[c]), sums[c])
		d := floats.Distance(sums[c], r.cents[c], 2)
		shift += d * d
		r.cents[c] = sums[c]
	}
	return shift
}

func (r *kmrun) lloyd(ctx context.Context, maxiter int, tol float64) error {
	for it := 0; it < maxiter; it++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.assign()
		shift := r.update()
		r.niter = it + 1
		if shift <= tol {
			break
		}
	}
	r.assign()
	return nil
}

//
// HELPERS
//

// tovectors - terms x documents matrix to one sparse vector per document
func tovectors(m mat.Matrix, normalise bool) ([]docvec, int) {
	terms, ndocs := m.Dims()
	docs := make([]docvec, ndocs)

	if nz, ok := m.(mat.NonZeroDoer); ok {
		nz.DoNonZero(func(i, j int, v float64) {
			if v != 0 {
				docs[j].idx = append(docs[j].idx, i)
				docs[j].val = append(docs[j].val, v)
			}
		})
	} else {
		for j := 0; j < ndocs; j++ {
			for i := 0; i < terms; i++ {
				if v := m.At(i, j); v != 0 {
					docs[j].idx = append(docs[j].idx, i)
					docs[j].val = append(docs[j].val, v)
				}
			}
		}
	}

	for j := range docs {
		sq := floats.Dot(docs[j].val, docs[j].val)
		if normalise && sq > 0 {
			floats.Scale(1/math.Sqrt(sq), docs[j].val)
			sq = 1
		}
		docs[j].sq = sq
	}
	return docs, terms
}

func setcent(dst []float64, d docvec) {
	for i := range dst {
		dst[i] = 0
	}
	for p, j := range d.idx {
		dst[j] = d.val[p]
	}
}

func sqdist(d docvec, c []float64, csq float64) float64 {
	v := d.sq - 2*d.dot(c) + csq
	if v < 0 {
		return 0
	}
	return v
}

func sqnorms(cents [][]float64) []float64 {
	out := make([]float64, len(cents))
	for i, c := range cents {
		out[i] = floats.Dot(c, c)
	}
	return out
}

// meanvariance - mean over terms of the per-term variance; scales the convergence tolerance
func meanvariance(docs []docvec, terms int) float64 {
	n := float64(len(docs))
	if n == 0 || terms == 0 {
		return 0
	}
	sum := make([]float64, terms)
	sumsq := make([]float64, terms)
	for _, d := range docs {
		for p, j := range d.idx {
			sum[j] += d.val[p]
			sumsq[j] += d.val[p] * d.val[p]
		}
	}
	total := 0.0
	for j := range sum {
		mean := sum[j] / n
		total += sumsq[j]/n - mean*mean
	}
	return total / float64(terms)
}

func floatsflat(rows [][]float64) []float64 {
	var out []float64
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}
