//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package cluster

import (
	"context"
	"fmt"
	"strings"

	"github.com/e-gun/TextClusterLab/internal/gen"
	"github.com/e-gun/nlp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	NORML2   = "l2"
	NORMNONE = "none"
)

// Pipeline - vectorizer -> tfidf -> clusterer; steps are configured through "<step>__<param>" keys
type Pipeline struct {
	Stops  []string
	Params ParamSet
	vect   *nlp.CountVectoriser
	pipe   *nlp.Pipeline
	km     *KMeans
	vocab  []string
}

// NewPipeline - an unfitted pipeline that will drop stops while counting terms
func NewPipeline(stops []string) *Pipeline {
	return &Pipeline{Stops: append([]string(nil), stops...), Params: ParamSet{}}
}

// SetParams - merge params into the pipeline's settings; unknown keys and wrong kinds are refused
func (p *Pipeline) SetParams(params ParamSet) error {
	np := params.Normalize()
	if err := np.Validate(); err != nil {
		return err
	}
	merged := make(ParamSet, len(p.Params)+len(np))
	for k, v := range p.Params {
		merged[k] = v
	}
	for k, v := range np {
		merged[k] = v
	}
	if nrm := merged.Str(PNORM, NORML2); nrm != NORML2 && nrm != NORMNONE {
		return fmt.Errorf("%s=%q: %w", PNORM, nrm, ErrBadParam)
	}
	p.Params = merged
	return nil
}

// Clone - an unfitted copy with the same stops and params
func (p *Pipeline) Clone() *Pipeline {
	c := NewPipeline(p.Stops)
	for k, v := range p.Params {
		c.Params[k] = v
	}
	return c
}

// Fitted - whether Labels() etc. mean anything yet
func (p *Pipeline) Fitted() bool {
	return p.km != nil && p.km.Centroids != nil
}

// Fit - learn the vocabulary, weights, and clusters of the corpus
func (p *Pipeline) Fit(ctx context.Context, corpus []string) error {
	k := p.Params.Int(PNCLUSTERS, 0)
	if k < 1 {
		return fmt.Errorf("%s=%d: %w", PNCLUSTERS, k, ErrBadParam)
	}
	if len(corpus) < k {
		return fmt.Errorf("%d documents, %d clusters: %w", len(corpus), k, ErrTooFewDocs)
	}

	tok := WhitespaceTokeniser{Stops: gen.ToSet(p.Stops)}
	if !anytokens(tok, corpus) {
		return ErrEmptyVocabulary
	}

	p.vect = nlp.NewCountVectoriser(p.Stops...)
	p.vect.Tokeniser = tok

	var steps []nlp.Transformer
	if p.Params.Bool(PUSEIDF, true) {
		steps = append(steps, nlp.NewTfidfTransformer())
	}
	p.pipe = nlp.NewPipeline(p.vect, steps...)

	weighted, err := p.pipe.FitTransform(corpus...)
	if err != nil {
		return fmt.Errorf("vectorise: %w", err)
	}

	km := NewKMeans(k, int64(p.Params.Int(PSEED, 0)))
	km.MaxIter = p.Params.Int(PMAXITER, km.MaxIter)
	km.NInit = p.Params.Int(PNINIT, km.NInit)
	km.Tol = p.Params.Float(PTOL, km.Tol)
	km.Normalise = p.Params.Str(PNORM, NORML2) == NORML2

	if err = km.FitContext(ctx, weighted); err != nil {
		return err
	}
	p.km = km

	p.vocab = make([]string, len(p.vect.Vocabulary))
	for w, i := range p.vect.Vocabulary {
		p.vocab[i] = w
	}
	return nil
}

func anytokens(tok WhitespaceTokeniser, corpus []string) bool {
	for _, doc := range corpus {
		found := false
		tok.ForEachIn(doc, func(string) { found = true })
		if found {
			return true
		}
	}
	return false
}

// Predict - the nearest learned cluster for each new document
func (p *Pipeline) Predict(docs []string) ([]int, error) {
	if !p.Fitted() || p.pipe == nil {
		return nil, ErrNotFitted
	}
	m, err := p.pipe.Transform(docs...)
	if err != nil {
		return nil, err
	}
	return p.km.Predict(m)
}

// FeatureNames - the vocabulary in column order
func (p *Pipeline) FeatureNames() []string {
	return p.vocab
}

// Labels - cluster of each document of the last fit
func (p *Pipeline) Labels() []int {
	if p.km == nil {
		return nil
	}
	return p.km.Labels
}

// Centroids - K x terms
func (p *Pipeline) Centroids() *mat.Dense {
	if p.km == nil {
		return nil
	}
	return p.km.Centroids
}

// Inertia - sum of squared distances of documents to their centroids
func (p *Pipeline) Inertia() float64 {
	if p.km == nil {
		return 0
	}
	return p.km.Inertia
}

// TopTerms - the n heaviest terms of every centroid, heaviest first
func (p *Pipeline) TopTerms(n int) (map[int][]string, error) {
	cents := p.Centroids()
	if cents == nil {
		return nil, ErrNotFitted
	}
	k, terms := cents.Dims()
	if n > terms {
		n = terms
	}

	top := make(map[int][]string, k)
	row := make([]float64, terms)
	inds := make([]int, terms)
	for c := 0; c < k; c++ {
		mat.Row(row, c, cents)
		// argsort ascending on the negated weights == descending on the weights
		floats.Scale(-1, row)
		floats.Argsort(row, inds)
		words := make([]string, n)
		for i := 0; i < n; i++ {
			words[i] = p.vocab[inds[i]]
		}
		top[c] = words
	}
	return top, nil
}

// String - "Pipeline(vectorizer, tfidf, clusterer){...}"
func (p *Pipeline) String() string {
	steps := []string{"vectorizer"}
	if p.Params.Bool(PUSEIDF, true) {
		steps = append(steps, "tfidf")
	}
	steps = append(steps, "clusterer")
	return fmt.Sprintf("Pipeline(%s)%s", strings.Join(steps, ", "), p.Params.String())
}
