//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package cluster

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Point - one document placed on the plane of the centroids' first two principal components
type Point struct {
	Doc     int     `json:"doc"`
	Cluster int     `json:"cluster"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// Project2D - at most limit documents of the last fit (evenly strided) projected onto the centroid PCA plane
func (p *Pipeline) Project2D(limit int) ([]Point, error) {
	if !p.Fitted() || len(p.km.docs) == 0 {
		return nil, ErrNotFitted
	}

	cents := p.km.Centroids
	k, terms := cents.Dims()
	if k < 2 {
		return nil, ErrTooFewDocs
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(cents, nil); !ok {
		return nil, ErrBadParam
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	_, ncomp := vecs.Dims()

	mean := make([]float64, terms)
	for j := 0; j < terms; j++ {
		s := 0.0
		for i := 0; i < k; i++ {
			s += cents.At(i, j)
		}
		mean[j] = s / float64(k)
	}

	axis := func(c int) []float64 {
		a := make([]float64, terms)
		if c < ncomp {
			mat.Col(a, c, &vecs)
		}
		return a
	}
	ax, ay := axis(0), axis(1)
	mx, my := floats.Dot(mean, ax), floats.Dot(mean, ay)

	docs := p.km.docs
	step := 1
	if limit > 0 && len(docs) > limit {
		step = (len(docs) + limit - 1) / limit
	}

	var pts []Point
	for j := 0; j < len(docs); j += step {
		pts = append(pts, Point{
			Doc:     j,
			Cluster: p.km.Labels[j],
			X:       docs[j].dot(ax) - mx,
			Y:       docs[j].dot(ay) - my,
		})
	}
	return pts, nil
}
