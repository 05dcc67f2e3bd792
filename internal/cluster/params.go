//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package cluster

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/e-gun/TextClusterLab/internal/gen"
)

var ErrBadParam = errors.New("bad pipeline parameter")

const (
	PNCLUSTERS = "clusterer__n_clusters"
	PSEED      = "clusterer__random_state"
	PMAXITER   = "clusterer__max_iter"
	PNINIT     = "clusterer__n_init"
	PTOL       = "clusterer__tol"
	PUSEIDF    = "vectorizer__use_idf"
	PNORM      = "vectorizer__norm"
)

type paramkind int

const (
	kint paramkind = iota
	kfloat
	kbool
	kstring
)

var knownparams = map[string]paramkind{
	PNCLUSTERS: kint,
	PSEED:      kint,
	PMAXITER:   kint,
	PNINIT:     kint,
	PTOL:       kfloat,
	PUSEIDF:    kbool,
	PNORM:      kstring,
}

// ParamSet - "<step>__<param>" -> value; one point of a hyperparameter grid
type ParamSet map[string]any

// Normalize - integral floats become ints wherever an int is expected (JSON hands us float64s)
func (ps ParamSet) Normalize() ParamSet {
	out := make(ParamSet, len(ps))
	for k, v := range ps {
		if knownparams[k] == kint {
			switch t := v.(type) {
			case float64:
				if t == math.Trunc(t) {
					v = int(t)
				}
			case json.Number:
				if n, err := t.Int64(); err == nil {
					v = int(n)
				}
			case int64:
				v = int(t)
			}
		}
		if knownparams[k] == kfloat {
			switch t := v.(type) {
			case int:
				v = float64(t)
			case json.Number:
				if f, err := t.Float64(); err == nil {
					v = f
				}
			}
		}
		out[k] = v
	}
	return out
}

// Validate - every key known, every value of the right kind
func (ps ParamSet) Validate() error {
	keys := gen.SortedKeys(ps)
	if unknown := gen.SetSubtraction(keys, gen.SortedKeys(knownparams)); len(unknown) > 0 {
		return fmt.Errorf("unknown key(s) %q: %w", unknown, ErrBadParam)
	}
	for _, k := range keys {
		v := ps[k]
		kind := knownparams[k]
		good := false
		switch kind {
		case kint:
			_, good = v.(int)
		case kfloat:
			_, good = v.(float64)
		case kbool:
			_, good = v.(bool)
		case kstring:
			_, good = v.(string)
		}
		if !good {
			return fmt.Errorf("%s=%v (%T): %w", k, v, v, ErrBadParam)
		}
	}
	return nil
}

// Int - an int parameter or its default
func (ps ParamSet) Int(key string, def int) int {
	if v, ok := ps[key].(int); ok {
		return v
	}
	return def
}

// Float - a float parameter or its default
func (ps ParamSet) Float(key string, def float64) float64 {
	if v, ok := ps[key].(float64); ok {
		return v
	}
	return def
}

// Bool - a bool parameter or its default
func (ps ParamSet) Bool(key string, def bool) bool {
	if v, ok := ps[key].(bool); ok {
		return v
	}
	return def
}

// Str - a string parameter or its default
func (ps ParamSet) Str(key string, def string) string {
	if v, ok := ps[key].(string); ok {
		return v
	}
	return def
}

// String - rendered like a python dict: {'clusterer__n_clusters': 6, 'vectorizer__use_idf': True}
func (ps ParamSet) String() string {
	return ps.render(func(k string) string { return k })
}

// Short - String() with every key cut down to what follows its last "__"
func (ps ParamSet) Short() string {
	return ps.render(func(k string) string {
		if i := strings.LastIndex(k, "__"); i >= 0 {
			return k[i+2:]
		}
		return k
	})
}

func (ps ParamSet) render(name func(string) string) string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range gen.SortedKeys(ps) {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("'" + name(k) + "': " + pyrepr(ps[k]))
	}
	sb.WriteString("}")
	return sb.String()
}

func pyrepr(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case bool:
		if t {
			return "True"
		}
		return "False"
	case string:
		return "'" + t + "'"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		s := strconv.FormatFloat(t, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		return s
	default:
		return fmt.Sprint(t)
	}
}

// ExpandGrid - the cartesian product of a grid; keys sorted, the last key varies fastest
func ExpandGrid(grid map[string][]any) []ParamSet {
	keys := gen.SortedKeys(grid)
	for _, k := range keys {
		if len(grid[k]) == 0 {
			return nil
		}
	}

	out := []ParamSet{{}}
	for _, k := range keys {
		var next []ParamSet
		for _, ps := range out {
			for _, v := range grid[k] {
				np := make(ParamSet, len(ps)+1)
				for kk, vv := range ps {
					np[kk] = vv
				}
				np[k] = v
				next = append(next, np)
			}
		}
		out = next
	}

	if len(keys) == 0 {
		return out
	}
	for i := range out {
		out[i] = out[i].Normalize()
	}
	return out
}
