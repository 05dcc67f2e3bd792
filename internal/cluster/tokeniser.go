//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package cluster

import "strings"

// WhitespaceTokeniser - cleaned text is already lowercase words separated by spaces; only stopwords need dropping
type WhitespaceTokeniser struct {
	Stops map[string]struct{}
}

func (wt WhitespaceTokeniser) ForEachIn(input string, f func(token string)) {
	for _, w := range strings.Fields(input) {
		if _, stop := wt.Stops[w]; stop {
			continue
		}
		f(w)
	}
}

func (wt WhitespaceTokeniser) Tokenise(input string) []string {
	var out []string
	wt.ForEachIn(input, func(w string) { out = append(out, w) })
	return out
}
