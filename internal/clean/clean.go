//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package clean

import (
	"regexp"
	"strings"
)

var (
	htmltags  = regexp.MustCompile(`<[^<>]*>`)
	edgejunk  = regexp.MustCompile(`^\W+|\W+$`)
	anyspace  = regexp.MustCompile(`\s`)
	nonalnum  = regexp.MustCompile(`[^a-zA-Z0-9]`)
	digitruns = regexp.MustCompile(`\d+`)
)

// Options - how CleanContent treats a post
type Options struct {
	Stops     map[string]struct{}
	RemoveNum bool
	MinLen    int // 0: no lower bound
	MaxLen    int // 0: no upper bound
}

// CleanContent - lowercase, strip markup and punctuation, drop stopwords and out-of-range tokens, rejoin
func CleanContent(text string, o Options) string {
	return strings.Join(Tokens(text, o), " ")
}

// Tokens - CleanContent without the final join
func Tokens(text string, o Options) []string {
	text = strings.ToLower(text)
	text = htmltags.ReplaceAllString(text, "")
	text = edgejunk.ReplaceAllString(text, " ")
	text = anyspace.ReplaceAllString(text, " ")
	text = nonalnum.ReplaceAllString(text, " ")
	if o.RemoveNum {
		text = digitruns.ReplaceAllString(text, "")
	}

	ff := strings.Fields(text)
	kept := ff[:0]
	for _, w := range ff {
		if _, stop := o.Stops[w]; stop {
			continue
		}
		if o.MinLen > 0 && len(w) < o.MinLen {
			continue
		}
		if o.MaxLen > 0 && len(w) > o.MaxLen {
			continue
		}
		kept = append(kept, w)
	}
	return kept
}

// StripForReading - remove markup and line breaks but otherwise leave a post alone
func StripForReading(text string) string {
	text = htmltags.ReplaceAllString(text, "")
	text = strings.NewReplacer("\r\n", "", "\n", "", "\r", "").Replace(text)
	return strings.TrimSpace(text)
}
