//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package etl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/e-gun/TextClusterLab/internal/gen"
	"github.com/e-gun/TextClusterLab/internal/vv"
)

//
// STOPWORDS
//

// GetStopwords - if dir is missing, download the stopwords corpus and unpack it so that "<dir>/<language>" files exist
func GetStopwords(ctx context.Context, dir string, url string) error {
	const (
		MSG1 = "GetStopwords() found stopwords locally at %s; did nothing"
		MSG2 = "GetStopwords() downloading stopwords locally to %s..."
		MSG3 = "GetStopwords() unpacked %d lists [%s]"
	)

	if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
		Msg.NOTE(fmt.Sprintf(MSG1, dir))
		return nil
	}

	Msg.NOTE(fmt.Sprintf(MSG2, dir))

	tmp, err := os.CreateTemp("", "tcl-stopwords-*.zip")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err = download(ctx, url, tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("download %s: %w", url, err)
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	// the corpus zip holds "stopwords/<language>"; drop that leading folder
	strip := func(name string) string {
		parts := strings.SplitN(name, "/", 2)
		if len(parts) < 2 || parts[1] == "" {
			return ""
		}
		return parts[1]
	}

	n, sz, err := unzipwith(tmp.Name(), dir, strip)
	if err != nil {
		return err
	}
	Msg.FYI(fmt.Sprintf(MSG3, n, humanize.Bytes(sz)))
	return nil
}

func download(ctx context.Context, url string, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, vv.DOWNLOADTIMEOUT)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	_, err = io.Copy(w, resp.Body)
	return err
}

// ReadStopwords - one word per line from "<dir>/<language>"; the built-in English list if that file is absent
func ReadStopwords(dir string, language string) ([]string, error) {
	const (
		MSG1 = "ReadStopwords() could not find %s; using the built-in English list"
		MSG2 = "ReadStopwords() loaded %d stopwords from %s"
	)

	p := filepath.Join(dir, language)
	fh, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		Msg.WARN(fmt.Sprintf(MSG1, p))
		return append([]string(nil), EnglishStops...), nil
	}
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var stops []string
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w != "" {
			stops = append(stops, w)
		}
	}
	if err = sc.Err(); err != nil {
		return nil, err
	}

	stops = gen.Unique(stops)
	Msg.PEEK(fmt.Sprintf(MSG2, len(stops), p))
	return stops, nil
}

// EnglishStops - the NLTK English list
var EnglishStops = []string{"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "you're", "you've",
	"you'll", "you'd", "your", "yours", "yourself", "yourselves", "he", "him", "his", "himself", "she", "she's", "her",
	"hers", "herself", "it", "it's", "its", "itself", "they", "them", "their", "theirs", "themselves", "what", "which",
	"who", "whom", "this", "that", "that'll", "these", "those", "am", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "having", "do", "does", "did", "doing", "a", "an", "the", "and", "but", "if", "or", "because",
	"as", "until", "while", "of", "at", "by", "for", "with", "about", "against", "between", "into", "through", "during",
	"before", "after", "above", "below", "to", "from", "up", "down", "in", "out", "on", "off", "over", "under", "again",
	"further", "then", "once", "here", "there", "when", "where", "why", "how", "all", "any", "both", "each", "few",
	"more", "most", "other", "some", "such", "no", "nor", "not", "only", "own", "same", "so", "than", "too", "very",
	"s", "t", "can", "will", "just", "don", "don't", "should", "should've", "now", "d", "ll", "m", "o", "re", "ve", "y",
	"ain", "aren", "aren't", "couldn", "couldn't", "didn", "didn't", "doesn", "doesn't", "hadn", "hadn't", "hasn",
	"hasn't", "haven", "haven't", "isn", "isn't", "ma", "mightn", "mightn't", "mustn", "mustn't", "needn", "needn't",
	"shan", "shan't", "shouldn", "shouldn't", "wasn", "wasn't", "weren", "weren't", "won", "won't", "wouldn", "wouldn't"}
