// Package refiner implements the document-refinement engine: sentence
// analysis, citation lookup, and bibliography generation. The Engine is
// expensive to construct and shared process-wide; a Refiner is cheap and
// created per job.
package refiner

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Citation is one reference attached to a claim in the manuscript.
type Citation struct {
	Key     string  `json:"key"`
	Title   string  `json:"title"`
	Authors string  `json:"authors"`
	Venue   string  `json:"venue"`
	Year    int     `json:"year"`
	Score   float64 `json:"score"`
}

// Searcher finds candidate citations for a claim query. How results are
// ranked is the searcher's business; the engine only consumes the ordered
// slice.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Citation, error)
}

// Engine holds the shared, read-only analysis state: the stopword table,
// compiled segmentation patterns, the reference searcher, and the citation
// cache. Safe for concurrent use by many jobs.
type Engine struct {
	stopwords  map[string]struct{}
	sentenceRe *regexp.Regexp
	tokenRe    *regexp.Regexp
	searcher   Searcher
	store      *CitationStore
}

// NewEngine constructs the shared engine from settings. This is the
// expensive path the cache protects: it compiles the analysis tables and
// opens the citation store.
func NewEngine(ctx context.Context, settings Settings) (*Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := settings.Privacy.CachePath
	if path == "" {
		path = DefaultSettings().Privacy.CachePath
	}
	store, err := OpenCitationStore(path)
	if err != nil {
		return nil, fmt.Errorf("engine construction: %w", err)
	}

	stopwords := make(map[string]struct{}, len(stopwordList))
	for _, w := range stopwordList {
		stopwords[w] = struct{}{}
	}

	return &Engine{
		stopwords:  stopwords,
		sentenceRe: regexp.MustCompile(`[^.!?]+[.!?]?`),
		tokenRe:    regexp.MustCompile(`[A-Za-z][A-Za-z-]+`),
		searcher:   newCatalogSearcher(),
		store:      store,
	}, nil
}

// Close releases the engine's citation store.
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// Sentences splits text into trimmed sentences, dropping empty segments.
func (e *Engine) Sentences(text string) []string {
	var out []string
	for _, raw := range e.sentenceRe.FindAllString(text, -1) {
		if s := strings.TrimSpace(raw); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Keywords extracts the content words of a sentence, lowercased, with
// stopwords removed and order of first appearance preserved.
func (e *Engine) Keywords(sentence string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range e.tokenRe.FindAllString(sentence, -1) {
		w := strings.ToLower(tok)
		if len(w) < 3 {
			continue
		}
		if _, stop := e.stopwords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// search runs a citation lookup through the cache when enabled. Cache
// read/write failures degrade to an uncached search.
func (e *Engine) search(ctx context.Context, query string, settings Settings) ([]Citation, error) {
	useCache := settings.Privacy.CacheEnabled && e.store != nil

	if useCache {
		if cached, ok, err := e.store.Lookup(query); err == nil && ok {
			return cached, nil
		}
	}

	results, err := e.searcher.Search(ctx, query, settings.Search.MaxResults)
	if err != nil {
		return nil, err
	}

	if useCache {
		_ = e.store.Store(query, results)
	}
	return results, nil
}

// catalogSearcher matches claim keywords against a built-in reference
// catalog by token overlap. It stands in for the external search backend
// and keeps lookups fully offline.
type catalogSearcher struct {
	entries []catalogEntry
	tokenRe *regexp.Regexp
}

type catalogEntry struct {
	citation Citation
	tokens   map[string]struct{}
}

func newCatalogSearcher() *catalogSearcher {
	tokenRe := regexp.MustCompile(`[A-Za-z][A-Za-z-]+`)
	entries := make([]catalogEntry, 0, len(referenceCatalog))
	for _, c := range referenceCatalog {
		tokens := make(map[string]struct{})
		for _, tok := range tokenRe.FindAllString(c.Title, -1) {
			tokens[strings.ToLower(tok)] = struct{}{}
		}
		entries = append(entries, catalogEntry{citation: c, tokens: tokens})
	}
	return &catalogSearcher{entries: entries, tokenRe: tokenRe}
}

func (s *catalogSearcher) Search(ctx context.Context, query string, maxResults int) ([]Citation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if maxResults <= 0 {
		maxResults = DefaultSettings().Search.MaxResults
	}

	queryTokens := make([]string, 0, 8)
	for _, tok := range s.tokenRe.FindAllString(query, -1) {
		queryTokens = append(queryTokens, strings.ToLower(tok))
	}
	if len(queryTokens) == 0 {
		return nil, nil
	}

	var matches []Citation
	for _, entry := range s.entries {
		overlap := 0
		for _, tok := range queryTokens {
			if _, ok := entry.tokens[tok]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		c := entry.citation
		c.Score = float64(overlap) / float64(len(queryTokens))
		matches = append(matches, c)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches, nil
}
