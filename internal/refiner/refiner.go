package refiner

import (
	"context"
	"fmt"
	"strings"
)

// View receives progress updates while a refinement runs. The orchestrator
// wires it to the broadcast reporter.
type View interface {
	Progress(percent float64, message string)
	Error(message string)
}

// Refiner runs one refinement job: it walks the manuscript's sentences,
// attaches citations to the ones that look like claims, and accumulates
// the reference list for bibliography output. Not safe for concurrent use;
// create one per job.
type Refiner struct {
	settings Settings
	engine   *Engine
	view     View

	citations  []Citation
	indexByKey map[string]int
}

// minClaimKeywords is how many content words a sentence needs before it is
// treated as a claim worth citing.
const minClaimKeywords = 3

// New creates a refiner for one job. The engine is borrowed, never owned.
func New(settings Settings, engine *Engine, view View) *Refiner {
	return &Refiner{
		settings:   settings,
		engine:     engine,
		view:       view,
		indexByKey: make(map[string]int),
	}
}

// Refine processes the manuscript and returns the annotated text. Progress
// is reported per sentence through the view.
func (r *Refiner) Refine(ctx context.Context, manuscript string) (string, error) {
	sentences := r.engine.Sentences(manuscript)
	if len(sentences) == 0 {
		return manuscript, nil
	}

	annotated := make([]string, 0, len(sentences))
	for i, sentence := range sentences {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		out, err := r.refineSentence(ctx, sentence)
		if err != nil {
			return "", fmt.Errorf("refining sentence %d: %w", i+1, err)
		}
		annotated = append(annotated, out)

		// Keep the job's share of the bar below the finalization
		// milestone.
		percent := 0.05 + 0.9*float64(i+1)/float64(len(sentences))
		r.view.Progress(percent, fmt.Sprintf("Analyzed sentence %d of %d", i+1, len(sentences)))
	}

	return strings.Join(annotated, " "), nil
}

func (r *Refiner) refineSentence(ctx context.Context, sentence string) (string, error) {
	keywords := r.engine.Keywords(sentence)
	if len(keywords) < minClaimKeywords {
		return sentence, nil
	}

	query := strings.Join(keywords, " ")
	results, err := r.engine.search(ctx, query, r.settings)
	if err != nil {
		return "", err
	}

	best, ok := r.pickBest(results)
	if !ok {
		return sentence, nil
	}

	n := r.cite(best)
	return r.annotate(sentence, n), nil
}

// pickBest returns the highest-scored result clearing the score floor.
func (r *Refiner) pickBest(results []Citation) (Citation, bool) {
	for _, c := range results {
		if c.Score >= r.settings.Search.MinScore {
			return c, true
		}
	}
	return Citation{}, false
}

// cite records a citation and returns its 1-based bibliography number,
// reusing the number for references already seen.
func (r *Refiner) cite(c Citation) int {
	if n, ok := r.indexByKey[c.Key]; ok {
		return n
	}
	r.citations = append(r.citations, c)
	n := len(r.citations)
	r.indexByKey[c.Key] = n
	return n
}

// annotate appends the [n] marker before the sentence's closing
// punctuation.
func (r *Refiner) annotate(sentence string, n int) string {
	marker := fmt.Sprintf(" [%d]", n)
	last := sentence[len(sentence)-1]
	if last == '.' || last == '!' || last == '?' {
		return sentence[:len(sentence)-1] + marker + string(last)
	}
	return sentence + marker
}

// BibliographyText renders the numbered reference list for the citations
// collected by Refine.
func (r *Refiner) BibliographyText() string {
	if len(r.citations) == 0 {
		return ""
	}

	var b strings.Builder
	for i, c := range r.citations {
		fmt.Fprintf(&b, "[%d] %s. %s. %s, %d.\n", i+1, c.Authors, c.Title, c.Venue, c.Year)
	}
	return b.String()
}

// BibTeX renders the collected citations as BibTeX entries.
func (r *Refiner) BibTeX() string {
	if len(r.citations) == 0 {
		return ""
	}

	var b strings.Builder
	for _, c := range r.citations {
		fmt.Fprintf(&b, "@misc{%s,\n", c.Key)
		fmt.Fprintf(&b, "  title = {%s},\n", c.Title)
		fmt.Fprintf(&b, "  author = {%s},\n", c.Authors)
		fmt.Fprintf(&b, "  howpublished = {%s},\n", c.Venue)
		fmt.Fprintf(&b, "  year = {%d}\n", c.Year)
		b.WriteString("}\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
