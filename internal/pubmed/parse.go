// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/get-papers/internal/affiliation"
	"github.com/pdiddy/get-papers/pkg/types"
)

// ErrMissingElement reports an article without an element the record needs.
var ErrMissingElement = errors.New("missing element")

// ParseOptions configures Parse.
type ParseOptions struct {
	// Match classifies affiliation text. Nil uses affiliation.Default().
	Match affiliation.Matcher

	// LenientDates drops a missing Month or Day instead of failing, and
	// falls back to MedlineDate when Year is absent.
	LenientDates bool

	// EmailFromAffiliation takes an address out of the affiliation text
	// for authors without an Email element.
	EmailFromAffiliation bool
}

// OptionsFromConfig builds ParseOptions from the parse section of the config.
func OptionsFromConfig(cfg types.ParseConfig) ParseOptions {
	opts := ParseOptions{
		LenientDates:         cfg.LenientDates,
		EmailFromAffiliation: cfg.EmailFromAffiliation,
	}
	if len(cfg.Keywords) > 0 {
		opts.Match = affiliation.Keywords(cfg.Keywords...)
	}
	return opts
}

// Parse decodes a PubmedArticleSet document and returns one record per
// PubmedArticle, in document order. Any article missing a required element
// fails the whole parse; no partial results are returned.
func Parse(data []byte, opts ParseOptions) ([]types.PaperRecord, error) {
	var root node
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing PubMed XML: %w", err)
	}

	if opts.Match == nil {
		opts.Match = affiliation.Default()
	}

	articles := root.findAll("PubmedArticle")
	records := make([]types.PaperRecord, 0, len(articles))
	for i, a := range articles {
		rec, err := parseArticle(a, opts)
		if err != nil {
			return nil, fmt.Errorf("article %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseArticle(a *node, opts ParseOptions) (types.PaperRecord, error) {
	pmid := a.find("PMID")
	if pmid == nil {
		return types.PaperRecord{}, fmt.Errorf("%w PMID", ErrMissingElement)
	}
	id := strings.TrimSpace(pmid.Text)

	title := a.find("ArticleTitle")
	if title == nil {
		return types.PaperRecord{}, fmt.Errorf("PMID %s: %w ArticleTitle", id, ErrMissingElement)
	}

	date, err := publicationDate(a.find("PubDate"), opts.LenientDates)
	if err != nil {
		return types.PaperRecord{}, fmt.Errorf("PMID %s: %w", id, err)
	}

	authors := a.findAll("Author")
	names, affs := classifyAuthors(authors, opts.Match)

	return types.PaperRecord{
		PubmedID:            id,
		Title:               title.fullText(),
		PublicationDate:     date,
		NonAcademicAuthors:  names,
		CompanyAffiliations: affs,
		CorrespondingEmail:  lastEmail(authors, opts.EmailFromAffiliation),
	}, nil
}

// publicationDate formats a PubDate element as YYYY-MM-DD. A nil element
// yields types.NotAvailable.
func publicationDate(pd *node, lenient bool) (string, error) {
	if pd == nil {
		return types.NotAvailable, nil
	}

	year, month, day := pd.child("Year"), pd.child("Month"), pd.child("Day")

	if !lenient {
		for _, part := range []struct {
			name string
			n    *node
		}{{"Year", year}, {"Month", month}, {"Day", day}} {
			if part.n == nil {
				return "", fmt.Errorf("%w %s in PubDate", ErrMissingElement, part.name)
			}
		}
		return strings.TrimSpace(year.Text) + "-" + zeroPad(month.Text) + "-" + zeroPad(day.Text), nil
	}

	if year == nil {
		if md := strings.TrimSpace(pd.childText("MedlineDate")); md != "" {
			return md, nil
		}
		return types.NotAvailable, nil
	}
	date := strings.TrimSpace(year.Text)
	if month != nil {
		date += "-" + zeroPad(month.Text)
		if day != nil {
			date += "-" + zeroPad(day.Text)
		}
	}
	return date, nil
}

// zeroPad left-pads s with zeros to two characters. Longer values such as
// "Apr" are returned unchanged.
func zeroPad(s string) string {
	s = strings.TrimSpace(s)
	for len(s) < 2 {
		s = "0" + s
	}
	return s
}

// displayName joins ForeName and LastName; missing parts are empty.
func displayName(author *node) string {
	return strings.TrimSpace(author.childText("ForeName") + " " + author.childText("LastName"))
}

// classifyAuthors applies match to every affiliation of every author. Each
// match appends the author's name and the affiliation text to separate
// lists, so an author with two matching affiliations is listed twice.
func classifyAuthors(authors []*node, match affiliation.Matcher) (names, affs []string) {
	for _, author := range authors {
		name := displayName(author)
		for _, aff := range author.findAll("Affiliation") {
			text := aff.fullText()
			if text == "" || !match(text) {
				continue
			}
			names = append(names, name)
			affs = append(affs, text)
		}
	}
	return names, affs
}

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// lastEmail folds over authors keeping the most recent email seen. An Email
// element always overwrites the accumulator, even when empty.
func lastEmail(authors []*node, fromAffiliation bool) string {
	email := ""
	for _, author := range authors {
		if e := author.find("Email"); e != nil {
			email = strings.TrimSpace(e.Text)
			continue
		}
		if !fromAffiliation {
			continue
		}
		for _, aff := range author.findAll("Affiliation") {
			if m := emailPattern.FindString(aff.fullText()); m != "" {
				email = m
			}
		}
	}
	return email
}
