// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for get-papers.
// PaperRecord is the unit passed from the parser to the output writers and
// the SQLite export; the config structs mirror the YAML config file.
package types

import "strings"

// NotAvailable is written in place of a missing date, an empty author or
// affiliation list, or a missing email.
const NotAvailable = "N/A"

// ListSeparator joins author names and affiliations into one column.
const ListSeparator = ", "

// Columns is the header row shared by every tabular writer.
var Columns = []string{
	"PubmedID",
	"Title",
	"Publication Date",
	"Non-academicAuthor(s)",
	"CompanyAffiliation(s)",
	"Corresponding Author Email",
}

// PaperRecord holds the fields extracted from one PubmedArticle node.
// Records are built once by the parser and never modified afterwards.
type PaperRecord struct {
	// PubmedID is the text of the first PMID element in the article.
	PubmedID string `json:"pubmed_id" yaml:"pubmed_id"`

	// Title is the article title. Empty when the ArticleTitle element has no text.
	Title string `json:"title" yaml:"title"`

	// PublicationDate is "YYYY-MM-DD" built from the PubDate element, or
	// NotAvailable when the article has no PubDate.
	PublicationDate string `json:"publication_date" yaml:"publication_date"`

	// NonAcademicAuthors lists display names of authors whose affiliation
	// matched the commercial-sector heuristic. A name appears once per
	// matching affiliation, so it may repeat.
	NonAcademicAuthors []string `json:"non_academic_authors" yaml:"non_academic_authors"`

	// CompanyAffiliations lists the raw affiliation strings that matched.
	// It grows independently of NonAcademicAuthors; indexes are not
	// guaranteed to line up.
	CompanyAffiliations []string `json:"company_affiliations" yaml:"company_affiliations"`

	// CorrespondingEmail is the email of the last author carrying one.
	CorrespondingEmail string `json:"corresponding_email,omitempty" yaml:"corresponding_email,omitempty"`
}

// AuthorsField returns NonAcademicAuthors joined for a single column.
func (r PaperRecord) AuthorsField() string {
	return joinOrNA(r.NonAcademicAuthors)
}

// AffiliationsField returns CompanyAffiliations joined for a single column.
func (r PaperRecord) AffiliationsField() string {
	return joinOrNA(r.CompanyAffiliations)
}

// EmailField returns the email or NotAvailable.
func (r PaperRecord) EmailField() string {
	if r.CorrespondingEmail == "" {
		return NotAvailable
	}
	return r.CorrespondingEmail
}

// Row returns the record as column values in Columns order.
func (r PaperRecord) Row() []string {
	return []string{
		r.PubmedID,
		r.Title,
		r.PublicationDate,
		r.AuthorsField(),
		r.AffiliationsField(),
		r.EmailField(),
	}
}

func joinOrNA(items []string) string {
	if len(items) == 0 {
		return NotAvailable
	}
	return strings.Join(items, ListSeparator)
}
