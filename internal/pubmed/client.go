// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed fetches article XML from the NCBI E-utilities API and parses
// it into PaperRecords.
package pubmed

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/get-papers/internal/httputil"
	"github.com/pdiddy/get-papers/internal/logger"
	"github.com/pdiddy/get-papers/pkg/types"
)

// DefaultBaseURL is the public E-utilities root.
const DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// MaxResultsLimit bounds MaxResults. All PMIDs go into one efetch GET query
// string, which NCBI rejects once it grows past a few thousand IDs.
const MaxResultsLimit = 500

// eutilsBase is used when the config has no BaseURL. Declared as a var so
// tests can substitute an httptest server.
var eutilsBase = DefaultBaseURL

const (
	defaultDatabase   = "pubmed"
	defaultMaxResults = 100
)

// emptyArticleSet is returned by Fetch when there is nothing to fetch.
const emptyArticleSet = `<?xml version="1.0" ?><PubmedArticleSet></PubmedArticleSet>`

// ErrEmptyQuery is returned when the query has no searchable text.
var ErrEmptyQuery = errors.New("query is empty")

// Client talks to the esearch and efetch endpoints.
type Client struct {
	HTTP   *http.Client
	Config types.FetchConfig
}

// NewClient returns a Client whose HTTP client honours cfg.Timeout.
func NewClient(cfg types.FetchConfig) *Client {
	return &Client{
		HTTP:   &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
	}
}

// FetchPapers runs esearch for query and then efetch for the returned PMIDs,
// yielding the raw PubmedArticleSet XML.
func (c *Client) FetchPapers(ctx context.Context, query string) ([]byte, error) {
	ids, err := c.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return c.Fetch(ctx, ids)
}

// Search returns up to MaxResults PMIDs matching query.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	params := c.params()
	params.Set("term", query)
	params.Set("retmode", "xml")
	params.Set("retmax", strconv.Itoa(c.maxResults()))

	logger.L().Debug("esearch.request", "term", query, "retmax", c.maxResults())
	body, err := httputil.Get(ctx, c.HTTP, c.endpoint("esearch.fcgi"), params, c.Config.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("PubMed search: %w", err)
	}

	var res esearchResult
	if err := xml.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parsing PubMed search response: %w", err)
	}
	if res.Error != "" {
		return nil, fmt.Errorf("PubMed search: %s", res.Error)
	}

	logger.L().Debug("esearch.done", "count", res.Count, "returned", len(res.IDs))
	return res.IDs, nil
}

// Fetch returns the PubmedArticleSet XML for ids. With no ids it makes no
// request and returns an empty article set.
func (c *Client) Fetch(ctx context.Context, ids []string) ([]byte, error) {
	if len(ids) == 0 {
		return []byte(emptyArticleSet), nil
	}

	params := c.params()
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	logger.L().Debug("efetch.request", "ids", len(ids))
	body, err := httputil.Get(ctx, c.HTTP, c.endpoint("efetch.fcgi"), params, c.Config.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("PubMed fetch: %w", err)
	}
	logger.L().Debug("efetch.done", "bytes", len(body))
	return body, nil
}

// params returns the parameters shared by every E-utilities call.
func (c *Client) params() url.Values {
	v := url.Values{}
	db := c.Config.Database
	if db == "" {
		db = defaultDatabase
	}
	v.Set("db", db)
	if c.Config.APIKey != "" {
		v.Set("api_key", c.Config.APIKey)
	}
	if c.Config.Email != "" {
		v.Set("email", c.Config.Email)
	}
	if c.Config.Tool != "" {
		v.Set("tool", c.Config.Tool)
	}
	return v
}

func (c *Client) endpoint(name string) string {
	base := c.Config.BaseURL
	if base == "" {
		base = eutilsBase
	}
	return strings.TrimRight(base, "/") + "/" + name
}

func (c *Client) maxResults() int {
	switch {
	case c.Config.MaxResults <= 0:
		return defaultMaxResults
	case c.Config.MaxResults > MaxResultsLimit:
		return MaxResultsLimit
	}
	return c.Config.MaxResults
}

// esearch XML structure.
type esearchResult struct {
	Count int      `xml:"Count"`
	IDs   []string `xml:"IdList>Id"`
	Error string   `xml:"ERROR"`
}
