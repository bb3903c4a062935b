// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/get-papers/internal/httputil"
	"github.com/pdiddy/get-papers/pkg/types"
)

const esearchBody = `<?xml version="1.0" encoding="UTF-8" ?>
<!DOCTYPE eSearchResult PUBLIC "-//NLM//DTD esearch 20060628//EN" "https://eutils.ncbi.nlm.nih.gov/eutils/dtd/20060628/esearch.dtd">
<eSearchResult><Count>2</Count><RetMax>2</RetMax><RetStart>0</RetStart>
<IdList><Id>37012345</Id><Id>37054321</Id></IdList>
</eSearchResult>`

// withBase points eutilsBase at url for the duration of the test.
func withBase(t *testing.T, url string) {
	t.Helper()
	orig := eutilsBase
	eutilsBase = url
	t.Cleanup(func() { eutilsBase = orig })
}

func testFetchCfg() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "test/0.1"},
	}
}

func TestSearchParams(t *testing.T) {
	var got map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/esearch.fcgi", r.URL.Path)
		assert.Equal(t, "test/0.1", r.Header.Get("User-Agent"))
		q := r.URL.Query()
		got = map[string]string{
			"db":      q.Get("db"),
			"term":    q.Get("term"),
			"retmode": q.Get("retmode"),
			"retmax":  q.Get("retmax"),
			"api_key": q.Get("api_key"),
			"email":   q.Get("email"),
			"tool":    q.Get("tool"),
		}
		w.Write([]byte(esearchBody))
	}))
	defer ts.Close()
	withBase(t, ts.URL)

	cfg := testFetchCfg()
	cfg.APIKey = "k123"
	cfg.Email = "me@example.org"
	cfg.Tool = "get-papers"
	c := NewClient(cfg)

	ids, err := c.Search(context.Background(), "  cancer immunotherapy ")
	require.NoError(t, err)

	assert.Equal(t, []string{"37012345", "37054321"}, ids)
	assert.Equal(t, map[string]string{
		"db":      "pubmed",
		"term":    "cancer immunotherapy",
		"retmode": "xml",
		"retmax":  "100",
		"api_key": "k123",
		"email":   "me@example.org",
		"tool":    "get-papers",
	}, got)
}

func TestSearchEmptyQuery(t *testing.T) {
	c := NewClient(testFetchCfg())
	_, err := c.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearchAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<eSearchResult><ERROR>Invalid query</ERROR></eSearchResult>`))
	}))
	defer ts.Close()
	withBase(t, ts.URL)

	_, err := NewClient(testFetchCfg()).Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid query")
}

func TestSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()
	withBase(t, ts.URL)

	_, err := NewClient(testFetchCfg()).Search(context.Background(), "x")
	require.Error(t, err)

	var se *httputil.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.Contains(t, err.Error(), "PubMed search")
}

func TestSearchMaxResultsAndBaseURLFromConfig(t *testing.T) {
	var retmax string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		retmax = r.URL.Query().Get("retmax")
		w.Write([]byte(`<eSearchResult><Count>0</Count><IdList/></eSearchResult>`))
	}))
	defer ts.Close()

	cfg := testFetchCfg()
	cfg.BaseURL = ts.URL + "/"
	cfg.MaxResults = 5

	ids, err := NewClient(cfg).Search(context.Background(), "rare disease")
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, "5", retmax)
}

func TestSearchMaxResultsClamped(t *testing.T) {
	var retmax string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		retmax = r.URL.Query().Get("retmax")
		w.Write([]byte(`<eSearchResult><Count>0</Count><IdList/></eSearchResult>`))
	}))
	defer ts.Close()
	withBase(t, ts.URL)

	cfg := testFetchCfg()
	cfg.MaxResults = 5000

	_, err := NewClient(cfg).Search(context.Background(), "cancer")
	require.NoError(t, err)
	assert.Equal(t, "500", retmax)
}

func TestFetchPapers(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join("testdata", "efetch.xml"))
	require.NoError(t, err)

	var fetchIDs string
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch.fcgi", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(esearchBody))
	})
	mux.HandleFunc("/efetch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		fetchIDs = r.URL.Query().Get("id")
		assert.Equal(t, "pubmed", r.URL.Query().Get("db"))
		assert.Equal(t, "xml", r.URL.Query().Get("retmode"))
		w.Write(fixture)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()
	withBase(t, ts.URL)

	body, err := NewClient(testFetchCfg()).FetchPapers(context.Background(), "cancer immunotherapy")
	require.NoError(t, err)
	assert.Equal(t, "37012345,37054321", fetchIDs)

	recs, err := Parse(body, ParseOptions{})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestFetchPapersNoHitsSkipsFetch(t *testing.T) {
	var fetches int32
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch.fcgi", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<eSearchResult><Count>0</Count><IdList></IdList></eSearchResult>`))
	})
	mux.HandleFunc("/efetch.fcgi", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&fetches, 1)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()
	withBase(t, ts.URL)

	body, err := NewClient(testFetchCfg()).FetchPapers(context.Background(), "zzzzqqq")
	require.NoError(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fetches))

	recs, err := Parse(body, ParseOptions{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestFetchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()
	withBase(t, ts.URL)

	_, err := NewClient(testFetchCfg()).Fetch(context.Background(), []string{"1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PubMed fetch")
	assert.Contains(t, err.Error(), "HTTP 404")
}
