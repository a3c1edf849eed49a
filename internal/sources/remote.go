package sources

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"path"

	"github.com/MennatullahTarek/Center-Dashboard/internal/httpx"
	"github.com/MennatullahTarek/Center-Dashboard/internal/ingest"
)

// HTTPSource downloads a spreadsheet over HTTP(S) with retries. The URL
// path's extension decides the parse format, defaulting to xlsx.
type HTTPSource struct {
	URL    string
	Client *http.Client
	Retry  httpx.RetryConfig
}

func (s HTTPSource) Name() string { return s.URL }

func (s HTTPSource) Load(ctx context.Context) (ingest.RawTable, error) {
	body, err := s.FetchRaw(ctx)
	if err != nil {
		return ingest.RawTable{}, &ingest.LoadError{Path: s.URL, Err: err}
	}
	return ingest.ReadReader(bytes.NewReader(body), filenameFromURL(s.URL))
}

// FetchRaw returns the undecoded file bytes, for callers that want to save
// the workbook locally (cmd/fetchdata) rather than parse it in place.
func (s HTTPSource) FetchRaw(ctx context.Context) ([]byte, error) {
	return httpx.Fetch(ctx, s.Client, s.URL, s.Retry)
}

func filenameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return "dataset.xlsx"
	}
	name := path.Base(u.Path)
	if path.Ext(name) == "" {
		return "dataset.xlsx"
	}
	return name
}
