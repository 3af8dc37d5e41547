package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckMediaName(t *testing.T) {
	assert.NoError(t, CheckMediaName("statement.csv"))
	assert.NoError(t, CheckMediaName("statement.txt"))
	assert.NoError(t, CheckMediaName("STATEMENT.CSV"))
	assert.NoError(t, CheckMediaName("stdin"))
	assert.ErrorIs(t, CheckMediaName("statement.pdf"), ErrUnsupportedMedia)
	assert.ErrorIs(t, CheckMediaName("statement.xlsx"), ErrUnsupportedMedia)
}

func TestFileFetcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,description,amount\n"), 0644))

	raw, err := FileFetcher{}.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "date,description,amount\n", raw)

	_, err = FileFetcher{}.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = FileFetcher{}.Fetch(context.Background(), "statement.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "text/csv")
			w.Write([]byte("date,description,amount\n"))
		case "/binary":
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF-1.4"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := HTTPFetcher{Client: srv.Client()}

	raw, err := f.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "date,description,amount\n", raw)

	_, err = f.Fetch(context.Background(), srv.URL+"/binary")
	assert.ErrorIs(t, err, ErrUnsupportedMedia)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}
