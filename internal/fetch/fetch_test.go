package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rohmanhakim/ravencrawl/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_SimpleSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>hi</body></html>"))
	}))
	defer srv.Close()

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	result, err := fetch.Fetch(context.Background(), "/", base, fetch.Options{})
	require.NoError(t, err)
	assert.Equal(t, "/", result.FinalURL.Path)
	assert.Equal(t, "<html><body>hi</body></html>", string(result.Body))
	require.Len(t, result.Attempts, 1)
	assert.True(t, result.Attempts[0].IsSuccess())
}

func TestFetch_RedirectChain(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/b", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/c", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/c", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("final"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	result, err := fetch.Fetch(context.Background(), "/a", base, fetch.Options{})
	require.NoError(t, err)
	assert.Equal(t, "/c", result.FinalURL.Path)
	require.Len(t, result.Attempts, 3)
	assert.Equal(t, []int{301, 301, 200}, []int{
		result.Attempts[0].StatusCode,
		result.Attempts[1].StatusCode,
		result.Attempts[2].StatusCode,
	})
}

func TestFetch_TooManyRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusMovedPermanently)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	_, err = fetch.Fetch(context.Background(), "/loop", base, fetch.Options{MaxRedirects: 2})
	require.Error(t, err)
	var ferr *fetch.FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, fetch.CauseTooManyRedirect, ferr.Cause)
}

func TestFetch_HttpError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	_, err = fetch.Fetch(context.Background(), "/", base, fetch.Options{})
	require.Error(t, err)
	var ferr *fetch.FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, fetch.CauseHTTPError, ferr.Cause)
	assert.Equal(t, 500, ferr.StatusCode)
}

func TestFetch_RequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte("slow"))
	}))
	defer srv.Close()

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	_, err = fetch.Fetch(context.Background(), "/", base, fetch.Options{Timeout: 5 * time.Millisecond})
	require.Error(t, err)
	var ferr *fetch.FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, fetch.CauseRequestTimeout, ferr.Cause)
}

func TestFetch_MissingLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	_, err = fetch.Fetch(context.Background(), "/", base, fetch.Options{})
	require.Error(t, err)
	var ferr *fetch.FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, fetch.CauseMissingLocation, ferr.Cause)
}

func TestFetchFromResolver_Success(t *testing.T) {
	base, err := url.Parse("http://localhost:0/")
	require.NoError(t, err)

	resolver := func(path string) (int, string, []byte, error) {
		return 200, "text/plain", []byte("resolved: " + path), nil
	}

	result, err := fetch.FetchFromResolver("/x", base, resolver)
	require.NoError(t, err)
	assert.Equal(t, "resolved: /x", string(result.Body))
	require.Len(t, result.Attempts, 1)
}

func TestFetchFromResolver_NonSuccessStatus(t *testing.T) {
	base, err := url.Parse("http://localhost:0/")
	require.NoError(t, err)

	resolver := func(path string) (int, string, []byte, error) {
		return 404, "", nil, nil
	}

	_, err = fetch.FetchFromResolver("/missing", base, resolver)
	require.Error(t, err)
	var ferr *fetch.FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, fetch.CauseHTTPError, ferr.Cause)
}
