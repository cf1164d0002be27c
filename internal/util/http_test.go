package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	b, err := GetBytes(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	require.Equal(t, "payload", string(b))

	_, err = GetBytes(context.Background(), srv.URL+"/missing")
	require.ErrorContains(t, err, "404")
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir() + "/a/b"
	require.NoError(t, EnsureDir(dir))
	require.DirExists(t, dir)
}
