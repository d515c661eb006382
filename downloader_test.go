package main

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestCachedSessionGet (t *testing.T) {
    hits := 0
    server := httptest.NewServer (http.HandlerFunc (func (w http.ResponseWriter, r *http.Request) {
        if r.URL.Path == "/missing" {
            http.NotFound (w, r)
            return
        }
        hits++
        w.Write ([]byte ("rib content"))
    }))
    defer server.Close ()

    session := new_cached_session (t.TempDir () + "/.cache.sqlite")
    defer session.Close ()

    content, from_cache, err := session.get (server.URL + "/bview.20100901.0000.gz")
    require.NoError (t, err)
    assert.Equal (t, []byte ("rib content"), content)
    assert.False (t, from_cache)

    // Second fetch is served from the cache, the server is not contacted
    content, from_cache, err = session.get (server.URL + "/bview.20100901.0000.gz")
    require.NoError (t, err)
    assert.Equal (t, []byte ("rib content"), content)
    assert.True (t, from_cache)
    assert.Equal (t, 1, hits)

    // Non-2xx responses are errors and are not cached
    _, _, err = session.get (server.URL + "/missing")
    assert.Error (t, err)
    _, _, err = session.get (server.URL + "/missing")
    assert.Error (t, err)
}
