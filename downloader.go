/* ============================================================= *\
   downloader.go

   HTTP download layer with a sqlite-backed local cache and
   parallel fetching of the archive files.
\* ============================================================= */

package main

import (
    "database/sql"
    "errors"
    "fmt"
    "io/ioutil"
    "log"
    "net/http"
    _ "github.com/mattn/go-sqlite3"
    pool "github.com/Emeline-1/pool")
// the underscore import is used for the side-effect of registering the sqlite3 driver
// as a database driver in the init() function, without importing any other functions

/* ------------------------------------------------------- *\
 *                    CACHED SESSION
\* ------------------------------------------------------- */

/**
 * CachedSession serves archive files over HTTP, content-addressed by url
 * in an on-disk sqlite cache with no expiration.
 */
type CachedSession struct {
    db *sql.DB
}

func new_cached_session (filename string) *CachedSession {
    database, err := sql.Open ("sqlite3", filename)
    if err != nil {
        log.Fatal ("[new_cached_session]: " + err.Error ())
    }
    _, err = database.Exec ("CREATE TABLE IF NOT EXISTS responses (url TEXT PRIMARY KEY, content BLOB)")
    if err != nil {
        log.Fatal ("[new_cached_session]: " + err.Error ())
    }
    return &CachedSession{db: database}
}

/**
 * Returns the content at 'url', and whether it came from the cache.
 * Any non-2xx response is an error.
 */
func (session *CachedSession) get (url string) ([]byte, bool, error) {
    var content []byte
    err := session.db.QueryRow ("SELECT content FROM responses WHERE url = ?", url).Scan (&content)
    if err == nil {
        return content, true, nil
    }
    if err != sql.ErrNoRows {
        return nil, false, errors.New ("[CachedSession.get]: " + err.Error ())
    }

    resp, err := http.Get (url)
    if err != nil {
        return nil, false, errors.New ("[CachedSession.get]: " + err.Error ())
    }
    defer resp.Body.Close ()
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        return nil, false, errors.New ("[CachedSession.get]: Error fetching " + url + ": " + resp.Status)
    }
    content, err = ioutil.ReadAll (resp.Body) // resp.Body is an io.ReadCloser
    if err != nil {
        return nil, false, errors.New ("[CachedSession.get]: " + err.Error ())
    }

    _, err = session.db.Exec ("INSERT OR REPLACE INTO responses (url, content) VALUES (?, ?)", url, content)
    if err != nil {
        return nil, false, errors.New ("[CachedSession.get]: " + err.Error ())
    }
    return content, false, nil
}

func (session *CachedSession) Close () {
    session.db.Close ()
}

/* ------------------------------------------------------- *\
 *                  PARALLEL DOWNLOAD
\* ------------------------------------------------------- */

type download_result struct {
    size int;
    from_cache bool;
    err error
}

/**
 * Fetch all urls through the cached session with a bounded worker pool.
 * Any download error aborts the run.
 */
func download_urls (session *CachedSession, urls []string) {
    results := create_safeset ()

    download_worker := func (url string) {
        content, from_cache, err := session.get (url)
        results.add (url, download_result{size: len (content), from_cache: from_cache, err: err})
    }
    pool.Launch_pool (10, urls, download_worker)

    // Cache stats
    from_cache_size := 0
    total_size := 0
    for url, result_i := range results.set {
        result, t := result_i.(download_result) // Type assertion
        if !t {
            log.Fatal ("[download_urls]: type assertion failed")
        }
        if result.err != nil {
            log.Fatal ("[download_urls]: " + url + ": " + result.err.Error ())
        }
        if result.from_cache {
            from_cache_size += result.size
        }
        total_size += result.size
    }

    log.Print (fmt.Sprintf ("Collected %.3f GB from cache out of %.3f GB",
        float64 (from_cache_size)/1e9, float64 (total_size)/1e9))
}
