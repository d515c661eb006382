package main

import (
    "encoding/json"
    "io/ioutil"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestPathObserverCounts (t *testing.T) {
    observer := NewPathObserver ("path", "./")

    observer.add_path_ipv4 ("rc00", "1.2.3.4", "10.0.0.0/24", []int{100, 200, 300})
    observer.add_path_ipv4 ("rc00", "5.6.7.8", "10.1.0.0/24", []int{100, 200, 300})
    // IP family is ignored, all paths share one counter
    observer.add_path_ipv6 ("rc00", "2001:db8::1", "2001:db8::/32", []int{100, 200, 300})

    assert.Equal (t, map[string]int{"100 200 300": 3}, observer.paths_count)
}

/**
 * Entries whose count reaches zero disappear from the structure.
 */
func TestPathObserverRoundTrip (t *testing.T) {
    observer := NewPathObserver ("path", "./")

    observer.add_path_ipv4 ("rc00", "1.2.3.4", "10.0.0.0/24", []int{100, 200})
    observer.update_withdrawal_ipv4 ("rc00", "1.2.3.4", "10.0.0.0/24", []int{100, 200})

    assert.Empty (t, observer.paths_count)
}

func TestPathObserverAnnouncementSymmetry (t *testing.T) {
    observer := NewPathObserver ("path", "./")

    observer.add_path_ipv4 ("rc00", "1.2.3.4", "10.0.0.0/24", []int{100, 200, 300})
    observer.update_announcement_ipv4 ("rc00", "1.2.3.4", "10.0.0.0/24", []int{100, 200, 400}, []int{100, 200, 300})

    assert.Equal (t, map[string]int{"100 200 400": 1}, observer.paths_count)

    // Without an old path, nothing is removed
    observer.update_announcement_ipv4 ("rc00", "1.2.3.4", "10.1.0.0/24", []int{100, 200, 300}, nil)
    assert.Equal (t, map[string]int{"100 200 400": 1, "100 200 300": 1}, observer.paths_count)
}

func TestPathObserverDump (t *testing.T) {
    dir := t.TempDir ()
    observer := NewPathObserver ("path", dir)

    observer.add_path_ipv4 ("rc00", "1.2.3.4", "10.0.0.0/24", []int{100, 200, 300})
    observer.add_path_ipv4 ("rc00", "1.2.3.4", "10.1.0.0/24", []int{100, 200, 300})
    observer.add_path_ipv4 ("rc00", "1.2.3.4", "10.2.0.0/24", []int{100, 400})

    observer.dump (time.Date (2010, 9, 1, 0, 0, 0, 0, time.UTC))

    content, err := ioutil.ReadFile (dir + "/path.20100901.0000.json")
    require.NoError (t, err)

    var dumped struct {
        NUniquePaths int `json:"n_unique_paths"`
        PathsCount map[string]int `json:"paths_count"`
        PathsLengthCount map[string]int `json:"paths_length_count"`
    }
    require.NoError (t, json.Unmarshal (content, &dumped))

    assert.Equal (t, 2, dumped.NUniquePaths)
    assert.Equal (t, map[string]int{"100 200 300": 2, "100 400": 1}, dumped.PathsCount)
    assert.Equal (t, map[string]int{"3": 1, "2": 1}, dumped.PathsLengthCount)
}
