package main

import (
    "encoding/json"
    "io/ioutil"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestUpdateCountObserver (t *testing.T) {
    observer := NewUpdateCountObserver ("update_count", "./")

    // RIB-load events are not counted
    observer.add_path_ipv4 ("rc00", "1.2.3.4", "10.0.0.0/24", []int{100, 200})
    assert.Empty (t, observer.n_updates)

    observer.update_announcement_ipv4 ("rc00", "1.2.3.4", "10.0.0.0/24", []int{100, 200}, nil)
    observer.update_announcement_ipv6 ("rc00", "2001:db8::1", "2001:db8::/32", []int{100, 200}, nil)
    observer.update_withdrawal_ipv4 ("rc00", "1.2.3.4", "10.0.0.0/24", []int{100, 200})
    observer.update_withdrawal_ipv6 ("rc01", "2001:db8::1", "2001:db8::/32", []int{100, 200})

    assert.Equal (t, map[string]int{"rc00": 3, "rc01": 1}, observer.n_updates)
    assert.Equal (t, map[string]int{"rc00": 1}, observer.n_announcements_ipv4)
    assert.Equal (t, map[string]int{"rc00": 1}, observer.n_announcements_ipv6)
    assert.Equal (t, map[string]int{"rc00": 1}, observer.n_withdrawals_ipv4)
    assert.Equal (t, map[string]int{"rc01": 1}, observer.n_withdrawals_ipv6)
    assert.Equal (t, map[string]int{"1.2.3.4": 2, "2001:db8::1": 1}, observer.n_updates_per_peer["rc00"])
}

func TestUpdateCountObserverDump (t *testing.T) {
    dir := t.TempDir ()
    observer := NewUpdateCountObserver ("update_count", dir)
    observer.update_announcement_ipv4 ("rc00", "1.2.3.4", "10.0.0.0/24", []int{100, 200}, nil)

    observer.dump (time.Date (2010, 9, 1, 0, 15, 0, 0, time.UTC))

    content, err := ioutil.ReadFile (dir + "/update_count.20100901.0015.json")
    require.NoError (t, err)

    var dumped map[string]interface{}
    require.NoError (t, json.Unmarshal (content, &dumped))
    assert.Contains (t, dumped, "n_updates")
    assert.Contains (t, dumped, "n_withdrawals_ipv4")
    assert.Contains (t, dumped, "n_withdrawals_ipv6")
    assert.Contains (t, dumped, "n_announcements_ipv4")
    assert.Contains (t, dumped, "n_announcements_ipv6")
    assert.Contains (t, dumped, "n_updates_per_peer")
}
