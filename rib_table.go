/* ============================================================= *\
   rib_table.go

   In-memory routing state, rebuilt from RIB dumps and replayed
   updates. Holds one table per route collector, keyed
   rc -> peer_ip -> prefix -> AS path, and multicasts every
   mutation to the attached observers.
\* ============================================================= */

package main

import (
    "bufio"
    "fmt"
    "log"
    "strings"
    "time"
)

type RIBTable struct {
    observers []Observer
    data map[string]map[string]map[string][]int // RC -> peer_ip -> pfx -> path
    stop_updating map[string]bool // RC -> bool
    peer_ip_filter map[string]interface{}
    peer_asn_filter map[string]interface{}
    ts_start time.Time
    ts_end time.Time
    session *CachedSession
}

/**
 * Initialize a RIB table.
 * - session: cached session giving access to the input RIB and updates files.
 * - peer_ips, peer_asns: allowlists; empty means no filtering.
 * - ts_start, ts_end: data processing window.
 */
func new_rib_table (session *CachedSession, peer_ips, peer_asns []string, ts_start, ts_end time.Time) *RIBTable {
    return &RIBTable{
        observers: make ([]Observer, 0, 4),
        data: make (map[string]map[string]map[string][]int),
        stop_updating: make (map[string]bool),
        peer_ip_filter: slice_to_map (peer_ips),
        peer_asn_filter: slice_to_map (peer_asns),
        ts_start: ts_start,
        ts_end: ts_end,
        session: session,
    }
}

func (t *RIBTable) attach_observer (observer Observer) {
    t.observers = append (t.observers, observer)
}

func (t *RIBTable) detach_observer (observer Observer) {
    for i, o := range t.observers {
        if o == observer {
            t.observers = append (t.observers[:i], t.observers[i+1:]...)
            return
        }
    }
}

/* ------------------------------------------------- *\
            Observer notifications
\* ------------------------------------------------- */

func (t *RIBTable) notify_add_path (rc, peer_ip, pfx string, path []int) {
    if strings.Contains (pfx, ".") {
        for _, observer := range t.observers {
            observer.add_path_ipv4 (rc, peer_ip, pfx, path)
        }
    } else if strings.Contains (pfx, ":") {
        for _, observer := range t.observers {
            observer.add_path_ipv6 (rc, peer_ip, pfx, path)
        }
    }
}

func (t *RIBTable) notify_update_announcement (rc, peer_ip, pfx string, new_path, old_path []int) {
    if strings.Contains (pfx, ".") {
        for _, observer := range t.observers {
            observer.update_announcement_ipv4 (rc, peer_ip, pfx, new_path, old_path)
        }
    } else if strings.Contains (pfx, ":") {
        for _, observer := range t.observers {
            observer.update_announcement_ipv6 (rc, peer_ip, pfx, new_path, old_path)
        }
    }
}

func (t *RIBTable) notify_update_withdrawal (rc, peer_ip, pfx string, path []int) {
    if strings.Contains (pfx, ".") {
        for _, observer := range t.observers {
            observer.update_withdrawal_ipv4 (rc, peer_ip, pfx, path)
        }
    } else if strings.Contains (pfx, ":") {
        for _, observer := range t.observers {
            observer.update_withdrawal_ipv6 (rc, peer_ip, pfx, path)
        }
    }
}

func (t *RIBTable) notify_dump (ts time.Time) {
    for _, observer := range t.observers {
        observer.dump (ts)
    }
}

/* ------------------------------------------------- *\
            Record filtering
\* ------------------------------------------------- */

func (t *RIBTable) accept_peer_ip (peer_ip string) bool {
    if len (t.peer_ip_filter) == 0 {
        return true
    }
    _, present := t.peer_ip_filter[peer_ip]
    return present
}

func (t *RIBTable) accept_peer_asn (peer_asn int) bool {
    if len (t.peer_asn_filter) == 0 {
        return true
    }
    _, present := t.peer_asn_filter[fmt.Sprint (peer_asn)]
    return present
}

/* ------------------------------------------------- *\
            RIB building (warm start)
\* ------------------------------------------------- */

/**
 * Build the RIB table and observers from 'rc_to_url', RIB dump urls keyed
 * by route collector name. Replaces any previous state.
 */
func (t *RIBTable) build (rc_to_url map[string]string) {
    t.data = make (map[string]map[string]map[string][]int)
    t.stop_updating = make (map[string]bool)
    for rc, url := range rc_to_url {
        t.data[rc] = t.build_rib_from_url (url, rc)
        t.stop_updating[rc] = false
    }
}

func (t *RIBTable) build_rib_from_url (url, rc string) map[string]map[string][]int {
    db_retrieve_start := time.Now ()
    reader := NewMrtReader (t.session, url)
    if err := reader.Open (); err != nil {
        log.Fatal ("[build_rib_from_url]: " + err.Error ())
    }
    defer reader.Close ()
    log.Print (fmt.Sprintf ("Wrote %s RIB to temporary file in %.2fs", url, time.Since (db_retrieve_start).Seconds ()))

    build_rib_start := time.Now ()
    scanner := reader.Scanner ()

    var peer_to_pfx_to_path map[string]map[string][]int
    done := make(chan struct{}) // An empty struct takes up no memory space
    go func () {
        peer_to_pfx_to_path = t.build_rib_from_scanner (scanner, rc, url)
        done <- struct{}{} // We're all done, unblock the channel
    }()

    if ! reader.start_and_wait (done) {
        return peer_to_pfx_to_path
    }
    log.Print (fmt.Sprintf ("Built %s RIB in %.2fs", url, time.Since (build_rib_start).Seconds ()))
    return peer_to_pfx_to_path
}

/**
 * Consume a decoded RIB record stream, installing sane entries and
 * notifying the observers of each add.
 */
func (t *RIBTable) build_rib_from_scanner (scanner *bufio.Scanner, rc, url string) map[string]map[string][]int {
    peer_to_pfx_to_path := make (map[string]map[string][]int)
    n_invalid := 0
    n_entries := 0
    for scanner.Scan () {
        n_entries++
        record, err := parse_rib_record (scanner.Text ())
        if err != nil {
            n_invalid++
            continue
        }

        if ! t.accept_peer_ip (record.peer_ip) || ! t.accept_peer_asn (record.peer_asn) {
            continue
        }

        path, err := sanitize_path (record.as_path, record.peer_asn)
        if err != nil {
            n_invalid++
            continue
        }

        // Add entry to RIB table
        if _, present := peer_to_pfx_to_path[record.peer_ip]; ! present {
            peer_to_pfx_to_path[record.peer_ip] = make (map[string][]int)
        }
        peer_to_pfx_to_path[record.peer_ip][record.pfx] = path

        // Add entry to observers
        t.notify_add_path (rc, record.peer_ip, record.pfx, path)
    }

    if n_entries > 0 {
        log.Print (fmt.Sprintf ("%d invalid entries out of %d (%.2f %%)",
            n_invalid, n_entries, 100*float64 (n_invalid)/float64 (n_entries)))
    } else {
        log.Print ("RIB content empty for " + url)
    }
    return peer_to_pfx_to_path
}

/* ------------------------------------------------- *\
            Update replay
\* ------------------------------------------------- */

/**
 * Apply the update files of 'rc_to_url' to the RIB table and observers.
 */
func (t *RIBTable) update (rc_to_url map[string]string) {
    for rc, url := range rc_to_url {
        rib, present := t.data[rc]
        if ! present {
            log.Print ("[update]: no RIB was built for collector " + rc)
            continue
        }
        if t.stop_updating[rc] {
            continue
        }
        t.update_rib_from_url (rib, url, rc)
    }
}

func (t *RIBTable) update_rib_from_url (rib map[string]map[string][]int, url, rc string) {
    reader := NewMrtReader (t.session, url)
    if err := reader.Open (); err != nil {
        log.Fatal ("[update_rib_from_url]: " + err.Error ())
    }
    defer reader.Close ()

    scanner := reader.Scanner ()
    done := make(chan struct{})
    go func () {
        t.update_rib_from_scanner (rib, scanner, rc)
        // Keep draining so the decoder never blocks on a full pipe
        // once stop_updating cut the processing short.
        for scanner.Scan () {
        }
        done <- struct{}{}
    }()

    reader.start_and_wait (done)
}

/**
 * Apply a decoded update record stream to one collector's table.
 * Records before ts_start are skipped; the first record after
 * ts_end + 1s latches stop_updating and ends the stream.
 */
func (t *RIBTable) update_rib_from_scanner (rib map[string]map[string][]int, scanner *bufio.Scanner, rc string) {
    for scanner.Scan () {
        record := parse_update_record (scanner.Text ())
        if record.kind != record_announcement && record.kind != record_withdrawal {
            continue
        }

        // Handling entries timestamp
        if record.ts.Before (t.ts_start) {
            continue
        }
        // One second is added because of rounding issues in the updates:
        // update 1675044000.074351 is rounded to 1675044000 in the RIB, and
        // the reconstruction is compared to that RIB content in the end.
        if record.ts.After (t.ts_end.Add (time.Second)) {
            t.stop_updating[rc] = true
            return
        }

        if ! t.accept_peer_ip (record.peer_ip) {
            continue
        }

        if record.kind == record_withdrawal {
            t.apply_withdrawal (rib, rc, record)
        } else {
            t.apply_announcement (rib, rc, record)
        }
    }
}

/**
 * Withdrawals of absent entries are no-ops (no notification either).
 */
func (t *RIBTable) apply_withdrawal (rib map[string]map[string][]int, rc string, record Mrt_record) {
    peer_rib, present := rib[record.peer_ip]
    if ! present {
        return
    }
    old_path, present := peer_rib[record.pfx]
    if ! present {
        return
    }
    t.notify_update_withdrawal (rc, record.peer_ip, record.pfx, old_path)
    delete (peer_rib, record.pfx)
}

/**
 * An announcement that does not sanitize invalidates the prior belief:
 * any existing entry for that peer and prefix is withdrawn.
 * Announcements from peers never seen in a RIB dump are ignored.
 */
func (t *RIBTable) apply_announcement (rib map[string]map[string][]int, rc string, record Mrt_record) {
    peer_rib, present := rib[record.peer_ip]
    if ! present {
        return
    }
    if ! t.accept_peer_asn (record.peer_asn) {
        return
    }

    new_path, err := sanitize_path (record.as_path, record.peer_asn)
    if err != nil {
        if old_path, present := peer_rib[record.pfx]; present {
            t.notify_update_withdrawal (rc, record.peer_ip, record.pfx, old_path)
            delete (peer_rib, record.pfx)
        }
        return
    }

    old_path, present := peer_rib[record.pfx]
    if present {
        t.notify_update_announcement (rc, record.peer_ip, record.pfx, new_path, old_path)
    } else {
        t.notify_update_announcement (rc, record.peer_ip, record.pfx, new_path, nil)
    }
    peer_rib[record.pfx] = new_path
}

/* ------------------------------------------------- *\
            Dump and comparison
\* ------------------------------------------------- */

func (t *RIBTable) dump (ts time.Time) {
    // No need to dump the RIB itself, only the observer aggregates matter
    t.notify_dump (ts)
}

/**
 * Compare this RIB table and its observers to another one, typically
 * built from the ground-truth RIB at ts_end. Purely diagnostic.
 */
func (t *RIBTable) compare (other *RIBTable) {
    for rc := range t.data {
        for peer_ip, peer_rib := range t.data[rc] {
            other_rc, present := other.data[rc]
            if ! present {
                log.Print ("[compare]: collector " + rc + " not present in ground truth")
                continue
            }
            other_peer_rib, present := other_rc[peer_ip]
            if ! present {
                log.Print ("[compare]: peer " + peer_ip + " not present in ground truth")
                continue
            }
            if len (other_peer_rib) == 0 {
                continue
            }
            log.Print ("Performing RIB check for peer " + peer_ip + " at " + rc)

            added, removed, modified := dict_diff (peer_rib, other_peer_rib)
            if len (added) == 0 && len (removed) == 0 && len (modified) == 0 {
                log.Print ("No RIB reconstruction error")
            } else {
                n := float64 (len (other_peer_rib))
                log.Print (fmt.Sprintf ("%d (%.2f %%) pfx present only in ground truth",
                    len (added), 100*float64 (len (added))/n))
                log.Print (fmt.Sprintf ("%d (%.2f %%) pfx present only in the reconstruction",
                    len (removed), 100*float64 (len (removed))/n))
                log.Print (fmt.Sprintf ("%d (%.2f %%) pfx present in both but with different as-paths",
                    len (modified), 100*float64 (len (modified))/n))
            }
        }
    }

    // Compare observers (names must match)
    for _, other_observer := range other.observers {
        for _, own_observer := range t.observers {
            if other_observer.get_name () == own_observer.get_name () {
                own_observer.compare (other_observer)
            }
        }
    }
}

/**
 * Compare two prefix-to-path maps.
 * Returns:
 * - added: pairs present in the second map but not in the first.
 * - removed: pairs present in the first map but not in the second.
 * - modified: keys present in both but with different paths.
 */
func dict_diff (dict1, dict2 map[string][]int) (added, removed map[string][]int, modified map[string][2][]int) {
    added = make (map[string][]int)
    removed = make (map[string][]int)
    modified = make (map[string][2][]int)

    for key, v := range dict2 {
        if _, present := dict1[key]; ! present {
            added[key] = v
        }
    }
    for key, v := range dict1 {
        if _, present := dict2[key]; ! present {
            removed[key] = v
        }
    }
    for key, v1 := range dict1 {
        if v2, present := dict2[key]; present {
            if ! paths_equal (v1, v2) {
                modified[key] = [2][]int{v1, v2}
            }
        }
    }
    return
}

func paths_equal (p1, p2 []int) bool {
    if len (p1) != len (p2) {
        return false
    }
    for i := range p1 {
        if p1[i] != p2[i] {
            return false
        }
    }
    return true
}
