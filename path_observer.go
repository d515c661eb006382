/* ============================================================= *\
   path_observer.go

   Counts the currently installed AS paths, across all collectors,
   peers and IP families.
\* ============================================================= */

package main

import (
    "encoding/json"
    "log"
    "strconv"
    "strings"
    "time"
)

type PathObserver struct {
    Base_observer
    paths_count map[string]int // canonical path -> multiplicity
}

func NewPathObserver (name, output_dir string) *PathObserver {
    return &PathObserver{
        Base_observer: new_base_observer (name, output_dir),
        paths_count: make (map[string]int),
    }
}

func path_key (path []int) string {
    tokens := make ([]string, len (path))
    for i, asn := range path {
        tokens[i] = strconv.Itoa (asn)
    }
    return strings.Join (tokens, " ")
}

func (o *PathObserver) _add_path (path []int) {
    o.paths_count[path_key (path)]++
}

/**
 * Entries whose count drops to zero are removed, not left at zero.
 */
func (o *PathObserver) _remove_path (path []int) {
    key := path_key (path)
    o.paths_count[key]--
    if o.paths_count[key] <= 0 {
        delete (o.paths_count, key)
    }
}

func (o *PathObserver) add_path_ipv4 (rc, peer_ip, pfx string, path []int) {
    o._add_path (path)
}

func (o *PathObserver) add_path_ipv6 (rc, peer_ip, pfx string, path []int) {
    o._add_path (path)
}

func (o *PathObserver) update_withdrawal_ipv4 (rc, peer_ip, pfx string, path []int) {
    o._remove_path (path)
}

func (o *PathObserver) update_withdrawal_ipv6 (rc, peer_ip, pfx string, path []int) {
    o._remove_path (path)
}

func (o *PathObserver) update_announcement_ipv4 (rc, peer_ip, pfx string, new_path, old_path []int) {
    if old_path != nil {
        o._remove_path (old_path)
    }
    o._add_path (new_path)
}

func (o *PathObserver) update_announcement_ipv6 (rc, peer_ip, pfx string, new_path, old_path []int) {
    if old_path != nil {
        o._remove_path (old_path)
    }
    o._add_path (new_path)
}

func (o *PathObserver) dump (ts time.Time) {
    // Get length count stats
    paths_length_count := make (map[string]int)
    for path := range o.paths_count {
        l := len (strings.Fields (path))
        paths_length_count[strconv.Itoa (l)]++
    }

    serializable := struct {
        NUniquePaths int `json:"n_unique_paths"`
        PathsCount map[string]int `json:"paths_count"`
        PathsLengthCount map[string]int `json:"paths_length_count"`
    }{
        NUniquePaths: len (o.paths_count),
        PathsCount: o.paths_count,
        PathsLengthCount: paths_length_count,
    }

    filepath := o.output_dir + "/" + o.name + "." + ts.Format (o.time_fmt) + ".json"
    content, err := json.Marshal (serializable)
    if err != nil {
        log.Print ("[PathObserver.dump]: " + err.Error ())
        return
    }
    w, file := new_bufio_writer (filepath)
    defer file.Close ()
    w.Write (content)
    w.Flush ()
}
