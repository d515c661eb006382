/* ============================================================= *\
   overlay_observer.go

   Optional observer tracking prefix overlays: groups of
   more-specific prefixes that share an aggregate and the same
   AS path, per (collector, peer). IPv4 only.
\* ============================================================= */

package main

import (
    "sort"
    "strings"
    "time"
    radix "github.com/Emeline-1/radix"
    graph "github.com/Emeline-1/basic_graph")

type OverlayObserver struct {
    Base_observer
    tables map[string]map[string]string // "{rc}_{peer_ip}" -> pfx -> as path
}

func NewOverlayObserver (name, output_dir string) *OverlayObserver {
    return &OverlayObserver{
        Base_observer: new_base_observer (name, output_dir),
        tables: make (map[string]map[string]string),
    }
}

func (o *OverlayObserver) record (rc, peer_ip, pfx string, path []int) {
    key := rc + "_" + peer_ip
    if _, present := o.tables[key]; ! present {
        o.tables[key] = make (map[string]string)
    }
    o.tables[key][pfx] = path_key (path)
}

func (o *OverlayObserver) add_path_ipv4 (rc, peer_ip, pfx string, path []int) {
    o.record (rc, peer_ip, pfx, path)
}

func (o *OverlayObserver) update_withdrawal_ipv4 (rc, peer_ip, pfx string, path []int) {
    delete (o.tables[rc + "_" + peer_ip], pfx)
}

func (o *OverlayObserver) update_announcement_ipv4 (rc, peer_ip, pfx string, new_path, old_path []int) {
    o.record (rc, peer_ip, pfx, new_path)
}

/**
 * Write one line per overlay group:
 * [rc_peer_ip prefix_1 prefix_2 ... prefix_n]
 */
func (o *OverlayObserver) dump (ts time.Time) {
    filepath := o.output_dir + "/" + o.name + "." + ts.Format (o.time_fmt) + ".txt"
    w, file := new_bufio_writer (filepath)
    defer file.Close ()

    keys := make ([]string, 0, len (o.tables))
    for key := range o.tables {
        keys = append (keys, key)
    }
    sort.Strings (keys)

    for _, key := range keys {
        func () {
            defer recovery_function ()
            for _, component := range process_overlays (o.tables[key]) {
                w.WriteString (key + " " + strings.Join (component, " ") + "\n")
            }
        } ()
    }
    w.Flush ()
}

/* =============================================== *\
                Overlay Computation
\* =============================================== */

/**
 * Input: one peer's table (one AS path per prefix)
 * Output: the overlay groups, one slice of prefixes per group.
 *
 * The overlays don't have to span the aggregate exactly, they can be isolated.
 */
func process_overlays (routing_entries map[string]string) [][]string {
    // Note: If 4 more specifics span an aggregate, but the aggregate is not
    // in the table, then the overlays won't be found.

    /* --- Build Radix tree from the table, recording AS path of each entry --- */
    tree := radix.New()
    for prefix, as_path := range routing_entries {
        radix_prefix := get_binary_string (prefix)
        tree.Insert (radix_prefix, as_path)
    }

    /* --- Walk radix tree, recording overlays (parent and direct children) --- */
    overlays := create_safeset ()
    walk_radix_tree := generate_walk_radix_tree (overlays)
    tree.Walk_post (walk_radix_tree)

    /* --- Compute transitive closure of overlays thanks to graphs connected components --- */
    g := graph.New ()
    for aggregate, overlays_i := range overlays.set {
        overlays_v, _ := overlays_i.(map[string]struct{})
        for overlay := range overlays_v {
            g.Add_edge (aggregate, overlay)
        }
    }

    components := make ([][]string, 0)
    g.Set_iterator ()
    for g.Next_connected_component () {
        connected_component := g.Connected_component ()
        sort.Strings (connected_component)
        components = append (components, connected_component)
    }
    sort.Slice (components, func (i, j int) bool {
        return components[i][0] < components[j][0]
    })
    return components
}

/**
 * Function performing an action during the post-order walk of a radix tree.
 * - overlays: key: the aggregate prefix
 *             value: all its overlays.
 */
func generate_walk_radix_tree (overlays *SafeSet) radix.WalkFnPost {
    return func (parent *radix.LeafNode, children []*radix.LeafNode) {
        aggregate_prefix := get_prefix_from_binary (parent.Key)
        aggregate_aspath,_ := parent.Val.(string)

        marked_prefixes := make ([]string, 0, len (children))
        marked_ases := make ([]string, 0, len (children))
        for _, more_specific := range children {
            more_specific_aspath,_ := more_specific.Val.(string)
            if more_specific_aspath == aggregate_aspath {
                overlays.unsafe_append (aggregate_prefix, get_prefix_from_binary (more_specific.Key))
            } else {
                marked_prefixes = append (marked_prefixes, more_specific.Key)
                marked_ases = append (marked_ases, more_specific.Val.(string))
            }
        }

        /* --- Detect implicit aggregate of overlays --- */
        // NB: not perfect, only detect overlays if the children are exactly the overlays
        nb_prefixes := len (marked_prefixes)
        if nb_prefixes >= 2 {

            common_prefix := longestCommonPrefix (marked_prefixes)
            if common_prefix == "" {
                return
            }

            suffix_length := len (marked_prefixes[0]) - len (common_prefix)
            if IntPow(2, suffix_length) == nb_prefixes { // Implicit aggregate detected
                if same (marked_ases) {
                    for _, prefix := range marked_prefixes {
                        overlays.unsafe_append (get_prefix_from_binary (common_prefix), get_prefix_from_binary (prefix))
                    }
                }
            }
        }
    }
}
