/* ============================================================= *\
   graph_observer.go

   AS-level topology observers.
   - ASGraphObserver: undirected graph weighted by the number of
     installed paths crossing each AS link.
   - ASMultiGraphObserver: same links, but with one parallel edge
     per (collector, peer), used to normalize the graph weights
     by the number of peers seeing each link.
\* ============================================================= */

package main

import (
    "fmt"
    "log"
    "sort"
    "strconv"
    "time"
)

/* ------------------------------------------------- *\
            Weighted undirected graph
\* ------------------------------------------------- */

/**
 * Adjacency map u -> v -> paths_count, mirrored for both directions.
 * Vertices whose adjacency emptied stay in the map (isolated) until
 * remove_isolated_nodes is called.
 */
type Weighted_graph map[int]map[int]int

func (g Weighted_graph) add_edge (u, v int) {
    if _, present := g[u]; ! present {
        g[u] = make (map[int]int)
    }
    if _, present := g[v]; ! present {
        g[v] = make (map[int]int)
    }
    g[u][v]++
    g[v][u]++
}

/**
 * Decrementing a missing edge is a silent no-op (acceptable lossiness
 * at warm start).
 */
func (g Weighted_graph) remove_edge (u, v int) {
    if _, present := g[u][v]; ! present {
        return
    }
    g[u][v]--
    g[v][u]--
    if g[u][v] == 0 {
        delete (g[u], v)
        delete (g[v], u)
    }
}

func (g Weighted_graph) remove_isolated_nodes () {
    for u, neighbors := range g {
        if len (neighbors) == 0 {
            delete (g, u)
        }
    }
}

/**
 * Undirected edge list with u <= v, sorted, for deterministic iteration.
 */
func (g Weighted_graph) edges () [][2]int {
    edges := make ([][2]int, 0, len (g))
    for u, neighbors := range g {
        for v := range neighbors {
            if u <= v {
                edges = append (edges, [2]int{u, v})
            }
        }
    }
    sort.Slice (edges, func (i, j int) bool {
        if edges[i][0] != edges[j][0] {
            return edges[i][0] < edges[j][0]
        }
        return edges[i][1] < edges[j][1]
    })
    return edges
}

/* ------------------------------------------------- *\
            AS graph observer
\* ------------------------------------------------- */

type ASGraphObserver struct {
    Base_observer
    graph_ipv4 Weighted_graph;
    graph_ipv6 Weighted_graph;
    // Non-owning reference, used to get the peers count at dump time.
    multigraph_observer *ASMultiGraphObserver;
    metadata string
}

/**
 * 'multigraph_observer' may be nil, in which case raw paths counts
 * are dumped instead of the per-peer average weight.
 */
func NewASGraphObserver (name, output_dir string, multigraph_observer *ASMultiGraphObserver) *ASGraphObserver {
    return &ASGraphObserver{
        Base_observer: new_base_observer (name, output_dir),
        graph_ipv4: make (Weighted_graph),
        graph_ipv6: make (Weighted_graph),
        multigraph_observer: multigraph_observer,
    }
}

func (o *ASGraphObserver) _add_path (g Weighted_graph, path []int) {
    for l := 0; l < len (path)-1; l++ {
        g.add_edge (path[l], path[l+1])
    }
}

func (o *ASGraphObserver) _remove_path (g Weighted_graph, path []int) {
    for l := 0; l < len (path)-1; l++ {
        g.remove_edge (path[l], path[l+1])
    }
}

func (o *ASGraphObserver) add_path_ipv4 (rc, peer_ip, pfx string, path []int) {
    o._add_path (o.graph_ipv4, path)
}

func (o *ASGraphObserver) add_path_ipv6 (rc, peer_ip, pfx string, path []int) {
    o._add_path (o.graph_ipv6, path)
}

func (o *ASGraphObserver) update_withdrawal_ipv4 (rc, peer_ip, pfx string, path []int) {
    o._remove_path (o.graph_ipv4, path)
}

func (o *ASGraphObserver) update_withdrawal_ipv6 (rc, peer_ip, pfx string, path []int) {
    o._remove_path (o.graph_ipv6, path)
}

func (o *ASGraphObserver) update_announcement_ipv4 (rc, peer_ip, pfx string, new_path, old_path []int) {
    if old_path != nil {
        o._remove_path (o.graph_ipv4, old_path)
    }
    o._add_path (o.graph_ipv4, new_path)
}

func (o *ASGraphObserver) update_announcement_ipv6 (rc, peer_ip, pfx string, new_path, old_path []int) {
    if old_path != nil {
        o._remove_path (o.graph_ipv6, old_path)
    }
    o._add_path (o.graph_ipv6, new_path)
}

/**
 * Dump both graphs as edge-list csv files, one per IP family.
 * With a multigraph observer attached, each edge carries the average
 * number of paths per peer and the peers count; without it, the raw
 * paths count.
 */
func (o *ASGraphObserver) dump (ts time.Time) {
    o.dump_graph (o.graph_ipv4, o.multigraph_ipv4 (), ts, "ipv4")
    o.dump_graph (o.graph_ipv6, o.multigraph_ipv6 (), ts, "ipv6")
}

func (o *ASGraphObserver) multigraph_ipv4 () Multi_graph {
    if o.multigraph_observer == nil {
        return nil
    }
    return o.multigraph_observer.graph_ipv4
}

func (o *ASGraphObserver) multigraph_ipv6 () Multi_graph {
    if o.multigraph_observer == nil {
        return nil
    }
    return o.multigraph_observer.graph_ipv6
}

func (o *ASGraphObserver) dump_graph (g Weighted_graph, mg Multi_graph, ts time.Time, family string) {
    filepath := o.output_dir + "/" + o.name + "_" + family + "." + ts.Format (o.time_fmt) + ".csv"
    edgelist, file := new_bufio_writer (filepath)
    defer file.Close ()

    if o.metadata != "" {
        edgelist.WriteString ("#" + o.metadata + "\n")
    }

    if mg == nil {
        edgelist.WriteString ("#origin,destination,paths_count\n")
        for _, edge := range g.edges () {
            u, v := edge[0], edge[1]
            edgelist.WriteString (strconv.Itoa (u) + "," + strconv.Itoa (v) + "," +
                strconv.Itoa (g[u][v]) + "\n")
        }
    } else {
        edgelist.WriteString ("#origin,destination,paths_count,peers_count\n")
        for _, edge := range g.edges () {
            u, v := edge[0], edge[1]
            peers_count := mg.peers_count (u, v)
            if peers_count == 0 {
                // Link not present in the multigraph, nothing to normalize with
                continue
            }
            edgelist.WriteString (strconv.Itoa (u) + "," + strconv.Itoa (v) + "," +
                strconv.FormatFloat (float64 (g[u][v])/float64 (peers_count), 'g', -1, 64) + "," +
                strconv.Itoa (peers_count) + "\n")
        }
    }
    edgelist.Flush ()

    log.Print (fmt.Sprintf ("wrote graph of %d edges to %s", len (g.edges ()), filepath))
}

/**
 * Compare both graphs to another graph observer's, after dropping
 * isolated vertices. Reconstruction errors are a log matter only.
 */
func (o *ASGraphObserver) compare (other Observer) {
    other_graph, t := other.(*ASGraphObserver) // Type assertion
    if !t {
        log.Print ("[ASGraphObserver.compare]: cannot compare with observer " + other.get_name ())
        return
    }

    o.graph_ipv4.remove_isolated_nodes ()
    o.graph_ipv6.remove_isolated_nodes ()

    log.Print ("Performing " + o.name + " check for graph_ipv4")
    o.compare_family (o.graph_ipv4, other_graph.graph_ipv4)
    log.Print ("Performing " + o.name + " check for graph_ipv6")
    o.compare_family (o.graph_ipv6, other_graph.graph_ipv6)
}

func (o *ASGraphObserver) compare_family (g1, g2 Weighted_graph) {
    comparison := compare_weighted_graphs (g1, g2)

    has_passed_checks := true
    if len (comparison.added_nodes) > 0 {
        log.Print (fmt.Sprintf ("added_nodes: %v", comparison.added_nodes))
        has_passed_checks = false
    }
    if len (comparison.removed_nodes) > 0 {
        log.Print (fmt.Sprintf ("removed_nodes: %v", comparison.removed_nodes))
        has_passed_checks = false
    }
    if len (comparison.added_edges) > 0 {
        log.Print (fmt.Sprintf ("added_edges: %v", comparison.added_edges))
        has_passed_checks = false
    }
    if len (comparison.removed_edges) > 0 {
        log.Print (fmt.Sprintf ("removed_edges: %v", comparison.removed_edges))
        has_passed_checks = false
    }
    if len (comparison.modified_edges) > 0 {
        log.Print (fmt.Sprintf ("modified_edges: %v", comparison.modified_edges))
        has_passed_checks = false
    }

    if has_passed_checks {
        log.Print ("No reconstruction errors")
    } else {
        log.Print ("Reconstruction errors")
    }
}

type graph_comparison struct {
    added_nodes []int;
    removed_nodes []int;
    added_edges [][2]int;
    removed_edges [][2]int;
    modified_edges map[[2]int][2]int
}

/**
 * Returns:
 * - nodes in graph2 but not in graph1, and conversely
 * - undirected edges in graph2 but not in graph1, and conversely
 * - edges in both but with different weights
 */
func compare_weighted_graphs (graph1, graph2 Weighted_graph) graph_comparison {
    comparison := graph_comparison{
        modified_edges: make (map[[2]int][2]int),
    }

    for u := range graph2 {
        if _, present := graph1[u]; ! present {
            comparison.added_nodes = append (comparison.added_nodes, u)
        }
    }
    for u := range graph1 {
        if _, present := graph2[u]; ! present {
            comparison.removed_nodes = append (comparison.removed_nodes, u)
        }
    }
    sort.Ints (comparison.added_nodes)
    sort.Ints (comparison.removed_nodes)

    for _, edge := range graph2.edges () {
        if _, present := graph1[edge[0]][edge[1]]; ! present {
            comparison.added_edges = append (comparison.added_edges, edge)
        }
    }
    for _, edge := range graph1.edges () {
        w2, present := graph2[edge[0]][edge[1]]
        if ! present {
            comparison.removed_edges = append (comparison.removed_edges, edge)
            continue
        }
        if w1 := graph1[edge[0]][edge[1]]; w1 != w2 {
            comparison.modified_edges[edge] = [2]int{w1, w2}
        }
    }
    return comparison
}

/* ------------------------------------------------- *\
            AS multigraph observer
\* ------------------------------------------------- */

/**
 * Adjacency map u -> v -> edge key -> paths_count.
 * The inner key map is shared between both directions of an edge.
 * Edge keys are "{rc}_{peer_ip}", so each peer contributes its own
 * parallel edge.
 */
type Multi_graph map[int]map[int]map[string]int

func (g Multi_graph) add_edge (u, v int, key string) {
    if _, present := g[u]; ! present {
        g[u] = make (map[int]map[string]int)
    }
    if _, present := g[v]; ! present {
        g[v] = make (map[int]map[string]int)
    }
    keys, present := g[u][v]
    if ! present {
        keys = make (map[string]int)
        g[u][v] = keys
        g[v][u] = keys
    }
    keys[key]++
}

func (g Multi_graph) remove_edge (u, v int, key string) {
    keys, present := g[u][v]
    if ! present {
        return
    }
    if _, present := keys[key]; ! present {
        return
    }
    keys[key]--
    if keys[key] == 0 {
        delete (keys, key)
    }
    if len (keys) == 0 {
        delete (g[u], v)
        delete (g[v], u)
    }
}

func (g Multi_graph) peers_count (u, v int) int {
    return len (g[u][v])
}

type ASMultiGraphObserver struct {
    Base_observer
    graph_ipv4 Multi_graph;
    graph_ipv6 Multi_graph
}

func NewASMultiGraphObserver (name, output_dir string) *ASMultiGraphObserver {
    return &ASMultiGraphObserver{
        Base_observer: new_base_observer (name, output_dir),
        graph_ipv4: make (Multi_graph),
        graph_ipv6: make (Multi_graph),
    }
}

func (o *ASMultiGraphObserver) _add_path (g Multi_graph, rc, peer_ip string, path []int) {
    key := rc + "_" + peer_ip
    for l := 0; l < len (path)-1; l++ {
        g.add_edge (path[l], path[l+1], key)
    }
}

func (o *ASMultiGraphObserver) _remove_path (g Multi_graph, rc, peer_ip string, path []int) {
    key := rc + "_" + peer_ip
    for l := 0; l < len (path)-1; l++ {
        g.remove_edge (path[l], path[l+1], key)
    }
}

func (o *ASMultiGraphObserver) add_path_ipv4 (rc, peer_ip, pfx string, path []int) {
    o._add_path (o.graph_ipv4, rc, peer_ip, path)
}

func (o *ASMultiGraphObserver) add_path_ipv6 (rc, peer_ip, pfx string, path []int) {
    o._add_path (o.graph_ipv6, rc, peer_ip, path)
}

func (o *ASMultiGraphObserver) update_withdrawal_ipv4 (rc, peer_ip, pfx string, path []int) {
    o._remove_path (o.graph_ipv4, rc, peer_ip, path)
}

func (o *ASMultiGraphObserver) update_withdrawal_ipv6 (rc, peer_ip, pfx string, path []int) {
    o._remove_path (o.graph_ipv6, rc, peer_ip, path)
}

func (o *ASMultiGraphObserver) update_announcement_ipv4 (rc, peer_ip, pfx string, new_path, old_path []int) {
    if old_path != nil {
        o._remove_path (o.graph_ipv4, rc, peer_ip, old_path)
    }
    o._add_path (o.graph_ipv4, rc, peer_ip, new_path)
}

func (o *ASMultiGraphObserver) update_announcement_ipv6 (rc, peer_ip, pfx string, new_path, old_path []int) {
    if old_path != nil {
        o._remove_path (o.graph_ipv6, rc, peer_ip, old_path)
    }
    o._add_path (o.graph_ipv6, rc, peer_ip, new_path)
}

// The multigraph is never dumped, its value is to back the graph
// observer's weight computation.
