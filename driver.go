/* ============================================================= *\
   driver.go

   Orchestration of the fine-grain RIB reconstruction from
   updates: defining the collection parameters, downloading and
   caching files from RouteViews (RV) and the Routing Information
   Service (RIS), setting the RIBTable observers, and comparing
   the reconstructed RIB to ground truth.
\* ============================================================= */

package main

import (
    "log"
    "os"
    "sort"
    "strings"
    "time"
)

type file_key struct {
    ts time.Time;
    rc string;
    ftype string // "rib" or "update"
}

type BGPDownloader struct {
    output_dir string
    output_filename string
    collectors []string
    peer_asns []string
    peer_ips []string
    interval int
    session *CachedSession
    time_fmt string
    with_overlays bool

    processed_dir string
    projects map[string]interface{}
    ts_start time.Time
    ts_end time.Time
    // Keeps track of the files to download, keyed (timestamp, RC, type)
    files map[file_key]string
    // Set to true if ts_end is a RIB time, in which case the reconstruction
    // error can be quantified against the ground-truth RIB.
    compare bool
}

/**
 * Set up data collection.
 * - date_range: "<start>,<end>" in the time_fmt format, inclusive borders.
 * - collectors: route collector names; rrc* belongs to RIS, route-views*
 *   to RV, anything else is fatal.
 */
func new_bgp_downloader (output_dir, output_filename, date_range string, collectors, peer_asns, peer_ips []string,
                         interval int, session *CachedSession, time_fmt string, with_overlays bool) *BGPDownloader {
    d := &BGPDownloader{
        output_dir: output_dir,
        output_filename: output_filename,
        collectors: collectors,
        peer_asns: peer_asns,
        peer_ips: peer_ips,
        interval: interval,
        session: session,
        time_fmt: time_fmt,
        with_overlays: with_overlays,
        projects: make (map[string]interface{}),
        files: make (map[file_key]string),
    }

    // Processing the arguments
    bounds := strings.Split (date_range, ",")
    if len (bounds) != 2 {
        log.Fatal ("[new_bgp_downloader]: date_range must be <start>,<end>: " + date_range)
    }
    var err error
    d.ts_start, err = time.ParseInLocation (time_fmt, bounds[0], time.UTC)
    if err != nil {
        log.Fatal ("[new_bgp_downloader]: " + err.Error ())
    }
    d.ts_end, err = time.ParseInLocation (time_fmt, bounds[1], time.UTC)
    if err != nil {
        log.Fatal ("[new_bgp_downloader]: " + err.Error ())
    }

    d.processed_dir = output_dir + "/processed"
    if err = os.MkdirAll (d.processed_dir, 0755); err != nil {
        log.Fatal ("[new_bgp_downloader]: " + err.Error ())
    }

    for _, collector := range collectors {
        if strings.HasPrefix (collector, "rrc") {
            d.projects["RIS"] = struct{}{}
        } else if strings.Contains (collector, "route-views") {
            d.projects["RV"] = struct{}{}
        } else {
            log.Fatal ("[new_bgp_downloader]: rc " + collector + " not recognized")
        }
    }
    return d
}

/* ------------------------------------------------- *\
            Url set construction
\* ------------------------------------------------- */

/**
 * Among the candidates, pick the one closest to ts.
 */
func closest_instant (candidates []time.Time, ts time.Time) time.Time {
    closest := candidates[0]
    for _, candidate := range candidates[1:] {
        if abs_duration (candidate.Sub (ts)) < abs_duration (closest.Sub (ts)) {
            closest = candidate
        }
    }
    return closest
}

func abs_duration (d time.Duration) time.Duration {
    if d < 0 {
        return -d
    }
    return d
}

/**
 * Given the time interval and RCs, record the file urls to download.
 * ts_start is snapped backward-or-forward to the nearest RIB publication
 * instant (every 8h for RIS, every 2h for RV, the stricter 8h cadence
 * governing when both projects are selected), ts_end to the nearest
 * update publication instant at the RV resolution (the coarser one).
 */
func (d *BGPDownloader) set_urls () {

    // Get the closest RIB to the start
    day_start := time.Date (d.ts_start.Year (), d.ts_start.Month (), d.ts_start.Day (), 0, 0, 0, 0, time.UTC)
    var closest_ribs []time.Time
    if _, ris := d.projects["RIS"]; ris {
        for i := 0; i < 10; i++ {
            closest_ribs = append (closest_ribs, day_start.Add (-24*time.Hour).Add (time.Duration (i*8)*time.Hour))
        }
    } else {
        for i := 0; i < 50; i++ {
            closest_ribs = append (closest_ribs, day_start.Add (-24*time.Hour).Add (time.Duration (i*2)*time.Hour))
        }
    }
    d.ts_start = closest_instant (closest_ribs, d.ts_start)
    log.Print ("Setting start of time interval to " + d.ts_start.Format (d.time_fmt))

    // Get the closest update to the end (common to both RIS and RV,
    // at the RV resolution since it is the worst)
    hour_start := time.Date (d.ts_end.Year (), d.ts_end.Month (), d.ts_end.Day (), d.ts_end.Hour (), 0, 0, 0, time.UTC)
    var closest_updates []time.Time
    for i := 0; i < 10; i++ {
        closest_updates = append (closest_updates, hour_start.Add (-time.Hour).Add (time.Duration (i*rv_update_res)*time.Second))
    }
    d.ts_end = closest_instant (closest_updates, d.ts_end)
    log.Print ("Setting end of time interval to " + d.ts_end.Format (d.time_fmt))

    // Keep track of the input RIB + updates files.
    // Updates are also taken before and after the interval, just in case
    // of boundary records.
    for _, rc := range d.collectors {
        if strings.HasPrefix (rc, "rrc") {
            d.set_collector_urls (rc, ris_update_res)
        } else {
            d.set_collector_urls (rc, rv_update_res)
        }
    }

    if d.compare {
        log.Print ("ts_end is a RIB time. Reconstruction error will be assessed.")
    } else {
        log.Print ("ts_end is not a RIB time. Reconstruction error will not be assessed.")
    }
}

func (d *BGPDownloader) set_collector_urls (rc string, update_res int) {
    // Initial RIB file (warm start)
    d.files[file_key{d.ts_start, rc, "rib"}] = get_url (rc, d.ts_start, "rib")

    // Update files
    updates_number := int (d.ts_end.Sub (d.ts_start).Seconds ())/update_res + 1
    for i := -1; i < updates_number+2; i++ {
        dt := d.ts_start.Add (time.Duration (i*update_res) * time.Second)
        d.files[file_key{dt, rc, "update"}] = get_url (rc, dt, "update")
    }

    // If ts_end is a RIB time, get the ground truth RIB to check
    // reconstruction errors
    if d.ts_end.Minute () != 0 {
        return
    }
    if strings.HasPrefix (rc, "rrc") {
        if d.ts_end.Hour ()%8 == 0 {
            d.compare = true
            d.files[file_key{d.ts_end, rc, "rib"}] = get_url (rc, d.ts_end, "rib")
        }
    } else if d.ts_end.Hour ()%2 == 0 {
        // With both projects selected, the stricter RIS cadence governs
        if len (d.projects) == 1 || d.ts_end.Hour ()%8 == 0 {
            d.compare = true
            d.files[file_key{d.ts_end, rc, "rib"}] = get_url (rc, d.ts_end, "rib")
        }
    }
}

func (d *BGPDownloader) urls () []string {
    urls := make ([]string, 0, len (d.files))
    for _, url := range d.files {
        urls = append (urls, url)
    }
    sort.Strings (urls)
    return urls
}

/**
 * The distinct update timestamps, in chronological order.
 */
func (d *BGPDownloader) update_timestamps () []time.Time {
    seen := make (map[time.Time]interface{})
    timestamps := make ([]time.Time, 0, len (d.files))
    for key := range d.files {
        if key.ftype != "update" {
            continue
        }
        if _, present := seen[key.ts]; ! present {
            seen[key.ts] = struct{}{}
            timestamps = append (timestamps, key.ts)
        }
    }
    sort.Slice (timestamps, func (i, j int) bool {
        return timestamps[i].Before (timestamps[j])
    })
    return timestamps
}

/**
 * The collectors having an update file at exactly 'ts', with their urls.
 */
func (d *BGPDownloader) update_urls (ts time.Time) map[string]string {
    rc_to_url := make (map[string]string)
    for key, url := range d.files {
        if key.ftype == "update" && key.ts.Equal (ts) {
            rc_to_url[key.rc] = url
        }
    }
    return rc_to_url
}

func (d *BGPDownloader) rib_urls (ts time.Time) map[string]string {
    rc_to_url := make (map[string]string)
    for key, url := range d.files {
        if key.ftype == "rib" && key.ts.Equal (ts) {
            rc_to_url[key.rc] = url
        }
    }
    return rc_to_url
}

func (d *BGPDownloader) download_urls () {
    download_urls (d.session, d.urls ())
}

/* ------------------------------------------------- *\
            Reconstruction
\* ------------------------------------------------- */

/**
 * Main function. Warm start with the RIBs at ts_start, then apply the
 * updates in chronological timestamp buckets, periodically dumping the
 * observers. At the end, compare the reconstruction to ground truth if
 * ts_end is a RIB time.
 */
func (d *BGPDownloader) warm_update_process () {

    // Determining the output file timestamps.
    // They should overlap with update times.
    output_files := make (map[time.Time]interface{})
    output_files_number := int (d.ts_end.Sub (d.ts_start).Seconds ())/d.interval
    for i := 1; i < output_files_number+1; i++ {
        output_files[d.ts_start.Add (time.Duration (i*d.interval)*time.Second)] = struct{}{}
    }

    rib_table := new_rib_table (d.session, d.peer_ips, d.peer_asns, d.ts_start, d.ts_end)

    observers_output_dir := d.processed_dir + "/" + d.output_filename
    if err := os.MkdirAll (observers_output_dir, 0755); err != nil {
        log.Fatal ("[warm_update_process]: " + err.Error ())
    }

    // Select observers. Feel free to add yours.
    as_multigraph_observer := NewASMultiGraphObserver ("multigraph", observers_output_dir)
    as_graph_observer := NewASGraphObserver ("graph", observers_output_dir, as_multigraph_observer)
    update_count_observer := NewUpdateCountObserver ("update_count", observers_output_dir)
    path_observer := NewPathObserver ("path", observers_output_dir)

    rib_table.attach_observer (as_graph_observer)
    rib_table.attach_observer (as_multigraph_observer)
    rib_table.attach_observer (update_count_observer)
    rib_table.attach_observer (path_observer)
    if d.with_overlays {
        rib_table.attach_observer (NewOverlayObserver ("overlays", observers_output_dir))
    }

    // Process the initial RIBs (warm start at ts_start)
    rib_table.build (d.rib_urls (d.ts_start))

    rib_table.dump (d.ts_start)
    log.Print ("Dump observers at " + d.ts_start.Format (d.time_fmt))

    // For each distinct update timestamp...
    for _, ts := range d.update_timestamps () {
        log.Print ("Processing updates at timestamp " + ts.Format (d.time_fmt))

        rc_to_url := d.update_urls (ts)
        collectors_for_timestamp := make ([]string, 0, len (rc_to_url))
        for rc := range rc_to_url {
            collectors_for_timestamp = append (collectors_for_timestamp, rc)
        }
        sort.Strings (collectors_for_timestamp)
        log.Print ("Collectors available for timestamp: " + strings.Join (collectors_for_timestamp, " "))

        // Process the updates
        rib_table.update (rc_to_url)

        // Dump the observers
        if _, present := output_files[ts]; present {
            rib_table.dump (ts)
            log.Print ("Dump observers at " + ts.Format (d.time_fmt))
        }

        if all_true (rib_table.stop_updating) {
            break
        }
    }

    if ! d.compare {
        return
    }

    // Processing the final RIBs (ground truth at ts_end)
    end_rib_table := new_rib_table (d.session, d.peer_ips, d.peer_asns, d.ts_start, d.ts_end)

    // Select observers to check (name must match already defined observers)
    end_as_graph_observer := NewASGraphObserver ("graph", observers_output_dir, nil)
    end_rib_table.attach_observer (end_as_graph_observer)

    end_rib_table.build (d.rib_urls (d.ts_end))

    // Compare the RIB and its observers to ground truth
    rib_table.compare (end_rib_table)
}

func all_true (flags map[string]bool) bool {
    for _, flag := range flags {
        if ! flag {
            return false
        }
    }
    return true
}

func (d *BGPDownloader) run () {
    d.set_urls ()
    d.download_urls ()
    d.warm_update_process ()
}
