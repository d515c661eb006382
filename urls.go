/* ============================================================= *\
   urls.go

   Generate urls for RouteViews and RIS projects archive
   download, and convert between urls, cache file names and
   collector names.
\* ============================================================= */

package main

import (
    "log"
    "path"
    "strings"
    "time"
)

const (
    rv_update_res = 15 * 60 // RouteViews publishes updates every 15 minutes
    ris_update_res = 5 * 60 // RIS publishes updates every 5 minutes
)

/**
 * Url to a RIS file.
 * ex: https://data.ris.ripe.net/rrc00/2024.02/bview.20240201.0000.gz
 */
func ris_url (rc string, ts time.Time, bgptype string) string {
    var bgptype_in_url string
    if bgptype == "rib" {
        bgptype_in_url = "bview"
    } else if bgptype == "update" {
        bgptype_in_url = "updates"
    }
    return "https://data.ris.ripe.net/" + rc + "/" + ts.Format ("2006.01") +
        "/" + bgptype_in_url + "." + ts.Format ("20060102.1504") + ".gz"
}

/**
 * Url to a RouteViews file.
 * Historical exception: route-views2 has no collector segment in its path.
 * ex: https://routeviews.org/route-views.sydney/bgpdata/2024.02/RIBS/rib.20240201.0000.bz2
 */
func rv_url (rc string, ts time.Time, bgptype string) string {
    var bgptype_in_url string
    if bgptype == "rib" {
        bgptype_in_url = "RIBS"
    } else if bgptype == "update" {
        bgptype_in_url = "UPDATES"
        bgptype = "updates"
    }
    if rc != "route-views2" {
        return "https://routeviews.org/" + rc + "/bgpdata/" + ts.Format ("2006.01") +
            "/" + bgptype_in_url + "/" + bgptype + "." + ts.Format ("20060102.1504") + ".bz2"
    }
    return "https://routeviews.org/bgpdata/" + ts.Format ("2006.01") +
        "/" + bgptype_in_url + "/" + bgptype + "." + ts.Format ("20060102.1504") + ".bz2"
}

func get_url (rc string, ts time.Time, bgptype string) string {
    if strings.HasPrefix (rc, "rrc") {
        return ris_url (rc, ts, bgptype)
    } else if strings.Contains (rc, "route-views") {
        return rv_url (rc, ts, bgptype)
    }
    log.Fatal ("[get_url]: rc value not recognized: " + rc)
    return ""
}

/**
 * Get a stable file name from a RIS or RV url, as:
 * [rc].[rib|update].[YYYYMMDD.HHMM][.gz|.bz2]
 */
func url_to_filename (url string) string {
    var rc string
    // Get RC, handling the edge case of route-views2
    if strings.Contains (url, "routeviews.org") && ! strings.Contains (url, "route-views") {
        rc = "route-views2"
    } else {
        rc = strings.Split (strings.TrimSpace (url), "/")[3]
    }
    filename := url[strings.LastIndex (url, "/")+1:]
    s := strings.Split (filename, ".")
    time_str := s[1] + "." + s[2]

    type_str := s[0]
    if type_str == "bview" || type_str == "rib" {
        type_str = "rib"
    }
    if type_str == "updates" {
        type_str = "update"
    }
    return rc + "." + type_str + "." + time_str + path.Ext (url)
}

/**
 * Get the collector name back from a file name built by url_to_filename.
 * RouteViews collectors contain a dot (route-views.sydney), hence the special case.
 */
func filename_to_rc (filename string) string {
    s := strings.Split (filename, ".")
    if s[0] == "route-views" {
        return s[0] + "." + s[1]
    }
    return s[0]
}
