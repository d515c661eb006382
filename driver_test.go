package main

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func test_downloader (t *testing.T, date_range string, collectors []string) *BGPDownloader {
    return new_bgp_downloader (t.TempDir (), "test", date_range, collectors,
        nil, nil, 900, nil, "20060102.1504", false)
}

func TestSetUrlsSnapsStartToRisCadence (t *testing.T) {
    d := test_downloader (t, "20100901.0100,20100901.0200", []string{"rrc00"})
    d.set_urls ()

    // RIS publishes RIBs every 8h, 01:00 snaps back to midnight
    assert.Equal (t, time.Date (2010, 9, 1, 0, 0, 0, 0, time.UTC), d.ts_start)
    assert.Equal (t, time.Date (2010, 9, 1, 2, 0, 0, 0, time.UTC), d.ts_end)
}

func TestSetUrlsSnapsStartToRvCadence (t *testing.T) {
    d := test_downloader (t, "20100901.0300,20100901.0400", []string{"route-views.wide"})
    d.set_urls ()

    // RV publishes RIBs every 2h
    assert.Equal (t, time.Date (2010, 9, 1, 2, 0, 0, 0, time.UTC), d.ts_start)
}

func TestSetUrlsRisCadenceGovernsMixedProjects (t *testing.T) {
    d := test_downloader (t, "20100901.0300,20100901.0400", []string{"route-views.wide", "rrc00"})
    d.set_urls ()

    // With both projects selected, the stricter 8h cadence governs the start
    assert.Equal (t, time.Date (2010, 9, 1, 0, 0, 0, 0, time.UTC), d.ts_start)
}

func TestSetUrlsSnapsEndToUpdateCadence (t *testing.T) {
    d := test_downloader (t, "20100901.0000,20100901.0107", []string{"rrc00"})
    d.set_urls ()

    // The end snaps to the RV 15-minute update resolution
    assert.Equal (t, time.Date (2010, 9, 1, 1, 0, 0, 0, time.UTC), d.ts_end)
}

func TestSetUrlsFiles (t *testing.T) {
    d := test_downloader (t, "20100901.0000,20100901.0200", []string{"rrc00"})
    d.set_urls ()

    // One RIB at ts_start
    rib_urls := d.rib_urls (d.ts_start)
    require.Contains (t, rib_urls, "rrc00")
    assert.Equal (t, "https://data.ris.ripe.net/rrc00/2010.09/bview.20100901.0000.gz", rib_urls["rrc00"])

    // Updates at every RIS publication instant in the padded window:
    // floor(7200/300)+1 instants, plus one before and two after
    assert.Len (t, d.update_timestamps (), 28)
    first := d.update_timestamps ()[0]
    assert.Equal (t, time.Date (2010, 8, 31, 23, 55, 0, 0, time.UTC), first)
    last := d.update_timestamps ()[27]
    assert.Equal (t, time.Date (2010, 9, 1, 2, 10, 0, 0, time.UTC), last)

    // 02:00 is not a RIS RIB time
    assert.False (t, d.compare)
}

func TestSetUrlsCompareFlagRis (t *testing.T) {
    d := test_downloader (t, "20100901.0000,20100901.0800", []string{"rrc00"})
    d.set_urls ()

    require.True (t, d.compare)
    rib_urls := d.rib_urls (d.ts_end)
    assert.Equal (t, "https://data.ris.ripe.net/rrc00/2010.09/bview.20100901.0800.gz", rib_urls["rrc00"])
}

func TestSetUrlsCompareFlagRvOnly (t *testing.T) {
    d := test_downloader (t, "20100901.0000,20100901.0200", []string{"route-views.wide"})
    d.set_urls ()

    // 02:00 is a RV RIB time and RV is the only project
    assert.True (t, d.compare)
}

func TestSetUrlsCompareFlagMixedProjects (t *testing.T) {
    d := test_downloader (t, "20100901.0000,20100901.0200", []string{"route-views.wide", "rrc00"})
    d.set_urls ()

    // With both projects, only the 8h cadence can provide ground truth
    // everywhere, and 02:00 is not on it
    assert.False (t, d.compare)
}

func TestSetUrlsEmptyWindow (t *testing.T) {
    d := test_downloader (t, "20100901.0000,20100901.0000", []string{"rrc00"})
    d.set_urls ()

    assert.Equal (t, d.ts_start, d.ts_end)
    // Midnight is a RIB time on the 8h cadence
    assert.True (t, d.compare)
    // floor(0/300)+1 update instants, plus the padding
    assert.Len (t, d.update_timestamps (), 4)
}

func TestUpdateUrlsGroupsCollectorsByTimestamp (t *testing.T) {
    d := test_downloader (t, "20100901.0000,20100901.0200", []string{"rrc00", "route-views.wide"})
    d.set_urls ()

    // On the hour, both collectors have an update file
    on_the_hour := d.update_urls (time.Date (2010, 9, 1, 1, 0, 0, 0, time.UTC))
    require.Len (t, on_the_hour, 2)
    assert.Contains (t, on_the_hour, "rrc00")
    assert.Contains (t, on_the_hour, "route-views.wide")

    // At 01:05 only RIS publishes
    ris_only := d.update_urls (time.Date (2010, 9, 1, 1, 5, 0, 0, time.UTC))
    require.Len (t, ris_only, 1)
    assert.Contains (t, ris_only, "rrc00")

    // Timestamps are the chronological union across collectors
    timestamps := d.update_timestamps ()
    for i := 1; i < len (timestamps); i++ {
        assert.True (t, timestamps[i-1].Before (timestamps[i]))
    }
}
