package main

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestSanitizePathValid (t *testing.T) {
    path, err := sanitize_path ("100 200 300", 100)
    require.NoError (t, err)
    assert.Equal (t, []int{100, 200, 300}, path)
}

func TestSanitizePathPrependingCompression (t *testing.T) {
    path, err := sanitize_path ("100 100 100 200 200 300", 100)
    require.NoError (t, err)
    assert.Equal (t, []int{100, 200, 300}, path)

    // Non-consecutive duplicates are kept
    path, err = sanitize_path ("100 200 100", 100)
    require.NoError (t, err)
    assert.Equal (t, []int{100, 200, 100}, path)
}

func TestSanitizePathMalformed (t *testing.T) {
    _, err := sanitize_path ("100 {200,201} 300", 100)
    assert.Error (t, err)

    _, err = sanitize_path ("100 -200 300", 100)
    assert.Error (t, err)

    _, err = sanitize_path ("", 100)
    assert.Error (t, err)
}

func TestSanitizePathInvalid (t *testing.T) {
    // Too short after collapsing
    _, err := sanitize_path ("100 100", 100)
    assert.Error (t, err)

    // First hop must be the announcing peer
    _, err = sanitize_path ("200 300", 100)
    assert.Error (t, err)
}

func TestParseUpdateRecordAnnouncement (t *testing.T) {
    line := "BGP4MP|1283299200.074351|A|1.2.3.4|100|10.0.0.0/24|100 200 300|IGP|1.2.3.4|0|0||NAG||"
    record := parse_update_record (line)

    require.Equal (t, record_announcement, record.kind)
    assert.Equal (t, "1.2.3.4", record.peer_ip)
    assert.Equal (t, 100, record.peer_asn)
    assert.Equal (t, "10.0.0.0/24", record.pfx)
    assert.Equal (t, "100 200 300", record.as_path)
    // Sub-second part of the timestamp is kept
    assert.Equal (t, time.Date (2010, 9, 1, 0, 0, 0, 0, time.UTC).Unix (), record.ts.Unix ())
    assert.True (t, record.ts.Nanosecond () > 0)
}

func TestParseUpdateRecordWithdrawal (t *testing.T) {
    line := "BGP4MP|1283299200|W|1.2.3.4|100|10.0.0.0/24"
    record := parse_update_record (line)

    require.Equal (t, record_withdrawal, record.kind)
    assert.Equal (t, "1.2.3.4", record.peer_ip)
    assert.Equal (t, "10.0.0.0/24", record.pfx)
}

func TestParseUpdateRecordOther (t *testing.T) {
    // State change records and truncated lines are not updates
    assert.Equal (t, record_other, parse_update_record ("BGP4MP|1283299200|STATE|1.2.3.4|100|3|2").kind)
    assert.Equal (t, record_other, parse_update_record ("garbage").kind)
    // An A record with a withdrawal shape is not dispatched
    assert.Equal (t, record_other, parse_update_record ("BGP4MP|1283299200|A|1.2.3.4|100|10.0.0.0/24").kind)
}

func TestParseRibRecord (t *testing.T) {
    line := "TABLE_DUMP2|1283299200|B|1.2.3.4|100|10.0.0.0/24|100 200 300|IGP"
    record, err := parse_rib_record (line)

    require.NoError (t, err)
    assert.Equal (t, record_rib, record.kind)
    assert.Equal (t, "1.2.3.4", record.peer_ip)
    assert.Equal (t, 100, record.peer_asn)
    assert.Equal (t, "10.0.0.0/24", record.pfx)
    assert.Equal (t, "100 200 300", record.as_path)

    _, err = parse_rib_record ("TABLE_DUMP2|1283299200|B")
    assert.Error (t, err)
}
