/* ============================================================= *\
   records.go

   Adaptation of the textual records produced by the external
   MRT decoder ('bgpdump -m -v'), and AS path sanitization.

   Decoder record format ('|'-delimited):
   [0] dump type | [1] unix timestamp | [2] record type (A|W|B)
   | [3] peer_ip | [4] peer_asn | [5] prefix | [6] as_path | ...
   Announcements carry 15 fields, withdrawals 6.
\* ============================================================= */

package main

import (
    "bufio"
    "errors"
    "io"
    "log"
    "math"
    "os"
    "os/exec"
    "path"
    "strconv"
    "strings"
    "time"
)

/* ------------------------------------------------- *\
            MRT record variants
\* ------------------------------------------------- */

type record_kind int

const (
    record_other record_kind = iota
    record_rib
    record_announcement
    record_withdrawal
)

type Mrt_record struct {
    kind record_kind
    ts time.Time
    peer_ip string
    peer_asn int
    pfx string
    as_path string
}

/**
 * Parse one line of an update file into a tagged record.
 * Unknown shapes (state changes, keepalives, truncated lines) are record_other.
 */
func parse_update_record (line string) Mrt_record {
    s := strings.Split (strings.TrimRight (line, "\n"), "|")
    if len (s) < 6 {
        return Mrt_record{kind: record_other}
    }

    seconds, err := strconv.ParseFloat (s[1], 64)
    if err != nil {
        return Mrt_record{kind: record_other}
    }
    // Updates carry sub-second timestamps, keep them
    whole := math.Floor (seconds)
    ts := time.Unix (int64 (whole), int64 ((seconds-whole)*1e9)).UTC ()

    if s[2] == "W" && len (s) == 6 {
        return Mrt_record{
            kind: record_withdrawal,
            ts: ts,
            peer_ip: s[3],
            pfx: s[5],
        }
    }

    if s[2] == "A" && len (s) == 15 {
        peer_asn, err := strconv.Atoi (s[4])
        if err != nil {
            return Mrt_record{kind: record_other}
        }
        return Mrt_record{
            kind: record_announcement,
            ts: ts,
            peer_ip: s[3],
            peer_asn: peer_asn,
            pfx: s[5],
            as_path: s[6],
        }
    }

    return Mrt_record{kind: record_other}
}

/**
 * Parse one line of a RIB dump into a tagged record.
 * Only fields [3..6] are of interest here.
 */
func parse_rib_record (line string) (Mrt_record, error) {
    s := strings.Split (strings.TrimRight (line, "\n"), "|")
    if len (s) < 7 {
        return Mrt_record{kind: record_other}, errors.New ("[parse_rib_record]: short record: " + line)
    }
    peer_asn, err := strconv.Atoi (s[4])
    if err != nil {
        return Mrt_record{kind: record_other}, errors.New ("[parse_rib_record]: bad peer asn: " + s[4])
    }
    return Mrt_record{
        kind: record_rib,
        peer_ip: s[3],
        peer_asn: peer_asn,
        pfx: s[5],
        as_path: s[6],
    }, nil
}

/* ------------------------------------------------- *\
            AS path sanitization
\* ------------------------------------------------- */

/**
 * Sanitize an AS path field against the announcing peer's ASN.
 * - every token must parse as a non-negative integer (AS sets '{..}' do not)
 * - runs of consecutive equal ASNs are collapsed (prepending compression)
 * - the collapsed path must have length >= 2 and start with the peer's ASN
 */
func sanitize_path (as_path string, peer_asn int) ([]int, error) {
    tokens := strings.Fields (as_path)

    path := make ([]int, 0, len (tokens))
    prev := -1
    for _, token := range tokens {
        asn, err := strconv.Atoi (token)
        if err != nil || asn < 0 {
            return nil, errors.New ("[sanitize_path]: malformed token: " + token)
        }
        if asn != prev {
            path = append (path, asn)
        }
        prev = asn
    }

    if len (path) < 2 || path[0] != peer_asn {
        return nil, errors.New ("[sanitize_path]: invalid path: " + as_path)
    }
    return path, nil
}

/* ------------------------------------------------- *\
            MRT decoder subprocess
\* ------------------------------------------------- */

/**
 * MrtReader hands the (cached) bytes of a RIB or update file to the
 * external decoder through a uniquely-named temporary file, and exposes
 * the decoder's stdout as a line scanner.
 */
type MrtReader struct {
    url string;
    session *CachedSession;
    tmp_path string;
    cmd *exec.Cmd;
    stdout io.ReadCloser
}

func NewMrtReader (session *CachedSession, url string) *MrtReader {
    return &MrtReader{
        url: url,
        session: session,
    }
}

func (r *MrtReader) Open () error {
    content, _, err := r.session.get (r.url)
    if err != nil {
        return err
    }

    tmp, err := os.CreateTemp ("", "quickrib-*"+path.Ext (r.url))
    if err != nil {
        return errors.New ("[MrtReader.Open]: " + err.Error ())
    }
    if _, err = tmp.Write (content); err != nil {
        tmp.Close ()
        os.Remove (tmp.Name ())
        return errors.New ("[MrtReader.Open]: " + err.Error ())
    }
    tmp.Close () // Always flush
    r.tmp_path = tmp.Name ()

    r.cmd = exec.Command ("bgpdump", "-m", "-v", r.tmp_path)
    r.stdout, err = r.cmd.StdoutPipe ()
    if err != nil {
        os.Remove (r.tmp_path)
        return errors.New ("[MrtReader.Open]: " + err.Error ())
    }
    return nil
}

func (r *MrtReader) Scanner () *bufio.Scanner {
    return bufio.NewScanner (r.stdout)
}

/**
 * Starts the decoder and waits until its output has been fully processed.
 * The done channel is to receive a signal when the processing of the output is
 * completed (which is different from the command being completed).
 * Returns true if no errors, false otherwise.
 */
func (r *MrtReader) start_and_wait (done chan struct{}) bool {
    err := r.cmd.Start () // Non blocking
    if err != nil {
        log.Print ("[start_and_wait]: Start: " + err.Error ())
        return false
    }

    <-done // Wait for the whole file to be processed

    err = r.cmd.Wait () // Wait for the command to finish
    if err != nil {
        log.Print ("[start_and_wait]: Wait: " + err.Error ())
        return false
    }
    return true
}

func (r *MrtReader) Close () {
    if r.tmp_path != "" {
        os.Remove (r.tmp_path)
    }
}
