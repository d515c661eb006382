/* ============================================================= *\
   readers.go

   - Reader for possibly-compressed local text files
     (collectors and allowlist files).
   - Misc functions to read list arguments.
\* ============================================================= */
package main

import (
  "strings"
  "bufio"
  "io"
  "os"
  "errors"
  bzip2 "github.com/dsnet/compress/bzip2"
  gzip "github.com/klauspost/compress/gzip")

/* ------------------------------------------------------- *\
 *               Compressed File Reader
\* ------------------------------------------------------- */

type CompressedReader struct{
  filename string;
  fp io.ReadCloser;
  decompressed io.Reader;
  to_close io.ReadCloser;
}

func NewCompressedReader (filename string) *CompressedReader {
  return &CompressedReader{
    filename: filename,
  }
}

func (r *CompressedReader) Open () error {
  var err error
  r.fp, err = os.Open(r.filename) // Read only
  if err != nil {
    return errors.New ("[CompressedReader]: " + err.Error() + " " + r.filename)
  }

  if strings.HasSuffix(r.filename, ".gz") {
    r.to_close,_ = gzip.NewReader (r.fp)
    r.decompressed = r.to_close
  } else if strings.HasSuffix (r.filename, ".bz2"){
    r.to_close,_ = bzip2.NewReader (r.fp, nil)
    r.decompressed = r.to_close
  } else {
    r.decompressed = r.fp
  }
  return nil
}

func (r *CompressedReader) Scanner () *bufio.Scanner {
  return bufio.NewScanner(r.decompressed)
}

func (r *CompressedReader) Close () {
  r.fp.Close ()
  if r.to_close != nil {
    r.to_close.Close ()
  }
}

/* ------------------------------------------------------- *\
 *                          Misc.
\* ------------------------------------------------------- */

/**
 * Returns the lines of a newline-delimited file, selecting the corresponding field.
 */
func read_newline_delimited_file (filename string, field int) ([]string, error) {
  r := NewCompressedReader (filename)
  err := r.Open ()
  if err != nil {
    return []string{}, err
  }
  scanner := r.Scanner ()
  defer r.Close ()

  s := make ([]string, 0, 43)
  for scanner.Scan () {
    fields := strings.Fields (scanner.Text ())
    if len (fields) > field {
      s = append (s, fields[field])
    }
  }
  return s, nil
}

/**
 * Reads a list argument: either a comma-separated list, or,
 * with a leading '@', a newline-delimited (possibly compressed) file.
 */
func read_list_arg (arg string) ([]string, error) {
  if strings.HasPrefix (arg, "@") {
    return read_newline_delimited_file (arg[1:], 0)
  }
  return split_comma_list (arg), nil
}
