/* ==================================================================================== *\
    args.go

    Program arguments handling
\* ==================================================================================== */

package main

import (
  "flag"
  "os"
)

/**
 * Handle the args for the reconstruction (also used by the urls dry-run mode).
 * Defaults reproduce the default collection configuration.
 */
func handle_args_reconstruct (args []string) (_output_dir, _output_filename, _date_range, _collectors,
                                              _peer_asns, _peer_ips string, _interval int, _time_fmt string, _overlays bool) {
  if len (args) <= 0 {
    println ("Missing arguments")
    os.Exit (-1)
  }
  cmd := flag.NewFlagSet(args[0], flag.ExitOnError)

  cmd.StringVar(&_output_dir, "o", "./data", "The output directory where data will be dumped to")
  cmd.StringVar(&_output_filename, "f", "default_conf", "output files directory and base name (time and extension will be appended)")
  cmd.StringVar(&_date_range, "d", "20100901.0000,20100901.0200", "<start>,<end> process records within the given time window (end is inclusive)")
  cmd.StringVar(&_collectors, "c", "route-views.sydney,route-views.wide", "comma-separated collectors, or @file with one collector per line")
  cmd.IntVar(&_interval, "i", 900, "observers dump frequency, in seconds")
  cmd.StringVar(&_peer_asns, "j", "", "process records from only the given peer asns (comma-separated or @file)")
  cmd.StringVar(&_peer_ips, "k", "", "process records from only the given peer ips (comma-separated or @file)")
  cmd.StringVar(&_time_fmt, "l", "20060102.1504", "time format (Go reference layout) for parsing date_range and formatting output")
  cmd.BoolVar (&_overlays, "overlays", false, "also attach the prefix overlay observer")

  cmd.Parse(args[1:])
  return
}
