package main

import (
    "io"
    "log"
    "os"
)

func usage () {
    println ("\nUsage of quickrib:\n")
    println ("quickrib has several modes:")
    println ("  - reconstruct: warm start from archived RIB dumps and replay updates, dumping observers at a fixed cadence.")
    println ("  - urls: dry run, only print the archive urls that a reconstruction would download.\n")
    println ("Type")
    println ("  ./quickrib [mode] -h")
    println ("for further information on each mode.\n")
}

func main () {
    if len (os.Args) == 1 {
        usage ()
        return
    }
    switch command := os.Args[1]; command {

        /* --------------------------- *\
                RIB RECONSTRUCTION
        \* --------------------------- */
        case "reconstruct":
            launch_reconstruct (os.Args[1:], false)

        /* --------------------------- *\
                 URLS DRY RUN
        \* --------------------------- */
        case "urls":
            launch_reconstruct (os.Args[1:], true)

        case "-h":
            usage ()
        case "--help":
            usage ()
        default:
            log.Println("Unknown command:", command)
            log.Println("Type './quickrib -h' for help:")
    }
}

// --------------------------------------------------------------------------------
func launch_reconstruct (args []string, dry_run bool) {
    output_dir, output_filename, date_range, collectors_arg, peer_asns_arg, peer_ips_arg,
        interval, time_fmt, overlays := handle_args_reconstruct (args)

    if err := os.MkdirAll (output_dir, 0755); err != nil {
        log.Fatal ("[launch_reconstruct]: " + err.Error ())
    }

    /* --- Log to stdout and to the run's log file --- */
    log_file, err := os.OpenFile (output_dir + "/" + output_filename + ".log",
        os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
    if err != nil {
        log.Fatal ("[launch_reconstruct]: " + err.Error ())
    }
    defer log_file.Close ()
    log.SetFlags (log.LstdFlags)
    log.SetOutput (io.MultiWriter (os.Stdout, log_file))

    log.Println ("Started:", os.Args)

    collectors, err := read_list_arg (collectors_arg)
    if err != nil {
        log.Fatal ("[launch_reconstruct]: " + err.Error ())
    }
    peer_asns, err := read_list_arg (peer_asns_arg)
    if err != nil {
        log.Fatal ("[launch_reconstruct]: " + err.Error ())
    }
    peer_ips, err := read_list_arg (peer_ips_arg)
    if err != nil {
        log.Fatal ("[launch_reconstruct]: " + err.Error ())
    }

    session := new_cached_session (output_dir + "/.cache.sqlite")
    defer session.Close ()

    bgp_downloader := new_bgp_downloader (output_dir, output_filename, date_range,
        collectors, peer_asns, peer_ips, interval, session, time_fmt, overlays)

    if dry_run {
        bgp_downloader.set_urls ()
        for _, url := range bgp_downloader.urls () {
            println (url)
        }
        return
    }
    bgp_downloader.run ()
}
