/* ============================================================= *\
   observer.go

   Observer interface and base implementation.
   Observers are attached to a RIBTable and get notified of every
   mutation of the routing state, from which they maintain their
   own aggregates, periodically dumped to file.
\* ============================================================= */

package main

import (
    "time"
)

/**
 * The full capability set of an observer.
 * - add_path_ipv4/6: a path was installed while building the initial RIB
 * - update_withdrawal_ipv4/6: an installed path was withdrawn
 * - update_announcement_ipv4/6: a path was announced; old_path is nil when
 *   the peer had no prior entry for the prefix, and carries the replaced
 *   path otherwise
 * - dump: write the observer aggregates for timestamp ts
 * - compare: diff against another observer of the same kind, typically a
 *   ground-truth one, logging reconstruction errors
 *
 * Base_observer leaves every method inert; concrete observers embed it and
 * override what they need.
 */
type Observer interface {
    get_name () string
    add_path_ipv4 (rc, peer_ip, pfx string, path []int)
    add_path_ipv6 (rc, peer_ip, pfx string, path []int)
    update_withdrawal_ipv4 (rc, peer_ip, pfx string, path []int)
    update_withdrawal_ipv6 (rc, peer_ip, pfx string, path []int)
    update_announcement_ipv4 (rc, peer_ip, pfx string, new_path, old_path []int)
    update_announcement_ipv6 (rc, peer_ip, pfx string, new_path, old_path []int)
    dump (ts time.Time)
    compare (other Observer)
}

type Base_observer struct {
    name string;
    output_dir string;
    time_fmt string
}

func new_base_observer (name, output_dir string) Base_observer {
    return Base_observer{
        name: name,
        output_dir: output_dir,
        time_fmt: "20060102.1504",
    }
}

func (o *Base_observer) get_name () string {
    return o.name
}

func (o *Base_observer) add_path_ipv4 (rc, peer_ip, pfx string, path []int) {}

func (o *Base_observer) add_path_ipv6 (rc, peer_ip, pfx string, path []int) {}

func (o *Base_observer) update_withdrawal_ipv4 (rc, peer_ip, pfx string, path []int) {}

func (o *Base_observer) update_withdrawal_ipv6 (rc, peer_ip, pfx string, path []int) {}

func (o *Base_observer) update_announcement_ipv4 (rc, peer_ip, pfx string, new_path, old_path []int) {}

func (o *Base_observer) update_announcement_ipv6 (rc, peer_ip, pfx string, new_path, old_path []int) {}

func (o *Base_observer) dump (ts time.Time) {}

func (o *Base_observer) compare (other Observer) {}
