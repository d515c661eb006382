/* ============================================================= *\
   update_count_observer.go

   Counts the updates applied to the routing state, per collector
   and per peer. RIB-load events are not counted.
\* ============================================================= */

package main

import (
    "encoding/json"
    "log"
    "time"
)

type UpdateCountObserver struct {
    Base_observer
    n_updates map[string]int
    n_withdrawals_ipv4 map[string]int
    n_withdrawals_ipv6 map[string]int
    n_announcements_ipv4 map[string]int
    n_announcements_ipv6 map[string]int
    n_updates_per_peer map[string]map[string]int
}

func NewUpdateCountObserver (name, output_dir string) *UpdateCountObserver {
    return &UpdateCountObserver{
        Base_observer: new_base_observer (name, output_dir),
        n_updates: make (map[string]int),
        n_withdrawals_ipv4: make (map[string]int),
        n_withdrawals_ipv6: make (map[string]int),
        n_announcements_ipv4: make (map[string]int),
        n_announcements_ipv6: make (map[string]int),
        n_updates_per_peer: make (map[string]map[string]int),
    }
}

func (o *UpdateCountObserver) count (rc, peer_ip string) {
    o.n_updates[rc]++
    if _, present := o.n_updates_per_peer[rc]; ! present {
        o.n_updates_per_peer[rc] = make (map[string]int)
    }
    o.n_updates_per_peer[rc][peer_ip]++
}

func (o *UpdateCountObserver) update_withdrawal_ipv4 (rc, peer_ip, pfx string, path []int) {
    o.count (rc, peer_ip)
    o.n_withdrawals_ipv4[rc]++
}

func (o *UpdateCountObserver) update_withdrawal_ipv6 (rc, peer_ip, pfx string, path []int) {
    o.count (rc, peer_ip)
    o.n_withdrawals_ipv6[rc]++
}

func (o *UpdateCountObserver) update_announcement_ipv4 (rc, peer_ip, pfx string, new_path, old_path []int) {
    o.count (rc, peer_ip)
    o.n_announcements_ipv4[rc]++
}

func (o *UpdateCountObserver) update_announcement_ipv6 (rc, peer_ip, pfx string, new_path, old_path []int) {
    o.count (rc, peer_ip)
    o.n_announcements_ipv6[rc]++
}

func (o *UpdateCountObserver) dump (ts time.Time) {
    serializable := struct {
        NUpdates map[string]int `json:"n_updates"`
        NWithdrawalsIpv4 map[string]int `json:"n_withdrawals_ipv4"`
        NWithdrawalsIpv6 map[string]int `json:"n_withdrawals_ipv6"`
        NAnnouncementsIpv4 map[string]int `json:"n_announcements_ipv4"`
        NAnnouncementsIpv6 map[string]int `json:"n_announcements_ipv6"`
        NUpdatesPerPeer map[string]map[string]int `json:"n_updates_per_peer"`
    }{
        NUpdates: o.n_updates,
        NWithdrawalsIpv4: o.n_withdrawals_ipv4,
        NWithdrawalsIpv6: o.n_withdrawals_ipv6,
        NAnnouncementsIpv4: o.n_announcements_ipv4,
        NAnnouncementsIpv6: o.n_announcements_ipv6,
        NUpdatesPerPeer: o.n_updates_per_peer,
    }

    filepath := o.output_dir + "/" + o.name + "." + ts.Format (o.time_fmt) + ".json"
    content, err := json.Marshal (serializable)
    if err != nil {
        log.Print ("[UpdateCountObserver.dump]: " + err.Error ())
        return
    }
    w, file := new_bufio_writer (filepath)
    defer file.Close ()
    w.Write (content)
    w.Flush ()
}
