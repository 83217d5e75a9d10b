/*-
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package classify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

// Status is one decoded status snapshot indexed by peer address.
type Status struct {
	peers map[string]peerEntry
}

type peerEntry struct {
	snapshot *models.PeerStatusSnapshot
	err      error
}

type rawStatus struct {
	Peer json.RawMessage `json:"Peer"`
}

type rawPeer struct {
	TailscaleIPs []string `json:"TailscaleIPs"`
	Online       *bool    `json:"Online"`
	Active       bool     `json:"Active"`
	CurAddr      string   `json:"CurAddr"`
	PeerRelay    string   `json:"PeerRelay"`
	Relay        string   `json:"Relay"`
	LastSeen     string   `json:"LastSeen"`
	HostName     string   `json:"HostName"`
	DNSName      string   `json:"DNSName"`
}

type rawAddrs struct {
	TailscaleIPs []string `json:"TailscaleIPs"`
}

// ParseStatus decodes the JSON form of a status read.
func ParseStatus(raw []byte) (*Status, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &ParseError{Reason: "empty payload"}
	}

	var doc rawStatus
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Reason: "invalid json", Err: err}
	}

	st := &Status{peers: make(map[string]peerEntry)}

	if len(doc.Peer) == 0 || bytes.Equal(bytes.TrimSpace(doc.Peer), []byte("null")) {
		return st, nil
	}

	var peers map[string]json.RawMessage
	if err := json.Unmarshal(doc.Peer, &peers); err != nil {
		return nil, &ParseError{Reason: "peer map has wrong shape", Err: err}
	}

	for key, body := range peers {
		st.add(key, body)
	}

	return st, nil
}

func (s *Status) add(key string, body json.RawMessage) {
	var addrs rawAddrs
	if err := json.Unmarshal(body, &addrs); err != nil {
		// no usable address means the entry can never be matched to a node
		return
	}

	entry := peerEntry{}

	var p rawPeer
	if err := json.Unmarshal(body, &p); err != nil {
		entry.err = &ParseError{Reason: fmt.Sprintf("peer %s", key), Err: err}
	} else {
		entry.snapshot = p.snapshot()
	}

	for _, addr := range addrs.TailscaleIPs {
		s.peers[stripPrefix(addr)] = entry
	}
}

func (p *rawPeer) snapshot() *models.PeerStatusSnapshot {
	return &models.PeerStatusSnapshot{
		Online:    p.Online,
		Active:    p.Active,
		CurAddr:   strings.TrimSpace(p.CurAddr),
		PeerRelay: strings.TrimSpace(p.PeerRelay),
		Relay:     strings.TrimSpace(p.Relay),
		LastSeen:  parseLastSeen(p.LastSeen),
		HostName:  p.HostName,
		DNSName:   p.DNSName,
	}
}

// Peer returns the snapshot for ip, ErrPeerNotFound when the peer is absent,
// or a ParseError when its entry was malformed.
func (s *Status) Peer(ip string) (*models.PeerStatusSnapshot, error) {
	entry, ok := s.peers[stripPrefix(ip)]
	if !ok {
		return nil, ErrPeerNotFound
	}

	if entry.err != nil {
		return nil, entry.err
	}

	return entry.snapshot, nil
}

func stripPrefix(addr string) string {
	addr = strings.TrimSpace(addr)
	if i := strings.IndexByte(addr, '/'); i >= 0 {
		return addr[:i]
	}

	return addr
}

func parseLastSeen(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil || t.Year() <= 1 {
		return time.Time{}
	}

	return t.UTC()
}
