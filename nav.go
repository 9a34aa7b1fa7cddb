// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package gnsseph

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/exp/slices"
)

// Structure to store navigation data for each satellite
// - Map with satellite name as Key and slice sorted by transmission time (Tot) in ascending order as Value
type Nav map[SatType][]*KeplerEphe

// Maximum distance between the requested time and Toe [s]
func maxDtoe(sys SysType) float64 {
	switch sys {
	case 'E':
		return 14400 // Following RTKLIB's MAXDTOE_GAL
	case 'C':
		return 21601 // Following RTKLIB's MAXDTOE_CMP
	default:
		return 7201
	}
}

// Select the ephemeris whose Toe is closest to gt within the system's age limit
func (nav Nav) GetEphe(sat SatType, gt GTime) (*KeplerEphe, error) {
	navs, ok := nav[sat]
	if !ok {
		return nil, fmt.Errorf("can't find %s", sat)
	}
	diffMax := maxDtoe(sat.Sys())
	j := -1
	for i, eph := range navs {
		d := eph.ToeTime().Sub(gt)
		// For GALILEO, future ToE is not allowed (RTKLIB does this)
		if sat.Sys() == 'E' && d >= 0 {
			continue
		}
		if math.Abs(d) < diffMax {
			diffMax = math.Abs(d)
			j = i
		}
	}
	if j < 0 {
		return nil, fmt.Errorf("can't find a valid ephemeris for %s", sat)
	}
	return navs[j], nil
}

// Satellites in the navigation data, sorted
func (nav Nav) Sats() []SatType {
	keys := make([]SatType, 0, len(nav))
	for k := range nav {
		keys = append(keys, k)
	}
	return Sorted(keys)
}

// Display navigation data overview
func (nav Nav) String() string {
	var sb strings.Builder
	sb.WriteString("toe:\n")
	for _, sat := range nav.Sats() {
		sb.WriteString(fmt.Sprintf("\t%s: ", sat))
		if n := len(nav[sat]); n > 0 {
			st := nav[sat][0].ToeTime()
			et := nav[sat][n-1].ToeTime()
			sb.WriteString(fmt.Sprintf("%s - %s (%d)\n",
				st.ToTime().UTC().Format("2006/01/02 15:04:05.000"), et.ToTime().UTC().Format("2006/01/02 15:04:05.000"), n))
		} else {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

//-------------------------------------------------------------------
// NavStore
//-------------------------------------------------------------------

// Current ephemeris per satellite, safe for concurrent use.
// Records are copied on Publish and handed out through atomic pointers,
// so a reader always sees either the previous or the new record in full.
type NavStore struct {
	mu   sync.RWMutex // guards the map only
	sats map[SatType]*atomic.Pointer[KeplerEphe]
}

func NewNavStore() *NavStore {
	return &NavStore{sats: map[SatType]*atomic.Pointer[KeplerEphe]{}}
}

func (s *NavStore) slot(sat SatType) *atomic.Pointer[KeplerEphe] {
	s.mu.RLock()
	p, ok := s.sats[sat]
	s.mu.RUnlock()
	if ok {
		return p
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok = s.sats[sat]; !ok {
		p = &atomic.Pointer[KeplerEphe]{}
		s.sats[sat] = p
	}
	return p
}

// Make a copy of eph the current record of its satellite.
// Older sets (by Toe) are ignored; a set with the same Toe replaces the current one only when its IODE differs.
func (s *NavStore) Publish(eph *KeplerEphe) bool {
	cp := *eph
	p := s.slot(cp.Sat)
	for {
		cur := p.Load()
		if cur != nil {
			d := cp.ToeTime().Sub(cur.ToeTime())
			if d < 0 || (d == 0 && cp.Iode == cur.Iode) {
				return false
			}
		}
		if p.CompareAndSwap(cur, &cp) {
			return true
		}
	}
}

// Current record of sat. The returned record must be treated as read-only.
func (s *NavStore) Current(sat SatType) (*KeplerEphe, bool) {
	s.mu.RLock()
	p, ok := s.sats[sat]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	eph := p.Load()
	return eph, eph != nil
}

// Satellites holding a record, sorted
func (s *NavStore) Sats() []SatType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]SatType, 0, len(s.sats))
	for k, p := range s.sats {
		if p.Load() != nil {
			keys = append(keys, k)
		}
	}
	return Sorted(keys)
}

// Publish, for every satellite in nav (or only those in sats when given), the ephemeris valid at gt.
// Returns the number of satellites whose record changed.
func (s *NavStore) Load(nav Nav, gt GTime, sats []SatType) int {
	cnt := 0
	for _, sat := range nav.Sats() {
		if len(sats) > 0 && !slices.Contains(sats, sat) {
			continue
		}
		eph, err := nav.GetEphe(sat, gt)
		if err != nil {
			PrintD(2, "%s\n", err.Error())
			continue
		}
		if s.Publish(eph) {
			cnt++
		}
	}
	return cnt
}
