// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package gnsseph

import (
	"strconv"
)

// Type representing satellite name like "G10"
type SatType string

// Type representing satellite system like 'G'
type SysType byte

// Extract satellite system from satellite name
func (p SatType) Sys() SysType {
	if len(p) == 0 {
		return 0
	}
	return SysType(p[0])
}

// Check validity of satellite system
func (p SysType) IsValid() bool {
	return p == 'G' || p == 'J' || p == 'E' || p == 'R' || p == 'C' || p == 'S'
}

// Satellite systems broadcasting Keplerian ephemerides
func (p SysType) IsKeplerian() bool {
	return p == 'G' || p == 'J' || p == 'E' || p == 'C'
}

// BeiDou geostationary satellites (C01-C05, C59-C63)
func (p SatType) IsBeidouGEO() bool {
	n := p.Num()
	return p.Sys() == 'C' && n > 0 && (n <= 5 || n >= 59)
}

// Extract satellite number from satellite name
func (p SatType) Num() int {
	if len(p) < 3 {
		return 0
	}
	i, err := strconv.Atoi(string(p[1:3]))
	if err != nil {
		return 0
	}
	return i
}
