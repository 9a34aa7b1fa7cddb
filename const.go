// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package gnsseph

import "math"

const (
	PI        = 3.1415926535897932  // Pi
	TWO_PI    = 2.0 * PI            // 2 Pi
	C         = 2.99792458e8        // Speed of light [m/s]
	Re        = 6378137.0           // Earth's radius [m]
	Fe        = 1.0 / 298.257223563 // Earth's flattening
	LS        = 18                  // Leap seconds
	WEEK      = 604800.0            // Seconds per GPS week [s]
	HALF_WEEK = 302400.0            // Half a GPS week [s]
	BDT_GPST  = 14                  // GPST - BDT [s]
	SIN_5     = -0.0871557427476582 // sin(-5 deg)
	COS_5     = 0.9961946980917456  // cos(-5 deg)
)

// Physical constants consumed by the Keplerian propagator.
// One value per constellation; never modified after construction.
type Constants struct {
	GM     float64 // Earth gravitational constant [m^3/s^2]
	Re     float64 // Earth equatorial radius [m]
	OmegaE float64 // Earth rotation angular velocity [rad/s]
	J2     float64 // Second zonal harmonic of the geopotential
	F      float64 // Relativistic correction coefficient, -2*sqrt(GM)/C^2 [s/m^(1/2)]
}

func relF(gm float64) float64 {
	return -2.0 * math.Sqrt(gm) / (C * C)
}

// IS-GPS-200 values (also used for QZSS)
func GPSConstants() Constants {
	return Constants{
		GM:     3.986005e14,
		Re:     6378137.0,
		OmegaE: 7.2921151467e-5,
		J2:     1.0826262e-3,
		F:      relF(3.986005e14),
	}
}

// Galileo OS SIS ICD values
func GalileoConstants() Constants {
	return Constants{
		GM:     3.986004418e14,
		Re:     6378137.0,
		OmegaE: 7.2921151467e-5,
		J2:     1.0826262e-3,
		F:      relF(3.986004418e14),
	}
}

// BeiDou (CGCS2000) values
func BeidouConstants() Constants {
	return Constants{
		GM:     3.986004418e14,
		Re:     6378137.0,
		OmegaE: 7.292115e-5,
		J2:     1.0826257e-3,
		F:      relF(3.986004418e14),
	}
}

// Select the constant set for a satellite system
func ConstantsFor(sys SysType) Constants {
	switch sys {
	case 'E':
		return GalileoConstants()
	case 'C':
		return BeidouConstants()
	default:
		return GPSConstants()
	}
}
