// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package gnsseph

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

var (
	ErrInvalidParameter = errors.New("invalid keplerian ephemeris parameter")
	ErrInvalidEphemeris = errors.New("invalid keplerian ephemeris")
)

// Broadcast Keplerian ephemeris (orbit and clock parameters for one satellite, one issue)
// - Angles are in radians, Toe and Toc are seconds of GPS week
// - A record must not be modified once it is handed to readers; publish a new one instead
type KeplerEphe struct {
	Sat SatType

	// Issue of data
	Iode int // Issue of data, ephemeris
	Iodc int // Issue of data, clock

	// Time references
	Toe float64 // Time of ephemeris [s]
	Toc float64 // Time of clock [s]

	// Clock polynomial
	Tgd float64 // Group delay [s]
	Af0 float64 // Clock bias [s]
	Af1 float64 // Clock drift [s/s]
	Af2 float64 // Clock drift rate [s/s^2]

	// Orbital elements
	Ecc    float64 // Eccentricity
	SqrtA  float64 // Square root of semi-major axis [m^(1/2)]
	DeltaN float64 // Mean motion difference [rad/s]
	M0     float64 // Mean anomaly at Toe [rad]
	Omega0 float64 // Longitude of ascending node at weekly epoch [rad]
	Omega  float64 // Argument of perigee [rad]
	OmegaD float64 // Rate of right ascension [rad/s]
	I0     float64 // Inclination at Toe [rad]
	Idot   float64 // Rate of inclination [rad/s]

	// Second harmonic corrections
	Cuc float64 // Argument of latitude, cosine [rad]
	Cus float64 // Argument of latitude, sine [rad]
	Crc float64 // Orbit radius, cosine [m]
	Crs float64 // Orbit radius, sine [m]
	Cic float64 // Inclination, cosine [rad]
	Cis float64 // Inclination, sine [rad]

	// Quality
	Ura    int // URA index (SISA index for Galileo)
	Health int // Satellite health

	// Filled by the RINEX reader
	Week int     // GPS week of Toe
	Tot  GTime   // Transmission time
	Fit  float64 // Fit interval [h]
	Code int     // Codes on L2 / data sources
}

// Field accessors by parameter name (lower case)
type epheParam struct {
	set func(*KeplerEphe, float64)
	get func(*KeplerEphe) float64
}

var epheParams = map[string]epheParam{
	"iode":     {func(e *KeplerEphe, v float64) { e.Iode = int(v) }, func(e *KeplerEphe) float64 { return float64(e.Iode) }},
	"iodc":     {func(e *KeplerEphe, v float64) { e.Iodc = int(v) }, func(e *KeplerEphe) float64 { return float64(e.Iodc) }},
	"toe":      {func(e *KeplerEphe, v float64) { e.Toe = v }, func(e *KeplerEphe) float64 { return e.Toe }},
	"toc":      {func(e *KeplerEphe, v float64) { e.Toc = v }, func(e *KeplerEphe) float64 { return e.Toc }},
	"tgd":      {func(e *KeplerEphe, v float64) { e.Tgd = v }, func(e *KeplerEphe) float64 { return e.Tgd }},
	"af2":      {func(e *KeplerEphe, v float64) { e.Af2 = v }, func(e *KeplerEphe) float64 { return e.Af2 }},
	"af1":      {func(e *KeplerEphe, v float64) { e.Af1 = v }, func(e *KeplerEphe) float64 { return e.Af1 }},
	"af0":      {func(e *KeplerEphe, v float64) { e.Af0 = v }, func(e *KeplerEphe) float64 { return e.Af0 }},
	"e":        {func(e *KeplerEphe, v float64) { e.Ecc = v }, func(e *KeplerEphe) float64 { return e.Ecc }},
	"sqrta":    {func(e *KeplerEphe, v float64) { e.SqrtA = v }, func(e *KeplerEphe) float64 { return e.SqrtA }},
	"deltan":   {func(e *KeplerEphe, v float64) { e.DeltaN = v }, func(e *KeplerEphe) float64 { return e.DeltaN }},
	"m0":       {func(e *KeplerEphe, v float64) { e.M0 = v }, func(e *KeplerEphe) float64 { return e.M0 }},
	"omega0":   {func(e *KeplerEphe, v float64) { e.Omega0 = v }, func(e *KeplerEphe) float64 { return e.Omega0 }},
	"omega":    {func(e *KeplerEphe, v float64) { e.Omega = v }, func(e *KeplerEphe) float64 { return e.Omega }},
	"omegadot": {func(e *KeplerEphe, v float64) { e.OmegaD = v }, func(e *KeplerEphe) float64 { return e.OmegaD }},
	"i0":       {func(e *KeplerEphe, v float64) { e.I0 = v }, func(e *KeplerEphe) float64 { return e.I0 }},
	"idot":     {func(e *KeplerEphe, v float64) { e.Idot = v }, func(e *KeplerEphe) float64 { return e.Idot }},
	"cuc":      {func(e *KeplerEphe, v float64) { e.Cuc = v }, func(e *KeplerEphe) float64 { return e.Cuc }},
	"cus":      {func(e *KeplerEphe, v float64) { e.Cus = v }, func(e *KeplerEphe) float64 { return e.Cus }},
	"cic":      {func(e *KeplerEphe, v float64) { e.Cic = v }, func(e *KeplerEphe) float64 { return e.Cic }},
	"cis":      {func(e *KeplerEphe, v float64) { e.Cis = v }, func(e *KeplerEphe) float64 { return e.Cis }},
	"crc":      {func(e *KeplerEphe, v float64) { e.Crc = v }, func(e *KeplerEphe) float64 { return e.Crc }},
	"crs":      {func(e *KeplerEphe, v float64) { e.Crs = v }, func(e *KeplerEphe) float64 { return e.Crs }},
	"ura":      {func(e *KeplerEphe, v float64) { e.Ura = int(v) }, func(e *KeplerEphe) float64 { return float64(e.Ura) }},
	"health":   {func(e *KeplerEphe, v float64) { e.Health = int(v) }, func(e *KeplerEphe) float64 { return float64(e.Health) }},
}

func lookupParam(name string) (epheParam, error) {
	p, ok := epheParams[strings.ToLower(name)]
	if !ok {
		return epheParam{}, fmt.Errorf("%w: %q", ErrInvalidParameter, name)
	}
	return p, nil
}

// Names accepted by SetParam, sorted
func ParamNames() []string {
	names := make([]string, 0, len(epheParams))
	for k := range epheParams {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Update one field by its parameter name (case-insensitive).
// An unknown name leaves the record untouched and returns an error wrapping ErrInvalidParameter.
func (e *KeplerEphe) SetParam(name string, v float64) error {
	p, err := lookupParam(name)
	if err != nil {
		return err
	}
	p.set(e, v)
	return nil
}

// Update several fields at once. All names are checked before any field is written.
func (e *KeplerEphe) UpdateParams(params map[string]float64) error {
	ps := make(map[string]epheParam, len(params))
	for name := range params {
		p, err := lookupParam(name)
		if err != nil {
			return err
		}
		ps[name] = p
	}
	for name, p := range ps {
		p.set(e, params[name])
	}
	return nil
}

// Read one field by its parameter name (case-insensitive)
func (e *KeplerEphe) Param(name string) (float64, error) {
	p, err := lookupParam(name)
	if err != nil {
		return 0, err
	}
	return p.get(e), nil
}

// Check the orbital invariants the propagator relies on
func (e *KeplerEphe) Validate() error {
	if e.Ecc < 0 || e.Ecc >= 1 {
		return fmt.Errorf("%w: %s eccentricity out of range (e=%g)", ErrInvalidEphemeris, e.Sat, e.Ecc)
	}
	if e.SqrtA <= 0 {
		return fmt.Errorf("%w: %s non-positive sqrtA (%g)", ErrInvalidEphemeris, e.Sat, e.SqrtA)
	}
	return nil
}

func (e *KeplerEphe) Healthy() bool {
	return e.Health == 0
}

// Toe as GPS time
func (e *KeplerEphe) ToeTime() GTime {
	return GTime{Week: e.Week, Sec: e.Toe}
}

// Toe in the satellite system's own time of week [s]. BeiDou broadcasts Toe in BDT.
func (e *KeplerEphe) SysToe() float64 {
	if e.Sat.Sys() != 'C' {
		return e.Toe
	}
	t := e.Toe - BDT_GPST
	if t < 0 {
		t += WEEK
	}
	return t
}

// User range accuracy variance [m^2] from the URA (or Galileo SISA) index
func (e *KeplerEphe) UraVariance() float64 {
	uraVal := [...]float64{2.4, 3.4, 4.85, 6.85, 9.65, 13.65, 24.0, 48.0, 96.0, 192.0, 384.0, 768.0, 1536.0, 3072.0, 6144.0}
	ura := e.Ura
	switch e.Sat.Sys() {
	case 'E': // Galileo SIS ICD v2.1
		if ura < 0 {
			return SQ(500.0)
		} else if ura <= 49 {
			return SQ(float64(ura) * 0.01)
		} else if ura <= 74 {
			return SQ(0.5 + (float64(ura)-50)*0.02)
		} else if ura <= 99 {
			return SQ(1.0 + (float64(ura)-75)*0.04)
		} else if ura <= 125 {
			return SQ(2.0 + (float64(ura)-100)*0.16)
		} else {
			return SQ(500.0)
		}
	default:
		if ura < 0 || ura > 14 {
			return SQ(6144.0)
		} else {
			return SQ(uraVal[ura])
		}
	}
}

func (e *KeplerEphe) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("### Nav. for %s (%c, %d)\n", e.Sat, e.Sat.Sys(), e.Sat.Num()))
	sb.WriteString(fmt.Sprintf("   Week: %v\n", e.Week))
	sb.WriteString(fmt.Sprintf("    Toe: %v\n", e.Toe))
	sb.WriteString(fmt.Sprintf("    Toc: %v\n", e.Toc))
	sb.WriteString(fmt.Sprintf("    Tot: %v (%v)\n", e.Tot.ToTime().UTC(), e.Tot))
	sb.WriteString(fmt.Sprintf("   Iode: %v\n", e.Iode))
	sb.WriteString(fmt.Sprintf("   Iodc: %v\n", e.Iodc))
	sb.WriteString(fmt.Sprintf("    Af0: %v\n", e.Af0))
	sb.WriteString(fmt.Sprintf("    Af1: %v\n", e.Af1))
	sb.WriteString(fmt.Sprintf("    Af2: %v\n", e.Af2))
	sb.WriteString(fmt.Sprintf("    Tgd: %v\n", e.Tgd))
	sb.WriteString(fmt.Sprintf("    Ecc: %v\n", e.Ecc))
	sb.WriteString(fmt.Sprintf("  SqrtA: %v\n", e.SqrtA))
	sb.WriteString(fmt.Sprintf(" DeltaN: %v\n", e.DeltaN))
	sb.WriteString(fmt.Sprintf("     M0: %v\n", e.M0))
	sb.WriteString(fmt.Sprintf(" Omega0: %v\n", e.Omega0))
	sb.WriteString(fmt.Sprintf("  Omega: %v\n", e.Omega))
	sb.WriteString(fmt.Sprintf(" OmegaD: %v\n", e.OmegaD))
	sb.WriteString(fmt.Sprintf("     I0: %v\n", e.I0))
	sb.WriteString(fmt.Sprintf("   Idot: %v\n", e.Idot))
	sb.WriteString(fmt.Sprintf("    Cuc: %v\n", e.Cuc))
	sb.WriteString(fmt.Sprintf("    Cus: %v\n", e.Cus))
	sb.WriteString(fmt.Sprintf("    Crc: %v\n", e.Crc))
	sb.WriteString(fmt.Sprintf("    Crs: %v\n", e.Crs))
	sb.WriteString(fmt.Sprintf("    Cic: %v\n", e.Cic))
	sb.WriteString(fmt.Sprintf("    Cis: %v\n", e.Cis))
	sb.WriteString(fmt.Sprintf("    Ura: %v\n", e.Ura))
	sb.WriteString(fmt.Sprintf(" Health: %v\n", e.Health))
	sb.WriteString(fmt.Sprintf("    Fit: %v\n", e.Fit))
	sb.WriteString(fmt.Sprintf("   Code: %v\n", e.Code))
	return sb.String()
}

//-------------------------------------------------------------------
// EpheBuilder
//-------------------------------------------------------------------

// Typed, field-by-field construction of a KeplerEphe
type EpheBuilder struct {
	e KeplerEphe
}

func NewEpheBuilder(sat SatType) *EpheBuilder {
	return &EpheBuilder{e: KeplerEphe{Sat: sat}}
}

// Return a copy of the record built so far; the builder stays usable
func (b *EpheBuilder) Build() *KeplerEphe {
	e := b.e
	return &e
}

func (b *EpheBuilder) Iode(v int) *EpheBuilder { b.e.Iode = v; return b }
func (b *EpheBuilder) Iodc(v int) *EpheBuilder { b.e.Iodc = v; return b }
func (b *EpheBuilder) Toe(v float64) *EpheBuilder { b.e.Toe = v; return b }
func (b *EpheBuilder) Toc(v float64) *EpheBuilder { b.e.Toc = v; return b }
func (b *EpheBuilder) Tgd(v float64) *EpheBuilder { b.e.Tgd = v; return b }
func (b *EpheBuilder) Af0(v float64) *EpheBuilder { b.e.Af0 = v; return b }
func (b *EpheBuilder) Af1(v float64) *EpheBuilder { b.e.Af1 = v; return b }
func (b *EpheBuilder) Af2(v float64) *EpheBuilder { b.e.Af2 = v; return b }
func (b *EpheBuilder) Ecc(v float64) *EpheBuilder { b.e.Ecc = v; return b }
func (b *EpheBuilder) SqrtA(v float64) *EpheBuilder { b.e.SqrtA = v; return b }
func (b *EpheBuilder) DeltaN(v float64) *EpheBuilder { b.e.DeltaN = v; return b }
func (b *EpheBuilder) M0(v float64) *EpheBuilder { b.e.M0 = v; return b }
func (b *EpheBuilder) Omega0(v float64) *EpheBuilder { b.e.Omega0 = v; return b }
func (b *EpheBuilder) Omega(v float64) *EpheBuilder { b.e.Omega = v; return b }
func (b *EpheBuilder) OmegaD(v float64) *EpheBuilder { b.e.OmegaD = v; return b }
func (b *EpheBuilder) I0(v float64) *EpheBuilder { b.e.I0 = v; return b }
func (b *EpheBuilder) Idot(v float64) *EpheBuilder { b.e.Idot = v; return b }
func (b *EpheBuilder) Cuc(v float64) *EpheBuilder { b.e.Cuc = v; return b }
func (b *EpheBuilder) Cus(v float64) *EpheBuilder { b.e.Cus = v; return b }
func (b *EpheBuilder) Crc(v float64) *EpheBuilder { b.e.Crc = v; return b }
func (b *EpheBuilder) Crs(v float64) *EpheBuilder { b.e.Crs = v; return b }
func (b *EpheBuilder) Cic(v float64) *EpheBuilder { b.e.Cic = v; return b }
func (b *EpheBuilder) Cis(v float64) *EpheBuilder { b.e.Cis = v; return b }
func (b *EpheBuilder) Ura(v int) *EpheBuilder { b.e.Ura = v; return b }
func (b *EpheBuilder) Health(v int) *EpheBuilder { b.e.Health = v; return b }
func (b *EpheBuilder) Week(v int) *EpheBuilder { b.e.Week = v; return b }
func (b *EpheBuilder) Tot(v GTime) *EpheBuilder { b.e.Tot = v; return b }
func (b *EpheBuilder) Fit(v float64) *EpheBuilder { b.e.Fit = v; return b }
func (b *EpheBuilder) Code(v int) *EpheBuilder { b.e.Code = v; return b }
