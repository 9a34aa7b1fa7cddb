// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package gnsseph

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

// RINEX 3.04 specification
// https://files.igs.org/pub/data/format/rinex304.pdf
//

var (
	navTimeRe  = regexp.MustCompile(`^([GJERCS])([0-9 ][0-9]) (\d{4}) ([ \d]{2}) ([ \d]{2}) ([ \d]{2}) ([ \d]{2}) ([ \d]{2})`)
	navValueRe = regexp.MustCompile(`[- +\d]{2}\.\d{12}[DE][-+]\d{2}`)
)

// Extract HEADER LABEL string from header line
func getHeaderLabel(l string) string {
	if len(l) < 60 {
		return ""
	}
	return strings.TrimSpace(l[60:])
}

// Read satellite name and ToC from navigation data epoch line
func getNavTime(l string) (gt GTime, sat SatType, err error) {
	ms := navTimeRe.FindStringSubmatch(l)
	if ms == nil {
		return gt, sat, fmt.Errorf("regexp match failed. l=%s", l)
	}
	sys := SysType(ms[1][0])
	var v [7]int
	for i := range v {
		v[i], err = strconv.Atoi(strings.TrimSpace(ms[i+2]))
		if err != nil {
			return gt, sat, err
		}
	}
	sat = SatType(fmt.Sprintf("%c%02d", sys, v[0]))
	if sys == 'C' {
		v[6] += BDT_GPST
	}
	gt = *NewGTime(time.Date(v[1], time.Month(v[2]), v[3], v[4], v[5], v[6], 0, time.UTC))
	return
}

// Read Keplerian navigation data (GPS, QZSS, Galileo, Beidou). GLONASS and SBAS records are skipped.
func ReadNav(r io.Reader) (*Nav, error) {

	// Flag indicating header reading is complete
	headerDone := false

	// Variable to store navigation data
	nav := Nav{}

	// Ephemeris being read; nil while skipping a non-Keplerian record
	var b *EpheBuilder
	var toc GTime
	var sys SysType

	// Current line number being read, counted from satellite name and ToC line
	lineCount := 0

	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()

		// Process header lines
		if !headerDone {
			if getHeaderLabel(line) == "RINEX VERSION / TYPE" {
				ver := strings.TrimSpace(line[:9])
				if !strings.HasPrefix(ver, "3.0") {
					return nil, fmt.Errorf("unsupported RINEX version. RINEX version must be 3.0x (ver=%s)", ver)
				}
				if typ := line[20:21]; typ != "N" {
					return nil, fmt.Errorf("not a navigation message file (typ=%s)", typ)
				}
			}
			if getHeaderLabel(line) == "END OF HEADER" {
				headerDone = true
			}
			continue
		}

		if !navValueRe.MatchString(line) {
			continue
		}
		if len(line) < 80 {
			line = line + strings.Repeat(" ", 80-len(line))
		}

		// Epoch line
		if line[0] != ' ' {
			sys = SysType(line[0])
			b = nil
			if !sys.IsKeplerian() {
				continue
			}
			var sat SatType
			var err error
			toc, sat, err = getNavTime(line)
			if err != nil {
				return nil, fmt.Errorf("failed to read time of clock in navigation message: %w", err)
			}
			b = NewEpheBuilder(sat).
				Toc(toc.Sec).
				Af0(parseFloat(line[23:42])).
				Af1(parseFloat(line[42:61])).
				Af2(parseFloat(line[61:80]))
			lineCount = 0
			continue
		}

		// Broadcast orbit lines
		if b == nil {
			continue
		}
		v0 := parseFloat(line[4:23])
		v1 := parseFloat(line[23:42])
		v2 := parseFloat(line[42:61])
		v3 := parseFloat(line[61:80])
		lineCount++
		switch lineCount {
		case 1:
			b.Iode(int(v0)).Crs(v1).DeltaN(v2).M0(v3)
		case 2:
			b.Cuc(v0).Ecc(v1).Cus(v2).SqrtA(v3)
		case 3:
			if sys == 'C' {
				v0 += BDT_GPST
			}
			b.Toe(v0).Cic(v1).Omega0(v2).Cis(v3)
		case 4:
			b.I0(v0).Crc(v1).Omega(v2).OmegaD(v3)
		case 5:
			week := int(v2)
			if sys == 'C' {
				week += 1356 // BDT Week -> GPS Week
			}
			b.Idot(v0).Code(int(v1)).Week(week)
		case 6:
			if sys != 'E' {
				b.Ura(getURAIndex(v0))
			} else {
				b.Ura(getSISAIndex(v0))
			}
			b.Health(int(v1))
			switch sys {
			case 'E':
				b.Tgd(v3) // BGD E5b/E1
			default:
				b.Tgd(v2)
			}
			if sys == 'G' || sys == 'J' {
				b.Iodc(int(v3))
			}
		case 7:
			eph := b.Build()
			tot := v0
			if sys == 'C' {
				tot += BDT_GPST
			}
			b.Tot(GTime{Week: eph.Week, Sec: 0}.Add(tot))
			if eph.Toe >= WEEK { // BDT shift crossed the week boundary
				b.Toe(eph.Toe - WEEK).Week(eph.Week + 1)
			}
			switch sys {
			case 'G':
				b.Fit(v1)
			case 'J':
				if v1 == 0.0 {
					b.Fit(1)
				} else {
					b.Fit(2)
				}
			case 'C':
				b.Iodc(int(v1))
			case 'E':
				b.Iodc(eph.Iode) // IODnav covers both
			}
			eph = b.Build()
			nav[eph.Sat] = append(nav[eph.Sat], eph)
			b = nil
		}
	}

	// Check if reading completed without error
	if err := s.Err(); err != nil {
		return nil, err
	}

	// Sort by transmission time
	for k := range nav {
		slices.SortStableFunc(nav[k], func(x, y *KeplerEphe) int {
			switch {
			case x.Tot.Less(y.Tot, false):
				return -1
			case y.Tot.Less(x.Tot, false):
				return 1
			}
			return 0
		})
	}

	return &nav, nil
}

// Read real values by absorbing variations in exponential notation within RINEX files
func parseFloat(str string) float64 {
	s := strings.TrimSpace(str)
	if strings.ContainsAny(s, "Dd") {
		s = strings.Replace(s, "D", "E", 1)
		s = strings.Replace(s, "d", "e", 1)
	}
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// Return URA index for specified value
func getURAIndex(x float64) int {
	uraVal := [...]float64{2.4, 3.4, 4.85, 6.85, 9.65, 13.65, 24.0, 48.0, 96.0, 192.0, 384.0, 768.0, 1536.0, 3072.0, 6144.0}
	if x <= 0 {
		return 15
	}
	for i, u := range uraVal {
		if x <= u {
			return i
		}
	}
	return 15
}

// Return Galileo SISA index for specified value
func getSISAIndex(x float64) int {
	if x >= 0 && x <= 0.5 {
		return int(x / 0.01)
	} else if x > 0.5 && x <= 1.0 {
		return int((x-0.5)/0.02) + 50
	} else if x > 1.0 && x <= 2.0 {
		return int((x-1.0)/0.04) + 75
	} else if x > 2.0 && x <= 6.0 {
		return int((x-2.0)/0.16) + 100
	} else {
		return 255
	}
}
