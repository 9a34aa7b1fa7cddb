// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package gnsseph

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

// ------------------------------------
// Mini functions
// ------------------------------------

func SQ(x float64) float64 {
	return x * x
}

func ToDeg(rad float64) float64 {
	return rad / PI * 180.0
}

func ToRad(deg float64) float64 {
	return deg / 180.0 * PI
}

// ------------------------------------
// Debug print function
// ------------------------------------

func PrintMat(X mat.Matrix) {
	r, c := X.Dims()
	fmt.Fprintf(os.Stderr, "(%d x %d)\n", r, c)
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	fmt.Fprintf(os.Stderr, "%v\n", fa)
}

func PrintA(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format, a...)
}

func PrintAIf(cond bool, format string, a ...any) {
	if cond {
		PrintA(format, a...)
	}
}

func PrintB(t GTime, format string, a ...any) {
	fmt.Fprintf(os.Stderr, t.ToTime().UTC().Format("2006-01-02T15:04:05.000000")+"\t"+format, a...)
}

// Debug display level. Set once at startup, read-only afterwards.
var DBG_ int

// Debug display
func PrintD(v int, format string, a ...any) {
	PrintAIf(DBG_ >= v, format, a...)
}

func PrintE(err error) {
	fmt.Fprintf(os.Stderr, "err=%s\n", err.Error())
}

// ------------------------------------
// For command argument parsing
// ------------------------------------

type SysVar []SysType

func (p *SysVar) Set(s string) error {
	*p = []SysType{}
	for _, a := range strings.Split(s, ",") {
		if len(a) == 0 {
			continue
		}
		sys := SysType(a[0])
		if !sys.IsKeplerian() {
			return fmt.Errorf("not a Keplerian satellite system: %s", a)
		}
		*p = append(*p, sys)
	}
	return nil
}

func (p *SysVar) String() string {
	if p == nil {
		return ""
	}
	s := make([]string, 0, len(*p))
	for _, v := range *p {
		s = append(s, string(v))
	}
	return strings.Join(s, ",")
}

func (p *SysVar) Contains(s SysType) bool {
	return slices.Contains(*p, s)
}

type SatVar []SatType

func (p *SatVar) Set(s string) error {
	*p = []SatType{}
	for _, a := range strings.Split(s, ",") {
		if len(a) == 0 {
			continue
		}
		sat := SatType(a)
		if len(sat) != 3 || !sat.Sys().IsValid() || sat.Num() == 0 {
			return fmt.Errorf("invalid satellite name: %s", a)
		}
		*p = append(*p, sat)
	}
	return nil
}

func (p *SatVar) String() string {
	if p == nil {
		return ""
	}
	s := make([]string, 0, len(*p))
	for _, v := range *p {
		s = append(s, string(v))
	}
	return strings.Join(s, ",")
}

// Repeatable "name=value" ephemeris overrides (for command arguments)
type ParamVar map[string]float64

func (p *ParamVar) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return err
	}
	if *p == nil {
		*p = ParamVar{}
	}
	(*p)[strings.TrimSpace(k)] = f
	return nil
}

func (p *ParamVar) String() string {
	if p == nil {
		return ""
	}
	s := make([]string, 0, len(*p))
	for k, v := range *p {
		s = append(s, fmt.Sprintf("%s=%g", k, v))
	}
	slices.Sort(s)
	return strings.Join(s, ",")
}

// Date and Time Parser (for command arguments)
type TimeStr time.Time

func (p *TimeStr) MarshalText() (text []byte, err error) {
	text, err = time.Time(*p).MarshalText()
	if err != nil {
		return nil, err
	}
	return text, nil
}

func (p *TimeStr) UnmarshalText(text []byte) error {
	s := string(text)
	t, err := time.Parse("2006/01/02 15:04:05", s)
	if err != nil {
		return err
	}
	*p = TimeStr(t)
	return nil
}

func NewTimeStr(t time.Time) *TimeStr {
	m := new(TimeStr)
	*m = TimeStr(t)
	return m
}

// ------------------------------------
// Others
// ------------------------------------

// Sort the list of satellite names
func Sorted(s []SatType) []SatType {
	m := map[SysType]int{'G': 0, 'J': 1, 'E': 2, 'R': 3, 'C': 4, 'S': 5}
	s2 := make([]SatType, len(s))
	copy(s2, s)
	slices.SortFunc(s2, func(a, b SatType) int {
		if m[a.Sys()] != m[b.Sys()] {
			return m[a.Sys()] - m[b.Sys()]
		}
		return strings.Compare(string(a), string(b))
	})
	return s2
}
