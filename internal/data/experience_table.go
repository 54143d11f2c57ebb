package data

import (
	"errors"
	"fmt"
	"math"
)

// Default curve endpoints.
const (
	DefaultBaseXP   int64 = 2000
	DefaultMaxXP    int64 = 4_000_000_000
	DefaultMaxLevel int32 = 99
)

// Errors returned by Curve.Check and ExperienceTable.Validate.
var (
	ErrEmptyTable   = errors.New("experience table is empty")
	ErrLevelGap     = errors.New("experience table levels are not contiguous")
	ErrBadEndpoint  = errors.New("experience table endpoint mismatch")
	ErrNotMonotonic = errors.New("experience table is not strictly increasing")
	ErrInvalidCurve = errors.New("invalid curve parameters")
)

// LevelEntry is the XP threshold of a single level.
type LevelEntry struct {
	Level      int32
	Experience int64
}

// ExperienceTable holds cumulative XP thresholds ordered by ascending level,
// starting at level 1.
type ExperienceTable []LevelEntry

// Curve describes a power law XP(L) = BaseXP * L^B pinned so that
// XP(1) = BaseXP and XP(MaxLevel) = MaxXP.
type Curve struct {
	BaseXP   int64
	MaxXP    int64
	MaxLevel int32
}

// DefaultCurve returns the 1..99 curve from 2000 to 4,000,000,000 XP.
func DefaultCurve() Curve {
	return Curve{
		BaseXP:   DefaultBaseXP,
		MaxXP:    DefaultMaxXP,
		MaxLevel: DefaultMaxLevel,
	}
}

// Check reports whether the curve parameters describe a growing power law.
func (c Curve) Check() error {
	switch {
	case c.BaseXP <= 0:
		return fmt.Errorf("%w: base xp %d must be positive", ErrInvalidCurve, c.BaseXP)
	case c.MaxXP <= c.BaseXP:
		return fmt.Errorf("%w: max xp %d must exceed base xp %d", ErrInvalidCurve, c.MaxXP, c.BaseXP)
	case c.MaxLevel < 2:
		return fmt.Errorf("%w: max level %d must be at least 2", ErrInvalidCurve, c.MaxLevel)
	}
	return nil
}

// Exponent returns B = ln(MaxXP/BaseXP) / ln(MaxLevel).
func (c Curve) Exponent() float64 {
	return math.Log(float64(c.MaxXP)/float64(c.BaseXP)) / math.Log(float64(c.MaxLevel))
}

// ExpAt returns the XP threshold for level. The formula result is floored;
// the first and last levels are forced to BaseXP and MaxXP.
func (c Curve) ExpAt(level int32) int64 {
	switch level {
	case 1:
		return c.BaseXP
	case c.MaxLevel:
		return c.MaxXP
	}
	return c.raw(level, c.Exponent())
}

func (c Curve) raw(level int32, b float64) int64 {
	return int64(math.Floor(float64(c.BaseXP) * math.Pow(float64(level), b)))
}

// Generate builds the table for levels 1..MaxLevel in one pass.
func (c Curve) Generate() ExperienceTable {
	if c.MaxLevel < 1 {
		return nil
	}
	b := c.Exponent()
	table := make(ExperienceTable, 0, c.MaxLevel)
	for lvl := int32(1); lvl <= c.MaxLevel; lvl++ {
		xp := c.raw(lvl, b)
		if lvl == c.MaxLevel {
			xp = c.MaxXP
		} else if lvl == 1 {
			xp = c.BaseXP
		}
		table = append(table, LevelEntry{Level: lvl, Experience: xp})
	}
	return table
}

// Validate checks that levels run 1..N without gaps and that thresholds
// grow strictly. Endpoints are checked against c.
func (t ExperienceTable) Validate(c Curve) error {
	if len(t) == 0 {
		return ErrEmptyTable
	}
	for i, e := range t {
		if e.Level != int32(i+1) {
			return fmt.Errorf("%w: entry %d has level %d", ErrLevelGap, i, e.Level)
		}
		if i > 0 && e.Experience <= t[i-1].Experience {
			return fmt.Errorf("%w: level %d has %d, level %d has %d",
				ErrNotMonotonic, e.Level, e.Experience, t[i-1].Level, t[i-1].Experience)
		}
	}
	if first := t[0]; first.Experience != c.BaseXP {
		return fmt.Errorf("%w: level 1 has %d, want %d", ErrBadEndpoint, first.Experience, c.BaseXP)
	}
	last := t[len(t)-1]
	if last.Level != c.MaxLevel || last.Experience != c.MaxXP {
		return fmt.Errorf("%w: last entry is level %d with %d, want level %d with %d",
			ErrBadEndpoint, last.Level, last.Experience, c.MaxLevel, c.MaxXP)
	}
	return nil
}
