package model

import (
	"strings"
)

// Position is a Yahoo roster slot or player position abbreviation.
type Position string

const (
	POS_UNKNOWN Position = "UNK"
	POS_QB      Position = "QB"
	POS_RB      Position = "RB"
	POS_WR      Position = "WR"
	POS_TE      Position = "TE"
	POS_K       Position = "K"
	POS_DEF     Position = "DEF"
	POS_FLEX    Position = "W/R/T"
	POS_BENCH   Position = "BN"
	POS_IR      Position = "IR"
)

// IsStarter reports whether the slot counts toward a team's weekly score.
func (p Position) IsStarter() bool {
	switch p {
	case POS_BENCH, POS_IR, POS_UNKNOWN:
		return false
	}
	return true
}

func ParsePosition(pos string) Position {
	pos = strings.ToUpper(strings.TrimSpace(pos))
	switch pos {
	case "QB":
		return POS_QB
	case "RB":
		return POS_RB
	case "WR":
		return POS_WR
	case "TE":
		return POS_TE
	case "K":
		return POS_K
	case "DEF", "D/ST", "DST":
		return POS_DEF
	case "W/R/T", "FLEX":
		return POS_FLEX
	case "BN":
		return POS_BENCH
	case "IR":
		return POS_IR
	default:
		return POS_UNKNOWN
	}
}
