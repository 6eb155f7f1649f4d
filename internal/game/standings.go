package game

import (
	"fmt"
	"sort"
	"strings"
)

// StandingEntry is one boat's time going into the ranking.
type StandingEntry struct {
	Slot int
	Name string
	Time float64
}

// Standing is one row of a round's leaderboard.
type Standing struct {
	Rank  int     `json:"rank"`
	Slot  int     `json:"slot"`
	Name  string  `json:"name"`
	Time  float64 `json:"time"`
	Label string  `json:"label"`
}

// RankStandings orders entries by time. The first repeated time found in slot
// order is nudged up by TieBreakNudge on its later occurrence so the two boats
// do not share a place. Only the leaderboard copy is nudged.
func RankStandings(entries []StandingEntry, final bool) []Standing {
	ranked := make([]StandingEntry, len(entries))
	copy(ranked, entries)

	seen := make(map[float64]bool, len(ranked))
	for i := range ranked {
		if seen[ranked[i].Time] {
			ranked[i].Time = roundCentis(ranked[i].Time + TieBreakNudge)
			break
		}
		seen[ranked[i].Time] = true
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Time < ranked[j].Time })

	standings := make([]Standing, len(ranked))
	for i, e := range ranked {
		standings[i] = Standing{
			Rank:  i + 1,
			Slot:  e.Slot,
			Name:  e.Name,
			Time:  e.Time,
			Label: rankLabel(i+1, final),
		}
	}
	return standings
}

func rankLabel(rank int, final bool) string {
	if final {
		switch rank {
		case 1:
			return "Gold Medal"
		case 2:
			return "Silver Medal"
		case 3:
			return "Bronze Medal"
		default:
			return ""
		}
	}
	switch rank {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", rank)
	}
}

// Report renders the leaderboard text shown after a round. The final round only
// lists the medallists.
func Report(standings []Standing, final bool) string {
	var sb strings.Builder
	for _, s := range standings {
		if s.Label == "" {
			continue
		}
		if final {
			fmt.Fprintf(&sb, "%-17s%s\n", s.Label+":", s.Name)
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", s.Label, s.Name)
	}
	return sb.String()
}
