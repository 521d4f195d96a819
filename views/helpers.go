package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/lmarchant/cupscore/internal/tournament"
)

// writef formats into a page builder, escaping every string argument on the
// way through. All interpolated text must go through writef; plain
// WriteString is reserved for literal markup with no data in it.
func writef(b *strings.Builder, format string, args ...any) {
	for i, arg := range args {
		if s, ok := arg.(string); ok {
			args[i] = templ.EscapeString(s)
		}
	}
	fmt.Fprintf(b, format, args...)
}

// FormatPoints drops trailing zeros so whole-number scores read as integers.
func FormatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// StatusLabel is the one-line status shown next to a team everywhere.
func StatusLabel(t tournament.Team) string {
	switch t.Status {
	case tournament.StatusEliminated:
		if t.EliminationRound != "" {
			return "Out (" + t.EliminationRound + ")"
		}
		return "Out"
	case tournament.StatusPendingThirdPlace:
		return tournament.LabelPendingThirdPlace
	default:
		if t.EliminationRound == tournament.LabelChampion {
			return tournament.LabelChampion
		}
		return "Active"
	}
}

func statusClass(t tournament.Team) string {
	switch t.Status {
	case tournament.StatusEliminated:
		return "status-out"
	case tournament.StatusPendingThirdPlace:
		return "status-pending"
	default:
		return "status-active"
	}
}

// MatchSummary renders one ledger entry as a single line for the history
// tables. The result is plain text; escaping happens where it is written.
func MatchSummary(m tournament.Match) string {
	score := ""
	if m.Team1Goals != nil && m.Team2Goals != nil {
		score = " (" + strconv.Itoa(*m.Team1Goals) + "-" + strconv.Itoa(*m.Team2Goals) + ")"
	}
	if m.Type == tournament.MatchDraw {
		return m.Team1 + " ↔ " + m.Team2 + score
	}
	if m.Winner != nil {
		return *m.Winner + " def. " + m.Loser() + score
	}
	return m.Team1 + " vs " + m.Team2 + score
}
