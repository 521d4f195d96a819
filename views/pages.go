package views

import (
	"net/url"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/lmarchant/cupscore/internal/service"
	"github.com/lmarchant/cupscore/internal/tournament"
)

func Index(round string, counts service.Counts, lastUpdated time.Time, leaders []tournament.Team, recent []tournament.Match, admin bool) templ.Component {
	var b strings.Builder
	writef(&b, "<h1>World Cup 2026 Tracker</h1>\n<p>Current round: <strong>%s</strong>", round)
	if !lastUpdated.IsZero() {
		writef(&b, " · updated %s", lastUpdated.Format("Jan 2 15:04 MST"))
	}
	b.WriteString("</p>\n")

	b.WriteString("<div class=\"cards\">\n")
	writef(&b, "<div class=\"card\"><div class=\"big\">%d</div>Teams</div>\n", counts.Teams)
	writef(&b, "<div class=\"card\"><div class=\"big\">%d</div>Still in play</div>\n", counts.Active)
	writef(&b, "<div class=\"card\"><div class=\"big\">%d</div>Matches recorded</div>\n", counts.Matches)
	b.WriteString("</div>\n")

	b.WriteString("<div class=\"card\">\n<h2>Top 10</h2>\n")
	writeTeamTable(&b, leaders, 0)
	b.WriteString("</div>\n")

	b.WriteString("<div class=\"card\">\n<h2>Recent matches</h2>\n")
	writeMatchTable(&b, recent)
	b.WriteString("</div>\n")

	return layout("Dashboard", admin, &b)
}

func LeaderboardPage(teams []tournament.Team, round, filter string, topN int, admin bool) templ.Component {
	var b strings.Builder
	writef(&b, "<h1>Leaderboard</h1>\n<p>Current round: <strong>%s</strong></p>\n", round)

	b.WriteString("<form method=\"get\" action=\"/leaderboard\">\n")
	b.WriteString("<label for=\"filter\">Show</label>\n<select id=\"filter\" name=\"filter\">\n")
	for _, opt := range []struct{ value, label string }{
		{"", "All teams"}, {"active", "Still in play"}, {"eliminated", "Eliminated"},
	} {
		selected := ""
		if opt.value == filter {
			selected = " selected"
		}
		writef(&b, "<option value=\"%s\"%s>%s</option>\n", opt.value, selected, opt.label)
	}
	b.WriteString("</select>\n")
	writef(&b, "<label for=\"top_n\">Top N (0 = all)</label>\n<input id=\"top_n\" type=\"number\" name=\"top_n\" min=\"0\" value=\"%d\">\n", topN)
	b.WriteString("<p><button type=\"submit\">Apply</button></p>\n</form>\n")

	writeTeamTable(&b, teams, 1)
	return layout("Leaderboard", admin, &b)
}

func MatchHistoryPage(matches []tournament.Match, admin bool, flash string) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>Match history</h1>\n")
	writeFlash(&b, flash, false)
	if admin {
		b.WriteString("<p><a href=\"/admin/record-match\"><button>Record a match</button></a> ")
		b.WriteString("<form class=\"inline\" method=\"post\" action=\"/admin/undo\"><button class=\"danger\">Undo last match</button></form></p>\n")
	}
	writeMatchTable(&b, matches)
	return layout("Matches", admin, &b)
}

func TeamDetailPage(team *tournament.Team, matches []tournament.Match, admin bool) templ.Component {
	var b strings.Builder
	writef(&b, "<h1>%s</h1>\n", team.Country)
	b.WriteString("<div class=\"card\">\n<table>\n")
	writef(&b, "<tr><th>FIFA rank</th><td>%d</td></tr>\n", team.FIFARank)
	writef(&b, "<tr><th>Seed</th><td>%d</td></tr>\n", team.SeedRank)
	writef(&b, "<tr><th>Confederation</th><td>%s</td></tr>\n", team.Confederation)
	writef(&b, "<tr><th>Base points</th><td>%d</td></tr>\n", team.BasePoints)
	writef(&b, "<tr><th>Current points</th><td>%s</td></tr>\n", FormatPoints(team.CurrentPoints))
	writef(&b, "<tr><th>Total score</th><td>%s</td></tr>\n", FormatPoints(team.TotalScore))
	writef(&b, "<tr><th>Record</th><td>%dW %dD %dL</td></tr>\n", team.Wins, team.Draws, team.Losses)
	writef(&b, "<tr><th>Status</th><td>%s</td></tr>\n", StatusLabel(*team))
	b.WriteString("</table>\n</div>\n")

	b.WriteString("<h2>Matches</h2>\n")
	writeMatchTable(&b, matches)
	return layout(team.Country, admin, &b)
}

func BracketPage(bracket map[string][]tournament.Match, round string, admin bool) templ.Component {
	var b strings.Builder
	writef(&b, "<h1>Knockout bracket</h1>\n<p>Current round: <strong>%s</strong></p>\n", round)
	b.WriteString("<div class=\"bracket\">\n")
	for _, r := range tournament.Rounds() {
		if !r.IsKnockout() {
			continue
		}
		matches := bracket[r.String()]
		writef(&b, "<div class=\"round-col\"><h3>%s</h3>\n", r.String())
		if len(matches) == 0 {
			b.WriteString("<p>Not played yet.</p>")
		}
		for _, m := range matches {
			writef(&b, "<div class=\"card\">%s<br><small>%s points</small></div>\n",
				MatchSummary(m), FormatPoints(m.PointsEarned))
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("</div>\n")
	return layout("Bracket", admin, &b)
}

func StatisticsPage(stats []service.ConfederationStat, admin bool) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>Confederation statistics</h1>\n")
	b.WriteString("<table>\n<tr><th>Confederation</th><th>Teams</th><th>In play</th><th>Eliminated</th><th>Total score</th><th>Average</th></tr>\n")
	for _, s := range stats {
		writef(&b, "<tr><td>%s</td><td>%d</td><td>%d</td><td>%d</td><td>%s</td><td>%.1f</td></tr>\n",
			s.Confederation, s.TotalTeams, s.ActiveTeams, s.Eliminated, FormatPoints(s.TotalScore), s.AverageScore)
	}
	b.WriteString("</table>\n")
	return layout("Statistics", admin, &b)
}

func CompetitionPage(scores []service.SelectionScore, teams []tournament.Team, flash string, flashErr bool, admin bool) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>Pick'em competition</h1>\n")
	b.WriteString("<p>Pick 3 or 4 teams and ride their combined total score. One entry per name.</p>\n")
	writeFlash(&b, flash, flashErr)

	b.WriteString("<div class=\"card\">\n<h2>Enter</h2>\n<form method=\"post\" action=\"/competition\">\n")
	b.WriteString("<label for=\"user_name\">Your name</label>\n<input id=\"user_name\" type=\"text\" name=\"user_name\" required>\n")
	b.WriteString("<label for=\"teams\">Teams (hold Ctrl to pick several)</label>\n")
	b.WriteString("<select id=\"teams\" name=\"teams\" multiple size=\"10\">\n")
	for _, team := range teams {
		writef(&b, "<option value=\"%s\">%s</option>\n", team.Country, team.Country)
	}
	b.WriteString("</select>\n<p><button type=\"submit\">Submit picks</button></p>\n</form>\n</div>\n")

	b.WriteString("<h2>Scoreboard</h2>\n<table>\n<tr><th>#</th><th>Name</th><th>Teams</th><th>Total</th></tr>\n")
	for i, score := range scores {
		names := make([]string, 0, len(score.Teams))
		for _, team := range score.Teams {
			names = append(names, team.Country)
		}
		writef(&b, "<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			i+1, score.UserName, strings.Join(names, ", "), FormatPoints(score.TotalScore))
	}
	b.WriteString("</table>\n")
	return layout("Competition", admin, &b)
}

func writeTeamTable(b *strings.Builder, teams []tournament.Team, startRank int) {
	b.WriteString("<table>\n<tr>")
	if startRank > 0 {
		b.WriteString("<th>#</th>")
	}
	b.WriteString("<th>Team</th><th>Seed</th><th>Confederation</th><th>Current</th><th>Total</th><th>W-D-L</th><th>Status</th></tr>\n")
	for i, team := range teams {
		b.WriteString("<tr>")
		if startRank > 0 {
			writef(b, "<td>%d</td>", startRank+i)
		}
		writef(b, "<td><a href=\"/teams/%s\">%s</a></td><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%d-%d-%d</td><td class=\"%s\">%s</td></tr>\n",
			url.PathEscape(team.Country), team.Country, team.SeedRank, team.Confederation,
			FormatPoints(team.CurrentPoints), FormatPoints(team.TotalScore),
			team.Wins, team.Draws, team.Losses, statusClass(team), StatusLabel(team))
	}
	b.WriteString("</table>\n")
}

func writeMatchTable(b *strings.Builder, matches []tournament.Match) {
	b.WriteString("<table>\n<tr><th>#</th><th>Round</th><th>Result</th><th>Points</th><th>Recorded</th></tr>\n")
	for _, m := range matches {
		points := FormatPoints(m.PointsEarned)
		if m.Type == tournament.MatchDraw && m.Team1Earned != nil && m.Team2Earned != nil {
			points = FormatPoints(*m.Team1Earned) + " / " + FormatPoints(*m.Team2Earned)
		}
		writef(b, "<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			m.MatchNumber, m.Round, MatchSummary(m), points, m.RecordedAt.Format("Jan 2 15:04"))
	}
	b.WriteString("</table>\n")
}
