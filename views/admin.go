package views

import (
	"strings"

	"github.com/a-h/templ"
	"github.com/lmarchant/cupscore/internal/service"
	"github.com/lmarchant/cupscore/internal/tournament"
)

func AdminLoginPage(next, errMsg string) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>Admin login</h1>\n")
	writeFlash(&b, errMsg, true)
	b.WriteString("<div class=\"card\">\n<form method=\"post\" action=\"/admin/login\">\n")
	writef(&b, "<input type=\"hidden\" name=\"next\" value=\"%s\">\n", next)
	b.WriteString("<label for=\"password\">Password</label>\n<input id=\"password\" type=\"password\" name=\"password\" required autofocus>\n")
	b.WriteString("<p><button type=\"submit\">Log in</button></p>\n</form>\n</div>\n")
	return layout("Admin login", false, &b)
}

func AdminDashboard(round string, counts service.Counts, flash string, flashErr bool) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>Admin</h1>\n")
	writeFlash(&b, flash, flashErr)
	writef(&b, "<p>Current round: <strong>%s</strong> · %d teams, %d in play, %d matches recorded</p>\n",
		round, counts.Teams, counts.Active, counts.Matches)

	b.WriteString("<div class=\"card\">\n<h2>Record results</h2>\n")
	b.WriteString("<p><a href=\"/admin/record-match\"><button>Record a match</button></a> ")
	b.WriteString("<form class=\"inline\" method=\"post\" action=\"/admin/undo\"><button class=\"danger\">Undo last match</button></form></p>\n</div>\n")

	b.WriteString("<div class=\"card\">\n<h2>Round</h2>\n<form method=\"post\" action=\"/admin/set-round\">\n")
	b.WriteString("<label for=\"round\">Move to</label>\n<select id=\"round\" name=\"round\">\n")
	for _, r := range tournament.Rounds() {
		selected := ""
		if r.String() == round {
			selected = " selected"
		}
		writef(&b, "<option value=\"%s\"%s>%s</option>\n", r.String(), selected, r.String())
	}
	b.WriteString("</select>\n")
	b.WriteString("<label><input type=\"checkbox\" name=\"force\" value=\"1\"> Force (skip the team-count check)</label>\n")
	b.WriteString("<p><button type=\"submit\">Set round</button></p>\n</form>\n")
	b.WriteString("<p><a href=\"/admin/advance-knockout\"><button>Close group stage…</button></a></p>\n</div>\n")

	b.WriteString("<div class=\"card\">\n<h2>Danger zone</h2>\n")
	b.WriteString("<form method=\"post\" action=\"/admin/reset\" onsubmit=\"return confirm('Wipe every match and reseed all teams?')\">\n")
	b.WriteString("<button class=\"danger\">Reset tournament</button>\n</form>\n</div>\n")
	return layout("Admin", true, &b)
}

func RecordMatchPage(active []tournament.Team, round string, flash string, flashErr bool) templ.Component {
	var b strings.Builder
	writef(&b, "<h1>Record a match</h1>\n<p>Current round: <strong>%s</strong></p>\n", round)
	writeFlash(&b, flash, flashErr)

	b.WriteString("<div class=\"card\">\n<form method=\"post\" action=\"/admin/record-match\">\n")
	writeTeamSelect(&b, "team1", "Team 1", active)
	writeTeamSelect(&b, "team2", "Team 2", active)
	b.WriteString("<label for=\"result\">Result</label>\n<select id=\"result\" name=\"result\">\n")
	b.WriteString("<option value=\"team1\">Team 1 wins</option>\n<option value=\"team2\">Team 2 wins</option>\n<option value=\"draw\">Draw</option>\n</select>\n")
	b.WriteString("<label for=\"team1_goals\">Team 1 goals (optional)</label>\n<input id=\"team1_goals\" type=\"number\" name=\"team1_goals\" min=\"0\">\n")
	b.WriteString("<label for=\"team2_goals\">Team 2 goals (optional)</label>\n<input id=\"team2_goals\" type=\"number\" name=\"team2_goals\" min=\"0\">\n")
	b.WriteString("<p><button type=\"submit\">Record</button></p>\n</form>\n</div>\n")
	return layout("Record match", true, &b)
}

// AdvanceKnockoutPage lists every team with a checkbox; the admin ticks the
// 32 group winners and runners-up.
func AdvanceKnockoutPage(teams []tournament.Team, played int, errMsg string) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>Close the group stage</h1>\n")
	writef(&b, "<p>%d of %d group matches recorded. Pick exactly %d advancing teams.</p>\n",
		played, tournament.GroupMatchCount, tournament.AdvancingTeamCount)
	writeFlash(&b, errMsg, true)

	b.WriteString("<form method=\"post\" action=\"/admin/advance-knockout\">\n<table>\n")
	b.WriteString("<tr><th></th><th>Team</th><th>Seed</th><th>Total</th><th>W-D-L</th></tr>\n")
	for _, team := range teams {
		writef(&b, "<tr><td><input type=\"checkbox\" name=\"advancing\" value=\"%s\"></td><td>%s</td><td>%d</td><td>%s</td><td>%d-%d-%d</td></tr>\n",
			team.Country, team.Country, team.SeedRank, FormatPoints(team.TotalScore),
			team.Wins, team.Draws, team.Losses)
	}
	b.WriteString("</table>\n<p><button type=\"submit\">Advance to Round of 32</button></p>\n</form>\n")
	return layout("Advance to knockout", true, &b)
}

func writeTeamSelect(b *strings.Builder, name, label string, teams []tournament.Team) {
	writef(b, "<label for=\"%s\">%s</label>\n<select id=\"%s\" name=\"%s\">\n", name, label, name, name)
	for _, team := range teams {
		writef(b, "<option value=\"%s\">%s</option>\n", team.Country, team.Country)
	}
	b.WriteString("</select>\n")
}
