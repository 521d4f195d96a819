package scores

import "github.com/lmarchant/cupscore/internal/tournament"

// teamNameMap reconciles API team names with the names the roster uses.
var teamNameMap = map[string]string{
	"USA":                      "United States",
	"United States of America": "United States",
	"Korea Republic":           "South Korea",
	"Republic of Korea":        "South Korea",
	"IR Iran":                  "Iran",
	"Ivory Coast":              "Côte d'Ivoire",
	"Cote d'Ivoire":            "Côte d'Ivoire",
	"Turkey":                   "Türkiye",
	"Cape Verde":               "Cabo Verde",
	"Cabo Verde Islands":       "Cabo Verde",
}

// NormalizeTeamName converts an API team name to the roster's spelling.
func NormalizeTeamName(apiName string) string {
	if name, ok := teamNameMap[apiName]; ok {
		return name
	}
	return apiName
}

// stageRounds maps the API's stage codes onto tournament rounds.
var stageRounds = map[string]tournament.Round{
	"GROUP_STAGE":    tournament.GroupStage,
	"LAST_32":        tournament.RoundOf32,
	"LAST_16":        tournament.RoundOf16,
	"QUARTER_FINALS": tournament.QuarterFinals,
	"SEMI_FINALS":    tournament.SemiFinals,
	"THIRD_PLACE":    tournament.ThirdPlace,
	"FINAL":          tournament.Final,
}

// StageRound resolves an API stage code; unknown stages fall back to the
// group stage, matching how matchday data shows up before the bracket.
func StageRound(stage string) (tournament.Round, bool) {
	round, ok := stageRounds[stage]
	if !ok {
		return tournament.GroupStage, false
	}
	return round, true
}
