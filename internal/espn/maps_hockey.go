package espn

var hockeyMaps = &SportMaps{
	GameID: "fhl",
	Positions: map[int]string{
		1: "C",
		2: "LW",
		3: "RW",
		4: "D",
		5: "G",
	},
	LineupSlots: map[int]string{
		0: "C",
		1: "LW",
		2: "RW",
		3: "F",
		4: "D",
		5: "UTIL",
		6: "G",
		7: "BENCH",
		8: "IR",
	},
	ProTeams: map[int]string{
		0: "FA", 1: "BOS", 2: "BUF", 3: "CGY", 4: "CHI", 5: "DET",
		6: "EDM", 7: "CAR", 8: "LA", 9: "DAL", 10: "MTL", 11: "NJ",
		12: "NYI", 13: "NYR", 14: "OTT", 15: "PHI", 16: "PIT", 17: "COL",
		18: "SJ", 19: "STL", 20: "TB", 21: "TOR", 22: "VAN", 23: "WSH",
		24: "ARI", 25: "ANA", 26: "FLA", 27: "NSH", 28: "WPG", 29: "CBJ",
		30: "MIN", 37: "VGK", 129764: "SEA",
	},
	PositionSlots: map[string][]int{
		"ALL":        nil,
		"CENTER":     {0},
		"LEFT_WING":  {1},
		"RIGHT_WING": {2},
		"FORWARD":    {0, 1, 2, 3},
		"DEFENSE":    {4},
		"UTIL":       {5},
		"GOALIE":     {6},
	},
	Stats: map[int]string{
		13: "goals",
		14: "assists",
		17: "penaltyMinutes",
		29: "shotsOnGoal",
		32: "plusMinus",
		1:  "goalsAgainst",
		2:  "saves",
		4:  "shutouts",
	},
}
