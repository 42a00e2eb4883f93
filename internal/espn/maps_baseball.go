package espn

// Baseball is the sport where the two id spaces bite hardest: id 6 means SS
// as a defaultPositionId but MI (2B/SS) as a lineup slot. Slots 18, 21 and 22
// have no confirmed upstream meaning and are intentionally absent; they
// render as SLOT_<n> and are dropped from eligible-position output.
var baseballMaps = &SportMaps{
	GameID: "flb",
	Positions: map[int]string{
		1:  "SP",
		2:  "C",
		3:  "1B",
		4:  "2B",
		5:  "3B",
		6:  "SS",
		7:  "LF",
		8:  "CF",
		9:  "RF",
		10: "DH",
		11: "RP",
	},
	LineupSlots: map[int]string{
		0:  "C",
		1:  "1B",
		2:  "2B",
		3:  "3B",
		4:  "SS",
		5:  "OF",
		6:  "MI",
		7:  "CI",
		8:  "LF",
		9:  "CF",
		10: "RF",
		11: "DH",
		12: "UTIL",
		13: "P",
		14: "SP",
		15: "RP",
		16: "BENCH",
		17: "IL",
		19: "IF",
	},
	ProTeams: map[int]string{
		0: "FA", 1: "BAL", 2: "BOS", 3: "LAA", 4: "CHW", 5: "CLE",
		6: "DET", 7: "KC", 8: "MIL", 9: "MIN", 10: "NYY", 11: "OAK",
		12: "SEA", 13: "TEX", 14: "TOR", 15: "ATL", 16: "CHC", 17: "CIN",
		18: "HOU", 19: "LAD", 20: "WSH", 21: "NYM", 22: "PHI", 23: "PIT",
		24: "STL", 25: "SD", 26: "SF", 27: "COL", 28: "MIA", 29: "ARI",
		30: "TB",
	},
	PositionSlots: map[string][]int{
		"ALL":              nil,
		"CATCHER":          {0},
		"FIRST_BASE":       {1},
		"SECOND_BASE":      {2},
		"THIRD_BASE":       {3},
		"SHORTSTOP":        {4},
		"OUTFIELD":         {5, 8, 9, 10},
		"MIDDLE_INFIELD":   {6},
		"CORNER_INFIELD":   {7},
		"DH":               {11},
		"UTIL":             {12},
		"PITCHER":          {13},
		"STARTING_PITCHER": {14},
		"RELIEF_PITCHER":   {15},
	},
	Stats: map[int]string{
		0:  "atBats",
		1:  "hits",
		2:  "avg",
		3:  "doubles",
		4:  "triples",
		5:  "homeRuns",
		10: "walks",
		17: "obp",
		20: "runs",
		21: "rbi",
		23: "stolenBases",
		34: "earnedRuns",
		41: "whip",
		47: "era",
		48: "strikeoutsPitched",
		53: "wins",
		54: "losses",
		57: "saves",
	},
}
