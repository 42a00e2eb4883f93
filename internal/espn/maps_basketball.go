package espn

var basketballMaps = &SportMaps{
	GameID: "fba",
	Positions: map[int]string{
		1: "PG",
		2: "SG",
		3: "SF",
		4: "PF",
		5: "C",
	},
	LineupSlots: map[int]string{
		0:  "PG",
		1:  "SG",
		2:  "SF",
		3:  "PF",
		4:  "C",
		5:  "G",
		6:  "F",
		7:  "SG/SF",
		8:  "G/F",
		9:  "PF/C",
		10: "F/C",
		11: "UTIL",
		12: "BENCH",
		13: "IR",
	},
	ProTeams: map[int]string{
		0: "FA", 1: "ATL", 2: "BOS", 3: "NO", 4: "CHI", 5: "CLE",
		6: "DAL", 7: "DEN", 8: "DET", 9: "GS", 10: "HOU", 11: "IND",
		12: "LAC", 13: "LAL", 14: "MIA", 15: "MIL", 16: "MIN", 17: "BKN",
		18: "NY", 19: "ORL", 20: "PHI", 21: "PHX", 22: "POR", 23: "SAC",
		24: "SA", 25: "OKC", 26: "UTAH", 27: "WSH", 28: "TOR", 29: "MEM",
		30: "CHA",
	},
	PositionSlots: map[string][]int{
		"ALL":            nil,
		"POINT_GUARD":    {0},
		"SHOOTING_GUARD": {1},
		"SMALL_FORWARD":  {2},
		"POWER_FORWARD":  {3},
		"CENTER":         {4},
		"GUARD":          {0, 1, 5},
		"FORWARD":        {2, 3, 6},
	},
	Stats: map[int]string{
		0:  "points",
		1:  "blocks",
		2:  "steals",
		3:  "assists",
		6:  "rebounds",
		11: "turnovers",
		13: "fieldGoalsMade",
		14: "fieldGoalsAttempted",
		15: "freeThrowsMade",
		16: "freeThrowsAttempted",
		17: "threePointersMade",
		19: "fieldGoalPct",
		20: "freeThrowPct",
	},
}
