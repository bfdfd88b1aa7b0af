package boxscore

// Derived statistics are evaluated from stored counters on every read and never persisted.

func ratio(made, attempted int) float64 {
	if attempted <= 0 {
		return 0
	}
	return float64(made) / float64(attempted)
}

func (c Counters) FieldGoalPercentage() float64 {
	return ratio(c.FieldGoalsMade, c.FieldGoalsAttempted)
}

func (c Counters) ThreePointPercentage() float64 {
	return ratio(c.ThreePointersMade, c.ThreePointersAttempted)
}

func (c Counters) FreeThrowPercentage() float64 {
	return ratio(c.FreeThrowsMade, c.FreeThrowsAttempted)
}

func (c Counters) TotalRebounds() int {
	return c.ReboundsOffensive + c.ReboundsDefensive
}

func (c Counters) TotalFouls() int {
	return c.FoulsPersonal + c.FoulsTechnical
}

func (c Counters) MinutesPlayed() float64 {
	return float64(c.SecondsPlayed) / 60
}

func perGame(total, games int) float64 {
	if games <= 0 {
		return 0
	}
	return float64(total) / float64(games)
}

func (s PlayerSeasonStats) PointsPerGame() float64 {
	return perGame(s.Counters.Points, s.GamesPlayed)
}

func (s PlayerSeasonStats) ReboundsPerGame() float64 {
	return perGame(s.Counters.TotalRebounds(), s.GamesPlayed)
}

func (s PlayerSeasonStats) AssistsPerGame() float64 {
	return perGame(s.Counters.Assists, s.GamesPlayed)
}

func (s PlayerSeasonStats) MinutesPerGame() float64 {
	if s.GamesPlayed <= 0 {
		return 0
	}
	return s.Counters.MinutesPlayed() / float64(s.GamesPlayed)
}
