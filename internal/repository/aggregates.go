package repository

import "github.com/youthfc/team-manager-service/internal/model"

// ReduceAggregates folds a player's materialized statistics records into the
// read model. Shared by implementations that aggregate in process; averages
// are zero when no records exist, and the rating average only counts records
// that carry a rating.
func ReduceAggregates(records []model.Statistics) model.PlayerAggregatedStats {
	var agg model.PlayerAggregatedStats
	ratedCount := 0
	ratingSum := 0.0
	for _, s := range records {
		agg.MatchesPlayed++
		agg.TotalMinutes += s.MinutesPlayed
		agg.TotalGoals += s.Goals
		agg.TotalAssists += s.Assists
		agg.TotalYellowCards += s.YellowCards
		agg.TotalRedCards += s.RedCards
		agg.TotalSubstitutions += s.SubstitutionsCount
		if s.PlayerOfMatch {
			agg.PlayerOfMatchAwards++
		}
		if s.Rating != nil {
			ratedCount++
			ratingSum += *s.Rating
		}
	}
	if agg.MatchesPlayed > 0 {
		agg.AvgMinutes = float64(agg.TotalMinutes) / float64(agg.MatchesPlayed)
	}
	if ratedCount > 0 {
		agg.AvgRating = ratingSum / float64(ratedCount)
	}
	return agg
}
