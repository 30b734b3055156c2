package stats

import "CryptoSeason/internal/domain/models"

// Summarize derives aggregate statistics from records.
// It returns nil for an empty or nil slice; otherwise every field is set.
// Zero returns count as neither positive nor negative.
func Summarize(records []models.YearRecord) *models.Summary {
	if len(records) == 0 {
		return nil
	}

	first := records[0].Return
	s := &models.Summary{BestReturn: first, WorstReturn: first}
	sum := 0.0
	for _, r := range records {
		sum += r.Return
		switch {
		case r.Return > 0:
			s.PositiveYears++
		case r.Return < 0:
			s.NegativeYears++
		}
		if r.Return > s.BestReturn {
			s.BestReturn = r.Return
		}
		if r.Return < s.WorstReturn {
			s.WorstReturn = r.Return
		}
	}
	// rounding in the sum can push the mean just outside [worst, best]
	s.AvgReturn = min(max(sum/float64(len(records)), s.WorstReturn), s.BestReturn)
	return s
}
