package domain

import "math"

// ReviewAggregate is computed per hotel and never persisted.
type ReviewAggregate struct {
	Count  int
	Rating int // rounded mean, 0 when Count is 0
}

// NewReviewAggregate rounds the mean half away from zero.
func NewReviewAggregate(count int, mean float64) ReviewAggregate {
	if count <= 0 {
		return ReviewAggregate{}
	}
	return ReviewAggregate{Count: count, Rating: int(math.Round(mean))}
}
