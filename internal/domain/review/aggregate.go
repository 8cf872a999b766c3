package review

import (
	"math"

	"skillbridge/internal/domain/user"
)

// Summarize computes the rating summary over the visible ratings of one user.
// The average is rounded to one decimal place and is 0 when there are none.
func Summarize(ratings []int) user.Rating {
	if len(ratings) == 0 {
		return user.Rating{Average: 0, Count: 0}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(len(ratings))
	return user.Rating{
		Average: math.Round(avg*10) / 10,
		Count:   len(ratings),
	}
}
