package user

import (
	"math"
	"time"
)

// Profile carries a user's identity and aggregate study statistics.
// AverageScore is the cumulative mean over TotalQuizzes observations;
// TotalStudyTime is in minutes and only increases.
type Profile struct {
	ID             string
	Email          string
	FullName       string
	TotalQuizzes   int
	AverageScore   float64
	StudyStreak    int // consecutive-day counter, maintained elsewhere
	TotalStudyTime float64
	CreatedAt      time.Time
}

// StatsDelta is the profile update produced by folding one quiz result.
// The caller persists it; the fold itself touches no storage.
type StatsDelta struct {
	TotalQuizzes   int
	AverageScore   float64
	TotalStudyTime float64
}

// ApplyQuizResult folds a new quiz score into the running statistics.
// With TotalQuizzes == 0 the new average equals the score exactly.
func (p Profile) ApplyQuizResult(score float64, timeTakenSeconds int) StatsDelta {
	newTotal := p.TotalQuizzes + 1
	newAverage := (p.AverageScore*float64(p.TotalQuizzes) + score) / float64(newTotal)
	newStudyTime := p.TotalStudyTime + float64(timeTakenSeconds)/60

	return StatsDelta{
		TotalQuizzes:   newTotal,
		AverageScore:   round2(newAverage),
		TotalStudyTime: round2(newStudyTime),
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
