package domain

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: a stored rating is always max(0, min(10, v)).
func TestClampRatingProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("clamp stays in range and is idempotent", prop.ForAll(
		func(v int) bool {
			c := ClampRating(v)
			if c < MinRating || c > MaxRating {
				return false
			}
			if v >= MinRating && v <= MaxRating && c != v {
				return false
			}
			return ClampRating(c) == c
		},
		gen.IntRange(-1000, 1000),
	))

	properties.Property("applied ratings are clamped for every catalog key", prop.ForAll(
		func(v int, idx int) bool {
			keys := append(RatingKeys(ClusterUrges), RatingKeys(ClusterEmotions)...)
			keys = append(keys, RatingKeys(ClusterSkills)...)
			k := keys[idx%len(keys)]

			now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
			e := NewDiaryEntry(&UserProfile{UserID: "u1"}, nil, SessionManual, "diary/v1", now)
			if err := e.Apply(SetRating(k, v), now); err != nil {
				return false
			}
			want := v
			if want < 0 {
				want = 0
			}
			if want > 10 {
				want = 10
			}
			got := e.Rating(k)
			return got.Value == want && got.IsSet()
		},
		gen.Int(),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
