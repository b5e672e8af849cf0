package usecase

import (
	"testing"

	"karya-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestScoreBadge(t *testing.T) {
	cases := []struct {
		name    string
		signals badgeSignals
		score   int
		badge   string
	}{
		{"no signals", badgeSignals{}, 0, domain.BadgeNone},
		{"profile alone reaches bronze", badgeSignals{ProfileComplete: true}, 20, domain.BadgeBronze},
		{"first project", badgeSignals{ProjectCount: 1}, 10, domain.BadgeNone},
		{"six projects", badgeSignals{ProjectCount: 6}, 20, domain.BadgeBronze},
		{"eleven projects", badgeSignals{ProjectCount: 11}, 30, domain.BadgeBronze},
		{
			"perfect on-time record",
			badgeSignals{ProjectCount: 1, OnTimeKnown: true, OnTimeTotal: 4, OnTimeMet: 4},
			30, domain.BadgeBronze,
		},
		{
			"one miss drops the on-time bonus to half",
			badgeSignals{ProjectCount: 1, OnTimeKnown: true, OnTimeTotal: 4, OnTimeMet: 3},
			20, domain.BadgeBronze,
		},
		{
			"mostly late earns nothing",
			badgeSignals{ProjectCount: 1, OnTimeKnown: true, OnTimeTotal: 4, OnTimeMet: 1},
			10, domain.BadgeNone,
		},
		{
			"an empty track record counts as a perfect one",
			badgeSignals{OnTimeKnown: true},
			20, domain.BadgeBronze,
		},
		{
			"an unavailable timeliness signal earns nothing",
			badgeSignals{OnTimeTotal: 4, OnTimeMet: 4},
			0, domain.BadgeNone,
		},
		{
			"rating boundaries",
			badgeSignals{AvgRating: 4.5, RatingCount: 2},
			30, domain.BadgeBronze,
		},
		{
			"rating just below the top band",
			badgeSignals{AvgRating: 4.4, RatingCount: 2},
			20, domain.BadgeBronze,
		},
		{
			"a rating with no reviews counts for nothing",
			badgeSignals{AvgRating: 5},
			0, domain.BadgeNone,
		},
		{
			"silver threshold",
			badgeSignals{ProfileComplete: true, ProjectCount: 11},
			50, domain.BadgeSilver,
		},
		{
			"gold threshold",
			badgeSignals{ProfileComplete: true, ProjectCount: 11, AvgRating: 4.6, RatingCount: 3},
			80, domain.BadgeGold,
		},
		{
			"everything maxed",
			badgeSignals{ProfileComplete: true, ProjectCount: 12, OnTimeKnown: true, OnTimeTotal: 3, OnTimeMet: 3, AvgRating: 5, RatingCount: 9},
			100, domain.BadgeGold,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, badge := scoreBadge(tc.signals)
			assert.Equal(t, tc.score, score)
			assert.Equal(t, tc.badge, badge)
		})
	}
}
