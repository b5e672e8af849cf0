package usecase

import (
	"context"
	"log/slog"

	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"
)

type badgeUsecase struct {
	userRepo    domain.UserRepository
	projectRepo domain.ProjectRepository
	paymentRepo domain.PaymentRepository
	reviewRepo  domain.ReviewRepository
}

func NewBadgeUsecase(
	userRepo domain.UserRepository,
	projectRepo domain.ProjectRepository,
	paymentRepo domain.PaymentRepository,
	reviewRepo domain.ReviewRepository,
) domain.BadgeUsecase {
	return &badgeUsecase{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		paymentRepo: paymentRepo,
		reviewRepo:  reviewRepo,
	}
}

// badgeSignals are the inputs to the reputation score. A signal that could
// not be gathered is left at its zero value and contributes nothing.
type badgeSignals struct {
	ProfileComplete bool
	ProjectCount    int64
	OnTimeKnown     bool  // the timeliness data was gathered successfully
	OnTimeTotal     int64 // items observed
	OnTimeMet       int64 // of those, on time (no deadline counts as on time)
	AvgRating       float64
	RatingCount     int64
}

// scoreBadge maps signals to a 0-100 score and its tier.
func scoreBadge(s badgeSignals) (int, string) {
	score := 0

	if s.ProfileComplete {
		score += 20
	}

	switch {
	case s.ProjectCount >= 11:
		score += 30
	case s.ProjectCount >= 6:
		score += 20
	case s.ProjectCount >= 1:
		score += 10
	}

	if s.OnTimeKnown {
		// Nothing to measure counts as a perfect record.
		pct := int64(100)
		if s.OnTimeTotal > 0 {
			pct = s.OnTimeMet * 100 / s.OnTimeTotal
		}
		switch {
		case pct == 100:
			score += 20
		case pct >= 50:
			score += 10
		}
	}

	if s.RatingCount > 0 {
		switch {
		case s.AvgRating >= 4.5:
			score += 30
		case s.AvgRating >= 4:
			score += 20
		case s.AvgRating >= 3:
			score += 10
		}
	}

	switch {
	case score >= 80:
		return score, domain.BadgeGold
	case score >= 50:
		return score, domain.BadgeSilver
	case score >= 20:
		return score, domain.BadgeBronze
	}
	return score, domain.BadgeNone
}

// Recalculate recomputes the user's badge from live data and persists it
// when the tier changed. Individual signal failures degrade that signal to
// zero instead of failing the whole recalculation.
func (uc *badgeUsecase) Recalculate(ctx context.Context, userID string) (string, error) {
	// 1. Load the user; without it there is nothing to score
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", apperror.NotFound("User not found")
	}

	signals := badgeSignals{
		ProfileComplete: user.IsProfileComplete,
	}

	// 2. Project volume and on-time signal, per role
	switch user.Role {
	case domain.RoleHirer:
		uc.gatherHirerSignals(ctx, userID, &signals)
	default:
		uc.gatherFreelancerSignals(ctx, userID, &signals)
	}

	// 3. Rating signal
	avg, count, err := uc.reviewRepo.AverageRating(ctx, userID)
	if err != nil {
		slog.Warn("Badge rating signal unavailable", "user_id", userID, "error", err)
	} else {
		signals.AvgRating = avg
		signals.RatingCount = count
	}

	// 4. Score and persist on change
	_, badge := scoreBadge(signals)
	if badge != user.Badge {
		if err := uc.userRepo.UpdateBadge(ctx, userID, badge); err != nil {
			return "", apperror.Internal(err)
		}
	}
	return badge, nil
}

// gatherHirerSignals counts the hirer's projects and how many of their
// completed payments landed on or before the project deadline.
func (uc *badgeUsecase) gatherHirerSignals(ctx context.Context, userID string, s *badgeSignals) {
	count, err := uc.projectRepo.CountByHirer(ctx, userID)
	if err != nil {
		slog.Warn("Badge project signal unavailable", "user_id", userID, "error", err)
	} else {
		s.ProjectCount = count
	}

	payments, err := uc.paymentRepo.ListCompletedTimelinessByHirer(ctx, userID)
	if err != nil {
		slog.Warn("Badge payment signal unavailable", "user_id", userID, "error", err)
		return
	}
	s.OnTimeKnown = true
	for _, p := range payments {
		s.OnTimeTotal++
		// A project without a deadline cannot be paid late.
		if p.ProjectDeadline == nil || !p.PaymentCreatedAt.After(*p.ProjectDeadline) {
			s.OnTimeMet++
		}
	}
}

// gatherFreelancerSignals counts the freelancer's projects and how many of
// their completed projects finished with every task done on time.
func (uc *badgeUsecase) gatherFreelancerSignals(ctx context.Context, userID string, s *badgeSignals) {
	count, err := uc.projectRepo.CountByFreelancer(ctx, userID)
	if err != nil {
		slog.Warn("Badge project signal unavailable", "user_id", userID, "error", err)
	} else {
		s.ProjectCount = count
	}

	projects, err := uc.projectRepo.ListCompletedByFreelancer(ctx, userID)
	if err != nil {
		slog.Warn("Badge timeliness signal unavailable", "user_id", userID, "error", err)
		return
	}
	s.OnTimeKnown = true
	for i := range projects {
		s.OnTimeTotal++
		if projectOnTime(&projects[i]) {
			s.OnTimeMet++
		}
	}
}

// projectOnTime checks every task of a deadline-bearing project: each task
// must be Done and created before its own deadline. Tasks and projects
// without a deadline count as on time.
func projectOnTime(p *domain.Project) bool {
	if p.Deadline == nil {
		return true
	}
	for i := range p.Tasks {
		t := &p.Tasks[i]
		if t.Deadline == nil {
			continue
		}
		if t.Status != domain.TaskStatusDone || t.CreatedAt.After(*t.Deadline) {
			return false
		}
	}
	return true
}
