package gamification

import (
	"errors"
	"sort"
	"time"

	"studyhub/backend/models"

	"gorm.io/gorm"
)

// streakLength is the number of consecutive calendar days required for the
// Study Streak achievement.
const streakLength = 3

// achievementRule pairs a catalog name with its qualification check over the
// user's completed sessions.
type achievementRule struct {
	Name      string
	Qualifies func(sessions []models.StudySession) bool
}

// Rules are evaluated in this fixed order; it determines the order of newly
// awarded achievements in the result, not a priority.
var achievementRules = []achievementRule{
	{
		Name: "First Steps",
		Qualifies: func(sessions []models.StudySession) bool {
			return len(sessions) >= 1
		},
	},
	{
		Name:      "Study Streak",
		Qualifies: hasConsecutiveStudyDays,
	},
	{
		Name: "Focus Master",
		Qualifies: func(sessions []models.StudySession) bool {
			return maxSessionsInOneDay(sessions) >= 5
		},
	},
	{
		Name: "Subject Expert",
		Qualifies: func(sessions []models.StudySession) bool {
			return maxSessionsPerSubject(sessions) >= 10
		},
	},
	{
		Name: "Time Wizard",
		Qualifies: func(sessions []models.StudySession) bool {
			return totalMinutes(sessions) >= 24*60
		},
	},
}

// CheckAchievements evaluates every rule against the user's completed
// sessions and awards each achievement that qualifies and is not yet held.
// Re-running is idempotent: the awarder's unique grant index guarantees a
// user never receives the same achievement twice, even under concurrent
// evaluation.
func (s *Service) CheckAchievements(userID uint) ([]models.Achievement, error) {
	var sessions []models.StudySession
	if err := s.DB.Where("user_id = ? AND completed = ?", userID, true).
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	awarded := []models.Achievement{}
	for _, rule := range achievementRules {
		if !rule.Qualifies(sessions) {
			continue
		}

		var achievement models.Achievement
		err := s.DB.Where("name = ?", rule.Name).First(&achievement).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		var existing int64
		if err := s.DB.Model(&models.UserAchievement{}).
			Where("user_id = ? AND achievement_id = ?", userID, achievement.ID).
			Count(&existing).Error; err != nil {
			return nil, err
		}
		if existing > 0 {
			continue
		}

		granted, err := s.Award(userID, achievement.ID)
		if err != nil {
			return nil, err
		}
		if granted {
			awarded = append(awarded, achievement)
		}
	}

	return awarded, nil
}

// calendarDay truncates a timestamp to its calendar date.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// hasConsecutiveStudyDays reports whether the sessions cover at least three
// consecutive calendar days. Multiple sessions on the same day collapse to
// one day.
func hasConsecutiveStudyDays(sessions []models.StudySession) bool {
	if len(sessions) < streakLength {
		return false
	}

	daySet := make(map[time.Time]struct{})
	for _, session := range sessions {
		daySet[calendarDay(session.ScheduledTime)] = struct{}{}
	}

	days := make([]time.Time, 0, len(daySet))
	for day := range daySet {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	// AddDate instead of a 24h delta so DST transitions cannot break a streak.
	for i := 0; i+streakLength-1 < len(days); i++ {
		if days[i].AddDate(0, 0, 1).Equal(days[i+1]) &&
			days[i+1].AddDate(0, 0, 1).Equal(days[i+2]) {
			return true
		}
	}
	return false
}

func maxSessionsInOneDay(sessions []models.StudySession) int {
	perDay := make(map[time.Time]int)
	max := 0
	for _, session := range sessions {
		day := calendarDay(session.ScheduledTime)
		perDay[day]++
		if perDay[day] > max {
			max = perDay[day]
		}
	}
	return max
}

func maxSessionsPerSubject(sessions []models.StudySession) int {
	perSubject := make(map[string]int)
	max := 0
	for _, session := range sessions {
		perSubject[session.Subject]++
		if perSubject[session.Subject] > max {
			max = perSubject[session.Subject]
		}
	}
	return max
}

func totalMinutes(sessions []models.StudySession) int {
	total := 0
	for _, session := range sessions {
		total += session.Duration
	}
	return total
}
