package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"studyhub/backend/models"

	"gorm.io/gorm"
)

// SuggestionProvider returns a raw suggestion payload for a rescheduling
// prompt. Implementations may fail or return malformed data; the rescheduler
// never trusts the payload without validation.
type SuggestionProvider interface {
	SuggestSchedule(ctx context.Context, prompt string) (string, error)
}

// Rescheduler moves overdue incomplete study sessions to new future times.
// It asks the suggestion provider for personalized times and falls back to
// now+24h for the whole user batch on any provider or parse failure, so a
// transient external error can never leave missed sessions untouched.
type Rescheduler struct {
	DB       *gorm.DB
	Provider SuggestionProvider
	Log      *log.Logger
	Timeout  time.Duration
}

// sessionPattern summarizes one completed session for the prompt.
type sessionPattern struct {
	Weekday  string `json:"weekday"`
	Hour     int    `json:"hour"`
	Subject  string `json:"subject"`
	Duration int    `json:"duration"`
}

// missedSession describes one overdue session for the prompt.
type missedSession struct {
	ID           uint   `json:"id"`
	Subject      string `json:"subject"`
	Duration     int    `json:"duration"`
	OriginalTime string `json:"original_time"`
}

// Run processes every user's missed sessions independently: a failure in one
// user's batch never aborts the others.
func (r *Rescheduler) Run(ctx context.Context) {
	now := time.Now().UTC()

	var missed []models.StudySession
	if err := r.DB.Where("scheduled_time < ? AND completed = ?", now, false).
		Find(&missed).Error; err != nil {
		r.Log.Printf("rescheduler: loading missed sessions: %v", err)
		return
	}
	if len(missed) == 0 {
		return
	}

	byUser := make(map[uint][]models.StudySession)
	for _, session := range missed {
		byUser[session.UserID] = append(byUser[session.UserID], session)
	}

	for userID, sessions := range byUser {
		r.rescheduleUser(ctx, userID, sessions, now)
	}
}

func (r *Rescheduler) rescheduleUser(ctx context.Context, userID uint, sessions []models.StudySession, now time.Time) {
	suggestions, err := r.suggestTimes(ctx, userID, sessions, now)
	if err == nil {
		if applyErr := r.applySuggestions(suggestions); applyErr == nil {
			r.Log.Printf("rescheduler: rescheduled %d sessions for user %d via suggestions", len(suggestions), userID)
			return
		} else {
			err = applyErr
		}
	}

	r.Log.Printf("rescheduler: suggestion path failed for user %d, using fallback: %v", userID, err)
	if err := r.fallback(sessions, now); err != nil {
		r.Log.Printf("rescheduler: fallback failed for user %d: %v", userID, err)
		return
	}
	r.Log.Printf("rescheduler: fallback rescheduled %d sessions for user %d", len(sessions), userID)
}

// suggestTimes builds the pattern prompt, queries the provider and validates
// the response against the user's missed set.
func (r *Rescheduler) suggestTimes(ctx context.Context, userID uint, sessions []models.StudySession, now time.Time) (map[uint]time.Time, error) {
	if r.Provider == nil {
		return nil, fmt.Errorf("no suggestion provider configured")
	}

	var completed []models.StudySession
	if err := r.DB.Where("user_id = ? AND completed = ?", userID, true).
		Order("scheduled_time DESC").
		Limit(10).
		Find(&completed).Error; err != nil {
		return nil, err
	}

	prompt, err := buildPrompt(completed, sessions, now)
	if err != nil {
		return nil, err
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := r.Provider.SuggestSchedule(callCtx, prompt)
	if err != nil {
		return nil, err
	}

	return parseSuggestions(raw, sessions)
}

func buildPrompt(completed, missed []models.StudySession, now time.Time) (string, error) {
	patterns := make([]sessionPattern, 0, len(completed))
	for _, s := range completed {
		patterns = append(patterns, sessionPattern{
			Weekday:  s.ScheduledTime.Weekday().String(),
			Hour:     s.ScheduledTime.Hour(),
			Subject:  s.Subject,
			Duration: s.Duration,
		})
	}

	toReschedule := make([]missedSession, 0, len(missed))
	for _, s := range missed {
		toReschedule = append(toReschedule, missedSession{
			ID:           s.ID,
			Subject:      s.Subject,
			Duration:     s.Duration,
			OriginalTime: s.ScheduledTime.Format(time.RFC3339),
		})
	}

	patternJSON, err := json.Marshal(patterns)
	if err != nil {
		return "", err
	}
	missedJSON, err := json.Marshal(toReschedule)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`You are an AI study coach helping to reschedule missed study sessions.

User's completed study session patterns:
%s

Missed study sessions that need rescheduling:
%s

Today's date: %s
Current time: %s

Please suggest new times for each missed session. Consider:
1. User's typical study patterns (day of week, time of day)
2. Don't schedule sessions in the past
3. Space out multiple sessions reasonably
4. Try to keep the subject at a similar time of day as past sessions

Return a JSON object with session ids as keys and ISO format datetime strings as values.
Example: {"1": "2025-04-28T18:00:00", "2": "2025-04-29T10:00:00"}`,
		patternJSON, missedJSON, now.Format("2006-01-02"), now.Format("15:04"))

	return prompt, nil
}

// parseSuggestions decodes the provider payload with strict JSON parsing.
// Any unknown session id, unparsable id or unparsable timestamp rejects the
// whole payload so the caller takes the deterministic fallback.
func parseSuggestions(raw string, missed []models.StudySession) (map[uint]time.Time, error) {
	var payload map[string]string
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("malformed suggestion payload: %w", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty suggestion payload")
	}

	missedIDs := make(map[uint]struct{}, len(missed))
	for _, s := range missed {
		missedIDs[s.ID] = struct{}{}
	}

	suggestions := make(map[uint]time.Time, len(payload))
	for idText, timeText := range payload {
		id, err := strconv.ParseUint(idText, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid session id %q: %w", idText, err)
		}
		sessionID := uint(id)
		if _, ok := missedIDs[sessionID]; !ok {
			return nil, fmt.Errorf("session %d is not in the missed set", sessionID)
		}

		newTime, err := parseSuggestedTime(timeText)
		if err != nil {
			return nil, fmt.Errorf("invalid time %q for session %d: %w", timeText, sessionID, err)
		}
		suggestions[sessionID] = newTime
	}

	return suggestions, nil
}

// parseSuggestedTime accepts RFC3339 or a zone-less ISO timestamp, which is
// what chat models usually produce.
func parseSuggestedTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", value)
}

// applySuggestions commits a user's new times as one transaction. Sessions
// completed in the meantime are skipped by the WHERE guard.
func (r *Rescheduler) applySuggestions(suggestions map[uint]time.Time) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for sessionID, newTime := range suggestions {
			if err := tx.Model(&models.StudySession{}).
				Where("id = ? AND completed = ?", sessionID, false).
				Update("scheduled_time", newTime).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// fallback pushes every missed session to now+24h in one transaction.
func (r *Rescheduler) fallback(sessions []models.StudySession, now time.Time) error {
	newTime := now.Add(24 * time.Hour)
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, session := range sessions {
			if err := tx.Model(&models.StudySession{}).
				Where("id = ? AND completed = ?", session.ID, false).
				Update("scheduled_time", newTime).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
