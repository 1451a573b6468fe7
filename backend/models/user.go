package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
}

// UserProfile holds onboarding answers for a user.
type UserProfile struct {
	gorm.Model
	UserID             uint   `gorm:"uniqueIndex;not null"`
	StudyStyle         string
	PreferredStudyTime string
	GradeLevel         string
	Goals              string
	Subjects           string `gorm:"type:text"` // JSON-encoded list
	QuizResponses      string `gorm:"type:text"` // JSON-encoded map
}

func (p *UserProfile) SetSubjects(subjects []string) error {
	data, err := json.Marshal(subjects)
	if err != nil {
		return err
	}
	p.Subjects = string(data)
	return nil
}

func (p *UserProfile) GetSubjects() []string {
	var subjects []string
	if p.Subjects == "" {
		return subjects
	}
	json.Unmarshal([]byte(p.Subjects), &subjects)
	return subjects
}

func (p *UserProfile) SetQuizResponses(responses map[string]interface{}) error {
	data, err := json.Marshal(responses)
	if err != nil {
		return err
	}
	p.QuizResponses = string(data)
	return nil
}

func (p *UserProfile) GetQuizResponses() map[string]interface{} {
	responses := make(map[string]interface{})
	if p.QuizResponses == "" {
		return responses
	}
	json.Unmarshal([]byte(p.QuizResponses), &responses)
	return responses
}
