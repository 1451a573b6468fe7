package models

// All returns every model for migration, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserProfile{},
		&StudySession{},
		&KanbanTask{},
		&StudyGroup{},
		&GroupMembership{},
		&GroupStudySession{},
		&Achievement{},
		&UserAchievement{},
		&UserPoints{},
		&PointTransaction{},
	}
}
