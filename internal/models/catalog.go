package models

// LearningCategory groups learning fields for browsing. Read-only
// reference data from the application's perspective.
type LearningCategory struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// LearningField is a teachable field within a category.
type LearningField struct {
	ID           string `db:"id" json:"id"`
	CategoryID   string `db:"category_id" json:"category_id"`
	Name         string `db:"name" json:"name"`
	Description  string `db:"description" json:"description"`
	TeacherCount int    `db:"teacher_count" json:"teacher_count"`
}
