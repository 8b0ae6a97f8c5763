package course

import "gorm.io/gorm"

// MCQOption represents an option for a quiz activity module
type MCQOption struct {
	gorm.Model
	ActivityModuleID uint   `json:"activity_module_id" gorm:"index;not null"`
	OptionText       string `json:"option_text"`
	IsCorrect        bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex       int    `json:"order_index" gorm:"default:0"`
	IsDeleted        bool   `gorm:"default:false"`
}

// MCQAttempt represents a student's attempt at answering a quiz question
type MCQAttempt struct {
	gorm.Model
	UserID           uint   `json:"user_id" gorm:"index;not null"`
	ActivityModuleID uint   `json:"activity_module_id" gorm:"index;not null"`
	SelectedOptions  string `json:"selected_options"` // JSON array of selected option IDs
	Score            int    `json:"score"`            // Score achieved
	MaxScore         int    `json:"max_score"`        // Maximum possible score
	IsCorrect        bool   `json:"is_correct" gorm:"default:false"`
	AttemptNumber    int    `json:"attempt_number" gorm:"default:1"`
	IsDeleted        bool   `gorm:"default:false"`
}
