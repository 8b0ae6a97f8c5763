package course

import "gorm.io/gorm"

// ActivityModule is a unit of course content: a text lesson, video, quiz,
// discussion or assignment. Where it sits in the course tree is tracked by
// SectionModuleLink, not here, so the same module can be repositioned
// without touching its content.
type ActivityModule struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Kind        string `json:"kind" gorm:"default:'TEXT'"` // TEXT, VIDEO, QUIZ, DISCUSSION, ASSIGNMENT
	Title       string `json:"title"`
	Description string `json:"description"`
	TextContent string `json:"text_content" gorm:"type:text"` // For TEXT type
	VideoURL    string `json:"video_url"`                     // For VIDEO type
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}

// ModuleCompletion tracks a user's completion of one activity module.
type ModuleCompletion struct {
	gorm.Model
	UserID           uint   `json:"user_id" gorm:"index;not null"`
	CourseID         uint   `json:"course_id" gorm:"index;not null"`
	ActivityModuleID uint   `json:"activity_module_id" gorm:"index;not null"`
	Status           string `json:"status" gorm:"default:'COMPLETED'"`
	IsDeleted        bool   `gorm:"default:false"`
}
