package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SectionModuleLink places an activity module inside a section. Deleting a
// link removes the placement only, never the module itself. A link always
// belongs to exactly one section and shares its ContentOrder sequence with
// the section's child sections.
type SectionModuleLink struct {
	gorm.Model
	CourseID         uint           `json:"course_id" gorm:"index;not null"`
	ActivityModuleID uint           `json:"activity_module_id" gorm:"index;not null"`
	SectionID        uint           `json:"section_id" gorm:"index;not null"`
	ContentOrder     int            `json:"content_order" gorm:"default:0"`
	Settings         datatypes.JSON `json:"settings,omitempty"` // per-placement overrides (display name etc.), passed through unchanged
}
