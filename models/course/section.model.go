package course

import "gorm.io/gorm"

// Section is a node in a course's content tree. Sections nest under other
// sections via ParentSectionID (nil = course root). ContentOrder is the
// position among all siblings sharing the same parent - child sections and
// module links share one zero-based ordering sequence.
type Section struct {
	gorm.Model
	CourseID        uint   `json:"course_id" gorm:"index;not null"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	ParentSectionID *uint  `json:"parent_section_id" gorm:"index"`
	ContentOrder    int    `json:"content_order" gorm:"default:0"`
}
