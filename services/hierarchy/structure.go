package hierarchy

import (
	"sort"
	"time"

	"gorm.io/datatypes"

	courseModels "lms/models/course"
)

// StructureNode is one entry in a course's materialized content tree:
// either a section carrying its own ordered Content, or an activity-module
// link leaf.
type StructureNode struct {
	Type             NodeType        `json:"type"`
	ID               uint            `json:"id"`
	Title            string          `json:"title,omitempty"`
	Description      string          `json:"description,omitempty"`
	ContentOrder     int             `json:"content_order"`
	ActivityModuleID uint            `json:"activity_module_id,omitempty"`
	Settings         datatypes.JSON  `json:"settings,omitempty"`
	Content          []StructureNode `json:"content"`
}

// CourseStructure is the fully materialized, ordered tree of one course,
// assembled on read. It is always reconstructible from the section and
// link tables alone; nothing about the tree shape is persisted separately.
type CourseStructure struct {
	CourseID uint            `json:"course_id"`
	Content  []StructureNode `json:"content"`
}

// GetCourseStructure loads all sections and links of a course in one pass
// and folds them into the ordered tree. Sections and links interleave in a
// single content_order sequence under each parent; nesting depth is
// unbounded.
func (s *Service) GetCourseStructure(actor Actor, courseID uint) (*CourseStructure, error) {
	if err := s.gate.Authorize(actor, "course.read", courseID); err != nil {
		return nil, err
	}
	ok, err := s.courses.CourseExists(s.db, courseID)
	if err != nil {
		return nil, internal(err)
	}
	if !ok {
		return nil, notFoundf("course %d not found", courseID)
	}

	secs, err := s.sections.byCourse(s.db, courseID)
	if err != nil {
		return nil, err
	}
	links, err := s.links.byCourse(s.db, courseID)
	if err != nil {
		return nil, err
	}

	secsByParent := map[uint][]courseModels.Section{}
	for _, sec := range secs {
		key := uint(0)
		if sec.ParentSectionID != nil {
			key = *sec.ParentSectionID
		}
		secsByParent[key] = append(secsByParent[key], sec)
	}
	linksBySection := map[uint][]courseModels.SectionModuleLink{}
	for _, link := range links {
		linksBySection[link.SectionID] = append(linksBySection[link.SectionID], link)
	}

	type entry struct {
		node    StructureNode
		order   int
		created time.Time
		section bool
		id      uint
	}
	var build func(parentKey uint, depth int) ([]StructureNode, error)
	build = func(parentKey uint, depth int) ([]StructureNode, error) {
		if depth > maxTreeDepth {
			return nil, NewError(KindInternal, "structure of course %d exceeds depth %d", courseID, maxTreeDepth)
		}
		entries := make([]entry, 0, len(secsByParent[parentKey])+len(linksBySection[parentKey]))
		for _, sec := range secsByParent[parentKey] {
			children, err := build(sec.ID, depth+1)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry{
				node: StructureNode{
					Type:         NodeSection,
					ID:           sec.ID,
					Title:        sec.Title,
					Description:  sec.Description,
					ContentOrder: sec.ContentOrder,
					Content:      children,
				},
				order: sec.ContentOrder, created: sec.CreatedAt, section: true, id: sec.ID,
			})
		}
		for _, link := range linksBySection[parentKey] {
			entries = append(entries, entry{
				node: StructureNode{
					Type:             NodeActivityModule,
					ID:               link.ID,
					ContentOrder:     link.ContentOrder,
					ActivityModuleID: link.ActivityModuleID,
					Settings:         link.Settings,
					Content:          []StructureNode{},
				},
				order: link.ContentOrder, created: link.CreatedAt, section: false, id: link.ID,
			})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i], entries[j]
			if a.order != b.order {
				return a.order < b.order
			}
			if !a.created.Equal(b.created) {
				return a.created.Before(b.created)
			}
			if a.section != b.section {
				return a.section
			}
			return a.id < b.id
		})
		nodes := make([]StructureNode, len(entries))
		for i, e := range entries {
			nodes[i] = e.node
		}
		return nodes, nil
	}

	content, err := build(0, 0)
	if err != nil {
		return nil, err
	}
	return &CourseStructure{CourseID: courseID, Content: content}, nil
}
