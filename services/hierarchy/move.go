package hierarchy

import (
	"gorm.io/gorm"

	courseModels "lms/models/course"
)

// NodeType discriminates the two node kinds a move can touch.
type NodeType string

const (
	NodeSection        NodeType = "section"
	NodeActivityModule NodeType = "activity_module"
)

// NodeRef identifies one node in a course tree for GeneralMove. For
// activity modules the ID is the placement (link) id, not the module id.
type NodeRef struct {
	Type NodeType `json:"type"`
	ID   uint     `json:"id"`
}

// MoveLocation says where the source lands relative to the target.
type MoveLocation string

const (
	LocationAbove  MoveLocation = "above"
	LocationBelow  MoveLocation = "below"
	LocationInside MoveLocation = "inside"
)

// MoveResult carries the mutated source record with its finalized position
// after every affected sibling set has been renumbered.
type MoveResult struct {
	Type    NodeType                        `json:"type"`
	Section *courseModels.Section           `json:"section,omitempty"`
	Link    *courseModels.SectionModuleLink `json:"link,omitempty"`
}

// GeneralMove is the single code path behind drag-and-drop: it positions
// source above/below the target among the target's siblings, or appends it
// inside a target section. Reparenting, cycle checking and renormalization
// of every affected sibling set happen in one transaction. Activity-module
// links are always leaves; nothing can be moved inside one.
func (s *Service) GeneralMove(actor Actor, source, target NodeRef, loc MoveLocation) (*MoveResult, error) {
	if source.Type != NodeSection && source.Type != NodeActivityModule {
		return nil, invalidArgf("unknown source type %q", source.Type)
	}
	if target.Type != NodeSection && target.Type != NodeActivityModule {
		return nil, invalidArgf("unknown target type %q", target.Type)
	}
	if loc != LocationAbove && loc != LocationBelow && loc != LocationInside {
		return nil, invalidArgf("unknown move location %q", loc)
	}
	if source == target {
		return nil, invalidArgf("cannot move an item relative to itself")
	}
	if loc == LocationInside && target.Type == NodeActivityModule {
		return nil, invalidOpf("cannot move items inside an activity module")
	}

	result := &MoveResult{Type: source.Type}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var srcSection *courseModels.Section
		var srcLink *courseModels.SectionModuleLink
		var srcCourse uint
		var err error
		if source.Type == NodeSection {
			srcSection, err = s.sections.byID(tx, source.ID)
			if err != nil {
				return err
			}
			srcCourse = srcSection.CourseID
			result.Section = srcSection
		} else {
			srcLink, err = s.links.byID(tx, source.ID)
			if err != nil {
				return err
			}
			srcCourse = srcLink.CourseID
			result.Link = srcLink
		}

		// Resolve the destination: the parent scope and slot the source
		// will occupy.
		var destParent *uint
		var destPos int
		switch {
		case loc == LocationInside:
			tgt, err := s.sections.byID(tx, target.ID)
			if err != nil {
				return err
			}
			if tgt.CourseID != srcCourse {
				return invalidArgf("cannot move between courses: source is in course %d, target in course %d",
					srcCourse, tgt.CourseID)
			}
			id := tgt.ID
			destParent = &id
			destPos = atEnd

		default: // above / below
			var tgtParent *uint
			var tgtCourse uint
			var tgtEntryKind siblingKind
			if target.Type == NodeSection {
				tgt, err := s.sections.byID(tx, target.ID)
				if err != nil {
					return err
				}
				tgtParent = tgt.ParentSectionID
				tgtCourse = tgt.CourseID
				tgtEntryKind = kindSection
			} else {
				tgt, err := s.links.byID(tx, target.ID)
				if err != nil {
					return err
				}
				id := tgt.SectionID
				tgtParent = &id
				tgtCourse = tgt.CourseID
				tgtEntryKind = kindLink
			}
			if tgtCourse != srcCourse {
				return invalidArgf("cannot move between courses: source is in course %d, target in course %d",
					srcCourse, tgtCourse)
			}
			if source.Type == NodeActivityModule && tgtParent == nil {
				return invalidOpf("activity modules must be placed inside a section")
			}

			// Index the target within its siblings with the source taken
			// out, matching what place* will rebuild.
			list, err := s.loadSiblings(tx, scope{courseID: srcCourse, parent: tgtParent})
			if err != nil {
				return err
			}
			if source.Type == NodeSection {
				list = removeSibling(list, kindSection, source.ID)
			} else {
				list = removeSibling(list, kindLink, source.ID)
			}
			idx := indexOfSibling(list, tgtEntryKind, target.ID)
			if idx < 0 {
				return notFoundf("move target %d is no longer in place", target.ID)
			}
			destParent = tgtParent
			destPos = idx
			if loc == LocationBelow {
				destPos = idx + 1
			}
		}

		if source.Type == NodeSection {
			return s.placeSection(tx, actor, srcSection, destParent, destPos)
		}
		if destParent == nil {
			return invalidOpf("activity modules must be placed inside a section")
		}
		return s.placeLink(tx, actor, srcLink, *destParent, destPos)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
