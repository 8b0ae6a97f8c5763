package hierarchy

import (
	"gorm.io/gorm"

	courseModels "lms/models/course"
)

// atEnd is a position sentinel meaning "append after the last sibling";
// clampPos reduces it to the list length.
const atEnd = 1 << 30

// CreateSectionInput carries the fields accepted at section creation.
// Position is the desired slot among the target parent's mixed siblings;
// nil appends at the end.
type CreateSectionInput struct {
	CourseID        uint
	Title           string
	Description     string
	ParentSectionID *uint
	Position        *int
}

// SectionPatch is a partial section update. Nil fields are left untouched.
// Setting ParentSectionID reparents the section (appended at the end of the
// new parent's siblings); MoveToRoot promotes it to the course root. Naming
// the current parent keeps the section's slot unchanged.
type SectionPatch struct {
	Title           *string
	Description     *string
	ParentSectionID *uint
	MoveToRoot      bool
}

// SectionTreeNode is a section with its nested child sections, without the
// interleaved module links (see GetCourseStructure for the mixed tree).
type SectionTreeNode struct {
	Section  courseModels.Section `json:"section"`
	Children []SectionTreeNode    `json:"children"`
}

// placeSection reparents sec under parent (nil = course root) at pos within
// the mixed sibling list, renumbering the destination siblings and, on a
// cross-parent move, the origin siblings too. Runs inside the caller's
// transaction.
func (s *Service) placeSection(tx *gorm.DB, actor Actor, sec *courseModels.Section, parent *uint, pos int) error {
	if parent != nil {
		if *parent == sec.ID {
			return invalidOpf("circular reference: section %d cannot be its own parent", sec.ID)
		}
		p, err := s.sections.byID(tx, *parent)
		if err != nil {
			return err
		}
		if p.CourseID != sec.CourseID {
			return invalidArgf("parent section %d belongs to course %d, not course %d",
				p.ID, p.CourseID, sec.CourseID)
		}
		cyc, err := s.wouldCreateCycle(tx, sec.ID, *parent)
		if err != nil {
			return err
		}
		if cyc {
			return invalidOpf("circular reference: section %d cannot be moved under its own descendant", sec.ID)
		}
	}

	oldScope := scope{courseID: sec.CourseID, parent: sec.ParentSectionID}
	newScope := scope{courseID: sec.CourseID, parent: parent}

	list, err := s.loadSiblings(tx, newScope)
	if err != nil {
		return err
	}
	list = removeSibling(list, kindSection, sec.ID)
	pos = clampPos(pos, len(list))

	sec.ParentSectionID = parent
	sec.ContentOrder = pos
	if err := s.sections.save(tx, actor, sec); err != nil {
		return err
	}
	list = insertSibling(list, sectionEntry(sec), pos)
	if err := s.writeOrders(tx, actor, list); err != nil {
		return err
	}
	if !sameScope(oldScope, newScope) {
		return s.normalize(tx, actor, oldScope)
	}
	return nil
}

// CreateSection creates a section in a course, optionally nested under a
// parent section, at the requested slot among the parent's siblings.
func (s *Service) CreateSection(actor Actor, in CreateSectionInput) (*courseModels.Section, error) {
	if in.CourseID == 0 {
		return nil, invalidArgf("section requires a course")
	}
	var sec *courseModels.Section
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.courses.CourseExists(tx, in.CourseID)
		if err != nil {
			return internal(err)
		}
		if !ok {
			return notFoundf("course %d not found", in.CourseID)
		}
		if in.ParentSectionID != nil {
			parent, err := s.sections.byID(tx, *in.ParentSectionID)
			if err != nil {
				return err
			}
			if parent.CourseID != in.CourseID {
				return invalidArgf("parent section %d belongs to course %d, not course %d",
					parent.ID, parent.CourseID, in.CourseID)
			}
		}
		sc := scope{courseID: in.CourseID, parent: in.ParentSectionID}
		list, err := s.loadSiblings(tx, sc)
		if err != nil {
			return err
		}
		pos := len(list)
		if in.Position != nil {
			pos = clampPos(*in.Position, len(list))
		}
		sec = &courseModels.Section{
			CourseID:        in.CourseID,
			Title:           in.Title,
			Description:     in.Description,
			ParentSectionID: in.ParentSectionID,
			ContentOrder:    pos,
		}
		if err := s.sections.create(tx, actor, sec); err != nil {
			return err
		}
		list = insertSibling(list, sectionEntry(sec), pos)
		return s.writeOrders(tx, actor, list)
	})
	if err != nil {
		return nil, err
	}
	return sec, nil
}

// UpdateSection applies a partial update. Title and description apply
// unconditionally; a parent change is cycle-checked and renormalizes both
// the old and the new sibling sets.
func (s *Service) UpdateSection(actor Actor, id uint, patch SectionPatch) (*courseModels.Section, error) {
	var out *courseModels.Section
	err := s.db.Transaction(func(tx *gorm.DB) error {
		sec, err := s.sections.byID(tx, id)
		if err != nil {
			return err
		}
		if patch.Title != nil {
			sec.Title = *patch.Title
		}
		if patch.Description != nil {
			sec.Description = *patch.Description
		}
		out = sec
		switch {
		case patch.ParentSectionID != nil:
			if *patch.ParentSectionID == id {
				return invalidOpf("circular reference: section %d cannot be its own parent", id)
			}
			// Re-stating the current parent is not a move; keep the
			// section's slot among its siblings.
			if sec.ParentSectionID != nil && *sec.ParentSectionID == *patch.ParentSectionID {
				return s.sections.save(tx, actor, sec)
			}
			return s.placeSection(tx, actor, sec, patch.ParentSectionID, atEnd)
		case patch.MoveToRoot:
			if sec.ParentSectionID == nil {
				return s.sections.save(tx, actor, sec)
			}
			return s.placeSection(tx, actor, sec, nil, atEnd)
		default:
			return s.sections.save(tx, actor, sec)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteSection removes a section that has no child sections and no
// attached modules. The last remaining section of a course can never be
// deleted. The former parent's siblings are renumbered.
func (s *Service) DeleteSection(actor Actor, id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		sec, err := s.sections.byID(tx, id)
		if err != nil {
			return err
		}
		children, err := s.sections.countChildren(tx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return conflictf("section %d has %d child sections", id, children)
		}
		links, err := s.links.countBySection(tx, id)
		if err != nil {
			return err
		}
		if links > 0 {
			return conflictf("section %d has %d attached modules", id, links)
		}
		total, err := s.sections.countByCourse(tx, sec.CourseID)
		if err != nil {
			return err
		}
		if total <= 1 {
			return conflictf("cannot delete the last section of course %d", sec.CourseID)
		}
		if err := s.sections.delete(tx, actor, sec); err != nil {
			return err
		}
		return s.normalize(tx, actor, scope{courseID: sec.CourseID, parent: sec.ParentSectionID})
	})
}

// FindSectionByID returns one section.
func (s *Service) FindSectionByID(actor Actor, id uint) (*courseModels.Section, error) {
	sec, err := s.sections.byID(s.db, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(actor, "course.read", sec.CourseID); err != nil {
		return nil, err
	}
	return sec, nil
}

// FindSectionsByCourse returns every section of a course, flat.
func (s *Service) FindSectionsByCourse(actor Actor, courseID uint) ([]courseModels.Section, error) {
	if err := s.gate.Authorize(actor, "course.read", courseID); err != nil {
		return nil, err
	}
	return s.sections.byCourse(s.db, courseID)
}

// FindRootSections returns a course's root-level sections in order.
func (s *Service) FindRootSections(actor Actor, courseID uint) ([]courseModels.Section, error) {
	if err := s.gate.Authorize(actor, "course.read", courseID); err != nil {
		return nil, err
	}
	return s.sections.roots(s.db, courseID)
}

// FindChildSections returns the child sections of a section in order.
func (s *Service) FindChildSections(actor Actor, parentID uint) ([]courseModels.Section, error) {
	parent, err := s.sections.byID(s.db, parentID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(actor, "course.read", parent.CourseID); err != nil {
		return nil, err
	}
	return s.sections.children(s.db, parentID)
}

// GetSectionTree returns a course's sections as a nested tree, module
// links excluded.
func (s *Service) GetSectionTree(actor Actor, courseID uint) ([]SectionTreeNode, error) {
	if err := s.gate.Authorize(actor, "course.read", courseID); err != nil {
		return nil, err
	}
	secs, err := s.sections.byCourse(s.db, courseID)
	if err != nil {
		return nil, err
	}
	byParent := map[uint][]courseModels.Section{}
	for _, sec := range secs {
		key := uint(0)
		if sec.ParentSectionID != nil {
			key = *sec.ParentSectionID
		}
		byParent[key] = append(byParent[key], sec)
	}
	var build func(parentKey uint, depth int) ([]SectionTreeNode, error)
	build = func(parentKey uint, depth int) ([]SectionTreeNode, error) {
		if depth > maxTreeDepth {
			return nil, NewError(KindInternal, "section tree of course %d exceeds depth %d", courseID, maxTreeDepth)
		}
		nodes := make([]SectionTreeNode, 0, len(byParent[parentKey]))
		for _, sec := range byParent[parentKey] {
			children, err := build(sec.ID, depth+1)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, SectionTreeNode{Section: sec, Children: children})
		}
		return nodes, nil
	}
	return build(0, 0)
}

// GetSectionAncestors returns the chain from the ultimate root down to the
// section itself, inclusive. A cycle in stored data aborts the walk instead
// of looping.
func (s *Service) GetSectionAncestors(actor Actor, id uint) ([]courseModels.Section, error) {
	var chain []courseModels.Section
	err := s.db.Transaction(func(txn *gorm.DB) error {
		sec, err := s.sections.byID(txn, id)
		if err != nil {
			return err
		}
		if err := s.gate.Authorize(actor, "course.read", sec.CourseID); err != nil {
			return err
		}
		visited := map[uint]bool{}
		for {
			if visited[sec.ID] {
				return NewError(KindInternal, "circular reference detected in ancestors of section %d", id)
			}
			if len(chain) >= maxTreeDepth {
				return NewError(KindInternal, "ancestor chain of section %d exceeds depth %d", id, maxTreeDepth)
			}
			visited[sec.ID] = true
			chain = append(chain, *sec)
			if sec.ParentSectionID == nil {
				break
			}
			sec, err = s.sections.byID(txn, *sec.ParentSectionID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// collected leaf-first; flip to root-first
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// GetSectionDepth returns 0 for a root section, else 1 + the parent's depth.
func (s *Service) GetSectionDepth(actor Actor, id uint) (int, error) {
	chain, err := s.GetSectionAncestors(actor, id)
	if err != nil {
		return 0, err
	}
	return len(chain) - 1, nil
}

// ReorderSection repositions one section within its current parent.
func (s *Service) ReorderSection(actor Actor, id uint, newOrder int) (*courseModels.Section, error) {
	var out *courseModels.Section
	err := s.db.Transaction(func(txn *gorm.DB) error {
		sec, err := s.sections.byID(txn, id)
		if err != nil {
			return err
		}
		out = sec
		return s.placeSection(txn, actor, sec, sec.ParentSectionID, newOrder)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReorderSections takes the complete new order of one parent's child
// sections and applies it in a single pass. Module links interleaved in the
// same parent keep the slots they occupy. Returns how many records actually
// moved.
func (s *Service) ReorderSections(actor Actor, orderedIDs []uint) (int, error) {
	if len(orderedIDs) == 0 {
		return 0, invalidArgf("section order list is empty")
	}
	moved := 0
	err := s.db.Transaction(func(txn *gorm.DB) error {
		first, err := s.sections.byID(txn, orderedIDs[0])
		if err != nil {
			return err
		}
		sc := scope{courseID: first.CourseID, parent: first.ParentSectionID}
		list, err := s.loadSiblings(txn, sc)
		if err != nil {
			return err
		}
		byID := map[uint]*courseModels.Section{}
		sectionSlots := 0
		for _, sb := range list {
			if sb.kind == kindSection {
				byID[sb.section.ID] = sb.section
				sectionSlots++
			}
		}
		if sectionSlots != len(orderedIDs) {
			return invalidArgf("order list has %d sections, parent has %d", len(orderedIDs), sectionSlots)
		}
		seen := map[uint]bool{}
		for _, id := range orderedIDs {
			if _, ok := byID[id]; !ok {
				return invalidArgf("section %d is not a sibling of section %d", id, first.ID)
			}
			if seen[id] {
				return invalidArgf("section %d appears twice in the order list", id)
			}
			seen[id] = true
		}
		next := 0
		for i := range list {
			if list[i].kind == kindSection {
				list[i] = sectionEntry(byID[orderedIDs[next]])
				next++
			}
		}
		for i, sb := range list {
			if sb.order() != i {
				moved++
			}
		}
		return s.writeOrders(txn, actor, list)
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}

// NestSection moves a section under a new parent, appended after the
// parent's current children.
func (s *Service) NestSection(actor Actor, id, newParentID uint) (*courseModels.Section, error) {
	var out *courseModels.Section
	err := s.db.Transaction(func(txn *gorm.DB) error {
		sec, err := s.sections.byID(txn, id)
		if err != nil {
			return err
		}
		if sec.ParentSectionID != nil && *sec.ParentSectionID == newParentID {
			return conflictf("section %d is already nested under section %d", id, newParentID)
		}
		out = sec
		return s.placeSection(txn, actor, sec, &newParentID, atEnd)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UnnestSection promotes a section to the course root, appended after the
// current root sections.
func (s *Service) UnnestSection(actor Actor, id uint) (*courseModels.Section, error) {
	var out *courseModels.Section
	err := s.db.Transaction(func(txn *gorm.DB) error {
		sec, err := s.sections.byID(txn, id)
		if err != nil {
			return err
		}
		if sec.ParentSectionID == nil {
			return conflictf("section %d is already a root section", id)
		}
		out = sec
		return s.placeSection(txn, actor, sec, nil, atEnd)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MoveSection reparents a section (nil = course root) and positions it in
// one normalized step.
func (s *Service) MoveSection(actor Actor, id uint, newParentID *uint, newOrder int) (*courseModels.Section, error) {
	var out *courseModels.Section
	err := s.db.Transaction(func(txn *gorm.DB) error {
		sec, err := s.sections.byID(txn, id)
		if err != nil {
			return err
		}
		out = sec
		return s.placeSection(txn, actor, sec, newParentID, newOrder)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
