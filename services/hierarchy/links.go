package hierarchy

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	courseModels "lms/models/course"
)

// placeLink moves a module link into sectionID at pos within the section's
// mixed sibling list, renumbering the destination siblings and, on a
// cross-section move, the origin siblings too.
func (s *Service) placeLink(tx *gorm.DB, actor Actor, link *courseModels.SectionModuleLink, sectionID uint, pos int) error {
	sec, err := s.sections.byID(tx, sectionID)
	if err != nil {
		return err
	}
	if sec.CourseID != link.CourseID {
		return invalidArgf("section %d belongs to course %d, not course %d",
			sec.ID, sec.CourseID, link.CourseID)
	}

	oldScope := scope{courseID: link.CourseID, parent: &link.SectionID}
	oldSectionID := link.SectionID
	newScope := scope{courseID: link.CourseID, parent: &sectionID}

	list, err := s.loadSiblings(tx, newScope)
	if err != nil {
		return err
	}
	list = removeSibling(list, kindLink, link.ID)
	pos = clampPos(pos, len(list))

	link.SectionID = sectionID
	link.ContentOrder = pos
	if err := s.links.save(tx, actor, link); err != nil {
		return err
	}
	list = insertSibling(list, linkEntry(link), pos)
	if err := s.writeOrders(tx, actor, list); err != nil {
		return err
	}
	if oldSectionID != sectionID {
		oldScope.parent = &oldSectionID
		return s.normalize(tx, actor, oldScope)
	}
	return nil
}

// AddActivityModuleToSection places an activity module into a section at
// the given slot (nil appends at the end). The module itself is owned
// elsewhere; only the placement is created here.
func (s *Service) AddActivityModuleToSection(actor Actor, moduleID, sectionID uint, pos *int, settings datatypes.JSON) (*courseModels.SectionModuleLink, error) {
	var link *courseModels.SectionModuleLink
	err := s.db.Transaction(func(tx *gorm.DB) error {
		sec, err := s.sections.byID(tx, sectionID)
		if err != nil {
			return err
		}
		moduleCourse, ok, err := s.modules.ActivityModuleCourse(tx, moduleID)
		if err != nil {
			return internal(err)
		}
		if !ok {
			return notFoundf("activity module %d not found", moduleID)
		}
		if moduleCourse != sec.CourseID {
			return invalidArgf("activity module %d belongs to course %d, not course %d",
				moduleID, moduleCourse, sec.CourseID)
		}
		sc := scope{courseID: sec.CourseID, parent: &sectionID}
		list, err := s.loadSiblings(tx, sc)
		if err != nil {
			return err
		}
		p := len(list)
		if pos != nil {
			p = clampPos(*pos, len(list))
		}
		link = &courseModels.SectionModuleLink{
			CourseID:         sec.CourseID,
			ActivityModuleID: moduleID,
			SectionID:        sectionID,
			ContentOrder:     p,
			Settings:         settings,
		}
		if err := s.links.create(tx, actor, link); err != nil {
			return err
		}
		list = insertSibling(list, linkEntry(link), p)
		return s.writeOrders(tx, actor, list)
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// RemoveActivityModuleFromSection deletes a placement and renumbers the
// section's remaining siblings. The underlying module is untouched.
func (s *Service) RemoveActivityModuleFromSection(actor Actor, linkID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		link, err := s.links.byID(tx, linkID)
		if err != nil {
			return err
		}
		if err := s.links.delete(tx, actor, link); err != nil {
			return err
		}
		return s.normalize(tx, actor, scope{courseID: link.CourseID, parent: &link.SectionID})
	})
}

// ReorderActivityModulesInSection takes the complete new order of a
// section's module links and applies it in one pass. Child sections
// interleaved in the same parent keep the slots they occupy. Returns how
// many records actually moved.
func (s *Service) ReorderActivityModulesInSection(actor Actor, sectionID uint, orderedLinkIDs []uint) (int, error) {
	if len(orderedLinkIDs) == 0 {
		return 0, invalidArgf("link order list is empty")
	}
	moved := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		sec, err := s.sections.byID(tx, sectionID)
		if err != nil {
			return err
		}
		sc := scope{courseID: sec.CourseID, parent: &sectionID}
		list, err := s.loadSiblings(tx, sc)
		if err != nil {
			return err
		}
		byID := map[uint]*courseModels.SectionModuleLink{}
		linkSlots := 0
		for _, sb := range list {
			if sb.kind == kindLink {
				byID[sb.link.ID] = sb.link
				linkSlots++
			}
		}
		if linkSlots != len(orderedLinkIDs) {
			return invalidArgf("order list has %d links, section %d has %d", len(orderedLinkIDs), sectionID, linkSlots)
		}
		seen := map[uint]bool{}
		for _, id := range orderedLinkIDs {
			if _, ok := byID[id]; !ok {
				return invalidArgf("module link %d does not belong to section %d", id, sectionID)
			}
			if seen[id] {
				return invalidArgf("module link %d appears twice in the order list", id)
			}
			seen[id] = true
		}
		next := 0
		for i := range list {
			if list[i].kind == kindLink {
				list[i] = linkEntry(byID[orderedLinkIDs[next]])
				next++
			}
		}
		for i, sb := range list {
			if sb.order() != i {
				moved++
			}
		}
		return s.writeOrders(tx, actor, list)
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}

// MoveActivityModuleBetweenSections reparents a placement to a different
// section at the given slot (nil appends at the end), renumbering both
// sections.
func (s *Service) MoveActivityModuleBetweenSections(actor Actor, linkID, newSectionID uint, pos *int) (*courseModels.SectionModuleLink, error) {
	var out *courseModels.SectionModuleLink
	err := s.db.Transaction(func(tx *gorm.DB) error {
		link, err := s.links.byID(tx, linkID)
		if err != nil {
			return err
		}
		p := atEnd
		if pos != nil {
			p = *pos
		}
		out = link
		return s.placeLink(tx, actor, link, newSectionID, p)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetSectionModulesCount returns the number of module links a section
// currently owns.
func (s *Service) GetSectionModulesCount(actor Actor, sectionID uint) (int64, error) {
	sec, err := s.sections.byID(s.db, sectionID)
	if err != nil {
		return 0, err
	}
	if err := s.gate.Authorize(actor, "course.read", sec.CourseID); err != nil {
		return 0, err
	}
	return s.links.countBySection(s.db, sectionID)
}
