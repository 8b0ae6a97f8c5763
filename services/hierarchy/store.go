package hierarchy

import (
	"gorm.io/gorm"

	courseModels "lms/models/course"
)

// sectionStore is single-record CRUD over sections. It enforces the
// per-record invariants that hold regardless of what the service is doing:
// a parent must exist, belong to the same course, and never be the section
// itself. Tree-level rules (cycles, ordering) live in the service.
type sectionStore struct {
	gate AccessGate
}

func (s sectionStore) byID(tx *gorm.DB, id uint) (*courseModels.Section, error) {
	var sec courseModels.Section
	if err := tx.First(&sec, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundf("section %d not found", id)
		}
		return nil, internal(err)
	}
	return &sec, nil
}

func (s sectionStore) byCourse(tx *gorm.DB, courseID uint) ([]courseModels.Section, error) {
	var secs []courseModels.Section
	err := tx.Where("course_id = ?", courseID).
		Order("content_order asc, created_at asc, id asc").
		Find(&secs).Error
	if err != nil {
		return nil, internal(err)
	}
	return secs, nil
}

func (s sectionStore) roots(tx *gorm.DB, courseID uint) ([]courseModels.Section, error) {
	var secs []courseModels.Section
	err := tx.Where("course_id = ? AND parent_section_id IS NULL", courseID).
		Order("content_order asc, created_at asc, id asc").
		Find(&secs).Error
	if err != nil {
		return nil, internal(err)
	}
	return secs, nil
}

func (s sectionStore) children(tx *gorm.DB, parentID uint) ([]courseModels.Section, error) {
	var secs []courseModels.Section
	err := tx.Where("parent_section_id = ?", parentID).
		Order("content_order asc, created_at asc, id asc").
		Find(&secs).Error
	if err != nil {
		return nil, internal(err)
	}
	return secs, nil
}

func (s sectionStore) countByCourse(tx *gorm.DB, courseID uint) (int64, error) {
	var count int64
	err := tx.Model(&courseModels.Section{}).Where("course_id = ?", courseID).Count(&count).Error
	if err != nil {
		return 0, internal(err)
	}
	return count, nil
}

func (s sectionStore) countChildren(tx *gorm.DB, parentID uint) (int64, error) {
	var count int64
	err := tx.Model(&courseModels.Section{}).Where("parent_section_id = ?", parentID).Count(&count).Error
	if err != nil {
		return 0, internal(err)
	}
	return count, nil
}

// checkParent verifies the per-record parent invariants for a section row
// about to be written.
func (s sectionStore) checkParent(tx *gorm.DB, sec *courseModels.Section) error {
	if sec.ParentSectionID == nil {
		return nil
	}
	if sec.ID != 0 && *sec.ParentSectionID == sec.ID {
		return invalidOpf("section %d cannot be its own parent", sec.ID)
	}
	parent, err := s.byID(tx, *sec.ParentSectionID)
	if err != nil {
		return err
	}
	if parent.CourseID != sec.CourseID {
		return invalidArgf("parent section %d belongs to course %d, not course %d",
			parent.ID, parent.CourseID, sec.CourseID)
	}
	return nil
}

func (s sectionStore) create(tx *gorm.DB, actor Actor, sec *courseModels.Section) error {
	if sec.CourseID == 0 {
		return invalidArgf("section requires a course")
	}
	if err := s.checkParent(tx, sec); err != nil {
		return err
	}
	if err := s.gate.Authorize(actor, "section.create", sec.CourseID); err != nil {
		return err
	}
	if err := tx.Create(sec).Error; err != nil {
		return internal(err)
	}
	return nil
}

func (s sectionStore) save(tx *gorm.DB, actor Actor, sec *courseModels.Section) error {
	if err := s.checkParent(tx, sec); err != nil {
		return err
	}
	if err := s.gate.Authorize(actor, "section.update", sec.CourseID); err != nil {
		return err
	}
	if err := tx.Save(sec).Error; err != nil {
		return internal(err)
	}
	return nil
}

func (s sectionStore) delete(tx *gorm.DB, actor Actor, sec *courseModels.Section) error {
	if err := s.gate.Authorize(actor, "section.delete", sec.CourseID); err != nil {
		return err
	}
	if err := tx.Delete(sec).Error; err != nil {
		return internal(err)
	}
	return nil
}

func (s sectionStore) updateOrder(tx *gorm.DB, actor Actor, sec *courseModels.Section, order int) error {
	if err := s.gate.Authorize(actor, "section.update", sec.CourseID); err != nil {
		return err
	}
	if err := tx.Model(&courseModels.Section{}).Where("id = ?", sec.ID).
		Update("content_order", order).Error; err != nil {
		return internal(err)
	}
	sec.ContentOrder = order
	return nil
}

// linkStore is single-record CRUD over section-module links. A link must
// always reference an existing section in the same course; it can never be
// unparented.
type linkStore struct {
	gate AccessGate
}

func (s linkStore) byID(tx *gorm.DB, id uint) (*courseModels.SectionModuleLink, error) {
	var link courseModels.SectionModuleLink
	if err := tx.First(&link, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundf("module link %d not found", id)
		}
		return nil, internal(err)
	}
	return &link, nil
}

func (s linkStore) bySection(tx *gorm.DB, sectionID uint) ([]courseModels.SectionModuleLink, error) {
	var links []courseModels.SectionModuleLink
	err := tx.Where("section_id = ?", sectionID).
		Order("content_order asc, created_at asc, id asc").
		Find(&links).Error
	if err != nil {
		return nil, internal(err)
	}
	return links, nil
}

func (s linkStore) byCourse(tx *gorm.DB, courseID uint) ([]courseModels.SectionModuleLink, error) {
	var links []courseModels.SectionModuleLink
	err := tx.Where("course_id = ?", courseID).
		Order("content_order asc, created_at asc, id asc").
		Find(&links).Error
	if err != nil {
		return nil, internal(err)
	}
	return links, nil
}

func (s linkStore) countBySection(tx *gorm.DB, sectionID uint) (int64, error) {
	var count int64
	err := tx.Model(&courseModels.SectionModuleLink{}).
		Where("section_id = ?", sectionID).Count(&count).Error
	if err != nil {
		return 0, internal(err)
	}
	return count, nil
}

func (s linkStore) checkSection(tx *gorm.DB, link *courseModels.SectionModuleLink) error {
	if link.SectionID == 0 {
		return invalidArgf("module link requires a section")
	}
	var sec courseModels.Section
	if err := tx.First(&sec, link.SectionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return notFoundf("section %d not found", link.SectionID)
		}
		return internal(err)
	}
	if sec.CourseID != link.CourseID {
		return invalidArgf("section %d belongs to course %d, not course %d",
			sec.ID, sec.CourseID, link.CourseID)
	}
	return nil
}

func (s linkStore) create(tx *gorm.DB, actor Actor, link *courseModels.SectionModuleLink) error {
	if link.CourseID == 0 {
		return invalidArgf("module link requires a course")
	}
	if err := s.checkSection(tx, link); err != nil {
		return err
	}
	if err := s.gate.Authorize(actor, "link.create", link.CourseID); err != nil {
		return err
	}
	if err := tx.Create(link).Error; err != nil {
		return internal(err)
	}
	return nil
}

func (s linkStore) save(tx *gorm.DB, actor Actor, link *courseModels.SectionModuleLink) error {
	if err := s.checkSection(tx, link); err != nil {
		return err
	}
	if err := s.gate.Authorize(actor, "link.update", link.CourseID); err != nil {
		return err
	}
	if err := tx.Save(link).Error; err != nil {
		return internal(err)
	}
	return nil
}

func (s linkStore) delete(tx *gorm.DB, actor Actor, link *courseModels.SectionModuleLink) error {
	if err := s.gate.Authorize(actor, "link.delete", link.CourseID); err != nil {
		return err
	}
	if err := tx.Delete(link).Error; err != nil {
		return internal(err)
	}
	return nil
}

func (s linkStore) updateOrder(tx *gorm.DB, actor Actor, link *courseModels.SectionModuleLink, order int) error {
	if err := s.gate.Authorize(actor, "link.update", link.CourseID); err != nil {
		return err
	}
	if err := tx.Model(&courseModels.SectionModuleLink{}).Where("id = ?", link.ID).
		Update("content_order", order).Error; err != nil {
		return internal(err)
	}
	link.ContentOrder = order
	return nil
}
