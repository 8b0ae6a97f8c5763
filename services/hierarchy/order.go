package hierarchy

import (
	"sort"
	"time"

	"gorm.io/gorm"

	courseModels "lms/models/course"
)

type siblingKind int

const (
	kindSection siblingKind = iota
	kindLink
)

// sibling is one entry in a parent's mixed child list: a child section or a
// module link. Exactly one of section/link is set. Treating both kinds
// through one variant lets the normalizer renumber them as a single
// zero-based sequence.
type sibling struct {
	kind    siblingKind
	section *courseModels.Section
	link    *courseModels.SectionModuleLink
}

func sectionEntry(sec *courseModels.Section) sibling {
	return sibling{kind: kindSection, section: sec}
}

func linkEntry(link *courseModels.SectionModuleLink) sibling {
	return sibling{kind: kindLink, link: link}
}

func (sb sibling) order() int {
	if sb.kind == kindSection {
		return sb.section.ContentOrder
	}
	return sb.link.ContentOrder
}

func (sb sibling) created() time.Time {
	if sb.kind == kindSection {
		return sb.section.CreatedAt
	}
	return sb.link.CreatedAt
}

func (sb sibling) recordID() uint {
	if sb.kind == kindSection {
		return sb.section.ID
	}
	return sb.link.ID
}

// scope identifies one sibling set: the root level of a course (parent nil)
// or the children of a section.
type scope struct {
	courseID uint
	parent   *uint
}

func sameScope(a, b scope) bool {
	if a.courseID != b.courseID {
		return false
	}
	if (a.parent == nil) != (b.parent == nil) {
		return false
	}
	return a.parent == nil || *a.parent == *b.parent
}

// loadSiblings returns the scope's mixed child list ordered by
// (content_order, created_at, id), sections before links on full ties.
// Links only exist under sections, so a root scope holds sections only.
func (s *Service) loadSiblings(tx *gorm.DB, sc scope) ([]sibling, error) {
	var list []sibling

	var secs []courseModels.Section
	if sc.parent == nil {
		roots, err := s.sections.roots(tx, sc.courseID)
		if err != nil {
			return nil, err
		}
		secs = roots
	} else {
		children, err := s.sections.children(tx, *sc.parent)
		if err != nil {
			return nil, err
		}
		secs = children
	}
	for i := range secs {
		list = append(list, sectionEntry(&secs[i]))
	}

	if sc.parent != nil {
		links, err := s.links.bySection(tx, *sc.parent)
		if err != nil {
			return nil, err
		}
		for i := range links {
			list = append(list, linkEntry(&links[i]))
		}
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].order() != list[j].order() {
			return list[i].order() < list[j].order()
		}
		ci, cj := list[i].created(), list[j].created()
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		if list[i].kind != list[j].kind {
			return list[i].kind == kindSection
		}
		return list[i].recordID() < list[j].recordID()
	})
	return list, nil
}

// writeOrders renumbers list as 0..n-1, persisting only entries whose
// stored position actually changed.
func (s *Service) writeOrders(tx *gorm.DB, actor Actor, list []sibling) error {
	for i, sb := range list {
		if sb.order() == i {
			continue
		}
		var err error
		if sb.kind == kindSection {
			err = s.sections.updateOrder(tx, actor, sb.section, i)
		} else {
			err = s.links.updateOrder(tx, actor, sb.link, i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// normalize re-reads a scope and closes any ordering gaps left by a
// removal or reparent.
func (s *Service) normalize(tx *gorm.DB, actor Actor, sc scope) error {
	list, err := s.loadSiblings(tx, sc)
	if err != nil {
		return err
	}
	return s.writeOrders(tx, actor, list)
}

func removeSibling(list []sibling, kind siblingKind, id uint) []sibling {
	out := list[:0]
	for _, sb := range list {
		if sb.kind == kind && sb.recordID() == id {
			continue
		}
		out = append(out, sb)
	}
	return out
}

func indexOfSibling(list []sibling, kind siblingKind, id uint) int {
	for i, sb := range list {
		if sb.kind == kind && sb.recordID() == id {
			return i
		}
	}
	return -1
}

func insertSibling(list []sibling, entry sibling, pos int) []sibling {
	if pos < 0 {
		pos = 0
	}
	if pos > len(list) {
		pos = len(list)
	}
	list = append(list, sibling{})
	copy(list[pos+1:], list[pos:])
	list[pos] = entry
	return list
}

func clampPos(pos, max int) int {
	if pos < 0 {
		return 0
	}
	if pos > max {
		return max
	}
	return pos
}
