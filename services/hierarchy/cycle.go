package hierarchy

import "gorm.io/gorm"

// maxTreeDepth bounds every ancestor walk. A healthy tree never gets close;
// the cap only matters if the stored parent chain is corrupt.
const maxTreeDepth = 512

// wouldCreateCycle reports whether reparenting sectionID under parentID
// would make the section its own ancestor. The walk follows parentID's
// ancestor chain upward and terminates even on a corrupt chain.
func (s *Service) wouldCreateCycle(tx *gorm.DB, sectionID, parentID uint) (bool, error) {
	if sectionID == parentID {
		return true, nil
	}
	visited := map[uint]bool{}
	current := parentID
	for depth := 0; depth < maxTreeDepth; depth++ {
		if current == sectionID {
			return true, nil
		}
		if visited[current] {
			// Pre-existing cycle above the candidate parent. It does not
			// involve sectionID, but the chain is corrupt either way.
			return false, NewError(KindInternal, "parent chain of section %d does not terminate", parentID)
		}
		visited[current] = true
		sec, err := s.sections.byID(tx, current)
		if err != nil {
			if KindOf(err) == KindNotFound {
				// Dangling parent reference; the chain ends here.
				return false, nil
			}
			return false, err
		}
		if sec.ParentSectionID == nil {
			return false, nil
		}
		current = *sec.ParentSectionID
	}
	return false, NewError(KindInternal, "parent chain of section %d exceeds depth %d", parentID, maxTreeDepth)
}

// ValidateNoCircularReference checks whether nesting sectionID under
// candidateParentID is structurally legal. It returns nil when safe, an
// InvalidOperation error when the move would create a circular reference.
func (s *Service) ValidateNoCircularReference(actor Actor, sectionID, candidateParentID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		sec, err := s.sections.byID(tx, sectionID)
		if err != nil {
			return err
		}
		parent, err := s.sections.byID(tx, candidateParentID)
		if err != nil {
			return err
		}
		if parent.CourseID != sec.CourseID {
			return invalidArgf("section %d and section %d belong to different courses", sectionID, candidateParentID)
		}
		if sectionID == candidateParentID {
			return invalidOpf("circular reference: section %d cannot be its own parent", sectionID)
		}
		cyc, err := s.wouldCreateCycle(tx, sectionID, candidateParentID)
		if err != nil {
			return err
		}
		if cyc {
			return invalidOpf("circular reference: section %d is an ancestor of section %d", sectionID, candidateParentID)
		}
		return nil
	})
}
