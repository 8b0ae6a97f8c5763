// Package hierarchy implements the course content tree: nested sections,
// activity-module placements, mixed sibling ordering and the generalized
// drag-and-drop move. All mutations re-read and renormalize against the
// database inside a single transaction; nothing is cached between calls.
package hierarchy

import (
	"gorm.io/gorm"

	courseModels "lms/models/course"
)

// Actor identifies who is performing an operation. The service never checks
// roles itself; the actor is forwarded to the AccessGate at the persistence
// boundary.
type Actor struct {
	UserID         uint
	Role           string
	OverrideAccess bool
}

// AccessGate authorizes a mutation against a course before any row is
// written. Implementations own the role model; AllowAllGate is the default.
type AccessGate interface {
	Authorize(actor Actor, action string, courseID uint) error
}

// AllowAllGate admits every actor. Used when policy is enforced upstream.
type AllowAllGate struct{}

func (AllowAllGate) Authorize(Actor, string, uint) error { return nil }

// CourseChecker reports whether a course exists. Course records are owned
// outside this package; section creation only needs existence.
type CourseChecker interface {
	CourseExists(tx *gorm.DB, courseID uint) (bool, error)
}

// ModuleChecker resolves the owning course of an activity module. Module
// content is opaque to the hierarchy; only existence and course scoping
// matter here.
type ModuleChecker interface {
	ActivityModuleCourse(tx *gorm.DB, moduleID uint) (courseID uint, ok bool, err error)
}

// GormCourseChecker checks course existence against the courses table.
type GormCourseChecker struct{}

func (GormCourseChecker) CourseExists(tx *gorm.DB, courseID uint) (bool, error) {
	var count int64
	err := tx.Model(&courseModels.Course{}).
		Where("id = ? AND is_deleted = ?", courseID, false).
		Count(&count).Error
	return count > 0, err
}

// GormModuleChecker resolves activity modules against the modules table.
type GormModuleChecker struct{}

func (GormModuleChecker) ActivityModuleCourse(tx *gorm.DB, moduleID uint) (uint, bool, error) {
	var mod courseModels.ActivityModule
	err := tx.Where("id = ? AND is_deleted = ?", moduleID, false).First(&mod).Error
	if err == gorm.ErrRecordNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return mod.CourseID, true, nil
}

// Service orchestrates section and module-link mutations over the two
// stores. It is stateless; every call goes straight to the database.
type Service struct {
	db       *gorm.DB
	gate     AccessGate
	courses  CourseChecker
	modules  ModuleChecker
	sections sectionStore
	links    linkStore
}

// NewService wires a hierarchy service over db. Pass nil collaborators to
// get the defaults (allow-all gate, GORM-backed checkers).
func NewService(db *gorm.DB, gate AccessGate, courses CourseChecker, modules ModuleChecker) *Service {
	if gate == nil {
		gate = AllowAllGate{}
	}
	if courses == nil {
		courses = GormCourseChecker{}
	}
	if modules == nil {
		modules = GormModuleChecker{}
	}
	return &Service{
		db:       db,
		gate:     gate,
		courses:  courses,
		modules:  modules,
		sections: sectionStore{gate: gate},
		links:    linkStore{gate: gate},
	}
}
