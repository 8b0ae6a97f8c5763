package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	courseModels "lms/models/course"
)

var testActor = Actor{UserID: 1, Role: "ADMIN"}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&courseModels.Course{},
		&courseModels.ActivityModule{},
		&courseModels.Section{},
		&courseModels.SectionModuleLink{},
	))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewService(db, nil, nil, nil), db
}

func seedCourse(t *testing.T, db *gorm.DB, title string) *courseModels.Course {
	t.Helper()
	c := &courseModels.Course{Title: title, Description: "seeded for tests", Author: "Test Author"}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedModule(t *testing.T, db *gorm.DB, courseID uint, kind, title string) *courseModels.ActivityModule {
	t.Helper()
	m := &courseModels.ActivityModule{CourseID: courseID, Kind: kind, Title: title}
	require.NoError(t, db.Create(m).Error)
	return m
}

func mustCreateSection(t *testing.T, s *Service, courseID uint, title string, parent *uint) *courseModels.Section {
	t.Helper()
	sec, err := s.CreateSection(testActor, CreateSectionInput{
		CourseID:        courseID,
		Title:           title,
		ParentSectionID: parent,
	})
	require.NoError(t, err)
	return sec
}

func mustAddLink(t *testing.T, s *Service, moduleID, sectionID uint) *courseModels.SectionModuleLink {
	t.Helper()
	link, err := s.AddActivityModuleToSection(testActor, moduleID, sectionID, nil, nil)
	require.NoError(t, err)
	return link
}

func reloadSection(t *testing.T, db *gorm.DB, id uint) *courseModels.Section {
	t.Helper()
	var sec courseModels.Section
	require.NoError(t, db.First(&sec, id).Error)
	return &sec
}

func reloadLink(t *testing.T, db *gorm.DB, id uint) *courseModels.SectionModuleLink {
	t.Helper()
	var link courseModels.SectionModuleLink
	require.NoError(t, db.First(&link, id).Error)
	return &link
}

// assertContiguous checks the core ordering invariant: the mixed sibling
// set of one parent is numbered exactly 0..n-1.
func assertContiguous(t *testing.T, s *Service, courseID uint, parent *uint) {
	t.Helper()
	list, err := s.loadSiblings(s.db, scope{courseID: courseID, parent: parent})
	require.NoError(t, err)
	for i, sb := range list {
		require.Equalf(t, i, sb.order(),
			"sibling at index %d (kind %d, record %d) has content order %d", i, sb.kind, sb.recordID(), sb.order())
	}
}

// siblingIDs returns (kind, id) pairs of a parent's mixed children in order.
func siblingIDs(t *testing.T, s *Service, courseID uint, parent *uint) [][2]uint {
	t.Helper()
	list, err := s.loadSiblings(s.db, scope{courseID: courseID, parent: parent})
	require.NoError(t, err)
	out := make([][2]uint, len(list))
	for i, sb := range list {
		out[i] = [2]uint{uint(sb.kind), sb.recordID()}
	}
	return out
}

func secRef(id uint) NodeRef  { return NodeRef{Type: NodeSection, ID: id} }
func linkRef(id uint) NodeRef { return NodeRef{Type: NodeActivityModule, ID: id} }
