package controllers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/hierarchy"
)

func newProgressTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Section{},
		&courseModels.ActivityModule{},
		&courseModels.SectionModuleLink{},
		&courseModels.ModuleCompletion{},
		&courseModels.Enrollment{},
	))
	database.Database = database.DbInstance{Db: db}
	return db
}

func seedPlacedModule(t *testing.T, db *gorm.DB, courseID, sectionID uint, order int, published bool) *courseModels.ActivityModule {
	t.Helper()
	m := &courseModels.ActivityModule{CourseID: courseID, Kind: "TEXT", Title: "Lesson", IsPublished: published}
	require.NoError(t, db.Create(m).Error)
	require.NoError(t, db.Create(&courseModels.SectionModuleLink{
		CourseID:         courseID,
		SectionID:        sectionID,
		ActivityModuleID: m.ID,
		ContentOrder:     order,
	}).Error)
	return m
}

func TestUpdateEnrollmentProgress(t *testing.T) {
	db := newProgressTestDB(t)

	user := models.User{Name: "Student", Email: "student@example.com"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{Title: "Go Basics", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	section := courseModels.Section{CourseID: course.ID, Title: "Week 1"}
	require.NoError(t, db.Create(&section).Error)

	m1 := seedPlacedModule(t, db, course.ID, section.ID, 0, true)
	m2 := seedPlacedModule(t, db, course.ID, section.ID, 1, true)
	// Unpublished modules never count towards the total
	seedPlacedModule(t, db, course.ID, section.ID, 2, false)

	require.NoError(t, db.Create(&courseModels.Enrollment{
		UserID:   user.ID,
		CourseID: course.ID,
		Status:   "ENROLLED",
	}).Error)

	complete := func(moduleID uint) {
		require.NoError(t, db.Create(&courseModels.ModuleCompletion{
			UserID:           user.ID,
			CourseID:         course.ID,
			ActivityModuleID: moduleID,
			Status:           "COMPLETED",
		}).Error)
		updateEnrollmentProgress(user.ID, course.ID)
	}

	complete(m1.ID)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	require.Equal(t, 2, enrollment.TotalModules)
	require.Equal(t, 1, enrollment.CompletedModules)
	require.Equal(t, "IN_PROGRESS", enrollment.Status)
	require.InDelta(t, 50.0, enrollment.Progress, 0.01)
	require.Nil(t, enrollment.CompletedAt)

	complete(m2.ID)

	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	require.Equal(t, 2, enrollment.CompletedModules)
	require.Equal(t, "COMPLETED", enrollment.Status)
	require.InDelta(t, 100.0, enrollment.Progress, 0.01)
	require.NotNil(t, enrollment.CompletedAt)
}

func TestUpdateEnrollmentProgressDuplicatePlacement(t *testing.T) {
	db := newProgressTestDB(t)

	user := models.User{Name: "Student", Email: "dup@example.com"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{Title: "Go Basics", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	s1 := courseModels.Section{CourseID: course.ID, Title: "Week 1"}
	s2 := courseModels.Section{CourseID: course.ID, Title: "Week 2"}
	require.NoError(t, db.Create(&s1).Error)
	require.NoError(t, db.Create(&s2).Error)

	// Same module placed in two sections still counts once
	m := seedPlacedModule(t, db, course.ID, s1.ID, 0, true)
	require.NoError(t, db.Create(&courseModels.SectionModuleLink{
		CourseID:         course.ID,
		SectionID:        s2.ID,
		ActivityModuleID: m.ID,
		ContentOrder:     0,
	}).Error)

	require.NoError(t, db.Create(&courseModels.Enrollment{
		UserID:   user.ID,
		CourseID: course.ID,
		Status:   "ENROLLED",
	}).Error)

	require.NoError(t, db.Create(&courseModels.ModuleCompletion{
		UserID:           user.ID,
		CourseID:         course.ID,
		ActivityModuleID: m.ID,
		Status:           "COMPLETED",
	}).Error)
	updateEnrollmentProgress(user.ID, course.ID)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	require.Equal(t, 1, enrollment.TotalModules)
	require.Equal(t, "COMPLETED", enrollment.Status)
}

func TestCountTreeModules(t *testing.T) {
	tree := hierarchy.StructureNode{
		Type: hierarchy.NodeSection,
		ID:   1,
		Content: []hierarchy.StructureNode{
			{Type: hierarchy.NodeActivityModule, ID: 10, ActivityModuleID: 100},
			{
				Type: hierarchy.NodeSection,
				ID:   2,
				Content: []hierarchy.StructureNode{
					{Type: hierarchy.NodeActivityModule, ID: 11, ActivityModuleID: 101},
					{Type: hierarchy.NodeActivityModule, ID: 12, ActivityModuleID: 102},
				},
			},
		},
	}

	completed := map[uint]bool{100: true, 102: true}
	total, done := countTreeModules(tree, completed)
	require.Equal(t, 3, total)
	require.Equal(t, 2, done)
}
