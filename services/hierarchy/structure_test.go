package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestGetCourseStructure(t *testing.T) {
	s, db := newTestService(t)
	c := seedCourse(t, db, "Full stack course")

	// Four levels deep with modules interleaved between subsections:
	//
	//   Unit 1
	//     [video]
	//     Chapter 1.1
	//       Topic 1.1.1
	//         Detail 1.1.1.1
	//           [text]
	//     [quiz]
	//   Unit 2
	unit1 := mustCreateSection(t, s, c.ID, "Unit 1", nil)
	video := seedModule(t, db, c.ID, "VIDEO", "Unit intro")
	lVideo := mustAddLink(t, s, video.ID, unit1.ID)
	chapter := mustCreateSection(t, s, c.ID, "Chapter 1.1", &unit1.ID)
	quiz := seedModule(t, db, c.ID, "QUIZ", "Unit quiz")
	lQuiz, err := s.AddActivityModuleToSection(testActor, quiz.ID, unit1.ID, nil,
		datatypes.JSON(`{"attempts":3}`))
	require.NoError(t, err)
	topic := mustCreateSection(t, s, c.ID, "Topic 1.1.1", &chapter.ID)
	detail := mustCreateSection(t, s, c.ID, "Detail 1.1.1.1", &topic.ID)
	text := seedModule(t, db, c.ID, "TEXT", "Fine print")
	lText := mustAddLink(t, s, text.ID, detail.ID)
	unit2 := mustCreateSection(t, s, c.ID, "Unit 2", nil)

	structure, err := s.GetCourseStructure(testActor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, structure.CourseID)
	require.Len(t, structure.Content, 2)

	u1 := structure.Content[0]
	assert.Equal(t, NodeSection, u1.Type)
	assert.Equal(t, unit1.ID, u1.ID)
	assert.Equal(t, "Unit 1", u1.Title)
	assert.Equal(t, unit2.ID, structure.Content[1].ID)

	require.Len(t, u1.Content, 3)
	assert.Equal(t, NodeActivityModule, u1.Content[0].Type)
	assert.Equal(t, lVideo.ID, u1.Content[0].ID)
	assert.Equal(t, video.ID, u1.Content[0].ActivityModuleID)
	assert.Equal(t, NodeSection, u1.Content[1].Type)
	assert.Equal(t, chapter.ID, u1.Content[1].ID)
	assert.Equal(t, lQuiz.ID, u1.Content[2].ID)
	assert.JSONEq(t, `{"attempts":3}`, string(u1.Content[2].Settings))

	// walk down the deep branch
	ch := u1.Content[1]
	require.Len(t, ch.Content, 1)
	tp := ch.Content[0]
	assert.Equal(t, topic.ID, tp.ID)
	require.Len(t, tp.Content, 1)
	dt := tp.Content[0]
	assert.Equal(t, detail.ID, dt.ID)
	require.Len(t, dt.Content, 1)
	assert.Equal(t, lText.ID, dt.Content[0].ID)
	assert.Equal(t, text.ID, dt.Content[0].ActivityModuleID)
	assert.Empty(t, dt.Content[0].Content)

	t.Run("reading is idempotent", func(t *testing.T) {
		again, err := s.GetCourseStructure(testActor, c.ID)
		require.NoError(t, err)
		assert.Equal(t, structure, again)
	})

	t.Run("reflects reordering", func(t *testing.T) {
		_, err := s.GeneralMove(testActor, linkRef(lQuiz.ID), linkRef(lVideo.ID), LocationAbove)
		require.NoError(t, err)
		after, err := s.GetCourseStructure(testActor, c.ID)
		require.NoError(t, err)
		u1 := after.Content[0]
		require.Len(t, u1.Content, 3)
		assert.Equal(t, lQuiz.ID, u1.Content[0].ID)
		assert.Equal(t, lVideo.ID, u1.Content[1].ID)
		assert.Equal(t, chapter.ID, u1.Content[2].ID)
	})
}

func TestGetCourseStructureEdgeCases(t *testing.T) {
	s, db := newTestService(t)

	t.Run("course without content", func(t *testing.T) {
		empty := seedCourse(t, db, "Empty course")
		structure, err := s.GetCourseStructure(testActor, empty.ID)
		require.NoError(t, err)
		assert.Equal(t, empty.ID, structure.CourseID)
		assert.Empty(t, structure.Content)
	})

	t.Run("missing course", func(t *testing.T) {
		_, err := s.GetCourseStructure(testActor, 9999)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("deleted placements disappear", func(t *testing.T) {
		c := seedCourse(t, db, "Shrinking course")
		sec := mustCreateSection(t, s, c.ID, "Only section", nil)
		mod := seedModule(t, db, c.ID, "TEXT", "Goes away")
		link := mustAddLink(t, s, mod.ID, sec.ID)

		require.NoError(t, s.RemoveActivityModuleFromSection(testActor, link.ID))
		structure, err := s.GetCourseStructure(testActor, c.ID)
		require.NoError(t, err)
		require.Len(t, structure.Content, 1)
		assert.Empty(t, structure.Content[0].Content)
	})
}
