package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestAddActivityModuleToSection(t *testing.T) {
	s, db := newTestService(t)
	c := seedCourse(t, db, "Linking course")
	sec := mustCreateSection(t, s, c.ID, "Week 1", nil)

	video := seedModule(t, db, c.ID, "VIDEO", "Welcome video")
	quiz := seedModule(t, db, c.ID, "QUIZ", "Warmup quiz")

	t.Run("appends at the end", func(t *testing.T) {
		l1 := mustAddLink(t, s, video.ID, sec.ID)
		l2 := mustAddLink(t, s, quiz.ID, sec.ID)
		assert.Equal(t, 0, l1.ContentOrder)
		assert.Equal(t, 1, l2.ContentOrder)
		assertContiguous(t, s, c.ID, &sec.ID)
	})

	t.Run("explicit position shifts later entries", func(t *testing.T) {
		text := seedModule(t, db, c.ID, "TEXT", "Syllabus")
		pos := 0
		link, err := s.AddActivityModuleToSection(testActor, text.ID, sec.ID, &pos, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, link.ContentOrder)
		assertContiguous(t, s, c.ID, &sec.ID)
	})

	t.Run("same module can be placed twice", func(t *testing.T) {
		again := mustAddLink(t, s, video.ID, sec.ID)
		assert.Equal(t, video.ID, again.ActivityModuleID)
		count, err := s.GetSectionModulesCount(testActor, sec.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 4, count)
	})

	t.Run("settings are stored on the placement", func(t *testing.T) {
		other := mustCreateSection(t, s, c.ID, "Week 2", nil)
		link, err := s.AddActivityModuleToSection(testActor, quiz.ID, other.ID, nil,
			datatypes.JSON(`{"required":true}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"required":true}`, string(reloadLink(t, db, link.ID).Settings))
	})

	t.Run("missing module", func(t *testing.T) {
		_, err := s.AddActivityModuleToSection(testActor, 9999, sec.ID, nil, nil)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("missing section", func(t *testing.T) {
		_, err := s.AddActivityModuleToSection(testActor, video.ID, 9999, nil, nil)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("module from another course", func(t *testing.T) {
		c2 := seedCourse(t, db, "Foreign course")
		foreign := seedModule(t, db, c2.ID, "TEXT", "Foreign reading")
		_, err := s.AddActivityModuleToSection(testActor, foreign.ID, sec.ID, nil, nil)
		assert.Equal(t, KindInvalidArgument, KindOf(err))
	})
}

func TestRemoveActivityModuleFromSection(t *testing.T) {
	s, db := newTestService(t)
	c := seedCourse(t, db, "Unlinking course")
	sec := mustCreateSection(t, s, c.ID, "Week 1", nil)

	m1 := seedModule(t, db, c.ID, "TEXT", "First")
	m2 := seedModule(t, db, c.ID, "TEXT", "Second")
	m3 := seedModule(t, db, c.ID, "TEXT", "Third")
	l1 := mustAddLink(t, s, m1.ID, sec.ID)
	l2 := mustAddLink(t, s, m2.ID, sec.ID)
	l3 := mustAddLink(t, s, m3.ID, sec.ID)

	require.NoError(t, s.RemoveActivityModuleFromSection(testActor, l2.ID))

	assert.Equal(t, 0, reloadLink(t, db, l1.ID).ContentOrder)
	assert.Equal(t, 1, reloadLink(t, db, l3.ID).ContentOrder)
	assertContiguous(t, s, c.ID, &sec.ID)

	t.Run("missing link", func(t *testing.T) {
		assert.Equal(t, KindNotFound, KindOf(s.RemoveActivityModuleFromSection(testActor, l2.ID)))
	})
}

func TestReorderActivityModulesInSection(t *testing.T) {
	s, db := newTestService(t)
	c := seedCourse(t, db, "Module reorder course")
	sec := mustCreateSection(t, s, c.ID, "Week 1", nil)

	m1 := seedModule(t, db, c.ID, "VIDEO", "Lecture")
	m2 := seedModule(t, db, c.ID, "QUIZ", "Quiz")
	l1 := mustAddLink(t, s, m1.ID, sec.ID)
	// a child section interleaved between the two links
	child := mustCreateSection(t, s, c.ID, "Extras", &sec.ID)
	l2 := mustAddLink(t, s, m2.ID, sec.ID)

	moved, err := s.ReorderActivityModulesInSection(testActor, sec.ID, []uint{l2.ID, l1.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, moved)

	// link slots 0 and 2 swapped, child section keeps slot 1
	want := [][2]uint{
		{uint(kindLink), l2.ID},
		{uint(kindSection), child.ID},
		{uint(kindLink), l1.ID},
	}
	assert.Equal(t, want, siblingIDs(t, s, c.ID, &sec.ID))
	assertContiguous(t, s, c.ID, &sec.ID)

	t.Run("noop reports zero moved", func(t *testing.T) {
		moved, err := s.ReorderActivityModulesInSection(testActor, sec.ID, []uint{l2.ID, l1.ID})
		require.NoError(t, err)
		assert.Equal(t, 0, moved)
	})

	t.Run("incomplete list rejected", func(t *testing.T) {
		_, err := s.ReorderActivityModulesInSection(testActor, sec.ID, []uint{l1.ID})
		assert.Equal(t, KindInvalidArgument, KindOf(err))
	})

	t.Run("foreign link rejected", func(t *testing.T) {
		other := mustCreateSection(t, s, c.ID, "Week 2", nil)
		foreign := mustAddLink(t, s, m1.ID, other.ID)
		_, err := s.ReorderActivityModulesInSection(testActor, sec.ID, []uint{foreign.ID, l1.ID})
		assert.Equal(t, KindInvalidArgument, KindOf(err))
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		_, err := s.ReorderActivityModulesInSection(testActor, sec.ID, []uint{l1.ID, l1.ID})
		assert.Equal(t, KindInvalidArgument, KindOf(err))
	})

	t.Run("missing section", func(t *testing.T) {
		_, err := s.ReorderActivityModulesInSection(testActor, 9999, []uint{l1.ID})
		assert.Equal(t, KindNotFound, KindOf(err))
	})
}

func TestMoveActivityModuleBetweenSections(t *testing.T) {
	s, db := newTestService(t)
	c := seedCourse(t, db, "Module move course")
	src := mustCreateSection(t, s, c.ID, "Source", nil)
	dst := mustCreateSection(t, s, c.ID, "Destination", nil)

	m1 := seedModule(t, db, c.ID, "TEXT", "Moves")
	m2 := seedModule(t, db, c.ID, "TEXT", "Stays behind")
	m3 := seedModule(t, db, c.ID, "TEXT", "Already there")
	moving := mustAddLink(t, s, m1.ID, src.ID)
	staying := mustAddLink(t, s, m2.ID, src.ID)
	existing := mustAddLink(t, s, m3.ID, dst.ID)

	pos := 0
	moved, err := s.MoveActivityModuleBetweenSections(testActor, moving.ID, dst.ID, &pos)
	require.NoError(t, err)
	assert.Equal(t, dst.ID, moved.SectionID)
	assert.Equal(t, 0, moved.ContentOrder)

	assert.Equal(t, 1, reloadLink(t, db, existing.ID).ContentOrder)
	assert.Equal(t, 0, reloadLink(t, db, staying.ID).ContentOrder)
	assertContiguous(t, s, c.ID, &src.ID)
	assertContiguous(t, s, c.ID, &dst.ID)

	t.Run("nil position appends", func(t *testing.T) {
		back, err := s.MoveActivityModuleBetweenSections(testActor, moving.ID, src.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, src.ID, back.SectionID)
		assert.Equal(t, 1, back.ContentOrder)
	})

	t.Run("cross course section rejected", func(t *testing.T) {
		c2 := seedCourse(t, db, "Other course")
		foreign := mustCreateSection(t, s, c2.ID, "Foreign", nil)
		_, err := s.MoveActivityModuleBetweenSections(testActor, moving.ID, foreign.ID, nil)
		assert.Equal(t, KindInvalidArgument, KindOf(err))
	})

	t.Run("missing link", func(t *testing.T) {
		_, err := s.MoveActivityModuleBetweenSections(testActor, 9999, dst.ID, nil)
		assert.Equal(t, KindNotFound, KindOf(err))
	})
}
