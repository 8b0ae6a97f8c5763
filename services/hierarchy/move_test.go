package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneralMoveValidation(t *testing.T) {
	s, db := newTestService(t)
	c := seedCourse(t, db, "Validation course")
	sec := mustCreateSection(t, s, c.ID, "Section", nil)
	mustCreateSection(t, s, c.ID, "Sibling", nil)
	mod := seedModule(t, db, c.ID, "TEXT", "Reading")
	link := mustAddLink(t, s, mod.ID, sec.ID)

	t.Run("unknown source type", func(t *testing.T) {
		_, err := s.GeneralMove(testActor, NodeRef{Type: "folder", ID: sec.ID}, secRef(sec.ID), LocationAbove)
		assert.Equal(t, KindInvalidArgument, KindOf(err))
	})

	t.Run("unknown location", func(t *testing.T) {
		_, err := s.GeneralMove(testActor, secRef(sec.ID), secRef(sec.ID), "beside")
		assert.Equal(t, KindInvalidArgument, KindOf(err))
	})

	t.Run("source equals target", func(t *testing.T) {
		_, err := s.GeneralMove(testActor, secRef(sec.ID), secRef(sec.ID), LocationAbove)
		assert.Equal(t, KindInvalidArgument, KindOf(err))
	})

	t.Run("inside an activity module", func(t *testing.T) {
		_, err := s.GeneralMove(testActor, secRef(sec.ID), linkRef(link.ID), LocationInside)
		require.Error(t, err)
		assert.Equal(t, KindInvalidOperation, KindOf(err))
		assert.Contains(t, err.Error(), "inside an activity module")
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := s.GeneralMove(testActor, secRef(9999), secRef(sec.ID), LocationAbove)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := s.GeneralMove(testActor, secRef(sec.ID), secRef(9999), LocationAbove)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("cross course move", func(t *testing.T) {
		c2 := seedCourse(t, db, "Other course")
		foreign := mustCreateSection(t, s, c2.ID, "Foreign", nil)
		_, err := s.GeneralMove(testActor, secRef(sec.ID), secRef(foreign.ID), LocationAbove)
		assert.Equal(t, KindInvalidArgument, KindOf(err))
	})

	t.Run("link above a root section", func(t *testing.T) {
		_, err := s.GeneralMove(testActor, linkRef(link.ID), secRef(sec.ID), LocationAbove)
		require.Error(t, err)
		assert.Equal(t, KindInvalidOperation, KindOf(err))
		assert.Contains(t, err.Error(), "inside a section")
	})
}

func TestGeneralMoveSections(t *testing.T) {
	s, db := newTestService(t)
	c := seedCourse(t, db, "Section move course")

	a := mustCreateSection(t, s, c.ID, "A", nil)
	b := mustCreateSection(t, s, c.ID, "B", nil)
	d := mustCreateSection(t, s, c.ID, "D", nil)

	t.Run("above within same parent", func(t *testing.T) {
		res, err := s.GeneralMove(testActor, secRef(d.ID), secRef(a.ID), LocationAbove)
		require.NoError(t, err)
		require.NotNil(t, res.Section)
		assert.Equal(t, NodeSection, res.Type)
		assert.Equal(t, 0, res.Section.ContentOrder)

		want := [][2]uint{
			{uint(kindSection), d.ID},
			{uint(kindSection), a.ID},
			{uint(kindSection), b.ID},
		}
		assert.Equal(t, want, siblingIDs(t, s, c.ID, nil))
	})

	t.Run("below within same parent", func(t *testing.T) {
		_, err := s.GeneralMove(testActor, secRef(d.ID), secRef(a.ID), LocationBelow)
		require.NoError(t, err)
		want := [][2]uint{
			{uint(kindSection), a.ID},
			{uint(kindSection), d.ID},
			{uint(kindSection), b.ID},
		}
		assert.Equal(t, want, siblingIDs(t, s, c.ID, nil))
		assertContiguous(t, s, c.ID, nil)
	})

	t.Run("inside reparents at the end", func(t *testing.T) {
		existing := mustCreateSection(t, s, c.ID, "Existing child", &b.ID)
		res, err := s.GeneralMove(testActor, secRef(d.ID), secRef(b.ID), LocationInside)
		require.NoError(t, err)
		assert.Equal(t, b.ID, *res.Section.ParentSectionID)
		assert.Equal(t, 1, res.Section.ContentOrder)
		assert.Equal(t, 0, reloadSection(t, db, existing.ID).ContentOrder)
		assertContiguous(t, s, c.ID, nil)
		assertContiguous(t, s, c.ID, &b.ID)
	})

	t.Run("above in a different parent reparents", func(t *testing.T) {
		// d currently lives under b; drag it above a at root level
		res, err := s.GeneralMove(testActor, secRef(d.ID), secRef(a.ID), LocationAbove)
		require.NoError(t, err)
		assert.Nil(t, res.Section.ParentSectionID)
		assert.Equal(t, 0, res.Section.ContentOrder)
		assertContiguous(t, s, c.ID, nil)
		assertContiguous(t, s, c.ID, &b.ID)
	})

	t.Run("into own descendant rejected", func(t *testing.T) {
		child := mustCreateSection(t, s, c.ID, "Child of A", &a.ID)
		_, err := s.GeneralMove(testActor, secRef(a.ID), secRef(child.ID), LocationInside)
		require.Error(t, err)
		assert.Equal(t, KindInvalidOperation, KindOf(err))
		assert.Contains(t, err.Error(), "circular")
		assert.Nil(t, reloadSection(t, db, a.ID).ParentSectionID)
	})

	t.Run("above own descendant rejected", func(t *testing.T) {
		child := mustCreateSection(t, s, c.ID, "Another child of A", &a.ID)
		grand := mustCreateSection(t, s, c.ID, "Grandchild", &child.ID)
		_, err := s.GeneralMove(testActor, secRef(a.ID), secRef(grand.ID), LocationAbove)
		require.Error(t, err)
		assert.Equal(t, KindInvalidOperation, KindOf(err))
	})
}

func TestGeneralMoveLinks(t *testing.T) {
	s, db := newTestService(t)
	c := seedCourse(t, db, "Link move course")
	week1 := mustCreateSection(t, s, c.ID, "Week 1", nil)
	week2 := mustCreateSection(t, s, c.ID, "Week 2", nil)

	video := seedModule(t, db, c.ID, "VIDEO", "Lecture")
	quiz := seedModule(t, db, c.ID, "QUIZ", "Quiz")
	text := seedModule(t, db, c.ID, "TEXT", "Notes")
	lv := mustAddLink(t, s, video.ID, week1.ID)
	lq := mustAddLink(t, s, quiz.ID, week1.ID)
	lt := mustAddLink(t, s, text.ID, week2.ID)

	t.Run("link above link in same section", func(t *testing.T) {
		res, err := s.GeneralMove(testActor, linkRef(lq.ID), linkRef(lv.ID), LocationAbove)
		require.NoError(t, err)
		require.NotNil(t, res.Link)
		assert.Equal(t, NodeActivityModule, res.Type)
		assert.Equal(t, 0, res.Link.ContentOrder)
		assert.Equal(t, 1, reloadLink(t, db, lv.ID).ContentOrder)
	})

	t.Run("link below link in another section", func(t *testing.T) {
		res, err := s.GeneralMove(testActor, linkRef(lv.ID), linkRef(lt.ID), LocationBelow)
		require.NoError(t, err)
		assert.Equal(t, week2.ID, res.Link.SectionID)
		assert.Equal(t, 1, res.Link.ContentOrder)
		assertContiguous(t, s, c.ID, &week1.ID)
		assertContiguous(t, s, c.ID, &week2.ID)
	})

	t.Run("link inside a section appends", func(t *testing.T) {
		res, err := s.GeneralMove(testActor, linkRef(lv.ID), secRef(week1.ID), LocationInside)
		require.NoError(t, err)
		assert.Equal(t, week1.ID, res.Link.SectionID)
		assert.Equal(t, 1, res.Link.ContentOrder) // after lq
	})

	t.Run("section above a link lands in that section", func(t *testing.T) {
		sub := mustCreateSection(t, s, c.ID, "Subsection", &week2.ID)
		_, err := s.GeneralMove(testActor, secRef(sub.ID), linkRef(lt.ID), LocationAbove)
		require.NoError(t, err)
		got := reloadSection(t, db, sub.ID)
		require.NotNil(t, got.ParentSectionID)
		assert.Equal(t, week2.ID, *got.ParentSectionID)
		assert.Equal(t, 0, got.ContentOrder)
		assert.Equal(t, 1, reloadLink(t, db, lt.ID).ContentOrder)
		assertContiguous(t, s, c.ID, &week2.ID)
	})
}

// Dragging a quiz from the bottom of one section above a video in a
// sibling section, then the whole section above another: the flow a
// course editor produces.
func TestGeneralMoveEndToEnd(t *testing.T) {
	s, db := newTestService(t)
	c := seedCourse(t, db, "Editor flow")

	basics := mustCreateSection(t, s, c.ID, "Basics", nil)
	advanced := mustCreateSection(t, s, c.ID, "Advanced", nil)

	intro := seedModule(t, db, c.ID, "VIDEO", "Intro")
	deepDive := seedModule(t, db, c.ID, "VIDEO", "Deep dive")
	finalQuiz := seedModule(t, db, c.ID, "QUIZ", "Final quiz")
	lIntro := mustAddLink(t, s, intro.ID, basics.ID)
	lDeep := mustAddLink(t, s, deepDive.ID, advanced.ID)
	lFinal := mustAddLink(t, s, finalQuiz.ID, advanced.ID)

	// quiz moves above the video in Advanced
	_, err := s.GeneralMove(testActor, linkRef(lFinal.ID), linkRef(lDeep.ID), LocationAbove)
	require.NoError(t, err)

	// Advanced moves above Basics
	_, err = s.GeneralMove(testActor, secRef(advanced.ID), secRef(basics.ID), LocationAbove)
	require.NoError(t, err)

	structure, err := s.GetCourseStructure(testActor, c.ID)
	require.NoError(t, err)
	require.Len(t, structure.Content, 2)
	assert.Equal(t, advanced.ID, structure.Content[0].ID)
	assert.Equal(t, basics.ID, structure.Content[1].ID)

	adv := structure.Content[0]
	require.Len(t, adv.Content, 2)
	assert.Equal(t, finalQuiz.ID, adv.Content[0].ActivityModuleID)
	assert.Equal(t, deepDive.ID, adv.Content[1].ActivityModuleID)
	require.Len(t, structure.Content[1].Content, 1)
	assert.Equal(t, lIntro.ID, structure.Content[1].Content[0].ID)
	assert.Equal(t, intro.ID, structure.Content[1].Content[0].ActivityModuleID)
}
