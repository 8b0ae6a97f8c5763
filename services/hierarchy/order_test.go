package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	courseModels "lms/models/course"
)

func TestLoadSiblingsMixedOrdering(t *testing.T) {
	s, db := newTestService(t)
	c := seedCourse(t, db, "Sibling course")
	parent := mustCreateSection(t, s, c.ID, "Parent", nil)

	sub := mustCreateSection(t, s, c.ID, "Subsection", &parent.ID)
	mod := seedModule(t, db, c.ID, "VIDEO", "Clip")
	link := mustAddLink(t, s, mod.ID, parent.ID)
	sub2 := mustCreateSection(t, s, c.ID, "Another subsection", &parent.ID)

	want := [][2]uint{
		{uint(kindSection), sub.ID},
		{uint(kindLink), link.ID},
		{uint(kindSection), sub2.ID},
	}
	assert.Equal(t, want, siblingIDs(t, s, c.ID, &parent.ID))

	t.Run("root scope carries sections only", func(t *testing.T) {
		list, err := s.loadSiblings(s.db, scope{courseID: c.ID, parent: nil})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, kindSection, list[0].kind)
	})

	t.Run("colliding orders fall back to creation time", func(t *testing.T) {
		// Force a collision at slot 0 directly in storage.
		require.NoError(t, db.Model(&courseModels.Section{}).
			Where("id = ?", sub2.ID).Update("content_order", 0).Error)
		require.NoError(t, db.Model(&courseModels.SectionModuleLink{}).
			Where("id = ?", link.ID).Update("content_order", 0).Error)

		list, err := s.loadSiblings(s.db, scope{courseID: c.ID, parent: &parent.ID})
		require.NoError(t, err)
		require.Len(t, list, 3)
		// all three now collide at 0, so creation order decides
		assert.Equal(t, sub.ID, list[0].recordID())
		assert.Equal(t, link.ID, list[1].recordID())
		assert.Equal(t, sub2.ID, list[2].recordID())
	})
}

func TestNormalizeClosesGaps(t *testing.T) {
	s, db := newTestService(t)
	c := seedCourse(t, db, "Gap course")
	parent := mustCreateSection(t, s, c.ID, "Parent", nil)

	a := mustCreateSection(t, s, c.ID, "A", &parent.ID)
	b := mustCreateSection(t, s, c.ID, "B", &parent.ID)
	d := mustCreateSection(t, s, c.ID, "D", &parent.ID)

	// Leave holes the way a bad import would: 3, 7, 12.
	for i, id := range []uint{a.ID, b.ID, d.ID} {
		require.NoError(t, db.Model(&courseModels.Section{}).
			Where("id = ?", id).Update("content_order", 3+i*4).Error)
	}

	require.NoError(t, s.normalize(s.db, testActor, scope{courseID: c.ID, parent: &parent.ID}))

	assert.Equal(t, 0, reloadSection(t, db, a.ID).ContentOrder)
	assert.Equal(t, 1, reloadSection(t, db, b.ID).ContentOrder)
	assert.Equal(t, 2, reloadSection(t, db, d.ID).ContentOrder)
	assertContiguous(t, s, c.ID, &parent.ID)
}

func TestWriteOrdersSkipsUnchangedRows(t *testing.T) {
	s, db := newTestService(t)
	c := seedCourse(t, db, "Skip course")

	a := mustCreateSection(t, s, c.ID, "A", nil)
	b := mustCreateSection(t, s, c.ID, "B", nil)
	beforeA := reloadSection(t, db, a.ID).UpdatedAt
	beforeB := reloadSection(t, db, b.ID).UpdatedAt

	// Only B is out of place; normalizing must not touch A's row.
	require.NoError(t, db.Model(&courseModels.Section{}).
		Where("id = ?", b.ID).Update("content_order", 5).Error)

	require.NoError(t, s.normalize(s.db, testActor, scope{courseID: c.ID, parent: nil}))

	assert.Equal(t, beforeA, reloadSection(t, db, a.ID).UpdatedAt)
	assert.NotEqual(t, beforeB, reloadSection(t, db, b.ID).UpdatedAt)
	assert.Equal(t, 1, reloadSection(t, db, b.ID).ContentOrder)
}

func TestSiblingListHelpers(t *testing.T) {
	sec := func(id uint) sibling {
		return sectionEntry(&courseModels.Section{Model: gorm.Model{ID: id}})
	}
	lnk := func(id uint) sibling {
		return linkEntry(&courseModels.SectionModuleLink{Model: gorm.Model{ID: id}})
	}

	list := []sibling{sec(1), lnk(2), sec(3)}

	t.Run("remove matches kind and id", func(t *testing.T) {
		out := removeSibling([]sibling{sec(1), lnk(2), sec(3)}, kindLink, 2)
		require.Len(t, out, 2)
		// same id, different kind: untouched
		out = removeSibling([]sibling{sec(2), lnk(2)}, kindSection, 2)
		require.Len(t, out, 1)
		assert.Equal(t, kindLink, out[0].kind)
	})

	t.Run("index of", func(t *testing.T) {
		assert.Equal(t, 1, indexOfSibling(list, kindLink, 2))
		assert.Equal(t, -1, indexOfSibling(list, kindSection, 2))
	})

	t.Run("insert clamps position", func(t *testing.T) {
		out := insertSibling([]sibling{sec(1), sec(2)}, lnk(9), 99)
		require.Len(t, out, 3)
		assert.Equal(t, uint(9), out[2].recordID())

		out = insertSibling([]sibling{sec(1), sec(2)}, lnk(9), -5)
		assert.Equal(t, uint(9), out[0].recordID())
	})

	t.Run("clamp pos", func(t *testing.T) {
		assert.Equal(t, 0, clampPos(-3, 5))
		assert.Equal(t, 2, clampPos(2, 5))
		assert.Equal(t, 5, clampPos(atEnd, 5))
	})

	t.Run("same scope", func(t *testing.T) {
		p1, p2 := uint(1), uint(1)
		assert.True(t, sameScope(scope{1, nil}, scope{1, nil}))
		assert.True(t, sameScope(scope{1, &p1}, scope{1, &p2}))
		assert.False(t, sameScope(scope{1, &p1}, scope{1, nil}))
		assert.False(t, sameScope(scope{1, nil}, scope{2, nil}))
	})
}
