package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWouldCreateCycle(t *testing.T) {
	s, db := newTestService(t)
	c := seedCourse(t, db, "Go from scratch")

	root := mustCreateSection(t, s, c.ID, "Root", nil)
	child := mustCreateSection(t, s, c.ID, "Child", &root.ID)
	grandchild := mustCreateSection(t, s, c.ID, "Grandchild", &child.ID)
	other := mustCreateSection(t, s, c.ID, "Other root", nil)

	t.Run("self parenting", func(t *testing.T) {
		cyc, err := s.wouldCreateCycle(db, root.ID, root.ID)
		require.NoError(t, err)
		assert.True(t, cyc)
	})

	t.Run("direct child", func(t *testing.T) {
		cyc, err := s.wouldCreateCycle(db, root.ID, child.ID)
		require.NoError(t, err)
		assert.True(t, cyc)
	})

	t.Run("deep descendant", func(t *testing.T) {
		cyc, err := s.wouldCreateCycle(db, root.ID, grandchild.ID)
		require.NoError(t, err)
		assert.True(t, cyc)
	})

	t.Run("unrelated section is safe", func(t *testing.T) {
		cyc, err := s.wouldCreateCycle(db, root.ID, other.ID)
		require.NoError(t, err)
		assert.False(t, cyc)
	})

	t.Run("moving leaf up is safe", func(t *testing.T) {
		cyc, err := s.wouldCreateCycle(db, grandchild.ID, root.ID)
		require.NoError(t, err)
		assert.False(t, cyc)
	})
}

func TestWouldCreateCycleTerminatesOnCorruptChain(t *testing.T) {
	s, db := newTestService(t)
	c := seedCourse(t, db, "Corrupted")

	a := mustCreateSection(t, s, c.ID, "A", nil)
	b := mustCreateSection(t, s, c.ID, "B", &a.ID)
	// Corrupt the chain directly in storage: A points back to B.
	require.NoError(t, db.Model(a).Update("parent_section_id", b.ID).Error)

	outsider := mustCreateSection(t, s, c.ID, "Outsider", nil)
	_, err := s.wouldCreateCycle(db, outsider.ID, a.ID)
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
}

func TestValidateNoCircularReference(t *testing.T) {
	s, db := newTestService(t)
	c := seedCourse(t, db, "Validation course")
	c2 := seedCourse(t, db, "Another course")

	root := mustCreateSection(t, s, c.ID, "Root", nil)
	child := mustCreateSection(t, s, c.ID, "Child", &root.ID)
	foreign := mustCreateSection(t, s, c2.ID, "Foreign", nil)

	t.Run("safe nesting passes", func(t *testing.T) {
		assert.NoError(t, s.ValidateNoCircularReference(testActor, child.ID, root.ID))
	})

	t.Run("self parenting rejected", func(t *testing.T) {
		err := s.ValidateNoCircularReference(testActor, root.ID, root.ID)
		require.Error(t, err)
		assert.Equal(t, KindInvalidOperation, KindOf(err))
		assert.Contains(t, err.Error(), "circular")
	})

	t.Run("descendant parent rejected", func(t *testing.T) {
		err := s.ValidateNoCircularReference(testActor, root.ID, child.ID)
		require.Error(t, err)
		assert.Equal(t, KindInvalidOperation, KindOf(err))
		assert.Contains(t, err.Error(), "circular")
	})

	t.Run("missing section", func(t *testing.T) {
		err := s.ValidateNoCircularReference(testActor, 9999, root.ID)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("cross course", func(t *testing.T) {
		err := s.ValidateNoCircularReference(testActor, child.ID, foreign.ID)
		assert.Equal(t, KindInvalidArgument, KindOf(err))
	})
}
