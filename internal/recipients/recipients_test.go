package recipients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	rows [][2]string
	pos  int
}

func (s *sliceSource) Next() (string, string, bool) {
	if s.pos >= len(s.rows) {
		return "", "", false
	}
	row := s.rows[s.pos]
	s.pos++
	return row[0], row[1], true
}

func TestNewSet_StartsWithOneRow(t *testing.T) {
	s := NewSet()
	assert.Equal(t, 1, s.Len())
}

func TestAddRemoveRows(t *testing.T) {
	s := NewSet()
	s.AddRow()
	s.AddRow()
	require.Equal(t, 3, s.Len())

	assert.True(t, s.RemoveRow(1))
	assert.Equal(t, 2, s.Len())

	assert.False(t, s.RemoveRow(5))
	assert.False(t, s.RemoveRow(-1))
}

func TestRemoveRow_LastRowIsNoOp(t *testing.T) {
	s := NewSet()
	assert.False(t, s.RemoveRow(0))
	assert.Equal(t, 1, s.Len())
}

func TestUpdateField(t *testing.T) {
	s := NewSet()
	require.True(t, s.UpdateField(0, FieldAddress, "juno1abc"))
	require.True(t, s.UpdateField(0, FieldAmount, "1.5"))

	row, ok := s.Row(0)
	require.True(t, ok)
	assert.Equal(t, Row{Address: "juno1abc", Amount: "1.5"}, row)

	assert.False(t, s.UpdateField(3, FieldAddress, "x"))
}

func TestMergeImported(t *testing.T) {
	s := FromRows([]Row{
		{Address: "a", Amount: "1"},
		{},
	})

	n := s.MergeImported(&sliceSource{rows: [][2]string{{"b", "2"}}})
	assert.Equal(t, 1, n)
	assert.Equal(t, []Row{
		{Address: "a", Amount: "1"},
		{Address: "b", Amount: "2"},
	}, s.Rows())
}

func TestMergeImported_KeepsPartialRows(t *testing.T) {
	s := FromRows([]Row{
		{Address: "onlyaddr"},
		{Amount: "3"},
		{},
	})

	s.MergeImported(&sliceSource{rows: [][2]string{{"c", "4"}}})
	assert.Equal(t, []Row{
		{Address: "onlyaddr"},
		{Amount: "3"},
		{Address: "c", Amount: "4"},
	}, s.Rows())
}

func TestMergeImported_EmptySourceKeepsInvariant(t *testing.T) {
	s := NewSet()
	s.MergeImported(&sliceSource{})
	assert.Equal(t, 1, s.Len(), "set must never become empty")
}

func TestComplete(t *testing.T) {
	s := FromRows([]Row{
		{Address: "a", Amount: "1"},
		{Address: "partial"},
		{Address: "b", Amount: "2"},
	})
	assert.Equal(t, []Row{
		{Address: "a", Amount: "1"},
		{Address: "b", Amount: "2"},
	}, s.Complete())
}

func TestTotal(t *testing.T) {
	s := FromRows([]Row{
		{Address: "a", Amount: "1.5"},
		{Address: "b", Amount: "2.5"},
		{Address: "c", Amount: "bogus"}, // contributes zero, row untouched
		{Address: "d"},
	})

	assert.Equal(t, "4", s.Total().String())

	row, _ := s.Row(2)
	assert.Equal(t, "bogus", row.Amount)
}

func TestTotal_ExactDecimalSummation(t *testing.T) {
	s := FromRows([]Row{
		{Address: "a", Amount: "0.1"},
		{Address: "b", Amount: "0.2"},
	})
	// 0.1 + 0.2 must be exactly 0.3, not a float artifact.
	assert.Equal(t, "0.3", s.Total().String())
}
