package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferNoEdits(t *testing.T) {
	b := NewBuffer([]byte("int a[2][3];"))
	assert.Equal(t, "int a[2][3];", string(b.Bytes()))
	assert.Equal(t, 0, b.Len())
}

func TestBufferEdits(t *testing.T) {
	src := []byte("int a[2][3];")
	b := NewBuffer(src)
	require.NoError(t, b.Remove(8, 11))
	require.NoError(t, b.Replace(6, 7, "6"))
	assert.Equal(t, "int a[6];", string(b.Bytes()))
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, "int a[2][3];", string(b.Source()), "source must not change")
}

func TestBufferInsert(t *testing.T) {
	b := NewBuffer([]byte("int a[];"))
	require.NoError(t, b.Replace(6, 6, "4"))
	assert.Equal(t, "int a[4];", string(b.Bytes()))

	// insertions at one offset keep their order
	b = NewBuffer([]byte("ab"))
	require.NoError(t, b.Replace(1, 1, "x"))
	require.NoError(t, b.Replace(1, 1, "y"))
	assert.Equal(t, "axyb", string(b.Bytes()))
}

func TestBufferInsertAroundReplacement(t *testing.T) {
	b := NewBuffer([]byte("abcd"))
	require.NoError(t, b.Replace(1, 3, "X"))
	require.NoError(t, b.Replace(1, 1, "<"))
	require.NoError(t, b.Replace(3, 3, ">"))
	assert.Equal(t, "a<X>d", string(b.Bytes()))
}

func TestBufferSupersede(t *testing.T) {
	src := []byte("x = a[a[0][1]][2];")
	b := NewBuffer(src)
	// inner use a[0][1] -> a[1]
	require.NoError(t, b.Remove(10, 13))
	require.NoError(t, b.Replace(8, 9, "1"))
	assert.Equal(t, "a[1]", b.Text(6, 13))

	// outer use replaces the whole first index, built from the current view
	require.NoError(t, b.Remove(14, 17))
	require.NoError(t, b.Replace(6, 13, "("+b.Text(6, 13)+")*3+2"))
	assert.Equal(t, "x = a[(a[1])*3+2];", string(b.Bytes()))
	assert.Equal(t, 2, b.Len())
}

func TestBufferIdenticalRangeSupersedes(t *testing.T) {
	b := NewBuffer([]byte("abc"))
	require.NoError(t, b.Replace(1, 2, "X"))
	require.NoError(t, b.Replace(1, 2, "Y"))
	assert.Equal(t, "aYc", string(b.Bytes()))
	assert.Equal(t, 1, b.Len())
}

func TestBufferOverlap(t *testing.T) {
	tests := []struct {
		name       string
		first      [2]int
		second     [2]int
		insertOnly bool
	}{
		{"partial left", [2]int{2, 6}, [2]int{0, 4}, false},
		{"partial right", [2]int{2, 6}, [2]int{4, 8}, false},
		{"inside", [2]int{2, 6}, [2]int{3, 4}, false},
		{"insert inside", [2]int{2, 6}, [2]int{4, 4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer([]byte("0123456789"))
			require.NoError(t, b.Replace(tt.first[0], tt.first[1], "_"))
			err := b.Replace(tt.second[0], tt.second[1], "-")
			assert.ErrorIs(t, err, ErrOverlap)
			assert.Equal(t, 1, b.Len(), "failed edit must not be recorded")
		})
	}
}

func TestBufferOutOfRange(t *testing.T) {
	b := NewBuffer([]byte("abc"))
	assert.Error(t, b.Replace(2, 5, "x"))
	assert.Error(t, b.Replace(-1, 1, "x"))
	assert.Error(t, b.Replace(2, 1, "x"))
	assert.Equal(t, 0, b.Len())
}

func TestBufferTextIgnoresCrossingEdits(t *testing.T) {
	b := NewBuffer([]byte("0123456789"))
	require.NoError(t, b.Replace(1, 3, "A"))
	require.NoError(t, b.Replace(5, 6, "B"))
	assert.Equal(t, "234B67", b.Text(2, 8))
	assert.Equal(t, "0A34B6789", string(b.Bytes()))
}

func TestBufferAdjacentEdits(t *testing.T) {
	b := NewBuffer([]byte("a[1][2]"))
	require.NoError(t, b.Remove(4, 7))
	require.NoError(t, b.Replace(2, 3, "5"))
	assert.Equal(t, "a[5]", string(b.Bytes()))
}
