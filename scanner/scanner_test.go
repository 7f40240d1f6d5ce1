package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// codeBytes returns the bytes of src the scanner reports as code.
func codeBytes(src string) string {
	var out []byte
	sc := New([]byte(src))
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InCode() {
			out = append(out, ch)
		}
	}
	return string(out)
}

func TestCodeScannerSkipsLiteralsAndComments(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"plain", "a[1][2]", "a[1][2]"},
		{"string", `f("[x]")+1`, "f()+1"},
		{"escaped quote", `"a\"b]"x`, "x"},
		{"char", `c = ']';`, "c = ;"},
		{"escaped char", `'\'' + 1`, " + 1"},
		{"line comment", "a // ]\nb", "a \nb"},
		{"block comment", "a /* ] */ b", "a  b"},
		{"empty block comment", "a/**/b", "ab"},
		{"slash star slash", "a/*/ ] */b", "ab"},
		{"division", "a / b", "a / b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codeBytes(tt.src))
		})
	}
}

func TestInStringAndInComment(t *testing.T) {
	sc := New([]byte(`"x"/*y*/`))
	var str, com []int
	for _, ok := sc.Next(); ok; _, ok = sc.Next() {
		if sc.InString() {
			str = append(str, sc.Pos())
		}
		if sc.InComment() {
			com = append(com, sc.Pos())
		}
	}
	assert.Equal(t, []int{0, 1, 2}, str)
	assert.Equal(t, []int{3, 4, 5, 6, 7}, com)
}

func TestNewAt(t *testing.T) {
	src := []byte("a\nb\nc")
	sc := NewAt(src, 2)
	assert.Equal(t, 1, sc.Pos())
	ch, ok := sc.Next()
	require.True(t, ok)
	assert.Equal(t, byte('b'), ch)
	assert.Equal(t, 2, sc.Pos())
}

func TestBracketPairs(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		from  int
		n     int
		inner []string
	}{
		{"two dims", "int a[2][3];", 5, 2, []string{"2", "3"}},
		{"three dims", "int a[2][3][4] = {0};", 5, 3, []string{"2", "3", "4"}},
		{"spaces and comments", "int a [ 2 ] /* [9] */ [3];", 5, 2, []string{" 2 ", "3"}},
		{"incomplete", "int a[][2];", 5, 2, []string{"", "2"}},
		{"nested size", "int a[sizeof b[0]][N];", 5, 2, []string{"sizeof b[0]", "N"}},
		{"stops at initializer", "int a[2] = {x[1]};", 5, 3, []string{"2"}},
		{"parenthesized name", "int (a)[2][3];", 6, 2, []string{"2", "3"}},
		{"limit", "int a[1][2][3];", 5, 2, []string{"1", "2"}},
		{"none", "int a;", 5, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := []byte(tt.src)
			spans := BracketPairs(src, tt.from, tt.n)
			var inner []string
			for _, sp := range spans {
				assert.Equal(t, byte('['), src[sp.Open])
				assert.Equal(t, byte(']'), src[sp.Close])
				s, e := sp.Inner()
				inner = append(inner, string(src[s:e]))
			}
			assert.Equal(t, tt.inner, inner)
		})
	}
}

func TestBracketSpanRanges(t *testing.T) {
	sp := BracketSpan{Open: 3, Close: 6}
	s, e := sp.Inner()
	assert.Equal(t, [2]int{4, 6}, [2]int{s, e})
	s, e = sp.Outer()
	assert.Equal(t, [2]int{3, 7}, [2]int{s, e})
}
