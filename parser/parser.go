// Package parser turns C source into a type checked ast.File using the
// modernc.org/cc/v4 front end.
//
// The target is fixed to linux/amd64 so that sizes, and with them array
// extents written with sizeof, do not depend on the host. The input is
// expected to be preprocessed already, which is what a reduction run
// works on: macros defined in the input are expanded, but #include
// directives fail.
package parser

import (
	"strings"
	"sync"

	"modernc.org/cc/v4"

	"github.com/rubiojr/cdelta/ast"
)

// predefined are the macros a C99 compiler for the target defines, plus
// the ones cc.Builtin relies on.
const predefined = `#define __STDC__ 1
#define __STDC_VERSION__ 199901L
#define __STDC_HOSTED__ 1
#define __CHAR_BIT__ 8
#define __SIZE_TYPE__ unsigned long
#define __PTRDIFF_TYPE__ long
#define __WCHAR_TYPE__ int
#define __UINT16_TYPE__ unsigned short
#define __UINT32_TYPE__ unsigned int
#define __UINT64_TYPE__ unsigned long
#define __x86_64__ 1
#define __linux__ 1
`

var targetABI = sync.OnceValues(func() (*cc.ABI, error) {
	return cc.NewABI("linux", "amd64")
})

// ParseFile preprocesses, parses and type checks the translation unit
// src. The returned error, if any, is an ErrorList.
func ParseFile(name string, src []byte) (*ast.File, error) {
	abi, err := targetABI()
	if err != nil {
		return nil, ErrorList{{Msg: err.Error()}}
	}
	cfg := &cc.Config{
		ABI:             abi,
		DefaultSizeT:    cc.ULong,
		DefaultPtrdiffT: cc.Long,
		DefaultWcharT:   cc.Int,
	}
	// The input goes in as a string: cc appends to a []byte value.
	tu, err := cc.Translate(cfg, []cc.Source{
		{Name: ast.PredefinedSource, Value: predefined},
		{Name: ast.BuiltinSource, Value: cc.Builtin},
		{Name: name, Value: string(src)},
	})
	if err != nil {
		return nil, errorList(err)
	}
	return &ast.File{Name: name, Src: src, AST: tu}, nil
}

// errorList converts the newline separated report of cc into an
// ErrorList.
func errorList(err error) ErrorList {
	var list ErrorList
	for _, line := range strings.Split(err.Error(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			list = append(list, newError(line))
		}
	}
	if len(list) == 0 {
		list = append(list, &Error{Msg: err.Error()})
	}
	return list
}
