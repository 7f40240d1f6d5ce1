package ast

import (
	"reflect"

	"modernc.org/cc/v4"
)

// Inspect traverses the tree rooted at n depth-first, calling f for each
// node. If f returns false the children of that node are skipped.
// Children are the exported node fields of a node, in field order;
// tokens are not visited.
func Inspect(n cc.Node, f func(cc.Node) bool) {
	if isNil(n) || !f(n) {
		return
	}
	v := reflect.ValueOf(n)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := range t.NumField() {
		if !t.Field(i).IsExported() {
			continue
		}
		fv := v.Field(i)
		if fv.Kind() != reflect.Pointer && fv.Kind() != reflect.Interface || fv.IsNil() {
			continue
		}
		if c, ok := fv.Interface().(cc.Node); ok {
			Inspect(c, f)
		}
	}
}

// Preorder returns the nodes of the tree rooted at n, every node ahead
// of its children.
func Preorder(n cc.Node) []cc.Node {
	var nodes []cc.Node
	Inspect(n, func(n cc.Node) bool {
		nodes = append(nodes, n)
		return true
	})
	return nodes
}

func isNil(n cc.Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
