package codegen

import (
	"github.com/lumenlang/lumen/ast"
	"github.com/lumenlang/lumen/errors"
)

// SizeOf computes a type's size in bytes per spec.md §4.4's size table:
// used for field layout, stack-slot allocation, and operand-width
// selection. declaredTypes resolves KindAlias by name. Fatal (SizeError)
// for void, for a struct or union with no fields (the `struct;`/`union;`
// forms), and for any kind outside the fixed table — there is no
// recoverable "unknown size" in this compiler.
func SizeOf(t *ast.Type, declaredTypes *ast.DeclaredTypes) int64 {
	if t == nil || t.Kind == ast.KindVoid {
		panic(errors.New(errors.SizeError, "Cannot get size of incomplete type", 0, ""))
	}
	switch t.Kind {
	case ast.KindAlias:
		target, isIncomplete, found := declaredTypes.Lookup(t.Identifier)
		if !found || isIncomplete {
			panic(errors.New(errors.SizeError, "Cannot get size of incomplete type", 0, t.Identifier))
		}
		return SizeOf(target, declaredTypes)
	case ast.KindBoolean, ast.KindChar, ast.KindByte:
		return 1
	case ast.KindFloat, ast.KindInt, ast.KindUint:
		return 4
	case ast.KindDouble, ast.KindLong, ast.KindUlong, ast.KindInterface, ast.KindPointer, ast.KindString:
		return 8
	case ast.KindStruct:
		if len(t.Fields) == 0 {
			panic(errors.New(errors.SizeError, "Cannot get size of incomplete type", 0, ""))
		}
		var acc int64
		for _, field := range t.Fields {
			acc += SizeOf(field.Type, declaredTypes)
		}
		return acc
	case ast.KindUnion:
		if len(t.Fields) == 0 {
			panic(errors.New(errors.SizeError, "Cannot get size of incomplete type", 0, ""))
		}
		var max int64 = -1
		for _, field := range t.Fields {
			if sz := SizeOf(field.Type, declaredTypes); sz > max {
				max = sz
			}
		}
		return max
	default:
		panic(errors.New(errors.SizeError, "Cannot get size of non-existent type", 0, ""))
	}
}
