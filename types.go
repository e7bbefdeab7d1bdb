// types.go — unified type descriptors shared by all three dialects.
//
// TypeInfo is a flat, declaration-level description of a type: enough for
// symbol resolution, overload disambiguation, and literal compatibility
// checks. It is deliberately not a full type system — no template
// instantiation, no structural typing — matching the front end's scope.
package wscript

import (
	"fmt"
	"strings"
)

// TypeInfo describes a declared type in any dialect.
type TypeInfo struct {
	Name         string // base name: "int", "Player", "string", "T", ...
	IsPointer    bool
	IsReference  bool
	IsArray      bool
	ArraySize    int // -1 when unsized ([] / [])
	IsConst      bool
	IsVolatile   bool
	TemplateArgs []TypeInfo // vector<Enemy> -> ["Enemy"]
}

// IsZero reports an absent type annotation (untyped `let x = ...`).
func (t TypeInfo) IsZero() bool { return t.Name == "" }

// String renders the type in a C++-leaning spelling, good enough for
// diagnostics and hover text.
func (t TypeInfo) String() string {
	var b strings.Builder
	if t.IsConst {
		b.WriteString("const ")
	}
	if t.IsVolatile {
		b.WriteString("volatile ")
	}
	b.WriteString(t.Name)
	if len(t.TemplateArgs) > 0 {
		parts := make([]string, len(t.TemplateArgs))
		for i, a := range t.TemplateArgs {
			parts[i] = a.String()
		}
		fmt.Fprintf(&b, "<%s>", strings.Join(parts, ", "))
	}
	if t.IsPointer {
		b.WriteString("*")
	}
	if t.IsReference {
		b.WriteString("&")
	}
	if t.IsArray {
		if t.ArraySize > 0 {
			fmt.Fprintf(&b, "[%d]", t.ArraySize)
		} else {
			b.WriteString("[]")
		}
	}
	return b.String()
}

// Same reports exact equality of type shape: name, pointer/reference/array
// flags and constness all participate, which is also the overload
// disambiguation criterion.
func (t TypeInfo) Same(o TypeInfo) bool {
	if t.Name != o.Name ||
		t.IsPointer != o.IsPointer ||
		t.IsReference != o.IsReference ||
		t.IsArray != o.IsArray ||
		t.IsConst != o.IsConst {
		return false
	}
	if len(t.TemplateArgs) != len(o.TemplateArgs) {
		return false
	}
	for i := range t.TemplateArgs {
		if !t.TemplateArgs[i].Same(o.TemplateArgs[i]) {
			return false
		}
	}
	return true
}

// numericRank orders the numeric families for widening checks. Zero means
// "not numeric".
func numericRank(name string) int {
	switch name {
	case "char", "short":
		return 1
	case "int", "long", "size_t", "unsigned", "signed":
		return 2
	case "float":
		return 3
	case "double", "number":
		return 4
	default:
		return 0
	}
}

// AssignableFrom reports whether a value of type `from` may initialize or be
// passed as `t`. The rules are deliberately permissive across dialects:
//
//   - identical shapes are assignable
//   - "any"/"unknown"/"auto" and untyped targets accept everything
//   - numeric widening is allowed (int -> float -> double); narrowing is not
//   - null assigns to pointers and to any named (non-primitive) type
//   - string/boolean aliases unify across dialects (string == char*,
//     bool == boolean)
func (t TypeInfo) AssignableFrom(from TypeInfo) bool {
	if t.IsZero() || from.IsZero() {
		return true
	}
	if t.Name == "any" || t.Name == "unknown" || t.Name == "auto" || from.Name == "any" {
		return true
	}
	if t.Same(from) {
		return true
	}
	// same base name, differing qualifiers: allow const/value adjustments
	if t.Name == from.Name && t.IsPointer == from.IsPointer && t.IsArray == from.IsArray {
		return true
	}
	// null literal into pointers and user types
	if from.Name == "null" {
		return t.IsPointer || numericRank(t.Name) == 0
	}
	// numeric widening
	if tr, fr := numericRank(t.Name), numericRank(from.Name); tr > 0 && fr > 0 {
		return tr >= fr
	}
	// cross-dialect aliases
	if isStringy(t) && isStringy(from) {
		return true
	}
	if isBoolish(t.Name) && isBoolish(from.Name) {
		return true
	}
	return false
}

func isStringy(t TypeInfo) bool {
	if t.Name == "string" {
		return true
	}
	return t.Name == "char" && (t.IsPointer || t.IsArray)
}

func isBoolish(name string) bool { return name == "bool" || name == "boolean" }

// FunctionSignature describes a function-shaped declaration.
type FunctionSignature struct {
	Return         TypeInfo
	Params         []Param
	IsVirtual      bool
	IsOverride     bool
	IsFinal        bool
	IsAsync        bool
	TemplateParams []string
}

// String renders `(int a, float b) -> void` style signatures.
func (s *FunctionSignature) String() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		if p.Name != "" && !p.Type.IsZero() {
			parts[i] = fmt.Sprintf("%s %s", p.Type, p.Name)
		} else if p.Name != "" {
			parts[i] = p.Name
		} else {
			parts[i] = p.Type.String()
		}
	}
	ret := s.Return.String()
	if s.Return.IsZero() {
		ret = "void"
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), ret)
}

// SameShape reports whether two signatures collide for overload purposes:
// equal parameter count and pairwise Same parameter types. Parameter names,
// return type and modifiers do not participate.
func (s *FunctionSignature) SameShape(o *FunctionSignature) bool {
	if len(s.Params) != len(o.Params) {
		return false
	}
	for i := range s.Params {
		if !s.Params[i].Type.Same(o.Params[i].Type) {
			return false
		}
	}
	return true
}

// AcceptsArgs reports whether the signature can be called with the given
// argument types. Arguments beyond the last non-defaulted parameter may be
// omitted; unknown (zero) argument types match anything.
func (s *FunctionSignature) AcceptsArgs(args []TypeInfo) bool {
	required := 0
	for i, p := range s.Params {
		if !p.HasDefault && !p.Optional {
			required = i + 1
		}
	}
	if len(args) < required || len(args) > len(s.Params) {
		return false
	}
	for i, a := range args {
		if !s.Params[i].Type.AssignableFrom(a) {
			return false
		}
	}
	return true
}
