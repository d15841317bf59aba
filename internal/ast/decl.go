package ast

// FnArgsKind distinguishes the single-argument fast path from argument lists.
type FnArgsKind uint8

const (
	FnArgsSingle FnArgsKind = iota
	FnArgsMany
)

func (k FnArgsKind) String() string {
	switch k {
	case FnArgsSingle:
		return "Single"
	case FnArgsMany:
		return "Many"
	default:
		return "Unknown"
	}
}

// FnArgs is a function parameter list. ID is set for FnArgsSingle, IDs for
// FnArgsMany (at most MaxFnArgs entries, possibly none).
type FnArgs struct {
	Kind FnArgsKind
	ID   Ident
	IDs  []Ident
}

// SingleArg returns a one-parameter list.
func SingleArg(id Ident) FnArgs { return FnArgs{Kind: FnArgsSingle, ID: id} }

// ManyArgs returns a parameter list of arbitrary length.
func ManyArgs(ids ...Ident) FnArgs {
	if ids == nil {
		ids = []Ident{}
	}
	return FnArgs{Kind: FnArgsMany, IDs: ids}
}

// Params returns the parameter identifiers regardless of kind.
func (a FnArgs) Params() []Ident {
	if a.Kind == FnArgsSingle {
		return []Ident{a.ID}
	}
	return a.IDs
}

// DeclKind enumerates top-level declaration kinds. Values match the wire tags.
type DeclKind uint8

const (
	DeclFn DeclKind = iota
	DeclBind
)

// String returns the name used by the tree printer.
func (k DeclKind) String() string {
	switch k {
	case DeclFn:
		return "Fn"
	case DeclBind:
		return "Bind"
	default:
		return "Unknown"
	}
}

// Decl is a top-level declaration. For DeclFn, Body is the function body and
// Args its parameters; for DeclBind, Body is the bound value and Args is unused.
type Decl struct {
	Kind   DeclKind
	Offset int64
	ID     Ident
	Args   FnArgs
	Body   *Expr
}

// Program is the decoded root: declarations in stream order.
type Program struct {
	Decls []Decl
}
