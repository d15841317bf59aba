package ast

// ExprKind enumerates expression kinds. Values match the wire tags.
type ExprKind uint8

const (
	// ExprFor iterates Iter, binding each element to ID while evaluating Body.
	ExprFor ExprKind = iota
	// ExprBind introduces ID = Value in scope of Body.
	ExprBind
	// ExprAssign stores Value into an existing slot.
	ExprAssign
	// ExprIf is a three-way conditional.
	ExprIf
	// ExprCall applies Callee to Args in order.
	ExprCall
	// ExprAnd short-circuits over its operands.
	ExprAnd
	// ExprOr short-circuits over its operands.
	ExprOr
	// ExprSequence evaluates its elements in order.
	ExprSequence
	// ExprList builds a list value.
	ExprList
	// ExprLiteral wraps a Literal.
	ExprLiteral
	// ExprBuiltin references a primitive operation.
	ExprBuiltin
	// ExprIdent references a slot.
	ExprIdent

	// ExprKindCount is the number of expression kinds.
	ExprKindCount
)

// String returns the upper-case kind name used by the tree printer.
func (k ExprKind) String() string {
	switch k {
	case ExprFor:
		return "FOR"
	case ExprBind:
		return "BIND"
	case ExprAssign:
		return "ASSIGN"
	case ExprIf:
		return "IF"
	case ExprCall:
		return "CALL"
	case ExprAnd:
		return "AND"
	case ExprOr:
		return "OR"
	case ExprSequence:
		return "SEQUENCE"
	case ExprList:
		return "LIST"
	case ExprLiteral:
		return "LITERAL"
	case ExprBuiltin:
		return "BUILTIN"
	case ExprIdent:
		return "IDENT"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is a defined expression kind.
func (k ExprKind) Valid() bool {
	return k < ExprKindCount
}

// Expr is an expression node. Children are owned exclusively by their parent.
type Expr struct {
	Kind   ExprKind
	Offset int64    // stream offset of the tag byte
	Data   ExprData // kind-specific payload
}

// ExprData is the closed set of expression payloads.
type ExprData interface {
	exprData()
	kind() ExprKind
}

// ForData holds data for ExprFor.
type ForData struct {
	ID   Ident
	Iter *Expr
	Body *Expr
}

// BindData holds data for ExprBind.
type BindData struct {
	ID    Ident
	Value *Expr
	Body  *Expr
}

// AssignData holds data for ExprAssign.
type AssignData struct {
	ID    Ident
	Value *Expr
}

// IfData holds data for ExprIf.
type IfData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

// CallData holds data for ExprCall.
type CallData struct {
	Callee *Expr
	Args   []*Expr
}

// AndData holds data for ExprAnd.
type AndData struct {
	Operands []*Expr
}

// OrData holds data for ExprOr.
type OrData struct {
	Operands []*Expr
}

// SequenceData holds data for ExprSequence.
type SequenceData struct {
	Elems []*Expr
}

// ListData holds data for ExprList.
type ListData struct {
	Elems []*Expr
}

// LiteralData holds data for ExprLiteral.
type LiteralData struct {
	Literal Literal
}

// BuiltinData holds data for ExprBuiltin.
type BuiltinData struct {
	Builtin Builtin
}

// IdentData holds data for ExprIdent.
type IdentData struct {
	ID Ident
}

func (ForData) exprData()      {}
func (BindData) exprData()     {}
func (AssignData) exprData()   {}
func (IfData) exprData()       {}
func (CallData) exprData()     {}
func (AndData) exprData()      {}
func (OrData) exprData()       {}
func (SequenceData) exprData() {}
func (ListData) exprData()     {}
func (LiteralData) exprData()  {}
func (BuiltinData) exprData()  {}
func (IdentData) exprData()    {}

func (ForData) kind() ExprKind      { return ExprFor }
func (BindData) kind() ExprKind     { return ExprBind }
func (AssignData) kind() ExprKind   { return ExprAssign }
func (IfData) kind() ExprKind       { return ExprIf }
func (CallData) kind() ExprKind     { return ExprCall }
func (AndData) kind() ExprKind      { return ExprAnd }
func (OrData) kind() ExprKind       { return ExprOr }
func (SequenceData) kind() ExprKind { return ExprSequence }
func (ListData) kind() ExprKind     { return ExprList }
func (LiteralData) kind() ExprKind  { return ExprLiteral }
func (BuiltinData) kind() ExprKind  { return ExprBuiltin }
func (IdentData) kind() ExprKind    { return ExprIdent }

// NewExpr wraps a payload, deriving Kind from it so the two can never disagree.
func NewExpr(offset int64, data ExprData) *Expr {
	return &Expr{Kind: data.kind(), Offset: offset, Data: data}
}

// For returns the payload of an ExprFor node.
func (e *Expr) For() (ForData, bool) {
	d, ok := e.Data.(ForData)
	return d, ok && e.Kind == ExprFor
}

// Bind returns the payload of an ExprBind node.
func (e *Expr) Bind() (BindData, bool) {
	d, ok := e.Data.(BindData)
	return d, ok && e.Kind == ExprBind
}

// Assign returns the payload of an ExprAssign node.
func (e *Expr) Assign() (AssignData, bool) {
	d, ok := e.Data.(AssignData)
	return d, ok && e.Kind == ExprAssign
}

// If returns the payload of an ExprIf node.
func (e *Expr) If() (IfData, bool) {
	d, ok := e.Data.(IfData)
	return d, ok && e.Kind == ExprIf
}

// Call returns the payload of an ExprCall node.
func (e *Expr) Call() (CallData, bool) {
	d, ok := e.Data.(CallData)
	return d, ok && e.Kind == ExprCall
}

// And returns the payload of an ExprAnd node.
func (e *Expr) And() (AndData, bool) {
	d, ok := e.Data.(AndData)
	return d, ok && e.Kind == ExprAnd
}

// Or returns the payload of an ExprOr node.
func (e *Expr) Or() (OrData, bool) {
	d, ok := e.Data.(OrData)
	return d, ok && e.Kind == ExprOr
}

// Sequence returns the payload of an ExprSequence node.
func (e *Expr) Sequence() (SequenceData, bool) {
	d, ok := e.Data.(SequenceData)
	return d, ok && e.Kind == ExprSequence
}

// List returns the payload of an ExprList node.
func (e *Expr) List() (ListData, bool) {
	d, ok := e.Data.(ListData)
	return d, ok && e.Kind == ExprList
}

// Literal returns the payload of an ExprLiteral node.
func (e *Expr) Literal() (LiteralData, bool) {
	d, ok := e.Data.(LiteralData)
	return d, ok && e.Kind == ExprLiteral
}

// Builtin returns the payload of an ExprBuiltin node.
func (e *Expr) Builtin() (BuiltinData, bool) {
	d, ok := e.Data.(BuiltinData)
	return d, ok && e.Kind == ExprBuiltin
}

// Ident returns the payload of an ExprIdent node.
func (e *Expr) Ident() (IdentData, bool) {
	d, ok := e.Data.(IdentData)
	return d, ok && e.Kind == ExprIdent
}

// Children returns the direct sub-expressions of e in field order.
func (e *Expr) Children() []*Expr {
	if e == nil {
		return nil
	}
	switch data := e.Data.(type) {
	case ForData:
		return []*Expr{data.Iter, data.Body}
	case BindData:
		return []*Expr{data.Value, data.Body}
	case AssignData:
		return []*Expr{data.Value}
	case IfData:
		return []*Expr{data.Cond, data.Then, data.Else}
	case CallData:
		out := make([]*Expr, 0, len(data.Args)+1)
		out = append(out, data.Callee)
		return append(out, data.Args...)
	case AndData:
		return data.Operands
	case OrData:
		return data.Operands
	case SequenceData:
		return data.Elems
	case ListData:
		return data.Elems
	default:
		return nil
	}
}
