package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"astdump/internal/ast"
)

// ProgramJSON is the root of the JSON tree rendering.
type ProgramJSON struct {
	Decls []DeclJSON `json:"decls"`
	Stats *ast.Stats `json:"stats,omitempty"`
}

// DeclJSON represents a top-level declaration.
type DeclJSON struct {
	Kind   string    `json:"kind"`
	Offset int64     `json:"offset"`
	ID     ast.Ident `json:"id"`
	Args   *ArgsJSON `json:"args,omitempty"`
	Body   *ExprJSON `json:"body"`
}

// ArgsJSON represents function parameters.
type ArgsJSON struct {
	Kind string      `json:"kind"`
	IDs  []ast.Ident `json:"ids"`
}

// LiteralJSON represents a literal value. Text that is not valid UTF-8 is
// emitted as base64 in Bytes instead of Text.
type LiteralJSON struct {
	Kind  string  `json:"kind"`
	Int   *int64  `json:"int,omitempty"`
	Text  *string `json:"text,omitempty"`
	Bytes []byte  `json:"bytes,omitempty"`
}

// ExprJSON represents an expression. Only the fields of its kind are set.
type ExprJSON struct {
	Kind    string       `json:"kind"`
	Offset  int64        `json:"offset"`
	ID      *ast.Ident   `json:"id,omitempty"`
	Iter    *ExprJSON    `json:"iter,omitempty"`
	Value   *ExprJSON    `json:"value,omitempty"`
	Body    *ExprJSON    `json:"body,omitempty"`
	Cond    *ExprJSON    `json:"cond,omitempty"`
	Then    *ExprJSON    `json:"then,omitempty"`
	Else    *ExprJSON    `json:"else,omitempty"`
	Callee  *ExprJSON    `json:"callee,omitempty"`
	Items   []*ExprJSON  `json:"items,omitempty"`
	Literal *LiteralJSON `json:"literal,omitempty"`
	Builtin string       `json:"builtin,omitempty"`
}

// BuildProgramJSON converts prog into its JSON representation.
func BuildProgramJSON(prog *ast.Program, withStats bool) (ProgramJSON, error) {
	if prog == nil {
		return ProgramJSON{}, fmt.Errorf("nil program")
	}
	out := ProgramJSON{Decls: make([]DeclJSON, 0, len(prog.Decls))}
	for i := range prog.Decls {
		d := &prog.Decls[i]
		body, err := exprJSON(d.Body)
		if err != nil {
			return ProgramJSON{}, err
		}
		dj := DeclJSON{Kind: d.Kind.String(), Offset: d.Offset, ID: d.ID, Body: body}
		if d.Kind == ast.DeclFn {
			dj.Args = &ArgsJSON{Kind: d.Args.Kind.String(), IDs: d.Args.Params()}
		}
		out.Decls = append(out.Decls, dj)
	}
	if withStats {
		stats := ast.CollectStats(prog)
		out.Stats = &stats
	}
	return out, nil
}

// FormatASTJSON writes prog as indented JSON.
func FormatASTJSON(w io.Writer, prog *ast.Program) error {
	output, err := BuildProgramJSON(prog, true)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func literalJSON(l ast.Literal) *LiteralJSON {
	out := &LiteralJSON{Kind: l.Kind.String()}
	switch l.Kind {
	case ast.LiteralInt:
		v := l.Int
		out.Int = &v
	case ast.LiteralText:
		if utf8.Valid(l.Text) {
			s := string(l.Text)
			out.Text = &s
		} else {
			out.Bytes = append([]byte(nil), l.Text...)
		}
	}
	return out
}

func exprListJSON(list []*ast.Expr) ([]*ExprJSON, error) {
	out := make([]*ExprJSON, 0, len(list))
	for _, e := range list {
		ej, err := exprJSON(e)
		if err != nil {
			return nil, err
		}
		out = append(out, ej)
	}
	return out, nil
}

func exprJSON(e *ast.Expr) (*ExprJSON, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}
	out := &ExprJSON{Kind: e.Kind.String(), Offset: e.Offset}
	id := func(v ast.Ident) *ast.Ident { return &v }
	var err error
	sub := func(child *ast.Expr) *ExprJSON {
		if err != nil {
			return nil
		}
		var cj *ExprJSON
		cj, err = exprJSON(child)
		return cj
	}
	switch data := e.Data.(type) {
	case ast.ForData:
		out.ID = id(data.ID)
		out.Iter = sub(data.Iter)
		out.Body = sub(data.Body)
	case ast.BindData:
		out.ID = id(data.ID)
		out.Value = sub(data.Value)
		out.Body = sub(data.Body)
	case ast.AssignData:
		out.ID = id(data.ID)
		out.Value = sub(data.Value)
	case ast.IfData:
		out.Cond = sub(data.Cond)
		out.Then = sub(data.Then)
		out.Else = sub(data.Else)
	case ast.CallData:
		out.Callee = sub(data.Callee)
		if err == nil {
			out.Items, err = exprListJSON(data.Args)
		}
	case ast.AndData:
		out.Items, err = exprListJSON(data.Operands)
	case ast.OrData:
		out.Items, err = exprListJSON(data.Operands)
	case ast.SequenceData:
		out.Items, err = exprListJSON(data.Elems)
	case ast.ListData:
		out.Items, err = exprListJSON(data.Elems)
	case ast.LiteralData:
		out.Literal = literalJSON(data.Literal)
	case ast.BuiltinData:
		out.Builtin = data.Builtin.String()
	case ast.IdentData:
		out.ID = id(data.ID)
	default:
		return nil, fmt.Errorf("expression at offset %d has no payload", e.Offset)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
