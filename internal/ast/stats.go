package ast

// Stats summarizes a decoded program.
type Stats struct {
	Decls    int                `msgpack:"decls" json:"decls"`
	Fns      int                `msgpack:"fns" json:"fns"`
	Exprs    int                `msgpack:"exprs" json:"exprs"`
	MaxDepth int                `msgpack:"max_depth" json:"max_depth"`
	ByKind   [ExprKindCount]int `msgpack:"by_kind" json:"by_kind"`
	Builtins map[Builtin]int    `msgpack:"builtins,omitempty" json:"builtins,omitempty"`
}

type statsCollector struct {
	stats *Stats
}

func (c statsCollector) VisitDecl(d *Decl) bool {
	c.stats.Decls++
	if d.Kind == DeclFn {
		c.stats.Fns++
	}
	return true
}

func (c statsCollector) VisitExpr(e *Expr, depth int) bool {
	c.stats.Exprs++
	if depth > c.stats.MaxDepth {
		c.stats.MaxDepth = depth
	}
	if e.Kind.Valid() {
		c.stats.ByKind[e.Kind]++
	}
	if b, ok := e.Builtin(); ok {
		if c.stats.Builtins == nil {
			c.stats.Builtins = make(map[Builtin]int)
		}
		c.stats.Builtins[b.Builtin]++
	}
	return true
}

// CollectStats walks p and counts declarations and expressions.
func CollectStats(p *Program) Stats {
	var s Stats
	Walk(p, statsCollector{stats: &s})
	return s
}

// Count returns the number of expressions of kind k.
func (s Stats) Count(k ExprKind) int {
	if !k.Valid() {
		return 0
	}
	return s.ByKind[k]
}
