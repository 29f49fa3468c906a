// Package traverse stands in for the "traversal driver" external
// collaborator from spec §1/§6: something that visits a program's
// statements and exposes parent/child navigation plus a replacement
// operation, so that a pass mutating the tree in place can report each
// replacement back to the host instead of silently invalidating its own
// bookkeeping.
//
// The real driver (a general AST walker) is out of scope; this package
// only models the contract the top-level class visitor (§4.1) needs: walk
// a flat statement list, and let the visitor replace the current statement
// with zero or more statements.
package traverse

import "github.com/jsdecor/declower/internal/ast"

// StmtVisitor is called once per top-level statement. It returns the
// statement(s) that should replace stmt (itself unchanged, zero, or more
// than one — e.g. the export-splitting rewrite in §4.1 turns one
// statement into two).
type StmtVisitor func(stmt ast.Stmt) []ast.Stmt

// WalkProgram applies visit to each statement of a program in order,
// splicing in whatever replacement statements the visitor produces. It
// covers only the replacement half of the driver contract: the visitor
// sees one statement at a time, with no parent/child navigation. A host
// compiler with a full traversal
// would call the pass's per-class entry point from inside its own walk
// instead of through this helper.
func WalkProgram(stmts []ast.Stmt, visit StmtVisitor) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, visit(stmt)...)
	}
	return out
}
