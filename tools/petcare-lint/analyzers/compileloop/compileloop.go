// Package compileloop detects pattern and replacer construction inside loops.
package compileloop

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports regexp compilation and strings.NewReplacer calls inside
// for and range loops.
var Analyzer = &analysis.Analyzer{
	Name:     "compileloop",
	Doc:      "detects regexp.Compile*/MustCompile* and strings.NewReplacer calls inside loops",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// constructors maps an import path to the functions that build reusable matchers.
var constructors = map[string]map[string]bool{
	"regexp": {
		"Compile":          true,
		"MustCompile":      true,
		"CompilePOSIX":     true,
		"MustCompilePOSIX": true,
	},
	"strings": {
		"NewReplacer": true,
	},
}

func run(pass *analysis.Pass) (any, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.RangeStmt)(nil),
		(*ast.ForStmt)(nil),
	}

	// Nested loops would report the same call once per enclosing loop.
	reported := make(map[*ast.CallExpr]bool)

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		var body *ast.BlockStmt
		switch stmt := n.(type) {
		case *ast.RangeStmt:
			body = stmt.Body
		case *ast.ForStmt:
			body = stmt.Body
		}
		if body == nil {
			return
		}

		ast.Inspect(body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok || reported[call] {
				return true
			}

			pkg, name, ok := packageFunc(pass, call)
			if !ok || !constructors[pkg][name] {
				return true
			}

			reported[call] = true
			pass.Reportf(call.Pos(),
				"%s.%s called inside loop - build once outside loop",
				pkg, name)
			return true
		})
	})

	return nil, nil
}

// packageFunc resolves a call of the form pkg.Func to its import path, so
// renamed imports are still caught.
func packageFunc(pass *analysis.Pass, call *ast.CallExpr) (string, string, bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return "", "", false
	}
	ident, ok := sel.X.(*ast.Ident)
	if !ok {
		return "", "", false
	}
	pkgName, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
	if !ok {
		return "", "", false
	}
	return pkgName.Imported().Path(), sel.Sel.Name, true
}
