// Package analyzers provides all custom static analyzers for petcare.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/hongxu0218/petcare/tools/petcare-lint/analyzers/compileloop"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		compileloop.Analyzer,
	}
}
