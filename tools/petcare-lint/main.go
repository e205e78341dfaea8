// petcare-lint flags hot-path patterns the hours parser must avoid.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/hongxu0218/petcare/tools/petcare-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
