// Package _default includes the default backends, namely the SimpleGo interpreter ("go") and
// the kernels backend ("kernels").
//
// To use it simply include:
//
//	import _ "github.com/gomlx/looptrace/backends/default"
//
// The interpreter is registered first, so it is the default when no configuration is given.
package _default

import (
	_ "github.com/gomlx/looptrace/backends/simplego"

	_ "github.com/gomlx/looptrace/backends/kernels"
)
