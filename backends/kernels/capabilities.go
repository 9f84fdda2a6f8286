package kernels

import (
	"github.com/gomlx/looptrace/backends"
	"github.com/gomlx/looptrace/backends/simplego"
)

// Capabilities lists the operations for which kernels can be emitted: all of the interpreter
// ones except binary and reduce Max/Min.
var Capabilities = func() backends.Capabilities {
	c := simplego.Capabilities.Clone()
	delete(c.Binary, backends.BinaryMax)
	delete(c.Binary, backends.BinaryMin)
	delete(c.Reduce, backends.ReduceMax)
	delete(c.Reduce, backends.ReduceMin)
	return c
}()
