// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import "github.com/gomlx/looptrace/backends"

// Capabilities of the SimpleGo backend: the interpreter supports every operation.
var Capabilities = backends.Capabilities{
	Unary: map[backends.UnaryOp]bool{
		backends.UnaryAdd:        true,
		backends.UnarySubtract:   true,
		backends.UnaryMultiply:   true,
		backends.UnaryDivide:     true,
		backends.UnaryMax:        true,
		backends.UnaryMin:        true,
		backends.UnarySet:        true,
		backends.UnaryZero:       true,
		backends.UnaryExp:        true,
		backends.UnaryLog:        true,
		backends.UnarySquare:     true,
		backends.UnarySqrt:       true,
		backends.UnaryReciprocal: true,
		backends.UnaryNegate:     true,
		backends.UnaryAbs:        true,
		backends.UnaryReLU:       true,
	},

	Binary: map[backends.BinaryOp]bool{
		backends.BinaryAdd:      true,
		backends.BinarySubtract: true,
		backends.BinaryMultiply: true,
		backends.BinaryDivide:   true,
		backends.BinaryMax:      true,
		backends.BinaryMin:      true,
		backends.BinaryCopy:     true,
	},

	Reduce: map[backends.ReduceOp]bool{
		backends.ReduceSum: true,
		backends.ReduceAvg: true,
		backends.ReduceMax: true,
		backends.ReduceMin: true,
	},
}
