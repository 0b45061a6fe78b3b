// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package _default includes the default backends, currently only SimpleGo ("go").
//
// To use it simply include:
//
//	import _ "github.com/gomlx/arith/backends/default"
//
// Backends under construction, like notimplemented, are never registered by default.
package _default

import (
	_ "github.com/gomlx/arith/backends/simplego"
)
