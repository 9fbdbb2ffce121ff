// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import "github.com/cpmech/gosl/io"

// colors distinguishing components in chromatogram plots
var compColors = []string{"blue", "green", "red", "magenta", "orange", "cyan"}

// CompArgs returns the plot arguments of component c
func CompArgs(c int, label string) string {
	return io.Sf("ls='-', clip_on=0, color='%s', label=r'%s'", compColors[c%len(compColors)], label)
}
