// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
)

// DrawChromatogram plots the outlet concentration of every component over
// time. With fname empty the plot window opens; otherwise the figure is
// saved under dirout.
func DrawChromatogram(cgm *Chromatogram, dirout, fname string) {
	plt.SetForEps(0.75, 455)
	for c := 0; c < len(cgm.C); c++ {
		plt.Plot(cgm.T, cgm.C[c], CompArgs(c, io.Sf("$c_{%d}$", c)))
	}
	plt.Gll("$t$", "$c$", "leg_out=1, leg_ncol=4, leg_hlen=1.5")
	if cgm.Desc != "" {
		plt.Title(cgm.Desc, "size=10")
	}
	if fname == "" {
		plt.Show()
		return
	}
	plt.SaveD(dirout, fname)
}

// DrawSensitivities plots the outlet sensitivities, one subplot per seeded
// direction. ncomp recovers the direction-major row layout.
func DrawSensitivities(cgm *Chromatogram, ncomp int, dirout, fname string) {
	if ncomp < 1 || len(cgm.S) == 0 {
		return
	}
	ndir := len(cgm.S) / ncomp
	plt.SetForEps(0.45*float64(ndir), 455)
	for p := 0; p < ndir; p++ {
		plt.Subplot(ndir, 1, p+1)
		for c := 0; c < ncomp; c++ {
			plt.Plot(cgm.T, cgm.S[p*ncomp+c], CompArgs(c, io.Sf("$s_{%d,%d}$", p, c)))
		}
		plt.Gll("$t$", io.Sf("$s_{%d}$", p), "leg_out=1, leg_ncol=4, leg_hlen=1.5")
	}
	if fname == "" {
		plt.Show()
		return
	}
	plt.SaveD(dirout, fname)
}
