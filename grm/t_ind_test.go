// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_ind01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ind01. derived index maps")

	var d Disc
	err := d.Init(2, 3, []int{3, 2}, []int{1, 1, 0, 1})
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	chk.IntAssert(d.NParType, 2)
	chk.Ints(tst, "StrideBound", d.StrideBound, []int{2, 1, 3})
	chk.Ints(tst, "NBoundBeforeType", d.NBoundBeforeType, []int{0, 2})
	chk.Ints(tst, "BoundOffset", d.BoundOffset, []int{0, 1, 0, 0})
	chk.Ints(tst, "ParTypeOffset", d.ParTypeOffset, []int{0, 36, 54})
	chk.IntAssert(d.NDof, 2+6+36+18+12)

	chk.IntAssert(d.OffsetC(), 2)
	chk.IntAssert(d.OffsetCp(0, 0), 8)
	chk.IntAssert(d.OffsetCp(0, 2), 8+2*12)
	chk.IntAssert(d.OffsetCp(1, 1), 8+36+6)
	chk.IntAssert(d.OffsetCpShell(1, 1, 1), 8+36+6+3)
	chk.IntAssert(d.OffsetJf(), 8+36+18)
	chk.IntAssert(d.OffsetJfTyped(1, 2), 62+6+4)
	chk.IntAssert(d.StrideColCell(), 2)
	chk.IntAssert(d.StrideColComp(), 1)
	chk.IntAssert(d.StrideParShell(0), 4)
	chk.IntAssert(d.StrideParShell(1), 3)
	chk.IntAssert(d.StrideParBlock(0), 12)
	chk.IntAssert(d.StrideParLiquid(), 2)
	chk.IntAssert(d.StrideParBound(1), 1)
	chk.IntAssert(d.OffsetBoundComp(0, 1), 1)
	chk.IntAssert(d.OffsetBoundComp(1, 1), 0)
}

func Test_ind02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ind02. layout covers every DOF exactly once")

	var d Disc
	err := d.Init(3, 4, []int{2, 3}, []int{1, 0, 2, 1, 1, 0})
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	seen := make([]int, d.NDof)
	for c := 0; c < d.NComp; c++ {
		seen[c]++
	}
	for k := 0; k < d.NCol; k++ {
		for c := 0; c < d.NComp; c++ {
			seen[d.OffsetC()+k*d.StrideColCell()+c]++
		}
	}
	for t := 0; t < d.NParType; t++ {
		for k := 0; k < d.NCol; k++ {
			for s := 0; s < d.NParCell[t]; s++ {
				lo := d.OffsetCpShell(t, k, s)
				for c := 0; c < d.NComp; c++ {
					seen[lo+c]++
				}
				for b := 0; b < d.StrideParBound(t); b++ {
					seen[lo+d.StrideParLiquid()+b]++
				}
			}
		}
	}
	for t := 0; t < d.NParType; t++ {
		for k := 0; k < d.NCol; k++ {
			for c := 0; c < d.NComp; c++ {
				seen[d.OffsetJfTyped(t, k)+c]++
			}
		}
	}
	for i, n := range seen {
		if n != 1 {
			tst.Errorf("DOF %d addressed %d times instead of once\n", i, n)
			return
		}
	}

	// bound-state slots per component partition the shell bound block
	for t := 0; t < d.NParType; t++ {
		hit := make([]int, d.StrideParBound(t))
		for c := 0; c < d.NComp; c++ {
			b0 := d.OffsetBoundComp(t, c)
			for i := 0; i < d.NBound[t*d.NComp+c]; i++ {
				hit[b0+i]++
			}
		}
		for b, n := range hit {
			if n != 1 {
				tst.Errorf("bound slot %d of type %d addressed %d times\n", b, t, n)
				return
			}
		}
	}
}

func Test_ind03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ind03. dimension errors")

	var d Disc
	if err := d.Init(0, 3, []int{2}, []int{1}); err == nil {
		tst.Errorf("zero components must be rejected\n")
	}
	if err := d.Init(2, 0, []int{2}, []int{1, 1}); err == nil {
		tst.Errorf("zero cells must be rejected\n")
	}
	if err := d.Init(2, 3, nil, nil); err == nil {
		tst.Errorf("missing particle types must be rejected\n")
	}
	if err := d.Init(2, 3, []int{0}, []int{1, 1}); err == nil {
		tst.Errorf("zero shells must be rejected\n")
	}
	if err := d.Init(2, 3, []int{2}, []int{1}); err == nil {
		tst.Errorf("short bound table must be rejected\n")
	}
	if err := d.Init(2, 3, []int{2}, []int{1, -1}); err == nil {
		tst.Errorf("negative bound counts must be rejected\n")
	}
}
