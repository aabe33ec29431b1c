/*
 * gonum.go, part of confcat.
 *
 * Copyright 2026 The confcat authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package v3

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

//Matrix is a set of vectors in 3D space. The underlying implementation is gonum's Dense.
//Within the package it is understood that a "vector" is a row vector, i.e. the
//cartesian coordinates of a point in 3D space.
type Matrix struct {
	*mat.Dense
}

//NewMatrix generates and returns a Matrix with 3 columns from the data, which
//is used as backing, not copied. It returns an error if len(data) is not a multiple of 3.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	if l%cols != 0 || l == 0 {
		return nil, fmt.Errorf("input slice length %d not a positive multiple of %d", l, cols)
	}
	return &Matrix{mat.NewDense(l/cols, cols, data)}, nil
}

//Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

//NVecs returns the number of vectors (rows) in the matrix.
func (F *Matrix) NVecs() int {
	r, _ := F.Dims()
	return r
}

//VecView returns a view of the ith vector. Changes to the view alter the original.
func (F *Matrix) VecView(i int) *Matrix {
	return &Matrix{F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)}
}

//Centroid returns the geometric center of the vectors in F, as a 1x3 matrix.
func (F *Matrix) Centroid() *Matrix {
	c := Zeros(1)
	col := make([]float64, F.NVecs())
	for j := 0; j < 3; j++ {
		mat.Col(col, j, F)
		c.Set(0, j, stat.Mean(col, nil))
	}
	return c
}

//Bounds returns the smallest and largest value of each coordinate.
func (F *Matrix) Bounds() (min, max [3]float64) {
	col := make([]float64, F.NVecs())
	for j := 0; j < 3; j++ {
		mat.Col(col, j, F)
		min[j] = floats.Min(col)
		max[j] = floats.Max(col)
	}
	return min, max
}

//Extent returns the size of the smallest axis-aligned box that contains all the vectors in F.
func (F *Matrix) Extent() [3]float64 {
	min, max := F.Bounds()
	var ret [3]float64
	for i := range ret {
		ret[i] = max[i] - min[i]
	}
	return ret
}

//RadiusOfGyration returns the (unweighted) radius of gyration of the vectors in F.
func (F *Matrix) RadiusOfGyration() float64 {
	c := F.Centroid()
	n := F.NVecs()
	d := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, F.At(i, j)-c.At(0, j))
		}
	}
	sq := mat.Norm(d, 2) //Frobenius norm
	return math.Sqrt(sq * sq / float64(n))
}
