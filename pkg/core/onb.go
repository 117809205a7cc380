package core

import "math"

// ONB is an orthonormal basis (u, v, w) used to move samples out of a local frame
type ONB struct {
	U, V, W Vec3
}

// NewONBFromW builds a basis whose w axis is the normalized n
func NewONBFromW(n Vec3) ONB {
	w := n.Normalize()

	// Find a vector that is not parallel to w
	var a Vec3
	if math.Abs(w.X) > 0.9 {
		a = NewVec3(0, 1, 0)
	} else {
		a = NewVec3(1, 0, 0)
	}

	v := w.Cross(a).Normalize()
	u := w.Cross(v)
	return ONB{U: u, V: v, W: w}
}

// Local transforms a vector expressed in basis coordinates to world space
func (b ONB) Local(a Vec3) Vec3 {
	return b.U.Multiply(a.X).Add(b.V.Multiply(a.Y)).Add(b.W.Multiply(a.Z))
}
