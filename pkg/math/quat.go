package math

// Quat is a rotation quaternion; W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the no-rotation quaternion.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle creates a quaternion from a unit axis and an angle in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	s := Sin(angle * 0.5)
	return Quat{axis.X * s, axis.Y * s, axis.Z * s, Cos(angle * 0.5)}
}

// QuatFromEuler builds the quaternion equivalent of EulerRotation(rot).
func QuatFromEuler(rot Vec3) Quat {
	qy := QuatFromAxisAngle(Vec3{0, 1, 0}, rot.Y)
	qx := QuatFromAxisAngle(Vec3{1, 0, 0}, rot.X)
	qz := QuatFromAxisAngle(Vec3{0, 0, 1}, rot.Z)
	return qy.Mul(qx).Mul(qz)
}

// Dot returns the 4D dot product.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Normalize returns a unit quaternion; near-zero input yields identity.
func (q Quat) Normalize() Quat {
	l := Sqrt(q.Dot(q))
	if l < 1e-4 {
		return QuatIdentity()
	}
	inv := 1 / l
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// Mul combines rotations: the result applies other first, then q.
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Slerp interpolates along the shorter arc. t is in [0, 1].
func (q Quat) Slerp(other Quat, t float32) Quat {
	d := q.Dot(other)
	if d < 0 {
		other = Quat{-other.X, -other.Y, -other.Z, -other.W}
		d = -d
	}
	if d > 0.9995 {
		return Quat{
			q.X + (other.X-q.X)*t,
			q.Y + (other.Y-q.Y)*t,
			q.Z + (other.Z-q.Z)*t,
			q.W + (other.W-q.W)*t,
		}.Normalize()
	}
	theta := acos(d)
	sinTheta := Sin(theta)
	a := Sin((1-t)*theta) / sinTheta
	b := Sin(t*theta) / sinTheta
	return Quat{
		q.X*a + other.X*b,
		q.Y*a + other.Y*b,
		q.Z*a + other.Z*b,
		q.W*a + other.W*b,
	}
}

// ToMat4 converts the quaternion to a rotation matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0,
		2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0,
		2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}
