package types

import "testing"

func TestMat4Transforms(t *testing.T) {
	// Translation by (1, 2, 3) in column-major layout
	m := Ident4()
	m[12], m[13], m[14] = 1, 2, 3

	p := m.MulPoint(XYZ(1, 1, 1))
	if p != XYZ(2, 3, 4) {
		t.Fatalf("expected translated point to be (2, 3, 4); got %v", p)
	}

	d := m.MulDir(XYZ(1, 1, 1))
	if d != XYZ(1, 1, 1) {
		t.Fatalf("expected directions to ignore translation; got %v", d)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := XYZ(3, 0, 4).Normalize()
	if v.Sub(XYZ(0.6, 0, 0.8)).Len() > 1e-6 {
		t.Fatalf("expected normalized vector to be (0.6, 0, 0.8); got %v", v)
	}

	if !(Vec3{}).Normalize().IsZero() {
		t.Fatal("expected normalizing a zero vector to yield a zero vector")
	}
}
