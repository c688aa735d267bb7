package types

import "github.com/chewxy/math32"

// Convert a hue/saturation/value triplet with all components in [0, 1] into
// a linear RGB color.
func HSVToRGB(h, s, v float32) Vec3 {
	if s <= 0 {
		return Vec3{v, v, v}
	}

	h = (h - math32.Floor(h)) * 6.0
	sector := int(h) % 6
	f := h - math32.Floor(h)

	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch sector {
	case 0:
		return Vec3{v, t, p}
	case 1:
		return Vec3{q, v, p}
	case 2:
		return Vec3{p, v, t}
	case 3:
		return Vec3{p, q, v}
	case 4:
		return Vec3{t, p, v}
	default:
		return Vec3{v, p, q}
	}
}
