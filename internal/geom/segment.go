package geom

// ClosestPointOnSegment returns the point on segment [a,b] closest to p.
func ClosestPointOnSegment(p, a, b Vec2) Vec2 {
	ab := b.Sub(a)
	denom := ab.NormSquared()
	if denom == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t))
}

// SegmentSegmentClosest solves for the closest pair of points between
// segments [p1,q1] and [p2,q2] using the canonical clamped linear-system
// solve (not a simplified endpoint-only pairing). Returns the two closest
// points and the distance between them.
func SegmentSegmentClosest(p1, q1, p2, q2 Vec2) (c1, c2 Vec2, dist float64) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)

	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	const eps = 1e-12

	var s, t float64

	if a <= eps && e <= eps {
		// Both segments degenerate to points.
		c1, c2 = p1, p2
		return c1, c2, c1.Distance(c2)
	}
	if a <= eps {
		s = 0
		t = clamp01(f / e)
	} else {
		c := d1.Dot(r)
		if e <= eps {
			t = 0
			s = clamp01(-c / a)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom != 0 {
				s = clamp01((b*f - c*e) / denom)
			} else {
				s = 0
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}

	c1 = p1.Add(d1.Scale(s))
	c2 = p2.Add(d2.Scale(t))
	return c1, c2, c1.Distance(c2)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
