package epaper

const (
	MinScale  = 0.5
	MaxScale  = 4.0
	ScaleStep = 0.25
)

// Transform is the zoom and pan applied to the current page image.
// X and Y are offsets from the centre.
type Transform struct {
	Scale float64
	X, Y  float64
}

// Identity is scale 1, centred.
func Identity() Transform {
	return Transform{Scale: 1}
}

// ZoomBy changes the scale by delta, bounded to [MinScale, MaxScale].
// Zooming back to 1 or below recentres the image.
func (t Transform) ZoomBy(delta float64) Transform {
	t.Scale = clamp(t.Scale+delta, MinScale, MaxScale)
	if t.Scale <= 1 {
		t.X, t.Y = 0, 0
	}
	return t
}

func (t Transform) ZoomIn() Transform { return t.ZoomBy(ScaleStep) }

func (t Transform) ZoomOut() Transform { return t.ZoomBy(-ScaleStep) }

// Pan moves a zoomed image. At scale 1 or below there is nothing to pan.
func (t Transform) Pan(dx, dy float64) Transform {
	if t.Scale <= 1 {
		return t
	}
	t.X += dx
	t.Y += dy
	return t
}

func (t Transform) IsIdentity() bool {
	return t == Identity()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
