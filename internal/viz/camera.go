package viz

import "math"

type Vec3 struct {
	X, Y, Z float64
}

// Camera rotates the scene about the origin and projects it orthographically
// onto the x-y plane.
type Camera struct {
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) Reset() {
	c.RotX, c.RotY, c.RotZ = 0, 0, 0
	c.Zoom = 1.0
}

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Viewport maps the square world window [Lo, Hi]² onto a pixel area.
type Viewport struct {
	Lo, Hi        float64
	Width, Height int
}

// Project returns the pixel for p and whether it falls inside the viewport.
// The window is drawn as a centred square so that circles stay round.
func (c *Camera) Project(p Vec3, vp Viewport) (x, y int, ok bool) {
	r := c.RotatePoint(p)
	mid := (vp.Lo + vp.Hi) / 2
	span := (vp.Hi - vp.Lo) / c.Zoom
	if span <= 0 {
		return 0, 0, false
	}
	side := min(vp.Width, vp.Height)
	scale := float64(side-1) / span

	x = vp.Width/2 + int(math.Round((r.X-mid)*scale))
	y = vp.Height/2 - int(math.Round((r.Y-mid)*scale))
	return x, y, x >= 0 && x < vp.Width && y >= 0 && y < vp.Height
}
