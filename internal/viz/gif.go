package viz

import (
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	dotW = 4
	dotH = 4
)

var gifPalette = color.Palette{color.Black, color.RGBA{0x00, 0xff, 0x88, 0xff}}

// CanvasImage rasterizes the canvas, one dotW x dotH block per dot.
func CanvasImage(c *Canvas) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, c.PixelWidth()*dotW, c.PixelHeight()*dotH), gifPalette)
	c.Dots(func(x, y int) {
		for py := 0; py < dotH; py++ {
			for px := 0; px < dotW; px++ {
				img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
			}
		}
	})
	return img
}

// SaveGIF writes frames as a looping animation with delay hundredths of a
// second between frames.
func SaveGIF(path string, frames []*image.Paletted, delay int) error {
	if len(frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
