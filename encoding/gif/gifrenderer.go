package gif

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"

	"github.com/chewxy/math32"
	"github.com/golang/freetype/truetype"
	"github.com/gorgonia/dbn"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var regular *truetype.Font

const (
	dpi        = 144.0
	fontsize   = 12.0
	lineheight = 1.2
	captions   = 3 // name, layer and epoch, energy
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

// globPalette is a grey ramp: 0 is black, 255 is white.
var globPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{uint8(i)}
	}
	return p
}()

// Encoder renders the weight matrix of the layer being trained as one frame per epoch, with a caption.
// Weights are drawn as grey cells: black is the most negative weight, white the most positive.
//
// It implements dbn.OutputEncoder.
type Encoder struct {
	H, W int
	font.Drawer

	out *gif.GIF
	io.Writer
	face font.Face

	padH, padW int
	delay      int // per frame, in 100ths of a second
}

// NewGifEncoder with height and width. Every frame has this size; weight matrices that do not fit
// are cropped.
func NewGifEncoder(w io.Writer, h, wd int) *Encoder {
	return &Encoder{
		H:      h,
		W:      wd,
		Writer: w,
		padH:   10,
		padW:   10,
		delay:  10,

		Drawer: font.Drawer{
			Src: image.Black,
		},
		out: &gif.GIF{
			LoopCount: -1,
			Config: image.Config{
				ColorModel: globPalette,
				Width:      wd,
				Height:     h,
			},
		},
	}
}

// Encode a training epoch.
func (enc *Encoder) Encode(ms dbn.MetaState) error {
	if enc.face == nil {
		// lazy init of the font face
		enc.face = truetype.NewFace(regular, &truetype.Options{
			Size:    fontsize,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
		enc.Drawer.Face = enc.face
	}

	im := image.NewPaletted(image.Rect(0, 0, enc.W, enc.H), globPalette)
	draw.Draw(im, im.Bounds(), image.White, image.Point{}, draw.Src)
	enc.Dst = im

	dy := int(math.Ceil(fontsize * lineheight * dpi / 72))
	y := enc.padH + dy
	for _, s := range []string{
		ms.Name(),
		fmt.Sprintf("Layer %d, Epoch %d", ms.Layer(), ms.Epoch()),
		fmt.Sprintf("Energy %.3f", ms.Energy()),
	} {
		enc.Dot = fixed.P(enc.padW, y)
		enc.DrawString(s)
		y += dy
	}

	top := enc.padH + (captions+1)*dy
	enc.drawWeights(im, ms.Weights(), image.Rect(enc.padW, top, enc.W-enc.padW, enc.H-enc.padH))

	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, enc.delay)
	return nil
}

func (enc *Encoder) drawWeights(im *image.Paletted, w [][]float32, area image.Rectangle) {
	if len(w) == 0 || len(w[0]) == 0 || area.Empty() {
		return
	}
	var max float32
	for _, row := range w {
		for _, v := range row {
			max = math32.Max(max, math32.Abs(v))
		}
	}
	if max == 0 {
		max = 1
	}

	cell := minInt(area.Dx()/len(w[0]), area.Dy()/len(w))
	if cell < 1 {
		cell = 1
	}
	for i, row := range w {
		for j, v := range row {
			shade := color.Gray{uint8(127.5 + 127.5*v/max)}
			r := image.Rect(0, 0, cell, cell).Add(area.Min).Add(image.Pt(j*cell, i*cell)).Intersect(area)
			if r.Empty() {
				continue
			}
			draw.Draw(im, r, &image.Uniform{shade}, image.Point{}, draw.Src)
		}
	}
}

// Flush writes the gif into the writer
func (enc *Encoder) Flush() error {
	if len(enc.out.Image) == 0 {
		return errors.New("No frames to write")
	}
	return errors.WithStack(gif.EncodeAll(enc.Writer, enc.out))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
