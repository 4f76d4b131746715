package domino

import "image/color"

type Color struct {
	Name string
	RGBA color.RGBA
}

// PaletteSize is fixed; dominoes draw their color from these entries only.
const PaletteSize = 8

var palette = [PaletteSize]Color{
	{Name: "red", RGBA: color.RGBA{R: 255, A: 255}},
	{Name: "blue", RGBA: color.RGBA{B: 255, A: 255}},
	{Name: "green", RGBA: color.RGBA{G: 255, A: 255}},
	{Name: "yellow", RGBA: color.RGBA{R: 255, G: 255, A: 255}},
	{Name: "orange", RGBA: color.RGBA{R: 255, G: 128, A: 255}},
	{Name: "cyan", RGBA: color.RGBA{G: 255, B: 255, A: 255}},
	{Name: "magenta", RGBA: color.RGBA{R: 255, B: 255, A: 255}},
	{Name: "purple", RGBA: color.RGBA{R: 128, B: 128, A: 255}},
}

// Palette returns a copy of the domino colors.
func Palette() [PaletteSize]Color {
	return palette
}
