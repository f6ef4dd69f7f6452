package glrender

import (
	"errors"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms1"
	"github.com/soypat/gsurf"
)

type setImage = interface {
	image.Image
	Set(x, y int, c color.Color)
}

// HeightMapRenderer rasterizes the surface height over the [-π, π]² parameter domain.
type HeightMapRenderer struct {
	conv func(z float32) color.Color
	row  []float32
}

// NewHeightMapRenderer instances a new [HeightMapRenderer]. A nil height->color conversion
// function results in a grayscale scheme where black is z=0 and white is z=π.
// Non-finite heights are drawn red by the default conversion.
func NewHeightMapRenderer(conversion func(z float32) color.Color) (*HeightMapRenderer, error) {
	if conversion == nil {
		conversion = func(z float32) color.Color {
			if math32.IsNaN(z) || math32.IsInf(z, 0) {
				return color.RGBA{R: 255, A: 255}
			}
			return color.Gray{Y: uint8(255 * ms1.Clamp(z/math32.Pi, 0, 1))}
		}
	}
	return &HeightMapRenderer{conv: conversion}, nil
}

// Render samples the surface at every pixel center of img. The x axis maps to u
// and the y axis maps to v, with v increasing upwards.
func (hr *HeightMapRenderer) Render(img setImage) error {
	bb := img.Bounds()
	dxi, dyi := bb.Dx(), bb.Dy()
	if dxi == 0 || dyi == 0 {
		return errors.New("empty image")
	}
	if cap(hr.row) < dxi {
		hr.row = make([]float32, dxi)
	}
	hr.row = hr.row[:dxi]
	du := 2 * math32.Pi / float32(dxi)
	dv := 2 * math32.Pi / float32(dyi)
	for j := 0; j < dyi; j++ {
		v := math32.Pi - (float32(j)+0.5)*dv
		for i := range hr.row {
			u := -math32.Pi + (float32(i)+0.5)*du
			hr.row[i] = gsurf.Sample(u, v).Z
		}
		for i, z := range hr.row {
			img.Set(bb.Min.X+i, bb.Min.Y+j, hr.conv(z))
		}
	}
	return nil
}
