package display

import "image"

// Display is a monochrome panel. Display transfers a frame to the panel's
// buffer and Update makes it visible.
type Display interface {
	Width() int
	Height() int
	Display(img *image.Paletted) error
	Update() error
	Close() error
}
