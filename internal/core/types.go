package core

// Size describes the dimensions of a simulation field.
type Size struct {
	W int
	H int
}

// Sim defines the contract the frontends drive.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	// Pixels writes the current picture as row-major RGBA into dst, which
	// must hold 4*W*H bytes.
	Pixels(dst []byte)
}

// Resizer is implemented by sims that follow the viewport.
type Resizer interface {
	Resize(w, h int)
}
