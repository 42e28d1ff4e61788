package model

// Path represents a file system path.
type Path string

// Executable is a compiled, mutation-capable test binary plus the fixed
// arguments passed on every invocation. One run may process several
// executables sequentially, independent of one another.
type Executable struct {
	Bin  Path
	Args []string
}
