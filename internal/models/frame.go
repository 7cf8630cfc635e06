package models

// Frame is a decoded raster. The holder must Close it to release native memory.
type Frame interface {
	Width() int
	Height() int
	Close() error
}
