package models

import "errors"

// ErrFrameDecode marks a payload that could not be decoded into a frame.
var ErrFrameDecode = errors.New("frame decode failed")
