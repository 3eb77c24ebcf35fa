package processor

import "errors"

var (
	ErrInvalidDimensions = errors.New("image dimensions must be positive")
	ErrEmptyText         = errors.New("watermark text is required")
	ErrInvalidDirection  = errors.New("invalid watermark direction")
	ErrInvalidOpacity    = errors.New("opacity must be between 0 and 100")
	ErrTooManyTiles      = errors.New("cover watermark needs too many tiles")
	ErrDecode            = errors.New("failed to decode image")
)
