package vision

import "errors"

// ErrUnavailable indicates a transport or timeout failure reaching the model.
var ErrUnavailable = errors.New("vision model unavailable")

// ErrRejected indicates the model explicitly refused to analyze the image.
var ErrRejected = errors.New("vision model rejected the image")
