package dlna

// FitWithin scales width x height down to fit inside the given bounds while
// preserving aspect ratio. A nil bound leaves that axis unconstrained; an
// image already inside the bounds is returned unchanged.
func FitWithin(width, height int, maxWidth, maxHeight *int) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}

	scale := 1.0
	if maxWidth != nil && width > *maxWidth {
		scale = float64(*maxWidth) / float64(width)
	}
	if maxHeight != nil && height > *maxHeight {
		if s := float64(*maxHeight) / float64(height); s < scale {
			scale = s
		}
	}
	if scale >= 1.0 {
		return width, height
	}

	w := int(float64(width)*scale + 0.5)
	h := int(float64(height)*scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
