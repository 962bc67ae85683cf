package rbm

// EncodeUnits encodes active units as 1 and inactive units as 0.
func EncodeUnits(a []bool, prealloc []float32) []float32 {
	if len(prealloc) != len(a) {
		prealloc = make([]float32, len(a))
	}
	for i, on := range a {
		if on {
			prealloc[i] = 1
		} else {
			prealloc[i] = 0
		}
	}
	return prealloc
}
