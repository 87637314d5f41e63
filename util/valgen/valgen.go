// Some helpers using closures to generate inbox and register values
package valgen

func MakeConstGen(constant int64) func() int64 {
	return func() int64 {
		return constant
	}
}

func MakeIncreasingGen(start int64) func() int64 {
	current := start
	return func() int64 {
		current++
		return current
	}
}

// MakeSequenceGen returns the given values in order and starts over after the
// last one. It panics if values is empty.
func MakeSequenceGen(values ...int64) func() int64 {
	if len(values) == 0 {
		panic("valgen: empty sequence")
	}

	seq := append([]int64(nil), values...)
	i := 0

	return func() int64 {
		v := seq[i]
		i = (i + 1) % len(seq)
		return v
	}
}

// Take calls gen n times and collects the results.
func Take(gen func() int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = gen()
	}

	return out
}
