package rbm

import (
	"sync"
)

var (
	f32Lock sync.Mutex
	f32Pool = make(map[int]*sync.Pool)
)

// borrowF32 returns a []float32 of length n. Its contents are unspecified.
func borrowF32(n int) []float32 {
	f32Lock.Lock()
	p, ok := f32Pool[n]
	f32Lock.Unlock()
	if ok {
		if retVal, ok := p.Get().([]float32); ok {
			return retVal
		}
	}
	return make([]float32, n)
}

// returnF32 gives a slice obtained from borrowF32 back to the pool.
func returnF32(a []float32) {
	n := len(a)
	f32Lock.Lock()
	p, ok := f32Pool[n]
	if !ok {
		p = &sync.Pool{
			New: func() interface{} { return make([]float32, n) },
		}
		f32Pool[n] = p
	}
	f32Lock.Unlock()
	p.Put(a)
}
