package blockarena_test

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/pavanmanishd/blockarena"
)

func newPool(b *testing.B, poolSize, blockSize int, opts ...blockarena.Option) *blockarena.Pool {
	b.Helper()
	p, err := blockarena.NewPool(poolSize, blockSize, opts...)
	if err != nil {
		b.Fatal(err)
	}
	return p
}

// BenchmarkSmallAllocations tests small allocation patterns (8-64 bytes)
// These fit a single 64-byte block
func BenchmarkSmallAllocations(b *testing.B) {
	sizes := []int{8, 16, 32, 64}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Pool_%dB", size), func(b *testing.B) {
			p := newPool(b, 64*1024, 64)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := p.Alloc(size); err != nil {
					p.Reset()
				}
			}
		})

		b.Run(fmt.Sprintf("Builtin_%dB", size), func(b *testing.B) {
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = make([]byte, size)
			}
		})
	}
}

// BenchmarkMediumAllocations tests allocations spanning several blocks
func BenchmarkMediumAllocations(b *testing.B) {
	sizes := []int{128, 256, 512, 1024}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Pool_%dB", size), func(b *testing.B) {
			p := newPool(b, 64*1024, 64)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := p.Alloc(size); err != nil {
					p.Reset()
				}
			}
		})

		b.Run(fmt.Sprintf("Builtin_%dB", size), func(b *testing.B) {
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = make([]byte, size)
			}
		})
	}
}

// BenchmarkAllocFree measures a steady alloc/free cycle, which keeps the
// first fit at the front of the table
func BenchmarkAllocFree(b *testing.B) {
	sizes := []int{16, 256, 4096}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Pool_%dB", size), func(b *testing.B) {
			p := newPool(b, 64*1024, 16)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				ptr, err := p.Alloc(size)
				if err != nil {
					b.Fatal(err)
				}
				p.Free(ptr)
			}
		})

		b.Run(fmt.Sprintf("PoolZeroed_%dB", size), func(b *testing.B) {
			p := newPool(b, 64*1024, 16)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				ptr, err := p.AllocZeroed(1, size)
				if err != nil {
					b.Fatal(err)
				}
				p.Free(ptr)
			}
		})
	}
}

// BenchmarkTypedAllocations tests allocation of pointer-free Go types
func BenchmarkTypedAllocations(b *testing.B) {

	type SmallStruct struct {
		A int32
		B int32
	}

	type MediumStruct struct {
		A int64
		B int64
		C int64
		D int64
		E [32]byte
	}

	type LargeStruct struct {
		A [256]byte
		B int64
	}

	b.Run("Pool_int64", func(b *testing.B) {
		p := newPool(b, 64*1024, 8)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if _, _, err := blockarena.New[int64](p); err != nil {
				p.Reset()
			}
		}
	})

	b.Run("Builtin_int64", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = new(int64)
		}
	})

	b.Run("Pool_SmallStruct", func(b *testing.B) {
		p := newPool(b, 64*1024, 8)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if _, _, err := blockarena.New[SmallStruct](p); err != nil {
				p.Reset()
			}
		}
	})

	b.Run("Builtin_SmallStruct", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = new(SmallStruct)
		}
	})

	b.Run("Pool_MediumStruct", func(b *testing.B) {
		p := newPool(b, 64*1024, 16)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if _, _, err := blockarena.New[MediumStruct](p); err != nil {
				p.Reset()
			}
		}
	})

	b.Run("Builtin_MediumStruct", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = new(MediumStruct)
		}
	})

	b.Run("Pool_LargeStruct", func(b *testing.B) {
		p := newPool(b, 128*1024, 64)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if _, _, err := blockarena.New[LargeStruct](p); err != nil {
				p.Reset()
			}
		}
	})

	b.Run("Builtin_LargeStruct", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = new(LargeStruct)
		}
	})
}

// BenchmarkSliceAllocations tests typed slices
func BenchmarkSliceAllocations(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Pool_Slice_%d", size), func(b *testing.B) {
			p := newPool(b, 1024*1024, 64)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, ptr, err := blockarena.NewSlice[int](p, size)
				if err != nil {
					b.Fatal(err)
				}
				p.Free(ptr)
			}
		})

		b.Run(fmt.Sprintf("Builtin_Slice_%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = make([]int, size)
			}
		})
	}
}

// BenchmarkBatchAllocations tests many allocations followed by a reset
// This simulates request processing, batch operations, etc.
func BenchmarkBatchAllocations(b *testing.B) {

	b.Run("ManySmallAllocs", func(b *testing.B) {
		b.Run("Pool", func(b *testing.B) {
			p := newPool(b, 64*1024, 64)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				for j := 0; j < 100; j++ {
					if _, err := p.Alloc(64); err != nil {
						b.Fatal(err)
					}
				}
				p.Reset()
			}
		})

		b.Run("Builtin", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				objects := make([][]byte, 100)
				for j := 0; j < 100; j++ {
					objects[j] = make([]byte, 64)
				}
				if i%10 == 0 {
					runtime.GC()
				}
			}
		})
	})

	b.Run("BufferReuse", func(b *testing.B) {
		b.Run("Pool", func(b *testing.B) {
			p := newPool(b, 1024*1024, 256)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				for j := 0; j < 10; j++ {
					for _, size := range []int{1024, 2048, 512} {
						ptr, err := p.Alloc(size)
						if err != nil {
							b.Fatal(err)
						}
						p.Bytes(ptr)[0] = byte(j)
					}
				}
				p.Reset()
			}
		})

		b.Run("Builtin", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				buffers := make([][]byte, 30)
				for j := 0; j < 10; j++ {
					buffers[j*3] = make([]byte, 1024)
					buffers[j*3+1] = make([]byte, 2048)
					buffers[j*3+2] = make([]byte, 512)
					buffers[j*3][0] = byte(j)
				}
				if i%5 == 0 {
					runtime.GC()
				}
			}
		})
	})
}

// BenchmarkGCPressure measures GC impact
func BenchmarkGCPressure(b *testing.B) {
	b.Run("Pool", func(b *testing.B) {
		p := newPool(b, 1024*1024, 128)
		runtime.GC()

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			for j := 0; j < 1000; j++ {
				if _, err := p.Alloc(128); err != nil {
					b.Fatal(err)
				}
			}
			p.Reset()
		}
	})

	b.Run("Builtin", func(b *testing.B) {
		runtime.GC()

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			objects := make([][]byte, 1000)
			for j := 0; j < 1000; j++ {
				objects[j] = make([]byte, 128)
			}
		}
	})
}
