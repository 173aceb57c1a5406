package list

import (
	"fmt"
	"testing"
)

// BenchmarkListRender benchmarks the render performance with different list sizes
func BenchmarkListRender(b *testing.B) {
	sizes := []int{100, 1000, 10000, 100000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Items_%d", size), func(b *testing.B) {
			l := New(testItems(size), WithSize(80, 30), WithItemHeight(2)).(*list[Item])
			l.Init()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				l.memo.Invalidate()
				l.render()
			}
		})
	}
}

// BenchmarkListScroll benchmarks scrolling performance
func BenchmarkListScroll(b *testing.B) {
	sizes := []int{100, 1000, 10000, 100000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Items_%d", size), func(b *testing.B) {
			l := New(testItems(size), WithSize(80, 30), WithItemHeight(2))
			l.Init()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				l.MoveDown(10)
				l.MoveUp(10)
			}
		})
	}
}

// BenchmarkListScrollLazy measures scrolling when every row watches its
// visibility.
func BenchmarkListScrollLazy(b *testing.B) {
	items, _ := lazyItems(10000)
	l := New(items, WithSize(80, 30), WithItemHeight(2))
	l.Init()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := 0; j < 100; j++ {
			l.MoveDown(100)
		}
		l.GoToTop()
	}
}

// BenchmarkListView benchmarks the View() method performance
func BenchmarkListView(b *testing.B) {
	l := New(testItems(10000), WithSize(80, 30), WithItemHeight(2))
	l.Init()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = l.View()
	}
}

// BenchmarkListMemory benchmarks memory allocation
func BenchmarkListMemory(b *testing.B) {
	sizes := []int{100, 1000, 10000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Items_%d", size), func(b *testing.B) {
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				l := New(testItems(size), WithSize(80, 30), WithItemHeight(2))
				l.Init()
				_ = l.View()
			}
		})
	}
}
