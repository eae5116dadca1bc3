package guardstack_test

import (
	"fmt"
	"testing"

	"github.com/reoring/guardstack"
	"github.com/reoring/guardstack/akinator"
	"github.com/reoring/guardstack/tree"
)

var featureSets = []guardstack.Features{
	guardstack.NoFeatures,
	guardstack.Guards,
	guardstack.Checksums,
	guardstack.AllFeatures,
}

// Micro: push/pop cycles at a fixed depth, per feature set
func Benchmark_PushPop(b *testing.B) {
	for _, depth := range []int{8, 256} {
		for _, f := range featureSets {
			b.Run(fmt.Sprintf("depth=%d/%s", depth, f), func(b *testing.B) {
				s := guardstack.New[uint64](guardstack.Here("bench"), nil, guardstack.WithFeatures(f))
				defer s.Destroy()
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					for j := 0; j < depth; j++ {
						if err := s.Push(uint64(j)); err != nil {
							b.Fatal(err)
						}
					}
					for j := 0; j < depth; j++ {
						if _, err := s.Pop(); err != nil {
							b.Fatal(err)
						}
					}
				}
			})
		}
	}
}

func Benchmark_Report(b *testing.B) {
	s := guardstack.New[int](guardstack.Here("bench"), nil)
	defer s.Destroy()
	for i := 0; i < 100; i++ {
		_ = s.Push(i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Report().Format(guardstack.DefaultReportLimit)
	}
}

// degenerate builds a chain of n questions leaning to the No side, with the
// target leaf at the bottom.
func degenerate(n int) *tree.Node {
	root := tree.Leaf("target")
	for i := n; i > 0; i-- {
		root = tree.Question(fmt.Sprintf("q%d", i), tree.Leaf(fmt.Sprintf("leaf%d", i)), root)
	}
	return root
}

// Macro: full describe over a deep tree
func Benchmark_Describe_Deep(b *testing.B) {
	for _, f := range []guardstack.Features{guardstack.NoFeatures, guardstack.AllFeatures} {
		b.Run(f.String(), func(b *testing.B) {
			root := degenerate(1000)
			opt := akinator.WithStackOptions(guardstack.WithFeatures(f))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := akinator.Describe(root, "target", opt); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
