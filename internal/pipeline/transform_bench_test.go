//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// BenchmarkTransform measures a full pass over buffers of growing size.
// Editors call Transform on every keystroke, so this is the hot path.
func BenchmarkTransform(b *testing.B) {
	tr := NewTransformer()

	for _, lines := range []int{10, 100, 1000, 10000} {
		input := generateCommandBuffer(lines)
		b.Run(fmt.Sprintf("lines_%d", lines), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(input)))
			for b.Loop() {
				tr.Transform(input)
			}
		})
	}
}

func BenchmarkTransformParallel(b *testing.B) {
	tr := NewTransformer()
	input := generateCommandBuffer(200)

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tr.Transform(input)
		}
	})
}

func BenchmarkIsCanonical(b *testing.B) {
	lines := []string{"# heading", "- item", "plain prose line", "bold this: x"}

	b.ReportAllocs()
	for b.Loop() {
		for _, l := range lines {
			IsCanonical(l)
		}
	}
}

func BenchmarkRenderTransformed(b *testing.B) {
	tr := NewTransformer()
	conv := NewGoldmarkConverter()
	ctx := context.Background()
	input := generateCommandBuffer(200)

	b.ReportAllocs()
	for b.Loop() {
		md, log := tr.Transform(input)
		if _, err := conv.ToFragment(ctx, IsolateRules(md, log)); err != nil {
			b.Fatal(err)
		}
	}
}

// generateCommandBuffer mixes commands, canonical lines and prose.
func generateCommandBuffer(lines int) string {
	pattern := []string{
		"heading 2: Section %d",
		"bold this: item %d",
		"plain prose with make bold: word %d, and more",
		"- canonical item %d",
		"link this: Site %d | https://example.com",
		"",
		"break line",
	}

	var sb strings.Builder
	for i := range lines {
		line := pattern[i%len(pattern)]
		if strings.Contains(line, "%d") {
			line = fmt.Sprintf(line, i)
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
