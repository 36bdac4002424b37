package analyzer

import (
	"fmt"
	"strings"
	"testing"
)

var sampleTexts = map[string]string{
	"short": "Breast Cancer Cells Feed on Cholesterol",
	"medium": `Statin use after diagnosis of breast cancer has been associated with
        reduced recurrence. Cholesterol lowering agents are studied as adjuvant
        therapy in several cohorts and randomized trials.`,
	"long": strings.Repeat(`Dietary fiber intake and the risk of colorectal cancer remain
        an active area of epidemiological research. Observational studies suggest
        that whole grains, legumes, and vegetables reduce risk, while processed meat
        consumption increases it. `, 20),
}

func BenchmarkAnalyze(b *testing.B) {
	a, _ := New(DefaultPolicy())
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				terms, _ := a.Analyze(text)
				_ = terms
			}
		})
	}
}

func BenchmarkAnalyzeParallel(b *testing.B) {
	a, _ := New(DefaultPolicy())
	text := sampleTexts["medium"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			terms, _ := a.Analyze(text)
			_ = terms
		}
	})
}

func BenchmarkAnalyzeVaryingSize(b *testing.B) {
	a, _ := New(DefaultPolicy())
	sizes := []int{10, 100, 500, 1000, 5000}
	baseWord := "breast cancer cholesterol statin therapy "
	for _, size := range sizes {
		text := strings.Repeat(baseWord, size/len(baseWord)+1)[:size]
		b.Run(fmt.Sprintf("bytes_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := a.Tokens(text)
				_ = tokens
			}
		})
	}
}
