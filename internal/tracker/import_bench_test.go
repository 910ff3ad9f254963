package tracker_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Adithya151/DCF---racker/internal/store/memory"
	"github.com/Adithya151/DCF---racker/internal/tracker"
)

// BenchmarkImport loads a year of history for a small team per iteration.
func BenchmarkImport(b *testing.B) {
	inputs := make([]tracker.ActivityInput, 0, 365*10)
	for u := range 10 {
		for d := range 365 {
			inputs = append(inputs, tracker.ActivityInput{
				UserID:     fmt.Sprintf("user-%d", u),
				Date:       daysAgo(d),
				EmailsSent: d % 50,
			})
		}
	}

	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("batch=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				svc, err := tracker.New(memory.New(), tracker.DefaultSettings())
				require.NoError(b, err)
				_, err = svc.Import(context.Background(), inputs, tracker.ImportOptions{BatchSize: size})
				require.NoError(b, err)
			}
		})
	}
}
