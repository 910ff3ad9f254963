package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya151/DCF---racker/internal/aggregate"
	"github.com/Adithya151/DCF---racker/internal/emission"
)

func aggWith(total, drive float64, emails, commits int) aggregate.WindowedAggregate {
	return aggregate.WindowedAggregate{
		TotalCO2Kg:   total,
		TotalEmails:  emails,
		TotalCommits: commits,
		Contribution: emission.Contribution{DriveKg: drive, EmailsKg: total - drive},
		RecordCount:  1,
	}
}

func kinds(s []Suggestion) []Kind {
	out := make([]Kind, len(s))
	for i, sg := range s {
		out[i] = sg.Kind
	}
	return out
}

func TestAdvise(t *testing.T) {
	tests := []struct {
		name string
		agg  aggregate.WindowedAggregate
		want []Kind
	}{
		{
			name: "storage dominates only",
			agg:  aggWith(10, 7, 50, 50),
			want: []Kind{KindStorage},
		},
		{
			name: "storage at exactly sixty percent does not fire",
			agg:  aggWith(10, 6, 0, 0),
			want: []Kind{KindPositive},
		},
		{
			name: "emails over threshold",
			agg:  aggWith(1, 0, 101, 0),
			want: []Kind{KindEmail},
		},
		{
			name: "emails at threshold",
			agg:  aggWith(1, 0, 100, 0),
			want: []Kind{KindPositive},
		},
		{
			name: "commits over threshold",
			agg:  aggWith(1, 0, 0, 201),
			want: []Kind{KindCommits},
		},
		{
			name: "all rules in order",
			agg:  aggWith(10, 9, 500, 900),
			want: []Kind{KindStorage, KindEmail, KindCommits},
		},
		{
			name: "zero total skips storage rule",
			agg:  aggregate.WindowedAggregate{},
			want: []Kind{KindPositive},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Advise(tt.agg, DefaultThresholds())
			assert.Equal(t, tt.want, kinds(got))
		})
	}
}

func TestAdvise_ExactlyOneSuggestionForStorageScenario(t *testing.T) {
	got := Advise(aggWith(10, 7, 50, 50), DefaultThresholds())

	require.Len(t, got, 1)
	assert.Equal(t, MessageStorage, got[0].Message)
}

func TestAdvise_CustomThresholds(t *testing.T) {
	th := Thresholds{DriveShare: 0.9, Emails: 10, Commits: 1000}

	got := Advise(aggWith(10, 7, 11, 500), th)

	assert.Equal(t, []Kind{KindEmail}, kinds(got))
}

func TestMessages(t *testing.T) {
	got := Messages([]Suggestion{
		{Kind: KindEmail, Message: MessageEmail},
		{Kind: KindCommits, Message: MessageCommits},
	})
	assert.Equal(t, []string{MessageEmail, MessageCommits}, got)
	assert.Empty(t, Messages(nil))
}

func TestThresholds_Validate(t *testing.T) {
	require.NoError(t, DefaultThresholds().Validate())
	require.NoError(t, Thresholds{}.Validate())

	assert.ErrorIs(t, Thresholds{DriveShare: 1.5}.Validate(), ErrInvalidThreshold)
	assert.ErrorIs(t, Thresholds{DriveShare: -0.1}.Validate(), ErrInvalidThreshold)
	assert.ErrorIs(t, Thresholds{Emails: -1}.Validate(), ErrInvalidThreshold)
	assert.ErrorIs(t, Thresholds{Commits: -1}.Validate(), ErrInvalidThreshold)
}
