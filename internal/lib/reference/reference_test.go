package reference

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMint(t *testing.T) {
	userUID := uuid.New().String()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	got, err := Mint(userUID, now)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("agrichain_%s_%d", userUID, now.UnixMilli()), got)
}

func TestMint_InvalidUID(t *testing.T) {
	_, err := Mint("not-a-uuid", time.Now())
	require.Error(t, err)
}

func TestMint_UniquePerMillisecond(t *testing.T) {
	userUID := uuid.New().String()
	now := time.Now()

	first, err := Mint(userUID, now)
	require.NoError(t, err)
	second, err := Mint(userUID, now.Add(time.Millisecond))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPick(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{
			name:       "first non-empty wins",
			candidates: []string{"ref-1", "ref-2"},
			want:       "ref-1",
		},
		{
			name:       "alias fallback",
			candidates: []string{"", "trxref-value", ""},
			want:       "trxref-value",
		},
		{
			name:       "whitespace treated as empty",
			candidates: []string{"   ", "tx-ref-value"},
			want:       "tx-ref-value",
		},
		{
			name:       "all empty",
			candidates: []string{"", "  ", ""},
			want:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Pick(tt.candidates...))
		})
	}
}
