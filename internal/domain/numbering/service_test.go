// internal/domain/numbering/service_test.go
package numbering

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func fixedScanner(max string) Scanner {
	return ScanFunc(func(ctx context.Context, numberPrefix string) (string, error) {
		return max, nil
	})
}

func TestGenerateFirstNumberOfYear(t *testing.T) {
	svc := NewService(nil, testLogger())

	number, err := svc.Generate(context.Background(), "RCP", fixedScanner(""))
	require.NoError(t, err)

	expected := fmt.Sprintf("RCP-%d-0001", time.Now().UTC().Year())
	assert.Equal(t, expected, number)
}

func TestGenerateContinuesFromPersistedMax(t *testing.T) {
	svc := NewService(nil, testLogger())
	year := time.Now().UTC().Year()

	number, err := svc.Generate(context.Background(), "TRF", fixedScanner(fmt.Sprintf("TRF-%d-0041", year)))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("TRF-%d-0042", year), number)
}

func TestGenerateScannerError(t *testing.T) {
	svc := NewService(nil, testLogger())
	scanner := ScanFunc(func(ctx context.Context, numberPrefix string) (string, error) {
		return "", fmt.Errorf("store unavailable")
	})

	_, err := svc.Generate(context.Background(), "ADJ", scanner)
	require.Error(t, err)
}

func TestGenerateScannerReceivesYearPrefix(t *testing.T) {
	svc := NewService(nil, testLogger())
	var got string
	scanner := ScanFunc(func(ctx context.Context, numberPrefix string) (string, error) {
		got = numberPrefix
		return "", nil
	})

	_, err := svc.Generate(context.Background(), "DEL", scanner)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("DEL-%d-", time.Now().UTC().Year()), got)
}

func TestParseSequence(t *testing.T) {
	tests := []struct {
		number string
		want   int64
	}{
		{"", 0},
		{"RCP-2026-0001", 1},
		{"RCP-2026-0042", 42},
		{"TRF-2026-9999", 9999},
		{"TRF-2026-10000", 10000},
		{"garbage", 0},
		{"RCP-2026-", 0},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSequence(tt.number))
		})
	}
}
