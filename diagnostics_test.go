package sparsebayes

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelDiagnosticSink(t *testing.T) {
	ch := make(chan Diagnostic, 1)
	sink := ChannelDiagnosticSink{C: ch}

	sink.Emit(context.Background(), Diagnostic{Iteration: 1, Retained: 3})
	// Channel full: the second event is dropped, never blocking.
	sink.Emit(context.Background(), Diagnostic{Iteration: 2, Retained: 2})

	d := <-ch
	assert.Equal(t, 1, d.Iteration)
	assert.Empty(t, ch)
}

func TestChannelDiagnosticSink_NilChannel(t *testing.T) {
	sink := ChannelDiagnosticSink{}
	sink.Emit(context.Background(), Diagnostic{})
}

func TestLoggerDiagnosticSink(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelDebug)
	sink := LoggerDiagnosticSink{Logger: logger}

	sink.Emit(context.Background(), Diagnostic{
		Iteration: 9,
		Alpha:     []float64{0.1},
		Beta:      400,
		Gamma:     []float64{0.9},
		Mean:      []float64{3},
		Retained:  1,
	})

	out := buf.String()
	assert.Contains(t, out, "fit progress")
	assert.Contains(t, out, "fit state")
	assert.Contains(t, out, "relevance_vectors=1")
}

func TestLoggerDiagnosticSink_NilLogger(t *testing.T) {
	sink := LoggerDiagnosticSink{}
	sink.Emit(context.Background(), Diagnostic{})
}

func TestDiagnosticFrequency(t *testing.T) {
	x, y, labels := syntheticLinear(60, 0.05)

	events := make(chan Diagnostic, 4096)
	model := New(
		WithDiagnosticSink(ChannelDiagnosticSink{C: events}),
		WithDiagnosticFrequency(10),
	)
	require.NoError(t, model.Fit(context.Background(), x, y, labels))
	close(events)

	for d := range events {
		// Events fire on iterations 9, 19, 29, ... only.
		assert.Equal(t, 9, d.Iteration%10)
	}
}

func TestDiagnosticSlicesAreCopies(t *testing.T) {
	x, y, labels := syntheticLinear(60, 0.05)

	events := make(chan Diagnostic, 4096)
	model := New(
		WithDiagnosticSink(ChannelDiagnosticSink{C: events}),
		WithDiagnosticFrequency(1),
	)
	require.NoError(t, model.Fit(context.Background(), x, y, labels))
	close(events)

	var collected []Diagnostic
	for d := range events {
		collected = append(collected, d)
	}
	require.NotEmpty(t, collected)

	// Retained events stay valid after the fit finished.
	first := collected[0]
	assert.Len(t, first.Alpha, first.Retained)
	assert.Len(t, first.Mean, first.Retained)
}
