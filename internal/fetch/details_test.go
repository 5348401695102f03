package fetch

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// batchRecorder records every batch it receives and can fail chosen calls.
type batchRecorder struct {
	batches   [][]string
	failCalls map[int]bool // 0-based call index -> fail
}

func (b *batchRecorder) ListVideoDurations(_ context.Context, videoIDs []string) (map[string]string, error) {
	call := len(b.batches)
	b.batches = append(b.batches, videoIDs)
	if b.failCalls[call] {
		return nil, errors.New("upstream request failed")
	}
	result := make(map[string]string, len(videoIDs))
	for _, id := range videoIDs {
		result[id] = "PT5M"
	}
	return result, nil
}

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("vid%03d", i)
	}
	return ids
}

func TestFetchDurations_BatchCount(t *testing.T) {
	cases := []struct {
		ids         int
		wantBatches int
	}{
		{0, 0},
		{1, 1},
		{50, 1},
		{51, 2},
		{100, 2},
		{101, 3},
		{237, 5},
	}

	for _, tc := range cases {
		recorder := &batchRecorder{}
		durations := FetchDurations(context.Background(), recorder, makeIDs(tc.ids))

		if len(recorder.batches) != tc.wantBatches {
			t.Errorf("%d ids: expected %d batches, got %d", tc.ids, tc.wantBatches, len(recorder.batches))
		}
		if len(durations) != tc.ids {
			t.Errorf("%d ids: expected %d durations, got %d", tc.ids, tc.ids, len(durations))
		}
	}
}

func TestFetchDurations_BatchesNeverExceedLimit(t *testing.T) {
	recorder := &batchRecorder{}

	FetchDurations(context.Background(), recorder, makeIDs(137))

	for i, batch := range recorder.batches {
		if len(batch) > detailBatchSize {
			t.Errorf("batch %d has %d ids, exceeding the upstream maximum of %d", i, len(batch), detailBatchSize)
		}
	}
}

func TestFetchDurations_FailedBatchIsIsolated(t *testing.T) {
	recorder := &batchRecorder{failCalls: map[int]bool{1: true}}

	durations := FetchDurations(context.Background(), recorder, makeIDs(150))

	if len(recorder.batches) != 3 {
		t.Fatalf("a failed batch must not abort the rest, expected 3 batches, got %d", len(recorder.batches))
	}
	// Batches 0 and 2 succeeded: 100 entries; batch 1's 50 ids are absent.
	if len(durations) != 100 {
		t.Errorf("expected 100 durations from the surviving batches, got %d", len(durations))
	}
	if _, ok := durations["vid000"]; !ok {
		t.Error("first batch results should be intact")
	}
	if _, ok := durations["vid075"]; ok {
		t.Error("failed batch ids should be absent, falling back to the unknown default")
	}
	if _, ok := durations["vid120"]; !ok {
		t.Error("third batch results should be intact")
	}
}
