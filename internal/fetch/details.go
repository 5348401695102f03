// Package fetch drives content retrieval: the quota-friendly batched detail
// lookup, per-channel orchestration, and the full-registry refresh with
// per-channel failure isolation.
package fetch

import (
	"context"
	"log/slog"
)

// detailBatchSize is the upstream maximum number of ids per detail call.
const detailBatchSize = 50

// DetailLister retrieves duration codes for a bounded batch of video ids.
type DetailLister interface {
	ListVideoDurations(ctx context.Context, videoIDs []string) (map[string]string, error)
}

// FetchDurations retrieves duration codes for the given video ids using
// one upstream call per 50 ids. A failed batch contributes no entries (its
// ids fall back to the classifier's unknown default) and does not abort the
// remaining batches.
func FetchDurations(ctx context.Context, client DetailLister, videoIDs []string) map[string]string {
	durations := make(map[string]string, len(videoIDs))

	for start := 0; start < len(videoIDs); start += detailBatchSize {
		end := start + detailBatchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		batch := videoIDs[start:end]

		result, err := client.ListVideoDurations(ctx, batch)
		if err != nil {
			slog.Warn("video detail batch failed",
				"batch_start", start,
				"batch_size", len(batch),
				"error", err)
			continue
		}
		for id, duration := range result {
			durations[id] = duration
		}
	}

	return durations
}
