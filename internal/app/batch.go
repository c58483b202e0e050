package app

// stationBatchSize is the provider's per-request station limit.
const stationBatchSize = 20

// BatchStationIDs partitions ids into order-preserving groups of at most
// size elements; the last group may be shorter. Pure, no allocation of
// the underlying id strings.
func BatchStationIDs(ids []string, size int) [][]string {
	if size < 1 || len(ids) == 0 {
		return nil
	}
	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
