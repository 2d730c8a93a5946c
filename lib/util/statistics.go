// Package util provides statistics helpers for the containers in this module.
// This file implements summary statistics for bucket chain lengths and a size
// histogram for the key and value sizes stored in a hash table. The histogram
// uses exponential bucket boundaries to cover a wide range of sizes
// (bytes to gigabytes) with a handful of counters.
//
// Like the containers themselves, nothing in this file is safe for concurrent use.
package util

import (
	"fmt"
	"math"
	"strings"
)

// ----------------------------------------------------------------------------
// Summary statistics
// ----------------------------------------------------------------------------

type Stats struct {
	StdDeviation float64 `json:"std_deviation"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	MinMaxRatio  float64 `json:"min_max_ratio"`
}

// NewStats computes the population standard deviation, minimum, maximum and
// mean of values.
func NewStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	min, max := values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / float64(len(values))

	var sumSquaredDiffs float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiffs += diff * diff
	}

	minMaxRatio := 1.0
	if max > 0 {
		minMaxRatio = min / max
	}

	return Stats{
		StdDeviation: math.Sqrt(sumSquaredDiffs / float64(len(values))),
		Min:          min,
		Max:          max,
		Mean:         mean,
		MinMaxRatio:  minMaxRatio,
	}
}

type DistributionStats struct {
	Stats
	DistributionQuality float64 `json:"distribution_quality"`
}

// NewDistributionStats rates how evenly values (e.g. the number of entries per
// non-empty bucket) are spread. A quality of 1 means all values are equal.
func NewDistributionStats(values []float64) DistributionStats {
	stats := NewStats(values)

	// coefficient of variation
	var cv float64
	if stats.Mean > 0 {
		cv = stats.StdDeviation / stats.Mean
	}

	// lower CV and higher min/max ratio mean a better spread
	quality := (1.0-math.Min(1.0, cv))*0.5 + stats.MinMaxRatio*0.5

	return DistributionStats{
		Stats:               stats,
		DistributionQuality: quality,
	}
}

// ----------------------------------------------------------------------------
// SizeHistogram
// ----------------------------------------------------------------------------

// SizeHistogram tracks the distribution of element sizes in exponential
// buckets from 16 bytes to 4GB.
type SizeHistogram struct {
	boundaries []int   // Upper bound (inclusive) of each bucket
	buckets    []int64 // Number of samples per bucket, the last one is unbounded
	count      int64
	sum        int64
}

// NewSizeHistogram creates an empty histogram.
func NewSizeHistogram() *SizeHistogram {
	boundaries := []int{
		16, 64, 256, 1024, 4096, // 16B to 4KB
		16384, 65536, 262144, 1048576, // 16KB to 1MB
		4194304, 16777216, 67108864, // 4MB to 64MB
		268435456, 1073741824, 4294967296, // 256MB to 4GB
	}
	return &SizeHistogram{
		boundaries: boundaries,
		buckets:    make([]int64, len(boundaries)+1),
	}
}

// AddSample records one element of size bytes.
func (h *SizeHistogram) AddSample(size int) {
	bucketIndex := len(h.boundaries)
	for i, boundary := range h.boundaries {
		if size <= boundary {
			bucketIndex = i
			break
		}
	}

	h.buckets[bucketIndex]++
	h.count++
	h.sum += int64(size)
}

// Count returns the number of samples.
func (h *SizeHistogram) Count() int64 {
	return h.count
}

// AverageSize returns the mean sample size.
func (h *SizeHistogram) AverageSize() int {
	if h.count == 0 {
		return 0
	}
	return int(h.sum / h.count)
}

// MedianEstimate estimates the median from the bucket counts.
func (h *SizeHistogram) MedianEstimate() int {
	return h.PercentileEstimate(50)
}

// PercentileEstimate estimates the given percentile (0-100) as the midpoint
// of the bucket that contains it.
func (h *SizeHistogram) PercentileEstimate(percentile int) int {
	if h.count == 0 || percentile < 0 || percentile > 100 {
		return 0
	}

	target := int64(math.Ceil(float64(h.count) * float64(percentile) / 100.0))
	var cumulative int64
	for i, count := range h.buckets {
		cumulative += count
		if cumulative >= target {
			return h.bucketEstimate(i)
		}
	}
	return int(h.sum / h.count)
}

// bucketEstimate returns a representative size for bucket i
func (h *SizeHistogram) bucketEstimate(i int) int {
	switch {
	case i == 0:
		return h.boundaries[0] / 2
	case i < len(h.boundaries):
		return (h.boundaries[i-1] + h.boundaries[i]) / 2
	default:
		return h.boundaries[len(h.boundaries)-1] * 2
	}
}

// Distribution returns the bucket boundaries and the percentage of samples in
// each bucket (one more percentage than boundaries).
func (h *SizeHistogram) Distribution() ([]int, []float64) {
	percentages := make([]float64, len(h.buckets))
	if h.count == 0 {
		return h.boundaries, percentages
	}
	for i, count := range h.buckets {
		percentages[i] = float64(count) * 100.0 / float64(h.count)
	}
	return h.boundaries, percentages
}

// Reset removes all samples.
func (h *SizeHistogram) Reset() {
	h.count = 0
	h.sum = 0
	clear(h.buckets)
}

// String renders the non-empty buckets, one per line.
func (h *SizeHistogram) String() string {
	var sb strings.Builder
	boundaries, percentages := h.Distribution()
	for i, p := range percentages {
		if h.buckets[i] == 0 {
			continue
		}
		label := fmt.Sprintf("> %d", boundaries[len(boundaries)-1])
		if i < len(boundaries) {
			label = fmt.Sprintf("<= %d", boundaries[i])
		}
		sb.WriteString(fmt.Sprintf("  %-14s: %6d (%5.1f%%)\n", label, h.buckets[i], p))
	}
	return sb.String()
}
