package hashtable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ValentinKolb/alib/lib/util"
)

// Info is a snapshot of the shape of a hash table.
type Info struct {
	Count           int     `json:"count"`
	BucketCount     int     `json:"bucket_count"`
	NonEmptyBuckets int     `json:"non_empty_buckets"`
	LoadFactor      float64 `json:"load_factor"`
	MaxLoadFactor   float64 `json:"max_load_factor"`
	KeyBytes        int     `json:"key_bytes"`
	ValueBytes      int     `json:"value_bytes"`
	KeyFrames       int     `json:"key_frames"`
	ValueFrames     int     `json:"value_frames"`
	FrameSize       int     `json:"frame_size"`
	BlockSize       int     `json:"block_size"`

	// Chains describes the number of entries per non-empty bucket
	Chains util.DistributionStats `json:"chains"`

	KeySizes   *util.SizeHistogram `json:"-"`
	ValueSizes *util.SizeHistogram `json:"-"`
}

// Info collects size, bucket and chain statistics. It walks every entry and
// bucket, so it takes O(count + bucketCount).
func (h *HashTable) Info() Info {
	info := Info{
		Count:           h.Count(),
		BucketCount:     h.BucketCount(),
		NonEmptyBuckets: h.nonEmptyBuckets,
		LoadFactor:      h.LoadFactor(),
		MaxLoadFactor:   h.maxLoadFactor,
		KeyBytes:        h.keys.TotalSize(),
		ValueBytes:      h.values.TotalSize(),
		KeyFrames:       h.keys.Frames(),
		ValueFrames:     h.values.Frames(),
		FrameSize:       h.FrameSize(),
		BlockSize:       h.BlockSize(),
		KeySizes:        util.NewSizeHistogram(),
		ValueSizes:      util.NewSizeHistogram(),
	}

	chains := make([]float64, 0, h.nonEmptyBuckets)
	for _, size := range h.BucketSizes() {
		if size > 0 {
			chains = append(chains, float64(size))
		}
	}
	info.Chains = util.NewDistributionStats(chains)

	for i := 0; i < info.Count; i++ {
		info.KeySizes.AddSample(h.keys.Size(i))
		info.ValueSizes.AddSample(h.values.Size(i))
	}
	return info
}

// String returns a formatted report of the statistics
func (i Info) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Table")
	addField("Entries", strconv.Itoa(i.Count))
	addField("Buckets", strconv.Itoa(i.BucketCount))
	addField("Non-empty Buckets", strconv.Itoa(i.NonEmptyBuckets))
	addField("Load Factor", fmt.Sprintf("%.3f (max %.2f)", i.LoadFactor, i.MaxLoadFactor))

	addSection("Storage")
	if i.BlockSize == 0 {
		addField("Block Size", "growth disabled")
	} else {
		addField("Block Size", strconv.Itoa(i.BlockSize))
	}
	addField("Frame Size", strconv.Itoa(i.FrameSize))
	addField("Key Bytes", fmt.Sprintf("%d in %d frames", i.KeyBytes, i.KeyFrames))
	addField("Value Bytes", fmt.Sprintf("%d in %d frames", i.ValueBytes, i.ValueFrames))

	addSection("Chains")
	addField("Min / Max", fmt.Sprintf("%.0f / %.0f", i.Chains.Min, i.Chains.Max))
	addField("Mean", fmt.Sprintf("%.2f", i.Chains.Mean))
	addField("Std Deviation", fmt.Sprintf("%.2f", i.Chains.StdDeviation))
	addField("Distribution Quality", fmt.Sprintf("%.2f", i.Chains.DistributionQuality))

	if i.KeySizes != nil && i.KeySizes.Count() > 0 {
		addSection("Key Sizes")
		sb.WriteString(i.KeySizes.String())
		addSection("Value Sizes")
		sb.WriteString(i.ValueSizes.String())
	}
	return sb.String()
}
