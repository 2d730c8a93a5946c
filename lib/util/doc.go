// Package util provides helper components shared by the container packages
// and the command line tools.
//
// The package contains:
//   - statistics: summary statistics (Stats, DistributionStats) used to judge
//     how evenly a hash table spreads its entries over the buckets, and a
//     SizeHistogram for the distribution of key and value sizes
//
// Nothing in this package is safe for concurrent use.
package util
