// Package batch splits a slice into fixed-size chunks and hands them to a
// callback in order. Bulk imports use it to bound how many activity records
// reach the store in one write.
package batch
