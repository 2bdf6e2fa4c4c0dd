// Package batch splits large units of work into fixed-size batches and runs
// them sequentially or with bounded concurrency.
//
// The analyze pipeline uses it to fan out per-manifest analysis: each input
// file becomes one batch, processed under a concurrency limit, with progress
// reported through an optional callback. The processor is generic and carries
// no domain knowledge; callbacks own result collection.
package batch
