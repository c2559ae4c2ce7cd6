// Package evaluation scores batches of reference/hypothesis pairs.
//
// Samples are scored in parallel and returned in input order. A sample
// whose reference is empty after cleaning is reported with its error and
// left out of the weighted aggregates, which are weighted by the number of
// reference words.
package evaluation
