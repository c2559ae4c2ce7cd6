// Package dataset reads and writes the CSV files around an evaluation:
// sample sheets, transcript exports and AWS credential downloads.
package dataset
