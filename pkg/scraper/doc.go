// Package scraper orchestrates a complete run: acquire a browser surface,
// harvest image URLs, release the surface, then download each URL
// sequentially into content-addressed storage.
//
// Per-URL download failures never abort the run. They are accumulated by
// stable error kind in the outcome so a caller can see every failure class
// that occurred across the batch.
package scraper
