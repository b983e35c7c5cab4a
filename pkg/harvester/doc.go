// Package harvester implements paginated discovery of full-resolution image
// URLs from a search result surface.
//
// The surface presents thumbnails. Clicking a thumbnail reveals one or more
// elements carrying the full-resolution source URL. More thumbnails appear
// after scrolling, and when scrolling alone is exhausted a pagination control
// must be activated to load the next batch.
//
// A harvest session walks the thumbnail list with a monotonically advancing
// scan window so no thumbnail is processed twice, de-duplicates collected
// URLs, paces every successful interaction through a Pacer, and terminates
// when either the target count is reached or no pagination control remains.
package harvester
