// Package spacedevs provides a client for the Launch Library 2 API published
// by The Space Devs.
//
// This package includes:
//   - Endpoint definitions for the five data categories the dashboard shows
//   - A single bounded fetch returning the decoded "results" array
//   - Image downloads validated by decoding the image header
//
// Example usage:
//
//	client := spacedevs.NewClient(cfg.API, log)
//
//	records, err := client.Fetch(ctx, spacedevs.Astronauts, 100)
//	if err != nil {
//	    if errors.IsFetchError(err) {
//	        // show "Failed to fetch astronauts." and continue with no data
//	    }
//	}
//
//	data, err := client.DownloadImage(ctx, url)
package spacedevs
