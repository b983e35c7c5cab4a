package scraper

import "imageharvest/pkg/downloader"

// URLHarvester discovers image source URLs for a query
type URLHarvester interface {
	Harvest(query string, targetCount int) ([]string, error)
}

// ImageDownloader fetches and stores a single image
type ImageDownloader interface {
	Download(url string) (*downloader.DownloadedImage, error)
}
