package utils

import (
	"fmt"
	"lms/config"
	"time"

	"github.com/go-resty/resty/v2"
)

// VideoMeta holds the subset of oEmbed fields we care about
type VideoMeta struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ProviderName string `json:"provider_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// LookupVideoMeta fetches video metadata from the configured oEmbed provider
func LookupVideoMeta(videoURL string) (*VideoMeta, error) {
	client := resty.New().SetTimeout(10 * time.Second)

	meta := new(VideoMeta)
	resp, err := client.R().
		SetQueryParams(map[string]string{
			"url":    videoURL,
			"format": "json",
		}).
		SetResult(meta).
		Get(config.AppConfig.OEmbedProviderURL)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("oEmbed provider returned status %d", resp.StatusCode())
	}

	return meta, nil
}
