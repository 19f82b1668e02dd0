package dto

import (
	"time"

	"ir-gateway/opensearch"
)

// FeedLinksDTO는 document head에 등록할 대체 링크 목록이다.
// OpenSearch가 비활성화되어 있으면 Enabled=false에 빈 목록이 내려간다.
type FeedLinksDTO struct {
	Enabled bool              `json:"enabled"`
	Links   []opensearch.Link `json:"links"`
}

// FeedItemDTO는 피드 미리보기의 정규화된 항목이다.
// Summary는 HTML 태그를 제거한 평문이다.
type FeedItemDTO struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
	Summary     string    `json:"summary,omitempty"`
}

// FeedPreviewDTO는 피드 미리보기 응답이다.
type FeedPreviewDTO struct {
	Route string        `json:"route"`
	Title string        `json:"title"`
	Items []FeedItemDTO `json:"items"`
}
