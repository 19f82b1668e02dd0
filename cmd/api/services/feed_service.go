package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"ir-gateway/cmd/api/clients/repoclient"
	"ir-gateway/cmd/api/dto"
	"ir-gateway/cmd/internal/logger"
	"ir-gateway/opensearch"
)

// 원격 설정 저장소의 OpenSearch 관련 속성 이름.
const (
	propOpenSearchEnable     = "websvc.opensearch.enable"
	propOpenSearchSvcContext = "websvc.opensearch.svccontext"
)

// FeedService는 OpenSearch 피드 링크 생성과 미리보기를 담당한다.
//
// 활성화 여부와 서비스 컨텍스트는 백엔드의 원격 설정 속성에서 읽고,
// 매 요청마다 조회하지 않도록 짧은 TTL로 메모리에 캐시한다.
type FeedService struct {
	repoClient *repoclient.Client
	parser     *gofeed.Parser

	// feedBase는 피드 경로를 절대 URL로 만들 때 붙는 백엔드 기준 URL이다.
	feedBase        string
	fallbackContext string
	flagTTL         time.Duration
	previewLimit    int

	mu        sync.Mutex
	flags     feedFlags
	fetchedAt time.Time
}

type feedFlags struct {
	Enabled        bool
	ServiceContext string
}

func NewFeedService(repoClient *repoclient.Client, parser *gofeed.Parser, feedBase, fallbackContext string, flagTTL time.Duration, previewLimit int) *FeedService {
	if parser == nil {
		parser = gofeed.NewParser()
	}
	return &FeedService{
		repoClient:      repoClient,
		parser:          parser,
		feedBase:        strings.TrimRight(feedBase, "/"),
		fallbackContext: fallbackContext,
		flagTTL:         flagTTL,
		previewLimit:    previewLimit,
	}
}

// ErrFeedsDisabled는 OpenSearch가 원격 설정에서 꺼져 있을 때 반환된다.
var ErrFeedsDisabled = errors.New("opensearch feeds are disabled")

// loadFlags는 원격 설정 속성을 조회한다. TTL 안에서는 캐시 값을 쓴다.
//
// enable 속성이 정의되어 있지 않으면 비활성으로 본다. svccontext 속성이
// 없거나 비어 있으면 로컬 설정의 fallback 값을 쓴다.
func (s *FeedService) loadFlags(ctx context.Context) (feedFlags, error) {
	s.mu.Lock()
	if !s.fetchedAt.IsZero() && time.Since(s.fetchedAt) < s.flagTTL {
		flags := s.flags
		s.mu.Unlock()
		return flags, nil
	}
	s.mu.Unlock()

	flags := feedFlags{ServiceContext: s.fallbackContext}

	enableProp, err := s.repoClient.GetConfigProperty(ctx, propOpenSearchEnable)
	switch {
	case err == nil:
		flags.Enabled = enableProp.BoolValue()
	case errors.Is(err, repoclient.ErrNotFound):
		flags.Enabled = false
	default:
		return feedFlags{}, err
	}

	if flags.Enabled {
		ctxProp, err := s.repoClient.GetConfigProperty(ctx, propOpenSearchSvcContext)
		if err == nil && ctxProp.First() != "" {
			flags.ServiceContext = ctxProp.First()
		} else if err != nil && !errors.Is(err, repoclient.ErrNotFound) {
			logger.Log.Warnf("opensearch svccontext lookup failed, using fallback %q: %v", s.fallbackContext, err)
		}
	}

	s.mu.Lock()
	s.flags = flags
	s.fetchedAt = time.Now()
	s.mu.Unlock()
	return flags, nil
}

// Links는 현재 검색 조건에 대한 Atom/RSS head 링크를 반환한다.
// OpenSearch가 꺼져 있으면 Enabled=false에 빈 목록이 나간다.
func (s *FeedService) Links(ctx context.Context, scope, query string, sort *opensearch.Sort) (dto.FeedLinksDTO, error) {
	flags, err := s.loadFlags(ctx)
	if err != nil {
		return dto.FeedLinksDTO{}, err
	}
	if !flags.Enabled {
		return dto.FeedLinksDTO{Enabled: false, Links: []opensearch.Link{}}, nil
	}
	return dto.FeedLinksDTO{
		Enabled: true,
		Links:   opensearch.Links(scope, flags.ServiceContext, sort, query),
	}, nil
}

// Preview는 피드를 실제로 가져와 정규화된 항목 목록을 반환한다.
// format은 atom 또는 rss다.
func (s *FeedService) Preview(ctx context.Context, scope, query, format string, sort *opensearch.Sort, limit int) (dto.FeedPreviewDTO, error) {
	flags, err := s.loadFlags(ctx)
	if err != nil {
		return dto.FeedPreviewDTO{}, err
	}
	if !flags.Enabled {
		return dto.FeedPreviewDTO{}, ErrFeedsDisabled
	}

	route := opensearch.FormulateRoute(scope, flags.ServiceContext, sort, query)
	if format == opensearch.FormatRSS {
		route = opensearch.RSSVariant(route)
	}

	feed, err := s.parser.ParseURLWithContext(s.feedBase+route, ctx)
	if err != nil {
		return dto.FeedPreviewDTO{}, err
	}

	if limit <= 0 || limit > s.previewLimit {
		limit = s.previewLimit
	}

	items := make([]dto.FeedItemDTO, 0, limit)
	for _, item := range feed.Items {
		if len(items) >= limit {
			break
		}
		normalized := dto.FeedItemDTO{
			Title:   StripHTML(item.Title),
			Link:    item.Link,
			Summary: StripHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			normalized.PublishedAt = item.PublishedParsed.UTC()
		}
		items = append(items, normalized)
	}

	return dto.FeedPreviewDTO{
		Route: route,
		Title: feed.Title,
		Items: items,
	}, nil
}
