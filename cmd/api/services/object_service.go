package services

import (
	"context"
	"fmt"

	"ir-gateway/cache"
	"ir-gateway/cmd/api/clients/repoclient"
	"ir-gateway/cmd/api/dto"
	"ir-gateway/cmd/internal/logger"
	"ir-gateway/remotedata"
)

// ObjectService는 리포지터리 객체 검색을 프런트엔드용 envelope로 변환한다.
type ObjectService struct {
	repoClient *repoclient.Client
	listCache  *cache.ListCache // nil이면 캐시 없이 동작
}

func NewObjectService(repoClient *repoclient.Client, listCache *cache.ListCache) *ObjectService {
	return &ObjectService{repoClient: repoClient, listCache: listCache}
}

type SearchObjectsInput struct {
	Query         string
	Scope         string
	Page          int
	PageSize      int
	SortField     string
	SortDirection string
	Force         bool
}

func searchCacheKey(in SearchObjectsInput) string {
	return fmt.Sprintf("q=%s&scope=%s&page=%d&size=%d&sort=%s,%s",
		in.Query, in.Scope, in.Page, in.PageSize, in.SortField, in.SortDirection)
}

// Search는 검색 결과 한 페이지를 반환한다. 질의가 비어 있으면 전체 일치다.
func (s *ObjectService) Search(ctx context.Context, in SearchObjectsInput) (dto.Pagination[dto.ObjectDTO], error) {
	info := remotedata.PageInfo{CurrentPage: in.Page, PageSize: in.PageSize}
	if err := info.Validate(); err != nil {
		return dto.Pagination[dto.ObjectDTO]{}, err
	}

	key := searchCacheKey(in)
	if !in.Force && s.listCache != nil {
		var cached dto.Pagination[dto.ObjectDTO]
		hit, err := s.listCache.Get(ctx, key, &cached)
		if err != nil {
			logger.Log.Warnf("object search cache read failed: %v", err)
		} else if hit {
			return cached, nil
		}
	}

	resp, err := s.repoClient.SearchObjects(ctx, repoclient.SearchObjectsParams{
		Query:         in.Query,
		Scope:         in.Scope,
		Page:          in.Page,
		PageSize:      in.PageSize,
		SortField:     in.SortField,
		SortDirection: in.SortDirection,
	})
	if err != nil {
		return dto.Pagination[dto.ObjectDTO]{}, err
	}

	out := make([]dto.ObjectDTO, 0, len(resp.Objects))
	for _, obj := range resp.Objects {
		out = append(out, dto.ObjectDTO{
			ID:       obj.UUID,
			Name:     obj.Name,
			Handle:   obj.Handle,
			Type:     obj.Type,
			Metadata: obj.Metadata,
			SelfLink: obj.Links["self"].Href,
		})
	}

	page := dto.Pagination[dto.ObjectDTO]{
		Data:     out,
		Page:     in.Page,
		PageSize: in.PageSize,
		Total:    resp.Page.TotalElements,
	}

	if s.listCache != nil {
		if err := s.listCache.Set(ctx, key, page); err != nil {
			logger.Log.Warnf("object search cache write failed: %v", err)
		}
	}
	return page, nil
}

// InvalidateSearch drops every cached search page.
func (s *ObjectService) InvalidateSearch(ctx context.Context) error {
	if s.listCache == nil {
		return nil
	}
	return s.listCache.Invalidate(ctx)
}
