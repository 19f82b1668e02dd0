package services

import (
	"context"
	"fmt"

	"ir-gateway/cache"
	"ir-gateway/cmd/api/clients/authzclient"
	"ir-gateway/cmd/api/clients/repoclient"
	"ir-gateway/cmd/api/dto"
	"ir-gateway/cmd/api/trace"
	"ir-gateway/cmd/internal/logger"
	"ir-gateway/eventbus"
	"ir-gateway/events"
	"ir-gateway/models"
	"ir-gateway/remotedata"
	"ir-gateway/repositories"
)

// GroupService는 그룹 레지스트리 화면의 비즈니스 로직을 담당한다.
//
// - repo-service의 그룹 목록/CRUD API를 호출한다.
// - 행마다 인가 질의(canDelete)를 동시 수행해 파생 DTO를 합성한다.
// - 목록 응답은 redis에 페이지 단위로 캐시하고, 변경 시 세대 증가로
//   통째로 무효화한다. 페이지 병합은 하지 않는다.
type GroupService struct {
	repoClient  *repoclient.Client
	authzClient *authzclient.Client
	listCache   *cache.ListCache                 // nil이면 캐시 없이 동작
	auditRepo   *repositories.AuditLogRepository // nil이면 감사 기록 생략
	bus         eventbus.EventBus                // nil이면 이벤트 발행 생략
}

func NewGroupService(
	repoClient *repoclient.Client,
	authzClient *authzclient.Client,
	listCache *cache.ListCache,
	auditRepo *repositories.AuditLogRepository,
	bus eventbus.EventBus,
) *GroupService {
	return &GroupService{
		repoClient:  repoClient,
		authzClient: authzClient,
		listCache:   listCache,
		auditRepo:   auditRepo,
		bus:         bus,
	}
}

type ListGroupsInput struct {
	Query    string
	Page     int
	PageSize int
	// Force가 참이면 캐시를 읽지 않고 백엔드로 직행한다.
	Force bool
}

func listCacheKey(query string, page, size int) string {
	return fmt.Sprintf("q=%s&page=%d&size=%d", query, page, size)
}

// List는 그룹 레지스트리 한 페이지를 합성해 반환한다.
// 모든 행의 인가 파생이 끝난 뒤에야 결과가 나간다(join 의미론).
func (s *GroupService) List(ctx context.Context, in ListGroupsInput) (dto.Pagination[dto.GroupRegistryRowDTO], error) {
	info := remotedata.PageInfo{CurrentPage: in.Page, PageSize: in.PageSize}
	if err := info.Validate(); err != nil {
		return dto.Pagination[dto.GroupRegistryRowDTO]{}, err
	}

	key := listCacheKey(in.Query, in.Page, in.PageSize)
	if !in.Force && s.listCache != nil {
		var cached dto.Pagination[dto.GroupRegistryRowDTO]
		hit, err := s.listCache.Get(ctx, key, &cached)
		if err != nil {
			// 캐시 장애는 미스로 취급하고 백엔드로 진행한다.
			logger.Log.Warnf("group list cache read failed: %v", err)
		} else if hit {
			return cached, nil
		}
	}

	resp, err := s.repoClient.ListGroups(ctx, in.Query, in.Page, in.PageSize)
	if err != nil {
		return dto.Pagination[dto.GroupRegistryRowDTO]{}, err
	}

	list := remotedata.PaginatedList[repoclient.GroupItem]{
		PageInfo: resp.Page.PageInfo(),
		Items:    resp.Groups,
	}

	// 행별 canDelete 파생. permanent 그룹은 백엔드에 묻지 않아도 삭제 불가다.
	composed, err := remotedata.Compose(ctx, list, func(ctx context.Context, g repoclient.GroupItem) (bool, error) {
		if g.Permanent {
			return false, nil
		}
		return s.authzClient.CanPerform(ctx, authzclient.FeatureCanDelete, g.SelfLink())
	})
	if err != nil {
		return dto.Pagination[dto.GroupRegistryRowDTO]{}, err
	}

	out := make([]dto.GroupRegistryRowDTO, 0, len(composed.Items))
	for _, row := range composed.Items {
		out = append(out, dto.GroupRegistryRowDTO{
			Group:        mapGroupFromRepo(row.Entity),
			AbleToDelete: row.Flags,
		})
	}

	page := dto.Pagination[dto.GroupRegistryRowDTO]{
		Data:     out,
		Page:     in.Page,
		PageSize: in.PageSize,
		Total:    resp.Page.TotalElements,
	}

	if s.listCache != nil {
		if err := s.listCache.Set(ctx, key, page); err != nil {
			logger.Log.Warnf("group list cache write failed: %v", err)
		}
	}
	return page, nil
}

// InvalidateList drops every cached group list page.
func (s *GroupService) InvalidateList(ctx context.Context) error {
	if s.listCache == nil {
		return nil
	}
	return s.listCache.Invalidate(ctx)
}

// Create는 그룹을 만들고 감사 기록과 레지스트리 이벤트를 남긴다.
func (s *GroupService) Create(ctx context.Context, actor, name string) (dto.GroupDTO, error) {
	created, err := s.repoClient.CreateGroup(ctx, name)
	s.recordAudit(ctx, actor, models.AuditActionGroupCreate, created.UUID, name, err)
	if err != nil {
		return dto.GroupDTO{}, err
	}

	s.afterMutation(ctx, events.NewGroupCreatedEvent(created.UUID, created.Name, actor))
	return mapGroupFromRepo(created), nil
}

// Rename은 그룹 이름을 바꾼다.
func (s *GroupService) Rename(ctx context.Context, actor, id, name string) (dto.GroupDTO, error) {
	var oldName string
	if prev, err := s.repoClient.GetGroup(ctx, id); err == nil {
		oldName = prev.Name
	}

	renamed, err := s.repoClient.RenameGroup(ctx, id, name)
	s.recordAudit(ctx, actor, models.AuditActionGroupRename, id, name, err)
	if err != nil {
		return dto.GroupDTO{}, err
	}

	s.afterMutation(ctx, events.NewGroupRenamedEvent(id, oldName, renamed.Name, actor))
	return mapGroupFromRepo(renamed), nil
}

// Delete는 그룹을 삭제한다. 목록은 성공이 확인된 뒤에만 갱신되므로
// 되돌릴 낙관적 갱신은 존재하지 않는다. 실패 원인은 백엔드 문자열
// 원문 그대로 에러에 담겨 호출자에게 전달된다.
func (s *GroupService) Delete(ctx context.Context, actor, id string) error {
	err := s.repoClient.DeleteGroup(ctx, id)
	s.recordAudit(ctx, actor, models.AuditActionGroupDelete, id, "", err)
	if err != nil {
		return err
	}

	s.afterMutation(ctx, events.NewGroupDeletedEvent(id, actor))
	return nil
}

// AuditTrail은 특정 그룹의 변경 이력을 반환한다.
func (s *GroupService) AuditTrail(ctx context.Context, targetID string, limit int64) ([]models.AuditLog, error) {
	if s.auditRepo == nil {
		return nil, nil
	}
	return s.auditRepo.ListByTarget(ctx, targetID, limit)
}

// RecentAudit은 대상 구분 없이 최근 관리자 변경 기록을 반환한다.
func (s *GroupService) RecentAudit(ctx context.Context, limit int64) ([]models.AuditLog, error) {
	if s.auditRepo == nil {
		return nil, nil
	}
	return s.auditRepo.ListRecent(ctx, limit)
}

// afterMutation은 변경 성공 후의 공통 후처리다: 캐시 무효화와 이벤트 발행.
// 변경 자체는 이미 성공했으므로 후처리 실패는 로그만 남긴다.
func (s *GroupService) afterMutation(ctx context.Context, payload any) {
	if err := s.InvalidateList(ctx); err != nil {
		logger.Log.Warnf("group list cache invalidation failed: %v", err)
	}
	if s.bus == nil {
		return
	}
	evt, err := eventbus.NewJSONEvent("", payload)
	if err != nil {
		logger.Log.Errorf("registry event encoding failed: %v", err)
		return
	}
	if err := s.bus.Publish(ctx, eventbus.TopicGroupRegistry.Base(), evt); err != nil {
		logger.Log.Errorf("registry event publish failed: %v", err)
	}
}

func (s *GroupService) recordAudit(ctx context.Context, actor, action, targetID, targetName string, opErr error) {
	if s.auditRepo == nil {
		return
	}
	entry := models.AuditLog{
		Actor:      actor,
		Action:     action,
		TargetID:   targetID,
		TargetName: targetName,
		Succeeded:  opErr == nil,
		RequestID:  trace.RequestIDFromContext(ctx),
	}
	if opErr != nil {
		cause := opErr.Error()
		entry.Cause = &cause
	}
	if _, err := s.auditRepo.Insert(ctx, entry); err != nil {
		logger.Log.Errorf("audit insert failed: %v", err)
	}
}

// mapGroupFromRepo converts a backend group representation into the public DTO.
func mapGroupFromRepo(g repoclient.GroupItem) dto.GroupDTO {
	return dto.GroupDTO{
		ID:            g.UUID,
		Name:          g.Name,
		Permanent:     g.Permanent,
		SelfLink:      g.Links["self"].Href,
		SubgroupsLink: g.Links["subgroups"].Href,
		MembersLink:   g.Links["epersons"].Href,
	}
}
