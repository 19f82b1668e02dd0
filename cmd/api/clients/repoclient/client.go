package repoclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"ir-gateway/cmd/api/httpclient"
	"ir-gateway/remotedata"
)

// Client는 기관 리포지터리 REST 백엔드를 호출하는 얇은 클라이언트다.
//
// - 목록 엔드포인트는 page/size/query 파라미터를 받고, 응답에 page
//   메타데이터와 엔티티 표현 배열을 함께 담는다.
// - 엔티티별 하위 리소스(subgroups, epersons)는 각 표현에 포함된
//   _links 하이퍼링크로만 접근한다. 경로를 직접 조립하지 않는다.
//
// baseURL 예: http://repo_service:8080/server

type Client struct {
	base *httpclient.BaseClient
}

var (
	ErrNotFound = errors.New("resource not found")
	// ErrNameTaken은 그룹 이름 중복으로 백엔드가 422를 돌려준 경우다.
	ErrNameTaken = errors.New("group name already taken")
)

// New builds a client against the given backend base URL.
func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		base: httpclient.NewBaseClientWithClient(httpClient, baseURL),
	}
}

// transportErr는 비정상 상태 코드를 백엔드 본문 원문과 함께 감싼다.
func transportErr(op string, status int, body []byte) error {
	return &remotedata.TransportError{
		Op:     op,
		Status: status,
		Cause:  errors.New(string(body)),
	}
}

func readErrBody(resp *http.Response) []byte {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return b
}

// -------------------- Common representations --------------------

// Page는 백엔드 목록 응답의 페이지 메타데이터다. number는 1부터 시작한다.
type Page struct {
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
}

// PageInfo converts the wire page metadata into the core type.
func (p Page) PageInfo() remotedata.PageInfo {
	return remotedata.PageInfo{
		CurrentPage:   p.Number,
		PageSize:      p.Size,
		TotalElements: p.TotalElements,
	}
}

type Link struct {
	Href string `json:"href"`
}

// Links는 엔티티 표현에 포함된 하이퍼링크 모음이다 (self, subgroups, ...).
type Links map[string]Link

// -------------------- Search objects --------------------

type SearchObjectsParams struct {
	Query         string
	Scope         string
	Page          int
	PageSize      int
	SortField     string
	SortDirection string
	// DSOTypes로 결과를 item/collection/community로 제한할 수 있다.
	DSOTypes []string
}

type ObjectItem struct {
	UUID     string              `json:"uuid"`
	Name     string              `json:"name"`
	Handle   string              `json:"handle"`
	Type     string              `json:"type"`
	Metadata map[string][]string `json:"metadata"`
	Links    Links               `json:"_links"`
}

type SearchObjectsResponse struct {
	Page    Page
	Objects []ObjectItem
}

type searchObjectsEnvelope struct {
	Page     Page `json:"page"`
	Embedded struct {
		Objects []ObjectItem `json:"objects"`
	} `json:"_embedded"`
}

func (c *Client) SearchObjects(ctx context.Context, params SearchObjectsParams) (SearchObjectsResponse, error) {
	q := url.Values{}
	if params.Query != "" {
		q.Set("query", params.Query)
	}
	if params.Scope != "" {
		q.Set("scope", params.Scope)
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		q.Set("size", strconv.Itoa(params.PageSize))
	}
	if params.SortField != "" {
		q.Set("sort", params.SortField+","+params.SortDirection)
	}
	for _, t := range params.DSOTypes {
		q.Add("dsoType", t)
	}

	req, err := c.base.NewRequest(ctx, http.MethodGet, "/api/discover/search/objects", q, nil)
	if err != nil {
		return SearchObjectsResponse{}, err
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return SearchObjectsResponse{}, &remotedata.TransportError{Op: "repo-service SearchObjects", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SearchObjectsResponse{}, transportErr("repo-service SearchObjects", resp.StatusCode, readErrBody(resp))
	}

	var env searchObjectsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return SearchObjectsResponse{}, err
	}
	return SearchObjectsResponse{Page: env.Page, Objects: env.Embedded.Objects}, nil
}

// -------------------- Groups --------------------

type GroupItem struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	Permanent bool   `json:"permanent"`
	Links     Links  `json:"_links"`
}

// SelfLink returns the canonical URI of the group representation.
func (g GroupItem) SelfLink() string {
	return g.Links["self"].Href
}

type ListGroupsResponse struct {
	Page   Page
	Groups []GroupItem
}

type listGroupsEnvelope struct {
	Page     Page `json:"page"`
	Embedded struct {
		Groups []GroupItem `json:"groups"`
	} `json:"_embedded"`
}

// ListGroups는 그룹 레지스트리 한 페이지를 조회한다.
// query가 비어 있으면 전체 일치다.
func (c *Client) ListGroups(ctx context.Context, query string, page, size int) (ListGroupsResponse, error) {
	q := url.Values{}
	if query != "" {
		q.Set("query", query)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}

	req, err := c.base.NewRequest(ctx, http.MethodGet, "/api/eperson/groups", q, nil)
	if err != nil {
		return ListGroupsResponse{}, err
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return ListGroupsResponse{}, &remotedata.TransportError{Op: "repo-service ListGroups", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ListGroupsResponse{}, transportErr("repo-service ListGroups", resp.StatusCode, readErrBody(resp))
	}

	var env listGroupsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return ListGroupsResponse{}, err
	}
	return ListGroupsResponse{Page: env.Page, Groups: env.Embedded.Groups}, nil
}

// GetGroup은 단일 그룹을 조회한다. 존재하지 않으면 ErrNotFound를 반환한다.
func (c *Client) GetGroup(ctx context.Context, id string) (GroupItem, error) {
	relPath := path.Join("/api/eperson/groups", id)
	req, err := c.base.NewRequest(ctx, http.MethodGet, relPath, nil, nil)
	if err != nil {
		return GroupItem{}, err
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return GroupItem{}, &remotedata.TransportError{Op: "repo-service GetGroup", Cause: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out GroupItem
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return GroupItem{}, err
		}
		return out, nil
	case http.StatusNotFound:
		return GroupItem{}, ErrNotFound
	default:
		return GroupItem{}, transportErr("repo-service GetGroup", resp.StatusCode, readErrBody(resp))
	}
}

// CreateGroup은 새 그룹을 만든다. 이름이 이미 존재하면 ErrNameTaken을 반환한다.
func (c *Client) CreateGroup(ctx context.Context, name string) (GroupItem, error) {
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	buf, err := json.Marshal(body)
	if err != nil {
		return GroupItem{}, err
	}

	req, err := c.base.NewRequest(ctx, http.MethodPost, "/api/eperson/groups", nil, bytes.NewReader(buf))
	if err != nil {
		return GroupItem{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return GroupItem{}, &remotedata.TransportError{Op: "repo-service CreateGroup", Cause: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var out GroupItem
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return GroupItem{}, err
		}
		return out, nil
	case http.StatusUnprocessableEntity:
		return GroupItem{}, fmt.Errorf("%w: %s", ErrNameTaken, string(readErrBody(resp)))
	default:
		return GroupItem{}, transportErr("repo-service CreateGroup", resp.StatusCode, readErrBody(resp))
	}
}

// RenameGroup은 JSON Patch로 그룹 이름을 바꾼다.
func (c *Client) RenameGroup(ctx context.Context, id, name string) (GroupItem, error) {
	patch := []map[string]string{
		{"op": "replace", "path": "/name", "value": name},
	}
	buf, err := json.Marshal(patch)
	if err != nil {
		return GroupItem{}, err
	}

	relPath := path.Join("/api/eperson/groups", id)
	req, err := c.base.NewRequest(ctx, http.MethodPatch, relPath, nil, bytes.NewReader(buf))
	if err != nil {
		return GroupItem{}, err
	}
	req.Header.Set("Content-Type", "application/json-patch+json")

	resp, err := c.base.Do(req)
	if err != nil {
		return GroupItem{}, &remotedata.TransportError{Op: "repo-service RenameGroup", Cause: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out GroupItem
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return GroupItem{}, err
		}
		return out, nil
	case http.StatusNotFound:
		return GroupItem{}, ErrNotFound
	case http.StatusUnprocessableEntity:
		return GroupItem{}, fmt.Errorf("%w: %s", ErrNameTaken, string(readErrBody(resp)))
	default:
		return GroupItem{}, transportErr("repo-service RenameGroup", resp.StatusCode, readErrBody(resp))
	}
}

// DeleteGroup은 그룹을 삭제한다. 실패 시 백엔드 원인 문자열이 에러에 그대로 담긴다.
func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	relPath := path.Join("/api/eperson/groups", id)
	req, err := c.base.NewRequest(ctx, http.MethodDelete, relPath, nil, nil)
	if err != nil {
		return err
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return &remotedata.TransportError{Op: "repo-service DeleteGroup", Cause: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return transportErr("repo-service DeleteGroup", resp.StatusCode, readErrBody(resp))
	}
}

// ListSubgroups는 그룹 표현의 subgroups 링크를 따라 하위 그룹 한 페이지를 가져온다.
func (c *Client) ListSubgroups(ctx context.Context, group GroupItem, page, size int) (ListGroupsResponse, error) {
	link, ok := group.Links["subgroups"]
	if !ok || link.Href == "" {
		return ListGroupsResponse{}, fmt.Errorf("group %s has no subgroups link", group.UUID)
	}

	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}

	req, err := c.base.NewLinkRequest(ctx, http.MethodGet, link.Href, q, nil)
	if err != nil {
		return ListGroupsResponse{}, err
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return ListGroupsResponse{}, &remotedata.TransportError{Op: "repo-service ListSubgroups", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ListGroupsResponse{}, transportErr("repo-service ListSubgroups", resp.StatusCode, readErrBody(resp))
	}

	var env listGroupsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return ListGroupsResponse{}, err
	}
	return ListGroupsResponse{Page: env.Page, Groups: env.Embedded.Groups}, nil
}

// -------------------- Config properties --------------------

// ConfigProperty는 원격 설정 저장소의 속성 하나다.
type ConfigProperty struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// First returns the first value, or "" when the property has no values.
func (p ConfigProperty) First() string {
	if len(p.Values) == 0 {
		return ""
	}
	return p.Values[0]
}

// BoolValue interprets the first value as a boolean flag.
func (p ConfigProperty) BoolValue() bool {
	return p.First() == "true"
}

// GetConfigProperty는 이름으로 원격 설정 속성을 조회한다.
// 속성이 정의되어 있지 않으면 ErrNotFound를 반환한다.
func (c *Client) GetConfigProperty(ctx context.Context, name string) (ConfigProperty, error) {
	relPath := path.Join("/api/config/properties", name)
	req, err := c.base.NewRequest(ctx, http.MethodGet, relPath, nil, nil)
	if err != nil {
		return ConfigProperty{}, err
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return ConfigProperty{}, &remotedata.TransportError{Op: "repo-service GetConfigProperty", Cause: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out ConfigProperty
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return ConfigProperty{}, err
		}
		return out, nil
	case http.StatusNotFound:
		return ConfigProperty{}, ErrNotFound
	default:
		return ConfigProperty{}, transportErr("repo-service GetConfigProperty", resp.StatusCode, readErrBody(resp))
	}
}

// Health는 백엔드의 /api/actuator/health 엔드포인트를 호출해 상태를 확인한다.
func (c *Client) Health(ctx context.Context) error {
	req, err := c.base.NewRequest(ctx, http.MethodGet, "/api/actuator/health", nil, nil)
	if err != nil {
		return err
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return transportErr("repo-service Health", resp.StatusCode, readErrBody(resp))
	}
	return nil
}
