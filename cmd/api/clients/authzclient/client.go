package authzclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"ir-gateway/cmd/api/httpclient"
	"ir-gateway/remotedata"
)

// 인가 feature 이름. 백엔드 feature 레지스트리와 일치해야 한다.
const FeatureCanDelete = "canDelete"

// Client는 리포지터리 백엔드의 인가 질의 API를 호출한다.
//
// 객체 단위 질의: 주어진 객체 URI에 대해 특정 feature의 authorization이
// 존재하는지 확인한다. 목록의 행마다 한 번씩 호출되므로 응답은 최소한의
// 페이지 메타데이터만 읽는다.
type Client struct {
	base *httpclient.BaseClient
}

func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		base: httpclient.NewBaseClientWithClient(httpClient, baseURL),
	}
}

type authorizationsEnvelope struct {
	Page struct {
		TotalElements int64 `json:"total_elements"`
	} `json:"page"`
}

// CanPerform은 objectURI에 대해 feature 인가가 존재하는지 질의한다.
// 전송 실패는 에러로 반환하고, 인가 없음은 (false, nil)이다.
func (c *Client) CanPerform(ctx context.Context, feature, objectURI string) (bool, error) {
	q := url.Values{}
	q.Set("uri", objectURI)
	q.Set("feature", feature)

	req, err := c.base.NewRequest(ctx, http.MethodGet, "/api/authz/authorizations/search/object", q, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return false, &remotedata.TransportError{Op: "repo-service CanPerform", Cause: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var env authorizationsEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return false, err
		}
		return env.Page.TotalElements > 0, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &remotedata.TransportError{
			Op:     "repo-service CanPerform",
			Status: resp.StatusCode,
			Cause:  errors.New("authorization query failed"),
		}
	}
}
