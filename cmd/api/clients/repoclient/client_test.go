package repoclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ir-gateway/remotedata"
)

func TestListGroups(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/server/api/eperson/groups" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "staff" {
			t.Errorf("query = %q, want %q", got, "staff")
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %q, want %q", got, "2")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"page": {"number": 2, "size": 20, "total_elements": 41},
			"_embedded": {"groups": [
				{"uuid": "g1", "name": "Staff", "permanent": false,
				 "_links": {"self": {"href": "` + r.Host + `/groups/g1"}}},
				{"uuid": "g2", "name": "Anonymous", "permanent": true, "_links": {}}
			]}
		}`))
	}))
	defer srv.Close()

	client := New(srv.URL+"/server", srv.Client())
	resp, err := client.ListGroups(context.Background(), "staff", 2, 20)
	if err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	if len(resp.Groups) != 2 {
		t.Fatalf("len(Groups) = %d, want 2", len(resp.Groups))
	}
	if resp.Page.TotalElements != 41 {
		t.Errorf("TotalElements = %d, want 41", resp.Page.TotalElements)
	}
	if !resp.Groups[1].Permanent {
		t.Errorf("expected second group to be permanent")
	}

	info := resp.Page.PageInfo()
	if info.TotalPages() != 3 {
		t.Errorf("TotalPages = %d, want 3", info.TotalPages())
	}
}

func TestGetGroupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"no such group"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client())
	_, err := client.GetGroup(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateGroupNameTaken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"name already exists"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client())
	_, err := client.CreateGroup(context.Background(), "Staff")
	if !errors.Is(err, ErrNameTaken) {
		t.Fatalf("err = %v, want ErrNameTaken", err)
	}
}

func TestRenameGroupSendsJSONPatch(t *testing.T) {
	var contentType, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		buf, _ := io.ReadAll(r.Body)
		body = string(buf)
		w.Write([]byte(`{"uuid": "g1", "name": "Faculty", "permanent": false, "_links": {}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client())
	renamed, err := client.RenameGroup(context.Background(), "g1", "Faculty")
	if err != nil {
		t.Fatalf("RenameGroup: %v", err)
	}
	if renamed.Name != "Faculty" {
		t.Errorf("Name = %q, want %q", renamed.Name, "Faculty")
	}
	if contentType != "application/json-patch+json" {
		t.Errorf("Content-Type = %q, want json-patch", contentType)
	}
	want := `[{"op":"replace","path":"/name","value":"Faculty"}]`
	if body != want {
		t.Errorf("body = %s, want %s", body, want)
	}
}

// 삭제 실패 시 백엔드가 준 원인 문자열이 가공 없이 에러에 담겨야 한다.
func TestDeleteGroupFailureKeepsBackendCause(t *testing.T) {
	const cause = `{"message":"group is referenced by 3 resource policies"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, cause, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client())
	err := client.DeleteGroup(context.Background(), "g1")
	if err == nil {
		t.Fatal("expected error")
	}

	var terr *remotedata.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %T, want *remotedata.TransportError", err)
	}
	if terr.Status != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want 422", terr.Status)
	}
	if got := terr.Cause.Error(); got != cause+"\n" {
		t.Errorf("cause = %q, want backend body verbatim", got)
	}
}

func TestListSubgroupsFollowsLink(t *testing.T) {
	var requestedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Write([]byte(`{"page": {"number": 1, "size": 20, "total_elements": 1},
			"_embedded": {"groups": [{"uuid": "sub1", "name": "Child", "_links": {}}]}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client())
	parent := GroupItem{
		UUID:  "g1",
		Links: Links{"subgroups": {Href: srv.URL + "/api/eperson/groups/g1/subgroups"}},
	}

	resp, err := client.ListSubgroups(context.Background(), parent, 1, 20)
	if err != nil {
		t.Fatalf("ListSubgroups: %v", err)
	}
	if requestedPath != "/api/eperson/groups/g1/subgroups" {
		t.Errorf("requested path = %q, want subgroups link path", requestedPath)
	}
	if len(resp.Groups) != 1 || resp.Groups[0].UUID != "sub1" {
		t.Errorf("unexpected subgroups: %+v", resp.Groups)
	}

	// 링크가 없는 그룹은 에러다. 경로를 임의로 조립하지 않는다.
	if _, err := client.ListSubgroups(context.Background(), GroupItem{UUID: "g2"}, 1, 20); err == nil {
		t.Error("expected error for group without subgroups link")
	}
}

func TestGetConfigProperty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/config/properties/websvc.opensearch.enable" {
			w.Write([]byte(`{"name": "websvc.opensearch.enable", "values": ["true"]}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client())

	prop, err := client.GetConfigProperty(context.Background(), "websvc.opensearch.enable")
	if err != nil {
		t.Fatalf("GetConfigProperty: %v", err)
	}
	if !prop.BoolValue() {
		t.Errorf("BoolValue = false, want true")
	}

	_, err = client.GetConfigProperty(context.Background(), "websvc.opensearch.svccontext")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
