package authzclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCanPerform(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		want       bool
		wantErr    bool
	}{
		{"authorized", http.StatusOK, `{"page": {"total_elements": 1}}`, true, false},
		{"not authorized", http.StatusOK, `{"page": {"total_elements": 0}}`, false, false},
		{"feature unknown", http.StatusNotFound, ``, false, false},
		{"backend failure", http.StatusInternalServerError, ``, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/authz/authorizations/search/object" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("feature"); got != FeatureCanDelete {
					t.Errorf("feature = %q, want %q", got, FeatureCanDelete)
				}
				if got := r.URL.Query().Get("uri"); got == "" {
					t.Error("uri query parameter missing")
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(srv.URL, srv.Client())
			got, err := client.CanPerform(context.Background(), FeatureCanDelete, "http://repo/groups/g1")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CanPerform: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanPerform = %v, want %v", got, tt.want)
			}
		})
	}
}
