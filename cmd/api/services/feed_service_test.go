package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"

	"ir-gateway/cmd/api/clients/repoclient"
	"ir-gateway/opensearch"
)

const testAtomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>IR Search Results</title>
  <entry>
    <title>First deposit</title>
    <link href="http://repo/items/1"/>
    <published>2024-05-01T10:00:00Z</published>
    <summary type="html">&lt;p&gt;Hello &lt;b&gt;world&lt;/b&gt;&lt;/p&gt;</summary>
  </entry>
  <entry>
    <title>Second deposit</title>
    <link href="http://repo/items/2"/>
    <published>2024-05-02T10:00:00Z</published>
    <summary>plain summary</summary>
  </entry>
</feed>`

type feedBackend struct {
	srv       *httptest.Server
	enabled   atomic.Bool
	flagCalls atomic.Int64
	feedPath  atomic.Value // 마지막으로 요청된 피드 경로(쿼리 포함)
}

func newFeedBackend(t *testing.T) *feedBackend {
	t.Helper()
	fb := &feedBackend{}
	fb.enabled.Store(true)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/config/properties/websvc.opensearch.enable", func(w http.ResponseWriter, r *http.Request) {
		fb.flagCalls.Add(1)
		if fb.enabled.Load() {
			w.Write([]byte(`{"name": "websvc.opensearch.enable", "values": ["true"]}`))
			return
		}
		w.Write([]byte(`{"name": "websvc.opensearch.enable", "values": ["false"]}`))
	})
	mux.HandleFunc("/api/config/properties/websvc.opensearch.svccontext", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "websvc.opensearch.svccontext", "values": ["opensearch"]}`))
	})
	mux.HandleFunc("/opensearch/search", func(w http.ResponseWriter, r *http.Request) {
		fb.feedPath.Store(r.URL.String())
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(testAtomFeed))
	})

	fb.srv = httptest.NewServer(mux)
	t.Cleanup(fb.srv.Close)
	return fb
}

func newTestFeedService(t *testing.T, fb *feedBackend, flagTTL time.Duration) *FeedService {
	t.Helper()
	repoClient := repoclient.New(fb.srv.URL, fb.srv.Client())
	parser := gofeed.NewParser()
	parser.Client = fb.srv.Client()
	return NewFeedService(repoClient, parser, fb.srv.URL, "fallback-ctx", flagTTL, 20)
}

func TestFeedLinks(t *testing.T) {
	fb := newFeedBackend(t)
	svc := newTestFeedService(t, fb, time.Minute)

	sort := &opensearch.Sort{Field: "score", Direction: "desc"}
	links, err := svc.Links(context.Background(), "abc", "", sort)
	if err != nil {
		t.Fatalf("Links: %v", err)
	}

	assert.True(t, links.Enabled)
	assert.Len(t, links.Links, 2)
	assert.Equal(t, "/opensearch/search?format=atom&scope=abc&sort=score&sort_direction=desc&query=*", links.Links[0].Href)
	assert.Equal(t, opensearch.MIMETypeAtom, links.Links[0].MIMEType)
	assert.Equal(t, "/opensearch/search?format=rss&scope=abc&sort=score&sort_direction=desc&query=*", links.Links[1].Href)
	assert.Equal(t, opensearch.MIMETypeRSS, links.Links[1].MIMEType)
}

func TestFeedLinksDisabled(t *testing.T) {
	fb := newFeedBackend(t)
	fb.enabled.Store(false)
	svc := newTestFeedService(t, fb, time.Minute)

	links, err := svc.Links(context.Background(), "", "", nil)
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	assert.False(t, links.Enabled)
	assert.Empty(t, links.Links)
}

func TestFeedFlagsAreCached(t *testing.T) {
	fb := newFeedBackend(t)
	svc := newTestFeedService(t, fb, time.Minute)
	ctx := context.Background()

	if _, err := svc.Links(ctx, "", "", nil); err != nil {
		t.Fatalf("first Links: %v", err)
	}
	// 백엔드에서 플래그를 꺼도 TTL 안에서는 캐시된 값을 쓴다.
	fb.enabled.Store(false)
	links, err := svc.Links(ctx, "", "", nil)
	if err != nil {
		t.Fatalf("second Links: %v", err)
	}
	assert.True(t, links.Enabled)
	assert.Equal(t, int64(1), fb.flagCalls.Load())
}

func TestFeedPreview(t *testing.T) {
	fb := newFeedBackend(t)
	svc := newTestFeedService(t, fb, time.Minute)

	preview, err := svc.Preview(context.Background(), "", "thesis", opensearch.FormatAtom, nil, 0)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	assert.Equal(t, "/opensearch/search?format=atom&query=thesis", preview.Route)
	assert.Equal(t, preview.Route, fb.feedPath.Load(), "fetched URL must be the formulated route")
	assert.Equal(t, "IR Search Results", preview.Title)
	if assert.Len(t, preview.Items, 2) {
		first := preview.Items[0]
		assert.Equal(t, "First deposit", first.Title)
		assert.Equal(t, "http://repo/items/1", first.Link)
		assert.Equal(t, "Hello world", first.Summary, "summary must have HTML stripped")
		assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), first.PublishedAt)
	}
}

func TestFeedPreviewLimit(t *testing.T) {
	fb := newFeedBackend(t)
	svc := newTestFeedService(t, fb, time.Minute)

	preview, err := svc.Preview(context.Background(), "", "", opensearch.FormatAtom, nil, 1)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	assert.Len(t, preview.Items, 1)
}

func TestFeedPreviewDisabled(t *testing.T) {
	fb := newFeedBackend(t)
	fb.enabled.Store(false)
	svc := newTestFeedService(t, fb, time.Minute)

	_, err := svc.Preview(context.Background(), "", "", opensearch.FormatAtom, nil, 0)
	assert.ErrorIs(t, err, ErrFeedsDisabled)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"a  b\n\tc", "a b c"},
		{"<div>text<script>alert(1)</script></div>", "text"},
	}
	for _, tt := range tests {
		if got := StripHTML(tt.in); got != tt.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
