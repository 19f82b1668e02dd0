package config

import "testing"

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	if c.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", c.Server.Addr)
	}
	if c.Upstream.TimeoutSeconds != 10 {
		t.Errorf("Upstream.TimeoutSeconds = %d, want 10", c.Upstream.TimeoutSeconds)
	}
	if c.Feeds.FallbackServiceContext != "opensearch" {
		t.Errorf("Feeds.FallbackServiceContext = %q, want opensearch", c.Feeds.FallbackServiceContext)
	}
	if c.Feeds.FlagCacheTTLSeconds != 60 {
		t.Errorf("Feeds.FlagCacheTTLSeconds = %d, want 60", c.Feeds.FlagCacheTTLSeconds)
	}
	if c.Feeds.PreviewLimit != 20 {
		t.Errorf("Feeds.PreviewLimit = %d, want 20", c.Feeds.PreviewLimit)
	}
	if c.Watch.IntervalSeconds != 30 {
		t.Errorf("Watch.IntervalSeconds = %d, want 30", c.Watch.IntervalSeconds)
	}
	if c.Watch.PageSize != 100 {
		t.Errorf("Watch.PageSize = %d, want 100", c.Watch.PageSize)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	c := AppConfig{
		Server:   ServerConfig{Addr: ":9090"},
		Upstream: UpstreamConfig{TimeoutSeconds: 3},
		Feeds:    FeedsConfig{FallbackServiceContext: "search", PreviewLimit: 5},
	}
	applyDefaults(&c)

	if c.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", c.Server.Addr)
	}
	if c.Upstream.TimeoutSeconds != 3 {
		t.Errorf("Upstream.TimeoutSeconds = %d, want 3", c.Upstream.TimeoutSeconds)
	}
	if c.Feeds.FallbackServiceContext != "search" {
		t.Errorf("Feeds.FallbackServiceContext = %q, want search", c.Feeds.FallbackServiceContext)
	}
	if c.Feeds.PreviewLimit != 5 {
		t.Errorf("Feeds.PreviewLimit = %d, want 5", c.Feeds.PreviewLimit)
	}
}

func TestGetBasePathFindsConfig(t *testing.T) {
	if GetBasePath() == "" {
		t.Fatal("expected config.yaml to be found upward from the test directory")
	}
}
