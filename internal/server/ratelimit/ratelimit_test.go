package ratelimit

import (
	"testing"
	"time"
)

func testConfig(limit int, window time.Duration) *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  limit,
		DefaultWindow: window,
		Whitelist:     map[string]bool{},
		Blacklist:     map[string]bool{},
	}
}

func TestLimiter_AllowsUnderLimit(t *testing.T) {
	l := NewLimiter(testConfig(10, time.Minute))
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/applications", "GET")
		if !allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}
}

func TestLimiter_BlocksOverLimit(t *testing.T) {
	l := NewLimiter(testConfig(3, time.Hour))
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if allowed, _ := l.Allow("1.2.3.4", "/applications", "GET"); !allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	allowed, info := l.Allow("1.2.3.4", "/applications", "GET")
	if allowed {
		t.Fatal("fourth request should be blocked")
	}
	if info.RetryAfter <= 0 {
		t.Errorf("expected positive RetryAfter, got %v", info.RetryAfter)
	}
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(testConfig(1, time.Hour))
	defer l.Stop()

	if allowed, _ := l.Allow("1.1.1.1", "/applications", "GET"); !allowed {
		t.Fatal("first client should be allowed")
	}
	if allowed, _ := l.Allow("1.1.1.1", "/applications", "GET"); allowed {
		t.Fatal("first client should now be blocked")
	}
	if allowed, _ := l.Allow("2.2.2.2", "/applications", "GET"); !allowed {
		t.Fatal("second client should be unaffected")
	}
}

func TestLimiter_WhitelistBypasses(t *testing.T) {
	cfg := testConfig(1, time.Hour)
	cfg.Whitelist["9.9.9.9"] = true
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 20; i++ {
		if allowed, _ := l.Allow("9.9.9.9", "/applications", "GET"); !allowed {
			t.Fatal("whitelisted client should never be limited")
		}
	}
}

func TestLimiter_BlacklistBlocks(t *testing.T) {
	cfg := testConfig(100, time.Minute)
	cfg.Blacklist["6.6.6.6"] = true
	l := NewLimiter(cfg)
	defer l.Stop()

	if allowed, _ := l.Allow("6.6.6.6", "/applications", "GET"); allowed {
		t.Fatal("blacklisted client should be blocked")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		if allowed, _ := l.Allow("1.2.3.4", "/imports", "POST"); !allowed {
			t.Fatal("disabled limiter should allow everything")
		}
	}
}

func TestMatchEndpoint_HealthUnlimited(t *testing.T) {
	ec := MatchEndpoint("/health", "GET", DefaultEndpointConfigs())
	if ec == nil || ec.Limit != 0 {
		t.Fatalf("health check should be unlimited, got %+v", ec)
	}
}

func TestMatchEndpoint_TemplateUnlimited(t *testing.T) {
	ec := MatchEndpoint("/template.csv", "GET", DefaultEndpointConfigs())
	if ec == nil || ec.Limit != 0 {
		t.Fatalf("template download should be unlimited, got %+v", ec)
	}
}

func TestMatchEndpoint_ExactBeforePrefix(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/applications/", Method: "PUT", Limit: 100, Window: time.Minute},
		{Path: "/applications/special", Method: "PUT", Limit: 5, Window: time.Minute},
	}

	ec := MatchEndpoint("/applications/special", "PUT", configs)
	if ec == nil || ec.Limit != 5 {
		t.Fatalf("exact match should win over prefix, got %+v", ec)
	}
}

func TestMatchEndpoint_PrefixMatch(t *testing.T) {
	ec := MatchEndpoint("/applications/abc-123", "DELETE", DefaultEndpointConfigs())
	if ec == nil {
		t.Fatal("expected prefix match for application delete")
	}
}

func TestMatchEndpoint_NoMatch(t *testing.T) {
	if ec := MatchEndpoint("/nope", "GET", DefaultEndpointConfigs()); ec != nil {
		t.Fatalf("expected nil for unconfigured endpoint, got %+v", ec)
	}
}
