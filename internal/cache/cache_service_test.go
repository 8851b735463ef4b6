package cache

import (
	"testing"

	"dexscreener-analysis-bot/config"
)

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	cs := &CacheService{healthy: true, maxFailures: 3}

	cs.recordFailure()
	cs.recordFailure()
	if !cs.IsHealthy() {
		t.Fatal("breaker should stay closed below the failure threshold")
	}

	cs.recordFailure()
	if cs.IsHealthy() {
		t.Fatal("breaker should open at the failure threshold")
	}

	cs.recordSuccess()
	if !cs.IsHealthy() {
		t.Fatal("breaker should close after a successful operation")
	}
	if cs.failureCount != 0 {
		t.Errorf("failure count should reset, got %d", cs.failureCount)
	}
}

func TestNewCacheServiceRequiresEnabledConfig(t *testing.T) {
	if _, err := NewCacheService(config.RedisConfig{Enabled: false}, 60); err == nil {
		t.Error("expected an error when redis is disabled")
	}
}
