package cache

import (
	"context"
	"testing"
	"time"

	"github.com/lightbike-next/internal/config"
)

func TestCitySuggestKeyNormalizesCase(t *testing.T) {
	if CitySuggestKey(" Мос ") != CitySuggestKey("мос") {
		t.Fatalf("keys must ignore case and surrounding spaces")
	}
	if CitySuggestKey("мос") == CitySuggestKey("моск") {
		t.Fatalf("different queries must not collide")
	}
}

func TestPickupPriceKeyDependsOnCityAndScope(t *testing.T) {
	if PickupPriceKey("v1:3", "MSK1", "44") == PickupPriceKey("v1:3", "MSK1", "137") {
		t.Fatalf("city code must be part of the key")
	}
	if PickupPriceKey("v1:3", "MSK1", "44") == PickupPriceKey("v1:4", "MSK1", "44") {
		t.Fatalf("cart scope must be part of the key")
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	ctx := context.Background()
	if err := SetCitySuggestions(ctx, "мос", []CitySuggestion{{Name: "Москва"}}, time.Minute); err != nil {
		t.Fatalf("set on disabled cache must be noop: %v", err)
	}
	items, hit, err := GetCitySuggestions(ctx, "мос")
	if err != nil || hit || items != nil {
		t.Fatalf("disabled cache must miss: %v %v %v", items, hit, err)
	}
	if err := Ping(ctx); err != nil {
		t.Fatalf("ping on disabled cache must be noop: %v", err)
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	redisPrefix = "lb"
	if got := buildKey("suggest:city:x"); got != "lb:suggest:city:x" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := buildKey("  "); got != "lb" {
		t.Fatalf("unexpected empty key: %s", got)
	}
}
