package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRepo(t *testing.T) (*VisitedRepoImpl, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewVisitedRepo(client), mr
}

func TestMarkAndCheckVisited(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	url := "https://example.com/property/one"

	visited, err := repo.IsVisited(ctx, url)
	if err != nil {
		t.Fatalf("IsVisited: %v", err)
	}
	if visited {
		t.Error("fresh URL should not be visited")
	}

	if err := repo.MarkVisited(ctx, url, 48*time.Hour); err != nil {
		t.Fatalf("MarkVisited: %v", err)
	}

	visited, err = repo.IsVisited(ctx, url)
	if err != nil {
		t.Fatalf("IsVisited: %v", err)
	}
	if !visited {
		t.Error("marked URL should be visited")
	}
}

func TestVisitedExpires(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()
	url := "https://example.com/property/one"

	if err := repo.MarkVisited(ctx, url, time.Hour); err != nil {
		t.Fatalf("MarkVisited: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	visited, err := repo.IsVisited(ctx, url)
	if err != nil {
		t.Fatalf("IsVisited: %v", err)
	}
	if visited {
		t.Error("URL should expire after the TTL")
	}
}

func TestRemoveVisited(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	url := "https://example.com/property/one"

	if err := repo.MarkVisited(ctx, url, time.Hour); err != nil {
		t.Fatalf("MarkVisited: %v", err)
	}
	if err := repo.RemoveVisited(ctx, url); err != nil {
		t.Fatalf("RemoveVisited: %v", err)
	}

	visited, err := repo.IsVisited(ctx, url)
	if err != nil {
		t.Fatalf("IsVisited: %v", err)
	}
	if visited {
		t.Error("removed URL should not be visited")
	}
}
