package notify

import (
	"sort"
	"strings"

	"github.com/ManuelReschke/PayFox/app/models"
)

// DefaultRecommendationLimit is how many items a confirmation mail lists.
const DefaultRecommendationLimit = 3

type scoredItem struct {
	item  models.CatalogItem
	score int
}

// RankRecommendations scores each item by how many of its tags match the
// payer's interests, case-insensitively after trimming, and returns the best
// limit items. Ties keep catalog order. Items without overlap are still
// eligible so a payer without interests gets the first catalog entries.
func RankRecommendations(items []models.CatalogItem, interests map[string]struct{}, limit int) []models.CatalogItem {
	if limit <= 0 || len(items) == 0 {
		return nil
	}

	scored := make([]scoredItem, len(items))
	for i, item := range items {
		scored[i] = scoredItem{item: item, score: overlap(item.TagNames(), interests)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	out := make([]models.CatalogItem, len(scored))
	for i, s := range scored {
		out[i] = s.item
	}
	return out
}

func overlap(tags []string, interests map[string]struct{}) int {
	seen := make(map[string]struct{}, len(tags))
	n := 0
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := interests[t]; ok {
			n++
		}
	}
	return n
}
