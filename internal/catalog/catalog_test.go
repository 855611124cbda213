package catalog

import (
	"errors"
	"testing"

	"github.com/mmeshcher/petcare/internal/model"
)

func TestCatalogLookups(t *testing.T) {
	c := Seed()

	it, err := c.Item("kibble", model.ItemFood)
	if err != nil {
		t.Fatalf("Item(kibble): %v", err)
	}
	if it.Nutrition != 20 {
		t.Fatalf("kibble nutrition = %v, want 20", it.Nutrition)
	}

	if _, err := c.Item("kibble", model.ItemToy); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Item(kibble, toy) err = %v, want ErrNotFound", err)
	}

	mg, err := c.Minigame("memory_match")
	if err != nil {
		t.Fatalf("Minigame(memory_match): %v", err)
	}
	if mg.CooldownMinutes != 15 {
		t.Fatalf("memory_match cooldown = %d, want 15", mg.CooldownMinutes)
	}

	if _, err := c.Accessory("monocle"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Accessory(monocle) err = %v, want ErrNotFound", err)
	}
}

func TestCatalogReturnsCopies(t *testing.T) {
	c := Seed()

	items := c.Items()
	items[0].Price = 9999

	if c.Items()[0].Price == 9999 {
		t.Fatalf("mutating returned slice changed the catalog")
	}
}

func TestAchievementKeysUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range SeedAchievements() {
		if seen[a.Key] {
			t.Fatalf("duplicate achievement key %q", a.Key)
		}
		if a.Goal <= 0 {
			t.Fatalf("achievement %q has non-positive goal", a.Key)
		}
		seen[a.Key] = true
	}
}
