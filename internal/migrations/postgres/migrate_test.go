package postgres

import (
	"strings"
	"testing"
)

func TestLoad_OrderedAndEmbedded(t *testing.T) {
	migrations, err := load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(migrations) < 2 {
		t.Fatalf("expected at least 2 migrations, got %d", len(migrations))
	}

	for i := 1; i < len(migrations); i++ {
		if migrations[i-1].Version >= migrations[i].Version {
			t.Errorf("migrations out of order: %s before %s", migrations[i-1].Version, migrations[i].Version)
		}
	}

	if migrations[0].Version != "0001_create_mentors" {
		t.Errorf("unexpected first migration %s", migrations[0].Version)
	}
	if !strings.Contains(migrations[1].SQL, "UNIQUE (mentor_id, start_time)") {
		t.Error("bookings migration must declare the mentor/start_time uniqueness")
	}
}
