package featureflags

import "testing"

func TestEnabled_SiteFlags(t *testing.T) {
	m := NewManager("index_page_cache=on,signup=off")

	if !m.EnabledSitewide(IndexPageCache) {
		t.Fatal("expected index page cache to be enabled")
	}
	if m.EnabledSitewide(Signup) {
		t.Fatal("expected signup to be disabled")
	}
	if m.EnabledSitewide("unknown") {
		t.Fatal("unknown flags must be disabled")
	}
}

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=TRUE,d=false,e=1,f=0,g=maybe")

	for _, name := range []string{"a", "c", "e"} {
		if !m.Enabled(name, 1) {
			t.Fatalf("expected %q to be enabled", name)
		}
	}
	for _, name := range []string{"b", "d", "f", "g"} {
		if m.Enabled(name, 1) {
			t.Fatalf("expected %q to be disabled", name)
		}
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,over=150%")

	if !m.Enabled("always", 1) || !m.EnabledSitewide("always") {
		t.Fatal("100% rollout should always be enabled")
	}
	if !m.Enabled("over", 1) {
		t.Fatal("rollouts above 100% are clamped to 100%")
	}
	if m.Enabled("never", 1) {
		t.Fatal("0% rollout should always be disabled")
	}

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		if got := m.Enabled("canary", 42); got != first {
			t.Fatal("rollout evaluation must be deterministic per user")
		}
	}
	if m.EnabledSitewide("canary") {
		t.Fatal("partial rollout must not be enabled for anonymous visitors")
	}
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,x=on, y = 20% ,z=off,=on,w=")

	raw := m.Raw()
	if len(raw) != 3 {
		t.Fatalf("expected 3 parsed flags, got %d", len(raw))
	}
	if raw["x"] != "on" || raw["y"] != "20%" || raw["z"] != "off" {
		t.Fatalf("unexpected raw flags: %#v", raw)
	}

	names := m.Names()
	if len(names) != 3 || names[0] != "x" || names[2] != "z" {
		t.Fatalf("unexpected names: %v", names)
	}

	snap := m.Snapshot(123)
	if len(snap) != 3 || !snap["x"] || snap["z"] {
		t.Fatalf("unexpected snapshot: %#v", snap)
	}
}

func TestNilManager(t *testing.T) {
	var m *Manager
	if m.Enabled(Signup, 1) {
		t.Fatal("nil manager must report every flag disabled")
	}
}
