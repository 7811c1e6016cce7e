package resolve

import (
	"testing"

	"github.com/gyxcit/simdecision/internal/model"
)

// testModel builds three entities where "rate" exists in Alpha, Beta, and
// Zeta, and "shared" exists only in Beta.
func testModel() *model.SystemModel {
	m := model.New()
	for _, name := range []string{"Alpha", "Beta", "Zeta"} {
		m.Entities[name] = &model.Entity{
			Components: map[string]*model.Component{
				"rate": {Type: model.TypeState},
			},
		}
	}
	m.Entities["Beta"].Components["shared"] = &model.Component{Type: model.TypeState}
	m.Entities["Alpha"].Components["own"] = &model.Component{Type: model.TypeState}
	return m
}

func TestResolve(t *testing.T) {
	m := testModel()
	idx := BuildIndex(m)

	tests := []struct {
		name         string
		from         string
		owningEntity string
		ownComponent string
		want         string
		ok           bool
	}{
		{"qualified existing", "Beta.shared", "Alpha", "own", "Beta.shared", true},
		{"qualified missing", "Beta.ghost", "Alpha", "own", "", false},
		{"qualified missing entity", "Ghost.rate", "Alpha", "own", "", false},
		{"self sentinel", "self", "Alpha", "own", "Alpha.own", true},
		{"own bare name", "own", "Alpha", "own", "Alpha.own", true},
		// Same-entity priority: Alpha holds a "rate" so the bare name stays local
		// even though Beta.rate and Zeta.rate exist.
		{"same-entity priority", "rate", "Alpha", "own", "Alpha.rate", true},
		{"cross-entity unique", "shared", "Alpha", "own", "Beta.shared", true},
		{"unknown bare name", "nonexistent", "Alpha", "own", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(m, tt.from, tt.owningEntity, tt.ownComponent, idx)
			if ok != tt.ok {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.from, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.from, got, tt.want)
			}
		})
	}
}

func TestResolveAmbiguousDeterministic(t *testing.T) {
	m := testModel()
	idx := BuildIndex(m)

	// Gamma has no local "rate"; Alpha, Beta and Zeta all expose one. The
	// first path in sorted order wins, every time.
	m.Entities["Gamma"] = &model.Entity{
		Components: map[string]*model.Component{"own": {Type: model.TypeState}},
	}

	for i := 0; i < 5; i++ {
		got, ok := Resolve(m, "rate", "Gamma", "own", idx)
		if !ok {
			t.Fatal("ambiguous bare name should still resolve")
		}
		if got != "Alpha.rate" {
			t.Fatalf("ambiguous resolution = %q, want Alpha.rate", got)
		}
	}
}

func TestBuildIndexSorted(t *testing.T) {
	m := testModel()
	idx := BuildIndex(m)

	paths := idx["rate"]
	want := []string{"Alpha.rate", "Beta.rate", "Zeta.rate"}
	if len(paths) != len(want) {
		t.Fatalf("index[rate] has %d paths, want %d", len(paths), len(want))
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("index[rate][%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}
