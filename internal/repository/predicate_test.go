package repository

import "testing"

// TestPredicateSetRender verifies AND-joining and argument flattening
func TestPredicateSetRender(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		ps := &predicateSet{}
		where, args := ps.render()
		if where != "" || args != nil {
			t.Errorf("empty set should render nothing, got %q / %v", where, args)
		}
	})

	t.Run("single predicate", func(t *testing.T) {
		ps := &predicateSet{}
		ps.add("p.gpa >= ?", 3.0)
		where, args := ps.render()
		if where != "p.gpa >= ?" {
			t.Errorf("got %q", where)
		}
		if len(args) != 1 || args[0] != 3.0 {
			t.Errorf("got args %v", args)
		}
	})

	t.Run("multiple predicates keep order", func(t *testing.T) {
		ps := &predicateSet{}
		ps.add("a = ?", 1)
		ps.add("b IN ?", []int{2, 3})
		ps.add("(c ILIKE ? OR c ILIKE ?)", "%x%", "%y%")

		where, args := ps.render()
		if where != "a = ? AND b IN ? AND (c ILIKE ? OR c ILIKE ?)" {
			t.Errorf("got %q", where)
		}
		if len(args) != 4 {
			t.Fatalf("got %d args, want 4", len(args))
		}
		if args[0] != 1 {
			t.Errorf("first arg: got %v", args[0])
		}
		if args[2] != "%x%" || args[3] != "%y%" {
			t.Errorf("location args out of order: %v", args)
		}
	})
}

// TestTalentFiltersPredicates verifies each filter dimension produces
// exactly one predicate and nil filters produce none
func TestTalentFiltersPredicates(t *testing.T) {
	testCases := []struct {
		name    string
		filters *TalentFilters
		want    int
	}{
		{name: "nil filters", filters: nil, want: 0},
		{name: "zero filters", filters: &TalentFilters{Limit: 10}, want: 0},
		{name: "game", filters: &TalentFilters{Game: "VALORANT"}, want: 1},
		{name: "class years", filters: &TalentFilters{ClassYears: []int{2026}}, want: 1},
		{name: "gpa range is two predicates", filters: &TalentFilters{MinGPA: floatPtr(2.0), MaxGPA: floatPtr(4.0)}, want: 2},
		{
			name: "all dimensions",
			filters: &TalentFilters{
				Game:        "VALORANT",
				ClassYears:  []int{2026},
				SchoolTypes: []string{"college"},
				Locations:   []string{"Texas"},
				MinGPA:      floatPtr(2.0),
				MaxGPA:      floatPtr(4.0),
				Roles:       []string{"IGL"},
			},
			want: 7,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ps := tc.filters.predicates()
			if len(ps.preds) != tc.want {
				t.Errorf("got %d predicates, want %d", len(ps.preds), tc.want)
			}
		})
	}
}

// TestLocationPredicateWrapsSubstrings verifies location values become
// wildcard patterns inside an OR group
func TestLocationPredicateWrapsSubstrings(t *testing.T) {
	filters := &TalentFilters{Locations: []string{"Austin", "Dallas"}}
	ps := filters.predicates()

	if len(ps.preds) != 1 {
		t.Fatalf("got %d predicates, want 1", len(ps.preds))
	}

	p := ps.preds[0]
	if p.expr != "(p.location ILIKE ? OR p.location ILIKE ?)" {
		t.Errorf("got expr %q", p.expr)
	}
	if len(p.args) != 2 || p.args[0] != "%Austin%" || p.args[1] != "%Dallas%" {
		t.Errorf("got args %v", p.args)
	}
}
