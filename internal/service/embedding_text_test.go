package service

import (
	"strings"
	"testing"

	"github.com/DIodide/eval-next-sub004/internal/domain"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

// TestBuildEmbeddingTextDeterministic verifies that the same profile always
// produces the same text
func TestBuildEmbeddingTextDeterministic(t *testing.T) {
	profile := &domain.PlayerProfile{
		ID:        "p1",
		FirstName: "Jordan",
		LastName:  "Lee",
		Username:  "jlee",
		Location:  strPtr("Austin, TX"),
		ClassYear: intPtr(2026),
		GPA:       floatPtr(3.8),
		GameProfiles: []domain.GameProfileSummary{
			{
				Game:      "VALORANT",
				Rank:      strPtr("Immortal 2"),
				Role:      strPtr("Duelist"),
				Champions: []string{"Jett", "Raze"},
			},
		},
	}

	first := BuildEmbeddingText(profile)
	for i := 0; i < 5; i++ {
		if got := BuildEmbeddingText(profile); got != first {
			t.Fatalf("text changed between calls: %q vs %q", first, got)
		}
	}
}

// TestBuildEmbeddingTextFullProfile verifies all fields appear with their
// labels
func TestBuildEmbeddingTextFullProfile(t *testing.T) {
	profile := &domain.PlayerProfile{
		ID:            "p1",
		FirstName:     "Jordan",
		LastName:      "Lee",
		Username:      "jlee",
		Location:      strPtr("Austin, TX"),
		SchoolName:    strPtr("Westlake High"),
		SchoolType:    strPtr("high_school"),
		ClassYear:     intPtr(2026),
		GPA:           floatPtr(3.8),
		IntendedMajor: strPtr("Computer Science"),
		Bio:           strPtr("IGL with three years of competitive experience"),
		MainGame:      strPtr("VALORANT"),
		GameProfiles: []domain.GameProfileSummary{
			{
				Game:       "VALORANT",
				InGameName: strPtr("jleeval"),
				Rank:       strPtr("Immortal 2"),
				Role:       strPtr("Duelist"),
				Champions:  []string{"Jett", "Raze"},
				PlayStyle:  strPtr("aggressive entry"),
			},
			{
				Game: "League of Legends",
				Rank: strPtr("Diamond 1"),
			},
		},
	}

	text := BuildEmbeddingText(profile)

	want := []string{
		"Player: Jordan Lee",
		"Username: jlee",
		"Location: Austin, TX",
		"School: Westlake High (high school)",
		"Class of 2026",
		"GPA: 3.80",
		"Intended Major: Computer Science",
		"Bio: IGL with three years of competitive experience",
		"Main Game: VALORANT",
		"Games: VALORANT (jleeval): Immortal 2, Duelist, Jett/Raze, aggressive entry; League of Legends: Diamond 1",
	}
	for _, fragment := range want {
		if !strings.Contains(text, fragment) {
			t.Errorf("missing fragment %q in:\n%s", fragment, text)
		}
	}
}

// TestBuildEmbeddingTextOmitsAbsentFields verifies absent optional fields
// leave no empty labels behind
func TestBuildEmbeddingTextOmitsAbsentFields(t *testing.T) {
	profile := &domain.PlayerProfile{
		ID:        "p2",
		FirstName: "Sam",
		LastName:  "Ruiz",
		Username:  "sruiz",
	}

	text := BuildEmbeddingText(profile)

	if text != "Player: Sam Ruiz. Username: sruiz" {
		t.Fatalf("unexpected text for minimal profile: %q", text)
	}

	for _, label := range []string{"Location:", "School:", "Class of", "GPA:", "Intended Major:", "Bio:", "Main Game:", "Games:"} {
		if strings.Contains(text, label) {
			t.Errorf("absent field rendered label %q: %s", label, text)
		}
	}
}

// TestBuildEmbeddingTextDiffersAcrossProfiles verifies distinct profiles get
// distinct text
func TestBuildEmbeddingTextDiffersAcrossProfiles(t *testing.T) {
	base := &domain.PlayerProfile{FirstName: "Sam", LastName: "Ruiz", Username: "sruiz"}
	other := &domain.PlayerProfile{FirstName: "Sam", LastName: "Ruiz", Username: "sruiz", GPA: floatPtr(3.5)}

	if BuildEmbeddingText(base) == BuildEmbeddingText(other) {
		t.Fatal("profiles differing in GPA produced identical text")
	}
}

func TestGameProfileClause(t *testing.T) {
	testCases := []struct {
		name    string
		profile domain.GameProfileSummary
		want    string
	}{
		{
			name:    "game only",
			profile: domain.GameProfileSummary{Game: "Rocket League"},
			want:    "Rocket League",
		},
		{
			name: "rank and role",
			profile: domain.GameProfileSummary{
				Game: "VALORANT",
				Rank: strPtr("Ascendant"),
				Role: strPtr("Controller"),
			},
			want: "VALORANT: Ascendant, Controller",
		},
		{
			name: "with in-game name and champions",
			profile: domain.GameProfileSummary{
				Game:       "League of Legends",
				InGameName: strPtr("midlord"),
				Champions:  []string{"Ahri", "Orianna"},
			},
			want: "League of Legends (midlord): Ahri/Orianna",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := gameProfileClause(tc.profile); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
