package service

import (
	"strconv"
	"strings"

	"github.com/DIodide/eval-next-sub004/internal/domain"
)

// BuildEmbeddingText renders a player profile into the canonical text that
// gets embedded. Pure and deterministic: the same profile always yields the
// same string, so stored text can be diffed to detect staleness. Absent
// optional fields are omitted entirely rather than rendered as empty labels.
func BuildEmbeddingText(p *domain.PlayerProfile) string {
	clauses := make([]string, 0, 10)

	if name := strings.TrimSpace(p.FirstName + " " + p.LastName); name != "" {
		clauses = append(clauses, "Player: "+name)
	}
	if p.Username != "" {
		clauses = append(clauses, "Username: "+p.Username)
	}
	if loc := deref(p.Location); loc != "" {
		clauses = append(clauses, "Location: "+loc)
	}
	if school := deref(p.SchoolName); school != "" {
		if schoolType := deref(p.SchoolType); schoolType != "" {
			school += " (" + strings.ReplaceAll(schoolType, "_", " ") + ")"
		}
		clauses = append(clauses, "School: "+school)
	}
	if p.ClassYear != nil {
		clauses = append(clauses, "Class of "+strconv.Itoa(*p.ClassYear))
	}
	if p.GPA != nil {
		clauses = append(clauses, "GPA: "+strconv.FormatFloat(*p.GPA, 'f', 2, 64))
	}
	if major := deref(p.IntendedMajor); major != "" {
		clauses = append(clauses, "Intended Major: "+major)
	}
	if bio := deref(p.Bio); bio != "" {
		clauses = append(clauses, "Bio: "+bio)
	}
	if game := deref(p.MainGame); game != "" {
		clauses = append(clauses, "Main Game: "+game)
	}
	if len(p.GameProfiles) > 0 {
		games := make([]string, 0, len(p.GameProfiles))
		for _, gp := range p.GameProfiles {
			games = append(games, gameProfileClause(gp))
		}
		clauses = append(clauses, "Games: "+strings.Join(games, "; "))
	}

	return strings.Join(clauses, ". ")
}

// gameProfileClause renders one game profile as
// "Game (ign): rank, role, champions, play style" with absent sub-fields
// omitted.
func gameProfileClause(gp domain.GameProfileSummary) string {
	clause := gp.Game
	if ign := deref(gp.InGameName); ign != "" {
		clause += " (" + ign + ")"
	}

	sub := make([]string, 0, 4)
	if rank := deref(gp.Rank); rank != "" {
		sub = append(sub, rank)
	}
	if role := deref(gp.Role); role != "" {
		sub = append(sub, role)
	}
	if len(gp.Champions) > 0 {
		sub = append(sub, strings.Join(gp.Champions, "/"))
	}
	if style := deref(gp.PlayStyle); style != "" {
		sub = append(sub, style)
	}

	if len(sub) > 0 {
		clause += ": " + strings.Join(sub, ", ")
	}
	return clause
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
