package repository

import "strings"

// TalentFilters narrows a similarity search to players matching structured
// criteria. All populated dimensions are combined conjunctively; zero values
// mean "no constraint on this dimension".
type TalentFilters struct {
	Limit         int
	MinSimilarity float32
	Game          string
	ClassYears    []int
	SchoolTypes   []string
	Locations     []string
	MinGPA        *float64
	MaxGPA        *float64
	Roles         []string
}

// predicates translates the populated filter dimensions into SQL predicates
// against the joined players (p), schools (s), and player_game_profiles
// tables.
func (f *TalentFilters) predicates() *predicateSet {
	ps := &predicateSet{}
	if f == nil {
		return ps
	}

	if f.Game != "" {
		ps.add("EXISTS (SELECT 1 FROM player_game_profiles gp WHERE gp.player_id = p.id AND gp.game = ?)", f.Game)
	}
	if len(f.ClassYears) > 0 {
		ps.add("p.class_year IN ?", f.ClassYears)
	}
	if len(f.SchoolTypes) > 0 {
		ps.add("s.type IN ?", f.SchoolTypes)
	}
	if len(f.Locations) > 0 {
		// Any-of across locations, substring match within each.
		exprs := make([]string, 0, len(f.Locations))
		args := make([]interface{}, 0, len(f.Locations))
		for _, loc := range f.Locations {
			exprs = append(exprs, "p.location ILIKE ?")
			args = append(args, "%"+loc+"%")
		}
		ps.add("("+strings.Join(exprs, " OR ")+")", args...)
	}
	if f.MinGPA != nil {
		ps.add("p.gpa >= ?", *f.MinGPA)
	}
	if f.MaxGPA != nil {
		ps.add("p.gpa <= ?", *f.MaxGPA)
	}
	if len(f.Roles) > 0 {
		ps.add("EXISTS (SELECT 1 FROM player_game_profiles gr WHERE gr.player_id = p.id AND gr.role IN ?)", f.Roles)
	}

	return ps
}
