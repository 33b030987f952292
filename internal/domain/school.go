package domain

import "time"

// SchoolType categorizes a school for recruiting filters.
type SchoolType string

const (
	SchoolTypeHighSchool SchoolType = "high_school"
	SchoolTypeCollege    SchoolType = "college"
	SchoolTypeUniversity SchoolType = "university"
)

// School represents an educational institution a player attends.
type School struct {
	ID        string     `gorm:"type:text;primaryKey" json:"id"`
	Name      string     `gorm:"type:text;not null" json:"name"`
	Type      SchoolType `gorm:"type:text;not null;index:idx_schools_type" json:"type"`
	Location  *string    `gorm:"type:text" json:"location,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName returns the database table name for School.
func (School) TableName() string {
	return "schools"
}
