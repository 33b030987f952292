package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the slice.
//   - error: non-nil if marshaling fails.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// Player represents a recruitable player profile.
// Identity fields are required; location, academics, bio, and main game are
// optional and may be absent on partially filled profiles.
type Player struct {
	ID            string    `gorm:"type:text;primaryKey" json:"id"`
	FirstName     string    `gorm:"type:text;not null" json:"first_name"`
	LastName      string    `gorm:"type:text;not null" json:"last_name"`
	Username      string    `gorm:"type:text;not null;uniqueIndex:idx_players_username" json:"username"`
	Location      *string   `gorm:"type:text" json:"location,omitempty"`
	SchoolID      *string   `gorm:"type:text;index:idx_players_school" json:"school_id,omitempty"`
	ClassYear     *int      `gorm:"index:idx_players_class_year" json:"class_year,omitempty"`
	GPA           *float64  `json:"gpa,omitempty"`
	IntendedMajor *string   `gorm:"type:text" json:"intended_major,omitempty"`
	Bio           *string   `gorm:"type:text" json:"bio,omitempty"`
	MainGame      *string   `gorm:"type:text" json:"main_game,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	School       *School             `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	GameProfiles []PlayerGameProfile `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE" json:"game_profiles,omitempty"`
}

// TableName returns the database table name for Player.
func (Player) TableName() string {
	return "players"
}

// PlayerGameProfile represents a player's presence in a single game:
// in-game identity, competitive rank, role, champion/agent pool, and style.
type PlayerGameProfile struct {
	ID         uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerID   string      `gorm:"type:text;not null;index:idx_game_profiles_player;uniqueIndex:idx_game_profiles_player_game" json:"player_id"`
	Game       string      `gorm:"type:text;not null;index:idx_game_profiles_game;uniqueIndex:idx_game_profiles_player_game" json:"game"`
	InGameName *string     `gorm:"type:text" json:"in_game_name,omitempty"`
	Rank       *string     `gorm:"type:text" json:"rank,omitempty"`
	Role       *string     `gorm:"type:text;index:idx_game_profiles_role" json:"role,omitempty"`
	Champions  StringArray `gorm:"type:text" json:"champions,omitempty"`
	PlayStyle  *string     `gorm:"type:text" json:"play_style,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// TableName returns the database table name for PlayerGameProfile.
func (PlayerGameProfile) TableName() string {
	return "player_game_profiles"
}

// PlayerProfile is the projection of a player's profile fields used to build
// embedding text. It is assembled from the players, schools, and
// player_game_profiles tables and never persisted as such.
type PlayerProfile struct {
	ID            string
	FirstName     string
	LastName      string
	Username      string
	Location      *string
	SchoolName    *string
	SchoolType    *string
	ClassYear     *int
	GPA           *float64
	IntendedMajor *string
	Bio           *string
	MainGame      *string
	GameProfiles  []GameProfileSummary
}

// GameProfileSummary is the per-game slice of PlayerProfile.
type GameProfileSummary struct {
	Game       string
	InGameName *string
	Rank       *string
	Role       *string
	Champions  []string
	PlayStyle  *string
}
