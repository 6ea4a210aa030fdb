package models

import "database/sql"

// RemoteEntry is the relational projection of [FoodEntry] stored in the
// remote metadata table. The photo binary itself lives in the remote blob
// store; PhotoKey holds the blob reference ("{userID}/{entryID}.jpg") and is
// never an inline payload.
type RemoteEntry struct {
	ID        string
	UserID    string
	Date      string
	Time      sql.NullString
	MealType  MealType
	Menu      sql.NullString
	PhotoKey  sql.NullString
	CreatedAt int64
}

// ToRemote projects the entry into its relational form for the given owner.
// The photo payload is intentionally dropped; the caller is responsible for
// uploading it to the blob store and recording the key.
func (e FoodEntry) ToRemote(userID string) RemoteEntry {
	r := RemoteEntry{
		ID:        e.ID,
		UserID:    userID,
		Date:      e.Date,
		MealType:  e.MealType,
		CreatedAt: e.CreatedAt,
	}
	if e.Time != "" {
		r.Time = sql.NullString{String: e.Time, Valid: true}
	}
	if e.Menu != "" {
		r.Menu = sql.NullString{String: e.Menu, Valid: true}
	}
	return r
}

// ToEntry converts the relational row back into a [FoodEntry]. The photo
// payload is left empty; the caller resolves it from the blob store when
// needed. Legacy rows without a meal type fall back to [DefaultMealType].
func (r RemoteEntry) ToEntry() FoodEntry {
	e := FoodEntry{
		ID:        r.ID,
		Date:      r.Date,
		MealType:  r.MealType,
		CreatedAt: r.CreatedAt,
	}
	if r.Time.Valid {
		e.Time = r.Time.String
	}
	if r.Menu.Valid {
		e.Menu = r.Menu.String
	}
	if e.MealType == "" {
		e.MealType = DefaultMealType
	}
	return e
}
