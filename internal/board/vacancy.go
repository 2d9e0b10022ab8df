package board

import "time"

// Vacancy is an open position published by an employer.
type Vacancy struct {
	ID           int
	Title        string
	Description  string
	CreationDate time.Time
	// Visible marks vacancies shown in public listings.
	Visible bool
	CityID  int
	// FileID references the vacancy's logo in the file store; 0 means none.
	FileID int
}

// GetID returns the vacancy identifier; 0 means not yet stored.
func (v Vacancy) GetID() int { return v.ID }

// WithID returns a copy of the vacancy with the given identifier.
func (v Vacancy) WithID(id int) Vacancy {
	v.ID = id
	return v
}

// GetFileID returns the attached file identifier, or 0 when none.
func (v Vacancy) GetFileID() int { return v.FileID }

// WithFileID returns a copy of the vacancy referencing the given file.
func (v Vacancy) WithFileID(fileID int) Vacancy {
	v.FileID = fileID
	return v
}

// GetCreationDate returns when the vacancy was created.
func (v Vacancy) GetCreationDate() time.Time { return v.CreationDate }

// WithCreationDate returns a copy of the vacancy with the given creation date.
func (v Vacancy) WithCreationDate(t time.Time) Vacancy {
	v.CreationDate = t
	return v
}
