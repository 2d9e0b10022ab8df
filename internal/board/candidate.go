// Package board contains the job-board records (candidates, vacancies and
// cities) and the services that manage them.
package board

import "time"

// Candidate is a job seeker's profile.
type Candidate struct {
	ID           int
	Name         string
	Description  string
	CreationDate time.Time
	CityID       int
	// FileID references the candidate's photo in the file store; 0 means none.
	FileID int
}

// GetID returns the candidate identifier; 0 means not yet stored.
func (c Candidate) GetID() int { return c.ID }

// WithID returns a copy of the candidate with the given identifier.
func (c Candidate) WithID(id int) Candidate {
	c.ID = id
	return c
}

// GetFileID returns the attached file identifier, or 0 when none.
func (c Candidate) GetFileID() int { return c.FileID }

// WithFileID returns a copy of the candidate referencing the given file.
func (c Candidate) WithFileID(fileID int) Candidate {
	c.FileID = fileID
	return c
}

// GetCreationDate returns when the candidate was created.
func (c Candidate) GetCreationDate() time.Time { return c.CreationDate }

// WithCreationDate returns a copy of the candidate with the given creation date.
func (c Candidate) WithCreationDate(t time.Time) Candidate {
	c.CreationDate = t
	return c
}
