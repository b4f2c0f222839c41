package domain

import (
	"strings"
	"time"
)

// Resume template identifiers supported by the renderer.
const (
	TemplateProfessional = "professional"
	TemplateMinimal      = "minimal"
	TemplateModern       = "modern"
	TemplateExecutive    = "executive"
)

var ValidTemplates = map[string]bool{
	TemplateProfessional: true,
	TemplateMinimal:      true,
	TemplateModern:       true,
	TemplateExecutive:    true,
}

// Resume is the scalar row of the aggregate. ATSScore caches the last
// computed score and is never a source of truth.
type Resume struct {
	ID        int64     `json:"id" db:"id"`
	UserID    *int64    `json:"userId,omitempty" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Template  string    `json:"template" db:"template"`
	ATSScore  int       `json:"atsScore" db:"ats_score"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ResumePatch carries a partial update for the Resume row. Nil fields are
// left untouched.
type ResumePatch struct {
	Title    *string
	Template *string
	ATSScore *int
}

func (p ResumePatch) Apply(r *Resume) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Template != nil {
		r.Template = *p.Template
	}
	if p.ATSScore != nil {
		r.ATSScore = *p.ATSScore
	}
}

type PersonalInfo struct {
	ID                int64  `json:"-" db:"id"`
	ResumeID          int64  `json:"-" db:"resume_id"`
	FirstName         string `json:"firstName" db:"first_name" validate:"required,max=100"`
	LastName          string `json:"lastName" db:"last_name" validate:"required,max=100"`
	ProfessionalTitle string `json:"professionalTitle" db:"professional_title" validate:"required,max=200"`
	Email             string `json:"email" db:"email" validate:"required,email"`
	Phone             string `json:"phone" db:"phone" validate:"required,max=50"`
	Location          string `json:"location" db:"location" validate:"required,max=200"`
	Linkedin          string `json:"linkedin,omitempty" db:"linkedin" validate:"omitempty,max=300"`
	Portfolio         string `json:"portfolio,omitempty" db:"portfolio" validate:"omitempty,max=300"`
}

type Summary struct {
	ID       int64  `json:"-" db:"id"`
	ResumeID int64  `json:"-" db:"resume_id"`
	Summary  string `json:"summary" db:"summary" validate:"required,max=5000"`
}

// Experience dates are YYYY-MM-DD strings; EndDate may also be "Present" or
// empty. IsCurrentJob implies "Present"; EndDate is stored verbatim either
// way and the display layer decides what to show.
type Experience struct {
	ID           int64    `json:"-" db:"id"`
	ResumeID     int64    `json:"-" db:"resume_id"`
	JobTitle     string   `json:"jobTitle" db:"job_title" validate:"required,max=200"`
	Company      string   `json:"company" db:"company" validate:"required,max=200"`
	Location     string   `json:"location,omitempty" db:"location" validate:"omitempty,max=200"`
	StartDate    string   `json:"startDate" db:"start_date" validate:"required,date_or_present,max=40"`
	EndDate      string   `json:"endDate,omitempty" db:"end_date" validate:"omitempty,date_or_present,max=40"`
	IsCurrentJob bool     `json:"isCurrentJob" db:"is_current_job"`
	Description  string   `json:"description" db:"description" validate:"required,max=2000"`
	BulletPoints []string `json:"bulletPoints" db:"bullet_points" validate:"max=20,dive,max=500"`
}

type Education struct {
	ID                 int64  `json:"-" db:"id"`
	ResumeID           int64  `json:"-" db:"resume_id"`
	Degree             string `json:"degree" db:"degree" validate:"required,max=200"`
	Institution        string `json:"institution" db:"institution" validate:"required,max=200"`
	Location           string `json:"location,omitempty" db:"location" validate:"omitempty,max=200"`
	StartDate          string `json:"startDate" db:"start_date" validate:"required,date_or_present,max=40"`
	EndDate            string `json:"endDate,omitempty" db:"end_date" validate:"omitempty,date_or_present,max=40"`
	IsCurrentEducation bool   `json:"isCurrentEducation" db:"is_current_education"`
	Description        string `json:"description,omitempty" db:"description" validate:"omitempty,max=2000"`
	GPA                string `json:"gpa,omitempty" db:"gpa" validate:"omitempty,max=20"`
}

type Skills struct {
	ID       int64    `json:"-" db:"id"`
	ResumeID int64    `json:"-" db:"resume_id"`
	Skills   []string `json:"skills" db:"skills" validate:"max=100,dive,max=100"`
}

// ResumeData is the complete aggregate: the Resume row plus all of its child
// records. It is the unit of the save/load and archive round trips.
type ResumeData struct {
	ID           int64        `json:"id,omitempty"`
	Title        string       `json:"title" validate:"required,max=200"`
	Template     string       `json:"template" validate:"required,oneof=professional minimal modern executive"`
	ATSScore     int          `json:"atsScore" validate:"min=0,max=100"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Summary      Summary      `json:"summary"`
	Experience   []Experience `json:"experience" validate:"dive"`
	Education    []Education  `json:"education" validate:"dive"`
	Skills       Skills       `json:"skills"`
}

// Validate checks the aggregate against its struct tags and maps failures
// into ValidationErrors.
func (d *ResumeData) Validate() error {
	return ValidateStruct(d)
}

// BeforeSave trims and sanitizes every free-text field in the aggregate.
// Empty bullet points and skills are dropped; the experience and education
// slices stay non-nil so the JSON shape is stable.
func (d *ResumeData) BeforeSave() {
	s := NewSanitizer()

	d.Title = s.Clean(d.Title)

	p := &d.PersonalInfo
	p.FirstName = s.Clean(p.FirstName)
	p.LastName = s.Clean(p.LastName)
	p.ProfessionalTitle = s.Clean(p.ProfessionalTitle)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Location = s.Clean(p.Location)
	p.Linkedin = strings.TrimSpace(p.Linkedin)
	p.Portfolio = strings.TrimSpace(p.Portfolio)

	d.Summary.Summary = s.Clean(d.Summary.Summary)

	for i := range d.Experience {
		e := &d.Experience[i]
		e.JobTitle = s.Clean(e.JobTitle)
		e.Company = s.Clean(e.Company)
		e.Location = s.Clean(e.Location)
		e.StartDate = strings.TrimSpace(e.StartDate)
		e.EndDate = strings.TrimSpace(e.EndDate)
		e.Description = s.Clean(e.Description)
		e.BulletPoints = s.CleanSlice(e.BulletPoints)
	}

	for i := range d.Education {
		ed := &d.Education[i]
		ed.Degree = s.Clean(ed.Degree)
		ed.Institution = s.Clean(ed.Institution)
		ed.Location = s.Clean(ed.Location)
		ed.StartDate = strings.TrimSpace(ed.StartDate)
		ed.EndDate = strings.TrimSpace(ed.EndDate)
		ed.Description = s.Clean(ed.Description)
		ed.GPA = strings.TrimSpace(ed.GPA)
	}

	d.Skills.Skills = s.CleanSlice(d.Skills.Skills)

	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
}
