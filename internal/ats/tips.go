package ats

import (
	"strings"

	"github.com/nikhilporwal7/ResumeHelper/internal/domain"
)

// Tip kinds mirror the advisory states the builder UI renders.
const (
	TipSuccess = "success"
	TipInfo    = "info"
)

// Tip is a single advisory line. Tips are not numerically tied to the
// score; each tracked factor always yields exactly one.
type Tip struct {
	Kind string `json:"type"`
	Text string `json:"text"`
}

// Tips produces one advisory per tracked factor, in a fixed order. Like
// Score it is total and never returns an empty list.
func Tips(r *domain.ResumeData) []Tip {
	if r == nil {
		r = &domain.ResumeData{}
	}

	tips := make([]Tip, 0, 5)

	if strings.Contains(r.PersonalInfo.Email, "@") {
		tips = append(tips, Tip{TipSuccess, "Use a professional email address with your name"})
	} else {
		tips = append(tips, Tip{TipInfo, "Add a professional email address with your name"})
	}

	if r.PersonalInfo.ProfessionalTitle != "" {
		tips = append(tips, Tip{TipSuccess, "Make sure your job title matches the position you're applying for"})
	} else {
		tips = append(tips, Tip{TipInfo, "Include a professional title that matches the position you're applying for"})
	}

	if r.PersonalInfo.Linkedin != "" {
		tips = append(tips, Tip{TipSuccess, "Include your LinkedIn profile to strengthen your online presence"})
	} else {
		tips = append(tips, Tip{TipInfo, "Include your LinkedIn profile to strengthen your online presence"})
	}

	if len(r.Experience) > 0 && !anyExperienceUnderDetailed(r.Experience) {
		tips = append(tips, Tip{TipSuccess, "Work experience includes detailed bullet points with achievements"})
	} else {
		tips = append(tips, Tip{TipInfo, "Include at least 3 bullet points per work experience with quantifiable achievements"})
	}

	if len(r.Skills.Skills) >= skillsBreadthCount {
		tips = append(tips, Tip{TipSuccess, "Resume includes a good number of relevant skills"})
	} else {
		tips = append(tips, Tip{TipInfo, "Add more relevant skills, including keywords from the job description"})
	}

	return tips
}

func anyExperienceUnderDetailed(exps []domain.Experience) bool {
	for _, e := range exps {
		if len(e.BulletPoints) < minDetailBullets {
			return true
		}
	}
	return false
}
