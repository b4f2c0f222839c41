// Package ats implements the heuristic compatibility score résumés are
// rated with. Scoring is pure and total: partial or empty résumés simply
// earn no points for the missing factors.
package ats

import "github.com/nikhilporwal7/ResumeHelper/internal/domain"

// Factor weights and group caps. Experience and skills points are capped
// per group, immediately after that group's additions, so other factors are
// never eaten by the cap.
const (
	titlePoints   = 10
	contactPoints = 10
	summaryPoints = 15

	experienceBasePoints   = 10
	experienceDetailPoints = 5
	experienceCap          = 25
	minDetailBullets       = 3

	educationPoints = 10

	skillsBasePoints    = 10
	skillsBreadthPoints = 5
	skillsBreadthCount  = 5
	skillsCap           = 20

	linkedinPoints  = 5
	portfolioPoints = 5

	minSummaryLength = 50
)

// Score maps a résumé aggregate to an integer in [0,100]. It never fails
// and is deterministic for unchanged input.
func Score(r *domain.ResumeData) int {
	if r == nil {
		return 0
	}

	score := 0

	if r.PersonalInfo.ProfessionalTitle != "" {
		score += titlePoints
	}

	if r.PersonalInfo.Email != "" && r.PersonalInfo.Phone != "" {
		score += contactPoints
	}

	if len(r.Summary.Summary) > minSummaryLength {
		score += summaryPoints
	}

	if len(r.Experience) > 0 {
		exp := experienceBasePoints
		for _, e := range r.Experience {
			if len(e.BulletPoints) >= minDetailBullets {
				exp += experienceDetailPoints
			}
		}
		score += min(exp, experienceCap)
	}

	if len(r.Education) > 0 {
		score += educationPoints
	}

	if len(r.Skills.Skills) > 0 {
		sk := skillsBasePoints
		if len(r.Skills.Skills) >= skillsBreadthCount {
			sk += skillsBreadthPoints
		}
		score += min(sk, skillsCap)
	}

	if r.PersonalInfo.Linkedin != "" {
		score += linkedinPoints
	}
	if r.PersonalInfo.Portfolio != "" {
		score += portfolioPoints
	}

	return clamp(score, 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
