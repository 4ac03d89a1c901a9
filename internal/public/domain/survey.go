package domain

import "time"

// Survey is the versioned configuration a terminal collects answers for.
// QuestionOrder is the canonical ordering votes are assembled in.
type Survey struct {
	ID            string
	Title         string
	QuestionOrder []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Domain groups the terminals of one installation site. ActiveSurvey is empty
// while no survey is assigned.
type Domain struct {
	ID           string
	Name         string
	ActiveSurvey string
}

// Client is one answering terminal (or browser session) inside a domain.
type Client struct {
	ID     string
	Name   string
	Domain string
}

// ClientContext bundles the resolved survey, domain and client a submission
// belongs to.
type ClientContext struct {
	Survey Survey
	Domain Domain
	Client Client
}

// Vote is the durable, immutable record of one completed response. Answers
// follow the survey's QuestionOrder.
type Vote struct {
	ID      string
	Answers []Answer
	Version string
	Survey  string
	Domain  string
	Client  string
}
