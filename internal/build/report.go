package build

import (
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
)

// Status represents the outcome of a build execution.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// CategoryResult is the outcome of one content category.
type CategoryResult struct {
	Name    string
	Skipped bool
	Pages   []content.Summary
}

// Report describes a finished (or aborted) build.
type Report struct {
	BuildID    string
	Status     Status
	Revision   string
	Output     string
	Categories []CategoryResult
	Assets     []string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// Category returns the result of the named category.
func (r *Report) Category(name string) (CategoryResult, bool) {
	for _, c := range r.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return CategoryResult{}, false
}

// TotalPages returns the number of pages rendered across all categories.
func (r *Report) TotalPages() int {
	n := 0
	for _, c := range r.Categories {
		n += len(c.Pages)
	}
	return n
}

func (r *Report) finish(status Status) {
	r.Status = status
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}
