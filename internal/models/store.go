package models

import (
	"fmt"
	"strings"
	"time"
)

// Store is one spreadsheet row.
type Store struct {
	Row          int    `json:"row"`
	Region       string `json:"region"`
	RegionDetail string `json:"region_detail"`
	Name         string `json:"store_name"`
	MapURL       string `json:"map_url,omitempty"`
}

func (s Store) HasMapURL() bool {
	return strings.TrimSpace(s.MapURL) != ""
}

// Label renders the store the way the console and reports show it.
func (s Store) Label() string {
	return fmt.Sprintf("%s > %s > %s", orUnknown(s.Region), orUnknown(s.RegionDetail), orUnknown(s.Name))
}

func orUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return "unknown"
	}
	return strings.TrimSpace(v)
}

type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeNoFolder Outcome = "no_folder"
	OutcomeNoURL    Outcome = "no_url"
	OutcomeNoPrice  Outcome = "no_price"
)

// NeedsFollowUp reports whether a row with this outcome belongs in the manual follow-up report.
func (o Outcome) NeedsFollowUp() bool {
	return o == OutcomeFailed || o == OutcomeNoPrice
}

type StoreResult struct {
	Store     Store         `json:"store"`
	Outcome   Outcome       `json:"outcome"`
	Images    int           `json:"images"`
	Detail    string        `json:"detail,omitempty"`
	Query     string        `json:"query,omitempty"`
	SearchURL string        `json:"search_url,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// FollowUp turns a result into a report entry.
func (r StoreResult) FollowUp() FailedStore {
	return FailedStore{
		Store:     r.Store,
		Outcome:   r.Outcome,
		Query:     r.Query,
		SearchURL: r.SearchURL,
		Reason:    r.Detail,
	}
}

// FailedStore is an entry of the failure report.
type FailedStore struct {
	Store     Store   `json:"store"`
	Outcome   Outcome `json:"outcome"`
	Query     string  `json:"query,omitempty"`
	SearchURL string  `json:"search_url,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

type RunSummary struct {
	RunID       string        `json:"run_id"`
	Mode        string        `json:"mode"`
	Planned     int           `json:"planned"`
	Stats       RunStats      `json:"stats"`
	Failed      []FailedStore `json:"failed,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at,omitempty"`
	Interrupted bool          `json:"interrupted"`
}

func (r RunSummary) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
