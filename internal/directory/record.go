package directory

import (
	"encoding/json"
	"fmt"
	"os"
)

// SourceTag marks records produced by the directory ingest.
const SourceTag = "yc_ai_assistant"

// Record is the ranked company written to the ingest output.
type Record struct {
	Name     string   `json:"name"`
	Website  string   `json:"website"`
	Location string   `json:"location"`
	OneLiner string   `json:"one_liner"`
	Batch    string   `json:"batch"`
	Status   string   `json:"status"`
	Score    int      `json:"score"`
	IsHiring bool     `json:"isHiring"`
	TeamSize int      `json:"team_size"`
	Regions  []string `json:"regions"`
	Source   string   `json:"source"`
	ATS      string   `json:"ats,omitempty"`
	New      bool     `json:"new,omitempty"`
}

func NewRecord(c *Company, score int) *Record {
	regions := c.Regions
	if regions == nil {
		regions = []string{}
	}

	return &Record{
		Name:     c.Name,
		Website:  c.Website,
		Location: c.AllLocations,
		OneLiner: c.OneLiner,
		Batch:    c.Batch,
		Status:   c.Status,
		Score:    score,
		IsHiring: c.IsHiring,
		TeamSize: c.TeamSize,
		Regions:  regions,
		Source:   SourceTag,
		ATS:      c.ATS,
	}
}

// LoadRecords reads records written by the ingest.
func LoadRecords(path string) ([]*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []*Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return records, nil
}
