package directory

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spigell/shortlist/internal/utils"
)

type ExcludedCompanies struct {
	Items []*ExcludedCompany
}

type ExcludedCompany struct {
	Name       string
	Website    string
	ExcludedAt time.Time
}

// ToExcluded converts records into exclude-file entries stamped with at.
func ToExcluded(records []*Record, at time.Time) *ExcludedCompanies {
	excluded := &ExcludedCompanies{}
	for _, r := range records {
		excluded.Items = append(excluded.Items, &ExcludedCompany{
			Name:       r.Name,
			Website:    r.Website,
			ExcludedAt: at.UTC(),
		})
	}
	return excluded
}

// GetExcludedCompaniesFromFile reads an exclude file. An empty file is an empty list.
func GetExcludedCompaniesFromFile(path string) (*ExcludedCompanies, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedCompanies{}, nil
	}

	var excluded ExcludedCompanies
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// Append adds entries whose normalized name is not present yet and returns how many were added.
func (e *ExcludedCompanies) Append(s *ExcludedCompanies) int {
	seen := make(map[string]bool, len(e.Items))
	for _, item := range e.Items {
		seen[utils.NormalizeName(item.Name)] = true
	}

	added := 0
	for _, item := range s.Items {
		key := utils.NormalizeName(item.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		e.Items = append(e.Items, item)
		added++
	}
	return added
}

// Names returns the normalized names of all excluded companies.
func (e *ExcludedCompanies) Names() map[string]bool {
	names := make(map[string]bool, len(e.Items))
	for _, item := range e.Items {
		names[utils.NormalizeName(item.Name)] = true
	}
	return names
}

func (e *ExcludedCompanies) ToFile(path string) error {
	return utils.WriteJSON(path, e)
}
