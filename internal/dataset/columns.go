package dataset

import (
	"strconv"

	"monitor-insights-go/internal/textnorm"
	"monitor-insights-go/internal/types"
)

// resolveSchema maps the header row onto the known fields. The percentage
// column is resolved later by the score normalizer.
func resolveSchema(header []string) types.Schema {
	s := types.NewSchema(header)
	byName := textnorm.HeaderIndex(header)

	for _, f := range types.Fields() {
		name := f.Header()
		if name == "" {
			continue
		}
		if i, ok := byName[textnorm.Fold(name)]; ok {
			s.Columns[f] = i
		}
	}

	for q := 0; q < types.CriteriaCount; q++ {
		if i, ok := byName[textnorm.Fold("Question"+strconv.Itoa(q+1))]; ok {
			s.Criteria[q] = i
		}
	}
	return s
}
