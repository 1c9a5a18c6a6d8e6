// Package export writes decoded records in line-oriented formats. It is
// used by the file sink and is reusable from host code.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"time"

	"github.com/nmarchais/selekt/core/model"
)

// WriteJSONL writes each record to w as one JSON document per line.
func WriteJSONL(w io.Writer, recs []model.Record) error {
	enc := json.NewEncoder(w)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes the records to w in CSV format. The column set is the
// union of field names across records, sorted, preceded by the fixed
// id/stream/time columns.
func WriteCSV(w io.Writer, recs []model.Record) error {
	cols := fieldColumns(recs)
	cw := csv.NewWriter(w)
	header := append([]string{"id", "stream", "time"}, cols...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range recs {
		row := []string{r.ID, r.Stream, r.Time.Format(time.RFC3339)}
		for _, c := range cols {
			row = append(row, stringify(r.Fields[c]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fieldColumns(recs []model.Record) []string {
	set := map[string]struct{}{}
	for _, r := range recs {
		for k := range r.Fields {
			set[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(set))
	for k := range set {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
