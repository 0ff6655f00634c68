package board

import "encoding/json"

// Export is the structured form of a board used for JSON output and
// schema validation.
type Export struct {
	Sections []ExportSection `json:"sections"`
}

// ExportSection is a section in Export.
type ExportSection struct {
	Title  string       `json:"title"`
	Level  int          `json:"level"`
	Status Status       `json:"status,omitempty"`
	Tasks  []ExportTask `json:"tasks"`
}

// ExportTask is a task in Export. Dates use DateLayout.
type ExportTask struct {
	ID       string   `json:"id"`
	Title    string   `json:"title,omitempty"`
	Priority Priority `json:"priority,omitempty"`
	Assignee string   `json:"assignee,omitempty"`
	Status   Status   `json:"status,omitempty"`
	Created  string   `json:"created,omitempty"`
	Updated  string   `json:"updated,omitempty"`
	Fields   []Field  `json:"fields,omitempty"`
	Body     []string `json:"body,omitempty"`
}

// MarshalJSON encodes the field as {"key": ..., "value": ...}.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}{f.Key, f.Value})
}

// Export returns the structured form of the board. Free text outside task
// records is not included.
func (b *Board) Export() Export {
	out := Export{Sections: make([]ExportSection, 0, len(b.Sections))}
	for _, s := range b.Sections {
		es := ExportSection{
			Title: s.Title,
			Level: s.Level,
			Tasks: make([]ExportTask, 0, len(s.Tasks)),
		}
		if spec, ok := s.Spec(); ok {
			es.Status = spec.Status
		}
		for _, t := range s.Tasks {
			es.Tasks = append(es.Tasks, ExportTask{
				ID:       t.ID,
				Title:    t.Title,
				Priority: t.Priority,
				Assignee: t.Assignee,
				Status:   t.Status,
				Created:  FormatDate(t.Created),
				Updated:  FormatDate(t.Updated),
				Fields:   t.Extra,
				Body:     t.Body,
			})
		}
		out.Sections = append(out.Sections, es)
	}
	return out
}

// MarshalJSON encodes the board as its Export form.
func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Export())
}
