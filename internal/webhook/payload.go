package webhook

import "time"

// Envelope is the Meta webhook delivery payload. Only leadgen changes are
// consumed; other change fields are skipped.
type Envelope struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry is one page entry in a webhook delivery.
type Entry struct {
	ID      string   `json:"id"`
	Time    int64    `json:"time"`
	Changes []Change `json:"changes"`
}

// Change is one change notification inside an entry.
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue carries the leadgen reference. Meta sends only the id; the
// lead itself is fetched from the Graph API.
type ChangeValue struct {
	LeadgenID string `json:"leadgen_id"`
	PageID    string `json:"page_id"`
	FormID    string `json:"form_id"`
	AdID      string `json:"ad_id"`
}

// LeadgenIDs returns every leadgen id in the delivery, in arrival order.
// Changes without a leadgen id are skipped.
func (e Envelope) LeadgenIDs() []string {
	var ids []string
	for _, entry := range e.Entry {
		for _, change := range entry.Changes {
			if change.Value.LeadgenID != "" {
				ids = append(ids, change.Value.LeadgenID)
			}
		}
	}
	return ids
}

// GraphLead is the Graph API representation of a fetched lead.
type GraphLead struct {
	ID          string      `json:"id"`
	CreatedTime string      `json:"created_time"`
	AdID        string      `json:"ad_id"`
	FormID      string      `json:"form_id"`
	PageID      string      `json:"page_id"`
	FieldData   []FieldData `json:"field_data"`
}

// FieldData is one answered question from the lead form.
type FieldData struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// metaTimeFormat is the timestamp layout Graph API responses use.
const metaTimeFormat = "2006-01-02T15:04:05-0700"

// CreatedAt parses the Graph created_time. Returns nil when absent or
// unparseable.
func (l GraphLead) CreatedAt() *time.Time {
	if l.CreatedTime == "" {
		return nil
	}
	for _, layout := range []string{metaTimeFormat, time.RFC3339} {
		if t, err := time.Parse(layout, l.CreatedTime); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

// Field returns the first value answered under any of the given field names.
func (l GraphLead) Field(names ...string) string {
	for _, name := range names {
		for _, fd := range l.FieldData {
			if fd.Name == name && len(fd.Values) > 0 {
				return fd.Values[0]
			}
		}
	}
	return ""
}
