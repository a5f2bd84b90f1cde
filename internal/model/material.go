package model

import "encoding/json"

// Material is a source-control input configured on a pipeline, as returned
// by the trigger options endpoint.
type Material struct {
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Destination string    `json:"destination,omitempty"`
	Fingerprint string    `json:"fingerprint"`
	Revision    *Revision `json:"revision,omitempty"`
}

// Revision is the last revision of a material the pipeline ran with.
// Every known field is optional so a missing key can be told apart from an
// empty value. Keys the client does not understand are kept in Extra.
type Revision struct {
	Date            *string
	User            *string
	Comment         *string
	LastRunRevision *string
	Extra           map[string]json.RawMessage
}

// IsEmpty reports whether the revision carries no keys at all, which is how
// the server describes a material that has never been built.
func (r *Revision) IsEmpty() bool {
	if r == nil {
		return true
	}
	return r.Date == nil && r.User == nil && r.Comment == nil &&
		r.LastRunRevision == nil && len(r.Extra) == 0
}

// UnmarshalJSON never fails on well-formed JSON. A known key whose value is
// not a string, including null, is kept in Extra so the revision still counts
// as present while the field reads as not specified. A revision that is not an
// object at all is kept whole under the "value" key.
func (r *Revision) UnmarshalJSON(data []byte) error {
	*r = Revision{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		r.keep("value", data)
		return nil
	}
	for k, v := range raw {
		var dst **string
		switch k {
		case "date":
			dst = &r.Date
		case "user":
			dst = &r.User
		case "comment":
			dst = &r.Comment
		case "last_run_revision":
			dst = &r.LastRunRevision
		default:
			r.keep(k, v)
			continue
		}
		var s *string
		if err := json.Unmarshal(v, &s); err != nil || s == nil {
			r.keep(k, v)
			continue
		}
		*dst = s
	}
	return nil
}

func (r *Revision) keep(key string, v []byte) {
	if r.Extra == nil {
		r.Extra = make(map[string]json.RawMessage)
	}
	r.Extra[key] = append(json.RawMessage(nil), v...)
}

func (r Revision) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+4)
	for k, v := range r.Extra {
		out[k] = v
	}
	if r.Date != nil {
		out["date"] = *r.Date
	}
	if r.User != nil {
		out["user"] = *r.User
	}
	if r.Comment != nil {
		out["comment"] = *r.Comment
	}
	if r.LastRunRevision != nil {
		out["last_run_revision"] = *r.LastRunRevision
	}
	return json.Marshal(out)
}

// ShortFingerprint is used for display and cache file names.
func (m Material) ShortFingerprint() string {
	if len(m.Fingerprint) >= 12 {
		return m.Fingerprint[:12]
	}
	return m.Fingerprint
}

// MaterialRevision is a single commit returned by the material search
// endpoint.
type MaterialRevision struct {
	Revision string `json:"revision"`
	User     string `json:"user"`
	Date     string `json:"date"`
	Comment  string `json:"comment"`
}

func (r MaterialRevision) ShortRevision() string {
	if len(r.Revision) >= 7 {
		return r.Revision[:7]
	}
	return r.Revision
}
