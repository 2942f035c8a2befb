package paper

import "encoding/json"

// decodeField decodes one field into dst, leaving dst untouched when the
// field is missing or its value cannot be decoded.
func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

// UnmarshalJSON decodes a record field by field. A field whose value has
// the wrong type is treated as absent, and a value that is not an object
// at all decodes to the zero record. Malformation inside a record is never
// fatal; only the document's top-level shape is validated strictly.
func (p *Paper) UnmarshalJSON(data []byte) error {
	*p = Paper{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	decodeField(fields, "doi", &p.DOI)
	decodeField(fields, "arxiv_id", &p.ArXivID)
	decodeField(fields, "openalex_id", &p.OpenAlexID)
	decodeField(fields, "s2_id", &p.S2ID)
	decodeField(fields, "title", &p.Title)
	decodeField(fields, "authors", &p.Authors)
	decodeField(fields, "year", &p.Year)
	decodeField(fields, "venue", &p.Venue)
	decodeField(fields, "type", &p.Type)
	decodeField(fields, "cited_by_count", &p.CitedByCount)
	decodeField(fields, "source", &p.Source)
	return nil
}
