package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfumery/internal/notes"
)

type Note = notes.Note

// NoteList decodes every note shape the catalog has stored over time and
// always yields normalized {name, color} pairs:
//   - array of {name, color} documents
//   - array of plain names
//   - {top, middle, base} pyramid document, flattened top to base
//   - comma-separated string
type NoteList []Note

type notePyramid struct {
	Top    noteSlot `bson:"top" json:"top"`
	Middle noteSlot `bson:"middle" json:"middle"`
	Base   noteSlot `bson:"base" json:"base"`
}

func (p notePyramid) flatten() NoteList {
	out := make(NoteList, 0, len(p.Top)+len(p.Middle)+len(p.Base))
	for _, group := range []noteSlot{p.Top, p.Middle, p.Base} {
		out = append(out, group...)
	}
	return out
}

// noteSlot is one tier of a pyramid. It holds either a list of names or a
// single comma-separated string; anything else is an empty tier.
type noteSlot []Note

func (s *noteSlot) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*s = noteSlot(decodeNotesBSON(t, data))
	return nil
}

func (s *noteSlot) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*s = notes.Normalize(raw)
		return nil
	}

	var values []interface{}
	if err := json.Unmarshal(data, &values); err != nil {
		*s = noteSlot{}
		return nil
	}
	out := make(noteSlot, 0, len(values))
	for _, value := range values {
		if note, ok := noteFromValue(value); ok {
			out = append(out, note)
		}
	}
	*s = out
	return nil
}

// UnmarshalBSONValue never fails on a well-formed value: unknown shapes
// decode as an empty list and unusable array elements are skipped.
func (n *NoteList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*n = nil
	default:
		*n = decodeNotesBSON(t, data)
	}
	return nil
}

func decodeNotesBSON(t bsontype.Type, data []byte) NoteList {
	switch t {
	case bsontype.String:
		var raw string
		if err := bson.UnmarshalValue(t, data, &raw); err != nil {
			return NoteList{}
		}
		return notes.Normalize(raw)
	case bsontype.EmbeddedDocument:
		var pyramid notePyramid
		if err := bson.UnmarshalValue(t, data, &pyramid); err != nil {
			return NoteList{}
		}
		return pyramid.flatten()
	case bsontype.Array:
		var values []interface{}
		if err := bson.UnmarshalValue(t, data, &values); err != nil {
			return NoteList{}
		}
		out := make(NoteList, 0, len(values))
		for _, value := range values {
			if note, ok := noteFromValue(value); ok {
				out = append(out, note)
			}
		}
		return out
	default:
		return NoteList{}
	}
}

// noteFromValue converts one decoded array element. Elements that are
// neither names nor {name, color} documents are reported as unusable.
func noteFromValue(value interface{}) (Note, bool) {
	switch typed := value.(type) {
	case string:
		return notes.FromName(typed), true
	case primitive.D:
		return noteFromMap(typed.Map()), true
	case primitive.M:
		return noteFromMap(typed), true
	case map[string]interface{}:
		return noteFromMap(typed), true
	default:
		return Note{}, false
	}
}

func noteFromMap(m map[string]interface{}) Note {
	name, _ := m["name"].(string)
	note := notes.FromName(name)
	if color, ok := m["color"].(string); ok && strings.TrimSpace(color) != "" {
		note.Color = color
	}
	return note
}

// MarshalBSONValue always writes an array of {name, color} documents.
func (n NoteList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if n == nil {
		return bson.MarshalValue([]Note{})
	}
	return bson.MarshalValue([]Note(n))
}

// UnmarshalJSON accepts the same shapes as the BSON decoder so every
// ingestion path is normalized before storage.
func (n *NoteList) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*n = notes.Normalize(raw)
		return nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		out := make(NoteList, 0, len(names))
		for _, name := range names {
			out = append(out, notes.FromName(name))
		}
		*n = out
		return nil
	}

	var objects []Note
	if err := json.Unmarshal(data, &objects); err == nil {
		out := make(NoteList, 0, len(objects))
		for _, obj := range objects {
			note := notes.FromName(obj.Name)
			if strings.TrimSpace(obj.Color) != "" {
				note.Color = obj.Color
			}
			out = append(out, note)
		}
		*n = out
		return nil
	}

	var pyramid notePyramid
	if err := json.Unmarshal(data, &pyramid); err == nil {
		*n = pyramid.flatten()
		return nil
	}

	return fmt.Errorf("notes must be a comma-separated string or a list")
}

// Names joins the note names with a single space.
func (n NoteList) Names() string {
	return notes.Names(n)
}
