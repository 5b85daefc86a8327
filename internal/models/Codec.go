package models

import (
	json "github.com/goccy/go-json"
	"github.com/juju/errors"
)

// Encode serialises a snapshot as indented JSON.
func Encode(s *Snapshot) ([]byte, error) {
	if s == nil {
		return nil, errors.NotValidf("nil snapshot")
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Annotate(err, "encoding snapshot")
	}
	return data, nil
}

// Decode parses a snapshot. Unknown fields are ignored and missing ones keep
// their zero value; anything that is not a JSON object of the expected shape
// is reported as NotValid.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.NewNotValid(err, "malformed snapshot")
	}
	return &s, nil
}
