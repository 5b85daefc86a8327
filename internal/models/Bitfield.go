package models

import (
	"bytes"
	"fmt"
	"strconv"
)

// Bitfield is a 64-bit permission mask. It is encoded as a decimal string
// because JSON numbers lose precision above 2^53.
type Bitfield uint64

func (b Bitfield) MarshalJSON() ([]byte, error) {
	out := make([]byte, 0, 22)
	out = append(out, '"')
	out = strconv.AppendUint(out, uint64(b), 10)
	return append(out, '"'), nil
}

// UnmarshalJSON accepts a quoted decimal string or a bare integer literal.
// null leaves the value at zero.
func (b *Bitfield) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	if len(data) == 0 {
		*b = 0
		return nil
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid permission bitfield %q: %w", data, err)
	}
	*b = Bitfield(v)
	return nil
}
