package gallery

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CurrentVersion is the layout version written by this package.
//
// Version 0 is the legacy layout: a bare JSON array of creations.
// Version 1 wraps the array: {"version": 1, "creations": [...]}.
const CurrentVersion = 1

var (
	errCorruptRecord = errors.New("invalid creations record")
	errNewerVersion  = errors.New("creations record is newer than supported")
)

type document struct {
	Version   int        `json:"version"`
	Creations []Creation `json:"creations"`
}

func decodeDocument(data []byte) (*document, error) {
	var probe json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %w", errCorruptRecord, err)
	}

	if len(probe) > 0 && probe[0] == '[' {
		var legacy []Creation
		if err := json.Unmarshal(probe, &legacy); err != nil {
			return nil, fmt.Errorf("%w: legacy layout: %w", errCorruptRecord, err)
		}
		return &document{Version: 0, Creations: legacy}, nil
	}

	var doc document
	if err := json.Unmarshal(probe, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", errCorruptRecord, err)
	}
	if doc.Version > CurrentVersion {
		return nil, fmt.Errorf("%w: version %d, supported %d", errNewerVersion, doc.Version, CurrentVersion)
	}
	return &doc, nil
}

func encodeDocument(creations []Creation) ([]byte, error) {
	if creations == nil {
		creations = []Creation{}
	}
	return json.Marshal(document{Version: CurrentVersion, Creations: creations})
}
