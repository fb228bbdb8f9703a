// Package decode is the external collaborator described in the
// specification's §6: it turns a line-oriented stream of JSON event records
// into validated (actor, target, createdTime) triples, silently dropping
// anything malformed before it ever reaches the core.
//
// The wire format and field names are fixed by the protocol this engine was
// distilled from (one JSON object per line, fields actor/target/created_time,
// timestamps of the form YYYY-MM-DDTHH:MM:SSZ) — see
// original_source/src/victor/med_deg_stream.hpp for the reference decoder
// this package's validation rules mirror.
package decode

import (
	"bufio"
	"encoding/json"
	"io"
	"time"
)

// timeLayout matches the protocol's fixed UTC timestamp format.
const timeLayout = "2006-01-02T15:04:05Z"

// Event is one validated, accepted record: a non-empty actor, a non-empty
// target, and an absolute Unix-second timestamp.
type Event struct {
	Actor       string
	Target      string
	CreatedTime int64
}

type rawRecord struct {
	Actor       *string `json:"actor"`
	Target      *string `json:"target"`
	CreatedTime *string `json:"created_time"`
}

// Decoder reads newline-delimited JSON event records from an io.Reader.
type Decoder struct {
	scanner *bufio.Scanner
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Decoder{scanner: scanner}
}

// Next scans forward to the next valid record, dropping malformed or
// incomplete lines along the way, and reports whether one was found.
func (d *Decoder) Next() (Event, bool) {
	for d.scanner.Scan() {
		event, ok := parseLine(d.scanner.Bytes())
		if ok {
			return event, true
		}
	}
	return Event{}, false
}

// Err reports any error encountered while reading the underlying stream,
// distinct from per-line malformed-record drops (which are not errors).
func (d *Decoder) Err() error {
	return d.scanner.Err()
}

func parseLine(line []byte) (Event, bool) {
	var raw rawRecord
	if err := json.Unmarshal(line, &raw); err != nil {
		return Event{}, false
	}
	if raw.Actor == nil || *raw.Actor == "" {
		return Event{}, false
	}
	if raw.Target == nil || *raw.Target == "" {
		return Event{}, false
	}
	if raw.CreatedTime == nil || *raw.CreatedTime == "" {
		return Event{}, false
	}

	t, err := time.Parse(timeLayout, *raw.CreatedTime)
	if err != nil {
		return Event{}, false
	}

	return Event{
		Actor:       *raw.Actor,
		Target:      *raw.Target,
		CreatedTime: t.Unix(),
	}, true
}
