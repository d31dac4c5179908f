package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/algomation/marionette/pkg/domain"
	"github.com/algomation/marionette/pkg/ports"
)

// EncodeMessage serializes a channel envelope.
func EncodeMessage(m ports.Message) ([]byte, error) {
	if err := ValidateMessage(m); err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// DecodeMessage parses and validates a channel envelope. Numeric payload
// values are decoded as json.Number first and normalized: "parent" becomes a
// domain.NodeID, integers stay integral, everything else becomes float64.
// Kind tags are resolved against the closed kind set here, not later.
func DecodeMessage(data []byte) (ports.Message, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m ports.Message
	if err := dec.Decode(&m); err != nil {
		return ports.Message{}, fmt.Errorf("decode message: %w", err)
	}
	if err := normalizeFrame(m.Commands); err != nil {
		return ports.Message{}, err
	}
	if err := ValidateMessage(m); err != nil {
		return ports.Message{}, err
	}
	return m, nil
}

// EncodeRecording serializes a full recording: an ordered array of frames,
// indexable by frame number. This is the external persistence layout.
func EncodeRecording(frames []domain.Frame) ([]byte, error) {
	return json.MarshalIndent(frames, "", "  ")
}

// DecodeRecording parses a persisted recording and normalizes every frame.
func DecodeRecording(data []byte) ([]domain.Frame, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var frames []domain.Frame
	if err := dec.Decode(&frames); err != nil {
		return nil, fmt.Errorf("decode recording: %w", err)
	}
	for i, f := range frames {
		if err := normalizeFrame(f); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if err := validateFrame(f); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return frames, nil
}

// DecodeFrame parses a single persisted frame, normalizing and validating it.
func DecodeFrame(data []byte) (domain.Frame, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var f domain.Frame
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if err := normalizeFrame(f); err != nil {
		return nil, err
	}
	if err := validateFrame(f); err != nil {
		return nil, err
	}
	return f, nil
}

func normalizeFrame(f domain.Frame) error {
	for i := range f {
		if err := normalizePayload(f[i].Payload); err != nil {
			return fmt.Errorf("command %d (target %d): %w", i, f[i].Target, err)
		}
	}
	return nil
}

func normalizePayload(p domain.Props) error {
	for k, v := range p {
		nv, err := normalizeValue(k, v)
		if err != nil {
			return err
		}
		p[k] = nv
	}
	return nil
}

func normalizeValue(key string, v any) (any, error) {
	switch t := v.(type) {
	case json.Number:
		if key == "parent" {
			id, err := t.Int64()
			if err != nil {
				return nil, fmt.Errorf("parent reference %q is not an id", t)
			}
			return domain.NodeID(id), nil
		}
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("numeric value %q: %w", t, err)
		}
		return f, nil
	case []any:
		// Sequences never cross the wire: ticks are expanded before
		// transmission. A list here is plain data, normalized in place.
		for i, el := range t {
			nv, err := normalizeValue("", el)
			if err != nil {
				return nil, err
			}
			t[i] = nv
		}
		return t, nil
	case map[string]any:
		for k, el := range t {
			nv, err := normalizeValue(k, el)
			if err != nil {
				return nil, err
			}
			t[k] = nv
		}
		return t, nil
	}
	return v, nil
}
