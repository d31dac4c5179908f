package schema

import (
	"testing"

	"github.com/algomation/marionette/pkg/domain"
	"github.com/algomation/marionette/pkg/ports"
)

func TestMessageRoundTrip(t *testing.T) {
	m := ports.Message{
		Type: ports.MessagePause,
		Commands: domain.Frame{
			{
				Op:     domain.OpUpdate,
				Target: 2,
				Kind:   domain.KindBox,
				Payload: domain.Props{
					"parent":  domain.NodeID(1),
					"x":       12.5,
					"index":   int64(3),
					"fill":    "#e74c3c",
					"visible": true,
				},
				More: true,
			},
			{Op: domain.OpDestroy, Target: 7},
		},
		Meta: map[string]any{"label": "swap"},
	}

	data, err := EncodeMessage(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.Type != ports.MessagePause || len(got.Commands) != 2 {
		t.Fatalf("envelope mismatch: %+v", got)
	}
	up := got.Commands[0]
	if !up.More || up.Kind != domain.KindBox {
		t.Errorf("update flags lost: %+v", up)
	}
	if id, ok := up.Payload["parent"].(domain.NodeID); !ok || id != 1 {
		t.Errorf("parent not normalized to NodeID: %v (%T)", up.Payload["parent"], up.Payload["parent"])
	}
	if up.Payload["x"] != 12.5 {
		t.Errorf("float lost: %v", up.Payload["x"])
	}
	if up.Payload["index"] != int64(3) {
		t.Errorf("integer widened: %v (%T)", up.Payload["index"], up.Payload["index"])
	}
	if up.Payload["visible"] != true {
		t.Errorf("bool lost: %v", up.Payload["visible"])
	}
}

func TestDecodeMessage_Invalid(t *testing.T) {
	cases := map[string]string{
		"UnknownType":     `{"type":"pounce"}`,
		"UnknownOp":       `{"type":"pause","commands":[{"op":"upsert","target":1}]}`,
		"UnknownKind":     `{"type":"pause","commands":[{"op":"update","target":1,"kind":"sprite"}]}`,
		"BadTarget":       `{"type":"pause","commands":[{"op":"update","target":0}]}`,
		"DestroyPayload":  `{"type":"pause","commands":[{"op":"destroy","target":1,"payload":{"x":1}}]}`,
		"DuplicateUpdate": `{"type":"pause","commands":[{"op":"update","target":1},{"op":"update","target":1}]}`,
		"ContinueCargo":   `{"type":"continue","commands":[{"op":"destroy","target":1}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeMessage([]byte(raw)); err == nil {
				t.Errorf("decode accepted %s", raw)
			}
		})
	}
}

func TestRecordingRoundTrip(t *testing.T) {
	frames := []domain.Frame{
		{{Op: domain.OpUpdate, Target: 1, Kind: domain.KindContainer, Payload: domain.Props{"opacity": 1.0}}},
		{{Op: domain.OpUpdate, Target: 2, Kind: domain.KindBox, Payload: domain.Props{"parent": domain.NodeID(1)}}},
		{{Op: domain.OpDestroy, Target: 2}},
	}

	data, err := EncodeRecording(frames)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeRecording(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d frames", len(got))
	}
	if id, ok := got[1][0].Payload["parent"].(domain.NodeID); !ok || id != 1 {
		t.Errorf("parent not normalized: %v", got[1][0].Payload["parent"])
	}
}

func TestSnapshot(t *testing.T) {
	r := domain.NewRegistry()
	root, _ := r.NewRoot(domain.KindContainer, domain.Update{Props: domain.Props{"opacity": 1.0}})
	child, _ := r.NewNode(domain.KindBox, domain.Update{Props: domain.Props{"x": 3.0}})

	snap := Snapshot(r)
	if len(snap) != 2 {
		t.Fatalf("snapshot size %d", len(snap))
	}
	if snap[0].ID != root.ID() || snap[1].ID != child.ID() {
		t.Error("snapshot not in id order")
	}
	if snap[1].Parent != root.ID() {
		t.Errorf("child parent = %d", snap[1].Parent)
	}
	if snap[1].Props["opacity"] != 1.0 {
		t.Error("snapshot props not inherited-resolved")
	}
}
