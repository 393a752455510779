package draw

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// errUnknownKind marks wire payloads tagged with a shape or action kind this
// build does not know. Frame decoding drops such entries instead of failing
// the whole load.
var errUnknownKind = errors.New("unknown kind")

// MarshalShape encodes a shape as a flat object with a "kind" tag alongside
// the variant fields.
func MarshalShape(s Shape) ([]byte, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode %s shape: %w", s.Kind(), err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("encode %s shape: %w", s.Kind(), err)
	}
	fields["kind"] = json.RawMessage(fmt.Sprintf("%q", s.Kind()))
	return json.Marshal(fields)
}

// UnmarshalShape decodes a tagged shape object.
func UnmarshalShape(data []byte) (Shape, error) {
	var tag struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("decode shape tag: %w", err)
	}
	var (
		s   Shape
		err error
	)
	switch tag.Kind {
	case "freehand":
		var v Freehand
		err = json.Unmarshal(data, &v)
		s = v
	case "freehand_pressure":
		var v FreehandPressure
		err = json.Unmarshal(data, &v)
		s = v
	case "line":
		var v Line
		err = json.Unmarshal(data, &v)
		s = v
	case "rect":
		var v Rect
		err = json.Unmarshal(data, &v)
		s = v
	case "ellipse":
		var v Ellipse
		err = json.Unmarshal(data, &v)
		s = v
	case "arrow":
		var v Arrow
		err = json.Unmarshal(data, &v)
		s = v
	case "text":
		var v Text
		err = json.Unmarshal(data, &v)
		s = v
	case "sticky_note":
		var v StickyNote
		err = json.Unmarshal(data, &v)
		s = v
	case "marker":
		var v Marker
		err = json.Unmarshal(data, &v)
		s = v
	case "eraser":
		var v Eraser
		err = json.Unmarshal(data, &v)
		s = v
	case "step_marker":
		var v StepMarker
		err = json.Unmarshal(data, &v)
		s = v
	default:
		return nil, fmt.Errorf("shape kind %q: %w", tag.Kind, errUnknownKind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s shape: %w", tag.Kind, err)
	}
	return s, nil
}

type drawnShapeWire struct {
	Id        ShapeId         `json:"id"`
	Shape     json.RawMessage `json:"shape"`
	CreatedAt uint64          `json:"created_at"`
	Locked    bool            `json:"locked,omitempty"`
}

// MarshalJSON encodes the shape with its engine metadata.
func (d DrawnShape) MarshalJSON() ([]byte, error) {
	shape, err := MarshalShape(d.Shape)
	if err != nil {
		return nil, err
	}
	return json.Marshal(drawnShapeWire{
		Id:        d.Id,
		Shape:     shape,
		CreatedAt: d.CreatedAt,
		Locked:    d.Locked,
	})
}

// UnmarshalJSON decodes the shape with its engine metadata.
func (d *DrawnShape) UnmarshalJSON(data []byte) error {
	var wire drawnShapeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode drawn shape: %w", err)
	}
	shape, err := UnmarshalShape(wire.Shape)
	if err != nil {
		return err
	}
	d.Id = wire.Id
	d.Shape = shape
	d.CreatedAt = wire.CreatedAt
	d.Locked = wire.Locked
	return nil
}

// MarshalJSON encodes the snapshot with a tagged shape.
func (s ShapeSnapshot) MarshalJSON() ([]byte, error) {
	shape, err := MarshalShape(s.Shape)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Shape  json.RawMessage `json:"shape"`
		Locked bool            `json:"locked,omitempty"`
	}{Shape: shape, Locked: s.Locked})
}

// UnmarshalJSON decodes the snapshot's tagged shape.
func (s *ShapeSnapshot) UnmarshalJSON(data []byte) error {
	var wire struct {
		Shape  json.RawMessage `json:"shape"`
		Locked bool            `json:"locked"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode shape snapshot: %w", err)
	}
	shape, err := UnmarshalShape(wire.Shape)
	if err != nil {
		return err
	}
	s.Shape = shape
	s.Locked = wire.Locked
	return nil
}

type indexedShapeWire struct {
	Index int        `json:"index"`
	Shape DrawnShape `json:"shape"`
}

// MarshalAction encodes an undo action as a tagged object.
func MarshalAction(a UndoAction) ([]byte, error) {
	switch v := a.(type) {
	case CreateAction:
		return marshalIndexedAction("create", v.Shapes)
	case DeleteAction:
		return marshalIndexedAction("delete", v.Shapes)
	case ModifyAction:
		return json.Marshal(struct {
			Kind    string        `json:"kind"`
			ShapeId ShapeId       `json:"shape_id"`
			Before  ShapeSnapshot `json:"before"`
			After   ShapeSnapshot `json:"after"`
		}{"modify", v.ShapeId, v.Before, v.After})
	case ReorderAction:
		return json.Marshal(struct {
			Kind    string  `json:"kind"`
			ShapeId ShapeId `json:"shape_id"`
			From    int     `json:"from"`
			To      int     `json:"to"`
		}{"reorder", v.ShapeId, v.From, v.To})
	case CompoundAction:
		children := make([]json.RawMessage, len(v.Actions))
		for i, child := range v.Actions {
			encoded, err := MarshalAction(child)
			if err != nil {
				return nil, err
			}
			children[i] = encoded
		}
		return json.Marshal(struct {
			Kind    string            `json:"kind"`
			Actions []json.RawMessage `json:"actions"`
		}{"compound", children})
	default:
		return nil, fmt.Errorf("action %T: %w", a, errUnknownKind)
	}
}

func marshalIndexedAction(kind string, shapes []IndexedShape) ([]byte, error) {
	wire := make([]indexedShapeWire, len(shapes))
	for i, entry := range shapes {
		wire[i] = indexedShapeWire{Index: entry.Index, Shape: entry.Shape}
	}
	return json.Marshal(struct {
		Kind   string             `json:"kind"`
		Shapes []indexedShapeWire `json:"shapes"`
	}{kind, wire})
}

// UnmarshalAction decodes a tagged undo action.
func UnmarshalAction(data []byte) (UndoAction, error) {
	var tag struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("decode action tag: %w", err)
	}
	switch tag.Kind {
	case "create", "delete":
		var wire struct {
			Shapes []indexedShapeWire `json:"shapes"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("decode %s action: %w", tag.Kind, err)
		}
		shapes := make([]IndexedShape, len(wire.Shapes))
		for i, entry := range wire.Shapes {
			shapes[i] = IndexedShape{Index: entry.Index, Shape: entry.Shape}
		}
		if tag.Kind == "create" {
			return CreateAction{Shapes: shapes}, nil
		}
		return DeleteAction{Shapes: shapes}, nil
	case "modify":
		var wire struct {
			ShapeId ShapeId       `json:"shape_id"`
			Before  ShapeSnapshot `json:"before"`
			After   ShapeSnapshot `json:"after"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("decode modify action: %w", err)
		}
		return ModifyAction{ShapeId: wire.ShapeId, Before: wire.Before, After: wire.After}, nil
	case "reorder":
		var wire struct {
			ShapeId ShapeId `json:"shape_id"`
			From    int     `json:"from"`
			To      int     `json:"to"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("decode reorder action: %w", err)
		}
		return ReorderAction{ShapeId: wire.ShapeId, From: wire.From, To: wire.To}, nil
	case "compound":
		var wire struct {
			Actions []json.RawMessage `json:"actions"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("decode compound action: %w", err)
		}
		actions := make([]UndoAction, 0, len(wire.Actions))
		for _, raw := range wire.Actions {
			child, err := UnmarshalAction(raw)
			if err != nil {
				return nil, err
			}
			actions = append(actions, child)
		}
		return CompoundAction{Actions: actions}, nil
	default:
		return nil, fmt.Errorf("action kind %q: %w", tag.Kind, errUnknownKind)
	}
}

type frameWire struct {
	Shapes    []json.RawMessage `json:"shapes"`
	UndoStack []json.RawMessage `json:"undo_stack,omitempty"`
	RedoStack []json.RawMessage `json:"redo_stack,omitempty"`
	PageName  string            `json:"page_name,omitempty"`
}

// MarshalJSON encodes the frame's shapes and history.
func (f *Frame) MarshalJSON() ([]byte, error) {
	wire := frameWire{
		Shapes:   make([]json.RawMessage, len(f.shapes)),
		PageName: f.pageName,
	}
	for i := range f.shapes {
		encoded, err := json.Marshal(f.shapes[i])
		if err != nil {
			return nil, err
		}
		wire.Shapes[i] = encoded
	}
	for _, action := range f.undoStack {
		encoded, err := MarshalAction(action)
		if err != nil {
			return nil, err
		}
		wire.UndoStack = append(wire.UndoStack, encoded)
	}
	for _, action := range f.redoStack {
		encoded, err := MarshalAction(action)
		if err != nil {
			return nil, err
		}
		wire.RedoStack = append(wire.RedoStack, encoded)
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a frame, dropping entries tagged with unknown kinds
// so a newer session file still loads on an older build.
func (f *Frame) UnmarshalJSON(data []byte) error {
	var wire frameWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}
	f.shapes = nil
	f.undoStack = nil
	f.redoStack = nil
	f.pageName = wire.PageName
	for _, raw := range wire.Shapes {
		var drawn DrawnShape
		if err := drawn.UnmarshalJSON(raw); err != nil {
			if errors.Is(err, errUnknownKind) {
				slog.Warn("skipping shape with unknown kind", "error", err)
				continue
			}
			return err
		}
		f.shapes = append(f.shapes, drawn)
	}
	f.undoStack = decodeActionStack(wire.UndoStack, "undo")
	f.redoStack = decodeActionStack(wire.RedoStack, "redo")
	f.rebuildNextId()
	return nil
}

// decodeActionStack decodes history actions, dropping ones that fail to
// decode. History is advisory; a bad entry never blocks loading shapes.
func decodeActionStack(raw []json.RawMessage, stack string) []UndoAction {
	var actions []UndoAction
	for _, entry := range raw {
		action, err := UnmarshalAction(entry)
		if err != nil {
			slog.Warn("skipping undecodable history action", "stack", stack, "error", err)
			continue
		}
		actions = append(actions, action)
	}
	return actions
}
