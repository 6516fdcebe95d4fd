// Package script reads instruction scripts: ordered lists of steps naming an
// opcode and its field values, stored as JSON or MessagePack.
//
//	[
//	  {"op": "create_element", "args": ["div"]},
//	  {"op": "set_attribute", "args": ["id", "app"]},
//	  {"op": "append_child"}
//	]
//
// Compile encodes a script into a bytecode.Buffer.
package script

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/wippyai/librender/errors"
)

// Step is one instruction of a script.
type Step struct {
	Op   string   `json:"op" msgpack:"op"`
	Args []string `json:"args,omitempty" msgpack:"args,omitempty"`
}

// Format identifies a script serialization.
type Format int

const (
	FormatJSON Format = iota
	FormatMsgPack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgPack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the format from the file extension:
// .json, or .msgpack and .mp.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".msgpack", ".mp":
		return FormatMsgPack, nil
	default:
		return 0, errors.InvalidArgument(errors.PhaseScript, "FormatFromPath",
			"unsupported script extension "+strconv.Quote(filepath.Ext(path)))
	}
}

// Decode parses a script. Only the structure is checked here; opcode names
// and field counts are checked by Compile.
func Decode(data []byte, format Format) ([]Step, error) {
	var steps []Step
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &steps)
	case FormatMsgPack:
		err = msgpack.Unmarshal(data, &steps)
	default:
		return nil, errors.New(errors.PhaseScript, errors.KindInvalidArgument).
			Op("Decode").
			Value(format).
			Detail("unknown format %d", int(format)).
			Build()
	}
	if err != nil {
		return nil, errors.Wrap(errors.PhaseScript, errors.KindInvalidData, err, "malformed "+format.String()+" script")
	}
	return steps, nil
}

// Encode serializes steps in the given format.
func Encode(steps []Step, format Format) ([]byte, error) {
	var data []byte
	var err error
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(steps, "", "  ")
	case FormatMsgPack:
		data, err = msgpack.Marshal(steps)
	default:
		return nil, errors.New(errors.PhaseScript, errors.KindInvalidArgument).
			Op("Encode").
			Value(format).
			Detail("unknown format %d", int(format)).
			Build()
	}
	if err != nil {
		return nil, errors.Wrap(errors.PhaseScript, errors.KindInvalidData, err, "encode "+format.String()+" script")
	}
	return data, nil
}

// Load reads and decodes the script at path, choosing the format by extension.
func Load(path string) ([]Step, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseScript, "Load", path, err)
	}
	steps, err := Decode(data, format)
	if err != nil {
		e := errors.WithPath(errors.PhaseScript, err)
		e.Op = "Load"
		return nil, e
	}
	return steps, nil
}

// Save encodes steps and writes them to path, choosing the format by extension.
func Save(steps []Step, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(steps, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.IO(errors.PhaseScript, "Save", path, err)
	}
	return nil
}
