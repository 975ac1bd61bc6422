// Package emit serializes one compiled function's IR, liveness, and drop
// descriptors into the intermediate form handed off to a native code
// generator. The message shape is described by a `.proto` schema held as
// an in-memory string and parsed at runtime (never through protoc-generated
// `.pb.go` bindings), mirroring how the donor's gRPC/proto builtins load a
// schema dynamically instead of compiling one in.
package emit

import (
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"

	"github.com/google/uuid"

	"github.com/ori-lang/oric/internal/arcir"
	"github.com/ori-lang/oric/internal/dropinfo"
	"github.com/ori-lang/oric/internal/liveness"
)

const schemaFileName = "oric_bundle.proto"

// bundleSchema describes the on-wire Bundle message: one compiled
// function, its per-block liveness, and the deduplicated drop
// descriptors its RcDec sites need. Field numbers are stable across
// Marshal calls within a process but are not a versioned wire contract —
// the native codegen process this hands off to is built against the same
// oric revision.
const bundleSchema = `
syntax = "proto3";
package oric.emit;

message RCField {
  uint32 index = 1;
  uint32 type = 2;
}

message RCFieldList {
  repeated RCField fields = 1;
}

message DropInfo {
  uint32 type = 1;
  uint32 kind = 2;
  repeated RCField rc_fields = 3;
  repeated RCFieldList variants = 4;
  uint32 element_type = 5;
  uint32 key_type = 6;
  uint32 value_type = 7;
  bool dec_keys = 8;
  bool dec_values = 9;
}

message BlockLiveness {
  uint32 block_id = 1;
  repeated uint32 live_in = 2;
  repeated uint32 live_out = 3;
}

message ArcFunction {
  string name = 1;
  repeated uint32 param_vars = 2;
  repeated uint32 param_types = 3;
  uint32 return_type = 4;
  repeated uint32 var_types = 5;
  repeated uint32 block_ids = 6;
}

message Bundle {
  string run_id = 1;
  ArcFunction function = 2;
  repeated BlockLiveness liveness = 3;
  repeated DropInfo drop_infos = 4;
}
`

// schema parses bundleSchema into file descriptors, anew on every call.
// Parsing an in-memory schema string (rather than reading a .proto off disk) uses
// protoparse's virtual-file accessor.
func schema() (*desc.FileDescriptor, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{
			schemaFileName: bundleSchema,
		}),
	}
	fds, err := parser.ParseFiles(schemaFileName)
	if err != nil {
		return nil, fmt.Errorf("parsing bundle schema: %w", err)
	}
	return fds[0], nil
}

// Bundle holds everything one compiled function's handoff needs.
type Bundle struct {
	RunID    uuid.UUID
	Function *arcir.Function
	Liveness liveness.BlockLiveness
	Drops    []dropinfo.Info
}

// Marshal serializes bundle against the dynamically-parsed schema,
// producing the wire bytes a native code generator receives.
func Marshal(bundle Bundle) ([]byte, error) {
	fd, err := schema()
	if err != nil {
		return nil, err
	}

	bundleDesc := fd.FindMessage("oric.emit.Bundle")
	if bundleDesc == nil {
		return nil, fmt.Errorf("schema is missing message oric.emit.Bundle")
	}

	msg := dynamic.NewMessage(bundleDesc)
	msg.SetFieldByName("run_id", bundle.RunID.String())
	msg.SetFieldByName("function", buildFunction(fd.FindMessage("oric.emit.ArcFunction"), bundle.Function))

	livenessDesc := fd.FindMessage("oric.emit.BlockLiveness")
	liveMsgs := make([]interface{}, 0, len(bundle.Function.Blocks))
	for blockID := range bundle.Function.Blocks {
		liveMsgs = append(liveMsgs, buildBlockLiveness(livenessDesc, uint32(blockID), bundle.Liveness))
	}
	msg.SetFieldByName("liveness", liveMsgs)

	dropDesc := fd.FindMessage("oric.emit.DropInfo")
	rcFieldDesc := fd.FindMessage("oric.emit.RCField")
	rcFieldListDesc := fd.FindMessage("oric.emit.RCFieldList")
	dropMsgs := make([]interface{}, 0, len(bundle.Drops))
	for _, info := range bundle.Drops {
		dropMsgs = append(dropMsgs, buildDropInfo(dropDesc, rcFieldDesc, rcFieldListDesc, info))
	}
	msg.SetFieldByName("drop_infos", dropMsgs)

	return msg.Marshal()
}

func buildFunction(md *desc.MessageDescriptor, fn *arcir.Function) *dynamic.Message {
	msg := dynamic.NewMessage(md)
	msg.SetFieldByName("name", fn.Name)

	paramVars := make([]interface{}, 0, len(fn.Params))
	paramTypes := make([]interface{}, 0, len(fn.Params))
	for _, p := range fn.Params {
		paramVars = append(paramVars, uint32(p.Var))
		paramTypes = append(paramTypes, uint32(p.Type))
	}
	msg.SetFieldByName("param_vars", paramVars)
	msg.SetFieldByName("param_types", paramTypes)
	msg.SetFieldByName("return_type", uint32(fn.ReturnType))

	varTypes := make([]interface{}, 0, len(fn.VarTypes))
	for _, vt := range fn.VarTypes {
		varTypes = append(varTypes, uint32(vt))
	}
	msg.SetFieldByName("var_types", varTypes)

	blockIDs := make([]interface{}, 0, len(fn.Blocks))
	for _, b := range fn.Blocks {
		blockIDs = append(blockIDs, uint32(b.ID))
	}
	msg.SetFieldByName("block_ids", blockIDs)
	return msg
}

func buildBlockLiveness(md *desc.MessageDescriptor, blockID uint32, bl liveness.BlockLiveness) *dynamic.Message {
	msg := dynamic.NewMessage(md)
	msg.SetFieldByName("block_id", blockID)

	liveIn := make([]interface{}, 0, len(bl.LiveIn[blockID]))
	for v := range bl.LiveIn[blockID] {
		liveIn = append(liveIn, uint32(v))
	}
	msg.SetFieldByName("live_in", liveIn)

	liveOut := make([]interface{}, 0, len(bl.LiveOut[blockID]))
	for v := range bl.LiveOut[blockID] {
		liveOut = append(liveOut, uint32(v))
	}
	msg.SetFieldByName("live_out", liveOut)
	return msg
}

func buildRCField(md *desc.MessageDescriptor, f dropinfo.RCField) *dynamic.Message {
	msg := dynamic.NewMessage(md)
	msg.SetFieldByName("index", f.Index)
	msg.SetFieldByName("type", uint32(f.Type))
	return msg
}

func buildRCFieldList(listDesc, fieldDesc *desc.MessageDescriptor, fields []dropinfo.RCField) *dynamic.Message {
	msg := dynamic.NewMessage(listDesc)
	items := make([]interface{}, 0, len(fields))
	for _, f := range fields {
		items = append(items, buildRCField(fieldDesc, f))
	}
	msg.SetFieldByName("fields", items)
	return msg
}

func buildDropInfo(md, rcFieldDesc, rcFieldListDesc *desc.MessageDescriptor, info dropinfo.Info) *dynamic.Message {
	msg := dynamic.NewMessage(md)
	msg.SetFieldByName("type", uint32(info.Type))
	msg.SetFieldByName("kind", uint32(info.Kind))

	rcFields := make([]interface{}, 0, len(info.RCFields))
	for _, f := range info.RCFields {
		rcFields = append(rcFields, buildRCField(rcFieldDesc, f))
	}
	msg.SetFieldByName("rc_fields", rcFields)

	variants := make([]interface{}, 0, len(info.Variants))
	for _, variant := range info.Variants {
		variants = append(variants, buildRCFieldList(rcFieldListDesc, rcFieldDesc, variant))
	}
	msg.SetFieldByName("variants", variants)

	msg.SetFieldByName("element_type", uint32(info.ElementType))
	msg.SetFieldByName("key_type", uint32(info.KeyType))
	msg.SetFieldByName("value_type", uint32(info.ValueType))
	msg.SetFieldByName("dec_keys", info.DecKeys)
	msg.SetFieldByName("dec_values", info.DecValues)
	return msg
}
