package stdlib

import (
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/cloverlang/cloverc/internal/types"
)

// newProtoPackage materializes one Struct type per message in descriptorSet
// (if given) plus the protoEncode/protoDecode intrinsics. Rather than
// leaving message shapes as an opaque generic behind bare type signatures,
// this loader decodes real FileDescriptorSet bytes via jhump/protoreflect,
// so a program importing a specific .proto file sees genuinely typed
// message fields rather than an opaque blob.
func newProtoPackage(ty *types.System, descriptorSet []byte) (*Package, error) {
	std := ty.Std()

	resultBytes := resultOf(ty, std.Bytes, std.Bytes)
	dataGeneric, dataId := ty.NewGeneric()
	resultData := resultOf(ty, dataGeneric, std.Bytes)

	pkg := &Package{
		Name:  "proto",
		Types: map[string]TypeId{},
		Symbols: map[string]TypeId{
			"protoEncode": callable(ty, []string{"message_name", "data"}, []TypeId{std.Bytes, dataGeneric}, resultBytes),
			"protoDecode": callable(ty, []string{"message_name", "bytes"}, []TypeId{std.Bytes, std.Bytes}, resultData),
		},
	}
	_ = dataId

	if len(descriptorSet) == 0 {
		return pkg, nil
	}

	var fdSet descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(descriptorSet, &fdSet); err != nil {
		return nil, fmt.Errorf("stdlib: decoding proto descriptor set: %w", err)
	}

	files, err := desc.CreateFileDescriptorsFromSet(&fdSet)
	if err != nil {
		return nil, fmt.Errorf("stdlib: building file descriptors: %w", err)
	}

	for _, fd := range files {
		for _, msg := range fd.GetMessageTypes() {
			pkg.Types[msg.GetName()] = structTypeFromMessage(ty, msg)
		}
	}

	return pkg, nil
}

// structTypeFromMessage builds a types.KindStruct whose pair-tuple body has
// one element per protobuf field, in the order the descriptor lists them, typed by the
// closest atom/pair equivalent of that field's protobuf kind.
func structTypeFromMessage(ty *types.System, msg *desc.MessageDescriptor) TypeId {
	std := ty.Std()
	fields := msg.GetFields()

	fieldNames := make([]string, len(fields))
	fieldTypes := make([]TypeId, len(fields))
	for i, f := range fields {
		fieldNames[i] = f.GetName()
		fieldTypes[i] = protoFieldType(ty, f)
	}

	body := std.Nil
	for i := len(fieldTypes) - 1; i >= 0; i-- {
		body = ty.Alloc(types.Type{Kind: types.KindPair, First: fieldTypes[i], Rest: body})
	}

	ref := ty.ReserveRef()
	ty.Resolve(ref, types.Type{
		Kind: types.KindStruct, Original: ref, Inner: body, FieldNames: fieldNames, HasFields: true,
	})
	return ref
}

func protoFieldType(ty *types.System, f *desc.FieldDescriptor) TypeId {
	std := ty.Std()

	var base TypeId
	switch f.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		base = std.Bool
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		base = std.Bytes
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		base = std.Bytes
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		base = structTypeFromMessage(ty, f.GetMessageType())
	default:
		// Every integer/enum/float protobuf kind maps onto the single Int
		// atom; the wire-level distinction between them is a concern of the
		// (out-of-scope) codegen stage, not of static typing here.
		base = std.Int
	}

	if f.IsRepeated() {
		// A repeated field is typed as Nil or Pair(base, Any): the first
		// element is typed base, the rest of the list is typed Any.
		return ty.Alloc(types.Type{Kind: types.KindUnion, Members: []TypeId{std.Nil, ty.Alloc(types.Type{
			Kind: types.KindPair, First: base, Rest: std.Any,
		})}})
	}
	return base
}
