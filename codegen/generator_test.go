package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSimpleStruct(t *testing.T) {
	schema := &Schema{
		Types: map[string]*TypeDef{
			"Point": {
				Fields: []Field{
					{Name: "x", Type: "u32"},
					{Name: "y", Type: "u32"},
				},
			},
		},
	}

	code, err := GenerateGo(schema, "entities", "github.com/Boscop/mincode/runtime")
	require.NoError(t, err)
	require.NotEmpty(t, code)

	require.Contains(t, code, "type Point struct")
	require.Contains(t, code, "X uint32")
	require.Contains(t, code, "Y uint32")
	require.Contains(t, code, "func (v *Point) EncodeTo(enc *runtime.Encoder) error")
	require.Contains(t, code, "func (v *Point) DecodeFrom(dec *runtime.Decoder) error")
	require.Contains(t, code, "enc.EncodeU32(v.X)")
	require.Contains(t, code, "dec.DecodeU32()")
}

func TestGeneratePrimitiveFieldCalls(t *testing.T) {
	tests := []struct {
		fieldType string
		goType    string
		encode    string
		decode    string
	}{
		{"u8", "uint8", "EncodeU8", "DecodeU8"},
		{"i64", "int64", "EncodeI64", "DecodeI64"},
		{"f32", "float32", "EncodeF32", "DecodeF32"},
		{"bool", "bool", "EncodeBool", "DecodeBool"},
		{"string", "string", "EncodeString", "DecodeString"},
	}
	for _, tc := range tests {
		schema := &Schema{Types: map[string]*TypeDef{
			"T": {Fields: []Field{{Name: "field", Type: tc.fieldType}}},
		}}
		code, err := GenerateGo(schema, "p", "runtimepkg")
		require.NoError(t, err)
		require.Contains(t, code, "Field "+tc.goType)
		require.Contains(t, code, "enc."+tc.encode)
		require.Contains(t, code, "dec."+tc.decode)
	}
}

func TestGenerateSequenceField(t *testing.T) {
	schema := &Schema{Types: map[string]*TypeDef{
		"List": {Fields: []Field{{Name: "items", Type: "[]u32"}}},
	}}
	code, err := GenerateGo(schema, "p", "runtimepkg")
	require.NoError(t, err)
	require.Contains(t, code, "Items []uint32")
	require.Contains(t, code, "enc.BeginSeq(len(v.Items))")
	require.Contains(t, code, "dec.BeginSeq()")
}

func TestGenerateOptionField(t *testing.T) {
	schema := &Schema{Types: map[string]*TypeDef{
		"Maybe": {Fields: []Field{{Name: "value", Type: "*u32"}}},
	}}
	code, err := GenerateGo(schema, "p", "runtimepkg")
	require.NoError(t, err)
	require.Contains(t, code, "Value *uint32")
	require.Contains(t, code, "enc.EncodeOption(v.Value != nil)")
	require.Contains(t, code, "dec.DecodeOption()")
}

func TestGenerateEnum(t *testing.T) {
	schema := &Schema{Types: map[string]*TypeDef{
		"Shape": {Variants: []Variant{
			{Name: "circle", Index: 0, Fields: []Field{{Name: "radius", Type: "f32"}}},
			{Name: "square", Index: 1, Fields: []Field{{Name: "side", Type: "f32"}}},
		}},
	}}
	code, err := GenerateGo(schema, "p", "runtimepkg")
	require.NoError(t, err)
	require.Contains(t, code, "Circle_Radius float32")
	require.Contains(t, code, "Square_Side float32")
	require.Contains(t, code, "enc.BeginVariant(v.Tag,")
	require.Contains(t, code, "dec.DecodeVariantTag()")
	require.Contains(t, code, "enum variant index out of range")
}

func TestGenerateNestedNamedType(t *testing.T) {
	schema := &Schema{Types: map[string]*TypeDef{
		"Inner": {Fields: []Field{{Name: "v", Type: "u8"}}},
		"Outer": {Fields: []Field{{Name: "inner", Type: "Inner"}}},
	}}
	code, err := GenerateGo(schema, "p", "runtimepkg")
	require.NoError(t, err)
	require.Contains(t, code, "Inner Inner")
	require.Contains(t, code, "(&v.Inner).EncodeTo(enc)")
	require.Contains(t, code, "(&v.Inner).DecodeFrom(dec)")
}
