// Package codegen generates Go Encodable/Decodable implementations from a
// Schema value, the same role the reflectcodec package fills at runtime
// via reflection but paid for once at generation time instead of on every
// call. It does not parse schema files itself; callers build the Schema.
package codegen

import (
	"bytes"
	"fmt"
	"strings"
)

// Schema is a named collection of type definitions.
type Schema struct {
	Types map[string]*TypeDef
}

// TypeDef is either a struct (Fields set) or an enum (Variants set); a
// schema-level type is exactly one of the two.
type TypeDef struct {
	Fields   []Field
	Variants []Variant
}

// Field describes one struct field. Type follows Go syntax so the
// generator's output types look exactly like what a human would write by
// hand: a bare name ("u32", "string", or another schema type name), "[]T"
// for a sequence, "map[K]V" for a map, or "*T" for an option.
type Field struct {
	Name string
	Type string
}

// Variant describes one enum arm: Index is its wire discriminant, Fields
// its (possibly empty) payload.
type Variant struct {
	Name   string
	Index  uint64
	Fields []Field
}

// GenerateGo generates Go source defining every type in schema, each with
// an EncodeTo(*runtime.Encoder) and DecodeFrom(*runtime.Decoder) method
// pair implementing the mincode.Encodable/Decodable contract.
func GenerateGo(schema *Schema, pkg, runtimeImport string) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("package %s\n\n", pkg))
	buf.WriteString("import (\n")
	buf.WriteString(fmt.Sprintf("\t%q\n", runtimeImport))
	buf.WriteString(")\n\n")

	names := sortedKeys(schema.Types)
	for _, name := range names {
		def := schema.Types[name]
		if def.Variants != nil {
			if err := generateEnum(&buf, name, def); err != nil {
				return "", err
			}
			continue
		}
		if err := generateStruct(&buf, name, def); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func sortedKeys(m map[string]*TypeDef) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func generateStruct(buf *bytes.Buffer, name string, def *TypeDef) error {
	buf.WriteString(fmt.Sprintf("type %s struct {\n", name))
	for _, f := range def.Fields {
		goType, err := mapTypeToGo(f.Type)
		if err != nil {
			return err
		}
		buf.WriteString(fmt.Sprintf("\t%s %s\n", capitalizeFirst(f.Name), goType))
	}
	buf.WriteString("}\n\n")

	buf.WriteString(fmt.Sprintf("func (v *%s) EncodeTo(enc *runtime.Encoder) error {\n", name))
	buf.WriteString(fmt.Sprintf("\tif err := enc.BeginStruct(%d); err != nil {\n\t\treturn err\n\t}\n", len(def.Fields)))
	for _, f := range def.Fields {
		if err := generateEncodeField(buf, "v."+capitalizeFirst(f.Name), f.Type, "\t"); err != nil {
			return err
		}
	}
	buf.WriteString("\treturn enc.EndStruct()\n}\n\n")

	buf.WriteString(fmt.Sprintf("func (v *%s) DecodeFrom(dec *runtime.Decoder) error {\n", name))
	buf.WriteString("\tif _, err := dec.BeginStruct(); err != nil {\n\t\treturn err\n\t}\n")
	for _, f := range def.Fields {
		if err := generateDecodeField(buf, "v."+capitalizeFirst(f.Name), f.Type, "\t"); err != nil {
			return err
		}
	}
	buf.WriteString("\treturn dec.EndStruct()\n}\n\n")
	return nil
}

func generateEnum(buf *bytes.Buffer, name string, def *TypeDef) error {
	buf.WriteString(fmt.Sprintf("type %s struct {\n\tTag uint64\n", name))
	for _, variant := range def.Variants {
		for _, f := range variant.Fields {
			goType, err := mapTypeToGo(f.Type)
			if err != nil {
				return err
			}
			buf.WriteString(fmt.Sprintf("\t%s_%s %s\n", capitalizeFirst(variant.Name), capitalizeFirst(f.Name), goType))
		}
	}
	buf.WriteString("}\n\n")

	buf.WriteString(fmt.Sprintf("func (v *%s) EncodeTo(enc *runtime.Encoder) error {\n", name))
	buf.WriteString(fmt.Sprintf("\tif err := enc.BeginEnum(%d); err != nil {\n\t\treturn err\n\t}\n", len(def.Variants)))
	buf.WriteString("\tif err := enc.BeginVariant(v.Tag, \"\"); err != nil {\n\t\treturn err\n\t}\n")
	buf.WriteString("\tswitch v.Tag {\n")
	for _, variant := range def.Variants {
		buf.WriteString(fmt.Sprintf("\tcase %d:\n", variant.Index))
		for _, f := range variant.Fields {
			if err := generateEncodeField(buf, fmt.Sprintf("v.%s_%s", capitalizeFirst(variant.Name), capitalizeFirst(f.Name)), f.Type, "\t\t"); err != nil {
				return err
			}
		}
	}
	buf.WriteString("\t}\n")
	buf.WriteString("\tif err := enc.EndVariant(); err != nil {\n\t\treturn err\n\t}\n")
	buf.WriteString("\treturn enc.EndEnum()\n}\n\n")

	buf.WriteString(fmt.Sprintf("func (v *%s) DecodeFrom(dec *runtime.Decoder) error {\n", name))
	buf.WriteString("\tif err := dec.BeginEnum(); err != nil {\n\t\treturn err\n\t}\n")
	buf.WriteString("\ttag, err := dec.DecodeVariantTag()\n\tif err != nil {\n\t\treturn err\n\t}\n")
	buf.WriteString(fmt.Sprintf("\tif tag >= %d {\n\t\treturn runtime.UserError(\"enum variant index out of range\")\n\t}\n", len(def.Variants)))
	buf.WriteString("\tv.Tag = tag\n")
	buf.WriteString("\tswitch tag {\n")
	for _, variant := range def.Variants {
		buf.WriteString(fmt.Sprintf("\tcase %d:\n", variant.Index))
		for _, f := range variant.Fields {
			if err := generateDecodeField(buf, fmt.Sprintf("v.%s_%s", capitalizeFirst(variant.Name), capitalizeFirst(f.Name)), f.Type, "\t\t"); err != nil {
				return err
			}
		}
	}
	buf.WriteString("\t}\n")
	buf.WriteString("\tif err := dec.EndVariant(); err != nil {\n\t\treturn err\n\t}\n")
	buf.WriteString("\treturn dec.EndEnum()\n}\n\n")
	return nil
}

func generateEncodeField(buf *bytes.Buffer, expr, typ, indent string) error {
	switch {
	case strings.HasPrefix(typ, "[]"):
		elem := typ[2:]
		buf.WriteString(fmt.Sprintf("%sif err := enc.BeginSeq(len(%s)); err != nil {\n%s\treturn err\n%s}\n", indent, expr, indent, indent))
		buf.WriteString(fmt.Sprintf("%sfor _, item := range %s {\n", indent, expr))
		if err := generateEncodeField(buf, "item", elem, indent+"\t"); err != nil {
			return err
		}
		buf.WriteString(fmt.Sprintf("%s}\n%sif err := enc.EndSeq(); err != nil {\n%s\treturn err\n%s}\n", indent, indent, indent, indent))
		return nil
	case strings.HasPrefix(typ, "map["):
		end := strings.Index(typ, "]")
		if end < 0 {
			return fmt.Errorf("malformed map type %q", typ)
		}
		keyType, valType := typ[4:end], typ[end+1:]
		buf.WriteString(fmt.Sprintf("%sif err := enc.BeginMap(len(%s)); err != nil {\n%s\treturn err\n%s}\n", indent, expr, indent, indent))
		buf.WriteString(fmt.Sprintf("%sfor key, val := range %s {\n", indent, expr))
		if err := generateEncodeField(buf, "key", keyType, indent+"\t"); err != nil {
			return err
		}
		if err := generateEncodeField(buf, "val", valType, indent+"\t"); err != nil {
			return err
		}
		buf.WriteString(fmt.Sprintf("%s}\n%sif err := enc.EndMap(); err != nil {\n%s\treturn err\n%s}\n", indent, indent, indent, indent))
		return nil
	case strings.HasPrefix(typ, "*"):
		elem := typ[1:]
		buf.WriteString(fmt.Sprintf("%sif err := enc.EncodeOption(%s != nil); err != nil {\n%s\treturn err\n%s}\n", indent, expr, indent, indent))
		buf.WriteString(fmt.Sprintf("%sif %s != nil {\n", indent, expr))
		if err := generateEncodeField(buf, "(*"+expr+")", elem, indent+"\t"); err != nil {
			return err
		}
		buf.WriteString(fmt.Sprintf("%s}\n", indent))
		return nil
	}

	call, err := encodeCallFor(typ)
	if err != nil {
		// Nested named schema type: delegate to its own EncodeTo.
		buf.WriteString(fmt.Sprintf("%sif err := (%s).EncodeTo(enc); err != nil {\n%s\treturn err\n%s}\n", indent, addrOf(expr), indent, indent))
		return nil
	}
	buf.WriteString(fmt.Sprintf("%sif err := enc.%s(%s); err != nil {\n%s\treturn err\n%s}\n", indent, call, expr, indent, indent))
	return nil
}

func generateDecodeField(buf *bytes.Buffer, expr, typ, indent string) error {
	switch {
	case strings.HasPrefix(typ, "[]"):
		elem := typ[2:]
		goElem, err := mapTypeToGo(elem)
		if err != nil {
			return err
		}
		buf.WriteString(fmt.Sprintf("%s{\n", indent))
		buf.WriteString(fmt.Sprintf("%sseqLen, err := dec.BeginSeq()\n%sif err != nil {\n%s\treturn err\n%s}\n", indent, indent, indent, indent))
		buf.WriteString(fmt.Sprintf("%s%s = make([]%s, 0, runtime.PlausibleCap(seqLen))\n", indent, expr, goElem))
		buf.WriteString(fmt.Sprintf("%sfor i := uint64(0); i < seqLen; i++ {\n", indent))
		buf.WriteString(fmt.Sprintf("%s\tvar item %s\n", indent, goElem))
		if err := generateDecodeField(buf, "item", elem, indent+"\t"); err != nil {
			return err
		}
		buf.WriteString(fmt.Sprintf("%s\t%s = append(%s, item)\n%s}\n", indent, expr, expr, indent))
		buf.WriteString(fmt.Sprintf("%sif err := dec.EndSeq(); err != nil {\n%s\treturn err\n%s}\n", indent, indent, indent))
		buf.WriteString(fmt.Sprintf("%s}\n", indent))
		return nil
	case strings.HasPrefix(typ, "map["):
		end := strings.Index(typ, "]")
		if end < 0 {
			return fmt.Errorf("malformed map type %q", typ)
		}
		keyType, valType := typ[4:end], typ[end+1:]
		goKey, err := mapTypeToGo(keyType)
		if err != nil {
			return err
		}
		goVal, err := mapTypeToGo(valType)
		if err != nil {
			return err
		}
		buf.WriteString(fmt.Sprintf("%s{\n", indent))
		buf.WriteString(fmt.Sprintf("%spairs, err := dec.BeginMap()\n%sif err != nil {\n%s\treturn err\n%s}\n", indent, indent, indent, indent))
		buf.WriteString(fmt.Sprintf("%s%s = make(map[%s]%s, runtime.PlausibleCap(pairs))\n", indent, expr, goKey, goVal))
		buf.WriteString(fmt.Sprintf("%sfor i := uint64(0); i < pairs; i++ {\n", indent))
		buf.WriteString(fmt.Sprintf("%s\tvar key %s\n\tvar val %s\n", indent, goKey, goVal))
		if err := generateDecodeField(buf, "key", keyType, indent+"\t"); err != nil {
			return err
		}
		if err := generateDecodeField(buf, "val", valType, indent+"\t"); err != nil {
			return err
		}
		buf.WriteString(fmt.Sprintf("%s\t%s[key] = val\n%s}\n", indent, expr, indent))
		buf.WriteString(fmt.Sprintf("%sif err := dec.EndMap(); err != nil {\n%s\treturn err\n%s}\n", indent, indent, indent))
		buf.WriteString(fmt.Sprintf("%s}\n", indent))
		return nil
	case strings.HasPrefix(typ, "*"):
		elem := typ[1:]
		goElem, err := mapTypeToGo(elem)
		if err != nil {
			return err
		}
		buf.WriteString(fmt.Sprintf("%s{\n", indent))
		buf.WriteString(fmt.Sprintf("%spresent, err := dec.DecodeOption()\n%sif err != nil {\n%s\treturn err\n%s}\n", indent, indent, indent, indent))
		buf.WriteString(fmt.Sprintf("%sif present {\n", indent))
		buf.WriteString(fmt.Sprintf("%s\t%s = new(%s)\n", indent, expr, goElem))
		if err := generateDecodeField(buf, "(*"+expr+")", elem, indent+"\t"); err != nil {
			return err
		}
		buf.WriteString(fmt.Sprintf("%s} else {\n%s\t%s = nil\n%s}\n", indent, indent, expr, indent))
		buf.WriteString(fmt.Sprintf("%s}\n", indent))
		return nil
	}

	call, err := decodeCallFor(typ)
	if err != nil {
		buf.WriteString(fmt.Sprintf("%sif err := (%s).DecodeFrom(dec); err != nil {\n%s\treturn err\n%s}\n", indent, addrOf(expr), indent, indent))
		return nil
	}
	buf.WriteString(fmt.Sprintf("%s{\n%s\tdecoded, err := dec.%s()\n%s\tif err != nil {\n%s\t\treturn err\n%s\t}\n%s\t%s = decoded\n%s}\n",
		indent, indent, call, indent, indent, indent, indent, expr, indent))
	return nil
}

// addrOf wraps expr so a value-typed field ("v.Foo") or an already
// dereferenced/indexed expression ("item", "(*v.Foo)") both produce a
// syntactically valid pointer expression to call a pointer-receiver
// EncodeTo/DecodeFrom method on.
func addrOf(expr string) string {
	if strings.HasPrefix(expr, "(*") || strings.HasPrefix(expr, "&") {
		return expr
	}
	if expr == "item" || expr == "key" || expr == "val" {
		return "&" + expr
	}
	return "&" + expr
}

var primitiveEncode = map[string]string{
	"u8": "EncodeU8", "u16": "EncodeU16", "u32": "EncodeU32", "u64": "EncodeU64",
	"i8": "EncodeI8", "i16": "EncodeI16", "i32": "EncodeI32", "i64": "EncodeI64",
	"f32": "EncodeF32", "f64": "EncodeF64",
	"bool": "EncodeBool", "char": "EncodeChar",
	"string": "EncodeString", "bytes": "EncodeBytes",
}

var primitiveDecode = map[string]string{
	"u8": "DecodeU8", "u16": "DecodeU16", "u32": "DecodeU32", "u64": "DecodeU64",
	"i8": "DecodeI8", "i16": "DecodeI16", "i32": "DecodeI32", "i64": "DecodeI64",
	"f32": "DecodeF32", "f64": "DecodeF64",
	"bool": "DecodeBool", "char": "DecodeChar",
	"string": "DecodeString", "bytes": "DecodeBytes",
}

var primitiveGoType = map[string]string{
	"u8": "uint8", "u16": "uint16", "u32": "uint32", "u64": "uint64",
	"i8": "int8", "i16": "int16", "i32": "int32", "i64": "int64",
	"f32": "float32", "f64": "float64",
	"bool": "bool", "char": "rune",
	"string": "string", "bytes": "[]byte",
}

func encodeCallFor(typ string) (string, error) {
	if call, ok := primitiveEncode[typ]; ok {
		return call, nil
	}
	return "", fmt.Errorf("not a primitive type: %s", typ)
}

func decodeCallFor(typ string) (string, error) {
	if call, ok := primitiveDecode[typ]; ok {
		return call, nil
	}
	return "", fmt.Errorf("not a primitive type: %s", typ)
}

// mapTypeToGo resolves a schema type string to the Go type it denotes.
// Named (non-primitive) types pass through unchanged on the assumption
// that the schema defines them elsewhere in the same package.
func mapTypeToGo(typ string) (string, error) {
	switch {
	case strings.HasPrefix(typ, "[]"):
		elem, err := mapTypeToGo(typ[2:])
		if err != nil {
			return "", err
		}
		return "[]" + elem, nil
	case strings.HasPrefix(typ, "map["):
		end := strings.Index(typ, "]")
		if end < 0 {
			return "", fmt.Errorf("malformed map type %q", typ)
		}
		key, err := mapTypeToGo(typ[4:end])
		if err != nil {
			return "", err
		}
		val, err := mapTypeToGo(typ[end+1:])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("map[%s]%s", key, val), nil
	case strings.HasPrefix(typ, "*"):
		elem, err := mapTypeToGo(typ[1:])
		if err != nil {
			return "", err
		}
		return "*" + elem, nil
	}
	if goType, ok := primitiveGoType[typ]; ok {
		return goType, nil
	}
	return typ, nil
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
