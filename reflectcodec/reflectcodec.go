// Package reflectcodec walks arbitrary Go values with the reflect
// package and drives the mincode event protocol against them, the way
// encoding/json's reflect-based encoder drives its own event stream. It
// is a convenience binding, not part of the core wire-format contract:
// anything it can do, a hand-written or codegen-generated
// Encodable/Decodable pair can do without the reflection overhead.
//
// Struct fields are walked in declaration order. A `mincode:"name"` tag
// overrides the field's wire name for documentation purposes only (the
// wire format carries no field names); `mincode:"-"` skips a field
// entirely.
//
// Go's rune is an unexported alias of int32, so reflection cannot tell a
// char field from a plain 32-bit integer field; this walker always
// treats an int32-kinded field as i32. Encode char values through a
// hand-written or codegen-generated Encodable instead.
package reflectcodec

import (
	"fmt"
	"reflect"

	"github.com/Boscop/mincode/runtime"
)

// Encode walks v (a struct, pointer, slice, map, or primitive) and issues
// its events against enc. A pointer is encoded as an option at every
// level, the top level included: Encode(enc, &x) writes a present tag
// before x's own events.
func Encode(enc *runtime.Encoder, v any) error {
	return encodeValue(enc, reflect.ValueOf(v))
}

// Decode walks the shape of v (which must be a non-nil pointer) and
// reconstructs its pointee from dec; the top-level pointer itself reads
// no option tag.
func Decode(dec *runtime.Decoder, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("reflectcodec: Decode requires a non-nil pointer, got %T", v)
	}
	return decodeValue(dec, rv.Elem())
}

func encodeValue(enc *runtime.Encoder, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Pointer:
		if err := enc.EncodeOption(!rv.IsNil()); err != nil {
			return err
		}
		if rv.IsNil() {
			return nil
		}
		return encodeValue(enc, rv.Elem())
	case reflect.Bool:
		return enc.EncodeBool(rv.Bool())
	case reflect.Int8:
		return enc.EncodeI8(int8(rv.Int()))
	case reflect.Int16:
		return enc.EncodeI16(int16(rv.Int()))
	case reflect.Int32:
		return enc.EncodeI32(int32(rv.Int()))
	case reflect.Int64, reflect.Int:
		return enc.EncodeI64(rv.Int())
	case reflect.Uint8:
		return enc.EncodeU8(uint8(rv.Uint()))
	case reflect.Uint16:
		return enc.EncodeU16(uint16(rv.Uint()))
	case reflect.Uint32:
		return enc.EncodeU32(uint32(rv.Uint()))
	case reflect.Uint64, reflect.Uint:
		return enc.EncodeU64(rv.Uint())
	case reflect.Float32:
		return enc.EncodeF32(float32(rv.Float()))
	case reflect.Float64:
		return enc.EncodeF64(rv.Float())
	case reflect.String:
		return enc.EncodeString(rv.String())
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return enc.EncodeBytes(rv.Bytes())
		}
		if err := enc.BeginSeq(rv.Len()); err != nil {
			return err
		}
		for i := 0; i < rv.Len(); i++ {
			if err := encodeValue(enc, rv.Index(i)); err != nil {
				return err
			}
		}
		return enc.EndSeq()
	case reflect.Map:
		keys := rv.MapKeys()
		if err := enc.BeginMap(len(keys)); err != nil {
			return err
		}
		for _, k := range keys {
			if err := encodeValue(enc, k); err != nil {
				return err
			}
			if err := encodeValue(enc, rv.MapIndex(k)); err != nil {
				return err
			}
		}
		return enc.EndMap()
	case reflect.Struct:
		return encodeStruct(enc, rv)
	default:
		return fmt.Errorf("reflectcodec: unsupported kind %s", rv.Kind())
	}
}

func encodeStruct(enc *runtime.Encoder, rv reflect.Value) error {
	fields := exportedFields(rv.Type())
	if err := enc.BeginStruct(len(fields)); err != nil {
		return err
	}
	for _, f := range fields {
		if err := enc.BeginField(f.name); err != nil {
			return err
		}
		if err := encodeValue(enc, rv.FieldByIndex(f.index)); err != nil {
			return err
		}
		if err := enc.EndField(); err != nil {
			return err
		}
	}
	return enc.EndStruct()
}

func decodeValue(dec *runtime.Decoder, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Pointer:
		present, err := dec.DecodeOption()
		if err != nil {
			return err
		}
		if !present {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		rv.Set(reflect.New(rv.Type().Elem()))
		return decodeValue(dec, rv.Elem())
	case reflect.Bool:
		v, err := dec.DecodeBool()
		if err != nil {
			return err
		}
		rv.SetBool(v)
		return nil
	case reflect.Int8:
		v, err := dec.DecodeI8()
		if err != nil {
			return err
		}
		rv.SetInt(int64(v))
		return nil
	case reflect.Int16:
		v, err := dec.DecodeI16()
		if err != nil {
			return err
		}
		rv.SetInt(int64(v))
		return nil
	case reflect.Int32:
		v, err := dec.DecodeI32()
		if err != nil {
			return err
		}
		rv.SetInt(int64(v))
		return nil
	case reflect.Int64, reflect.Int:
		v, err := dec.DecodeI64()
		if err != nil {
			return err
		}
		rv.SetInt(v)
		return nil
	case reflect.Uint8:
		v, err := dec.DecodeU8()
		if err != nil {
			return err
		}
		rv.SetUint(uint64(v))
		return nil
	case reflect.Uint16:
		v, err := dec.DecodeU16()
		if err != nil {
			return err
		}
		rv.SetUint(uint64(v))
		return nil
	case reflect.Uint32:
		v, err := dec.DecodeU32()
		if err != nil {
			return err
		}
		rv.SetUint(uint64(v))
		return nil
	case reflect.Uint64, reflect.Uint:
		v, err := dec.DecodeU64()
		if err != nil {
			return err
		}
		rv.SetUint(v)
		return nil
	case reflect.Float32:
		v, err := dec.DecodeF32()
		if err != nil {
			return err
		}
		rv.SetFloat(float64(v))
		return nil
	case reflect.Float64:
		v, err := dec.DecodeF64()
		if err != nil {
			return err
		}
		rv.SetFloat(v)
		return nil
	case reflect.String:
		v, err := dec.DecodeString()
		if err != nil {
			return err
		}
		rv.SetString(v)
		return nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b, err := dec.DecodeBytes()
			if err != nil {
				return err
			}
			rv.SetBytes(b)
			return nil
		}
		n, err := dec.BeginSeq()
		if err != nil {
			return err
		}
		out := reflect.MakeSlice(rv.Type(), 0, runtime.PlausibleCap(n))
		for i := uint64(0); i < n; i++ {
			elem := reflect.New(rv.Type().Elem()).Elem()
			if err := decodeValue(dec, elem); err != nil {
				return err
			}
			out = reflect.Append(out, elem)
		}
		if err := dec.EndSeq(); err != nil {
			return err
		}
		rv.Set(out)
		return nil
	case reflect.Map:
		n, err := dec.BeginMap()
		if err != nil {
			return err
		}
		out := reflect.MakeMapWithSize(rv.Type(), runtime.PlausibleCap(n))
		for i := uint64(0); i < n; i++ {
			key := reflect.New(rv.Type().Key()).Elem()
			if err := decodeValue(dec, key); err != nil {
				return err
			}
			val := reflect.New(rv.Type().Elem()).Elem()
			if err := decodeValue(dec, val); err != nil {
				return err
			}
			out.SetMapIndex(key, val)
		}
		if err := dec.EndMap(); err != nil {
			return err
		}
		rv.Set(out)
		return nil
	case reflect.Struct:
		return decodeStruct(dec, rv)
	default:
		return fmt.Errorf("reflectcodec: unsupported kind %s", rv.Kind())
	}
}

func decodeStruct(dec *runtime.Decoder, rv reflect.Value) error {
	fields := exportedFields(rv.Type())
	if _, err := dec.BeginStruct(); err != nil {
		return err
	}
	for _, f := range fields {
		if err := dec.BeginField(); err != nil {
			return err
		}
		if err := decodeValue(dec, rv.FieldByIndex(f.index)); err != nil {
			return err
		}
		if err := dec.EndField(); err != nil {
			return err
		}
	}
	return dec.EndStruct()
}

type structField struct {
	name  string
	index []int
}

func exportedFields(t reflect.Type) []structField {
	var out []structField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, ok := f.Tag.Lookup("mincode")
		if ok && tag == "-" {
			continue
		}
		name := f.Name
		if ok && tag != "" {
			name = tag
		}
		out = append(out, structField{name: name, index: f.Index})
	}
	return out
}
