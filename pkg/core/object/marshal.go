package object

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	_ = iota
	fieldPath
	fieldContent
)

// ErrInvalidRecord is returned by Unmarshal for bytes that are not a record
// produced by Marshal.
var ErrInvalidRecord = errors.New("invalid object record")

// Marshal encodes object into a deterministic binary record. Record is
// a protobuf-compatible message:
//
//	message Object {
//	  string path = 1;
//	  optional bytes content = 2;
//	}
func (o *Object) Marshal() []byte {
	size := protowire.SizeTag(fieldPath) + protowire.SizeBytes(len(o.path))
	if o.content != nil {
		size += protowire.SizeTag(fieldContent) + protowire.SizeBytes(len(o.content))
	}

	b := make([]byte, 0, size)
	b = protowire.AppendTag(b, fieldPath, protowire.BytesType)
	b = protowire.AppendString(b, o.path)
	if o.content != nil {
		b = protowire.AppendTag(b, fieldContent, protowire.BytesType)
		b = protowire.AppendBytes(b, o.content)
	}

	return b
}

// Unmarshal decodes the record produced by Marshal. Any deviation from the
// format (unknown or repeated fields, truncated data, missing path, zeroed
// bytes) results in ErrInvalidRecord.
func (o *Object) Unmarshal(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("%w: empty data", ErrInvalidRecord)
	}

	var (
		res                   Object
		seenPath, seenContent bool
	)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: parse field tag: %w", ErrInvalidRecord, protowire.ParseError(n))
		}
		if typ != protowire.BytesType {
			return fmt.Errorf("%w: field #%d has type %v instead of %v", ErrInvalidRecord, num, typ, protowire.BytesType)
		}
		b = b[n:]

		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return fmt.Errorf("%w: parse field #%d: %w", ErrInvalidRecord, num, protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case fieldPath:
			if seenPath {
				return fmt.Errorf("%w: repeated path field", ErrInvalidRecord)
			}
			seenPath = true
			res.path = string(v)
		case fieldContent:
			if seenContent {
				return fmt.Errorf("%w: repeated content field", ErrInvalidRecord)
			}
			seenContent = true
			res.content = make([]byte, len(v))
			copy(res.content, v)
		default:
			return fmt.Errorf("%w: unknown field #%d", ErrInvalidRecord, num)
		}
	}

	if res.path == "" {
		return fmt.Errorf("%w: missing path", ErrInvalidRecord)
	}

	*o = res

	return nil
}

// IsZeroed checks whether data consists of zero bytes only. Ranges freed by
// delete are zero-filled, so such data means that the record is gone rather
// than corrupted. Empty data is zeroed too.
func IsZeroed(data []byte) bool {
	for i := range data {
		if data[i] != 0 {
			return false
		}
	}
	return true
}
