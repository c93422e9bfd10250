package path

import (
	"reflect"
	"strings"

	"github.com/invoicestudio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Schema resolves path strings against a typed root structure so that
// callers can validate a value before writing it into the document tree.
// It is the runtime counterpart of a path-to-type mapping: every editable
// path must resolve to a struct field reachable through json tags.
type Schema struct {
	root reflect.Type
}

// NewSchema builds a schema from the given root value's type.
// The root must be a struct or a pointer to one.
func NewSchema(root any) (*Schema, error) {
	t := reflect.TypeOf(root)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, shared.NewDomainError("INVALID_SCHEMA", "Schema root must be a struct")
	}
	return &Schema{root: t}, nil
}

// TypeAt resolves the Go type addressed by path, or an error when the
// path does not exist in the root structure.
func (s *Schema) TypeAt(p string) (reflect.Type, error) {
	segments, err := Parse(p)
	if err != nil {
		return nil, err
	}

	current := s.root
	for _, seg := range segments {
		current = derefType(current)

		if seg.IsIndex {
			if current.Kind() != reflect.Slice && current.Kind() != reflect.Array {
				return nil, shared.NewDomainError("UNKNOWN_PATH", "Path indexes a non-array value: "+p)
			}
			current = current.Elem()
			continue
		}

		switch current.Kind() {
		case reflect.Struct:
			field, ok := fieldByJSONName(current, seg.Key)
			if !ok {
				return nil, shared.NewDomainError("UNKNOWN_PATH", "Unknown path segment \""+seg.Key+"\" in "+p)
			}
			current = field.Type
		case reflect.Map:
			current = current.Elem()
		default:
			return nil, shared.NewDomainError("UNKNOWN_PATH", "Path descends into a scalar value: "+p)
		}
	}

	return derefType(current), nil
}

// Check validates that value is acceptable for the field addressed by path.
// Values are expected in their JSON-decoded form (string, bool, float64,
// json.Number-as-string), matching what the editing surface submits.
func (s *Schema) Check(p string, value any) error {
	target, err := s.TypeAt(p)
	if err != nil {
		return err
	}
	if value == nil {
		return shared.NewDomainError("INVALID_VALUE", "Value for "+p+" cannot be null")
	}

	if ok := valueFits(target, value); !ok {
		return shared.NewDomainError("INVALID_VALUE",
			"Value of type "+reflect.TypeOf(value).String()+" does not fit "+target.String()+" at "+p)
	}
	return nil
}

func valueFits(target reflect.Type, value any) bool {
	if target == reflect.TypeOf(decimal.Decimal{}) {
		switch v := value.(type) {
		case float64, int, int64:
			return true
		case string:
			_, err := decimal.NewFromString(v)
			return err == nil
		case decimal.Decimal:
			return true
		default:
			return false
		}
	}

	vt := reflect.TypeOf(value)
	switch target.Kind() {
	case reflect.String:
		return vt.Kind() == reflect.String
	case reflect.Bool:
		return vt.Kind() == reflect.Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		switch vt.Kind() {
		case reflect.Float32, reflect.Float64,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return true
		default:
			return false
		}
	case reflect.Struct, reflect.Map, reflect.Slice:
		// Composite targets accept composite JSON values; deep validation
		// happens when the tree is remapped onto the typed document.
		return vt.Kind() == reflect.Map || vt.Kind() == reflect.Slice
	default:
		return vt.AssignableTo(target)
	}
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func fieldByJSONName(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			embedded := derefType(field.Type)
			if embedded.Kind() == reflect.Struct {
				if f, ok := fieldByJSONName(embedded, name); ok {
					return f, true
				}
			}
			continue
		}
		tag := field.Tag.Get("json")
		tagName := strings.Split(tag, ",")[0]
		if tagName == name {
			return field, true
		}
		if tagName == "" && field.Name == name {
			return field, true
		}
	}
	return reflect.StructField{}, false
}
