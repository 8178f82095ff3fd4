package coerce

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/graphsmith/graphsmith/pkg/catalog"
	"github.com/graphsmith/graphsmith/pkg/models"
)

// enginePathPrefix is the conventional namespace tried last when a class
// reference names no catalog entry directly.
const enginePathPrefix = "/Script/Engine."

// TypedValue is the result of a successful coercion: the canonical textual
// default plus, for class references, the resolved type.
type TypedValue struct {
	Text   string
	Object *models.TypeDescriptor
}

// Coercer converts RawValues into typed port defaults. Coerce is pure; Apply
// additionally writes the result onto a live port.
type Coercer struct {
	logger  *slog.Logger
	catalog *catalog.Catalog
}

func NewCoercer(log *slog.Logger, cat *catalog.Catalog) *Coercer {
	return &Coercer{
		logger:  log,
		catalog: cat,
	}
}

// Coerce converts raw into the representation declared requires. Dispatch is
// type-directed: the declared port type picks the rule, and only wildcard
// ports fall back to dispatching on the raw value's own shape.
func (c *Coercer) Coerce(raw RawValue, declared models.PortType) (TypedValue, error) {
	switch declared.Category {
	case models.PortCategoryBool:
		return c.coerceBool(raw, declared)
	case models.PortCategoryInt:
		return c.coerceInt(raw, declared)
	case models.PortCategoryFloat:
		return c.coerceFloat(raw, declared)
	case models.PortCategoryString:
		return c.coerceString(raw, declared)
	case models.PortCategoryStruct:
		return c.coerceStruct(raw, declared)
	case models.PortCategoryClass:
		return c.coerceClass(raw, declared)
	case models.PortCategoryWildcard:
		return c.coerceWildcard(raw, declared)
	default:
		return TypedValue{}, newCoercionError(declared, raw.Kind(), ErrUnsupportedType, "")
	}
}

// Apply coerces raw and writes the result to the port. For class references
// the write goes through the port's assignment rules and is read back: a
// silently rejected assignment fails instead of leaving a stale default.
func (c *Coercer) Apply(port *models.Port, raw RawValue) error {
	value, err := c.Coerce(raw, port.Type)
	if err != nil {
		return fmt.Errorf("port %s: %w", port.Name, err)
	}

	return c.Write(port, value)
}

// Write stores an already-coerced value on a port.
func (c *Coercer) Write(port *models.Port, value TypedValue) error {
	if value.Object != nil {
		c.trySetDefaultObject(port, value.Object)

		if port.DefaultObject != value.Object {
			return fmt.Errorf("port %s: %w: %s", port.Name, ErrAssignmentRejected, value.Object.Name)
		}
	}

	port.DefaultValue = value.Text

	return nil
}

func (c *Coercer) coerceBool(raw RawValue, declared models.PortType) (TypedValue, error) {
	switch raw.Kind() {
	case KindBool:
		return TypedValue{Text: strconv.FormatBool(raw.AsBool())}, nil
	case KindString:
		if s := raw.AsString(); s == "true" || s == "false" {
			return TypedValue{Text: s}, nil
		}

		return TypedValue{}, newCoercionError(declared, raw.Kind(), ErrInvalidValue, fmt.Sprintf("%q is not a boolean literal", raw.AsString()))
	default:
		return TypedValue{}, newCoercionError(declared, raw.Kind(), ErrInvalidValue, "")
	}
}

func (c *Coercer) coerceInt(raw RawValue, declared models.PortType) (TypedValue, error) {
	number, ok := numeric(raw)
	if !ok {
		return TypedValue{}, newCoercionError(declared, raw.Kind(), ErrInvalidValue, "not numeric")
	}

	// Round to nearest, not truncate: a caller-supplied 2.7 lands on 3.
	return TypedValue{Text: strconv.FormatInt(int64(math.Round(number)), 10)}, nil
}

func (c *Coercer) coerceFloat(raw RawValue, declared models.PortType) (TypedValue, error) {
	number, ok := numeric(raw)
	if !ok {
		return TypedValue{}, newCoercionError(declared, raw.Kind(), ErrInvalidValue, "not numeric")
	}

	return TypedValue{Text: formatFloat(number)}, nil
}

func (c *Coercer) coerceString(raw RawValue, declared models.PortType) (TypedValue, error) {
	if raw.Kind() != KindString {
		return TypedValue{}, newCoercionError(declared, raw.Kind(), ErrInvalidValue, "")
	}

	return TypedValue{Text: raw.AsString()}, nil
}

func (c *Coercer) coerceStruct(raw RawValue, declared models.PortType) (TypedValue, error) {
	if declared.SubObject != models.StructVector3 {
		return TypedValue{}, newCoercionError(declared, raw.Kind(), ErrUnsupportedType, fmt.Sprintf("struct %q", declared.SubObject))
	}

	if raw.Kind() != KindSequence {
		return TypedValue{}, newCoercionError(declared, raw.Kind(), ErrInvalidValue, "vector requires a sequence")
	}

	items := raw.AsSequence()
	if len(items) != 3 {
		return TypedValue{}, newCoercionError(declared, raw.Kind(), ErrArityMismatch, fmt.Sprintf("vector requires 3 elements, got %d", len(items)))
	}

	components := make([]float64, 3)

	for i, item := range items {
		number, ok := numeric(item)
		if !ok {
			return TypedValue{}, newCoercionError(declared, raw.Kind(), ErrInvalidValue, fmt.Sprintf("element %d is not numeric", i))
		}

		components[i] = number
	}

	text := fmt.Sprintf("(X=%s,Y=%s,Z=%s)",
		formatFloat(components[0]), formatFloat(components[1]), formatFloat(components[2]))

	return TypedValue{Text: text}, nil
}

func (c *Coercer) coerceClass(raw RawValue, declared models.PortType) (TypedValue, error) {
	if raw.Kind() != KindString {
		return TypedValue{}, newCoercionError(declared, raw.Kind(), ErrInvalidValue, "class reference requires a name")
	}

	name := raw.AsString()

	class, ok := c.resolveClass(name)
	if !ok {
		return TypedValue{}, newCoercionError(declared, raw.Kind(), ErrUnresolvedReference, name)
	}

	if declared.SubObject != "" && !c.catalog.IsAssignable(class.Name, declared.SubObject) {
		return TypedValue{}, newCoercionError(declared, raw.Kind(), ErrAssignmentRejected,
			fmt.Sprintf("%s is not assignable to %s", class.Name, declared.SubObject))
	}

	return TypedValue{Text: class.Name, Object: class}, nil
}

func (c *Coercer) coerceWildcard(raw RawValue, declared models.PortType) (TypedValue, error) {
	switch raw.Kind() {
	case KindBool:
		return TypedValue{Text: strconv.FormatBool(raw.AsBool())}, nil
	case KindNumber:
		return TypedValue{Text: formatFloat(raw.AsNumber())}, nil
	case KindString:
		return TypedValue{Text: raw.AsString()}, nil
	default:
		return TypedValue{}, newCoercionError(declared, raw.Kind(), ErrUnsupportedType, "sequence on an unconstrained port")
	}
}

// resolveClass resolves a class reference name: exact catalog lookup, then
// the literal name as a symbolic path, then the engine namespace.
func (c *Coercer) resolveClass(name string) (*models.TypeDescriptor, bool) {
	if class, ok := c.catalog.LookupType(name); ok {
		return class, true
	}

	if class, ok := c.catalog.LookupTypeByPath(name); ok {
		return class, true
	}

	if class, ok := c.catalog.LookupTypeByPath(enginePathPrefix + name); ok {
		c.logger.Debug("Resolved class via engine namespace", "name", name, "path", class.Path)

		return class, true
	}

	return nil, false
}

// trySetDefaultObject writes the class onto the port only if the port's
// declared constraint admits it. The port schema rejects silently; Write
// reads the slot back to detect that.
func (c *Coercer) trySetDefaultObject(port *models.Port, class *models.TypeDescriptor) {
	if port.Type.SubObject != "" && !c.catalog.IsAssignable(class.Name, port.Type.SubObject) {
		return
	}

	port.DefaultObject = class
}

func numeric(raw RawValue) (float64, bool) {
	switch raw.Kind() {
	case KindNumber:
		return raw.AsNumber(), true
	case KindString:
		v, err := strconv.ParseFloat(raw.AsString(), 64)
		if err != nil {
			return 0, false
		}

		return v, true
	default:
		return 0, false
	}
}

// formatFloat renders a locale-independent, round-trippable decimal form.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
