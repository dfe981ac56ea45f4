package metamodel

import "strings"

// Edm primitive type names used by the derivation engine.
const (
	EdmString         = "Edm.String"
	EdmBoolean        = "Edm.Boolean"
	EdmByte           = "Edm.Byte"
	EdmSByte          = "Edm.SByte"
	EdmInt16          = "Edm.Int16"
	EdmInt32          = "Edm.Int32"
	EdmInt64          = "Edm.Int64"
	EdmDecimal        = "Edm.Decimal"
	EdmDouble         = "Edm.Double"
	EdmSingle         = "Edm.Single"
	EdmDate           = "Edm.Date"
	EdmTimeOfDay      = "Edm.TimeOfDay"
	EdmDateTimeOffset = "Edm.DateTimeOffset"
	EdmGuid           = "Edm.Guid"
	EdmBinary         = "Edm.Binary"
	EdmStream         = "Edm.Stream"
)

// filterableTypes lists the Edm type families that can be used in $filter expressions.
var filterableTypes = map[string]bool{
	EdmString:         true,
	EdmBoolean:        true,
	EdmByte:           true,
	EdmSByte:          true,
	EdmInt16:          true,
	EdmInt32:          true,
	EdmInt64:          true,
	EdmDecimal:        true,
	EdmDouble:         true,
	EdmSingle:         true,
	EdmDate:           true,
	EdmTimeOfDay:      true,
	EdmDateTimeOffset: true,
	EdmGuid:           true,
}

// IsPrimitiveType reports whether typeName is an Edm primitive type.
func IsPrimitiveType(typeName string) bool {
	return strings.HasPrefix(typeName, "Edm.")
}

// IsFilterableType reports whether values of the Edm type can be filtered on.
func IsFilterableType(typeName string) bool {
	return filterableTypes[typeName]
}

// IsNumericType reports whether the Edm type is numeric.
func IsNumericType(typeName string) bool {
	switch typeName {
	case EdmByte, EdmSByte, EdmInt16, EdmInt32, EdmInt64, EdmDecimal, EdmDouble, EdmSingle:
		return true
	}
	return false
}
