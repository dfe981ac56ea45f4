// Package testutil provides shared metadata fixtures for tests across the
// codebase, in the spirit of net/http/httptest.
package testutil

import (
	"testing"

	"github.com/conduit-lang/gridmeta/runtime/metamodel"
)

func intPtr(v int) *int { return &v }

// SalesDocument returns a small sales-order service used by the derivation tests.
//
//	Orders (Sales.Order)
//	├── Customer  -> Sales.Customer   (to-one)
//	├── Supplier  -> Sales.Supplier   (to-one)
//	├── Items     -> Sales.OrderItem  (to-many)
//	│   └── Product -> Sales.Product  (to-one)
//	└── Address   :  Sales.Address    (complex)
func SalesDocument() *metamodel.Document {
	return &metamodel.Document{
		Version:   "1.0",
		Namespace: "Sales",
		EntityTypes: []metamodel.EntityType{
			{
				Name: "Sales.Order",
				Keys: []string{"ID"},
				Properties: []metamodel.Property{
					{Name: "ID", Type: metamodel.EdmGuid, Label: "Order ID"},
					{Name: "OrderNo", Type: metamodel.EdmString, MaxLength: intPtr(10), Label: "Order Number"},
					{Name: "Description", Type: metamodel.EdmString, MaxLength: intPtr(80), Label: "Description"},
					{Name: "GrossAmount", Type: metamodel.EdmDecimal, Precision: intPtr(15), Scale: intPtr(2), ISOCurrency: "Currency", Aggregatable: true},
					{Name: "Currency", Type: metamodel.EdmString, MaxLength: intPtr(3)},
					{Name: "Weight", Type: metamodel.EdmDecimal, Precision: intPtr(13), Scale: intPtr(3), Unit: "WeightUnit"},
					{Name: "WeightUnit", Type: metamodel.EdmString, MaxLength: intPtr(3)},
					{Name: "Status", Type: metamodel.EdmString, MaxLength: intPtr(1), Text: "StatusText", TextArrangement: "TextFirst", Groupable: true},
					{Name: "StatusText", Type: metamodel.EdmString, MaxLength: intPtr(40)},
					{Name: "CreatedAt", Type: metamodel.EdmDateTimeOffset, Timezone: "TimeZone"},
					{Name: "TimeZone", Type: metamodel.EdmString, MaxLength: intPtr(40)},
					{Name: "Notes", Type: metamodel.EdmStream},
					{Name: "Address", Type: "Sales.Address"},
					{Name: "Secret", Type: metamodel.EdmString, Hidden: true},
				},
				NavigationProperties: []metamodel.NavigationProperty{
					{Name: "Customer", TargetType: "Sales.Customer", Partner: "Orders"},
					{Name: "Supplier", TargetType: "Sales.Supplier"},
					{Name: "Items", TargetType: "Sales.OrderItem", IsCollection: true, Partner: "Order"},
				},
				Annotations: []string{"@UI.FieldGroup#Header", "@UI.DataPoint#Rating"},
			},
			{
				Name: "Sales.Customer",
				Keys: []string{"ID"},
				Properties: []metamodel.Property{
					{Name: "ID", Type: metamodel.EdmGuid},
					{Name: "Name", Type: metamodel.EdmString, MaxLength: intPtr(60), Label: "Name"},
					{Name: "Country", Type: metamodel.EdmString, MaxLength: intPtr(3)},
				},
				NavigationProperties: []metamodel.NavigationProperty{
					{Name: "Orders", TargetType: "Sales.Order", IsCollection: true, Partner: "Customer"},
				},
			},
			{
				Name: "Sales.Supplier",
				Keys: []string{"ID"},
				Properties: []metamodel.Property{
					{Name: "ID", Type: metamodel.EdmGuid},
					{Name: "Name", Type: metamodel.EdmString, MaxLength: intPtr(60), Label: "Name"},
				},
			},
			{
				Name: "Sales.OrderItem",
				Keys: []string{"ID"},
				Properties: []metamodel.Property{
					{Name: "ID", Type: metamodel.EdmGuid},
					{Name: "Description", Type: metamodel.EdmString, MaxLength: intPtr(40)},
					{Name: "Quantity", Type: metamodel.EdmInt32},
				},
				NavigationProperties: []metamodel.NavigationProperty{
					{Name: "Product", TargetType: "Sales.Product"},
					{Name: "Order", TargetType: "Sales.Order", Partner: "Items"},
				},
			},
			{
				Name: "Sales.Product",
				Keys: []string{"ID"},
				Properties: []metamodel.Property{
					{Name: "ID", Type: metamodel.EdmGuid},
					{Name: "Name", Type: metamodel.EdmString, MaxLength: intPtr(60)},
				},
			},
		},
		ComplexTypes: []metamodel.ComplexType{
			{
				Name: "Sales.Address",
				Properties: []metamodel.Property{
					{Name: "Street", Type: metamodel.EdmString, MaxLength: intPtr(60)},
					{Name: "City", Type: metamodel.EdmString, MaxLength: intPtr(40)},
				},
			},
		},
		EntitySets: []metamodel.EntitySet{
			{
				Name:       "Orders",
				EntityType: "Sales.Order",
				FilterRestrictions: metamodel.FilterRestrictions{
					NonFilterableProperties: []string{"Description"},
				},
				SortRestrictions: metamodel.SortRestrictions{
					NonSortableProperties: []string{"Notes"},
				},
			},
			{Name: "Customers", EntityType: "Sales.Customer", CaseInsensitive: true},
			{Name: "Suppliers", EntityType: "Sales.Supplier"},
			{Name: "OrderItems", EntityType: "Sales.OrderItem"},
			{Name: "Products", EntityType: "Sales.Product"},
		},
	}
}

// SalesRegistry returns an indexed registry over SalesDocument.
func SalesRegistry(t testing.TB) *metamodel.Registry {
	t.Helper()
	reg, err := metamodel.NewRegistry(SalesDocument())
	if err != nil {
		t.Fatalf("failed to build sales registry: %v", err)
	}
	return reg
}
