package metamodel

import (
	"path/filepath"
	"testing"
)

func loadSales(t *testing.T) *Registry {
	t.Helper()
	reg, err := LoadFile(filepath.Join("testdata", "sales.yaml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	return reg
}

func TestNewRegistry_NilDocument(t *testing.T) {
	if _, err := NewRegistry(nil); err == nil {
		t.Error("Expected error for nil document")
	}
}

func TestNewRegistry_DuplicateEntityType(t *testing.T) {
	doc := &Document{EntityTypes: []EntityType{{Name: "A.Thing"}, {Name: "A.Thing"}}}
	if _, err := NewRegistry(doc); err == nil {
		t.Error("Expected error for duplicate entity type")
	}
}

func TestGetObject(t *testing.T) {
	reg := loadSales(t)

	tests := []struct {
		path  string
		kind  NodeKind
		found bool
	}{
		{"/Orders", NodeEntitySet, true},
		{"/Sales.Order", NodeEntityType, true},
		{"/Sales.Address", NodeComplexType, true},
		{"/Orders/OrderNo", NodeProperty, true},
		{"/Sales.Order/Customer", NodeNavigationProperty, true},
		{"/Sales.Order/@UI.FieldGroup#Header", NodeAnnotation, true},
		{"/Sales.Order/@UI.FieldGroup#Missing", 0, false},
		{"/Sales.Address/City", NodeProperty, true},
		{"/Sales.Order/Nope", 0, false},
		{"/Nope", 0, false},
		{"/Orders/Customer/Name", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			node, ok := reg.GetObject(tt.path)
			if ok != tt.found {
				t.Fatalf("GetObject(%q) found = %v, want %v", tt.path, ok, tt.found)
			}
			if ok && node.Kind != tt.kind {
				t.Errorf("GetObject(%q) kind = %s, want %s", tt.path, node.Kind, tt.kind)
			}
		})
	}
}

func TestGetObject_MemberOwner(t *testing.T) {
	reg := loadSales(t)

	node, ok := reg.GetObject("/Orders/Items")
	if !ok {
		t.Fatal("Expected Items navigation")
	}
	if node.Owner != "Sales.Order" {
		t.Errorf("Owner: got %s, want Sales.Order", node.Owner)
	}
	if !node.Navigation.IsCollection {
		t.Error("Items should be to-many")
	}
}

func TestEntitySetPath(t *testing.T) {
	reg := loadSales(t)

	if got := reg.EntitySetPath("/Sales.Customer"); got != "/Customers" {
		t.Errorf("EntitySetPath(Sales.Customer) = %q, want /Customers", got)
	}
	if got := reg.EntitySetPath("/Orders"); got != "/Orders" {
		t.Errorf("EntitySetPath(Orders) = %q, want /Orders", got)
	}
	if got := reg.EntitySetPath("/Sales.Address"); got != "" {
		t.Errorf("EntitySetPath(Sales.Address) = %q, want empty", got)
	}
}

func TestRestrictions(t *testing.T) {
	reg := loadSales(t)

	filter := reg.FilterRestrictionsByPath("/Orders")
	if filter.IsFilterable("Address/City") {
		t.Error("Address/City should not be filterable")
	}
	if !filter.IsFilterable("OrderNo") {
		t.Error("OrderNo should be filterable")
	}

	sort := reg.SortRestrictionsByPath("/Orders")
	if sort.IsSortable("OrderNo") {
		t.Error("OrderNo should not be sortable")
	}

	unknown := reg.FilterRestrictionsByPath("/Unknown")
	if !unknown.IsFilterable("anything") {
		t.Error("Unknown sets should be unrestricted")
	}
}

func TestIsCaseSensitive(t *testing.T) {
	reg := loadSales(t)

	if reg.IsCaseSensitive("/Customers") {
		t.Error("Customers filters are case-insensitive")
	}
	if !reg.IsCaseSensitive("/Orders") {
		t.Error("Orders filters are case-sensitive")
	}
}

func TestEntityType_ReturnsCopy(t *testing.T) {
	reg := loadSales(t)

	et, _ := reg.EntityType("Sales.Order")
	et.Name = "Mutated"

	again, _ := reg.EntityType("Sales.Order")
	if again.Name != "Sales.Order" {
		t.Errorf("Registry was mutated through returned copy: %s", again.Name)
	}
}

func TestProperty_IsComplex(t *testing.T) {
	reg := loadSales(t)
	order, _ := reg.EntityType("Sales.Order")

	addr, _ := order.Property("Address")
	if !addr.IsComplex() {
		t.Error("Address should be complex")
	}
	id, _ := order.Property("ID")
	if id.IsComplex() {
		t.Error("ID should not be complex")
	}
}
