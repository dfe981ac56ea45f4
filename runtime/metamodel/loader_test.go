package metamodel

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile_YAML(t *testing.T) {
	reg, err := LoadFile(filepath.Join("testdata", "sales.yaml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	names := reg.EntityTypeNames()
	if len(names) != 3 {
		t.Fatalf("EntityTypeNames count: got %d, want 3", len(names))
	}

	order, ok := reg.EntityType("Sales.Order")
	if !ok {
		t.Fatal("Sales.Order not found")
	}
	prop, ok := order.Property("OrderNo")
	if !ok {
		t.Fatal("OrderNo not found")
	}
	if prop.MaxLength == nil || *prop.MaxLength != 10 {
		t.Errorf("OrderNo max length: got %v, want 10", prop.MaxLength)
	}
}

func TestLoad_JSON(t *testing.T) {
	doc := Document{
		Version:     "1.0",
		EntityTypes: []EntityType{{Name: "A.Thing", Keys: []string{"ID"}}},
		EntitySets:  []EntitySet{{Name: "Things", EntityType: "A.Thing"}},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document: %v", err)
	}

	reg, err := Load(data, FormatJSON)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := reg.EntitySetPath("/A.Thing"); got != "/Things" {
		t.Errorf("EntitySetPath: got %q, want /Things", got)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	if _, err := Load([]byte(`{"invalid": json}`), FormatJSON); err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
}

func TestLoad_UnknownNavigationTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yml")
	content := `
entity_types:
  - name: A.Thing
    navigation_properties:
      - {name: Other, target_type: A.Missing}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("Expected error for dangling navigation target")
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"service.json", FormatJSON, false},
		{"service.yaml", FormatYAML, false},
		{"service.YML", FormatYAML, false},
		{"service.xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatForPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatForPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatForPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
