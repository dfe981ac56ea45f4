package pathinfo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/gridmeta/internal/testutil"
)

func TestResolveRoot(t *testing.T) {
	r := NewResolver(testutil.SalesRegistry(t))

	t.Run("entity set", func(t *testing.T) {
		info, err := r.ResolveRoot(RootContext{ContextPath: "/Orders"})
		require.NoError(t, err)
		assert.Equal(t, "Sales.Order", info.TargetEntityType)
		assert.Equal(t, "/Orders", info.StartEntitySet)
		assert.Empty(t, info.NavigationHops)
	})

	t.Run("sub-object table", func(t *testing.T) {
		info, err := r.ResolveRoot(RootContext{ContextPath: "/Orders/Items"})
		require.NoError(t, err)
		assert.Equal(t, "Sales.OrderItem", info.TargetEntityType)
		require.Len(t, info.NavigationHops, 1)
		assert.True(t, info.NavigationHops[0].IsCollection)
	})

	t.Run("unknown entity set", func(t *testing.T) {
		_, err := r.ResolveRoot(RootContext{ContextPath: "/Invoices"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrPathResolution))
	})

	t.Run("empty context", func(t *testing.T) {
		_, err := r.ResolveRoot(RootContext{})
		assert.True(t, errors.Is(err, ErrPathResolution))
	})
}

func TestResolve(t *testing.T) {
	r := NewResolver(testutil.SalesRegistry(t))
	root := RootContext{ContextPath: "/Orders"}

	t.Run("local property", func(t *testing.T) {
		info, err := r.Resolve("OrderNo", root)
		require.NoError(t, err)
		assert.False(t, info.IsRelative())
		require.NotNil(t, info.TargetProperty)
		assert.Equal(t, "OrderNo", info.TargetProperty.Name)
		assert.Equal(t, "Sales.Order", info.TargetEntityType)
		assert.Equal(t, "OrderNo", info.PropertyPath)
	})

	t.Run("to-one navigation", func(t *testing.T) {
		info, err := r.Resolve("Customer/Name", root)
		require.NoError(t, err)
		assert.True(t, info.IsRelative())
		require.Len(t, info.NavigationHops, 1)
		assert.Equal(t, Hop{Name: "Customer", Kind: HopNavigation, TargetType: "Sales.Customer"}, info.NavigationHops[0])
		assert.Equal(t, "Sales.Customer", info.TargetEntityType)
		assert.Equal(t, "/Customers", info.TargetEntitySetPath(testutil.SalesRegistry(t)))
	})

	t.Run("multi hop", func(t *testing.T) {
		info, err := r.Resolve("Items/Product/Name", root)
		require.NoError(t, err)
		require.Len(t, info.NavigationHops, 2)
		assert.True(t, info.NavigationHops[0].IsCollection)
		assert.False(t, info.NavigationHops[1].IsCollection)
		assert.Equal(t, "Sales.Product", info.TargetEntityType)
	})

	t.Run("complex type segment", func(t *testing.T) {
		info, err := r.Resolve("Address/City", root)
		require.NoError(t, err)
		require.Len(t, info.NavigationHops, 1)
		assert.Equal(t, HopComplex, info.NavigationHops[0].Kind)
		assert.False(t, info.IsRelative())
		assert.Equal(t, "Sales.Order", info.TargetEntityType)
	})

	t.Run("complex type leaf", func(t *testing.T) {
		info, err := r.Resolve("Address", root)
		require.NoError(t, err)
		assert.True(t, info.IsComplexType())
	})

	t.Run("annotation target", func(t *testing.T) {
		info, err := r.Resolve("@UI.FieldGroup#Header", root)
		require.NoError(t, err)
		assert.Equal(t, "@UI.FieldGroup#Header", info.TargetAnnotation)
		assert.Nil(t, info.TargetProperty)
	})

	t.Run("context path hops are included", func(t *testing.T) {
		info, err := r.Resolve("Product/Name", RootContext{ContextPath: "/Orders/Items"})
		require.NoError(t, err)
		require.Len(t, info.NavigationHops, 2)
		assert.Equal(t, "Items", info.NavigationHops[0].Name)
		assert.Equal(t, "Product/Name", info.PropertyPath)
	})
}

func TestResolve_Errors(t *testing.T) {
	r := NewResolver(testutil.SalesRegistry(t))
	root := RootContext{ContextPath: "/Orders"}

	tests := []struct {
		name    string
		path    string
		segment string
	}{
		{"unknown property", "Nope", "Nope"},
		{"unknown navigation member", "Customer/Nope", "Nope"},
		{"traverse primitive", "OrderNo/Length", "Length"},
		{"annotation not last", "@UI.FieldGroup#Header/Foo", "Foo"},
		{"unknown annotation", "@UI.Chart#Sales", "@UI.Chart#Sales"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.path, root)
			require.Error(t, err)

			var resErr *PathResolutionError
			require.True(t, errors.As(err, &resErr))
			assert.Equal(t, tt.segment, resErr.Segment)
			assert.Contains(t, resErr.Error(), tt.segment)
		})
	}
}
