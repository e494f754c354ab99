package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegister(t *testing.T) {
	detector := func(headers []string) bool { return true }

	tests := []struct {
		name    string
		adapter Adapter
		wantErr bool
	}{
		{
			name: "valid adapter",
			adapter: Adapter{
				Platform: "Test",
				Detector: detector,
				Mapping:  []ColumnMapping{{Source: "Order", Canonical: FieldOrderID}},
			},
		},
		{
			name: "missing platform name",
			adapter: Adapter{
				Detector: detector,
				Mapping:  []ColumnMapping{{Source: "Order", Canonical: FieldOrderID}},
			},
			wantErr: true,
		},
		{
			name: "missing detector",
			adapter: Adapter{
				Platform: "Test",
				Mapping:  []ColumnMapping{{Source: "Order", Canonical: FieldOrderID}},
			},
			wantErr: true,
		},
		{
			name: "empty mapping",
			adapter: Adapter{
				Platform: "Test",
				Detector: detector,
				Mapping:  []ColumnMapping{},
			},
			wantErr: true,
		},
		{
			name: "unknown canonical field",
			adapter: Adapter{
				Platform: "Test",
				Detector: detector,
				Mapping:  []ColumnMapping{{Source: "Order", Canonical: "notAField"}},
			},
			wantErr: true,
		},
		{
			name: "mapping with empty source",
			adapter: Adapter{
				Platform: "Test",
				Detector: detector,
				Mapping:  []ColumnMapping{{Source: "", Canonical: FieldOrderID}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			err := r.Register(tt.adapter)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, r.Platforms())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, []string{"Test"}, r.Platforms())
			}
		})
	}
}

func TestRegistryDetectOrder(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Adapter{
		Platform: "First",
		Detector: func(headers []string) bool { return HasAll(headers, "A") },
		Mapping:  []ColumnMapping{{Source: "A", Canonical: FieldOrderID}},
	})
	r.MustRegister(Adapter{
		Platform: "Second",
		Detector: func(headers []string) bool { return HasAll(headers, "A", "B") },
		Mapping:  []ColumnMapping{{Source: "B", Canonical: FieldOrderID}},
	})

	// Both detectors match; registration order decides.
	a, ok := r.Detect([]string{"A", "B"})
	require.True(t, ok)
	assert.Equal(t, "First", a.Platform)

	_, ok = r.Detect([]string{"C"})
	assert.False(t, ok)
}

func TestMustRegisterPanicsOnInvalid(t *testing.T) {
	r := NewRegistry()
	assert.Panics(t, func() {
		r.MustRegister(Adapter{Platform: "Broken"})
	})
}

func TestHasAll(t *testing.T) {
	headers := []string{"Order ID", "Total", "Email"}

	assert.True(t, HasAll(headers, "Order ID", "Total"))
	assert.True(t, HasAll(headers))
	assert.False(t, HasAll(headers, "Order ID", "Missing"))
	assert.False(t, HasAll(nil, "Order ID"))
}

func TestExpandsLineItems(t *testing.T) {
	withProducts := Adapter{
		Platform: "Test",
		Detector: func([]string) bool { return true },
		Mapping: []ColumnMapping{
			{Source: "Produit(s)", Canonical: FieldProducts},
		},
	}
	withoutProducts := Adapter{
		Platform: "Test",
		Detector: func([]string) bool { return true },
		Mapping: []ColumnMapping{
			{Source: "Lineitem name", Canonical: FieldProductName},
		},
	}

	assert.True(t, withProducts.ExpandsLineItems())
	assert.False(t, withoutProducts.ExpandsLineItems())
}
