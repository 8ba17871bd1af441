package llm

import (
	"reflect"
	"testing"
)

func TestLineParserParse(t *testing.T) {
	tests := []struct {
		name             string
		raw              string
		wantManufacturer string
		wantProducts     []string
	}{
		{
			name:             "manufacturer and two products",
			raw:              "Manufacturer: Acme Corp\nProduct: Widget\nProduct: Gadget",
			wantManufacturer: "Acme Corp",
			wantProducts:     []string{"Widget", "Gadget"},
		},
		{
			name:             "no product line backfills sentinel",
			raw:              "Manufacturer: Acme Corp",
			wantManufacturer: "Acme Corp",
			wantProducts:     []string{"Unknown"},
		},
		{
			name:             "literal unknown product filtered then backfilled",
			raw:              "Product: Unknown",
			wantManufacturer: "Unknown",
			wantProducts:     []string{"Unknown"},
		},
		{
			name:             "no manufacturer line defaults",
			raw:              "Product: Series 90 Actuator",
			wantManufacturer: "Unknown",
			wantProducts:     []string{"Series 90 Actuator"},
		},
		{
			name:             "last manufacturer wins",
			raw:              "Manufacturer: First Co\nManufacturer: Second Co\nProduct: Valve",
			wantManufacturer: "Second Co",
			wantProducts:     []string{"Valve"},
		},
		{
			name:             "blank lines and chatter ignored",
			raw:              "Sure, here is the information:\n\nManufacturer: Bray\n\nProduct: Series 70\nHope this helps!",
			wantManufacturer: "Bray",
			wantProducts:     []string{"Series 70"},
		},
		{
			name:             "extra whitespace tolerated",
			raw:              "  Manufacturer:   Victaulic  \n  Product:  FireLock  ",
			wantManufacturer: "Victaulic",
			wantProducts:     []string{"FireLock"},
		},
		{
			name:             "ampersand products stay on one line",
			raw:              "Manufacturer: Acme\nProduct: Model A & Model B",
			wantManufacturer: "Acme",
			wantProducts:     []string{"Model A & Model B"},
		},
		{
			name:             "duplicates within a page are kept",
			raw:              "Manufacturer: Acme\nProduct: Widget\nProduct: Widget",
			wantManufacturer: "Acme",
			wantProducts:     []string{"Widget", "Widget"},
		},
		{
			name:             "empty response",
			raw:              "",
			wantManufacturer: "Unknown",
			wantProducts:     []string{"Unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LineParser{}.Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got.Manufacturer != tt.wantManufacturer {
				t.Errorf("Manufacturer: got %q, want %q", got.Manufacturer, tt.wantManufacturer)
			}
			if !reflect.DeepEqual(got.Products, tt.wantProducts) {
				t.Errorf("Products: got %v, want %v", got.Products, tt.wantProducts)
			}
		})
	}
}
