package domain

// DisplaySettings maps a storefront field name to whether it is rendered.
type DisplaySettings map[string]bool

// Display setting field names referenced directly in code. The full set lives
// in DefaultDisplaySettings; the admin may add new fields without a release.
const (
	FieldShowPrice        = "show_price"
	FieldShowDiscount     = "show_discount"
	FieldShowInstallments = "show_installments"
	FieldShowFreeShipping = "show_free_shipping"
	FieldShowStock        = "show_stock"
)

// DefaultDisplaySettings is the fail-open baseline: every known field visible.
func DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{
		FieldShowPrice:        true,
		"show_original_price": true,
		FieldShowDiscount:     true,
		FieldShowInstallments: true,
		FieldShowFreeShipping: true,
		"show_specs":          true,
		"show_brand":          true,
		"show_condition":      true,
		FieldShowStock:        true,
		"show_sold":           true,
		"show_rating":         true,
		"show_reviews_count":  true,
		"show_action_button":  true,
		"show_seller_info":    true,
	}
}
