package access

// Well-known feature keys gated by the platform. Rules for these keys are
// seeded via migrations and editable by admins.
const (
	FeatureSuppliers = "suppliers"
	FeatureFavorites = "favorites"
)
