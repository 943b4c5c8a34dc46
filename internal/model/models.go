package model

// MainModels returns the models migrated into the main store at startup.
func MainModels() []interface{} {
	return []interface{}{
		&User{},
		&Tenant{},
		&UserTenant{},
		&Subscription{},
		&PlatformSetting{},
	}
}

// TenantModels returns the canonical schema of a tenant store. The list is
// applied once when the artifact is provisioned; existing artifacts are
// never re-migrated.
func TenantModels() []interface{} {
	return []interface{}{
		&Customer{},
		&Part{},
		&Repair{},
		&RepairPart{},
		&Quote{},
		&Invoice{},
		&Appointment{},
		&Review{},
		&ShortLink{},
		&ShopSetting{},
	}
}
