package apiclient

import "fmt"

// AdminTab identifies one admin dashboard section
type AdminTab string

const (
	TabDashboard AdminTab = "dashboard"
	TabInventory AdminTab = "inventory"
	TabBookings  AdminTab = "bookings"
	TabCustomers AdminTab = "customers"
	TabReports   AdminTab = "reports"
	TabSettings  AdminTab = "settings"
)

// AdminTabs lists the dashboard sections in display order
var AdminTabs = []AdminTab{
	TabDashboard,
	TabInventory,
	TabBookings,
	TabCustomers,
	TabReports,
	TabSettings,
}

// ParseAdminTab resolves a tab name; unknown names fall back to the
// dashboard with an error
func ParseAdminTab(name string) (AdminTab, error) {
	for _, tab := range AdminTabs {
		if string(tab) == name {
			return tab, nil
		}
	}
	return TabDashboard, fmt.Errorf("unknown admin tab %q", name)
}
