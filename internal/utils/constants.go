package utils

const (
	OrganizationName = "N-Connect"

	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:3000"

	// Result caps for vehicle search.
	VehicleSearchAdminLimit    = 20
	VehicleSearchResidentLimit = 10
	VehicleSearchMinQueryLen   = 2

	RecentActivityLimit = 10

	ReceiptNumberFormat = "NCR%06d"
)
