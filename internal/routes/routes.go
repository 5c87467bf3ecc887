package routes

const (
	// Health and metrics
	Health  = "/health"
	Metrics = "/metrics"

	APIBase = "/api/v1"

	// Caller
	UserStatus = "/api/v1/user-status"
	Profile    = "/api/v1/profile"

	// Admin
	AdminDashboard = "/api/v1/admin/dashboard"

	// Users (admin)
	Users              = "/api/v1/users"
	UserByID           = "/api/v1/users/{id}"
	UserAssignUnit     = "/api/v1/users/{id}/assign-unit"
	UserRemoveFromUnit = "/api/v1/users/{id}/remove-from-unit"
	UserResetPassword  = "/api/v1/users/{id}/reset-password"

	// Residence units
	Units           = "/api/v1/units"
	UnitByID        = "/api/v1/units/{id}"
	UnitAssignments = "/api/v1/units/{id}/assignments"

	// Tenancy requests
	TenancyRequests       = "/api/v1/tenancy-requests"
	TenancyRequestApprove = "/api/v1/tenancy-requests/{id}/approve"
	TenancyRequestReject  = "/api/v1/tenancy-requests/{id}/reject"

	// Vehicles
	Vehicles      = "/api/v1/vehicles"
	VehicleSearch = "/api/v1/vehicles/search"
	VehicleByID   = "/api/v1/vehicles/{id}"

	// Complaints
	Complaints            = "/api/v1/complaints"
	ComplaintsMine        = "/api/v1/complaints/mine"
	ComplaintByID         = "/api/v1/complaints/{id}"
	ComplaintUpdateStatus = "/api/v1/complaints/{id}/update-status"

	// Bills
	Bills       = "/api/v1/bills"
	BillByID    = "/api/v1/bills/{id}"
	BillReceipt = "/api/v1/bills/{id}/receipt"

	// Camera requests
	CameraRequests       = "/api/v1/camera-requests"
	CameraRequestByID    = "/api/v1/camera-requests/{id}"
	CameraRequestProcess = "/api/v1/camera-requests/{id}/process"

	// Notifications
	Notifications        = "/api/v1/notifications"
	NotificationByID     = "/api/v1/notifications/{id}"
	NotificationMarkRead = "/api/v1/notifications/{id}/mark-read"

	// Activity
	Activity = "/api/v1/activity"

	// Forum
	ForumCategories   = "/api/v1/forum/categories"
	ForumPosts        = "/api/v1/forum/posts"
	ForumPostByID     = "/api/v1/forum/posts/{id}"
	ForumPostUpvote   = "/api/v1/forum/posts/{id}/upvote"
	ForumPostDownvote = "/api/v1/forum/posts/{id}/downvote"
	ForumComments     = "/api/v1/forum/comments"
	ForumCommentByID  = "/api/v1/forum/comments/{id}"
)
