package user

type Permission string

const (
	PermissionProfileManageOwn Permission = "profile.manage_own"

	// Attendance
	PermissionAttendanceRecordOwn Permission = "attendance.record_own"
	PermissionAttendanceViewAll   Permission = "attendance.view_all"
	PermissionAttendanceOverride  Permission = "attendance.override"

	// Leave
	PermissionLeaveApply   Permission = "leave.apply"
	PermissionLeaveApprove Permission = "leave.approve"

	// Employees
	PermissionEmployeeManage Permission = "employee.manage"

	// Reports
	PermissionReportsView   Permission = "reports.view"
	PermissionReportsExport Permission = "reports.export"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionProfileManageOwn,
		PermissionAttendanceRecordOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceOverride,
		PermissionLeaveApply,
		PermissionLeaveApprove,
		PermissionEmployeeManage,
		PermissionReportsView,
		PermissionReportsExport,
	},
	RoleEmployee: {
		PermissionProfileManageOwn,
		PermissionAttendanceRecordOwn,
		PermissionLeaveApply,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
