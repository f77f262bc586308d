package domain

// Department is one of the fixed organizational units users belong to.
type Department string

const (
	DepartmentComputerScience Department = "Computer Science"
	DepartmentEngineering     Department = "Engineering"
	DepartmentBusiness        Department = "Business"
	DepartmentArts            Department = "Arts"
	DepartmentAdministration  Department = "Administration"
)

// Departments lists every department in reporting order.
var Departments = []Department{
	DepartmentComputerScience,
	DepartmentEngineering,
	DepartmentBusiness,
	DepartmentArts,
	DepartmentAdministration,
}
