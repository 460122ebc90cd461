package constants

import "fmt"

const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

const ErrOnlyTeachersCanAccess = "Only teachers can access %s."

func RoleErrorTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyTeachersCanAccess, feature)
}

var TeacherOnly = []string{RoleTeacher}
