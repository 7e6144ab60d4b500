// Package authz decides, for every mutating or listing operation, which
// records a principal may touch. Handlers thread the principal explicitly
// and get back a typed Decision instead of a bare bool, so a denial always
// carries the reason the caller shows to the user. A 403 here is never
// collapsed into a 404: "record missing" and "record forbidden" stay
// distinct at the controller layer.
package authz

import "project/backend/models"

// Principal is the authenticated identity behind a request.
type Principal struct {
	ID        uint
	Role      string
	Approved  bool
	Superuser bool
}

func FromUser(u models.User) Principal {
	return Principal{
		ID:        u.ID,
		Role:      u.Role,
		Approved:  u.IsApproved,
		Superuser: u.IsSuperuser,
	}
}

func (p Principal) IsInstructor() bool { return p.Role == models.RoleInstructor }

func (p Principal) IsStudent() bool { return p.Role == models.RoleStudent }

// Decision is the outcome of a capability check.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(reason string) Decision { return Decision{Reason: reason} }

func (d Decision) Denied() bool { return !d.Allowed }

// CanCreateCourse allows approved instructors and superusers. An
// instructor awaiting approval is rejected before any row is written.
func CanCreateCourse(p Principal) Decision {
	if p.Superuser {
		return Allow()
	}
	if !p.IsInstructor() {
		return Deny("only instructors can create courses")
	}
	if !p.Approved {
		return Deny("your instructor account has not been approved yet")
	}
	return Allow()
}

// CanManageCourse covers editing and deleting a course, and creating or
// editing its lessons, assignments and quizzes. The ownership predicate is
// course.instructor == principal; approval is required on top of it.
func CanManageCourse(p Principal, course models.Course) Decision {
	if p.Superuser {
		return Allow()
	}
	if !p.IsInstructor() {
		return Deny("only instructors can manage courses")
	}
	if course.InstructorID != p.ID {
		return Deny("you do not own this course")
	}
	if !p.Approved {
		return Deny("your instructor account has not been approved yet")
	}
	return Allow()
}

// CanGrade checks the full ownership chain
// submission -> assignment -> course -> instructor.
func CanGrade(p Principal, courseInstructorID uint) Decision {
	if p.Superuser {
		return Allow()
	}
	if !p.IsInstructor() {
		return Deny("only instructors can grade submissions")
	}
	if courseInstructorID != p.ID {
		return Deny("this submission belongs to another instructor's course")
	}
	return Allow()
}

func CanViewRoster(p Principal, course models.Course) Decision {
	if p.Superuser {
		return Allow()
	}
	if !p.IsInstructor() || course.InstructorID != p.ID {
		return Deny("only the course instructor can view enrolled students")
	}
	return Allow()
}

func CanEnroll(p Principal) Decision {
	if !p.IsStudent() {
		return Deny("only students can enroll in courses")
	}
	return Allow()
}

func CanSubmit(p Principal) Decision {
	if !p.IsStudent() {
		return Deny("only students can submit assignments")
	}
	return Allow()
}

func CanMarkLesson(p Principal) Decision {
	if !p.IsStudent() {
		return Deny("only students can mark lessons as completed")
	}
	return Allow()
}

func CanRequestCertificate(p Principal) Decision {
	if !p.IsStudent() {
		return Deny("certificates are issued to students only")
	}
	return Allow()
}

func CanApproveInstructors(p Principal) Decision {
	if !p.Superuser {
		return Deny("administrator access required")
	}
	return Allow()
}
