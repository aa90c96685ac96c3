package catalog

import (
	"fmt"
	"io"
	"strings"
)

// Dump renders grouped departments as text:
//
//	CMPT 276
//	    Offering: 1257 in Burnaby by Alice, Bob
//	      Section: LEC, Enrollment: 80/100
//
// Output depends only on the input order, which Snapshot makes deterministic.
func Dump(departments []DepartmentView) string {
	var b strings.Builder
	// strings.Builder writes never fail
	_ = WriteDump(&b, departments)
	return b.String()
}

// WriteDump writes the Dump format to w.
func WriteDump(w io.Writer, departments []DepartmentView) error {
	for _, d := range departments {
		for _, c := range d.Courses {
			if _, err := fmt.Fprintf(w, "%s %s\n", d.Subject, c.CatalogNumber); err != nil {
				return err
			}
			for _, o := range c.Offerings {
				if _, err := fmt.Fprintf(w, "    Offering: %d in %s by %s\n", o.SemesterCode, o.Location, o.InstructorList()); err != nil {
					return err
				}
				for _, s := range o.Sections {
					if _, err := fmt.Fprintf(w, "      Section: %s, Enrollment: %d/%d\n",
						s.ComponentCode, s.EnrollmentTotal, s.EnrollmentCapacity); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// Dump renders the current catalog.
func (s *Store) Dump() string {
	return Dump(s.Snapshot())
}
