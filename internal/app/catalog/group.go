package catalog

import "sort"

func rawOfferingsOf(courses ...*course) []*rawOffering {
	var out []*rawOffering
	for _, c := range courses {
		for _, o := range c.offerings {
			out = append(out, o)
		}
	}
	// merge order decides instructor order and the surviving id
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

type offeringAcc struct {
	Offering
	instructorLists [][]string
	sections        map[string]*Section
}

// groupOfferings builds new Offerings from raw ones; raw values are only read.
func groupOfferings(raw []*rawOffering) map[string]Offering {
	accs := make(map[string]*offeringAcc)
	for _, o := range raw {
		key := GroupKey(o.semester.Code, o.location)
		acc, ok := accs[key]
		if !ok {
			acc = &offeringAcc{
				Offering: Offering{
					ID:           o.id,
					SemesterCode: o.semester.Code,
					Semester:     o.semester,
					Location:     o.location,
				},
				sections: make(map[string]*Section),
			}
			accs[key] = acc
		}

		acc.instructorLists = append(acc.instructorLists, o.instructors)
		for code, sec := range o.sections {
			sum, ok := acc.sections[code]
			if !ok {
				sum = &Section{ComponentCode: code}
				acc.sections[code] = sum
			}
			sum.EnrollmentTotal += sec.EnrollmentTotal
			sum.EnrollmentCapacity += sec.EnrollmentCapacity
		}
	}

	out := make(map[string]Offering, len(accs))
	for key, acc := range accs {
		off := acc.Offering
		off.Instructors = MergeInstructors(acc.instructorLists...)
		off.Sections = make([]Section, 0, len(acc.sections))
		for _, sec := range acc.sections {
			off.Sections = append(off.Sections, *sec)
		}
		sortSections(off.Sections)
		out[key] = off
	}
	return out
}

func groupCourses(d *department) map[string]GroupedCourse {
	byNumber := make(map[string][]*course)
	for _, c := range d.courses {
		byNumber[c.CatalogNumber] = append(byNumber[c.CatalogNumber], c)
	}

	out := make(map[string]GroupedCourse, len(byNumber))
	for number, courses := range byNumber {
		sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
		out[number] = GroupedCourse{
			Course:    courses[0].Course,
			Offerings: groupOfferings(rawOfferingsOf(courses...)),
		}
	}
	return out
}
