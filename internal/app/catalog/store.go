package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yigit/courseplanner/internal/app/models"
	"github.com/yigit/courseplanner/internal/pkg/apperrors"
	"github.com/yigit/courseplanner/internal/pkg/semester"
)

type department struct {
	Department
	courses map[int64]*course
}

type course struct {
	Course
	offerings map[int64]*rawOffering
}

// rawOffering is an offering as ingested. Several may share a group key.
type rawOffering struct {
	id          int64
	courseID    int64
	semester    semester.Semester
	location    string
	instructors []string
	sections    map[string]*Section
}

// keyedIngest remembers which raw offering an idempotency key produced.
type keyedIngest struct {
	offeringID  int64
	fingerprint string
	component   string
}

// tree is the raw catalog. It is only touched with Store.mu held.
type tree struct {
	departments map[int64]*department
	bySubject   map[string]int64
	courses     map[int64]*course
	offerings   map[int64]*rawOffering
	keyed       map[string]keyedIngest

	nextDepartmentID int64
	nextCourseID     int64
	nextOfferingID   int64
}

func newTree() *tree {
	return &tree{
		departments: make(map[int64]*department),
		bySubject:   make(map[string]int64),
		courses:     make(map[int64]*course),
		offerings:   make(map[int64]*rawOffering),
		keyed:       make(map[string]keyedIngest),
	}
}

// Store is the process-wide catalog. All mutations take the write lock; reads
// take the read lock and return freshly built values, so a read always sees a
// consistent tree and never exposes internal maps.
type Store struct {
	mu    sync.RWMutex
	codec semester.Codec
	t     *tree
}

// NewStore creates an empty catalog using codec to validate semester codes.
func NewStore(codec semester.Codec) *Store {
	return &Store{codec: codec, t: newTree()}
}

// AddOfferingInput is one incremental section observation.
type AddOfferingInput struct {
	Subject         string
	CatalogNumber   string
	SemesterCode    int
	Location        string
	Component       string
	EnrollmentTotal int
	EnrollmentCap   int
	Instructors     string
	// Key optionally identifies the logical section. Re-adding with the same key
	// replaces the earlier values instead of accumulating a new raw offering.
	Key string
}

// LoadStats summarizes a bulk load.
type LoadStats struct {
	Rows        int `json:"rows"`
	Departments int `json:"departments"`
	Courses     int `json:"courses"`
	Offerings   int `json:"offerings"`
}

// FindOrCreateDepartment looks a department up by subject, ignoring case, and
// creates it when absent.
func (s *Store) FindOrCreateDepartment(subject string) (Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.t.findOrCreateDepartment(subject)
	if err != nil {
		return Department{}, err
	}
	return d.Department, nil
}

// FindOrCreateCourse looks a course up by catalog number within a department
// and creates it when absent.
func (s *Store) FindOrCreateCourse(departmentID int64, catalogNumber string) (Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.t.departments[departmentID]
	if !ok {
		return Course{}, fmt.Errorf("%w: id %d", apperrors.ErrDepartmentNotFound, departmentID)
	}
	c, err := s.t.findOrCreateCourse(d, catalogNumber)
	if err != nil {
		return Course{}, err
	}
	return c.Course, nil
}

// FindOrCreateOffering always creates a new raw offering under the course.
// Raw offerings are not deduplicated here; GroupOfferings merges them.
func (s *Store) FindOrCreateOffering(courseID int64, semesterCode int, location, instructors string) (Offering, error) {
	sem, err := s.codec.Decode(semesterCode)
	if err != nil {
		return Offering{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.t.courses[courseID]
	if !ok {
		return Offering{}, fmt.Errorf("%w: id %d", apperrors.ErrCourseNotFound, courseID)
	}
	return s.t.newOffering(c, sem, location, instructors).view(), nil
}

// IngestSection adds a section to a raw offering, summing into an existing
// section with the same component code.
func (s *Store) IngestSection(offeringID int64, componentCode string, enrollmentTotal, capacity int) error {
	if err := validateCounts(enrollmentTotal, capacity); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.t.offerings[offeringID]
	if !ok {
		return fmt.Errorf("%w: id %d", apperrors.ErrOfferingNotFound, offeringID)
	}
	return o.ingest(componentCode, enrollmentTotal, capacity)
}

// AddOffering applies one incremental observation: find-or-create at every
// level, then ingest the section into a new raw offering. With a Key that was
// seen before, the earlier raw offering is updated in place instead.
func (s *Store) AddOffering(in AddOfferingInput) (Offering, error) {
	sem, err := s.codec.Decode(in.SemesterCode)
	if err != nil {
		return Offering{}, err
	}
	if err := validateInput(in); err != nil {
		return Offering{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.t.addOffering(in, sem)
}

// CheckOffering reports whether AddOffering would accept in, without changing
// the catalog.
func (s *Store) CheckOffering(in AddOfferingInput) error {
	sem, err := s.codec.Decode(in.SemesterCode)
	if err != nil {
		return err
	}
	if err := validateInput(in); err != nil {
		return err
	}
	if in.Key == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if prev, ok := s.t.keyed[in.Key]; ok && prev.fingerprint != fingerprintOf(in, sem.Code) {
		return keyConflict(in.Key)
	}
	return nil
}

// Load replaces the whole catalog with one built from rows. The new tree is
// assembled off to the side and swapped in only when every row is valid, so a
// failed or repeated load never leaves partial or doubled counts. Keyed rows
// register their key again, so a retry after a reload still replaces.
func (s *Store) Load(rows []models.CourseDataRow) (LoadStats, error) {
	nt := newTree()
	for i, row := range rows {
		sem, err := s.codec.Decode(row.SemesterCode)
		if err != nil {
			return LoadStats{}, fmt.Errorf("row %d: %w", i, err)
		}
		in := AddOfferingInput{
			Subject:         row.Subject,
			CatalogNumber:   row.CatalogNumber,
			SemesterCode:    row.SemesterCode,
			Location:        row.Location,
			Component:       row.ComponentCode,
			EnrollmentTotal: row.EnrollmentTotal,
			EnrollmentCap:   row.EnrollmentCapacity,
			Instructors:     row.Instructors,
			Key:             row.IdempotencyKey,
		}
		if err := validateInput(in); err != nil {
			return LoadStats{}, fmt.Errorf("row %d: %w", i, err)
		}
		if _, err := nt.addOffering(in, sem); err != nil {
			return LoadStats{}, fmt.Errorf("row %d: %w", i, err)
		}
	}

	s.mu.Lock()
	s.t = nt
	s.mu.Unlock()

	return LoadStats{
		Rows:        len(rows),
		Departments: len(nt.departments),
		Courses:     len(nt.courses),
		Offerings:   len(nt.offerings),
	}, nil
}

// Departments lists departments sorted case-insensitively by subject.
func (s *Store) Departments() []Department {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Department, 0, len(s.t.departments))
	for _, d := range s.t.departments {
		out = append(out, d.Department)
	}
	sort.Slice(out, func(i, j int) bool { return lessFold(out[i].Subject, out[j].Subject) })
	return out
}

// Department returns a department by id.
func (s *Store) Department(id int64) (Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.t.departments[id]
	if !ok {
		return Department{}, fmt.Errorf("%w: id %d", apperrors.ErrDepartmentNotFound, id)
	}
	return d.Department, nil
}

// FindDepartment returns a department by subject, ignoring case.
func (s *Store) FindDepartment(subject string) (Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.t.bySubject[subjectKey(subject)]
	if !ok {
		return Department{}, fmt.Errorf("%w: %q", apperrors.ErrDepartmentNotFound, subject)
	}
	return s.t.departments[id].Department, nil
}

// FindCourse returns a department's course by catalog number.
func (s *Store) FindCourse(departmentID int64, catalogNumber string) (Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.t.departments[departmentID]
	if !ok {
		return Course{}, fmt.Errorf("%w: id %d", apperrors.ErrDepartmentNotFound, departmentID)
	}
	if c := d.courseByNumber(catalogNumber); c != nil {
		return c.Course, nil
	}
	return Course{}, fmt.Errorf("%w: %q", apperrors.ErrCourseNotFound, catalogNumber)
}

// GroupOfferings merges a course's raw offerings by semester code and
// location. It never mutates the tree, so repeated calls return equal results.
func (s *Store) GroupOfferings(courseID int64) (map[string]Offering, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.t.courses[courseID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", apperrors.ErrCourseNotFound, courseID)
	}
	return groupOfferings(rawOfferingsOf(c)), nil
}

// GroupCourses merges a department's courses sharing a catalog number and
// groups their offerings.
func (s *Store) GroupCourses(departmentID int64) (map[string]GroupedCourse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.t.departments[departmentID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", apperrors.ErrDepartmentNotFound, departmentID)
	}
	return groupCourses(d), nil
}

// Snapshot returns the whole grouped catalog in display order: departments by
// subject, courses by catalog number, offerings by semester then location.
func (s *Store) Snapshot() []DepartmentView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	depts := make([]*department, 0, len(s.t.departments))
	for _, d := range s.t.departments {
		depts = append(depts, d)
	}
	sort.Slice(depts, func(i, j int) bool { return lessFold(depts[i].Subject, depts[j].Subject) })

	out := make([]DepartmentView, 0, len(depts))
	for _, d := range depts {
		grouped := groupCourses(d)
		view := DepartmentView{Department: d.Department, Courses: make([]CourseView, 0, len(grouped))}
		for _, gc := range grouped {
			view.Courses = append(view.Courses, CourseView{Course: gc.Course, Offerings: gc.SortedOfferings()})
		}
		sort.Slice(view.Courses, func(i, j int) bool {
			return lessFold(view.Courses[i].CatalogNumber, view.Courses[j].CatalogNumber)
		})
		out = append(out, view)
	}
	return out
}

// Stats counts raw entities.
func (s *Store) Stats() LoadStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return LoadStats{
		Departments: len(s.t.departments),
		Courses:     len(s.t.courses),
		Offerings:   len(s.t.offerings),
	}
}

func subjectKey(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}

func (t *tree) findOrCreateDepartment(subject string) (*department, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, apperrors.NewValidationError("subject is required")
	}
	if id, ok := t.bySubject[subjectKey(subject)]; ok {
		return t.departments[id], nil
	}

	t.nextDepartmentID++
	d := &department{
		Department: Department{ID: t.nextDepartmentID, Subject: subject},
		courses:    make(map[int64]*course),
	}
	t.departments[d.ID] = d
	t.bySubject[subjectKey(subject)] = d.ID
	return d, nil
}

func (d *department) courseByNumber(catalogNumber string) *course {
	catalogNumber = strings.TrimSpace(catalogNumber)
	var found *course
	for _, c := range d.courses {
		if c.CatalogNumber == catalogNumber && (found == nil || c.ID < found.ID) {
			found = c
		}
	}
	return found
}

func (t *tree) findOrCreateCourse(d *department, catalogNumber string) (*course, error) {
	catalogNumber = strings.TrimSpace(catalogNumber)
	if catalogNumber == "" {
		return nil, apperrors.NewValidationError("catalog number is required")
	}
	if c := d.courseByNumber(catalogNumber); c != nil {
		return c, nil
	}

	t.nextCourseID++
	c := &course{
		Course:    Course{ID: t.nextCourseID, DepartmentID: d.ID, CatalogNumber: catalogNumber},
		offerings: make(map[int64]*rawOffering),
	}
	d.courses[c.ID] = c
	t.courses[c.ID] = c
	return c, nil
}

func (t *tree) newOffering(c *course, sem semester.Semester, location, instructors string) *rawOffering {
	t.nextOfferingID++
	o := &rawOffering{
		id:          t.nextOfferingID,
		courseID:    c.ID,
		semester:    sem,
		location:    strings.TrimSpace(location),
		instructors: SplitInstructors(instructors),
		sections:    make(map[string]*Section),
	}
	c.offerings[o.id] = o
	t.offerings[o.id] = o
	return o
}

func (t *tree) addOffering(in AddOfferingInput, sem semester.Semester) (Offering, error) {
	d, err := t.findOrCreateDepartment(in.Subject)
	if err != nil {
		return Offering{}, err
	}
	c, err := t.findOrCreateCourse(d, in.CatalogNumber)
	if err != nil {
		return Offering{}, err
	}

	fingerprint := fingerprintOf(in, sem.Code)
	component := NormalizeComponent(in.Component)

	if in.Key != "" {
		if prev, ok := t.keyed[in.Key]; ok {
			if prev.fingerprint != fingerprint {
				return Offering{}, keyConflict(in.Key)
			}
			o := t.offerings[prev.offeringID]
			delete(o.sections, prev.component)
			o.instructors = SplitInstructors(in.Instructors)
			o.sections[component] = &Section{
				ComponentCode:      component,
				EnrollmentTotal:    in.EnrollmentTotal,
				EnrollmentCapacity: in.EnrollmentCap,
			}
			t.keyed[in.Key] = keyedIngest{offeringID: o.id, fingerprint: fingerprint, component: component}
			return o.view(), nil
		}
	}

	o := t.newOffering(c, sem, in.Location, in.Instructors)
	if err := o.ingest(component, in.EnrollmentTotal, in.EnrollmentCap); err != nil {
		return Offering{}, err
	}
	if in.Key != "" {
		t.keyed[in.Key] = keyedIngest{offeringID: o.id, fingerprint: fingerprint, component: component}
	}
	return o.view(), nil
}

// fingerprintOf identifies the raw offering a keyed observation belongs to
func fingerprintOf(in AddOfferingInput, semesterCode int) string {
	return strings.Join([]string{
		subjectKey(in.Subject), strings.TrimSpace(in.CatalogNumber), fmt.Sprint(semesterCode), strings.TrimSpace(in.Location),
	}, "|")
}

func keyConflict(key string) error {
	return apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists,
		fmt.Sprintf("key %q already used for a different offering", key))
}

func (o *rawOffering) ingest(componentCode string, enrollmentTotal, capacity int) error {
	component := NormalizeComponent(componentCode)
	if component == "" {
		return apperrors.NewValidationError("component code is required")
	}

	if sec, ok := o.sections[component]; ok {
		sec.EnrollmentTotal += enrollmentTotal
		sec.EnrollmentCapacity += capacity
		return nil
	}
	o.sections[component] = &Section{
		ComponentCode:      component,
		EnrollmentTotal:    enrollmentTotal,
		EnrollmentCapacity: capacity,
	}
	return nil
}

// view copies a raw offering without merging.
func (o *rawOffering) view() Offering {
	out := Offering{
		ID:           o.id,
		SemesterCode: o.semester.Code,
		Semester:     o.semester,
		Location:     o.location,
		Instructors:  append([]string(nil), o.instructors...),
		Sections:     make([]Section, 0, len(o.sections)),
	}
	for _, sec := range o.sections {
		out.Sections = append(out.Sections, *sec)
	}
	sortSections(out.Sections)
	return out
}

func validateCounts(total, capacity int) error {
	if total < 0 || capacity < 0 {
		return apperrors.NewValidationError("enrollment counts must be non-negative")
	}
	return nil
}

func validateInput(in AddOfferingInput) error {
	switch {
	case strings.TrimSpace(in.Subject) == "":
		return apperrors.NewValidationError("subject is required")
	case strings.TrimSpace(in.CatalogNumber) == "":
		return apperrors.NewValidationError("catalog number is required")
	case strings.TrimSpace(in.Location) == "":
		return apperrors.NewValidationError("location is required")
	case NormalizeComponent(in.Component) == "":
		return apperrors.NewValidationError("component code is required")
	}
	return validateCounts(in.EnrollmentTotal, in.EnrollmentCap)
}

// Courses returns a department's grouped courses sorted by catalog number.
func (s *Store) Courses(departmentID int64) ([]CourseView, error) {
	grouped, err := s.GroupCourses(departmentID)
	if err != nil {
		return nil, err
	}
	out := make([]CourseView, 0, len(grouped))
	for _, gc := range grouped {
		out = append(out, CourseView{Course: gc.Course, Offerings: gc.SortedOfferings()})
	}
	sort.Slice(out, func(i, j int) bool { return lessFold(out[i].CatalogNumber, out[j].CatalogNumber) })
	return out, nil
}

// Offerings returns a course's grouped offerings in display order. The course
// must belong to the department.
func (s *Store) Offerings(departmentID, courseID int64) ([]Offering, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.t.departments[departmentID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", apperrors.ErrDepartmentNotFound, departmentID)
	}
	c, ok := d.courses[courseID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", apperrors.ErrCourseNotFound, courseID)
	}

	// sibling courses with the same number are presented as one
	var siblings []*course
	for _, other := range d.courses {
		if other.CatalogNumber == c.CatalogNumber {
			siblings = append(siblings, other)
		}
	}
	gc := GroupedCourse{Course: c.Course, Offerings: groupOfferings(rawOfferingsOf(siblings...))}
	return gc.SortedOfferings(), nil
}
