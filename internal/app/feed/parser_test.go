package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/courseplanner/internal/pkg/apperrors"
	"github.com/yigit/courseplanner/internal/pkg/semester"
)

const sampleMarkup = `<a href="/browse/info/2025fa-cmpt-276-d1">CMPT 276 D100</a>`

func TestExtractSectionCode(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{name: "course link", markup: sampleMarkup, want: "D100"},
		{name: "extra whitespace", markup: "<a href=\"/x\">  CMPT   120\tD200 </a>", want: "D200"},
		{name: "single token", markup: "<a>LAB</a>", want: "LAB"},
		{name: "no closing tag", markup: "<a href=\"/x\">CMPT 276 D100", want: ""},
		{name: "no tag", markup: "CMPT 276 D100", want: ""},
		{name: "empty text", markup: "<a href=\"/x\"></a>", want: ""},
		{name: "empty", markup: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSectionCode(tt.markup))
		})
	}
}

func TestExtractDetailURL(t *testing.T) {
	assert.Equal(t, "/browse/info/2025fa-cmpt-276-d1", ExtractDetailURL(sampleMarkup))
	assert.Equal(t, "", ExtractDetailURL(`<a class="x">CMPT 276 D100</a>`))
	assert.Equal(t, "", ExtractDetailURL(`<a href="/unterminated>CMPT</a>`))
	assert.Equal(t, "", ExtractDetailURL(`<a href='/single'>CMPT</a>`))
}

func TestParseEnrollment(t *testing.T) {
	tests := []struct {
		raw          string
		wantEnrolled int
		wantCapacity int
	}{
		{raw: "96/100", wantEnrolled: 96, wantCapacity: 100},
		{raw: "115 (+31)/100", wantEnrolled: 146, wantCapacity: 100},
		{raw: " 115(+31) / 100 ", wantEnrolled: 146, wantCapacity: 100},
		{raw: "0/0", wantEnrolled: 0, wantCapacity: 0},
		{raw: "40/45 seats", wantEnrolled: 40, wantCapacity: 45},
		{raw: "bad", wantEnrolled: 0, wantCapacity: 0},
		{raw: "96", wantEnrolled: 0, wantCapacity: 0},
		{raw: "abc/100", wantEnrolled: 0, wantCapacity: 0},
		{raw: "96/none", wantEnrolled: 0, wantCapacity: 0},
		{raw: "96 (31)/100", wantEnrolled: 0, wantCapacity: 0},
		{raw: "", wantEnrolled: 0, wantCapacity: 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			enrolled, capacity := ParseEnrollment(tt.raw)
			assert.Equal(t, tt.wantEnrolled, enrolled)
			assert.Equal(t, tt.wantCapacity, capacity)
		})
	}
}

func TestLoadPercent(t *testing.T) {
	assert.Equal(t, 96, LoadPercent(96, 100))
	assert.Equal(t, 146, LoadPercent(146, 100))
	assert.Equal(t, 0, LoadPercent(10, 0))
	assert.Equal(t, 0, LoadPercent(10, -5))
	assert.Equal(t, 50, LoadPercent(1, 2))
	assert.Equal(t, 33, LoadPercent(1, 3))
	assert.Equal(t, 67, LoadPercent(2, 3))
	// 12.5 rounds up
	assert.Equal(t, 13, LoadPercent(1, 8))
}

func TestParseRow(t *testing.T) {
	row := []string{"Fall 2025", sampleMarkup, "Intro to Software Engineering", "115 (+31)/100", "Alice Smith", "Burnaby"}

	rec, err := ParseRow(row, 1257)
	require.NoError(t, err)
	assert.Equal(t, "D100", rec.Section)
	assert.Equal(t, "/browse/info/2025fa-cmpt-276-d1", rec.InfoURL)
	assert.Equal(t, "Intro to Software Engineering", rec.Title)
	assert.Equal(t, semester.Fall, rec.Term)
	assert.Equal(t, 2025, rec.Year)
	assert.Equal(t, 1257, rec.SemesterCode)
	assert.Equal(t, "Alice Smith", rec.Instructors)
	assert.Equal(t, "Burnaby", rec.Location)
	assert.Equal(t, 146, rec.Enrolled)
	assert.Equal(t, 100, rec.Capacity)
	assert.Equal(t, 146, rec.LoadPercent)
	assert.False(t, rec.Malformed)
}

func TestParseRow_MalformedIsSoft(t *testing.T) {
	tests := map[string][]string{
		"no separator": {"Fall 2025", sampleMarkup, "Title", "96 100", "Alice", "Burnaby"},
		"no href":      {"Fall 2025", "<a>CMPT 276 D100</a>", "Title", "96/100", "Alice", "Burnaby"},
		"short row":    {"Fall 2025", sampleMarkup},
		"empty row":    {},
	}

	for name, row := range tests {
		t.Run(name, func(t *testing.T) {
			rec, err := ParseRow(row, 1257)
			require.NoError(t, err)
			assert.True(t, rec.Malformed)
			assert.Equal(t, 1257, rec.SemesterCode)
		})
	}

	rec, _ := ParseRow(tests["no separator"], 1257)
	assert.Zero(t, rec.Enrolled)
	assert.Zero(t, rec.Capacity)
	assert.Zero(t, rec.LoadPercent)
	assert.Equal(t, "D100", rec.Section)

	rec, _ = ParseRow(tests["short row"], 1257)
	assert.Equal(t, "", rec.Title)
	assert.Equal(t, "", rec.Location)
}

func TestParseRow_InvalidSemester(t *testing.T) {
	_, err := ParseRow([]string{}, 1259)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSemesterCode)

	_, err = ParseRows([][]string{{}}, 1250)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSemesterCode)
}

func TestParseRows_KeepsMalformed(t *testing.T) {
	rows := [][]string{
		{"Fall 2025", sampleMarkup, "Title", "96/100", "Alice", "Burnaby"},
		{"Fall 2025", sampleMarkup, "Title", "garbage", "Bob", "Surrey"},
	}

	recs, err := ParseRows(rows, 1257)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.False(t, recs[0].Malformed)
	assert.True(t, recs[1].Malformed)
	assert.Equal(t, "Surrey", recs[1].Location)
}

func TestParser_UsesCodecBaseYear(t *testing.T) {
	p := NewParser(semester.NewCodec(2000))
	row := []string{"Fall 2025", sampleMarkup, "Title", "96/100", "Alice", "Burnaby"}

	rec, err := p.ParseRow(row, 257)
	require.NoError(t, err)
	assert.Equal(t, 2025, rec.Year)
	assert.Equal(t, semester.Fall, rec.Term)
	assert.Equal(t, 257, rec.SemesterCode)

	recs, err := p.ParseRows([][]string{row}, 251)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, semester.Spring, recs[0].Term)

	// the default codec reads the same code as 1925
	rec, err = ParseRow(row, 257)
	require.NoError(t, err)
	assert.Equal(t, 1925, rec.Year)
}
