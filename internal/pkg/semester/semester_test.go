package semester

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/courseplanner/internal/pkg/apperrors"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		year int
		term string
		want int
	}{
		{name: "fall 2025", year: 2025, term: "fall", want: 1257},
		{name: "spring 2014", year: 2014, term: "spring", want: 1141},
		{name: "summer 2000", year: 2000, term: "summer", want: 1004},
		{name: "mixed case and padding", year: 2026, term: "  SpRiNg ", want: 1261},
		{name: "single digit offset", year: 1905, term: "fall", want: 57},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.year, tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_InvalidTerm(t *testing.T) {
	for _, term := range []string{"", "winter", "autumn", "fal"} {
		_, err := Encode(2025, term)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTerm, "term %q", term)
	}
}

func TestEncode_YearBeforeBase(t *testing.T) {
	_, err := Encode(1899, "fall")
	assert.ErrorIs(t, err, apperrors.ErrInvalidYear)
}

func TestDecode(t *testing.T) {
	got, err := Decode(1257)
	require.NoError(t, err)
	assert.Equal(t, Semester{Year: 2025, Term: Fall, Code: 1257}, got)
	assert.Equal(t, "2025 Fall", got.String())
}

func TestDecode_InvalidDigit(t *testing.T) {
	for _, code := range []int{1250, 1252, 1253, 1255, 1256, 1258, 1259, -1} {
		_, err := Decode(code)
		assert.ErrorIs(t, err, apperrors.ErrInvalidSemesterCode, "code %d", code)
	}
}

func TestDecode_NoFixedDigitCount(t *testing.T) {
	// Offsets of one, two and four digits all decode arithmetically.
	cases := map[int]Semester{
		7:     {Year: 1900, Term: Fall, Code: 7},
		994:   {Year: 1999, Term: Summer, Code: 994},
		11001: {Year: 3000, Term: Spring, Code: 11001},
	}
	for code, want := range cases {
		got, err := Decode(code)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, codec := range []Codec{Default, NewCodec(2000), NewCodec(1)} {
		for year := codec.BaseYear; year < codec.BaseYear+250; year++ {
			for _, term := range []Term{Spring, Summer, Fall} {
				code, err := codec.Encode(year, string(term))
				require.NoError(t, err)

				got, err := codec.Decode(code)
				require.NoError(t, err)
				assert.Equal(t, year, got.Year)
				assert.Equal(t, term, got.Term)
			}
		}
	}
}

func TestPrevious(t *testing.T) {
	tests := []struct {
		term     string
		wantYear int
		wantTerm Term
		wantCode int
	}{
		{term: "spring", wantYear: 2024, wantTerm: Fall, wantCode: 1247},
		{term: "fall", wantYear: 2025, wantTerm: Summer, wantCode: 1254},
		{term: "summer", wantYear: 2025, wantTerm: Spring, wantCode: 1251},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, err := Previous(2025, tt.term)
			require.NoError(t, err)
			assert.Equal(t, Semester{Year: tt.wantYear, Term: tt.wantTerm, Code: tt.wantCode}, got)
		})
	}
}

func TestPrevious_ThreeCycle(t *testing.T) {
	s := Semester{Year: 2025, Term: Fall}
	for i := 0; i < 3; i++ {
		var err error
		s, err = Previous(s.Year, string(s.Term))
		require.NoError(t, err)
	}
	assert.Equal(t, Semester{Year: 2024, Term: Fall, Code: 1247}, s)
}

func TestPrevious_InvalidTerm(t *testing.T) {
	_, err := Previous(2025, "winter")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTerm)
}

func TestCapitalize(t *testing.T) {
	got, err := Capitalize(" SUMMER")
	require.NoError(t, err)
	assert.Equal(t, "Summer", got)

	_, err = Capitalize("")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTerm)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(1257))
	assert.False(t, Valid(1258))
}
