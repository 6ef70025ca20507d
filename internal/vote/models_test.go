package vote

import (
	"testing"

	"github.com/stretchr/testify/require"

	"geovote/internal/aggregate"
	"geovote/internal/geo"
	dErrors "geovote/pkg/domain-errors"
)

func TestParseLocationSource(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    LocationSource
		wantErr bool
	}{
		{name: "ip", raw: "ip", want: SourceIP},
		{name: "device", raw: "device", want: SourceDevice},
		{name: "manual", raw: "manual", want: SourceManual},
		{name: "empty", raw: "", wantErr: true},
		{name: "unknown", raw: "satellite", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, err := ParseLocationSource(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				require.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, source)
		})
	}
}

func TestSubmissionValidate(t *testing.T) {
	valid := func() Submission {
		return Submission{
			MatchID:        "match-1",
			Side:           aggregate.SideA,
			Fingerprint:    "fp-abc",
			Cell:           "40.7,-74.0",
			Resolution:     7,
			CountryCode:    "US",
			LocationSource: SourceIP,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Submission)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Submission) {}},
		{name: "missing match id", mutate: func(s *Submission) { s.MatchID = "" }, wantErr: true},
		{name: "missing fingerprint", mutate: func(s *Submission) { s.Fingerprint = "" }, wantErr: true},
		{name: "missing cell", mutate: func(s *Submission) { s.Cell = "" }, wantErr: true},
		{name: "negative resolution", mutate: func(s *Submission) { s.Resolution = -1 }, wantErr: true},
		{name: "resolution past finest level", mutate: func(s *Submission) { s.Resolution = maxResolution + 1 }, wantErr: true},
		{name: "three letter country", mutate: func(s *Submission) { s.CountryCode = "USA" }, wantErr: true},
		{name: "no country is fine", mutate: func(s *Submission) { s.CountryCode = "" }},
		{name: "coordinates off the globe", mutate: func(s *Submission) {
			s.Coordinates = &geo.Point{Lat: 91, Lon: 0}
		}, wantErr: true},
		{name: "valid coordinates", mutate: func(s *Submission) {
			s.Coordinates = &geo.Point{Lat: 40.7128, Lon: -74.006}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := valid()
			tt.mutate(&sub)

			err := sub.Validate()
			if tt.wantErr {
				require.Error(t, err)
				require.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
		})
	}
}
