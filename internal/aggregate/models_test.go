package aggregate

import (
	"testing"

	"github.com/stretchr/testify/require"

	dErrors "geovote/pkg/domain-errors"
)

func TestParseSide(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Side
		wantErr bool
	}{
		{name: "side a", raw: "a", want: SideA},
		{name: "side b", raw: "b", want: SideB},
		{name: "empty", raw: "", wantErr: true},
		{name: "uppercase rejected", raw: "A", wantErr: true},
		{name: "unknown", raw: "c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side, err := ParseSide(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				require.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, side)
		})
	}
}
