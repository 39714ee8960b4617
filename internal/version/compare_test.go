package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewer(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		candidate string
		want      bool
	}{
		{name: "patch greater", current: "0.1.2", candidate: "0.1.3", want: true},
		{name: "patch less", current: "0.1.3", candidate: "0.1.2", want: false},
		{name: "equal", current: "0.1.3", candidate: "0.1.3", want: false},
		{name: "numeric not lexical", current: "1.9.0", candidate: "1.10.0", want: true},
		{name: "lexical trap reversed", current: "1.10.0", candidate: "1.9.0", want: false},
		{name: "v prefix", current: "v1.0.0", candidate: "1.0.1", want: true},
		{name: "short form", current: "1.2", candidate: "1.2.1", want: true},
		{name: "prerelease below release", current: "1.0.0-rc.1", candidate: "1.0.0", want: true},
		{name: "release above prerelease", current: "1.0.0", candidate: "1.0.0-rc.1", want: false},
		{name: "four parts", current: "1.2.3", candidate: "1.2.3.1", want: true},
		{name: "four parts equal", current: "1.2.3.0", candidate: "1.2.3", want: false},
		{name: "garbage candidate", current: "1.0.0", candidate: "latest", want: false},
		{name: "garbage current", current: "unknown", candidate: "1.0.0", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Newer(tt.current, tt.candidate))
			assert.Equal(t, tt.want, Default().Newer(tt.current, tt.candidate))
		})
	}
}

func TestNewer_Antisymmetric(t *testing.T) {
	versions := []string{"0.0.0", "0.1.0", "0.1.10", "0.1.9", "1.0.0-beta", "1.0.0", "1.0.0.1", "2", "v2.0.1"}

	for _, a := range versions {
		for _, b := range versions {
			if Newer(a, b) && Newer(b, a) {
				t.Errorf("Newer(%q, %q) and Newer(%q, %q) are both true", a, b, b, a)
			}
		}
	}
}

func TestCompareDotted(t *testing.T) {
	tests := []struct {
		name   string
		a, b   string
		want   int
		wantOK bool
	}{
		{name: "equal", a: "1.2.3", b: "1.2.3", want: 0, wantOK: true},
		{name: "trailing zero", a: "1.2", b: "1.2.0", want: 0, wantOK: true},
		{name: "greater", a: "1.10", b: "1.9", want: 1, wantOK: true},
		{name: "less", a: "1.2.3", b: "1.2.3.4", want: -1, wantOK: true},
		{name: "v prefix", a: "v3", b: "2.9.9", want: 1, wantOK: true},
		{name: "non numeric", a: "1.2.x", b: "1.2.3", wantOK: false},
		{name: "empty", a: "", b: "1", wantOK: false},
		{name: "negative", a: "1.-1", b: "1.0", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CompareDotted(tt.a, tt.b)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
