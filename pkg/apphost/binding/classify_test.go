package binding

import (
	"bytes"
	"errors"
	"testing"

	apperrors "github.com/provide-io/flavor/go/apphost/pkg/apphost/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placeholder = "74e592c2fa383d4a3960714caef0c4f274e592c2fa383d4a3960714caef0c4f2"

// regionWith returns a Capacity-sized region holding content followed by NULs.
func regionWith(content string) []byte {
	buf := make([]byte, Capacity)
	copy(buf, content)
	return buf
}

func TestConstants(t *testing.T) {
	assert.Equal(t, 64, PlaceholderLen)
	assert.Equal(t, 1025, Capacity)
	assert.Equal(t, 1024, MaxPathLen)
	assert.Equal(t, placeholder, PlaceholderHi+PlaceholderLo)
}

func TestClassify(t *testing.T) {
	oneOff := []byte(placeholder)
	oneOff[40] = 'x'

	tests := []struct {
		name      string
		region    []byte
		wantState State
		wantPath  string
	}{
		{"placeholder", regionWith(placeholder), StateDisabled, ""},
		{"placeholder without padding", []byte(placeholder + "\x00"), StateDisabled, ""},
		{"placeholder with suffix", regionWith(placeholder + ".dll"), StateDisabled, ""},
		{"bound dll", regionWith("MyApp.dll"), StateEnabled, "MyApp.dll"},
		{"bound nested path", regionWith("bin/app/MyApp.dll"), StateEnabled, "bin/app/MyApp.dll"},
		{"one byte differs in lo part", regionWith(string(oneOff)), StateEnabled, string(oneOff)},
		{"hi part only", regionWith(PlaceholderHi), StateEnabled, PlaceholderHi},
		{"empty", regionWith(""), StateEnabled, ""},
		{"stale bytes after terminator", append([]byte("app.dll\x00"), placeholder...), StateEnabled, "app.dll"},
		{"maximum length", regionWith(string(bytes.Repeat([]byte{'a'}, MaxPathLen))), StateEnabled, string(bytes.Repeat([]byte{'a'}, MaxPathLen))},
		{"no terminator", bytes.Repeat([]byte{'a'}, 1100), StateMalformed, ""},
		{"exactly capacity without terminator", bytes.Repeat([]byte{'b'}, Capacity), StateMalformed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(Bytes(tt.region))
			assert.Equal(t, tt.wantState, got.State)
			assert.Equal(t, tt.wantPath, got.Path)
		})
	}
}

func TestClassifyErrors(t *testing.T) {
	assert.NoError(t, Classify(Bytes(regionWith("MyApp.dll"))).Err())
	assert.True(t, errors.Is(Classify(Bytes(regionWith(placeholder))).Err(), apperrors.ErrNotBound))
	assert.True(t, errors.Is(Classify(Bytes(bytes.Repeat([]byte{'a'}, 1100))).Err(), apperrors.ErrBindingTooLong))
}

func TestClassifyLength(t *testing.T) {
	assert.Equal(t, 9, Classify(Bytes(regionWith("MyApp.dll"))).Length)
	assert.Equal(t, PlaceholderLen, Classify(Bytes(regionWith(placeholder))).Length)
	assert.Equal(t, Capacity, Classify(Bytes(bytes.Repeat([]byte{'a'}, 1100))).Length)
}

func TestClassifyIsIdempotent(t *testing.T) {
	for _, region := range [][]byte{regionWith(placeholder), regionWith("MyApp.dll"), bytes.Repeat([]byte{'a'}, 1100)} {
		src := Bytes(region)
		assert.Equal(t, Classify(src), Classify(src))
	}
}

func TestClassifyReadsCurrentContent(t *testing.T) {
	buf := regionWith(placeholder)
	src := Bytes(buf)
	require.Equal(t, StateDisabled, Classify(src).State)

	copy(buf, "Patched.dll\x00")
	got := Classify(src)
	assert.Equal(t, StateEnabled, got.State)
	assert.Equal(t, "Patched.dll", got.Path)
}

func TestImageIsUnbound(t *testing.T) {
	img := Image()
	require.Equal(t, Capacity, img.Len())

	got := Classify(img)
	assert.Equal(t, StateDisabled, got.State)
	assert.Equal(t, PlaceholderLen, got.Length)

	_, err := Resolve()
	assert.True(t, errors.Is(err, apperrors.ErrNotBound))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "enabled", StateEnabled.String())
	assert.Equal(t, "disabled", StateDisabled.String())
	assert.Equal(t, "malformed", StateMalformed.String())
	assert.Equal(t, "unknown", State(42).String())
}
