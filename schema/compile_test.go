package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/retrofmt/gamerec/errs"
)

func TestCompile(t *testing.T) {
	layout, err := Compile(`
<
Uint32      score    # the score
string[16]  name
options[6]  options
`)
	require.NoError(t, err)

	require.Equal(t, byte('<'), layout.ByteOrder())
	require.Equal(t, "<I16s6s", layout.Format())
	require.Equal(t, 26, layout.Size())
	require.Equal(t, 3, layout.NumFields())

	score, ok := layout.Field("score")
	require.True(t, ok)
	require.Equal(t, "I", score.SizeAndType)
	require.Equal(t, "the score", score.Comment)

	options, ok := layout.Field("options")
	require.True(t, ok)
	require.Equal(t, "options", options.CustomType)
	require.Equal(t, "6s", options.SizeAndType)
}

func TestCompileDefaultByteOrder(t *testing.T) {
	layout, err := Compile("Uint16 magic\n")
	require.NoError(t, err)
	require.Equal(t, byte('<'), layout.ByteOrder())
	require.Equal(t, "<H", layout.Format())
}

func TestCompileLastByteOrderWins(t *testing.T) {
	layout, err := Compile(`
>
Uint16 magic
<
Uint16 version
`)
	require.NoError(t, err)
	require.Equal(t, byte('<'), layout.ByteOrder())
}

func TestCompileErrors(t *testing.T) {
	t.Run("syntax error aborts build", func(t *testing.T) {
		_, err := Compile("Uint32 score\nbogus\n")
		require.ErrorIs(t, err, errs.ErrSyntax)
		require.ErrorContains(t, err, "line 2")
	})

	t.Run("duplicate field name", func(t *testing.T) {
		_, err := Compile("Uint32 score\nUint16 score\n")
		require.ErrorIs(t, err, errs.ErrDuplicateField)
	})

	t.Run("zero-width field", func(t *testing.T) {
		_, err := Compile("string[0] ghost\n")
		require.ErrorIs(t, err, errs.ErrBadFormat)
	})

	t.Run("empty source", func(t *testing.T) {
		_, err := Compile("\n# comments only\n")
		require.ErrorIs(t, err, errs.ErrEmptyLayout)
	})
}

func TestFromFields(t *testing.T) {
	layout, err := FromFields('>', []Field{
		{Name: "magic", SizeAndType: "H"},
		{Name: "payload", SizeAndType: "32s"},
	})
	require.NoError(t, err)
	require.Equal(t, ">H32s", layout.Format())
	require.Equal(t, 34, layout.Size())
}

func TestFromFieldsErrors(t *testing.T) {
	fields := []Field{{Name: "a", SizeAndType: "I"}}

	_, err := FromFields('x', fields)
	require.ErrorIs(t, err, errs.ErrBadByteOrder)

	_, err = FromFields('<', nil)
	require.ErrorIs(t, err, errs.ErrEmptyLayout)

	_, err = FromFields('<', []Field{{Name: "a", SizeAndType: "Z"}})
	require.ErrorIs(t, err, errs.ErrUnknownType)
}

func TestFingerprintSensitivity(t *testing.T) {
	base, err := Compile("Uint32 a\nUint32 b\n")
	require.NoError(t, err)

	renamed, err := Compile("Uint32 a\nUint32 c\n")
	require.NoError(t, err)
	require.NotEqual(t, base.Fingerprint(), renamed.Fingerprint())

	retyped, err := Compile("Uint32 a\nint32 b\n")
	require.NoError(t, err)
	require.NotEqual(t, base.Fingerprint(), retyped.Fingerprint())

	reordered, err := Compile(">\nUint32 a\nUint32 b\n")
	require.NoError(t, err)
	require.NotEqual(t, base.Fingerprint(), reordered.Fingerprint())

	same, err := Compile("Uint32 a # comments do not matter\nUint32 b\n")
	require.NoError(t, err)
	require.Equal(t, base.Fingerprint(), same.Fingerprint())
}
