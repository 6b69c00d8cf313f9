package gamerec_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/retrofmt/gamerec"
	"github.com/retrofmt/gamerec/codec"
	"github.com/retrofmt/gamerec/schema"
)

// End-to-end: decode a high-score table entry, edit it, write it back.
func TestHighScoreRoundTrip(t *testing.T) {
	c, err := gamerec.NewCodec(`
<
Uint32      score
string[16]  name
options[6]  options
`, codec.WithTypeTransform("options", codec.Funcs(
		func(raw any) (any, error) {
			b := raw.([]byte)
			return map[string]byte{"difficulty": b[0], "lives": b[1]}, nil
		},
		func(value any) (any, error) {
			m := value.(map[string]byte)
			return []byte{m["difficulty"], m["lives"], 0, 0, 0, 0}, nil
		},
	)))
	require.NoError(t, err)
	require.Equal(t, 26, c.Size())

	entry := append([]byte{0x10, 0x27, 0x00, 0x00}, []byte("ABERNATHY\x00\x00\x00\x00\x00\x00\x00")...)
	entry = append(entry, 2, 3, 0, 0, 0, 0)

	rec, err := c.Unpack(entry)
	require.NoError(t, err)

	score, _ := rec.Get("score")
	require.Equal(t, uint32(10000), score)
	opts, _ := rec.Get("options")
	require.Equal(t, byte(2), opts.(map[string]byte)["difficulty"])

	rec.Update("score", uint32(99999))
	out, err := c.Pack(rec)
	require.NoError(t, err)
	require.Equal(t, []byte{0x9f, 0x86, 0x01, 0x00}, out[:4])
	require.Equal(t, entry[4:], out[4:])
}

func TestOffsetCodecMatchesPlainCodec(t *testing.T) {
	fromOffsets, err := gamerec.NewOffsetCodec(`
<
0x00 Uint32 score
0x04 string[16] name
0x24 options[6] options
0x50 EOF
`)
	require.NoError(t, err)

	plain, err := gamerec.NewCodec(`
<
Uint32      score
string[16]  name
unknown[16] unk1
options[6]  options
unknown[38] unk2
`)
	require.NoError(t, err)

	require.Equal(t, plain.Format(), fromOffsets.Format())

	data := bytes.Repeat([]byte{0xa5}, 0x50)
	a, err := fromOffsets.Unpack(data)
	require.NoError(t, err)
	b, err := plain.Unpack(data)
	require.NoError(t, err)
	require.Equal(t, b.Keys(), a.Keys())
}

func TestFieldCodec(t *testing.T) {
	c, err := gamerec.NewFieldCodec('>', []schema.Field{
		{Name: "magic", SizeAndType: "I"},
		{Name: "count", SizeAndType: "H"},
	})
	require.NoError(t, err)

	rec := gamerec.NewRecord().
		Set("magic", uint32(0xCAFEBABE)).
		Set("count", uint16(3))

	out, err := c.Pack(rec)
	require.NoError(t, err)
	require.Equal(t, []byte{0xca, 0xfe, 0xba, 0xbe, 0x00, 0x03}, out)
}
