package types

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestHexBytes(t *testing.T) {
	c := qt.New(t)

	c.Run("Bytes", func(c *qt.C) {
		hb := HexBytes{0x01, 0x02, 0x03}
		out := (&hb).Bytes()
		c.Assert(out, qt.DeepEquals, []byte{0x01, 0x02, 0x03})

		out[0] = 0xFF
		c.Assert(hb[0], qt.Equals, byte(0xFF))
	})

	c.Run("String", func(c *qt.C) {
		testCases := []struct {
			name string
			in   HexBytes
			want string
		}{
			{name: "nil slice", in: nil, want: "0x"},
			{name: "empty", in: HexBytes{}, want: "0x"},
			{name: "non-empty", in: HexBytes{0x00, 0xAB, 0xCD}, want: "0x00abcd"},
		}
		for _, tc := range testCases {
			c.Run(tc.name, func(c *qt.C) {
				c.Assert((&tc.in).String(), qt.Equals, tc.want)
			})
		}
	})

	c.Run("Clone", func(c *qt.C) {
		in := HexBytes{0xAA, 0xBB}
		out := in.Clone()
		c.Assert(out.Equal(in), qt.IsTrue)
		out[0] = 0x00
		c.Assert(in[0], qt.Equals, byte(0xAA))
		c.Assert(out.Equal(in), qt.IsFalse)
		c.Assert(HexBytes(nil).Clone(), qt.IsNil)
		c.Assert(HexBytes{0x01}.Equal(HexBytes{0x01, 0x02}), qt.IsFalse)
	})

	c.Run("MarshalJSON", func(c *qt.C) {
		testCases := []struct {
			name string
			in   HexBytes
			want string
		}{
			{name: "empty", in: HexBytes{}, want: `"0x"`},
			{name: "non-empty", in: HexBytes{0xDE, 0xAD, 0xBE, 0xEF}, want: `"0xdeadbeef"`},
		}
		for _, tc := range testCases {
			c.Run(tc.name, func(c *qt.C) {
				b, err := json.Marshal(tc.in)
				c.Assert(err, qt.IsNil)
				c.Assert(string(b), qt.Equals, tc.want)
			})
		}
	})

	c.Run("UnmarshalJSON", func(c *qt.C) {
		testCases := []struct {
			name string
			in   string
			want HexBytes
		}{
			{name: "prefixed", in: `"0xdeadbeef"`, want: HexBytes{0xDE, 0xAD, 0xBE, 0xEF}},
			{name: "upper prefix", in: `"0XDEADBEEF"`, want: HexBytes{0xDE, 0xAD, 0xBE, 0xEF}},
			{name: "no prefix", in: `"0102"`, want: HexBytes{0x01, 0x02}},
			{name: "empty", in: `"0x"`, want: HexBytes{}},
		}
		for _, tc := range testCases {
			c.Run(tc.name, func(c *qt.C) {
				var got HexBytes
				c.Assert(json.Unmarshal([]byte(tc.in), &got), qt.IsNil)
				c.Assert(got, qt.DeepEquals, tc.want)
			})
		}

		for _, in := range []string{`"0xzz"`, `"123"`, `12`} {
			var got HexBytes
			c.Assert(json.Unmarshal([]byte(in), &got), qt.IsNotNil)
		}
		var got HexBytes
		c.Assert(got.UnmarshalJSON([]byte(`"0xzz"`)), qt.ErrorIs, ErrSerialization)
		c.Assert(got.UnmarshalJSON([]byte(`x`)), qt.ErrorIs, ErrSerialization)
	})

	c.Run("TrimHex", func(c *qt.C) {
		c.Assert(TrimHex("0xab"), qt.Equals, "ab")
		c.Assert(TrimHex("0Xab"), qt.Equals, "ab")
		c.Assert(TrimHex("ab"), qt.Equals, "ab")
		c.Assert(TrimHex("0"), qt.Equals, "0")
	})
}
