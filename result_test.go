package main

import (
	"bytes"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/bemasher/crcgen/crc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var crc32Params = crc.Params{
	Poly:       0x04C11DB7,
	Width:      32,
	XorIn:      0xFFFFFFFF,
	XorOut:     0xFFFFFFFF,
	ReflectIn:  true,
	ReflectOut: true,
}

func TestResultEncoders(t *testing.T) {
	res := NewResult(crc32Params.Big(), "table", "hex", 9, big.NewInt(0xCBF43926))

	for _, tc := range []struct {
		format string
		expt   string
	}{
		{"plain", "cbf43926\n"},
		{"PLAIN", "cbf43926\n"},
		{"csv", "poly,width,xorin,xorout,reflectin,reflectout,engine,source,length,crc\n" +
			"0x4c11db7,32,0xffffffff,0xffffffff,true,true,table,hex,9,0xcbf43926\n"},
		{"xml", "<Result><Poly>0x4c11db7</Poly><Width>32</Width><XorIn>0xffffffff</XorIn>" +
			"<XorOut>0xffffffff</XorOut><ReflectIn>true</ReflectIn><ReflectOut>true</ReflectOut>" +
			"<Engine>table</Engine><Source>hex</Source><Length>9</Length><CRC>0xcbf43926</CRC></Result>\n"},
	} {
		var buf bytes.Buffer
		enc, err := NewEncoder(tc.format, &buf)
		require.NoError(t, err)
		require.NoError(t, enc.Encode(res))
		assert.Equal(t, tc.expt, buf.String(), tc.format)
	}

	_, err := NewEncoder("gob", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestResultJSON(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder("json", &buf)
	require.NoError(t, err)
	require.NoError(t, enc.Encode(NewResult(crc32Params.Big(), "table", "stdin", 9, big.NewInt(0xCBF43926))))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "0xcbf43926", decoded["crc"])
	assert.Equal(t, "0x4c11db7", decoded["poly"])
	assert.Equal(t, float64(32), decoded["width"])
	assert.Equal(t, "stdin", decoded["source"])
	assert.NotContains(t, decoded, "Value")
}

// No zero padding in the plain output.
func TestResultString(t *testing.T) {
	res := NewResult(crc.Params{Poly: 0x1021, Width: 16}.Big(), "table", "hex", 1, big.NewInt(0x00AB))
	assert.Equal(t, "ab", res.String())
}

func TestResultWide(t *testing.T) {
	poly, _ := new(big.Int).SetString("308c0111011401440411", 16)
	value, _ := new(big.Int).SetString("9ea83f625023801fd612", 16)

	res := NewResult(crc.BigParams{Poly: poly, Width: 82, ReflectIn: true, ReflectOut: true}, "bitwise", "str:UTF-8", 9, value)
	assert.Equal(t, "9ea83f625023801fd612", res.String())
	assert.Equal(t, "0x308c0111011401440411", res.Poly)
	assert.Equal(t, "0x0", res.XorIn)
	assert.Equal(t, "0x9ea83f625023801fd612", res.CRC)
}
