package csvio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/headcount/internal/model"
)

func TestIngest_Basic(t *testing.T) {
	data := []byte("Company Name\nApple\nSamsung\nToyota\n")

	records, err := Ingest(data, "Japan")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Apple", records[0].Name)
	assert.Equal(t, "Samsung", records[1].Name)
	assert.Equal(t, "Toyota", records[2].Name)

	for i, rec := range records {
		assert.Equal(t, i, rec.Ordinal)
		assert.Equal(t, "Japan", rec.Country)
		assert.Equal(t, model.StatusPending, rec.Status)
		assert.Nil(t, rec.EmployeeCount)
	}
}

func TestIngest_ExtraColumns(t *testing.T) {
	data := []byte("Industry,Company Name,Website\nTech,Apple,apple.com\nAuto,Toyota,toyota.com\n")

	records, err := Ingest(data, "Japan")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Apple", records[0].Name)
	assert.Equal(t, "Toyota", records[1].Name)
}

func TestIngest_HeaderCaseInsensitive(t *testing.T) {
	data := []byte(" company name \nApple\n")

	records, err := Ingest(data, "Japan")
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestIngest_UTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Company Name\nApple\n")...)

	records, err := Ingest(data, "Japan")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Apple", records[0].Name)
}

// utf16Bytes encodes an ASCII string as BOM-prefixed UTF-16.
func utf16Bytes(s string, littleEndian bool) []byte {
	var out []byte
	if littleEndian {
		out = []byte{0xFF, 0xFE}
	} else {
		out = []byte{0xFE, 0xFF}
	}
	for _, r := range s {
		if littleEndian {
			out = append(out, byte(r), byte(r>>8))
		} else {
			out = append(out, byte(r>>8), byte(r))
		}
	}
	return out
}

func TestIngest_UTF16LEBOM(t *testing.T) {
	data := utf16Bytes("Company Name\nApple\n", true)

	records, err := Ingest(data, "Japan")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Apple", records[0].Name)
}

func TestIngest_UTF16BEBOM(t *testing.T) {
	data := utf16Bytes("Company Name\nToyota\n", false)

	records, err := Ingest(data, "Japan")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Toyota", records[0].Name)
}

func TestIngest_UndecodableBytes(t *testing.T) {
	data := append([]byte("Company Name\n"), 0x80, 0x81, 0xFE, 0xFA, 'X', 0x80)

	_, err := Ingest(data, "Japan")
	require.Error(t, err)
	assert.True(t, IsInputError(err))
	assert.Contains(t, err.Error(), "not valid utf-8")
}

func TestIngest_UndecodableBytesAfterBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, "Company Name\n"...)
	data = append(data, 0xC3, 0x28) // truncated multi-byte sequence

	_, err := Ingest(data, "Japan")
	require.Error(t, err)
	assert.True(t, IsInputError(err))
}

func TestIngest_SkipsBlankNames(t *testing.T) {
	data := []byte("Company Name\nApple\n\n   \nToyota\n")

	records, err := Ingest(data, "Japan")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Ordinals stay dense across skipped rows.
	assert.Equal(t, 0, records[0].Ordinal)
	assert.Equal(t, 1, records[1].Ordinal)
	assert.Equal(t, "Toyota", records[1].Name)
}

func TestIngest_ShortRows(t *testing.T) {
	data := []byte("Industry,Company Name\nTech,Apple\nAuto\n,Toyota\n")

	records, err := Ingest(data, "Japan")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Apple", records[0].Name)
	assert.Equal(t, "Toyota", records[1].Name)
}

func TestIngest_QuotedNames(t *testing.T) {
	data := []byte("Company Name\n\"Yamada, Sons & Co\"\n")

	records, err := Ingest(data, "Japan")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Yamada, Sons & Co", records[0].Name)
}

func TestIngest_HeaderOnly(t *testing.T) {
	records, err := Ingest([]byte("Company Name\n"), "Japan")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestIngest_EmptyFile(t *testing.T) {
	_, err := Ingest([]byte(""), "Japan")
	require.Error(t, err)
	assert.True(t, IsInputError(err))
	assert.Contains(t, err.Error(), "empty file")
}

func TestIngest_MissingColumn(t *testing.T) {
	_, err := Ingest([]byte("Name,Website\nApple,apple.com\n"), "Japan")
	require.Error(t, err)
	assert.True(t, IsInputError(err))
	assert.Contains(t, err.Error(), "Company Name")
}

func TestIsInputError(t *testing.T) {
	assert.False(t, IsInputError(nil))
	assert.False(t, IsInputError(assert.AnError))
	assert.True(t, IsInputError(inputErrf("bad upload")))
}
