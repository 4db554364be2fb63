package utils

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenUniqID(t *testing.T) {
	SetupIDWorker(1)

	a, b := GenUniqIDStr(), GenUniqIDStr()
	assert.NotEqual(t, a, b)
}

func Test_ParseAcceptLanguage(t *testing.T) {
	res := ParseAcceptLanguage("zh-CN,zh;q=0.9,en-US;q=0.8,en;q=0.7")
	require.Len(t, res, 4)
	assert.Equal(t, "zh-CN", res[0].Tag)
	assert.Equal(t, "en", res[3].Tag)
}

func Test_Crypt(t *testing.T) {
	key := []byte("examplekey123456")
	plaintext := []byte("Sensitive Data to be encrypted")

	ciphertext, err := EncryptCFB(plaintext, key)
	require.NoError(t, err)

	decrypted, err := DecryptCFB(ciphertext, key)
	require.NoError(t, err)

	assert.Equal(t, plaintext, decrypted)
}

func TestConvertSVGToPNG(t *testing.T) {
	raw, err := ConvertSVGToPNG([]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="40" height="20" viewBox="0 0 40 20">
<rect x="0" y="0" width="40" height="20" fill="#ffffff"/>
<path d="M2 2 L38 18" stroke="#000000" stroke-width="2" fill="none"/>
</svg>`))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestMaskString(t *testing.T) {
	assert.Equal(t, "138******5678", MaskString("13812345678", 3, 4))
}

func TestSplitIDs(t *testing.T) {
	ids, err := SplitIDs("1, 2,3,")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)
	assert.Equal(t, "1,2,3", JoinIDs(ids))

	_, err = SplitIDs("a,b")
	assert.Error(t, err)

	_, err = SplitIDs("")
	assert.Error(t, err)
}

func TestCamelToSnake(t *testing.T) {
	assert.Equal(t, "user_name", CamelToSnake("userName"))
	assert.Equal(t, "create_time", CamelToSnake("createTime"))
	assert.Equal(t, "status", CamelToSnake("status"))
	assert.Equal(t, "System", Capitalize("system"))
}

func TestParseDateOrTime(t *testing.T) {
	d, dateOnly, err := ParseDateOrTime("2024-05-01")
	require.NoError(t, err)
	assert.True(t, dateOnly)
	assert.Equal(t, 23, EndOfDay(d).Hour())

	dt, dateOnly, err := ParseDateOrTime("2024-05-01 10:20:30")
	require.NoError(t, err)
	assert.False(t, dateOnly)
	assert.Equal(t, 10, dt.Hour())

	_, _, err = ParseDateOrTime("05/01/2024")
	assert.Error(t, err)
}

func TestFormatMonthDayRange(t *testing.T) {
	st := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	et := time.Date(2024, 5, 30, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "03月01日 - 05月30日", FormatMonthDayRange(&st, &et))
}

func TestStoragePathFromURL(t *testing.T) {
	assert.Equal(t, "museum/media/a.png", StoragePathFromURL("https://static.exb.com/museum/media/a.png", "https://static.exb.com"))
	assert.Equal(t, "", StoragePathFromURL("https://other.com/a.png", "https://static.exb.com"))
	assert.Equal(t, "profile/a.png", StoragePathFromURL("/profile/a.png", ""))
	assert.Equal(t, "https://static.exb.com/museum/a.png", JoinStorageURL("https://static.exb.com/", "/museum/a.png"))
}
